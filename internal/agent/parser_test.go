package agent

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseAgentOutput_FencedPreview(t *testing.T) {
	text := "Sure, here:\n```json\n{\"type\":\"preview\",\"title\":\"X\",\"content\":\"Y\",\"description\":\"\",\"tags\":[],\"variables\":[]}\n```"

	parsed := ParseAgentOutput(text)

	if len(parsed.Blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(parsed.Blocks))
	}
	if parsed.Blocks[0].Type != "preview" {
		t.Errorf("Expected block type 'preview', got %q", parsed.Blocks[0].Type)
	}

	var preview struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(parsed.Blocks[0].Raw, &preview); err != nil {
		t.Fatalf("Block raw is not valid JSON: %v", err)
	}
	if preview.Title != "X" {
		t.Errorf("Expected title 'X', got %q", preview.Title)
	}

	if parsed.PlainText != "Sure, here:" {
		t.Errorf("Expected plain text 'Sure, here:', got %q", parsed.PlainText)
	}
}

func TestParseAgentOutput_ProseOnly(t *testing.T) {
	text := "  Just a normal sentence about prompts.\n"

	parsed := ParseAgentOutput(text)

	if len(parsed.Blocks) != 0 {
		t.Fatalf("Expected no blocks, got %d", len(parsed.Blocks))
	}
	if parsed.PlainText != strings.TrimSpace(text) {
		t.Errorf("Expected trimmed transcript, got %q", parsed.PlainText)
	}
}

func TestParseAgentOutput_MalformedBlockKeptAsProse(t *testing.T) {
	text := "Attempt:\n```json\n{not valid json}\n```"

	parsed := ParseAgentOutput(text)

	if len(parsed.Blocks) != 0 {
		t.Fatalf("Expected no blocks for malformed JSON, got %d", len(parsed.Blocks))
	}
	if !strings.Contains(parsed.PlainText, "{not valid json}") {
		t.Errorf("Expected malformed fenced text to survive as prose, got %q", parsed.PlainText)
	}
}

func TestParseAgentOutput_TwoBlocksPreserveOrder(t *testing.T) {
	text := "Plan first.\n```json\n{\"type\":\"plan\",\"keyPoints\":[]}\n```\nThen the draft.\n```json\n{\"type\":\"preview\",\"title\":\"T\",\"content\":\"C\"}\n```"

	parsed := ParseAgentOutput(text)

	if len(parsed.Blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(parsed.Blocks))
	}
	if parsed.Blocks[0].Type != "plan" || parsed.Blocks[1].Type != "preview" {
		t.Errorf("Expected order [plan preview], got [%s %s]", parsed.Blocks[0].Type, parsed.Blocks[1].Type)
	}
	if !strings.Contains(parsed.PlainText, "Plan first.") || !strings.Contains(parsed.PlainText, "Then the draft.") {
		t.Errorf("Expected surrounding prose to survive, got %q", parsed.PlainText)
	}
}

func TestParseAgentOutput_BareFallback(t *testing.T) {
	text := `I forgot the fence. {"type":"diff","promptId":"p1","title":"T","oldContent":"a","newContent":"b"} Done.`

	parsed := ParseAgentOutput(text)

	if len(parsed.Blocks) != 1 {
		t.Fatalf("Expected 1 bare block, got %d", len(parsed.Blocks))
	}
	if parsed.Blocks[0].Type != "diff" {
		t.Errorf("Expected block type 'diff', got %q", parsed.Blocks[0].Type)
	}
	if strings.Contains(parsed.PlainText, `"type"`) {
		t.Errorf("Expected bare block stripped from prose, got %q", parsed.PlainText)
	}
}

func TestParseAgentOutput_FallbackSkippedWhenFencedFound(t *testing.T) {
	// The bare object must stay in the prose because a fenced block parsed.
	text := "```json\n{\"type\":\"plan\",\"keyPoints\":[]}\n```\nAnd also {\"type\":\"diff\",\"promptId\":\"x\",\"title\":\"t\",\"oldContent\":\"a\",\"newContent\":\"b\"} inline."

	parsed := ParseAgentOutput(text)

	if len(parsed.Blocks) != 1 {
		t.Fatalf("Expected only the fenced block, got %d", len(parsed.Blocks))
	}
	if parsed.Blocks[0].Type != "plan" {
		t.Errorf("Expected fenced plan block, got %q", parsed.Blocks[0].Type)
	}
	if !strings.Contains(parsed.PlainText, `"type":"diff"`) {
		t.Errorf("Expected bare object left in prose, got %q", parsed.PlainText)
	}
}

func TestParseAgentOutput_Idempotent(t *testing.T) {
	text := "Intro.\n```json\n{\"type\":\"plan\",\"keyPoints\":[{\"index\":1,\"description\":\"d\",\"action\":\"create\",\"targetPromptTitle\":\"t\"}]}\n```\nOutro."

	first := ParseAgentOutput(text)
	if len(first.Blocks) != 1 {
		t.Fatalf("Expected 1 block on first pass, got %d", len(first.Blocks))
	}

	second := ParseAgentOutput(first.PlainText)
	if len(second.Blocks) != 0 {
		t.Errorf("Expected no blocks on second pass, got %d", len(second.Blocks))
	}
	if second.PlainText != first.PlainText {
		t.Errorf("Expected stable plain text, got %q then %q", first.PlainText, second.PlainText)
	}
}

func TestParseAgentOutput_OnlyBlocksYieldsEmptyProse(t *testing.T) {
	text := "```json\n{\"type\":\"preview\",\"title\":\"T\",\"content\":\"C\"}\n```"

	parsed := ParseAgentOutput(text)

	if len(parsed.Blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(parsed.Blocks))
	}
	if parsed.PlainText != "" {
		t.Errorf("Expected empty plain text, got %q", parsed.PlainText)
	}
}

func TestParseAgentOutput_NonObjectFencedJSONSkipped(t *testing.T) {
	text := "List:\n```json\n[1, 2, 3]\n```"

	parsed := ParseAgentOutput(text)

	if len(parsed.Blocks) != 0 {
		t.Fatalf("Expected arrays to be skipped, got %d blocks", len(parsed.Blocks))
	}
}
