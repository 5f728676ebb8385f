package agent

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// Block is one structured directive extracted from model output. Raw holds
// the block JSON exactly as the model produced it; Type is the value of its
// "type" field, empty when absent.
type Block struct {
	Type string
	Raw  json.RawMessage
}

// ParsedOutput is the result of scanning a transcript: the directive blocks
// in order of appearance, and the prose left over once their spans are
// removed.
type ParsedOutput struct {
	Blocks    []Block
	PlainText string
}

var (
	fencedJSONRe = regexp.MustCompile("(?s)```json[ \t]*\n?(.*?)\n?[ \t]*```")

	// Best-effort match of a bare directive object when the model forgot the
	// fence. Tolerates one trailing brace of nesting.
	bareJSONRe = regexp.MustCompile(`(?s)\{\s*"type"\s*:\s*"(?:plan|preview|diff)".*?\}(?:\s*\})?`)
)

// ParseAgentOutput extracts zero or more directive blocks embedded in
// free-form model text. Fenced ```json blocks are the primary format; bare
// objects are a fallback that only runs when no fenced block parsed. Spans
// that fail strict JSON parsing are left in place as prose, never reported
// as errors. Pure function of its input.
func ParseAgentOutput(text string) ParsedOutput {
	blocks, spans := extractFenced(text)

	if len(blocks) == 0 {
		blocks, spans = extractBare(text)
	}

	return ParsedOutput{
		Blocks:    blocks,
		PlainText: removeSpans(text, spans),
	}
}

func extractFenced(text string) ([]Block, [][2]int) {
	var blocks []Block
	var spans [][2]int

	for _, m := range fencedJSONRe.FindAllStringSubmatchIndex(text, -1) {
		interior := text[m[2]:m[3]]
		block, ok := parseBlock(interior)
		if !ok {
			continue
		}
		blocks = append(blocks, block)
		spans = append(spans, [2]int{m[0], m[1]})
	}
	return blocks, spans
}

func extractBare(text string) ([]Block, [][2]int) {
	var blocks []Block
	var spans [][2]int

	for _, m := range bareJSONRe.FindAllStringIndex(text, -1) {
		block, ok := parseBlock(text[m[0]:m[1]])
		if !ok {
			continue
		}
		blocks = append(blocks, block)
		spans = append(spans, [2]int{m[0], m[1]})
	}
	return blocks, spans
}

// parseBlock accepts only strict JSON objects.
func parseBlock(raw string) (Block, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return Block{}, false
	}

	var blockType string
	if t, ok := obj["type"]; ok {
		json.Unmarshal(t, &blockType)
	}

	return Block{Type: blockType, Raw: json.RawMessage(raw)}, true
}

// removeSpans returns text with the given half-open spans deleted and the
// remainder trimmed.
func removeSpans(text string, spans [][2]int) string {
	if len(spans) == 0 {
		return strings.TrimSpace(text)
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })

	var b strings.Builder
	pos := 0
	for _, span := range spans {
		if span[0] > pos {
			b.WriteString(text[pos:span[0]])
		}
		pos = span[1]
	}
	if pos < len(text) {
		b.WriteString(text[pos:])
	}
	return strings.TrimSpace(b.String())
}
