package sse

import (
	"bufio"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"promptdeck-backend/internal/models"
)

func decodeFrames(t *testing.T, body string) []models.StreamEvent {
	t.Helper()
	var out []models.StreamEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev models.StreamEvent
		if err := json.Unmarshal([]byte(line[len("data: "):]), &ev); err != nil {
			t.Fatalf("Frame is not valid JSON: %v (%q)", err, line)
		}
		out = append(out, ev)
	}
	return out
}

func TestEncode(t *testing.T) {
	frame := string(Encode(models.StreamEvent{Type: models.EventText, Content: "hi"}))

	if !strings.HasPrefix(frame, "data: ") {
		t.Errorf("Expected data: prefix, got %q", frame)
	}
	if !strings.HasSuffix(frame, "\n\n") {
		t.Errorf("Expected double newline terminator, got %q", frame)
	}
	if !strings.Contains(frame, `"type":"text"`) || !strings.Contains(frame, `"content":"hi"`) {
		t.Errorf("Unexpected frame payload: %q", frame)
	}
	// Unset fields stay out of the payload.
	if strings.Contains(frame, `"message"`) || strings.Contains(frame, `"data"`) {
		t.Errorf("Expected empty fields omitted, got %q", frame)
	}
}

func TestStream_AppendsDoneFrame(t *testing.T) {
	events := make(chan models.StreamEvent, 4)
	events <- models.StreamEvent{Type: models.EventText, Content: "Hel"}
	events <- models.StreamEvent{Type: models.EventText, Content: "lo"}
	close(events)

	rec := httptest.NewRecorder()
	Stream(rec, events)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	frames := decodeFrames(t, rec.Body.String())
	if len(frames) != 3 {
		t.Fatalf("Expected 3 frames, got %d: %+v", len(frames), frames)
	}
	if frames[0].Content != "Hel" || frames[1].Content != "lo" {
		t.Errorf("Unexpected text frames: %+v", frames[:2])
	}
	if frames[2].Type != models.EventDone {
		t.Errorf("Expected trailing done frame, got %+v", frames[2])
	}
}

func TestStream_NoDoneAfterUpstreamError(t *testing.T) {
	events := make(chan models.StreamEvent, 4)
	events <- models.StreamEvent{Type: models.EventText, Content: "partial"}
	events <- models.StreamEvent{Type: models.EventError, Message: "provider failed"}
	close(events)

	rec := httptest.NewRecorder()
	Stream(rec, events)

	frames := decodeFrames(t, rec.Body.String())
	if len(frames) != 2 {
		t.Fatalf("Expected 2 frames, got %d: %+v", len(frames), frames)
	}
	last := frames[len(frames)-1]
	if last.Type != models.EventError || last.Message != "provider failed" {
		t.Errorf("Expected terminal error frame, got %+v", last)
	}
	for _, f := range frames {
		if f.Type == models.EventDone {
			t.Error("Expected no done frame after an error frame")
		}
	}
}

func TestStream_EmptyUpstreamStillTerminates(t *testing.T) {
	events := make(chan models.StreamEvent)
	close(events)

	rec := httptest.NewRecorder()
	Stream(rec, events)

	frames := decodeFrames(t, rec.Body.String())
	if len(frames) != 1 || frames[0].Type != models.EventDone {
		t.Fatalf("Expected exactly one done frame, got %+v", frames)
	}
}

func TestStream_UpstreamDoneNotDuplicated(t *testing.T) {
	events := make(chan models.StreamEvent, 2)
	events <- models.StreamEvent{Type: models.EventDone}
	close(events)

	rec := httptest.NewRecorder()
	Stream(rec, events)

	frames := decodeFrames(t, rec.Body.String())
	if len(frames) != 1 || frames[0].Type != models.EventDone {
		t.Fatalf("Expected a single done frame, got %+v", frames)
	}
}

func TestStream_DirectiveDataSurvivesEncoding(t *testing.T) {
	events := make(chan models.StreamEvent, 2)
	events <- models.StreamEvent{Type: models.EventPlan, Data: models.PlanData{
		KeyPoints: []models.PlanKeyPoint{{Index: 1, Description: "d", Action: "create", TargetPromptTitle: "t"}},
		Status:    "pending",
	}}
	close(events)

	rec := httptest.NewRecorder()
	Stream(rec, events)

	body := rec.Body.String()
	if !strings.Contains(body, `"status":"pending"`) || !strings.Contains(body, `"targetPromptTitle":"t"`) {
		t.Errorf("Expected plan payload in frame, got %q", body)
	}
}
