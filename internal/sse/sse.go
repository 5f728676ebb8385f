// Package sse adapts a StreamEvent sequence to a server-sent-event response
// body with guaranteed terminal framing.
package sse

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"promptdeck-backend/internal/models"
)

// Encode serializes one event as a single SSE frame. Clients tell event
// kinds apart by the "type" property inside the JSON payload, so no SSE
// "event:" field is used.
func Encode(event models.StreamEvent) []byte {
	data, err := json.Marshal(event)
	if err != nil {
		// StreamEvent values are always marshalable; this is unreachable
		// short of a programming error in the event's Data payload.
		data, _ = json.Marshal(models.StreamEvent{
			Type:    models.EventError,
			Message: fmt.Sprintf("encode event: %v", err),
		})
	}
	return []byte("data: " + string(data) + "\n\n")
}

// Stream writes every upstream event to w as an SSE frame, in order, flushing
// after each one, and guarantees exactly one terminal frame: the upstream's
// own error event if it produced one, otherwise a done frame appended after
// the channel closes. The upstream channel is always drained so the producer
// can finish even when the client has gone away.
func Stream(w http.ResponseWriter, events <-chan models.StreamEvent) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, canFlush := w.(http.Flusher)
	if canFlush {
		flusher.Flush()
	}

	clientGone := false
	terminal := false

	for event := range events {
		if event.Type == models.EventDone || event.Type == models.EventError {
			terminal = true
		}
		if clientGone {
			continue
		}
		if _, err := w.Write(Encode(event)); err != nil {
			log.Printf("[SSE] client write failed, draining stream: %v", err)
			clientGone = true
			continue
		}
		if canFlush {
			flusher.Flush()
		}
	}

	if !terminal && !clientGone {
		w.Write(Encode(models.StreamEvent{Type: models.EventDone}))
		if canFlush {
			flusher.Flush()
		}
	}
}
