package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MessageReference points a chat message at a prompt or document record.
type MessageReference struct {
	Type  string `json:"type"` // "prompt" or "document"
	ID    string `json:"id"`
	Title string `json:"title"`
}

// MessageMetadata attaches the first structured directive block extracted
// from an assistant reply. Data holds the raw block JSON as produced by the
// model; it is validated only when the client applies it.
type MessageMetadata struct {
	Type string          `json:"type"` // "plan", "preview" or "diff"
	Data json.RawMessage `json:"data"`
}

// Message is a persisted conversation turn.
type Message struct {
	ID         uuid.UUID          `json:"id"`
	SessionID  uuid.UUID          `json:"sessionId"`
	Role       string             `json:"role"`
	Content    string             `json:"content"`
	References []MessageReference `json:"references"`
	Metadata   *MessageMetadata   `json:"metadata"`
	CreatedAt  time.Time          `json:"createdAt"`
}
