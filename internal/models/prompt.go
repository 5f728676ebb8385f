package models

import (
	"time"

	"github.com/google/uuid"
)

// Prompt statuses.
const (
	PromptStatusDraft    = "draft"
	PromptStatusActive   = "active"
	PromptStatusArchived = "archived"
)

// PromptVariable is a {{placeholder}} declared by a prompt.
type PromptVariable struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

type Prompt struct {
	ID          uuid.UUID        `json:"id"`
	ProjectID   uuid.UUID        `json:"projectId"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Description string           `json:"description"`
	Tags        []string         `json:"tags"`
	Variables   []PromptVariable `json:"variables"`
	Version     int              `json:"version"`
	Status      string           `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// PromptVersion is an immutable snapshot of a prompt's content, recorded on
// every content change. SessionID links versions produced by an agent edit
// back to the chat session that proposed it.
type PromptVersion struct {
	ID         uuid.UUID  `json:"id"`
	PromptID   uuid.UUID  `json:"promptId"`
	Version    int        `json:"version"`
	Content    string     `json:"content"`
	ChangeNote string     `json:"changeNote"`
	SessionID  *uuid.UUID `json:"sessionId"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type CreatePromptRequest struct {
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Description string           `json:"description"`
	Tags        []string         `json:"tags"`
	Variables   []PromptVariable `json:"variables"`
	Status      string           `json:"status"`
}

type UpdatePromptRequest struct {
	Title       *string           `json:"title"`
	Content     *string           `json:"content"`
	Description *string           `json:"description"`
	Tags        *[]string         `json:"tags"`
	Variables   *[]PromptVariable `json:"variables"`
	Status      *string           `json:"status"`
	ChangeNote  *string           `json:"changeNote"`
}
