package models

import "encoding/json"

// ChatMessage is a single conversation turn in the shape sent to an LLM.
// It is constructed per request and never persisted.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// BusinessInfo groups the free-text business context the agent must respect.
type BusinessInfo struct {
	Description string `json:"description"`
	Goal        string `json:"goal"`
	Background  string `json:"background"`
}

// AgentContext is the immutable snapshot assembled once per chat request and
// consumed read-only by the prompt builder.
type AgentContext struct {
	GlobalBusiness      BusinessInfo
	ProjectBusiness     BusinessInfo
	ReferencedPrompts   []*Prompt
	ReferencedDocuments []*Document
	SessionHistory      []*Message
	UserMessage         string
}

// Stream event types.
const (
	EventText    = "text"
	EventPlan    = "plan"
	EventPreview = "preview"
	EventDiff    = "diff"
	EventDone    = "done"
	EventError   = "error"
)

// StreamEvent is one item of the agent's outbound event sequence. Exactly one
// field besides Type is set, depending on Type: Content for "text", Data for
// "plan"/"preview"/"diff", Message for "error". Clients tell events apart by
// the "type" property of the encoded JSON.
type StreamEvent struct {
	Type    string      `json:"type"`
	Content string      `json:"content,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// PlanKeyPoint is one ordered step of a modification plan.
type PlanKeyPoint struct {
	Index             int    `json:"index"`
	Description       string `json:"description"`
	Action            string `json:"action"` // "create" or "modify"
	TargetPromptID    string `json:"targetPromptId,omitempty"`
	TargetPromptTitle string `json:"targetPromptTitle"`
}

// PlanData is the payload of a "plan" directive. Status is always emitted as
// "pending"; confirmation or rejection happens client side.
type PlanData struct {
	KeyPoints []PlanKeyPoint `json:"keyPoints"`
	Status    string         `json:"status"` // "pending", "confirmed" or "rejected"
}

// PreviewData is the payload of a "preview" directive: a complete draft for a
// new prompt.
type PreviewData struct {
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Description string           `json:"description"`
	Tags        []string         `json:"tags"`
	Variables   []PromptVariable `json:"variables"`
}

// DiffData is the payload of a "diff" directive: an edit to an existing prompt.
type DiffData struct {
	PromptID   string `json:"promptId"`
	Title      string `json:"title"`
	OldContent string `json:"oldContent"`
	NewContent string `json:"newContent"`
}

// UpdateNotice is the JSON fanned out over redis pub/sub to websocket clients
// watching a project.
type UpdateNotice struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
