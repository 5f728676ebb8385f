package models

// APIResponse is the envelope every JSON endpoint replies with.
// On success Error is null; on failure Data is null and Error carries a
// human-readable message.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   interface{} `json:"error"`
}

// AgentChatRequest is the body of POST /api/v1/ai/chat.
type AgentChatRequest struct {
	SessionID  string             `json:"sessionId"`
	Content    string             `json:"content"`
	References []MessageReference `json:"references"`
}

// ApplyRequest is the body of POST /api/v1/ai/apply: materialize a preview
// (create) or a diff (update) produced by the agent.
type ApplyRequest struct {
	Action      string           `json:"action"` // "create" or "update"
	PromptID    string           `json:"promptId"`
	ProjectID   string           `json:"projectId"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Description string           `json:"description"`
	Tags        []string         `json:"tags"`
	Variables   []PromptVariable `json:"variables"`
	ChangeNote  string           `json:"changeNote"`
	SessionID   string           `json:"sessionId"`
}
