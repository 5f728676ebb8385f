package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"promptdeck-backend/internal/models"
	"promptdeck-backend/internal/sse"
)

type chatService interface {
	HandleChat(ctx context.Context, sessionID uuid.UUID, content string, refs []models.MessageReference) (<-chan models.StreamEvent, error)
}

type promptApplier interface {
	Create(ctx context.Context, projectID uuid.UUID, req *models.CreatePromptRequest) (*models.Prompt, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdatePromptRequest, sessionID *uuid.UUID) (*models.Prompt, error)
}

type AgentHandler struct {
	agent   chatService
	prompts promptApplier
	redis   *redis.Client
}

func NewAgentHandler(agent chatService, prompts promptApplier, redisClient *redis.Client) *AgentHandler {
	return &AgentHandler{agent: agent, prompts: prompts, redis: redisClient}
}

// Chat streams the agent's answer for a session over SSE. Validation and
// setup failures are plain JSON errors; once the stream is open every
// further failure is reported in-band as an error frame.
func (h *AgentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.AgentChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	if req.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	events, err := h.agent.HandleChat(r.Context(), sessionID, req.Content, req.References)
	if err != nil {
		log.Printf("[Agent] chat setup failed: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sse.Stream(w, events)
}

// Apply materializes a directive the user accepted: create a new prompt from
// a preview, or update an existing one from a diff.
func (h *AgentHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req models.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Action != "create" && req.Action != "update" {
		respondError(w, http.StatusBadRequest, `action must be "create" or "update"`)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	switch req.Action {
	case "create":
		h.applyCreate(w, r, &req)
	case "update":
		h.applyUpdate(w, r, &req)
	}
}

func (h *AgentHandler) applyCreate(w http.ResponseWriter, r *http.Request, req *models.ApplyRequest) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "projectId is required for create")
		return
	}

	prompt, err := h.prompts.Create(r.Context(), projectID, &models.CreatePromptRequest{
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		Tags:        req.Tags,
		Variables:   req.Variables,
		Status:      models.PromptStatusDraft,
	})
	if err != nil {
		log.Printf("[Agent] apply create failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create prompt")
		return
	}

	h.publishPromptNotice(r.Context(), "prompt_created", prompt)
	respondOK(w, http.StatusCreated, prompt)
}

func (h *AgentHandler) applyUpdate(w http.ResponseWriter, r *http.Request, req *models.ApplyRequest) {
	promptID, err := uuid.Parse(req.PromptID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "promptId is required for update")
		return
	}

	var sessionID *uuid.UUID
	if req.SessionID != "" {
		if id, err := uuid.Parse(req.SessionID); err == nil {
			sessionID = &id
		}
	}

	update := &models.UpdatePromptRequest{
		Title:   &req.Title,
		Content: &req.Content,
	}
	if req.Description != "" {
		update.Description = &req.Description
	}
	if req.Tags != nil {
		update.Tags = &req.Tags
	}
	if req.Variables != nil {
		update.Variables = &req.Variables
	}
	if req.ChangeNote != "" {
		update.ChangeNote = &req.ChangeNote
	}

	prompt, err := h.prompts.Update(r.Context(), promptID, update, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Prompt not found")
			return
		}
		log.Printf("[Agent] apply update failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to update prompt")
		return
	}

	h.publishPromptNotice(r.Context(), "prompt_updated", prompt)
	respondOK(w, http.StatusOK, prompt)
}

func (h *AgentHandler) publishPromptNotice(ctx context.Context, noticeType string, prompt *models.Prompt) {
	if h.redis == nil {
		return
	}

	payload, _ := json.Marshal(prompt)
	notice, _ := json.Marshal(models.UpdateNotice{
		Type:      noticeType,
		ProjectID: prompt.ProjectID.String(),
		Payload:   payload,
	})

	if err := h.redis.Publish(ctx, "project_updates:"+prompt.ProjectID.String(), string(notice)).Err(); err != nil {
		log.Printf("[Agent] failed to publish %s notice: %v", noticeType, err)
	}
}
