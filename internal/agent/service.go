package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"promptdeck-backend/internal/models"
	"promptdeck-backend/internal/provider"
)

// Store interfaces the agent consumes from the persistence layer.

type settingsStore interface {
	Get(ctx context.Context) (*models.GlobalSettings, error)
}

type projectStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

type promptStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prompt, error)
}

type documentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
}

type sessionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Touch(ctx context.Context, id uuid.UUID) error
}

type messageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.Message, error)
}

// Service is the agent orchestrator: it owns the chat control loop from
// persisted user turn to persisted assistant turn.
type Service struct {
	settings  settingsStore
	projects  projectStore
	prompts   promptStore
	documents documentStore
	sessions  sessionStore
	messages  messageStore
	redis     *redis.Client

	// newProvider is replaced by tests with a double.
	newProvider func(*models.GlobalSettings) (provider.Provider, error)
}

func NewService(
	settings settingsStore,
	projects projectStore,
	prompts promptStore,
	documents documentStore,
	sessions sessionStore,
	messages messageStore,
	redisClient *redis.Client,
) *Service {
	return &Service{
		settings:    settings,
		projects:    projects,
		prompts:     prompts,
		documents:   documents,
		sessions:    sessions,
		messages:    messages,
		redis:       redisClient,
		newProvider: provider.FromSettings,
	}
}

// HandleChat runs one chat request. The user turn is persisted before this
// returns; a persistence failure there aborts the request without opening a
// stream. On success the returned channel carries the request's StreamEvents
// in order: text fragments as they arrive, then one event per directive
// block, then (only on failure) a terminal error event. The channel is
// closed when the request is finished either way; the SSE relay appends the
// terminal done frame on the normal path.
func (s *Service) HandleChat(ctx context.Context, sessionID uuid.UUID, content string, refs []models.MessageReference) (<-chan models.StreamEvent, error) {
	if refs == nil {
		refs = []models.MessageReference{}
	}

	userMsg := &models.Message{
		SessionID:  sessionID,
		Role:       models.RoleUser,
		Content:    content,
		References: refs,
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	events := make(chan models.StreamEvent, 16)
	go func() {
		defer close(events)
		if err := s.chat(ctx, sessionID, content, refs, events); err != nil {
			log.Printf("[Agent] chat failed for session %s: %v", sessionID, err)
			events <- models.StreamEvent{Type: models.EventError, Message: err.Error()}
		}
	}()
	return events, nil
}

func (s *Service) chat(ctx context.Context, sessionID uuid.UUID, content string, refs []models.MessageReference, events chan<- models.StreamEvent) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	prov, err := s.newProvider(settings)
	if err != nil {
		return err
	}

	snapshot, err := s.collectContext(ctx, settings, sessionID, content, refs)
	if err != nil {
		return fmt.Errorf("collect context: %w", err)
	}

	messages := BuildPlanMessages(snapshot)

	var transcript strings.Builder
	err = prov.ChatStream(ctx, messages, nil, func(delta string) error {
		transcript.WriteString(delta)
		select {
		case events <- models.StreamEvent{Type: models.EventText, Content: delta}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err != nil {
		return err
	}

	raw := transcript.String()
	parsed := ParseAgentOutput(raw)

	for _, block := range parsed.Blocks {
		switch block.Type {
		case models.EventPlan:
			var plan models.PlanData
			json.Unmarshal(block.Raw, &plan)
			// The client decides the plan's fate; whatever status the model
			// claimed is overridden here.
			plan.Status = "pending"
			events <- models.StreamEvent{Type: models.EventPlan, Data: plan}
		case models.EventPreview, models.EventDiff:
			events <- models.StreamEvent{Type: block.Type, Data: block.Raw}
		}
	}

	// A transcript that was nothing but directive blocks still needs a
	// non-empty message body.
	body := parsed.PlainText
	if body == "" {
		body = raw
	}

	var metadata *models.MessageMetadata
	if len(parsed.Blocks) > 0 {
		first := parsed.Blocks[0]
		metadata = &models.MessageMetadata{Type: first.Type, Data: first.Raw}
	}

	assistantMsg := &models.Message{
		SessionID:  sessionID,
		Role:       models.RoleAssistant,
		Content:    body,
		References: []models.MessageReference{},
		Metadata:   metadata,
	}
	if err := s.messages.Create(ctx, assistantMsg); err != nil {
		return fmt.Errorf("save assistant message: %w", err)
	}

	if err := s.sessions.Touch(ctx, sessionID); err != nil {
		log.Printf("[Agent] failed to touch session %s: %v", sessionID, err)
	}
	s.publishSessionUpdated(ctx, sessionID)

	return nil
}

// publishSessionUpdated fans a session-updated notice out to websocket
// clients watching the session's project. Best effort: a missing redis
// client or publish failure never fails the chat.
func (s *Service) publishSessionUpdated(ctx context.Context, sessionID uuid.UUID) {
	if s.redis == nil {
		return
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return
	}

	payload, _ := json.Marshal(map[string]string{"sessionId": sessionID.String()})
	notice, _ := json.Marshal(models.UpdateNotice{
		Type:      "session_updated",
		ProjectID: session.ProjectID.String(),
		Payload:   payload,
	})

	if err := s.redis.Publish(ctx, "project_updates:"+session.ProjectID.String(), string(notice)).Err(); err != nil {
		log.Printf("[Agent] failed to publish session update: %v", err)
	}
}
