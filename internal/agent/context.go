package agent

import (
	"context"

	"github.com/google/uuid"

	"promptdeck-backend/internal/models"
)

// History beyond this many turns is dropped from the snapshot.
const maxHistoryMessages = 20

// collectContext assembles the immutable per-request snapshot the prompt
// builder renders: global business info from settings, the session's project
// business info, the referenced prompt/document records, and the tail of the
// session history. References that cannot be resolved are skipped.
func (s *Service) collectContext(ctx context.Context, settings *models.GlobalSettings, sessionID uuid.UUID, userMessage string, refs []models.MessageReference) (*models.AgentContext, error) {
	snapshot := &models.AgentContext{
		GlobalBusiness: models.BusinessInfo{
			Description: settings.BusinessDescription,
			Goal:        settings.BusinessGoal,
			Background:  settings.BusinessBackground,
		},
		UserMessage: userMessage,
	}

	if session, err := s.sessions.GetByID(ctx, sessionID); err == nil {
		if project, err := s.projects.GetByID(ctx, session.ProjectID); err == nil {
			snapshot.ProjectBusiness = models.BusinessInfo{
				Description: project.BusinessDescription,
				Goal:        project.BusinessGoal,
				Background:  project.BusinessBackground,
			}
		}
	}

	for _, ref := range refs {
		id, err := uuid.Parse(ref.ID)
		if err != nil {
			continue
		}
		switch ref.Type {
		case "prompt":
			if p, err := s.prompts.GetByID(ctx, id); err == nil {
				snapshot.ReferencedPrompts = append(snapshot.ReferencedPrompts, p)
			}
		case "document":
			if d, err := s.documents.GetByID(ctx, id); err == nil {
				snapshot.ReferencedDocuments = append(snapshot.ReferencedDocuments, d)
			}
		}
	}

	history, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	snapshot.SessionHistory = history

	return snapshot, nil
}
