package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"promptdeck-backend/internal/models"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// Create inserts the message and fills in its generated ID and timestamp.
func (r *MessageRepo) Create(ctx context.Context, msg *models.Message) error {
	msg.ID = uuid.New()
	if msg.References == nil {
		msg.References = []models.MessageReference{}
	}

	referencesJSON, _ := json.Marshal(msg.References)
	var metadataJSON []byte
	if msg.Metadata != nil {
		metadataJSON, _ = json.Marshal(msg.Metadata)
	}

	query := `INSERT INTO messages (id, session_id, role, content, references_json, metadata_json)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		msg.ID, msg.SessionID, msg.Role, msg.Content, referencesJSON, metadataJSON,
	).Scan(&msg.CreatedAt)
}

func (r *MessageRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.Message, error) {
	query := `SELECT id, session_id, role, content, references_json, metadata_json, created_at
		FROM messages WHERE session_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		m := &models.Message{}
		var referencesJSON, metadataJSON []byte

		err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &referencesJSON, &metadataJSON, &m.CreatedAt)
		if err != nil {
			return nil, err
		}

		m.References = []models.MessageReference{}
		json.Unmarshal(referencesJSON, &m.References)
		if len(metadataJSON) > 0 {
			m.Metadata = &models.MessageMetadata{}
			json.Unmarshal(metadataJSON, m.Metadata)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
