package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"promptdeck-backend/internal/models"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

const sessionColumns = `id, project_id, title, created_at, updated_at`

func scanSession(row pgx.Row) (*models.Session, error) {
	s := &models.Session{}
	err := row.Scan(&s.ID, &s.ProjectID, &s.Title, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE project_id = $1 ORDER BY updated_at DESC`, sessionColumns)
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []*models.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1`, sessionColumns)
	return scanSession(r.pool.QueryRow(ctx, query, id))
}

func (r *SessionRepo) Create(ctx context.Context, projectID uuid.UUID, title string) (*models.Session, error) {
	s := &models.Session{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     title,
	}

	query := `INSERT INTO sessions (id, project_id, title)
		VALUES ($1, $2, $3) RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, s.ID, s.ProjectID, s.Title).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepo) Rename(ctx context.Context, id uuid.UUID, title string) (*models.Session, error) {
	tag, err := r.pool.Exec(ctx, "UPDATE sessions SET title = $1, updated_at = NOW() WHERE id = $2", title, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

// Touch bumps updated_at so the session sorts to the top of its project's
// list after new chat activity.
func (r *SessionRepo) Touch(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE sessions SET updated_at = NOW() WHERE id = $1", id)
	return err
}

func (r *SessionRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM sessions WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
