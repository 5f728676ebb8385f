package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"promptdeck-backend/internal/models"
)

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

func (r *DocumentRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Document, error) {
	query := `SELECT id, project_id, name, type, content, created_at
		FROM documents WHERE project_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	documents := []*models.Document{}
	for rows.Next() {
		d := &models.Document{}
		err := rows.Scan(&d.ID, &d.ProjectID, &d.Name, &d.Type, &d.Content, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

func (r *DocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	d := &models.Document{}
	query := `SELECT id, project_id, name, type, content, created_at
		FROM documents WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.ProjectID, &d.Name, &d.Type, &d.Content, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DocumentRepo) Create(ctx context.Context, projectID uuid.UUID, req *models.CreateDocumentRequest) (*models.Document, error) {
	d := &models.Document{
		ID:        uuid.New(),
		ProjectID: projectID,
		Name:      req.Name,
		Type:      req.Type,
		Content:   req.Content,
	}
	if d.Type == "" {
		d.Type = "text"
	}

	query := `INSERT INTO documents (id, project_id, name, type, content)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`

	err := r.pool.QueryRow(ctx, query, d.ID, d.ProjectID, d.Name, d.Type, d.Content).Scan(&d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DocumentRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
