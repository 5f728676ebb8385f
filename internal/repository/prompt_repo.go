package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"promptdeck-backend/internal/models"
)

type PromptRepo struct {
	pool *pgxpool.Pool
}

func NewPromptRepo(pool *pgxpool.Pool) *PromptRepo {
	return &PromptRepo{pool: pool}
}

const promptColumns = `id, project_id, title, content, description, tags, variables, version, status, created_at, updated_at`

func scanPrompt(row pgx.Row) (*models.Prompt, error) {
	p := &models.Prompt{}
	var tagsJSON, variablesJSON []byte

	err := row.Scan(
		&p.ID, &p.ProjectID, &p.Title, &p.Content, &p.Description,
		&tagsJSON, &variablesJSON, &p.Version, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Tags = []string{}
	p.Variables = []models.PromptVariable{}
	json.Unmarshal(tagsJSON, &p.Tags)
	json.Unmarshal(variablesJSON, &p.Variables)
	return p, nil
}

func (r *PromptRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Prompt, error) {
	query := fmt.Sprintf(`SELECT %s FROM prompts WHERE project_id = $1 ORDER BY created_at DESC`, promptColumns)
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prompts := []*models.Prompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

func (r *PromptRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	query := fmt.Sprintf(`SELECT %s FROM prompts WHERE id = $1`, promptColumns)
	return scanPrompt(r.pool.QueryRow(ctx, query, id))
}

// Create inserts the prompt together with its initial version row.
func (r *PromptRepo) Create(ctx context.Context, projectID uuid.UUID, req *models.CreatePromptRequest) (*models.Prompt, error) {
	p := &models.Prompt{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		Tags:        req.Tags,
		Variables:   req.Variables,
		Version:     1,
		Status:      req.Status,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Variables == nil {
		p.Variables = []models.PromptVariable{}
	}
	if p.Status == "" {
		p.Status = models.PromptStatusDraft
	}

	tagsJSON, _ := json.Marshal(p.Tags)
	variablesJSON, _ := json.Marshal(p.Variables)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `INSERT INTO prompts (id, project_id, title, content, description, tags, variables, version, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at, updated_at`,
		p.ID, p.ProjectID, p.Title, p.Content, p.Description, tagsJSON, variablesJSON, p.Version, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `INSERT INTO prompt_versions (id, prompt_id, version, content, change_note)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), p.ID, 1, p.Content, "Initial version",
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies a partial update. When the content actually changes, the
// version counter is bumped and a prompt_versions row is recorded, linked to
// sessionID when the change came from an agent chat.
func (r *PromptRepo) Update(ctx context.Context, id uuid.UUID, req *models.UpdatePromptRequest, sessionID *uuid.UUID) (*models.Prompt, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	contentChanged := req.Content != nil && *req.Content != existing.Content

	fields := []string{"updated_at = NOW()"}
	var args []interface{}
	argIdx := 1

	addField := func(column string, value interface{}) {
		fields = append(fields, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Title != nil {
		addField("title", *req.Title)
	}
	if req.Content != nil {
		addField("content", *req.Content)
	}
	if req.Description != nil {
		addField("description", *req.Description)
	}
	if req.Tags != nil {
		tagsJSON, _ := json.Marshal(*req.Tags)
		addField("tags", tagsJSON)
	}
	if req.Variables != nil {
		variablesJSON, _ := json.Marshal(*req.Variables)
		addField("variables", variablesJSON)
	}
	if req.Status != nil {
		addField("status", *req.Status)
	}

	newVersion := existing.Version
	if contentChanged {
		newVersion++
		addField("version", newVersion)
	}

	query := fmt.Sprintf("UPDATE prompts SET %s WHERE id = $%d", joinFields(fields), argIdx)
	args = append(args, id)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, err
	}

	if contentChanged {
		changeNote := "Content updated"
		if req.ChangeNote != nil && *req.ChangeNote != "" {
			changeNote = *req.ChangeNote
		}
		_, err = tx.Exec(ctx, `INSERT INTO prompt_versions (id, prompt_id, version, content, change_note, session_id)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), id, newVersion, *req.Content, changeNote, sessionID,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *PromptRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM prompts WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PromptRepo) ListVersions(ctx context.Context, promptID uuid.UUID) ([]*models.PromptVersion, error) {
	query := `SELECT id, prompt_id, version, content, change_note, session_id, created_at
		FROM prompt_versions WHERE prompt_id = $1 ORDER BY version DESC`

	rows, err := r.pool.Query(ctx, query, promptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	versions := []*models.PromptVersion{}
	for rows.Next() {
		v := &models.PromptVersion{}
		err := rows.Scan(&v.ID, &v.PromptID, &v.Version, &v.Content, &v.ChangeNote, &v.SessionID, &v.CreatedAt)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
