package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"promptdeck-backend/internal/models"
)

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

const projectColumns = `id, name, description, business_description, business_goal, business_background, created_at, updated_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Description,
		&p.BusinessDescription, &p.BusinessGoal, &p.BusinessBackground,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects ORDER BY created_at DESC`, projectColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns)
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *ProjectRepo) Create(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	p := &models.Project{
		ID:                  uuid.New(),
		Name:                req.Name,
		Description:         req.Description,
		BusinessDescription: req.BusinessDescription,
		BusinessGoal:        req.BusinessGoal,
		BusinessBackground:  req.BusinessBackground,
	}

	query := `INSERT INTO projects (id, name, description, business_description, business_goal, business_background)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.BusinessDescription, p.BusinessGoal, p.BusinessBackground,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, req *models.UpdateProjectRequest) (*models.Project, error) {
	fields := []string{"updated_at = NOW()"}
	var args []interface{}
	argIdx := 1

	addField := func(column string, value interface{}) {
		fields = append(fields, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Name != nil {
		addField("name", *req.Name)
	}
	if req.Description != nil {
		addField("description", *req.Description)
	}
	if req.BusinessDescription != nil {
		addField("business_description", *req.BusinessDescription)
	}
	if req.BusinessGoal != nil {
		addField("business_goal", *req.BusinessGoal)
	}
	if req.BusinessBackground != nil {
		addField("business_background", *req.BusinessBackground)
	}

	query := fmt.Sprintf("UPDATE projects SET %s WHERE id = $%d", joinFields(fields), argIdx)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
