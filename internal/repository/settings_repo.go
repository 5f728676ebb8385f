package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"promptdeck-backend/internal/models"
)

// The settings table holds a single row under this id.
const settingsRowID = "default"

type SettingsRepo struct {
	pool *pgxpool.Pool
}

func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

func (r *SettingsRepo) Get(ctx context.Context) (*models.GlobalSettings, error) {
	s := &models.GlobalSettings{}
	query := `SELECT id, provider, api_key, model, base_url,
		business_description, business_goal, business_background
		FROM global_settings WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, settingsRowID).Scan(
		&s.ID, &s.Provider, &s.APIKey, &s.Model, &s.BaseURL,
		&s.BusinessDescription, &s.BusinessGoal, &s.BusinessBackground,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SettingsRepo) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.GlobalSettings, error) {
	var fields []string
	var args []interface{}
	argIdx := 1

	addField := func(column string, value interface{}) {
		fields = append(fields, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Provider != nil {
		addField("provider", *req.Provider)
	}
	if req.APIKey != nil {
		addField("api_key", *req.APIKey)
	}
	if req.Model != nil {
		addField("model", *req.Model)
	}
	if req.BaseURL != nil {
		addField("base_url", *req.BaseURL)
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

	if len(fields) > 0 {
		query := fmt.Sprintf("UPDATE global_settings SET %s WHERE id = $%d",
			joinFields(fields), argIdx)
		args = append(args, settingsRowID)
		if _, err := r.pool.Exec(ctx, query, args...); err != nil {
			return nil, err
		}
	}

	return r.Get(ctx)
}
