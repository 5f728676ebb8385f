package models

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	BusinessDescription string    `json:"businessDescription"`
	BusinessGoal        string    `json:"businessGoal"`
	BusinessBackground  string    `json:"businessBackground"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type CreateProjectRequest struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	BusinessDescription string `json:"businessDescription"`
	BusinessGoal        string `json:"businessGoal"`
	BusinessBackground  string `json:"businessBackground"`
}

// UpdateProjectRequest carries a partial update; nil fields are left unchanged.
type UpdateProjectRequest struct {
	Name                *string `json:"name"`
	Description         *string `json:"description"`
	BusinessDescription *string `json:"businessDescription"`
	BusinessGoal        *string `json:"businessGoal"`
	BusinessBackground  *string `json:"businessBackground"`
}
