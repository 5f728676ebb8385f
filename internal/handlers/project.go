package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"promptdeck-backend/internal/models"
	"promptdeck-backend/internal/repository"
)

type ProjectHandler struct {
	projects  *repository.ProjectRepo
	prompts   *repository.PromptRepo
	documents *repository.DocumentRepo
	sessions  *repository.SessionRepo
}

func NewProjectHandler(
	projects *repository.ProjectRepo,
	prompts *repository.PromptRepo,
	documents *repository.DocumentRepo,
	sessions *repository.SessionRepo,
) *ProjectHandler {
	return &ProjectHandler{
		projects:  projects,
		prompts:   prompts,
		documents: documents,
		sessions:  sessions,
	}
}

func parseIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		log.Printf("[Projects] list failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}
	respondOK(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, `Field "name" is required`)
		return
	}

	project, err := h.projects.Create(r.Context(), &req)
	if err != nil {
		log.Printf("[Projects] create failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}
	respondOK(w, http.StatusCreated, project)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	project, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	respondOK(w, http.StatusOK, project)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req models.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.projects.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	respondOK(w, http.StatusOK, project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	deleted, err := h.projects.Delete(r.Context(), id)
	if err != nil {
		log.Printf("[Projects] delete failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	respondOK(w, http.StatusOK, nil)
}

// Nested collections.

func (h *ProjectHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	prompts, err := h.prompts.ListByProject(r.Context(), id)
	if err != nil {
		log.Printf("[Projects] list prompts failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch prompts")
		return
	}
	respondOK(w, http.StatusOK, prompts)
}

func (h *ProjectHandler) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req models.CreatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, `Field "title" is required`)
		return
	}
	if req.Content == "" {
		respondError(w, http.StatusBadRequest, `Field "content" is required`)
		return
	}

	prompt, err := h.prompts.Create(r.Context(), id, &req)
	if err != nil {
		log.Printf("[Projects] create prompt failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create prompt")
		return
	}
	respondOK(w, http.StatusCreated, prompt)
}

func (h *ProjectHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	documents, err := h.documents.ListByProject(r.Context(), id)
	if err != nil {
		log.Printf("[Projects] list documents failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch documents")
		return
	}
	respondOK(w, http.StatusOK, documents)
}

func (h *ProjectHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req models.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, `Field "name" is required`)
		return
	}

	document, err := h.documents.Create(r.Context(), id, &req)
	if err != nil {
		log.Printf("[Projects] create document failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create document")
		return
	}
	respondOK(w, http.StatusCreated, document)
}

func (h *ProjectHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	sessions, err := h.sessions.ListByProject(r.Context(), id)
	if err != nil {
		log.Printf("[Projects] list sessions failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch sessions")
		return
	}
	respondOK(w, http.StatusOK, sessions)
}

func (h *ProjectHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.sessions.Create(r.Context(), id, req.Title)
	if err != nil {
		log.Printf("[Projects] create session failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	respondOK(w, http.StatusCreated, session)
}
