package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"promptdeck-backend/internal/models"
	"promptdeck-backend/internal/repository"
)

type PromptHandler struct {
	prompts *repository.PromptRepo
}

func NewPromptHandler(prompts *repository.PromptRepo) *PromptHandler {
	return &PromptHandler{prompts: prompts}
}

func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid prompt ID")
		return
	}

	prompt, err := h.prompts.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Prompt not found")
		return
	}
	respondOK(w, http.StatusOK, prompt)
}

func (h *PromptHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid prompt ID")
		return
	}

	var req models.UpdatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prompt, err := h.prompts.Update(r.Context(), id, &req, nil)
	if err != nil {
		respondError(w, http.StatusNotFound, "Prompt not found")
		return
	}
	respondOK(w, http.StatusOK, prompt)
}

func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid prompt ID")
		return
	}

	deleted, err := h.prompts.Delete(r.Context(), id)
	if err != nil {
		log.Printf("[Prompts] delete failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete prompt")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Prompt not found")
		return
	}
	respondOK(w, http.StatusOK, nil)
}

func (h *PromptHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid prompt ID")
		return
	}

	versions, err := h.prompts.ListVersions(r.Context(), id)
	if err != nil {
		log.Printf("[Prompts] list versions failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch versions")
		return
	}
	respondOK(w, http.StatusOK, versions)
}
