package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"promptdeck-backend/internal/models"
	"promptdeck-backend/internal/repository"
)

type SettingsHandler struct {
	settings *repository.SettingsRepo
}

func NewSettingsHandler(settings *repository.SettingsRepo) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		log.Printf("[Settings] get failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}
	respondOK(w, http.StatusOK, settings)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	settings, err := h.settings.Update(r.Context(), &req)
	if err != nil {
		log.Printf("[Settings] update failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}
	respondOK(w, http.StatusOK, settings)
}
