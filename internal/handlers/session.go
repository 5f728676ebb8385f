package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"promptdeck-backend/internal/models"
	"promptdeck-backend/internal/repository"
)

type SessionHandler struct {
	sessions *repository.SessionRepo
	messages *repository.MessageRepo
}

func NewSessionHandler(sessions *repository.SessionRepo, messages *repository.MessageRepo) *SessionHandler {
	return &SessionHandler{sessions: sessions, messages: messages}
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	session, err := h.sessions.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	respondOK(w, http.StatusOK, session)
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req models.UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == nil {
		respondError(w, http.StatusBadRequest, `Field "title" is required`)
		return
	}

	session, err := h.sessions.Rename(r.Context(), id, *req.Title)
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	respondOK(w, http.StatusOK, session)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	deleted, err := h.sessions.Delete(r.Context(), id)
	if err != nil {
		log.Printf("[Sessions] delete failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	respondOK(w, http.StatusOK, nil)
}

func (h *SessionHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	messages, err := h.messages.ListBySession(r.Context(), id)
	if err != nil {
		log.Printf("[Sessions] list messages failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	respondOK(w, http.StatusOK, messages)
}
