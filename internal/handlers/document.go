package handlers

import (
	"log"
	"net/http"

	"promptdeck-backend/internal/repository"
)

type DocumentHandler struct {
	documents *repository.DocumentRepo
}

func NewDocumentHandler(documents *repository.DocumentRepo) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	document, err := h.documents.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Document not found")
		return
	}
	respondOK(w, http.StatusOK, document)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	deleted, err := h.documents.Delete(r.Context(), id)
	if err != nil {
		log.Printf("[Documents] delete failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Document not found")
		return
	}
	respondOK(w, http.StatusOK, nil)
}
