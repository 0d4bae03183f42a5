package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/costnav/healthcare-cost-navigator/internal/domain/entities"
)

// QuestionAnswerer defines the handler dependency for natural language
// questions.
type QuestionAnswerer interface {
	Ask(ctx context.Context, question string) (*entities.AssistantResponse, error)
}

// AssistantHandler handles natural language question requests
type AssistantHandler struct {
	service QuestionAnswerer
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(service QuestionAnswerer) *AssistantHandler {
	return &AssistantHandler{service: service}
}

type askRequest struct {
	Question *string `json:"question"`
}

// Ask handles POST /ask/
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "request body must be JSON")
		return
	}
	// a missing field is a malformed request, an empty question is a
	// business rule violation handled below as 400
	if req.Question == nil {
		respondWithError(w, http.StatusUnprocessableEntity, "question field is required")
		return
	}

	response, err := h.service.Ask(r.Context(), *req.Question)
	if err != nil {
		respondWithServiceError(w, err, "failed to process question")
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}
