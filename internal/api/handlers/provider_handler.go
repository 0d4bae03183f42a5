package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/costnav/healthcare-cost-navigator/internal/application/services"
	"github.com/costnav/healthcare-cost-navigator/internal/domain/entities"
	apperrors "github.com/costnav/healthcare-cost-navigator/pkg/errors"
)

// ProviderSearcher defines the handler dependency for provider search.
type ProviderSearcher interface {
	SearchProviders(ctx context.Context, params services.ProviderSearchParams) ([]*entities.ProviderResult, error)
	SearchByText(ctx context.Context, params services.TextSearchParams) ([]*entities.ProviderResult, error)
}

// ProviderHandler handles provider search requests
type ProviderHandler struct {
	service ProviderSearcher
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(service ProviderSearcher) *ProviderHandler {
	return &ProviderHandler{service: service}
}

// SearchProviders handles GET /providers/
func (h *ProviderHandler) SearchProviders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := services.ProviderSearchParams{
		ZipCode: query.Get("zip_code"),
		SortBy:  query.Get("sort_by"),
	}

	if raw := query.Get("drg"); raw != "" {
		drg, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "drg must be an integer")
			return
		}
		params.DRG = &drg
	}

	if raw := query.Get("radius_km"); raw != "" {
		radius, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "radius_km must be an integer")
			return
		}
		params.RadiusKM = &radius
	}

	results, err := h.service.SearchProviders(r.Context(), params)
	if err != nil {
		respondWithServiceError(w, err, "failed to search providers")
		return
	}

	respondWithResults(w, results)
}

// SearchByText handles GET /providers/search
func (h *ProviderHandler) SearchByText(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := services.TextSearchParams{
		SearchText: query.Get("q"),
		ZipCode:    query.Get("zip_code"),
	}
	if params.SearchText == "" {
		respondWithError(w, http.StatusBadRequest, "q is required")
		return
	}

	if raw := query.Get("radius_km"); raw != "" {
		radius, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "radius_km must be an integer")
			return
		}
		params.RadiusKM = &radius
	}

	results, err := h.service.SearchByText(r.Context(), params)
	if err != nil {
		respondWithServiceError(w, err, "failed to search providers")
		return
	}

	respondWithResults(w, results)
}

// respondWithResults always serializes an array, a nil slice must not render
// as JSON null.
func respondWithResults(w http.ResponseWriter, results []*entities.ProviderResult) {
	if results == nil {
		results = []*entities.ProviderResult{}
	}
	respondWithJSON(w, http.StatusOK, results)
}

func respondWithServiceError(w http.ResponseWriter, err error, fallbackMessage string) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
			return
		}
	}
	respondWithError(w, http.StatusInternalServerError, fallbackMessage)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
