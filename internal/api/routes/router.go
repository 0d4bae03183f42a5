package routes

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/costnav/healthcare-cost-navigator/internal/api/handlers"
	"github.com/costnav/healthcare-cost-navigator/internal/api/middleware"
	"github.com/costnav/healthcare-cost-navigator/internal/infrastructure/observability"
	"github.com/costnav/healthcare-cost-navigator/pkg/config"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	providerHandler  *handlers.ProviderHandler
	assistantHandler *handlers.AssistantHandler

	cfg     *config.Config
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	providerHandler *handlers.ProviderHandler,
	assistantHandler *handlers.AssistantHandler,
	cfg *config.Config,
	logger zerolog.Logger,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		providerHandler:  providerHandler,
		assistantHandler: assistantHandler,
		cfg:              cfg,
		logger:           logger,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy","service":"healthcare-cost-navigator"}`)); err != nil {
			return
		}
	})

	r.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"service":"` + r.cfg.App.Name + `","endpoints":["/providers/","/providers/search","/ask/","/health"]}`)); err != nil {
			return
		}
	})

	// Provider search endpoints
	r.mux.HandleFunc("GET /providers/", r.providerHandler.SearchProviders)
	r.mux.HandleFunc("GET /providers/search", r.providerHandler.SearchByText)

	// Natural language endpoint
	r.mux.HandleFunc("POST /ask/", r.assistantHandler.Ask)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(r.logger)(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(r.cfg.Server.AllowedOrigins)(handler)

	return handler
}
