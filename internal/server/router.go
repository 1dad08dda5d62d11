package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/text-warden/internal/analysis"
	"github.com/sevigo/text-warden/internal/server/handler"
)

// NewRouter creates and configures a new HTTP router with middleware and API routes.
func NewRouter(orch *analysis.Orchestrator, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	h := handler.NewAnalysisHandler(orch, logger)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/events", h.Events)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Use(middleware.AllowContentType("application/json"))

			r.Post("/analysis", h.Analyze)
			r.Get("/analysis", h.Get)
			r.Put("/options", h.UpdateOptions)
			r.Get("/linting/regions", h.Regions)
			r.Put("/linting/region", h.UpdateRegion)
		})
	})

	return r
}
