package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/hevyplan/internal/models"
	"github.com/claude/hevyplan/internal/planner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Planner is the part of planner.Planner the HTTP API exposes.
type Planner interface {
	Run(ctx context.Context, prefs *models.Preferences) (*planner.Result, error)
	Preview(ctx context.Context, prefs *models.Preferences) (*planner.Result, error)
	Lookup(ctx context.Context, apiKey, name string, limit int) (*planner.Lookup, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	plans  Planner
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// leaves the API open; tsnet or the network handles access then.
func New(plans Planner, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		plans:  plans,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetMCP mounts an MCP endpoint at /mcp behind the same access key as the API.
func (s *Server) SetMCP(h http.Handler) {
	if s.apiKey != "" {
		h = APIKeyAuth(s.apiKey)(h)
	}
	s.router.Handle("/mcp", h)
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}
		r.Post("/api/generate-workout", s.handleGenerateWorkout)
		r.Post("/api/v1/plans", s.handlePlan)
		r.Post("/api/v1/preview", s.handlePreview)
		r.Post("/api/v1/resolve", s.handleResolve)
		r.Get("/api/v1/aliases", s.handleAliases)
	})
}
