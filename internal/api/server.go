// Package api exposes the HTTP surface: uploads, job control, notes
// retrieval and service stats.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndelvaux/notesmith/internal/config"
	"github.com/ndelvaux/notesmith/internal/enrich"
	"github.com/ndelvaux/notesmith/internal/pipeline"
)

// Server is the HTTP API server for notesmith.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	llm          *enrich.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, llm *enrich.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		llm:          llm,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.NotesmithAPIKey, s.log))

		r.Post("/api/upload", s.handleUpload)
		r.Post("/api/process", s.handleProcess)
		r.Get("/api/jobs", s.handleListJobs)
		r.Get("/api/jobs/{jobID}/status", s.handleJobStatus)
		r.Delete("/api/jobs/cleanup", s.handleCleanup)

		r.Get("/api/notes/{notesID}", s.handleNotes)
		r.Get("/api/notes/{notesID}/markdown", s.handleNotesMarkdown)
		r.Get("/api/notes/{notesID}/preview", s.handleNotesPreview)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
