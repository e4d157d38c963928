package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gracetownland/OER-AI/internal/config"
	"github.com/gracetownland/OER-AI/internal/llm"
	"github.com/gracetownland/OER-AI/internal/pipeline"
	"github.com/gracetownland/OER-AI/internal/practice"
	"github.com/gracetownland/OER-AI/internal/rag"
)

// Server is the HTTP API server.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	chat         *rag.Service
	generator    *practice.Generator
	llm          *llm.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(
	orch *pipeline.Orchestrator,
	chat *rag.Service,
	generator *practice.Generator,
	llmClient *llm.Client,
	log *slog.Logger,
	cfg config.Config,
) *Server {
	s := &Server{
		orchestrator: orch,
		chat:         chat,
		generator:    generator,
		llm:          llmClient,
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
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/books", s.handleIngestBook)
		r.Get("/api/books/{jobID}/status", s.handleBookStatus)

		r.Post("/api/chat/{sessionID}", s.handleChat)
		r.Post("/api/practice", s.handlePractice)
		r.Post("/api/export/h5p", s.handleExportH5P)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
