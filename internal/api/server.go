package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/veritas-agent/veritas/internal/chat"
	"github.com/veritas-agent/veritas/internal/intent"
	"github.com/veritas-agent/veritas/internal/processor"
	"github.com/veritas-agent/veritas/internal/store"
)

// Server is the console backend: chat, analysis, and batch endpoints for the
// presentation layer.
type Server struct {
	router     *chi.Mux
	port       int
	apiToken   string
	classifier *intent.Classifier
	chat       *chat.Router
	proc       *processor.Processor
	store      *store.Store
	logger     *slog.Logger
}

func NewServer(port int, apiToken string, classifier *intent.Classifier, chatRouter *chat.Router, proc *processor.Processor, st *store.Store, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:     router,
		port:       port,
		apiToken:   apiToken,
		classifier: classifier,
		chat:       chatRouter,
		proc:       proc,
		store:      st,
		logger:     logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/veritas/status", s.status)

	router.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Post("/api/v1/chat", s.handleChat)
		r.Post("/api/v1/analyze", s.handleAnalyze)
		r.Post("/api/v1/batch", s.handleBatch)
		r.Get("/api/v1/reports", s.handleReports)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// requireToken enforces bearer auth when an API token is configured.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+s.apiToken {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":          "veritas",
		"status":         "online",
		"intent_model":   s.classifier.Available(),
		"report_archive": s.store != nil,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
