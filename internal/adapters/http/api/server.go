// Package api exposes the ranking service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/arenalab/duelrank/internal/domain/model"
	"github.com/arenalab/duelrank/internal/domain/rating"
	"github.com/arenalab/duelrank/internal/domain/scheduler"
	"github.com/arenalab/duelrank/pkg/metrics"
)

// Dependencies bundles the service operations the handlers need.
type Dependencies interface {
	NextPair(ctx context.Context, set, user string) (model.Pair, error)
	SubmitJudgment(ctx context.Context, set, user, pairID string, out model.Outcome) error
	GoBack(ctx context.Context, set, user string) (model.Pair, bool, error)
	Rankings(ctx context.Context, set, user string, limit int) (personal, shared []rating.Entry, err error)
	SetStrategy(ctx context.Context, set, user string, strategy scheduler.Strategy) error
	SetSandbox(user string, on bool)
	Stats() map[string]any
}

// Server wires the HTTP routes for the ranking API.
type Server struct {
	deps     Dependencies
	router   *chi.Mux
	maxLimit int
	mediaDir string
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxRankingLimit caps the rankings ?limit parameter.
func WithMaxRankingLimit(limit int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxLimit = limit
		}
	}
}

// WithMediaDir serves static item images from dir under /media.
func WithMediaDir(dir string) Option {
	return func(s *Server) {
		s.mediaDir = dir
	}
}

// NewServer creates the API server and mounts all routes.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:     deps,
		maxLimit: 500,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", measured("healthz", s.handleHealth))
	r.Get("/stats", measured("stats", s.handleStats))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sets/{set}", func(r chi.Router) {
			r.Get("/pair", measured("pair", s.handleNextPair))
			r.Post("/judgments", measured("judgments", s.handleSubmitJudgment))
			r.Post("/back", measured("back", s.handleGoBack))
			r.Get("/rankings", measured("rankings", s.handleRankings))
			r.Put("/strategy", measured("strategy", s.handleSetStrategy))
		})
		r.Put("/users/{user}/sandbox", measured("sandbox", s.handleSetSandbox))
	})

	if s.mediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(s.mediaDir))))
	}

	s.router = r
	return s
}

// Router returns the mounted handler.
func (s *Server) Router() http.Handler {
	return s.router
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
