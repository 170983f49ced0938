package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/arenalab/duelrank/internal/adapters/catalog"
	"github.com/arenalab/duelrank/internal/app"
	"github.com/arenalab/duelrank/internal/domain/model"
	"github.com/arenalab/duelrank/internal/domain/rating"
	"github.com/arenalab/duelrank/internal/domain/scheduler"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Stats())
}

// handleNextPair handles GET /api/v1/sets/{set}/pair?user=U.
func (s *Server) handleNextPair(w http.ResponseWriter, r *http.Request) {
	set := chi.URLParam(r, "set")
	user := strings.TrimSpace(r.URL.Query().Get("user"))
	if user == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing user"))
		return
	}
	pair, err := s.deps.NextPair(r.Context(), set, user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// judgmentRequest is the body of POST /api/v1/sets/{set}/judgments.
type judgmentRequest struct {
	User    string `json:"user"`
	PairID  string `json:"pair_id"`
	Outcome string `json:"outcome"`
}

func (j judgmentRequest) validate() error {
	switch {
	case strings.TrimSpace(j.User) == "":
		return errors.New("missing user")
	case strings.TrimSpace(j.PairID) == "":
		return errors.New("missing pair_id")
	case strings.TrimSpace(j.Outcome) == "":
		return errors.New("missing outcome")
	}
	return nil
}

// handleSubmitJudgment handles POST /api/v1/sets/{set}/judgments.
func (s *Server) handleSubmitJudgment(w http.ResponseWriter, r *http.Request) {
	set := chi.URLParam(r, "set")
	var req judgmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	outcome, err := model.ParseOutcome(req.Outcome)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := s.deps.SubmitJudgment(r.Context(), set, req.User, req.PairID, outcome); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// backRequest is the body of POST /api/v1/sets/{set}/back.
type backRequest struct {
	User string `json:"user"`
}

// backResponse reports whether a step was undone and, if so, the pair
// now under the cursor.
type backResponse struct {
	Undone bool        `json:"undone"`
	Pair   *model.Pair `json:"pair,omitempty"`
}

// handleGoBack handles POST /api/v1/sets/{set}/back. Going back with no
// history is a no-op, not an error.
func (s *Server) handleGoBack(w http.ResponseWriter, r *http.Request) {
	set := chi.URLParam(r, "set")
	var req backRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid request body"))
		return
	}
	if strings.TrimSpace(req.User) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing user"))
		return
	}
	pair, undone, err := s.deps.GoBack(r.Context(), set, req.User)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := backResponse{Undone: undone}
	if undone {
		resp.Pair = &pair
	}
	writeJSON(w, http.StatusOK, resp)
}

// rankingsResponse carries both orderings of a set.
type rankingsResponse struct {
	Personal []rating.Entry `json:"personal"`
	Shared   []rating.Entry `json:"shared"`
}

// handleRankings handles GET /api/v1/sets/{set}/rankings?user=U&limit=N.
func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	set := chi.URLParam(r, "set")
	user := strings.TrimSpace(r.URL.Query().Get("user"))
	if user == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing user"))
		return
	}
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid limit"))
			return
		}
		if n > s.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", errors.New("limit exceeds maximum"))
			return
		}
		limit = n
	}
	personal, shared, err := s.deps.Rankings(r.Context(), set, user, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rankingsResponse{Personal: personal, Shared: shared})
}

// strategyRequest is the body of PUT /api/v1/sets/{set}/strategy.
type strategyRequest struct {
	User     string `json:"user"`
	Strategy string `json:"strategy"`
}

// handleSetStrategy handles PUT /api/v1/sets/{set}/strategy.
func (s *Server) handleSetStrategy(w http.ResponseWriter, r *http.Request) {
	set := chi.URLParam(r, "set")
	var req strategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid request body"))
		return
	}
	if strings.TrimSpace(req.User) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing user"))
		return
	}
	strategy, err := scheduler.ParseStrategy(req.Strategy)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := s.deps.SetStrategy(r.Context(), set, req.User, strategy); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// sandboxRequest is the body of PUT /api/v1/users/{user}/sandbox.
type sandboxRequest struct {
	Enabled bool `json:"enabled"`
}

// handleSetSandbox handles PUT /api/v1/users/{user}/sandbox.
func (s *Server) handleSetSandbox(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	var req sandboxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid request body"))
		return
	}
	s.deps.SetSandbox(user, req.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// writeServiceError maps service errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrSetNotFound):
		writeError(w, http.StatusNotFound, "set_not_found", err)
	case errors.Is(err, rating.ErrUnknownItem):
		writeError(w, http.StatusUnprocessableEntity, "unknown_item", err)
	case errors.Is(err, scheduler.ErrInsufficientItems):
		writeError(w, http.StatusConflict, "insufficient_items", err)
	case errors.Is(err, app.ErrStalePair):
		writeError(w, http.StatusConflict, "stale_pair", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
