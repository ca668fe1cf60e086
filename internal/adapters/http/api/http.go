// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/okian/clout/internal/adapters/ratelimit"
	"github.com/okian/clout/internal/adapters/spotify"
	"github.com/okian/clout/internal/adapters/store"
	"github.com/okian/clout/internal/app"
	"github.com/okian/clout/internal/domain/aggregate"
	"github.com/okian/clout/internal/domain/model"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps
// the handler layer loosely coupled to the app package.
type Dependencies interface {
	Analyze(ctx context.Context, playlistID, caller string) (model.PlaylistSummary, error)
	Recent(ctx context.Context, limit int) ([]store.Analysis, error)
	Leaderboard(ctx context.Context, limit int) ([]store.Analysis, error)
}

// StatsProvider exposes service statistics for GET /stats.
type StatsProvider interface {
	GetStats() map[string]any
}

// Server wires HTTP routes for the business API.
type Server struct {
	analyzeHandler     *AnalyzeHandler
	historyHandler     *HistoryHandler
	leaderboardHandler *LeaderboardHandler
	statsHandler       *StatsHandler
	healthHandler      *HealthHandler
}

// NewServer creates an API server with all handlers. maxLimit caps the
// limit query parameter on list endpoints.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		analyzeHandler:     NewAnalyzeHandler(deps),
		historyHandler:     NewHistoryHandler(deps, maxLimit),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		statsHandler:       NewStatsHandler(statsProvider),
		healthHandler:      NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
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

// writeDomainError maps known sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, spotify.ErrNotFound):
		writeError(w, http.StatusNotFound, "playlist_not_found", err)
	case errors.Is(err, app.ErrBusy):
		writeError(w, http.StatusConflict, "analysis_in_progress", err)
	case errors.Is(err, aggregate.ErrNoValidTracks):
		writeError(w, http.StatusUnprocessableEntity, "no_valid_tracks", err)
	case errors.Is(err, ratelimit.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "rate_limited", err)
	case errors.Is(err, ratelimit.ErrTimedOut):
		writeError(w, http.StatusServiceUnavailable, "timed_out", err)
	case errors.Is(err, spotify.ErrUnauthorized), errors.Is(err, spotify.ErrFetch):
		writeError(w, http.StatusBadGateway, "upstream_error", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// callerID identifies the requester for throttling: an explicit
// X-Caller header wins, else the remote host.
func callerID(r *http.Request) string {
	if caller := r.Header.Get("X-Caller"); caller != "" {
		return caller
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
