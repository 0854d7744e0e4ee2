// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	GetByRank(ctx context.Context, start, end int64) ([]Entry, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps        LeaderboardDependencies
	maxRankSpan int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxRankSpan int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:        deps,
		maxRankSpan: maxRankSpan,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?start=&end= requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	start, err := strconv.ParseInt(r.URL.Query().Get("start"), 10, 64)
	if err != nil || start < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	end, err := strconv.ParseInt(r.URL.Query().Get("end"), 10, 64)
	if err != nil || end < start {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if h.maxRankSpan > 0 && end-start+1 > int64(h.maxRankSpan) {
		writeError(w, http.StatusBadRequest, "span_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	entries, err := h.deps.GetByRank(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
