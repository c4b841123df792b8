package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/bianca-8/reload-rage/internal/httputil"
	"github.com/bianca-8/reload-rage/internal/model"
	"github.com/bianca-8/reload-rage/internal/service"
	"github.com/bianca-8/reload-rage/internal/transport/http/middleware"
)

// APIHandler serves the JSON endpoints under /api.
type APIHandler struct {
	board *service.LeaderboardService
	log   zerolog.Logger
}

func NewAPIHandler(board *service.LeaderboardService, log zerolog.Logger) *APIHandler {
	return &APIHandler{
		board: board,
		log:   log,
	}
}

// Leaderboard returns the top users as a JSON array.
// GET /api/leaderboard
func (h *APIHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.board.TopUsers(r.Context(), model.DefaultLeaderboardSize)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load leaderboard")
		httputil.WriteInternalError(w, "Failed to load leaderboard")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, entries)
}

// TotalViews returns the aggregate view count.
// GET /api/total-views
func (h *APIHandler) TotalViews(w http.ResponseWriter, r *http.Request) {
	total, err := h.board.TotalViews(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to compute total views")
		httputil.WriteInternalError(w, "Failed to compute total views")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"total_views": total})
}

// UserStats returns the calling user's own leaderboard row. The router mounts
// this behind SessionAuth, so an anonymous caller never reaches it.
// GET /api/user-stats
func (h *APIHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	stats, err := h.board.UserStats(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Valid cookie for a user the store no longer has
			httputil.WriteUnauthorized(w, "Not authenticated")
			return
		}
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to load user stats")
		httputil.WriteInternalError(w, "Failed to load user stats")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}
