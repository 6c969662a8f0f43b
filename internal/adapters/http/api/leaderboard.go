package api

import (
	"context"
	"net/http"

	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/internal/domain/types"
)

// LeaderboardDependencies renders leaderboard pages.
type LeaderboardDependencies interface {
	Render(ctx context.Context, req types.Request) (types.Page, error)
	DefaultChannel() model.Channel
	ViewportHeight() int
	MaxViewportHeight() int
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetLeaderboard handles GET /api/leaderboard?type=&q=&sort=&dir=&offset=&height=
// and returns the rendered window as JSON.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	req, err := ParseRequest(r.URL.Query(), LimitsOf(h.deps))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	page, err := h.deps.Render(r.Context(), req)
	if err != nil {
		if isBadRequest(err) {
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// LimitsOf reads request limits from deps.
func LimitsOf(deps LeaderboardDependencies) Limits {
	return Limits{
		DefaultChannel: deps.DefaultChannel(),
		DefaultHeight:  deps.ViewportHeight(),
		MaxHeight:      deps.MaxViewportHeight(),
	}
}
