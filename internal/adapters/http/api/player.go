package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/internal/domain/types"
)

// PlayerDependencies resolves single players.
type PlayerDependencies interface {
	Lookup(ctx context.Context, ch model.Channel, id string) (types.Row, error)
}

// PlayerHandler handles player requests.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// HandleGetPlayer handles GET /api/players/{id}?type= requests.
func (h *PlayerHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	ch, _ := model.ParseChannel(r.URL.Query().Get(ParamType))

	row, err := h.deps.Lookup(r.Context(), ch, id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, row)
}
