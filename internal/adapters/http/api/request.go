package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/internal/domain/types"
)

// Query parameter names shared by the JSON API and the HTML page.
const (
	ParamType   = "type"
	ParamSearch = "q"
	ParamSort   = "sort"
	ParamDir    = "dir"
	ParamOffset = "offset"
	ParamHeight = "height"
)

// ParseRequest decodes a view request from query parameters.
//
// A missing type selects the configured default and an unrecognised one
// falls back to ranked. Unknown sort columns are kept and sort as identity.
// offset and height must be integers; height must not be negative and is
// capped at the configured maximum.
func ParseRequest(q url.Values, limits Limits) (types.Request, error) {
	const op = "api.parse_request"

	state := model.DefaultViewState()
	if limits.DefaultChannel.Valid() {
		state.ActiveDataset = limits.DefaultChannel
	}
	if raw := q.Get(ParamType); raw != "" {
		state.ActiveDataset, _ = model.ParseChannel(raw)
	}
	state.SearchQuery = q.Get(ParamSearch)
	if raw := strings.TrimSpace(q.Get(ParamSort)); raw != "" {
		state.SortColumn, _ = model.ParseColumn(raw)
	}
	state.SortDirection = model.ParseDirection(q.Get(ParamDir))

	req := types.Request{State: state, ContainerHeight: limits.DefaultHeight}

	if raw := q.Get(ParamOffset); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return types.Request{}, fmt.Errorf("%w: offset %q is not an integer", NewKind(op, ErrBadRequest), raw)
		}
		req.ScrollOffset = n
	}
	if raw := q.Get(ParamHeight); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return types.Request{}, fmt.Errorf("%w: height %q must be a non-negative integer", NewKind(op, ErrBadRequest), raw)
		}
		req.ContainerHeight = n
	}
	if limits.MaxHeight > 0 && req.ContainerHeight > limits.MaxHeight {
		req.ContainerHeight = limits.MaxHeight
	}
	return req, nil
}
