package service

import (
	"context"
	"fmt"

	"github.com/okian/rankview/internal/adapters/repository"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/internal/domain/types"
	"github.com/okian/rankview/internal/domain/window"
	"github.com/okian/rankview/pkg/logger"
	"github.com/okian/rankview/pkg/metrics"
)

// Default view geometry.
const (
	DefaultRowHeight      = 39
	DefaultOverscan       = 12
	DefaultViewportHeight = 600
)

// Action names as reported to metrics.
const (
	actionSelect  = "select_dataset"
	actionSearch  = "search"
	actionSort    = "toggle_sort"
	actionScroll  = "scroll"
	actionResize  = "resize"
	actionRestore = "restore"
)

// URLStateWriter persists the selected dataset outside the view, e.g. as the
// type query parameter of the page URL.
type URLStateWriter interface {
	SetDataset(ctx context.Context, ch model.Channel)
}

// URLStateWriterFunc adapts a function to URLStateWriter.
type URLStateWriterFunc func(ctx context.Context, ch model.Channel)

// SetDataset implements URLStateWriter.
func (f URLStateWriterFunc) SetDataset(ctx context.Context, ch model.Channel) { f(ctx, ch) }

type nopURLStateWriter struct{}

func (nopURLStateWriter) SetDataset(context.Context, model.Channel) {}

// View is the leaderboard view controller. It owns the view state, the scroll
// offset and the container height, and keeps the derived list and the window
// in sync with them.
//
// A View is not safe for concurrent use; give each terminal session or HTTP
// request its own.
type View struct {
	pipeline *Pipeline

	state           model.ViewState
	scrollOffset    int
	containerHeight int

	rowHeight int
	overscan  int
	hotStreak int

	derived  Derived
	geometry window.Geometry

	urlWriter URLStateWriter
	metrics   *metrics.Manager
	logger    logger.Logger
}

// ViewOption applies a configuration option to the View.
type ViewOption func(*View)

// WithRowHeight sets the fixed row height. Non-positive values are ignored.
func WithRowHeight(h int) ViewOption {
	return func(v *View) {
		if h > 0 {
			v.rowHeight = h
		}
	}
}

// WithOverscan sets the rows rendered beyond each viewport edge.
func WithOverscan(n int) ViewOption {
	return func(v *View) {
		if n >= 0 {
			v.overscan = n
		}
	}
}

// WithContainerHeight sets the initial viewport height.
func WithContainerHeight(h int) ViewOption {
	return func(v *View) {
		if h >= 0 {
			v.containerHeight = h
		}
	}
}

// WithViewHotStreak sets the streak that earns the hot-streak badge.
func WithViewHotStreak(n int) ViewOption {
	return func(v *View) {
		v.hotStreak = n
	}
}

// WithInitialState starts the view in state instead of the default state.
func WithInitialState(state model.ViewState) ViewOption {
	return func(v *View) {
		v.state = state
	}
}

// WithURLStateWriter sets the collaborator notified on dataset switches.
func WithURLStateWriter(w URLStateWriter) ViewOption {
	return func(v *View) {
		if w != nil {
			v.urlWriter = w
		}
	}
}

// WithViewLogger sets the view logger.
func WithViewLogger(l logger.Logger) ViewOption {
	return func(v *View) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithViewMetrics records view activity on m.
func WithViewMetrics(m *metrics.Manager) ViewOption {
	return func(v *View) {
		if m != nil {
			v.metrics = m
		}
	}
}

// NewView creates a view over pipeline and derives its initial list.
func NewView(ctx context.Context, pipeline *Pipeline, opts ...ViewOption) (*View, error) {
	v := &View{
		pipeline:        pipeline,
		state:           model.DefaultViewState(),
		containerHeight: DefaultViewportHeight,
		rowHeight:       DefaultRowHeight,
		overscan:        DefaultOverscan,
		hotStreak:       types.DefaultHotStreak,
		urlWriter:       nopURLStateWriter{},
		metrics:         metrics.Default(),
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if !v.state.ActiveDataset.Valid() {
		return nil, fmt.Errorf("%w: %q", repository.ErrUnknownChannel, v.state.ActiveDataset)
	}
	if err := v.rederive(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

// State returns the current view state.
func (v *View) State() model.ViewState { return v.state }

// Window returns the current window geometry.
func (v *View) Window() window.Geometry { return v.geometry }

// Derived returns the full filtered and sorted list. It must not be modified.
func (v *View) Derived() []model.Entry { return v.derived.Entries }

// SelectDataset switches the active dataset. Search, sort and scroll are
// kept; the scroll offset is clamped to the new list. The URL state writer
// is told about the switch once the new list is in place.
func (v *View) SelectDataset(ctx context.Context, ch model.Channel) error {
	if !ch.Valid() {
		return fmt.Errorf("%w: %q", repository.ErrUnknownChannel, ch)
	}
	v.metrics.RecordViewAction(actionSelect)
	if err := v.transition(ctx, v.state.WithDataset(ch)); err != nil {
		return err
	}
	v.urlWriter.SetDataset(ctx, ch)
	return nil
}

// SetSearch replaces the search query and re-filters.
func (v *View) SetSearch(ctx context.Context, query string) error {
	v.metrics.RecordViewAction(actionSearch)
	return v.transition(ctx, v.state.WithSearch(query))
}

// ToggleSort activates col ascending, or flips the direction when col is
// already active.
func (v *View) ToggleSort(ctx context.Context, col model.Column) error {
	v.metrics.RecordViewAction(actionSort)
	return v.transition(ctx, v.state.WithToggledSort(col))
}

// Scroll moves the viewport. Only the window is recomputed.
func (v *View) Scroll(offset int) window.Geometry {
	v.metrics.RecordViewAction(actionScroll)
	v.scrollOffset = offset
	v.recomputeWindow()
	return v.geometry
}

// ScrollBy moves the viewport relative to its current offset.
func (v *View) ScrollBy(delta int) window.Geometry {
	return v.Scroll(v.geometry.ScrollOffset + delta)
}

// Resize changes the viewport height. Only the window is recomputed.
func (v *View) Resize(height int) window.Geometry {
	v.metrics.RecordViewAction(actionResize)
	v.containerHeight = max(0, height)
	v.recomputeWindow()
	return v.geometry
}

// Restore replaces state and geometry in one step, as needed by stateless
// surfaces that receive the whole view in every request.
func (v *View) Restore(ctx context.Context, req types.Request) error {
	if !req.State.ActiveDataset.Valid() {
		return fmt.Errorf("%w: %q", repository.ErrUnknownChannel, req.State.ActiveDataset)
	}
	v.metrics.RecordViewAction(actionRestore)
	v.containerHeight = max(0, req.ContainerHeight)
	v.scrollOffset = req.ScrollOffset
	return v.transition(ctx, req.State)
}

// Page renders the rows inside the current window.
func (v *View) Page() types.Page {
	page := types.Page{
		State:       v.state,
		Tabs:        types.Tabs(v.state),
		Headers:     types.Headers(v.state),
		Rows:        make([]types.Row, 0, v.geometry.Rendered()),
		PlayerCount: v.derived.Total,
		MatchCount:  len(v.derived.Entries),
		Window:      v.geometry,
	}
	if len(v.derived.Entries) == 0 {
		page.Empty = true
		page.EmptyMessage = types.EmptyMessage
		return page
	}
	for i := v.geometry.StartIndex; i <= v.geometry.EndIndex; i++ {
		page.Rows = append(page.Rows, types.NewRow(i, v.derived.Entries[i], v.hotStreak))
	}
	return page
}

// Request captures the view as a stateless request.
func (v *View) Request() types.Request {
	return types.Request{
		State:           v.state,
		ScrollOffset:    v.geometry.ScrollOffset,
		ContainerHeight: v.containerHeight,
	}
}

// transition moves to next and re-derives when the derivation key changed.
// On failure the view keeps its previous state.
func (v *View) transition(ctx context.Context, next model.ViewState) error {
	if next.Key() == v.state.Key() {
		v.state = next
		v.recomputeWindow()
		return nil
	}
	prev := v.state
	v.state = next
	if err := v.rederive(ctx); err != nil {
		v.state = prev
		return err
	}
	return nil
}

func (v *View) rederive(ctx context.Context) error {
	d, err := v.pipeline.Derive(ctx, v.state.Key())
	if err != nil {
		v.logger.Warn(ctx, "view derivation failed",
			logger.String("dataset", v.state.ActiveDataset.String()),
			logger.Error(err),
		)
		return err
	}
	v.derived = d
	v.recomputeWindow()
	return nil
}

func (v *View) recomputeWindow() {
	v.geometry = window.Compute(v.scrollOffset, v.containerHeight, v.rowHeight, len(v.derived.Entries), v.overscan)
	v.scrollOffset = v.geometry.ScrollOffset
	v.metrics.RecordWindow(v.geometry.Rendered())
}
