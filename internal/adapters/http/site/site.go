// Package site serves the server-rendered leaderboard page.
package site

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/rankview/internal/adapters/http/api"
	service "github.com/okian/rankview/internal/app"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/internal/domain/types"
	"github.com/okian/rankview/pkg/logger"
)

// Error constants.
var (
	ErrRender = errors.New("site render failed")
)

// Dependencies required by the page handlers.
type Dependencies interface {
	api.LeaderboardDependencies
	api.PlayerDependencies
	NewView(ctx context.Context, opts ...service.ViewOption) (*service.View, error)
	RowHeight() int
}

// paramSelect asks the page to switch dataset and redirect to the canonical URL.
const paramSelect = "select"

// Register attaches the page routes to mux.
func Register(_ context.Context, mux *http.ServeMux, deps Dependencies) {
	if mux == nil {
		panic("mux is nil")
	}
	h := &handler{deps: deps, logger: logger.Named("site")}

	mux.HandleFunc("/{$}", api.MetricsMiddleware(h.handleRoot, "root"))
	mux.HandleFunc("/leaderboard", api.MetricsMiddleware(h.handleLeaderboard, "page"))
	mux.HandleFunc("/players/{id}", api.MetricsMiddleware(h.handlePlayer, "player_page"))
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(Static())))
}

type handler struct {
	deps   Dependencies
	logger logger.Logger
}

// handleRoot redirects to the leaderboard, keeping the query string.
func (h *handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	target := "/leaderboard"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// redirectWriter turns a dataset switch into a See Other to the canonical
// page URL for the new state.
type redirectWriter struct {
	w    http.ResponseWriter
	r    *http.Request
	view func() types.Request
	done bool
}

func (rw *redirectWriter) SetDataset(_ context.Context, _ model.Channel) {
	http.Redirect(rw.w, rw.r, "/leaderboard?"+rw.view().Query().Encode(), http.StatusSeeOther)
	rw.done = true
}

func (h *handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	query := r.URL.Query()

	req, err := api.ParseRequest(query, api.LimitsOf(h.deps))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var view *service.View
	rw := &redirectWriter{w: w, r: r, view: func() types.Request { return view.Request() }}
	view, err = h.deps.NewView(ctx, service.WithInitialState(req.State), service.WithURLStateWriter(rw))
	if err == nil {
		err = view.Restore(ctx, req)
	}
	if err == nil {
		if raw := query.Get(paramSelect); raw != "" {
			ch, _ := model.ParseChannel(raw)
			err = view.SelectDataset(ctx, ch)
		}
	}
	if err != nil {
		h.logger.Error(ctx, "render leaderboard page failed", logger.Error(err))
		http.Error(w, ErrRender.Error(), http.StatusInternalServerError)
		return
	}
	if rw.done {
		return
	}

	data := newPageData(view.Page(), view.Request(), h.deps.RowHeight())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, "leaderboard.html", data); err != nil {
		h.logger.Error(ctx, "execute leaderboard template failed", logger.Error(err))
	}
}

func (h *handler) handlePlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	ch, _ := model.ParseChannel(r.URL.Query().Get(api.ParamType))

	row, err := h.deps.Lookup(ctx, ch, r.PathValue("id"))
	if err != nil {
		if service.IsNotFound(err) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error(ctx, "lookup player failed", logger.Error(err))
		http.Error(w, ErrRender.Error(), http.StatusInternalServerError)
		return
	}

	back := url.Values{api.ParamType: {ch.String()}}
	data := playerData{Row: row, Channel: ch, BackHref: "/leaderboard?" + back.Encode()}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, "player.html", data); err != nil {
		h.logger.Error(ctx, "execute player template failed", logger.Error(err))
	}
}

type link struct {
	Label  string
	Href   string
	Active bool
}

type headerLink struct {
	link
	Indicator string
}

type hiddenField struct {
	Name  string
	Value string
}

type pageData struct {
	types.Page
	RowHeight   int
	Height      int
	TabLinks    []link
	HeaderLinks []headerLink
	Hidden      []hiddenField
	PrevHref    string
	NextHref    string
	ClearHref   string
}

type playerData struct {
	Row      types.Row
	Channel  model.Channel
	BackHref string
}

func pageHref(req types.Request) string {
	return "/leaderboard?" + req.Query().Encode()
}

func newPageData(page types.Page, req types.Request, rowHeight int) pageData {
	d := pageData{Page: page, RowHeight: rowHeight, Height: req.ContainerHeight}

	for _, tab := range page.Tabs {
		next := req
		next.State = next.State.WithDataset(tab.Channel)
		d.TabLinks = append(d.TabLinks, link{Label: tab.Label, Href: pageHref(next), Active: tab.Active})
	}
	for _, hdr := range page.Headers {
		next := req
		next.State = next.State.WithToggledSort(hdr.Column)
		next.ScrollOffset = 0
		d.HeaderLinks = append(d.HeaderLinks, headerLink{
			link:      link{Label: hdr.Label, Href: pageHref(next), Active: hdr.Active},
			Indicator: hdr.Indicator(),
		})
	}

	d.Hidden = append(d.Hidden,
		hiddenField{Name: api.ParamType, Value: req.State.ActiveDataset.String()},
		hiddenField{Name: api.ParamSort, Value: req.State.SortColumn.String()},
		hiddenField{Name: api.ParamDir, Value: req.State.SortDirection.String()},
		hiddenField{Name: api.ParamHeight, Value: strconv.Itoa(req.ContainerHeight)},
	)

	cleared := req
	cleared.State = cleared.State.WithSearch("")
	cleared.ScrollOffset = 0
	d.ClearHref = pageHref(cleared)

	if page.Window.ScrollOffset > 0 {
		prev := req
		prev.ScrollOffset = max(0, page.Window.ScrollOffset-req.ContainerHeight)
		d.PrevHref = pageHref(prev)
	}
	if page.Window.ScrollOffset+req.ContainerHeight < page.Window.TotalHeight() {
		next := req
		next.ScrollOffset = page.Window.ScrollOffset + req.ContainerHeight
		d.NextHref = pageHref(next)
	}
	return d
}
