// Package tui is the terminal leaderboard client. It drives a service.View
// with one terminal line per row.
package tui

import (
	"context"
	"net/url"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	service "github.com/okian/rankview/internal/app"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/pkg/logger"
)

// DefaultSearchDebounce is how long typing must pause before the search runs.
const DefaultSearchDebounce = 150 * time.Millisecond

// chromeLines are the lines drawn around the table: title, tabs, search,
// header, status and help.
const chromeLines = 6

// ViewFactory creates leaderboard views. *service.Service implements it.
type ViewFactory interface {
	NewView(ctx context.Context, opts ...service.ViewOption) (*service.View, error)
}

// searchMsg fires when the debounce timer for search sequence seq expires.
type searchMsg struct {
	seq   int
	query string
}

// statusLine is the URL state writer of the terminal client. It shows the
// query string a browser would carry for the selected dataset.
type statusLine struct {
	text   string
	logger logger.Logger
}

// SetDataset implements service.URLStateWriter.
func (s *statusLine) SetDataset(ctx context.Context, ch model.Channel) {
	s.text = "?" + url.Values{"type": {ch.String()}}.Encode()
	s.logger.Info(ctx, "dataset selected", logger.String("type", ch.String()))
}

// Model is the bubbletea model of the leaderboard client.
type Model struct {
	ctx    context.Context
	view   *service.View
	status *statusLine
	styles styles
	logger logger.Logger

	help      help.Model
	search    textinput.Model
	searching bool
	debounce  time.Duration
	searchSeq int

	width  int
	height int
	ready  bool
	err    error
}

type options struct {
	channel  model.Channel
	overscan int
	debounce time.Duration
	logger   logger.Logger
}

// Option applies a configuration option to the Model.
type Option func(*options)

// WithChannel selects the dataset shown first.
func WithChannel(ch model.Channel) Option {
	return func(o *options) {
		if ch.Valid() {
			o.channel = ch
		}
	}
}

// WithOverscan sets the rows materialized beyond the visible lines.
func WithOverscan(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.overscan = n
		}
	}
}

// WithSearchDebounce sets the search debounce. Zero applies every keystroke
// immediately.
func WithSearchDebounce(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New builds the client model over a fresh view from factory.
func New(ctx context.Context, factory ViewFactory, opts ...Option) (Model, error) {
	o := options{
		channel:  model.DefaultChannel,
		debounce: DefaultSearchDebounce,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	status := &statusLine{logger: o.logger}
	view, err := factory.NewView(ctx,
		service.WithRowHeight(1),
		service.WithOverscan(o.overscan),
		service.WithContainerHeight(0),
		service.WithInitialState(model.DefaultViewState().WithDataset(o.channel)),
		service.WithURLStateWriter(status),
		service.WithViewLogger(o.logger),
	)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "search players..."
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 32

	return Model{
		ctx:      ctx,
		view:     view,
		status:   status,
		styles:   defaultStyles(),
		logger:   o.logger,
		help:     help.New(),
		search:   ti,
		debounce: o.debounce,
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.view.Resize(m.bodyLines())
		return m, nil

	case searchMsg:
		if msg.seq == m.searchSeq {
			m.applySearch(msg.query)
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Search):
		m.searching = true
		m.search.SetValue(m.view.State().SearchQuery)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, keys.NextTab):
		next := nextChannel(m.view.State().ActiveDataset)
		m.setErr(m.view.SelectDataset(m.ctx, next))

	case key.Matches(msg, keys.Sort):
		if col, ok := sortColumn(msg.String()); ok {
			m.setErr(m.view.ToggleSort(m.ctx, col))
		}

	case key.Matches(msg, keys.Up):
		m.view.ScrollBy(-1)

	case key.Matches(msg, keys.Down):
		m.view.ScrollBy(1)

	case key.Matches(msg, keys.PageUp):
		m.view.ScrollBy(-max(1, m.bodyLines()))

	case key.Matches(msg, keys.PageDown):
		m.view.ScrollBy(max(1, m.bodyLines()))

	case key.Matches(msg, keys.Home):
		m.view.Scroll(0)

	case key.Matches(msg, keys.End):
		m.view.Scroll(m.view.Window().TotalHeight())

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.view.Resize(m.bodyLines())
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, keys.Apply):
		m.searchSeq++
		m.applySearch(m.search.Value())
		m.closeSearch()
		return m, nil

	case key.Matches(msg, keys.Cancel):
		// Drop the pending debounce so the abandoned query never applies.
		m.searchSeq++
		m.closeSearch()
		return m, nil
	}

	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	query := m.search.Value()
	if query == prev {
		return m, cmd
	}

	m.searchSeq++
	if m.debounce <= 0 {
		m.applySearch(query)
		return m, cmd
	}
	seq := m.searchSeq
	tick := tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return searchMsg{seq: seq, query: query}
	})
	return m, tea.Batch(cmd, tick)
}

func (m *Model) applySearch(query string) {
	if query == m.view.State().SearchQuery {
		return
	}
	m.setErr(m.view.SetSearch(m.ctx, query))
}

func (m *Model) closeSearch() {
	m.searching = false
	m.search.Blur()
}

func (m *Model) setErr(err error) {
	m.err = err
	if err != nil {
		m.logger.Error(m.ctx, "view action failed", logger.Error(err))
	}
}

// bodyLines is the number of table rows that fit on screen.
func (m Model) bodyLines() int {
	lines := m.height - chromeLines
	if m.help.ShowAll {
		lines -= len(keys.FullHelp()[0]) - 1
	}
	return max(0, lines)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading leaderboard..."
	}
	return m.render()
}
