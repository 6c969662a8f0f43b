package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/okian/rankview/internal/domain/model"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	NextTab  key.Binding
	Search   key.Binding
	Sort     key.Binding
	Help     key.Binding
	Quit     key.Binding

	Apply  key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	NextTab:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch leaderboard")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Sort:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "sort column")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

	Apply:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close search")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Search, k.Sort, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.NextTab, k.Search, k.Apply, k.Cancel},
		{k.Sort, k.Help, k.Quit},
	}
}

// sortColumn maps a digit key to the column at that header position.
func sortColumn(s string) (model.Column, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return "", false
	}
	cols := model.Columns()
	i := int(s[0] - '1')
	if i >= len(cols) {
		return "", false
	}
	return cols[i], true
}

// nextChannel returns the tab after ch, wrapping around.
func nextChannel(ch model.Channel) model.Channel {
	chs := model.Channels()
	for i, c := range chs {
		if c == ch {
			return chs[(i+1)%len(chs)]
		}
	}
	return chs[0]
}
