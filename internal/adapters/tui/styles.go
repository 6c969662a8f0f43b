package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/okian/rankview/internal/domain/types"
)

type styles struct {
	Title     lipgloss.Style
	ActiveTab lipgloss.Style
	Tab       lipgloss.Style
	Badge     lipgloss.Style
	Header    lipgloss.Style
	ActiveCol lipgloss.Style
	Muted     lipgloss.Style
	Empty     lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Hot       lipgloss.Style
	Thumb     lipgloss.Style
	Track     lipgloss.Style

	Medals map[types.Medal]lipgloss.Style
	Tones  map[types.Tone]lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true),
		ActiveTab: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#0077B6")).Padding(0, 1).Bold(true),
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).Padding(0, 1),
		Badge:     lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("#0077B6")).Bold(true),
		ActiveCol: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBD2E")).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F56")).Bold(true),
		Hot:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8700")).Bold(true),
		Thumb:     lipgloss.NewStyle().Foreground(lipgloss.Color("#0077B6")),
		Track:     lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A")),
		Medals: map[types.Medal]lipgloss.Style{
			types.MedalGold:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
			types.MedalSilver: lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0")).Bold(true),
			types.MedalBronze: lipgloss.NewStyle().Foreground(lipgloss.Color("#CD7F32")).Bold(true),
		},
		Tones: map[types.Tone]lipgloss.Style{
			types.ToneGood:    lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
			types.ToneNeutral: lipgloss.NewStyle(),
			types.ToneBad:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F56")),
		},
	}
}
