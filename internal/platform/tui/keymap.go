package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/greensort/internal/sorting"
)

// GameKeyMap defines the key bindings for a sorting round.
type GameKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Wet       key.Binding
	Dry       key.Binding
	Hazardous key.Binding
	EWaste    key.Binding
	Start     key.Binding
	Replay    key.Binding
	Scores    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Wet, k.Dry, k.Hazardous, k.EWaste, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Wet, k.Dry, k.Hazardous, k.EWaste},
		{k.Start, k.Replay, k.Scores},
		{k.Help, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "prev item"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next item"),
		),
		Wet: key.NewBinding(
			key.WithKeys("1", "w"),
			key.WithHelp("1/w", "wet"),
		),
		Dry: key.NewBinding(
			key.WithKeys("2", "d"),
			key.WithHelp("2/d", "dry"),
		),
		Hazardous: key.NewBinding(
			key.WithKeys("3", "h"),
			key.WithHelp("3/h", "hazardous"),
		),
		EWaste: key.NewBinding(
			key.WithKeys("4", "e"),
			key.WithHelp("4/e", "e-waste"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter/s", "start"),
		),
		Replay: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "play again"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scoreboard"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Bin returns the bin a drop key targets, or CategoryNone for any other key.
func (k GameKeyMap) Bin(msg tea.KeyMsg) sorting.Category {
	switch {
	case key.Matches(msg, k.Wet):
		return sorting.CategoryWet
	case key.Matches(msg, k.Dry):
		return sorting.CategoryDry
	case key.Matches(msg, k.Hazardous):
		return sorting.CategoryHazardous
	case key.Matches(msg, k.EWaste):
		return sorting.CategoryEWaste
	}
	return sorting.CategoryNone
}
