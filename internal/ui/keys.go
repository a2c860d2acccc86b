package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/aerial/internal/control"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Play    key.Binding
	Pause   key.Binding
	Next    key.Binding
	Prev    key.Binding
	Shuffle key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Play: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "pause"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prev"),
		),
		Shuffle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shuffle"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Play, k.Pause, k.Next, k.Prev, k.Shuffle, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// command maps a key press to a loop command.
func (k keyMap) command(msg tea.KeyMsg) control.Command {
	switch {
	case key.Matches(msg, k.Up):
		return control.MoveSelectionUp
	case key.Matches(msg, k.Down):
		return control.MoveSelectionDown
	case key.Matches(msg, k.Play):
		return control.ConfirmPlaySelected
	case key.Matches(msg, k.Pause):
		return control.TogglePause
	case key.Matches(msg, k.Next):
		return control.NextTrack
	case key.Matches(msg, k.Prev):
		return control.PrevTrack
	case key.Matches(msg, k.Shuffle):
		return control.ToggleShuffle
	case key.Matches(msg, k.Quit):
		return control.Quit
	}
	return control.None
}
