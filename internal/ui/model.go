package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/aerial/internal/control"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// screenSize is written by the program goroutine and read by the loop.
type screenSize struct {
	mu            sync.Mutex
	width, height int
}

func (s *screenSize) set(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

func (s *screenSize) get() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Model is the Bubbletea model for the aerial TUI. It only forwards key
// presses and draws the frames it is sent; all state lives in the loop.
type Model struct {
	keys     keyMap
	help     help.Model
	commands chan<- control.Command
	size     *screenSize

	view     control.View
	hasView  bool
	width    int
	quitting bool
}

func newModel(commands chan<- control.Command, size *screenSize) Model {
	return Model{
		keys:     defaultKeyMap(),
		help:     help.New(),
		commands: commands,
		size:     size,
		width:    defaultWidth,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("aerial")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.keys.command(msg)
		if cmd == control.None {
			return m, nil
		}
		// Drop the key if the loop has fallen behind.
		select {
		case m.commands <- cmd:
			if cmd == control.Quit {
				m.quitting = true
			}
		default:
		}
		return m, nil

	case viewMsg:
		m.view = control.View(msg)
		m.hasView = true
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.size.set(msg.Width, msg.Height)
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting || !m.hasView {
		return ""
	}
	return strings.Join(Lines(m.view, m.help.View(m.keys), m.width), "\n")
}
