package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/olivier-w/aerial/internal/control"
	"github.com/olivier-w/aerial/internal/playback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyMapCommands(t *testing.T) {
	keys := defaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want control.Command
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, control.MoveSelectionUp},
		{runeKey('k'), control.MoveSelectionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, control.MoveSelectionDown},
		{runeKey('j'), control.MoveSelectionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, control.ConfirmPlaySelected},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, control.TogglePause},
		{runeKey('n'), control.NextTrack},
		{runeKey('p'), control.PrevTrack},
		{runeKey('s'), control.ToggleShuffle},
		{runeKey('q'), control.Quit},
		{tea.KeyMsg{Type: tea.KeyEsc}, control.Quit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, control.Quit},
		{runeKey('x'), control.None},
		{tea.KeyMsg{Type: tea.KeyLeft}, control.None},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keys.command(tt.msg), "key %q", tt.msg.String())
	}
}

func newTestModel() (Model, chan control.Command) {
	commands := make(chan control.Command, 4)
	return newModel(commands, &screenSize{}), commands
}

func TestUpdateForwardsCommands(t *testing.T) {
	m, commands := newTestModel()

	next, cmd := m.Update(runeKey('n'))
	assert.Nil(t, cmd)
	assert.Equal(t, control.NextTrack, <-commands)

	next, _ = next.Update(runeKey('x'))
	assert.Empty(t, commands)

	next, _ = next.Update(runeKey('q'))
	assert.Equal(t, control.Quit, <-commands)
	assert.Empty(t, next.View(), "quitting clears the screen")
}

func TestUpdateDropsKeysWhenQueueFull(t *testing.T) {
	commands := make(chan control.Command, 1)
	var m tea.Model = newModel(commands, &screenSize{})

	m, _ = m.Update(runeKey('n'))
	m, _ = m.Update(runeKey('p'))
	assert.Equal(t, control.NextTrack, <-commands)
	assert.Empty(t, commands)
}

func TestDroppedQuitKeepsDrawing(t *testing.T) {
	commands := make(chan control.Command, 1)
	var m tea.Model = newModel(commands, &screenSize{})
	m, _ = m.Update(viewMsg(sampleView()))

	m, _ = m.Update(runeKey('n'))
	m, _ = m.Update(runeKey('q'))
	assert.NotEmpty(t, m.View(), "the loop never saw the quit")

	assert.Equal(t, control.NextTrack, <-commands)
	m, _ = m.Update(runeKey('q'))
	assert.Equal(t, control.Quit, <-commands)
	assert.Empty(t, m.View())
}

func TestWindowSizeUpdatesBounds(t *testing.T) {
	m, _ := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	w, h := m.size.get()
	assert.Equal(t, 100, w)
	assert.Equal(t, 30, h)
	assert.Equal(t, control.Bounds{Width: 88, Rows: 25}, FrameBounds(w, h))
}

func TestFrameBoundsNeverNegative(t *testing.T) {
	assert.Equal(t, control.Bounds{}, FrameBounds(3, 2))
}

func sampleView() control.View {
	return control.View{
		Status:   playback.Playing,
		Shuffle:  true,
		Current:  "second.mp3",
		Position: 2,
		Total:    3,
		Rows: []control.Row{
			{Index: 0, Label: "first.mp3", Selected: true},
			{Index: 1, Label: "second.mp3", Current: true, Playing: true},
			{Index: 2, Label: "third.mp3"},
		},
		Error: "play broken.mp3: bad header",
	}
}

func TestViewRendersFrame(t *testing.T) {
	m, _ := newTestModel()
	assert.Empty(t, m.View(), "nothing to draw before the first frame")

	next, _ := m.Update(viewMsg(sampleView()))
	out := next.View()

	assert.Contains(t, out, "PLAYING")
	assert.Contains(t, out, "Shuffle: ON")
	assert.Contains(t, out, "Track 2/3")
	assert.Contains(t, out, "Now: ")
	assert.Contains(t, out, "error: play broken.mp3: bad header")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, HeaderRows+3+FooterRows)
	assert.Contains(t, lines[HeaderRows], ">")
	assert.Contains(t, lines[HeaderRows], "1. first.mp3")
	assert.Contains(t, lines[HeaderRows+1], "▶")
	assert.Contains(t, lines[HeaderRows+1], "2. second.mp3")
	assert.NotContains(t, lines[HeaderRows+2], "▶")
}

func TestLinesWithoutError(t *testing.T) {
	v := sampleView()
	v.Error = ""
	v.Status = playback.Stopped
	lines := Lines(v, HelpText, 40)

	assert.Equal(t, "", lines[len(lines)-1])
	assert.Contains(t, lines[0], "STOPPED")
	assert.Contains(t, lines[2], "enter play")
}

func TestReadCommandReturnsQueuedCommand(t *testing.T) {
	term := NewTerminal()
	term.commands <- control.TogglePause

	cmd, err := term.ReadCommand(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, control.TogglePause, cmd)
}

func TestReadCommandTimesOut(t *testing.T) {
	term := NewTerminal()

	start := time.Now()
	cmd, err := term.ReadCommand(context.Background(), 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, control.None, cmd)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestReadCommandAfterProgramExit(t *testing.T) {
	term := NewTerminal()
	term.runErr = errors.New("tty lost")
	close(term.done)

	_, err := term.ReadCommand(context.Background(), time.Second)
	assert.True(t, errors.Is(err, control.ErrInputClosed))
	assert.True(t, errors.Is(term.Draw(sampleView()), control.ErrInputClosed))
}

func TestReadCommandHonoursContext(t *testing.T) {
	term := NewTerminal()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := term.ReadCommand(ctx, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCloseWithoutStart(t *testing.T) {
	assert.NoError(t, NewTerminal().Close())
}
