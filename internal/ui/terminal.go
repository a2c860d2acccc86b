// Package ui is the event-driven terminal back end: a bubbletea program that
// turns key presses into loop commands and draws the frames the loop sends.
package ui

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/olivier-w/aerial/internal/control"
)

const commandQueue = 16

// Terminal runs the bubbletea program on its own goroutine and implements
// control.Input and control.Renderer.
type Terminal struct {
	program  *tea.Program
	commands chan control.Command
	size     *screenSize

	started   atomic.Bool
	done      chan struct{}
	runErr    error
	closeOnce sync.Once
}

// NewTerminal builds the program. Options are passed to tea.NewProgram after
// the alternate screen option.
func NewTerminal(opts ...tea.ProgramOption) *Terminal {
	t := &Terminal{
		commands: make(chan control.Command, commandQueue),
		size:     &screenSize{width: defaultWidth, height: defaultHeight},
		done:     make(chan struct{}),
	}
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	t.program = tea.NewProgram(newModel(t.commands, t.size), opts...)
	return t
}

// Start runs the program in the background.
func (t *Terminal) Start() {
	if !t.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		_, err := t.program.Run()
		t.runErr = err
		close(t.done)
	}()
}

// ReadCommand waits up to timeout for a key command.
func (t *Terminal) ReadCommand(ctx context.Context, timeout time.Duration) (control.Command, error) {
	select {
	case cmd := <-t.commands:
		return cmd, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case cmd := <-t.commands:
		return cmd, nil
	case <-t.done:
		return control.None, t.closedErr()
	case <-timer.C:
		return control.None, nil
	case <-ctx.Done():
		return control.None, ctx.Err()
	}
}

func (t *Terminal) closedErr() error {
	if t.runErr != nil {
		return errors.Mark(errors.Wrap(t.runErr, "terminal program"), control.ErrInputClosed)
	}
	return control.ErrInputClosed
}

// Bounds returns the label and row budget for the current window size.
func (t *Terminal) Bounds() control.Bounds {
	return FrameBounds(t.size.get())
}

// Draw hands a frame to the program.
func (t *Terminal) Draw(v control.View) error {
	select {
	case <-t.done:
		return t.closedErr()
	default:
	}
	t.program.Send(viewMsg(v))
	return nil
}

// Close stops the program and waits for it to restore the terminal.
func (t *Terminal) Close() error {
	if !t.started.Load() {
		return nil
	}
	t.closeOnce.Do(func() {
		t.program.Quit()
	})
	<-t.done
	return t.runErr
}
