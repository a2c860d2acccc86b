// Package rawterm is the blocking-poll terminal back end. It puts the tty in
// raw mode, reads stdin on a helper goroutine and polls for keys in short
// steps until the loop's timeout runs out.
package rawterm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/olivier-w/aerial/internal/control"
	"github.com/olivier-w/aerial/internal/ui"
	"golang.org/x/term"
)

// PollInterval is the granularity of ReadCommand.
const PollInterval = 10 * time.Millisecond

// crlfWindow is how long after a lone CR a leading LF still counts as the
// rest of the same Enter key.
const crlfWindow = 50 * time.Millisecond

const (
	enterAltScreen = "\x1b[?1049h"
	leaveAltScreen = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	cursorHome     = "\x1b[H"
	eraseLine      = "\x1b[K"
	eraseBelow     = "\x1b[J"

	fallbackWidth  = 80
	fallbackHeight = 24
)

// Terminal implements control.Input and control.Renderer on a raw tty.
type Terminal struct {
	in   io.Reader
	out  io.Writer
	size func() (int, int, error)

	chunks  chan []byte
	pending []byte
	readErr error
	crAt    time.Time

	restore   func() error
	startOnce sync.Once

	mu    sync.Mutex
	width int
}

func newTerminal(in io.Reader, out io.Writer, size func() (int, int, error)) *Terminal {
	return &Terminal{
		in:     in,
		out:    out,
		size:   size,
		chunks: make(chan []byte, 16),
		width:  fallbackWidth,
	}
}

// Open switches in to raw mode, enters the alternate screen on out and starts
// reading keys.
func Open(in, out *os.File) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errors.Wrap(err, "entering raw mode")
	}

	t := newTerminal(in, out, func() (int, int, error) {
		return term.GetSize(int(out.Fd()))
	})
	t.restore = func() error { return term.Restore(fd, oldState) }

	fmt.Fprint(out, enterAltScreen+hideCursor)
	t.start()
	return t, nil
}

func (t *Terminal) start() {
	t.startOnce.Do(func() {
		go t.readInput()
	})
}

// readInput forwards stdin chunks until the first read error, then closes
// the channel.
func (t *Terminal) readInput() {
	buf := make([]byte, 64)
	for {
		n, err := t.in.Read(buf)
		if n > 0 {
			t.chunks <- bytes.Clone(buf[:n])
		}
		if err != nil {
			t.readErr = err
			close(t.chunks)
			return
		}
	}
}

// ReadCommand polls for a key every PollInterval until timeout passes.
func (t *Terminal) ReadCommand(ctx context.Context, timeout time.Duration) (control.Command, error) {
	deadline := time.Now().Add(timeout)
	for {
		for len(t.pending) > 0 {
			if t.pending[0] == '\n' && !t.crAt.IsZero() && time.Since(t.crAt) < crlfWindow {
				t.pending = t.pending[1:]
				t.crAt = time.Time{}
				continue
			}
			cmd, n, ok := decode(t.pending)
			if !ok {
				break
			}
			t.crAt = time.Time{}
			if n == 1 && t.pending[0] == '\r' {
				t.crAt = time.Now()
			}
			t.pending = t.pending[n:]
			if cmd != control.None {
				return cmd, nil
			}
		}

		select {
		case chunk, open := <-t.chunks:
			if !open {
				return control.None, t.closedErr()
			}
			t.pending = append(t.pending, chunk...)
			continue
		default:
		}

		if err := ctx.Err(); err != nil {
			return control.None, err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return control.None, nil
		}
		time.Sleep(min(PollInterval, remaining))
	}
}

func (t *Terminal) closedErr() error {
	if t.readErr == nil || errors.Is(t.readErr, io.EOF) {
		return control.ErrInputClosed
	}
	return errors.Mark(errors.Wrap(t.readErr, "reading stdin"), control.ErrInputClosed)
}

// Bounds re-reads the terminal size.
func (t *Terminal) Bounds() control.Bounds {
	w, h, err := t.size()
	if err != nil || w <= 0 || h <= 0 {
		w, h = fallbackWidth, fallbackHeight
	}
	t.mu.Lock()
	t.width = w
	t.mu.Unlock()
	return ui.FrameBounds(w, h)
}

// Draw repaints the whole frame from the top-left corner.
func (t *Terminal) Draw(v control.View) error {
	t.mu.Lock()
	width := t.width
	t.mu.Unlock()

	// No line break after the last line: a full-height frame would scroll.
	var b bytes.Buffer
	b.WriteString(cursorHome)
	b.WriteString(strings.Join(ui.Lines(v, ui.HelpText, width), eraseLine+"\r\n"))
	b.WriteString(eraseLine)
	b.WriteString(eraseBelow)

	_, err := t.out.Write(b.Bytes())
	return errors.Wrap(err, "drawing frame")
}

// Close leaves the alternate screen and restores the tty mode.
func (t *Terminal) Close() error {
	fmt.Fprint(t.out, showCursor+leaveAltScreen)
	if t.restore == nil {
		return nil
	}
	return errors.Wrap(t.restore(), "restoring terminal")
}
