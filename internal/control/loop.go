// Package control runs the polling loop that ties the playback state machine
// to a terminal back end.
package control

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/olivier-w/aerial/internal/playback"
	"github.com/olivier-w/aerial/internal/stats"
	"github.com/olivier-w/aerial/internal/viewport"
	"github.com/rs/zerolog"
)

// DefaultCadence bounds how long one iteration waits for input.
const DefaultCadence = 200 * time.Millisecond

// Loop owns the selection cursor and drives the machine from one goroutine.
type Loop struct {
	machine  *playback.Machine
	input    Input
	renderer Renderer
	cadence  time.Duration
	log      zerolog.Logger
	recorder Recorder

	detector playback.Detector
	selected int
}

// Option configures a Loop.
type Option func(*Loop)

// WithCadence sets the per-iteration input wait.
func WithCadence(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.cadence = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loop) { l.log = log }
}

// WithRecorder records play, skip and finished events.
func WithRecorder(r Recorder) Option {
	return func(l *Loop) { l.recorder = r }
}

// New creates a loop with the selection on the machine's current track.
func New(machine *playback.Machine, input Input, renderer Renderer, opts ...Option) *Loop {
	l := &Loop{
		machine:  machine,
		input:    input,
		renderer: renderer,
		cadence:  DefaultCadence,
		log:      zerolog.Nop(),
		selected: machine.Index(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run loops until Quit, context cancellation or a closed input. Playback is
// stopped on every exit path. Only a closed input is returned as an error.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			l.stop()
			return nil
		}

		l.advanceIfFinished()
		l.draw()

		cmd, err := l.input.ReadCommand(ctx, l.cadence)
		if err != nil {
			switch {
			case errors.Is(err, ErrInputClosed):
				l.stop()
				return err
			case ctx.Err() != nil:
				l.stop()
				return nil
			default:
				l.log.Debug().Err(err).Msg("read command")
				continue
			}
		}

		if cmd == Quit {
			l.log.Info().Msg("quit")
			l.stop()
			return nil
		}
		l.dispatch(cmd)
	}
}

// Selected returns the selection cursor.
func (l *Loop) Selected() int {
	return l.selected
}

func (l *Loop) advanceIfFinished() {
	m := l.machine
	ended := l.detector.Observe(m.Generation(), m.Busy())
	if !ended || m.State() != playback.Playing {
		return
	}
	l.log.Debug().Str("track", m.Current()).Msg("track finished")
	l.record(m.Current(), stats.Finished)
	l.changeTrack("next", m.Next)
}

func (l *Loop) dispatch(cmd Command) {
	m := l.machine
	n := m.Tracks().Len()

	switch cmd {
	case MoveSelectionUp:
		l.selected = (l.selected - 1 + n) % n
	case MoveSelectionDown:
		l.selected = (l.selected + 1) % n
	case ConfirmPlaySelected:
		selected := l.selected
		l.skipCurrent()
		l.changeTrack("play", func() error { return m.Play(selected) })
	case TogglePause:
		if err := m.PauseToggle(); err != nil {
			l.log.Warn().Err(err).Msg("pause toggle failed")
		}
	case NextTrack:
		l.skipCurrent()
		l.changeTrack("next", m.Next)
	case PrevTrack:
		l.skipCurrent()
		l.changeTrack("prev", m.Prev)
	case ToggleShuffle:
		m.ToggleShuffle()
		l.log.Debug().Bool("shuffle", m.Snapshot().Shuffle).Msg("shuffle toggled")
	}
}

// changeTrack runs a track-changing transition and moves the selection to
// whatever track the machine landed on, even after a failed play.
func (l *Loop) changeTrack(op string, transition func() error) {
	err := transition()
	l.selected = l.machine.Index()
	if err != nil {
		l.log.Warn().Err(err).Str("op", op).Msg("track change failed")
		return
	}
	l.log.Info().Str("track", l.machine.Current()).Msg(op)
	l.record(l.machine.Current(), stats.Play)
}

func (l *Loop) skipCurrent() {
	if l.machine.Snapshot().Playing {
		l.record(l.machine.Current(), stats.Skip)
	}
}

func (l *Loop) record(path string, event stats.Event) {
	if l.recorder == nil {
		return
	}
	if err := l.recorder.Record(path, event); err != nil {
		l.log.Warn().Err(err).Str("event", string(event)).Msg("recording play history failed")
	}
}

func (l *Loop) stop() {
	if err := l.machine.Stop(); err != nil {
		l.log.Warn().Err(err).Msg("stop failed")
	}
}

func (l *Loop) draw() {
	if err := l.renderer.Draw(l.View()); err != nil {
		l.log.Debug().Err(err).Msg("draw")
	}
}

// View builds the frame for the renderer's current bounds.
func (l *Loop) View() View {
	m := l.machine
	snap := m.Snapshot()
	tracks := m.Tracks()
	bounds := l.renderer.Bounds()
	status := snap.State()

	win := viewport.Compute(l.selected, tracks.Len(), bounds.Rows)
	rows := make([]Row, 0, win.Len())
	for i := win.Start; i < win.End; i++ {
		rows = append(rows, Row{
			Index:    i,
			Label:    viewport.Label(tracks.Name(i), bounds.Width),
			Current:  i == snap.Index,
			Playing:  i == snap.Index && status == playback.Playing,
			Selected: i == l.selected,
		})
	}

	v := View{
		Status:   status,
		Shuffle:  snap.Shuffle,
		Current:  viewport.Label(tracks.Name(snap.Index), bounds.Width),
		Position: snap.Index + 1,
		Total:    tracks.Len(),
		Rows:     rows,
	}
	if err := m.LastErr(); err != nil {
		v.Error = err.Error()
	}
	return v
}
