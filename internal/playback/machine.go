package playback

import (
	"math/rand/v2"

	"github.com/olivier-w/aerial/internal/catalog"
)

// Machine tracks the current track and play/pause/shuffle flags. It is owned
// by a single goroutine and does no locking.
type Machine struct {
	tracks *catalog.Catalog
	engine Engine
	rng    *rand.Rand

	index   int
	playing bool
	paused  bool
	shuffle bool

	generation uint64
	lastErr    error
}

// Option configures a Machine.
type Option func(*Machine)

// WithRand sets the source used to pick shuffled tracks.
func WithRand(r *rand.Rand) Option {
	return func(m *Machine) { m.rng = r }
}

// WithShuffle sets the initial shuffle flag.
func WithShuffle(on bool) Option {
	return func(m *Machine) { m.shuffle = on }
}

// New creates a stopped machine positioned on the first track.
func New(tracks *catalog.Catalog, engine Engine, opts ...Option) *Machine {
	m := &Machine{tracks: tracks, engine: engine}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Play starts track index, wrapping it into range. On engine failure the
// machine is stopped and the error is returned and kept for LastErr.
func (m *Machine) Play(index int) error {
	n := m.tracks.Len()
	m.index = ((index % n) + n) % n

	path := m.tracks.Path(m.index)
	if err := m.engine.LoadAndPlay(path); err != nil {
		m.playing = false
		m.paused = false
		m.lastErr = &EngineError{Op: "play", Path: path, Err: err}
		return m.lastErr
	}
	m.playing = true
	m.paused = false
	m.lastErr = nil
	m.generation++
	return nil
}

// PauseToggle pauses or resumes the current track. It does nothing while stopped.
func (m *Machine) PauseToggle() error {
	if !m.playing {
		return nil
	}
	if m.paused {
		if err := m.engine.Resume(); err != nil {
			m.lastErr = &EngineError{Op: "resume", Path: m.Current(), Err: err}
			return m.lastErr
		}
		m.paused = false
		return nil
	}
	if err := m.engine.Pause(); err != nil {
		m.lastErr = &EngineError{Op: "pause", Path: m.Current(), Err: err}
		return m.lastErr
	}
	m.paused = true
	return nil
}

// Stop halts playback. The machine is stopped even if the engine fails.
func (m *Machine) Stop() error {
	err := m.engine.Stop()
	m.playing = false
	m.paused = false
	if err != nil {
		m.lastErr = &EngineError{Op: "stop", Err: err}
		return m.lastErr
	}
	return nil
}

// Next plays the following track, or a random one when shuffling.
func (m *Machine) Next() error {
	return m.Play(m.step(1))
}

// Prev plays the preceding track, or a random one when shuffling.
func (m *Machine) Prev() error {
	return m.Play(m.step(-1))
}

func (m *Machine) step(delta int) int {
	n := m.tracks.Len()
	if m.shuffle {
		if m.rng != nil {
			return m.rng.IntN(n)
		}
		return rand.IntN(n)
	}
	return m.index + delta
}

// ToggleShuffle flips shuffle without touching playback.
func (m *Machine) ToggleShuffle() {
	m.shuffle = !m.shuffle
}

// Snapshot returns the current flags.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Index:   m.index,
		Playing: m.playing,
		Paused:  m.paused,
		Shuffle: m.shuffle,
	}
}

// State returns the coarse playback state.
func (m *Machine) State() State {
	return m.Snapshot().State()
}

// Index returns the current track index.
func (m *Machine) Index() int {
	return m.index
}

// Current returns the path of the current track.
func (m *Machine) Current() string {
	return m.tracks.Path(m.index)
}

// Generation increases by one for every track that started successfully.
func (m *Machine) Generation() uint64 {
	return m.generation
}

// LastErr returns the most recent engine failure, cleared by a successful play.
func (m *Machine) LastErr() error {
	return m.lastErr
}

// Busy reports whether the engine is audibly playing.
func (m *Machine) Busy() bool {
	return m.engine.IsBusy()
}

// Tracks returns the catalog the machine plays from.
func (m *Machine) Tracks() *catalog.Catalog {
	return m.tracks
}
