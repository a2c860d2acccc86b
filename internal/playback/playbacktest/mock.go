// Package playbacktest provides an in-memory audio engine for tests of code
// that drives a playback.Machine.
package playbacktest

import "sync"

// Mock is a test double for the audio engines. By default it reports busy
// after a successful LoadAndPlay or Resume and idle after Pause, Stop or
// Finish. A track finished while paused reports busy once more after Resume,
// like the real engines. ScriptBusy overrides IsBusy with a fixed sequence of
// answers.
type Mock struct {
	mu sync.Mutex

	calls      []string
	played     []string
	busy       bool
	ended      bool
	endPending bool
	script     []bool

	playErr   error
	pauseErr  error
	resumeErr error
	stopErr   error
}

// NewMock creates an idle mock engine.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) LoadAndPlay(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "play")
	m.played = append(m.played, path)
	m.ended = false
	m.endPending = false
	if m.playErr != nil {
		m.busy = false
		return m.playErr
	}
	m.busy = true
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "pause")
	if m.pauseErr != nil {
		return m.pauseErr
	}
	m.busy = false
	return nil
}

func (m *Mock) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "resume")
	if m.resumeErr != nil {
		return m.resumeErr
	}
	if m.ended {
		m.endPending = true
		return nil
	}
	m.busy = true
	return nil
}

func (m *Mock) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "stop")
	m.busy = false
	m.ended = false
	m.endPending = false
	return m.stopErr
}

func (m *Mock) IsBusy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.script) > 0 {
		b := m.script[0]
		m.script = m.script[1:]
		return b
	}
	if m.endPending {
		m.endPending = false
		return true
	}
	return m.busy
}

// Test helpers

// Finish simulates the current track running out.
func (m *Mock) Finish() {
	m.mu.Lock()
	m.busy = false
	m.ended = true
	m.mu.Unlock()
}

// ScriptBusy queues answers for the next IsBusy calls.
func (m *Mock) ScriptBusy(values ...bool) {
	m.mu.Lock()
	m.script = append(m.script, values...)
	m.mu.Unlock()
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	m.playErr = err
	m.mu.Unlock()
}

func (m *Mock) SetPauseError(err error) {
	m.mu.Lock()
	m.pauseErr = err
	m.mu.Unlock()
}

func (m *Mock) SetResumeError(err error) {
	m.mu.Lock()
	m.resumeErr = err
	m.mu.Unlock()
}

func (m *Mock) SetStopError(err error) {
	m.mu.Lock()
	m.stopErr = err
	m.mu.Unlock()
}

// Calls lists the engine methods invoked so far: play, pause, resume, stop.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Played lists every path passed to LoadAndPlay.
func (m *Mock) Played() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.played...)
}
