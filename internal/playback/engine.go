// Package playback owns the player state machine and the end-of-track
// detector driven by the control loop.
package playback

import (
	"fmt"
	"path/filepath"
)

// Engine is the audio capability the state machine drives. IsBusy must return
// immediately; it reports whether audio is audibly playing right now. A track
// that ran out while paused reports busy once after Resume, so its end still
// shows up as a busy to idle edge.
type Engine interface {
	LoadAndPlay(path string) error
	Pause() error
	Resume() error
	Stop() error
	IsBusy() bool
}

// EngineError wraps a failed engine call.
type EngineError struct {
	Op   string
	Path string
	Err  error
}

func (e *EngineError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, filepath.Base(e.Path), e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
