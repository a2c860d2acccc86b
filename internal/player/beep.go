package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// speakerRate is the fixed output rate; every track is resampled to it.
const speakerRate beep.SampleRate = 44100

var (
	speakerOnce    sync.Once
	speakerInitErr error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerInitErr = speaker.Init(speakerRate, speakerRate.N(time.Second/10))
	})
	return speakerInitErr
}

// decodeBeep opens f with the beep decoder matching its extension.
func decodeBeep(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Name())); ext {
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported format: %s", ext)
	}
}

// BeepEngine plays local files through the beep speaker, resampling each
// track to the output rate. It is safe for concurrent use.
type BeepEngine struct {
	mu       sync.Mutex
	file     *os.File
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl

	// finished is replaced on every load so a late callback from a previous
	// track cannot mark the new one done.
	finished *atomic.Bool
	// endPending reports one busy sample after resuming a track that ran out
	// while paused, so the end is still seen as a busy to idle edge.
	endPending bool
}

// NewBeep creates an idle beep engine. The speaker is opened on first play.
func NewBeep() *BeepEngine {
	return &BeepEngine{}
}

// LoadAndPlay stops whatever is playing and starts path from the beginning.
func (e *BeepEngine) LoadAndPlay(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	streamer, format, err := decodeBeep(f)
	if err != nil {
		f.Close()
		return err
	}
	if err := initSpeaker(); err != nil {
		streamer.Close()
		f.Close()
		return errors.Wrap(err, "opening speaker")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.releaseLocked()

	var source beep.Streamer = streamer
	if format.SampleRate != speakerRate {
		source = beep.Resample(4, format.SampleRate, speakerRate, streamer)
	}
	finished := new(atomic.Bool)
	e.file = f
	e.streamer = streamer
	e.ctrl = &beep.Ctrl{Streamer: source}
	e.finished = finished
	e.endPending = false

	speaker.Play(beep.Seq(e.ctrl, beep.Callback(func() {
		finished.Store(true)
	})))
	return nil
}

// Pause halts output, keeping the position.
func (e *BeepEngine) Pause() error {
	return e.setPaused(true)
}

// Resume continues a paused track.
func (e *BeepEngine) Resume() error {
	return e.setPaused(false)
}

func (e *BeepEngine) setPaused(paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl == nil {
		return nil
	}
	speaker.Lock()
	e.ctrl.Paused = paused
	speaker.Unlock()
	if !paused && e.finished.Load() {
		e.endPending = true
	}
	return nil
}

// Stop clears the speaker and releases the current track.
func (e *BeepEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.releaseLocked()
}

// IsBusy reports whether the current track is audibly playing.
func (e *BeepEngine) IsBusy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl == nil {
		return false
	}
	if e.endPending {
		e.endPending = false
		return true
	}
	if e.finished.Load() {
		return false
	}
	speaker.Lock()
	paused := e.ctrl.Paused
	speaker.Unlock()
	return !paused
}

// Close releases all resources.
func (e *BeepEngine) Close() error {
	return e.Stop()
}

func (e *BeepEngine) releaseLocked() error {
	if e.ctrl == nil {
		return nil
	}
	speaker.Clear()

	var firstErr error
	if err := e.streamer.Close(); err != nil {
		firstErr = errors.Wrap(err, "closing stream")
	}
	if err := e.file.Close(); err != nil && firstErr == nil && !errors.Is(err, os.ErrClosed) {
		firstErr = errors.Wrap(err, "closing track")
	}
	e.file = nil
	e.streamer = nil
	e.ctrl = nil
	e.finished = nil
	e.endPending = false
	return firstErr
}
