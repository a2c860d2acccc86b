// Package player provides the audio engines driven by the playback state
// machine: an oto engine with built-in decoders, a beep engine, and a mock.
package player

import (
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ebitengine/oto/v3"
)

// ErrFormatMismatch is returned when a track's PCM format differs from the
// output context, which oto fixes for the life of the process.
var ErrFormatMismatch = errors.New("track format differs from audio output")

// outputFormat is the PCM layout of the process-wide oto context.
type outputFormat struct {
	sampleRate int
	channels   int
}

var (
	globalOtoCtx *oto.Context
	globalFormat outputFormat
	otoOnce      sync.Once
	otoInitErr   error
)

// initOto creates the single oto context using the format of the first track
// played.
func initOto(format outputFormat) (*oto.Context, outputFormat, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.sampleRate,
			ChannelCount: format.channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			globalFormat = format
		}
	})
	return globalOtoCtx, globalFormat, otoInitErr
}

func checkFormat(out outputFormat, dec pcmDecoder) error {
	if dec.SampleRate() != out.sampleRate || dec.ChannelCount() != out.channels {
		return errors.Wrapf(ErrFormatMismatch, "%d Hz/%d ch, output is %d Hz/%d ch",
			dec.SampleRate(), dec.ChannelCount(), out.sampleRate, out.channels)
	}
	return nil
}

// Player plays local files through oto. It is safe for concurrent use.
type Player struct {
	mu        sync.Mutex
	file      *os.File
	otoPlayer *oto.Player
	paused    bool

	// endPending reports one busy sample after resuming a track that ran out
	// while paused.
	endPending bool
}

// New creates an idle oto engine. The audio device is opened on first play.
func New() *Player {
	return &Player{}
}

// LoadAndPlay stops whatever is playing and starts path from the beginning.
func (p *Player) LoadAndPlay(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return err
	}
	ctx, format, err := initOto(outputFormat{sampleRate: dec.SampleRate(), channels: dec.ChannelCount()})
	if err != nil {
		f.Close()
		return errors.Wrap(err, "opening audio output")
	}
	if err := checkFormat(format, dec); err != nil {
		f.Close()
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()

	p.file = f
	p.otoPlayer = ctx.NewPlayer(dec)
	p.paused = false
	p.otoPlayer.Play()
	return nil
}

// Pause halts output, keeping the position.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.otoPlayer == nil {
		return nil
	}
	p.otoPlayer.Pause()
	p.paused = true
	return nil
}

// Resume continues a paused track.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.otoPlayer == nil {
		return nil
	}
	p.otoPlayer.Play()
	p.paused = false
	// oto drops straight back to paused when the source is already drained.
	p.endPending = !p.otoPlayer.IsPlaying()
	return nil
}

// Stop halts output and releases the current track.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.releaseLocked()
}

// IsBusy reports whether oto is still draining the current track.
func (p *Player) IsBusy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.otoPlayer == nil || p.paused {
		return false
	}
	if p.endPending {
		p.endPending = false
		return true
	}
	return p.otoPlayer.IsPlaying()
}

// Close releases all resources.
func (p *Player) Close() error {
	return p.Stop()
}

func (p *Player) releaseLocked() error {
	var firstErr error
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
		if err := p.otoPlayer.Close(); err != nil {
			firstErr = errors.Wrap(err, "closing output")
		}
		p.otoPlayer = nil
	}
	if p.file != nil {
		if err := p.file.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "closing track")
		}
		p.file = nil
	}
	p.paused = false
	p.endPending = false
	return firstErr
}
