package control

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/olivier-w/aerial/internal/playback"
	"github.com/olivier-w/aerial/internal/stats"
)

// ErrInputClosed marks an input that can never produce another command.
// Back ends return it, or an error marked with it, once their input is gone.
var ErrInputClosed = errors.New("input closed")

// Input delivers user commands.
type Input interface {
	// ReadCommand waits at most timeout for a command. It returns None when
	// nothing arrived in time.
	ReadCommand(ctx context.Context, timeout time.Duration) (Command, error)
}

// Renderer draws view models.
type Renderer interface {
	// Bounds returns the space available for track labels and list rows.
	Bounds() Bounds
	Draw(View) error
}

// Bounds is the label width and list row budget left after a back end's own
// header and footer.
type Bounds struct {
	Width int
	Rows  int
}

// View is everything a back end needs to draw one frame.
type View struct {
	Status   playback.State
	Shuffle  bool
	Current  string
	Position int
	Total    int
	Rows     []Row
	Error    string
}

// Row is one visible catalog entry.
type Row struct {
	Index    int
	Label    string
	Current  bool
	Playing  bool
	Selected bool
}

// Recorder stores play history.
type Recorder interface {
	Record(path string, event stats.Event) error
}
