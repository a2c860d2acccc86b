// Package stats keeps a SQLite log of play, skip and finished events.
package stats

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite" // SQLite driver
)

const memoryPath = ":memory:"

// Event is the kind of play history entry.
type Event string

const (
	Play     Event = "play"
	Skip     Event = "skip"
	Finished Event = "finished"
)

// Valid reports whether e is one of the known events.
func (e Event) Valid() bool {
	switch e {
	case Play, Skip, Finished:
		return true
	}
	return false
}

// Store records events. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Store, error) {
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "creating stats directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	// One connection keeps an in-memory database alive and serializes writes.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS plays (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			track_path  TEXT NOT NULL,
			track_title TEXT NOT NULL,
			event_type  TEXT NOT NULL CHECK (event_type IN ('play', 'skip', 'finished')),
			created_at  INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_plays_track_path ON plays(track_path);
	`)
	return errors.Wrap(err, "initializing stats schema")
}

// Record appends one event for the track at path.
func (s *Store) Record(path string, event Event) error {
	if !event.Valid() {
		return errors.Newf("unknown play event %q", event)
	}
	_, err := s.db.Exec(
		`INSERT INTO plays (track_path, track_title, event_type, created_at) VALUES (?, ?, ?, ?)`,
		path, title(path), string(event), s.now().Unix(),
	)
	return errors.Wrapf(err, "recording %s", event)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// title is the file name without its extension.
func title(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
