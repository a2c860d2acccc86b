// Package catalog holds the ordered, read-only list of tracks for one run.
package catalog

import (
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/olivier-w/aerial/internal/media"
)

// ErrEmpty is matched by every EmptyCatalogError.
var ErrEmpty = errors.New("no audio files found")

// EmptyCatalogError reports a scan that produced no playable tracks.
type EmptyCatalogError struct {
	Root string
}

func (e *EmptyCatalogError) Error() string {
	if e.Root == "" {
		return ErrEmpty.Error()
	}
	return ErrEmpty.Error() + " in " + e.Root
}

// Is lets errors.Is(err, ErrEmpty) match.
func (e *EmptyCatalogError) Is(target error) bool {
	return target == ErrEmpty
}

// Catalog is an ordered, non-empty list of track paths. It never changes after
// construction and is safe to share.
type Catalog struct {
	paths []string
}

// New builds a catalog from paths, sorted lexicographically.
func New(paths []string) (*Catalog, error) {
	if len(paths) == 0 {
		return nil, &EmptyCatalogError{}
	}
	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	return &Catalog{paths: sorted}, nil
}

// Load scans root for audio files and builds a catalog from them.
func Load(root string, recursive bool, skipped media.SkipFunc) (*Catalog, error) {
	paths, err := media.Scan(root, recursive, skipped)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		abs, absErr := filepath.Abs(root)
		if absErr != nil {
			abs = root
		}
		return nil, &EmptyCatalogError{Root: abs}
	}
	return New(paths)
}

// Len returns the number of tracks.
func (c *Catalog) Len() int {
	return len(c.paths)
}

// Path returns the full path of track i.
func (c *Catalog) Path(i int) string {
	return c.paths[i]
}

// Name returns the file name of track i.
func (c *Catalog) Name(i int) string {
	return filepath.Base(c.paths[i])
}
