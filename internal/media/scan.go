package media

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// SkipFunc is told about entries the scanner could not read.
type SkipFunc func(path string, err error)

// Scan returns the absolute paths of the supported audio files under root.
// With recursive false only the direct children of root are considered.
// Unreadable subdirectories are skipped and reported through skipped, which may be nil.
func Scan(root string, recursive bool, skipped SkipFunc) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrap(err, "scanning library")
	}
	if !info.IsDir() {
		return nil, errors.Newf("%s is not a directory", root)
	}
	if skipped == nil {
		skipped = func(string, error) {}
	}

	if !recursive {
		return scanFlat(abs)
	}

	var files []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == abs {
				return err
			}
			skipped(path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsAudioFile(path) {
			return nil
		}
		if isFile(path, d) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "scanning library")
	}
	return files, nil
}

func scanFlat(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "scanning library")
	}
	return lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() || !IsAudioFile(path) {
			return "", false
		}
		return path, isFile(path, e)
	}), nil
}

// isFile accepts regular files and symlinks that resolve to one.
func isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
