// Package storage holds the file primitives shared by the journal and the
// config writer: atomic replacement and exclusive lock files.
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrLocked is returned when another process holds a lock file.
var ErrLocked = errors.New("storage: locked by another process")

// WriteFileAtomic writes data to a temporary file beside filename and
// renames it into place, creating the directory if needed.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(filename)+"-*")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	renamed := false
	defer func() {
		if renamed {
			return
		}
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove temporary file", "path", tmp.Name(), "error", err)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("storage: chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("storage: rename into place: %w", err)
	}
	renamed = true
	return nil
}

// Lock takes the exclusive lock file path+".lock" without blocking. The
// returned func releases it and removes the lock file.
func Lock(path string) (unlock func() error, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}
	f, err := acquireLock(path + ".lock")
	if err != nil {
		return nil, err
	}
	return func() error { return releaseLock(f) }, nil
}
