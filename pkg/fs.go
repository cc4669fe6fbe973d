package std

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// Exists reports whether path names an existing file system entry. A missing
// entry (including a dangling symlink) is not an error; any other Stat
// failure is returned.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// AtomicWriteStream copies r into path atomically and returns the number of
// bytes written. It:
//   - ensures the parent directory exists,
//   - streams into a temp file in the same directory,
//   - fsyncs the file,
//   - renames the temp file to the final path (atomic on POSIX),
//   - fsyncs the parent directory (best-effort).
//
// On any failure the temp file is removed and path is left untouched, so a
// reader never observes a partially written file.
func AtomicWriteStream(path string, r io.Reader, perm os.FileMode) (int64, error) {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("atomic write: mkdirall %q: %w", dir, err)
	}

	// Same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+".*")
	if err != nil {
		return 0, fmt.Errorf("atomic write: create temp file: %w", err)
	}
	tmpName := tmpFile.Name()

	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	n, err := io.Copy(tmpFile, r)
	if err != nil {
		_ = tmpFile.Close()
		cleanup()
		return n, fmt.Errorf("atomic write: write temp file %q: %w", tmpName, err)
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return n, fmt.Errorf("atomic write: sync temp file %q: %w", tmpName, err)
	}

	if err := tmpFile.Close(); err != nil {
		cleanup()
		return n, fmt.Errorf("atomic write: close temp file %q: %w", tmpName, err)
	}

	// CreateTemp always uses 0600. A chmod failure is not fatal on platforms
	// with different permission semantics.
	_ = os.Chmod(tmpName, perm)

	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return n, fmt.Errorf("atomic write: rename %q -> %q: %w", tmpName, path, err)
	}

	// Skip on Windows (no reliable dir fsync semantics there).
	if runtime.GOOS != "windows" {
		if err := syncDir(dir); err != nil {
			return n, fmt.Errorf("atomic write: sync dir %q: %w", dir, err)
		}
	}

	return n, nil
}

// syncDir opens dir and calls Sync on it so the rename is flushed.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
