// utils/file.go
package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDataDir creates the directory holding the given file if it doesn't exist
func EnsureDataDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), os.ModePerm)
}

// WriteFileAtomic replaces the file at destPath in one step: the payload is
// written to a temp file in the same directory, fsynced, then renamed over
// the destination. Readers either see the old document or the new one,
// never a half-written mix.
func WriteFileAtomic(destPath string, data []byte) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(destPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, destPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", destPath, err)
	}
	return nil
}
