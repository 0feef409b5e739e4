// Package storage provides atomic file writes for git-tidy's state files.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile atomically replaces path with data.
// It ensures the parent directory exists, writes to a temp file next to
// path, then renames it into place so readers never see a partial file.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	return nil
}

// Remove deletes path together with a leftover temp file.
// A missing file is not an error.
func Remove(path string) error {
	_ = os.Remove(path + ".tmp")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
