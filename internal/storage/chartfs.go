// Package storage provides the top-level StorageManager that coordinates
// the 3 storage areas: internaldb, financedb, and the charts filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// chartFS stores rendered chart images as plain files under a base path.
type chartFS struct {
	basePath string
}

func newChartFS(basePath string) (*chartFS, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create charts path %s: %w", basePath, err)
	}
	return &chartFS{basePath: basePath}, nil
}

// WriteRaw writes arbitrary binary data to a subdirectory atomically.
func (fs *chartFS) WriteRaw(subdir, key string, data []byte) error {
	dir := filepath.Join(fs.basePath, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	target := filepath.Join(dir, sanitizeKey(key))

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// ReadRaw reads back a file written with WriteRaw.
func (fs *chartFS) ReadRaw(subdir, key string) ([]byte, error) {
	path := filepath.Join(fs.basePath, subdir, sanitizeKey(key))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}
