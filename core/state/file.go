package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// AppDirName is the per-user directory holding the default state file.
const AppDirName = "hikvision-integration"

// DefaultFileName is the name of the default state file.
const DefaultFileName = "sync-state.json"

// FileBackend stores the mapping as an indented JSON object in a single file.
// Every save rewrites the file through a temp file and rename.
type FileBackend struct {
	path string
}

// NewFileBackend creates a file backend. An empty path resolves to DefaultFilePath.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		p, err := DefaultFilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FileBackend{path: path}, nil
}

// DefaultFilePath returns <user cache dir>/hikvision-integration/sync-state.json.
func DefaultFilePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user cache dir: %w", err)
	}
	return filepath.Join(dir, AppDirName, DefaultFileName), nil
}

// Name implements Backend.
func (b *FileBackend) Name() string { return "file" }

// Path returns the file location.
func (b *FileBackend) Path() string { return b.path }

// Load implements Backend.
func (b *FileBackend) Load(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file %s: %w", b.path, err)
	}

	return decodeDocument(data, b.path)
}

// Store implements Backend.
func (b *FileBackend) Store(ctx context.Context, entries map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeDocument(entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".sync-state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("failed to replace state file %s: %w", b.path, err)
	}
	return nil
}

// decodeDocument parses the flat key/value document. Empty content is an empty mapping.
func decodeDocument(data []byte, source string) (map[string]string, error) {
	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode state %s: %w", source, err)
	}
	if entries == nil {
		entries = map[string]string{}
	}
	return entries, nil
}

func encodeDocument(entries map[string]string) ([]byte, error) {
	if entries == nil {
		entries = map[string]string{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}
