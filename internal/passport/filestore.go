package passport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"wanderlens/internal/models"
)

// FileStore persists the passport as one JSON document on disk. The file
// plays the role of the single named key; a missing file is an empty
// passport.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the passport file. A missing or empty file yields an empty
// list.
func (s *FileStore) Load(ctx context.Context) ([]models.SavedEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("passport: failed to read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var entries []models.SavedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("passport: failed to decode %s: %w", s.path, err)
	}
	return entries, nil
}

// Save writes the whole list, creating the parent directory on first use.
func (s *FileStore) Save(ctx context.Context, entries []models.SavedEntry) error {
	if entries == nil {
		entries = []models.SavedEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("passport: failed to encode entries: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("passport: failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("passport: failed to write %s: %w", s.path, err)
	}
	return nil
}
