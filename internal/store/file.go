package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps one pretty-printed <table>.json document per table under
// a data directory. Saves are plain full-file overwrites.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) LoadTable(_ context.Context, table string, dest any) error {
	raw, err := os.ReadFile(s.path(table))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", table, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func (s *FileStore) SaveTable(_ context.Context, table string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", table, err)
	}
	if err := os.WriteFile(s.path(table), raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(table string) string {
	return filepath.Join(s.dir, table+".json")
}
