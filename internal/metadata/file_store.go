package metadata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// DefaultCacheFile is the cache file name used when no path is configured.
const DefaultCacheFile = "imdb_cache.json"

// FileStore keeps the whole cache in a single JSON object keyed by external id.
// Every save rewrites the file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultCacheFile
	}
	return &FileStore{path: path}
}

// Path returns the cache file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the cache file. A missing file is an empty cache.
func (s *FileStore) Load(ctx context.Context) (map[string]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	records := make(map[string]Record)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse cache file: %w", err)
	}
	return records, nil
}

// Save rewrites the cache file with all records.
func (s *FileStore) Save(ctx context.Context, _ string, _ Record, all map[string]Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	// Write a sibling temp file, then rename it over the cache.
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".imdb_cache-*.json")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
