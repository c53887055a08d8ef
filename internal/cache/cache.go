// Package cache stores best-known packings between runs so repeated runs on
// the same input only ever improve.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/guimove/rectfit/internal/model"
)

// FileCache keeps one JSON file per key in a directory.
type FileCache struct {
	dir string
	ttl time.Duration
}

// NewFileCache creates a cache in dir. Entries older than ttl are ignored;
// a ttl of zero or less never expires entries.
func NewFileCache(dir string, ttl time.Duration) *FileCache {
	return &FileCache{dir: dir, ttl: ttl}
}

// Entry is the stored form of a packing.
type Entry struct {
	Bin      model.Rectangle `json:"bin"`
	Packed   model.Packing   `json:"packed"`
	Strategy string          `json:"strategy,omitempty"`
	StoredAt time.Time       `json:"stored_at"`
}

// Get retrieves the entry for key if it exists and hasn't expired.
func (fc *FileCache) Get(key string) (*Entry, bool) {
	path := fc.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	if fc.ttl > 0 && time.Since(info.ModTime()) > fc.ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	// Score is recomputed from the shapes.
	e.Packed = model.NewPacking(e.Packed.Shapes)
	return &e, true
}

// Set stores an entry under key.
func (fc *FileCache) Set(key string, e Entry) error {
	if err := os.MkdirAll(fc.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	if e.StoredAt.IsZero() {
		e.StoredAt = time.Now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(fc.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fc.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Clear removes all cached entries.
func (fc *FileCache) Clear() error {
	entries, err := os.ReadDir(fc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		if err := os.Remove(filepath.Join(fc.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, key+".json")
}
