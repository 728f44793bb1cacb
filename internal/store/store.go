package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound marks a missing record or collection file. Handlers map it
// to 404; every other store error surfaces as a 500.
var ErrNotFound = errors.New("not found")

// Store persists every collection as JSON under a single data directory.
// Posts and pages get one file per record; everything else lives in a
// single array (or object) file per collection. One mutex per collection
// serializes read-modify-write sequences, so two concurrent mutations on
// the same collection can never overwrite each other's effect.
type Store struct {
	dir string

	postsMu      sync.Mutex
	pagesMu      sync.Mutex
	categoriesMu sync.Mutex
	labelsMu     sync.Mutex
	commentsMu   sync.Mutex
	reviewsMu    sync.Mutex
	settingsMu   sync.Mutex
	usersMu      sync.Mutex
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root data directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(rel string) string {
	return filepath.Join(s.dir, filepath.FromSlash(rel))
}

// readJSON loads the file at rel into v. A missing file is ErrNotFound;
// malformed JSON or any other filesystem failure is a real error and is
// never masked as an empty result.
func (s *Store) readJSON(rel string, v any) error {
	data, err := os.ReadFile(s.path(rel))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", rel, ErrNotFound)
		}
		return fmt.Errorf("read %s: %w", rel, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", rel, err)
	}
	return nil
}

// writeJSON writes v to rel, creating parent directories as needed. The
// payload lands in a temp file first and is renamed into place, so a
// reader never observes a half-written file.
func (s *Store) writeJSON(rel string, v any) error {
	full := s.path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", rel, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", rel, err)
	}
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		return fmt.Errorf("rename %s: %w", rel, err)
	}
	return nil
}

// remove deletes the file at rel. Missing files report ErrNotFound.
func (s *Store) remove(rel string) error {
	err := os.Remove(s.path(rel))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", rel, ErrNotFound)
		}
		return fmt.Errorf("remove %s: %w", rel, err)
	}
	return nil
}

// readArray loads a shared-array collection file. A collection that has
// never been written is an empty collection, not an error.
func readArray[T any](s *Store, rel string) ([]T, error) {
	var items []T
	if err := s.readJSON(rel, &items); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}
