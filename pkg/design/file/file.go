// Package file provides a design store backed by JSON files.
//
// Designs live at <dir>/<owner>/<id>.json. Owner and design ids are
// validated before they reach the file system.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/slotcraft/pkg/design"
	"github.com/matzehuels/slotcraft/pkg/errors"
)

// Store is a file-based design store for CLI applications.
type Store struct {
	mu      sync.RWMutex
	baseDir string
}

// New creates a store rooted at baseDir, creating it if needed.
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "design directory cannot be empty")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create design dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Path returns the base directory for design files.
func (s *Store) Path() string { return s.baseDir }

func (s *Store) designPath(owner, id string) (string, error) {
	if err := errors.ValidateID("owner", owner); err != nil {
		return "", err
	}
	if err := errors.ValidateID("design", id); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, owner, id+".json"), nil
}

func (s *Store) Get(ctx context.Context, owner, id string) (*design.Design, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.designPath(owner, id)
	if err != nil {
		return nil, err
	}
	return readDesign(path, owner, id)
}

func readDesign(path, owner, id string) (*design.Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, design.NotFound(owner, id)
		}
		return nil, fmt.Errorf("read design file: %w", err)
	}

	var d design.Design
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse design %s: %w", id, err)
	}
	return &d, nil
}

func (s *Store) Save(ctx context.Context, d *design.Design) error {
	if err := design.Prepare(d, time.Now()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.designPath(d.Owner, d.ID)
	if err != nil {
		return err
	}
	if prev, err := readDesign(path, d.Owner, d.ID); err == nil {
		d.CreatedAt = prev.CreatedAt
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal design: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create owner dir: %w", err)
	}

	// Write then rename so readers never see a partial file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write design file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write design file: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.designPath(owner, id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return design.NotFound(owner, id)
		}
		return fmt.Errorf("remove design file: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, owner string) ([]design.Design, error) {
	if err := errors.ValidateID("owner", owner); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Join(s.baseDir, owner)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []design.Design{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read design dir: %w", err)
	}

	out := make([]design.Design, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		d, err := readDesign(filepath.Join(dir, entry.Name()), owner, id)
		if err != nil {
			continue
		}
		out = append(out, *d)
	}
	design.SortByUpdated(out)
	return out, nil
}

func (s *Store) Close() error { return nil }

var _ design.Store = (*Store)(nil)
