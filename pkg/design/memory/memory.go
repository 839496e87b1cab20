// Package memory provides an in-process design store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/slotcraft/pkg/design"
)

// Store keeps designs in a map keyed by owner, then id.
type Store struct {
	mu      sync.RWMutex
	designs map[string]map[string]design.Design
}

// New creates an empty store.
func New() *Store {
	return &Store{designs: make(map[string]map[string]design.Design)}
}

func (s *Store) Get(ctx context.Context, owner, id string) (*design.Design, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.designs[owner][id]
	if !ok {
		return nil, design.NotFound(owner, id)
	}
	out := d.Clone()
	return &out, nil
}

func (s *Store) Save(ctx context.Context, d *design.Design) error {
	if err := design.Prepare(d, time.Now()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owned, ok := s.designs[d.Owner]
	if !ok {
		owned = make(map[string]design.Design)
		s.designs[d.Owner] = owned
	}
	if prev, ok := owned[d.ID]; ok {
		d.CreatedAt = prev.CreatedAt
	}
	owned[d.ID] = d.Clone()
	return nil
}

func (s *Store) Delete(ctx context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.designs[owner][id]; !ok {
		return design.NotFound(owner, id)
	}
	delete(s.designs[owner], id)
	return nil
}

func (s *Store) List(ctx context.Context, owner string) ([]design.Design, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]design.Design, 0, len(s.designs[owner]))
	for _, d := range s.designs[owner] {
		out = append(out, d.Clone())
	}
	design.SortByUpdated(out)
	return out, nil
}

func (s *Store) Close() error { return nil }

var _ design.Store = (*Store)(nil)
