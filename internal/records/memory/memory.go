// Package memory provides an in-memory Store. It backs handler and service
// tests and mirrors the persistence rules of the SQLite repository: the
// collection is kept in descending date order and imports replace it
// wholesale.
package memory

import (
	"context"
	"sync"

	"stipendi/internal/core"
	"stipendi/internal/records"
)

type Store struct {
	mu      sync.RWMutex
	entries []core.Entry
}

var _ records.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) List(ctx context.Context) ([]core.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Entry(nil), s.entries...), nil
}

func (s *Store) Append(ctx context.Context, e core.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	if e.ID == "" {
		e.ID = core.NewID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = records.Insert(s.entries, e)
	return e.ID, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) ExportSnapshot(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return records.EncodeSnapshot(s.entries)
}

func (s *Store) ImportSnapshot(ctx context.Context, blob []byte) error {
	if err := records.ValidateSnapshot(blob); err != nil {
		return err
	}
	entries, err := records.DecodeSnapshot(blob)
	if err != nil {
		return err
	}
	records.SortDescending(entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
