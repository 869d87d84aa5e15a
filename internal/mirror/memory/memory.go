// Package memory provides an in-memory mirror backend for worker tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"stipendi/internal/core"
)

type Mirror struct {
	mu   sync.Mutex
	rows []core.Entry
}

func New() *Mirror {
	return &Mirror{}
}

// AppendEntry stores the entry and returns a synthetic row reference.
func (m *Mirror) AppendEntry(_ context.Context, e core.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, e)
	return fmt.Sprintf("mem:%d", len(m.rows)), nil
}

// DeleteEntry removes the row with the given id. Missing ids are a no-op.
func (m *Mirror) DeleteEntry(_ context.Context, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.rows {
		if e.ID == entryID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Rows returns a copy of the mirrored entries.
func (m *Mirror) Rows() []core.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Entry(nil), m.rows...)
}
