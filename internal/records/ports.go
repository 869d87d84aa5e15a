// Package records defines the ports to the persisted entry collection.
// The collection lives behind a Store; implementations are the SQLite
// repository and an in-memory store used by tests.
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"

	"stipendi/internal/core"
)

var (
	// ErrBadSnapshot signals an import blob that does not parse into a JSON
	// array. Existing data is left untouched when it is returned.
	ErrBadSnapshot = errors.New("snapshot is not a JSON array")
)

// Store is the contract the rest of the system consumes.
type Store interface {
	// List returns the collection ordered most-recent date first, stable
	// for equal dates.
	List(ctx context.Context) ([]core.Entry, error)

	// Append validates required fields and persists the entry. It returns
	// the entry id.
	Append(ctx context.Context, e core.Entry) (string, error)

	// Remove deletes by id. Removing an absent id is a no-op.
	Remove(ctx context.Context, id string) error

	// ExportSnapshot returns the exact persisted JSON array.
	ExportSnapshot(ctx context.Context) ([]byte, error)

	// ImportSnapshot replaces the whole collection with the blob's array.
	// It fails with ErrBadSnapshot when the blob is not a JSON array.
	ImportSnapshot(ctx context.Context, blob []byte) error

	// Clear empties the collection.
	Clear(ctx context.Context) error
}

// ValidateSnapshot checks that blob is a JSON array. Element shape is not
// validated at import time; any array is structurally acceptable.
func ValidateSnapshot(blob []byte) error {
	trimmed := bytes.TrimSpace(blob)
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return ErrBadSnapshot
	}
	return nil
}

// DecodeSnapshot parses the blob's array into entries, skipping elements
// that are not entry-shaped. Imports accept arbitrary arrays, so reads have
// to tolerate them.
func DecodeSnapshot(blob []byte) ([]core.Entry, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(blob), &elems); err != nil {
		return nil, ErrBadSnapshot
	}
	entries := make([]core.Entry, 0, len(elems))
	for _, raw := range elems {
		var e core.Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// EncodeSnapshot serializes entries into the persisted-blob layout.
func EncodeSnapshot(entries []core.Entry) ([]byte, error) {
	if entries == nil {
		entries = []core.Entry{}
	}
	return json.Marshal(entries)
}

// SortDescending orders entries most-recent date first. The sort is stable,
// preserving insertion order among equal dates.
func SortDescending(entries []core.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
}

// Insert places e into a descending-ordered collection, after any existing
// entries sharing its date so insertion order stays the tie-break.
func Insert(entries []core.Entry, e core.Entry) []core.Entry {
	at := len(entries)
	for i, existing := range entries {
		if existing.Date < e.Date {
			at = i
			break
		}
	}
	entries = append(entries, core.Entry{})
	copy(entries[at+1:], entries[at:])
	entries[at] = e
	return entries
}
