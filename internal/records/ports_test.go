package records

import (
	"testing"

	"stipendi/internal/core"
)

func TestValidateSnapshot(t *testing.T) {
	good := []string{`[]`, ` [1,2,3] `, `[{"a":1},{"b":2}]`}
	for _, blob := range good {
		if err := ValidateSnapshot([]byte(blob)); err != nil {
			t.Fatalf("%q should be structurally valid: %v", blob, err)
		}
	}

	bad := []string{`{}`, `{"a":1}`, `"x"`, `12`, `null`, ``, `[1,2`}
	for _, blob := range bad {
		if err := ValidateSnapshot([]byte(blob)); err != ErrBadSnapshot {
			t.Fatalf("%q: got %v, want ErrBadSnapshot", blob, err)
		}
	}
}

func TestDecodeSnapshotSkipsForeignElements(t *testing.T) {
	blob := []byte(`[
		{"id":"a","date":"2024-01-01","amount":10,"source":"X"},
		42,
		"noise",
		{"unknownField":true}
	]`)
	entries, err := DecodeSnapshot(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// The number and the string cannot decode into entries; the unknown
	// object decodes to an empty entry, which imports tolerate.
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != "a" {
		t.Fatalf("first entry: %+v", entries[0])
	}
}

func TestEncodeSnapshotNilIsEmptyArray(t *testing.T) {
	blob, err := EncodeSnapshot(nil)
	if err != nil || string(blob) != "[]" {
		t.Fatalf("got %s, %v", blob, err)
	}
}

func TestInsertKeepsDescendingOrderWithStableTies(t *testing.T) {
	var entries []core.Entry
	add := func(id, date string) {
		entries = Insert(entries, core.Entry{ID: id, Date: date, Amount: 1, Source: "A"})
	}

	add("jan", "2024-01-01")
	add("mar", "2024-03-01")
	add("feb-1", "2024-02-01")
	add("feb-2", "2024-02-01")

	want := []string{"mar", "feb-1", "feb-2", "jan"}
	for i, e := range entries {
		if e.ID != want[i] {
			t.Fatalf("position %d: got %s, want %s (full: %+v)", i, e.ID, want[i], entries)
		}
	}
}

func TestSortDescendingIsStable(t *testing.T) {
	entries := []core.Entry{
		{ID: "x", Date: "2024-01-01"},
		{ID: "tie-1", Date: "2024-02-01"},
		{ID: "tie-2", Date: "2024-02-01"},
	}
	SortDescending(entries)
	if entries[0].ID != "tie-1" || entries[1].ID != "tie-2" || entries[2].ID != "x" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}
