package google

import (
	"context"
	"testing"

	"stipendi/internal/core"
)

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		name string
		base string
		year int
		want string
	}{
		{"plain base", "Salaries", 2024, "2024 Salaries"},
		{"already prefixed", "2023 Salaries", 2024, "2023 Salaries"},
		{"empty base", "", 2024, ""},
		{"padded base", "  Salaries  ", 2024, "2024 Salaries"},
		{"short base", "Pay", 2024, "2024 Pay"},
		{"number-like but not a year", "12 Monkeys", 2024, "2024 12 Monkeys"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := yearPrefixedName(tt.base, tt.year)
			if got != tt.want {
				t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
			}
		})
	}
}

func TestEntryRow(t *testing.T) {
	e := core.Entry{
		ID:       "abc-123",
		Date:     "2024-03-29",
		Source:   "Acme Corp",
		Amount:   3300,
		Tax:      700,
		Currency: "eur",
		JobTitle: "Engineer",
	}

	row := entryRow(e)

	if len(row) != 9 {
		t.Fatalf("len(row) = %d, want 9", len(row))
	}
	if row[0] != "abc-123" {
		t.Errorf("row[0] = %v, want entry id", row[0])
	}
	if row[3] != 4000.0 {
		t.Errorf("row[3] = %v, want derived gross 4000", row[3])
	}
	if row[7] != "EUR" {
		t.Errorf("row[7] = %v, want normalized currency EUR", row[7])
	}
}

func TestAppendEntryRequiresService(t *testing.T) {
	c := &Client{spreadsheetID: "sheet-id", entriesSheet: "2024 Salaries"}

	_, err := c.AppendEntry(context.Background(), core.Entry{
		Amount: 100,
		Source: "Acme",
		Date:   "2024-03-29",
	})
	if err == nil {
		t.Fatal("AppendEntry should fail without an initialized service")
	}
}

func TestAppendEntryValidates(t *testing.T) {
	c := &Client{spreadsheetID: "sheet-id", entriesSheet: "2024 Salaries"}

	_, err := c.AppendEntry(context.Background(), core.Entry{Source: "Acme"})
	if err == nil {
		t.Fatal("AppendEntry should reject an entry without amount")
	}
}
