package core

import (
	"math"
	"testing"
)

func TestEntryValidate(t *testing.T) {
	good := Entry{
		Type:   Income,
		Date:   "2024-03-29",
		Amount: 2500,
		Source: "Acme Corp",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		e    Entry
		want error
	}{
		{"zero amount", Entry{Date: "2024-03-29", Source: "Acme"}, ErrMissingAmount},
		{"nan amount", Entry{Date: "2024-03-29", Source: "Acme", Amount: math.NaN()}, ErrMissingAmount},
		{"blank source", Entry{Date: "2024-03-29", Amount: 1, Source: "  "}, ErrMissingSource},
		{"bad date", Entry{Date: "29/03/2024", Amount: 1, Source: "Acme"}, ErrMissingDate},
		{"empty date", Entry{Amount: 1, Source: "Acme"}, ErrMissingDate},
		{"bad type", Entry{Type: "salary", Date: "2024-03-29", Amount: 1, Source: "Acme"}, ErrInvalidType},
	}
	for _, tc := range cases {
		if err := tc.e.Validate(); err != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestGrossOf(t *testing.T) {
	cases := []struct {
		name string
		e    Entry
		want float64
	}{
		{"explicit gross", Entry{Amount: 1000, GrossAmount: 1300, Tax: 50}, 1300},
		{"reconstructed", Entry{Amount: 1000, Tax: 200, Deductions: 100}, 1300},
		{"net only", Entry{Amount: 1000}, 1000},
		{"nan components", Entry{Amount: 1000, Tax: math.NaN()}, 1000},
		{"inconsistent gross below net is kept", Entry{Amount: 1000, GrossAmount: 900}, 900},
	}
	for _, tc := range cases {
		if got := GrossOf(tc.e); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDisplayCurrency(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"gbp", "GBP"},
		{"EUR", "EUR"},
		{"us", "USD"},
		{"", "USD"},
		{"usd1", "USD"},
		{"u$d", "USD"},
		{" jpy ", "JPY"},
	}
	for _, tc := range cases {
		if got := DisplayCurrency(tc.in); got != tc.want {
			t.Fatalf("DisplayCurrency(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize(math.NaN()); got != 0 {
		t.Fatalf("NaN: got %v", got)
	}
	if got := Sanitize(math.Inf(1)); got != 0 {
		t.Fatalf("+Inf: got %v", got)
	}
	if got := Sanitize(-12.5); got != -12.5 {
		t.Fatalf("finite: got %v", got)
	}
}

func TestDraftMerge(t *testing.T) {
	src := "Acme Corp"
	amt := 1234.5
	nan := math.NaN()
	d := Draft{
		Source:      &src,
		Amount:      &amt,
		WorkedHours: &nan,
		LineItems:   []LineItem{{Name: "Base", Amount: 1200, Type: Earning}},
	}

	base := Entry{Type: Income, Date: "2024-01-31", Currency: "EUR", Amount: 1}
	merged := d.Merge(base)

	if merged.Source != src || merged.Amount != amt {
		t.Fatalf("merge did not overlay fields: %+v", merged)
	}
	if merged.WorkedHours != 0 {
		t.Fatalf("NaN worked hours should coerce to 0, got %v", merged.WorkedHours)
	}
	if merged.Date != "2024-01-31" || merged.Currency != "EUR" {
		t.Fatalf("absent draft fields must not touch base: %+v", merged)
	}
	if len(merged.LineItems) != 1 || merged.LineItems[0].Name != "Base" {
		t.Fatalf("line items not merged: %+v", merged.LineItems)
	}

	// Base stays untouched by later mutation of the merged copy.
	merged.LineItems[0].Name = "changed"
	if len(base.LineItems) != 0 {
		t.Fatalf("merge must not alias base slices")
	}
}

func TestDraftEntryAssignsID(t *testing.T) {
	src := "Acme"
	amt := 10.0
	date := "2024-02-02"
	d := Draft{Source: &src, Amount: &amt, Date: &date}

	a, b := d.Entry(), d.Entry()
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("finalized draft should validate: %v", err)
	}
}

func TestDraftIsEmpty(t *testing.T) {
	if !(Draft{}).IsEmpty() {
		t.Fatalf("zero draft should be empty")
	}
	s := "x"
	if (Draft{Notes: &s}).IsEmpty() {
		t.Fatalf("draft with a field should not be empty")
	}
}
