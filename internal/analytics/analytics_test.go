package analytics

import (
	"math"
	"testing"

	"stipendi/internal/core"
)

func entry(date string, net, gross float64) core.Entry {
	return core.Entry{
		ID:          core.NewID(),
		Type:        core.Income,
		Date:        date,
		Amount:      net,
		GrossAmount: gross,
		Source:      "Acme Corp",
	}
}

func TestSumAndKeepRate(t *testing.T) {
	entries := []core.Entry{
		entry("2023-01-01", 1000, 1300),
		entry("2023-06-01", 1100, 1400),
		entry("2024-01-01", 1200, 1500),
	}

	got := Sum(entries)
	if got.Net != 3300 {
		t.Fatalf("totalNet = %v, want 3300", got.Net)
	}
	if got.Gross != 4200 {
		t.Fatalf("totalGross = %v, want 4200", got.Gross)
	}
	if got.Deductions != got.Gross-got.Net {
		t.Fatalf("deductions identity broken: %v != %v", got.Deductions, got.Gross-got.Net)
	}

	rate := KeepRate(entries)
	if math.Abs(rate-78.571428) > 0.001 {
		t.Fatalf("keep rate = %v, want about 78.57", rate)
	}
}

func TestSumReconstructsGross(t *testing.T) {
	e := core.Entry{Date: "2024-01-01", Amount: 1000, Tax: 200, Deductions: 100, Source: "A"}
	got := Sum([]core.Entry{e})
	if got.Gross != 1300 {
		t.Fatalf("gross = %v, want 1300 (net+tax+deductions)", got.Gross)
	}
}

func TestKeepRateEmptyAndZeroGross(t *testing.T) {
	if got := KeepRate(nil); got != 0 {
		t.Fatalf("empty: got %v", got)
	}
	// Entries whose sanitized gross sums to zero must not divide by zero.
	e := core.Entry{Date: "2024-01-01", Amount: math.NaN(), Source: "A"}
	got := KeepRate([]core.Entry{e})
	if got != 0 || math.IsNaN(got) {
		t.Fatalf("zero gross: got %v, want 0", got)
	}
}

func TestMomentum(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := Momentum(nil); got != 0 {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("single entry is neutral", func(t *testing.T) {
		got := Momentum([]core.Entry{entry("2024-01-01", 100, 100)})
		if got != 0 {
			t.Fatalf("got %v, want 0", got)
		}
	})

	t.Run("overlapping windows with four entries", func(t *testing.T) {
		entries := []core.Entry{
			entry("2024-01-01", 0, 100),
			entry("2024-02-01", 0, 200),
			entry("2024-03-01", 0, 300),
			entry("2024-04-01", 0, 400),
		}
		// first3 avg = 200, last3 avg = 300 -> +50%
		got := Momentum(entries)
		if math.Abs(got-50) > 1e-9 {
			t.Fatalf("got %v, want 50", got)
		}
	})

	t.Run("input order does not matter", func(t *testing.T) {
		entries := []core.Entry{
			entry("2024-04-01", 0, 400),
			entry("2024-01-01", 0, 100),
			entry("2024-03-01", 0, 300),
			entry("2024-02-01", 0, 200),
		}
		if got := Momentum(entries); math.Abs(got-50) > 1e-9 {
			t.Fatalf("got %v, want 50", got)
		}
	})

	t.Run("zero early window", func(t *testing.T) {
		entries := []core.Entry{
			{Date: "2024-01-01", Source: "A"},
			{Date: "2024-06-01", Source: "A", GrossAmount: 500},
		}
		got := Momentum(entries)
		if got != 0 || math.IsInf(got, 0) {
			t.Fatalf("got %v, want 0", got)
		}
	})
}

func TestHourlyRate(t *testing.T) {
	entries := []core.Entry{
		{Date: "2024-01-01", Source: "A", GrossAmount: 1000, WorkedHours: 100}, // 10/h
		{Date: "2024-02-01", Source: "A", GrossAmount: 900, WorkedHours: 0},    // excluded
		{Date: "2024-03-01", Source: "A", GrossAmount: 0, WorkedHours: 10},     // counts as 0
	}
	got := HourlyRate(entries)
	if math.Abs(got-5) > 1e-9 {
		t.Fatalf("got %v, want 5 (avg of 10 and 0, zero-hour entry excluded)", got)
	}
	if got := HourlyRate(nil); got != 0 {
		t.Fatalf("empty: got %v", got)
	}
}

func TestLifetimeProjection(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := LifetimeProjection(nil); got != 0 {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("single payslip spans one month", func(t *testing.T) {
		got := LifetimeProjection([]core.Entry{entry("2024-01-15", 0, 3000)})
		want := 3000.0 * 12 * 35
		if math.Abs(got-want) > 1e-6 {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("spanning a year", func(t *testing.T) {
		entries := []core.Entry{
			entry("2023-01-01", 0, 1000),
			entry("2024-01-01", 0, 1000),
		}
		months := 365.0 / avgMonthDays
		want := 2000.0 / months * 12 * 35
		got := LifetimeProjection(entries)
		if math.Abs(got-want) > 1e-6 {
			t.Fatalf("got %v, want %v", got, want)
		}
	})
}

func TestMetricsAreAlwaysFinite(t *testing.T) {
	collections := [][]core.Entry{
		nil,
		{},
		{entry("2024-01-01", 0, 0)},
		{{Date: "2024-01-01", Source: "A", Amount: math.NaN(), Tax: math.Inf(1)}},
		{entry("2024-01-01", -50, 10), entry("2024-02-01", 100, 0)},
	}
	for i, entries := range collections {
		for name, got := range map[string]float64{
			"keepRate": KeepRate(entries),
			"momentum": Momentum(entries),
			"hourly":   HourlyRate(entries),
			"lifetime": LifetimeProjection(entries),
		} {
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("collection %d: %s = %v, want finite", i, name, got)
			}
		}
	}
}
