// Package analytics derives summary metrics and chart-ready series from a
// collection of payslip entries. Every function is pure: the input slice is
// never mutated, the same collection always yields the same output, and an
// empty collection yields a defined zero result instead of an error or NaN.
package analytics

import (
	"sort"
	"time"

	"stipendi/internal/core"
)

const (
	// avgMonthDays converts a day span into fractional months.
	avgMonthDays = 30.44
	// careerYears is the fixed career-length assumption behind the lifetime
	// projection. It is a documented constant, not derived from data.
	careerYears = 35
)

// Totals are the canonical aggregate figures. Deductions is always the
// subtractive form Gross-Net so that displayed figures cannot drift between
// call sites.
type Totals struct {
	Net        float64 `json:"totalNet"`
	Gross      float64 `json:"totalGross"`
	Deductions float64 `json:"totalDeductions"`
}

// Sum computes the canonical totals over the collection.
func Sum(entries []core.Entry) Totals {
	var t Totals
	for _, e := range entries {
		t.Net += core.Sanitize(e.Amount)
		t.Gross += core.GrossOf(e)
	}
	t.Deductions = t.Gross - t.Net
	return t
}

// KeepRate returns net/gross as a percentage, 0 when gross is 0. Upstream
// inconsistencies (gross below net) are passed through, so the result may
// exceed 100; it is always finite.
func KeepRate(entries []core.Entry) float64 {
	t := Sum(entries)
	return ratio(t.Net, t.Gross)
}

// Momentum compares average gross between the earliest three and latest
// three entries, as a percentage change. With fewer than six entries the
// windows overlap; with an all-zero early window the result is 0.
func Momentum(entries []core.Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	asc := sortedByDate(entries)
	w := 3
	if len(asc) < w {
		w = len(asc)
	}
	var first, last float64
	for _, e := range asc[:w] {
		first += core.GrossOf(e)
	}
	for _, e := range asc[len(asc)-w:] {
		last += core.GrossOf(e)
	}
	avgFirst := first / float64(w)
	avgLast := last / float64(w)
	if avgFirst == 0 {
		return 0
	}
	return (avgLast - avgFirst) / avgFirst * 100
}

// HourlyRate averages gross/workedHours over entries that record positive
// hours. Entries with zero or absent hours are excluded from both sides of
// the average; an entry with hours but zero gross still counts, as 0.
func HourlyRate(entries []core.Entry) float64 {
	var sum float64
	var n int
	for _, e := range entries {
		h := core.Sanitize(e.WorkedHours)
		if h <= 0 {
			continue
		}
		sum += core.GrossOf(e) / h
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// LifetimeProjection extrapolates average monthly gross over a fixed
// 35-year career. Collections spanning less than a month are treated as one
// month so a single payslip projects sensibly.
func LifetimeProjection(entries []core.Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	asc := sortedByDate(entries)
	span := asc[len(asc)-1].Day().Sub(asc[0].Day())
	months := span.Hours() / 24 / avgMonthDays
	if months < 1 {
		months = 1
	}
	var gross float64
	for _, e := range entries {
		gross += core.GrossOf(e)
	}
	return gross / months * 12 * careerYears
}

// ratio returns num/den as a percentage, 0 for a zero denominator.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

// sortedByDate returns a copy of entries in ascending date order. The sort
// is stable, so ties keep their insertion order.
func sortedByDate(entries []core.Entry) []core.Entry {
	asc := append([]core.Entry(nil), entries...)
	sort.SliceStable(asc, func(i, j int) bool {
		return asc[i].Date < asc[j].Date
	})
	return asc
}

// bucketTime pins a (year, month) bucket to a sortable timestamp.
func bucketTime(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
