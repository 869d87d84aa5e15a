// Package core holds the payslip entry domain and the fallback policies the
// rest of the system applies when entry data is partial or inconsistent.
//
// The fallbacks are business rules, not incidental code paths: gross
// reconstruction and the USD display fallback are depended on by every
// aggregation, so they live here as named functions.
package core

import (
	"math"
	"strings"
)

// FallbackCurrency is substituted for display whenever an entry carries a
// currency code that is not exactly three A-Z letters. The stored field is
// never overwritten.
const FallbackCurrency = "USD"

// GrossOf returns the entry's gross amount, reconstructing it additively
// from net + tax + deductions when grossAmount is absent. The reconstruction
// is deliberately additive rather than defaulting to net alone.
func GrossOf(e Entry) float64 {
	if g := Sanitize(e.GrossAmount); g != 0 {
		return g
	}
	return Sanitize(e.Amount) + Sanitize(e.Tax) + Sanitize(e.Deductions)
}

// DisplayCurrency normalizes a currency code for presentation. Codes are
// upper-cased first; anything that is not exactly three A-Z letters falls
// back to USD silently.
func DisplayCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return FallbackCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return FallbackCurrency
		}
	}
	return code
}

// Sanitize coerces NaN and infinities to 0 so that malformed numeric input
// never propagates into totals.
func Sanitize(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
