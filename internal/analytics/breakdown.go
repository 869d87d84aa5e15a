package analytics

import (
	"sort"

	"stipendi/internal/core"
)

// BankTotal is the rollup of disbursed amounts for one bank account. The
// grouping identity is (bankCode, accountNo): two accounts sharing a bank
// name stay separate.
type BankTotal struct {
	BankName  string  `json:"bankName"`
	BankCode  string  `json:"bankCode"`
	AccountNo string  `json:"accountNo"`
	Total     float64 `json:"total"`
}

// Disbursement sort keys.
const (
	SortByTotal    = "total"
	SortByBankName = "bankName"
)

// DisbursementRollup sums disbursement amounts per (bankCode, accountNo).
// The result is sorted by key and dir; unknown keys fall back to total
// descending.
func DisbursementRollup(entries []core.Entry, key string, desc bool) []BankTotal {
	type ident struct {
		code, account string
	}
	byAccount := make(map[ident]*BankTotal)
	var order []ident
	for _, e := range entries {
		for _, d := range e.Disbursements {
			id := ident{d.BankCode, d.AccountNo}
			b, ok := byAccount[id]
			if !ok {
				b = &BankTotal{BankName: d.BankName, BankCode: d.BankCode, AccountNo: d.AccountNo}
				byAccount[id] = b
				order = append(order, id)
			}
			b.Total += core.Sanitize(d.Amount)
		}
	}

	out := make([]BankTotal, 0, len(order))
	for _, id := range order {
		out = append(out, *byAccount[id])
	}

	less := func(i, j int) bool { return out[i].Total < out[j].Total }
	if key == SortByBankName {
		less = func(i, j int) bool { return out[i].BankName < out[j].BankName }
	} else if key != SortByTotal {
		desc = true
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(j, i)
		}
		return less(i, j)
	})
	return out
}

// ProgressionPoint is one sample of a line item's history.
type ProgressionPoint struct {
	Date   string            `json:"date"`
	Amount float64           `json:"amount"`
	Type   core.LineItemType `json:"type"`
}

// LineItemProgression emits one point per entry for the line item named
// name (exact, case-sensitive match on the first occurrence). Entries
// without the item contribute a zero-amount earning point, so the series
// stays dense and charts show no gaps.
func LineItemProgression(entries []core.Entry, name string) []ProgressionPoint {
	asc := sortedByDate(entries)
	out := make([]ProgressionPoint, 0, len(asc))
	for _, e := range asc {
		p := ProgressionPoint{Date: e.Date, Amount: 0, Type: core.Earning}
		for _, li := range e.LineItems {
			if li.Name == name {
				p.Amount = core.Sanitize(li.Amount)
				p.Type = li.Type
				break
			}
		}
		out = append(out, p)
	}
	return out
}

// Slice is one named piece of the composition split.
type Slice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// CompositionSplit sums net, tax and deductions across the entries and
// returns them as named slices, omitting any slice whose total is exactly
// 0.
func CompositionSplit(entries []core.Entry) []Slice {
	var net, tax, deductions float64
	for _, e := range entries {
		net += core.Sanitize(e.Amount)
		tax += core.Sanitize(e.Tax)
		deductions += core.Sanitize(e.Deductions)
	}

	out := make([]Slice, 0, 3)
	for _, s := range []Slice{
		{Name: "net", Value: net},
		{Name: "tax", Value: tax},
		{Name: "deductions", Value: deductions},
	} {
		if s.Value != 0 {
			out = append(out, s)
		}
	}
	return out
}
