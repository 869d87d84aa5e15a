package analytics

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"stipendi/internal/core"
)

// Timeframe restricts which entries feed an aggregation. Beyond the named
// windows, an explicit 4-digit year string selects exactly that year.
type Timeframe string

const (
	TimeframeAll Timeframe = "ALL"
	Timeframe1Y  Timeframe = "1Y"
	TimeframeYTD Timeframe = "YTD"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// ParseTimeframe validates a caller-supplied timeframe. The empty string
// means ALL.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case "", TimeframeAll:
		return TimeframeAll, nil
	case Timeframe1Y, TimeframeYTD:
		return Timeframe(s), nil
	}
	if yearPattern.MatchString(s) {
		return Timeframe(s), nil
	}
	return "", fmt.Errorf("invalid timeframe %q", s)
}

// Filter returns the entries inside the timeframe, evaluated against now:
// 1Y is the trailing twelve months, YTD the current calendar year, ALL
// everything, and a 4-digit year exactly that year.
func (tf Timeframe) Filter(entries []core.Entry, now time.Time) []core.Entry {
	switch tf {
	case TimeframeAll, "":
		return append([]core.Entry(nil), entries...)
	case Timeframe1Y:
		cutoff := now.AddDate(-1, 0, 0).Format(core.DateLayout)
		return keep(entries, func(e core.Entry) bool { return e.Date >= cutoff })
	case TimeframeYTD:
		year := now.Year()
		return keep(entries, func(e core.Entry) bool { return e.Year() == year })
	}
	year, err := strconv.Atoi(string(tf))
	if err != nil {
		return append([]core.Entry(nil), entries...)
	}
	return keep(entries, func(e core.Entry) bool { return e.Year() == year })
}

func keep(entries []core.Entry, pred func(core.Entry) bool) []core.Entry {
	out := make([]core.Entry, 0, len(entries))
	for _, e := range entries {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// YearBucket is one calendar year's rollup. Growth is the year-over-year
// gross change in percent, 0 for the earliest year present.
type YearBucket struct {
	Year   int     `json:"year"`
	Gross  float64 `json:"gross"`
	Net    float64 `json:"net"`
	Growth float64 `json:"growth"`
}

// YearlyRollup groups by calendar year, summing gross and net, ascending by
// year.
func YearlyRollup(entries []core.Entry) []YearBucket {
	byYear := make(map[int]*YearBucket)
	for _, e := range entries {
		y := e.Year()
		b, ok := byYear[y]
		if !ok {
			b = &YearBucket{Year: y}
			byYear[y] = b
		}
		b.Gross += core.GrossOf(e)
		b.Net += core.Sanitize(e.Amount)
	}

	out := make([]YearBucket, 0, len(byYear))
	for _, b := range byYear {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })

	for i := range out {
		if i == 0 {
			continue
		}
		out[i].Growth = ratio(out[i].Gross-out[i-1].Gross, out[i-1].Gross)
	}
	return out
}

// MonthBucket is one (year, month) point of the time-series charts.
// Deductions is the subtractive Gross-Net, consistent with Totals.
type MonthBucket struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Label      string  `json:"label"`
	Gross      float64 `json:"gross"`
	Net        float64 `json:"net"`
	Deductions float64 `json:"deductions"`
}

// MonthlySeries groups by (year, month), ascending by the bucket's
// underlying timestamp rather than its label. A positive window keeps only
// the trailing window buckets (callers use 6 or 12).
func MonthlySeries(entries []core.Entry, window int) []MonthBucket {
	type key struct {
		year  int
		month time.Month
	}
	byMonth := make(map[key]*MonthBucket)
	for _, e := range entries {
		d := e.Day()
		k := key{d.Year(), d.Month()}
		b, ok := byMonth[k]
		if !ok {
			b = &MonthBucket{
				Year:  k.year,
				Month: int(k.month),
				Label: bucketTime(k.year, k.month).Format("Jan 2006"),
			}
			byMonth[k] = b
		}
		b.Gross += core.GrossOf(e)
		b.Net += core.Sanitize(e.Amount)
	}

	out := make([]MonthBucket, 0, len(byMonth))
	for _, b := range byMonth {
		b.Deductions = b.Gross - b.Net
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		return bucketTime(a.Year, time.Month(a.Month)).Before(bucketTime(b.Year, time.Month(b.Month)))
	})

	if window > 0 && len(out) > window {
		out = out[len(out)-window:]
	}
	return out
}
