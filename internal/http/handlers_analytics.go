package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"stipendi/internal/analytics"
	"stipendi/internal/core"
)

type dashboardResponse struct {
	Timeframe          analytics.Timeframe    `json:"timeframe"`
	EntryCount         int                    `json:"entryCount"`
	Totals             analytics.Totals       `json:"totals"`
	KeepRate           float64                `json:"keepRate"`
	Momentum           float64                `json:"momentum"`
	HourlyRate         float64                `json:"hourlyRate"`
	LifetimeProjection float64                `json:"lifetimeProjection"`
	Yearly             []analytics.YearBucket `json:"yearly"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	tf, ok := parseTimeframe(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid timeframe")
		return
	}

	s.serveCachedAnalytics(w, r, func(entries []core.Entry) any {
		filtered := tf.Filter(entries, time.Now())
		return dashboardResponse{
			Timeframe:          tf,
			EntryCount:         len(filtered),
			Totals:             analytics.Sum(filtered),
			KeepRate:           analytics.KeepRate(filtered),
			Momentum:           analytics.Momentum(filtered),
			HourlyRate:         analytics.HourlyRate(filtered),
			LifetimeProjection: analytics.LifetimeProjection(filtered),
			Yearly:             analytics.YearlyRollup(filtered),
		}
	})
}

func (s *Server) handleMonthlySeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	tf, ok := parseTimeframe(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid timeframe")
		return
	}
	window, ok := parseWindow(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid window")
		return
	}

	s.serveCachedAnalytics(w, r, func(entries []core.Entry) any {
		filtered := tf.Filter(entries, time.Now())
		series := analytics.MonthlySeries(filtered, window)
		if series == nil {
			series = []analytics.MonthBucket{}
		}
		return series
	})
}

func (s *Server) handleDisbursements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	sortKey := strings.TrimSpace(r.URL.Query().Get("sort"))
	if sortKey == "" {
		sortKey = analytics.SortByTotal
	}
	desc := true
	switch strings.TrimSpace(r.URL.Query().Get("dir")) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		writeError(w, http.StatusBadRequest, "invalid sort direction")
		return
	}

	s.serveCachedAnalytics(w, r, func(entries []core.Entry) any {
		banks := analytics.DisbursementRollup(entries, sortKey, desc)
		if banks == nil {
			banks = []analytics.BankTotal{}
		}
		return banks
	})
}

func (s *Server) handleLineItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "missing line item name")
		return
	}
	tf, ok := parseTimeframe(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid timeframe")
		return
	}

	s.serveCachedAnalytics(w, r, func(entries []core.Entry) any {
		filtered := tf.Filter(entries, time.Now())
		points := analytics.LineItemProgression(filtered, name)
		if points == nil {
			points = []analytics.ProgressionPoint{}
		}
		return points
	})
}

func (s *Server) handleComposition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	tf, ok := parseTimeframe(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid timeframe")
		return
	}

	s.serveCachedAnalytics(w, r, func(entries []core.Entry) any {
		filtered := tf.Filter(entries, time.Now())
		slices := analytics.CompositionSplit(filtered)
		if slices == nil {
			slices = []analytics.Slice{}
		}
		return slices
	})
}

// serveCachedAnalytics answers from the response cache when possible, and
// otherwise computes the aggregate over the current collection and caches
// the marshalled bytes.
func (s *Server) serveCachedAnalytics(w http.ResponseWriter, r *http.Request, compute func([]core.Entry) any) {
	key := cacheKey(r)
	if body, ok := s.analyticsCache.Get(key); ok {
		writeRawJSON(w, http.StatusOK, body)
		return
	}

	entries, err := s.entries.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list entries for analytics", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute analytics")
		return
	}

	body, err := json.Marshal(compute(entries))
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode analytics response", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute analytics")
		return
	}

	s.analyticsCache.Set(key, body)
	writeRawJSON(w, http.StatusOK, body)
}
