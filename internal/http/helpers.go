package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stipendi/internal/analytics"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// parseTimeframe reads the timeframe query parameter, defaulting to ALL.
func parseTimeframe(r *http.Request) (analytics.Timeframe, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("timeframe"))
	tf, err := analytics.ParseTimeframe(raw)
	if err != nil {
		return "", false
	}
	return tf, true
}

// parseWindow reads the trailing-months window parameter; 0 means no
// truncation.
func parseWindow(r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("window"))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// exportFilename builds the snapshot download name for the given day.
func exportFilename(now time.Time) string {
	return "salary_backup_" + now.Format("2006-01-02") + ".json"
}

// cacheKey derives the analytics cache key from the request path and query.
func cacheKey(r *http.Request) string {
	return r.URL.Path + "?" + r.URL.RawQuery
}
