package http

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"stipendi/internal/ai"
	"stipendi/internal/core"
)

// handleExtract accepts a multipart upload under the "document" field and
// answers with the extracted draft. Extraction problems of any kind yield
// an empty draft with 200; the client falls back to manual entry.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	if err := r.ParseMultipartForm(maxBodySize); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with a document field")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing document field")
		return
	}
	defer file.Close()

	document, err := io.ReadAll(io.LimitReader(file, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read document")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(document)
	}

	if s.extractor == nil {
		slog.WarnContext(r.Context(), "No extractor configured, returning empty draft")
		writeJSON(w, http.StatusOK, core.Draft{})
		return
	}

	draft, err := s.extractor.Extract(r.Context(), document, mimeType)
	if err != nil {
		slog.ErrorContext(r.Context(), "Extraction failed, returning empty draft",
			"error", err, "filename", header.Filename, "mimeType", mimeType)
		writeJSON(w, http.StatusOK, core.Draft{})
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

type insightResponse struct {
	Lines    []string `json:"lines"`
	Fallback bool     `json:"fallback"`
}

// handleInsight returns the model's narrative over the current collection,
// split into non-empty lines. Failures degrade to a static fallback text
// with 200.
func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	entries, err := s.entries.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list entries for insight", "error", err)
		writeJSON(w, http.StatusOK, insightResponse{Lines: splitLines(ai.FallbackInsight), Fallback: true})
		return
	}

	if s.summarizer == nil {
		writeJSON(w, http.StatusOK, insightResponse{Lines: splitLines(ai.FallbackInsight), Fallback: true})
		return
	}

	text, err := s.summarizer.Summarize(r.Context(), entries)
	if err != nil {
		slog.ErrorContext(r.Context(), "Insight generation failed, using fallback", "error", err)
		writeJSON(w, http.StatusOK, insightResponse{Lines: splitLines(ai.FallbackInsight), Fallback: true})
		return
	}

	writeJSON(w, http.StatusOK, insightResponse{Lines: splitLines(text)})
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
