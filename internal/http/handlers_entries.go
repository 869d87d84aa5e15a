package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"stipendi/internal/core"
	"stipendi/internal/records"
)

const maxBodySize = 10 << 20 // 10 MiB

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListEntries(w, r)
	case http.MethodPost:
		s.handleCreateEntry(w, r)
	default:
		methodNotAllowed(w, "GET", "POST")
	}
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list entries", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list entries")
		return
	}
	if entries == nil {
		entries = []core.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var draft core.Draft
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	entry := draft.Entry()
	id, err := s.entries.Create(r.Context(), entry)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}

	s.invalidateAnalytics()

	entry.ID = id
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleEntryByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/entries/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "missing entry id")
		return
	}

	if err := s.entries.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete entry", "entryId", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}

	s.invalidateAnalytics()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	blob, err := s.entries.ExportSnapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to export snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export snapshot")
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportFilename(time.Now())))
	writeRawJSON(w, http.StatusOK, blob)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	blob, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := s.entries.ImportSnapshot(r.Context(), blob); err != nil {
		if errors.Is(err, records.ErrBadSnapshot) {
			writeError(w, http.StatusUnprocessableEntity, "snapshot must be a JSON array")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to import snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to import snapshot")
		return
	}

	s.invalidateAnalytics()
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrMissingAmount) ||
		errors.Is(err, core.ErrMissingSource) ||
		errors.Is(err, core.ErrMissingDate) ||
		errors.Is(err, core.ErrInvalidType)
}
