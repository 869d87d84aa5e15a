// Package worker mirrors entries from SQLite to the spreadsheet copy. It is
// driven by AMQP messages, with a periodic catch-up pass for messages that
// were lost or never published.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stipendi/internal/amqp"
	"stipendi/internal/core"
	"stipendi/internal/mirror"
	"stipendi/internal/storage"
)

// Storage is the slice of the repository the worker needs.
type Storage interface {
	GetEntry(ctx context.Context, id string) (*core.Entry, error)
	GetPendingMirrorEntries(ctx context.Context, limit int) ([]storage.PendingMirrorEntry, error)
	MarkMirrored(ctx context.Context, id string) error
	MarkMirrorError(ctx context.Context, id string) error
}

type MirrorWorker struct {
	storage   Storage
	writer    mirror.RowWriter
	deleter   mirror.RowDeleter
	batchSize int
}

func NewMirrorWorker(storage Storage, writer mirror.RowWriter, deleter mirror.RowDeleter, batchSize int) *MirrorWorker {
	return &MirrorWorker{
		storage:   storage,
		writer:    writer,
		deleter:   deleter,
		batchSize: batchSize,
	}
}

// HandleMessage processes one AMQP mirror message. An error requeues the
// message, so only retryable failures should be returned.
func (w *MirrorWorker) HandleMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	switch msg.Action {
	case amqp.ActionDelete:
		return w.handleDelete(ctx, msg.EntryID)
	default:
		return w.handleUpsert(ctx, msg.EntryID)
	}
}

func (w *MirrorWorker) handleUpsert(ctx context.Context, entryID string) error {
	entry, err := w.storage.GetEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}
	if entry == nil {
		// Deleted before the message was consumed; nothing to mirror.
		slog.InfoContext(ctx, "Entry gone before mirroring, skipping", "entryId", entryID)
		return nil
	}

	return w.mirrorEntry(ctx, *entry)
}

func (w *MirrorWorker) handleDelete(ctx context.Context, entryID string) error {
	if w.deleter == nil {
		slog.WarnContext(ctx, "No row deleter configured, skipping mirror deletion",
			"entryId", entryID)
		return nil
	}

	if err := w.deleter.DeleteEntry(ctx, entryID); err != nil {
		return fmt.Errorf("delete mirrored row: %w", err)
	}

	slog.InfoContext(ctx, "Deleted mirrored row", "entryId", entryID)
	return nil
}

func (w *MirrorWorker) mirrorEntry(ctx context.Context, e core.Entry) error {
	rowRef, err := w.writer.AppendEntry(ctx, e)
	if err != nil {
		if markErr := w.storage.MarkMirrorError(ctx, e.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to record mirror error", "entryId", e.ID, "error", markErr)
		}
		return fmt.Errorf("append mirrored row: %w", err)
	}

	if err := w.storage.MarkMirrored(ctx, e.ID); err != nil {
		return fmt.Errorf("mark entry mirrored: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored entry", "entryId", e.ID, "rowRef", rowRef)
	return nil
}

// ProcessPendingEntries mirrors entries whose AMQP message was lost. Errors
// on individual entries are logged and skipped so one bad entry cannot
// stall the batch.
func (w *MirrorWorker) ProcessPendingEntries(ctx context.Context) error {
	pending, err := w.storage.GetPendingMirrorEntries(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending entries: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending entries", "count", len(pending))

	for _, p := range pending {
		entry, err := w.storage.GetEntry(ctx, p.EntryID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get entry", "entryId", p.EntryID, "error", err)
			if err := w.storage.MarkMirrorError(ctx, p.EntryID); err != nil {
				slog.ErrorContext(ctx, "Failed to record mirror error", "entryId", p.EntryID, "error", err)
			}
			continue
		}
		if entry == nil {
			slog.WarnContext(ctx, "Pending entry no longer in collection", "entryId", p.EntryID)
			continue
		}

		if err := w.mirrorEntry(ctx, *entry); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror pending entry", "entryId", p.EntryID, "error", err)
			continue
		}
	}

	return nil
}

// StartupCheck mirrors any backlog at worker start with a larger batch,
// recovering from downtime or missed messages.
func (w *MirrorWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingMirrorEntries(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending entries for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending entries found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending entries on startup", "count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		entry, err := w.storage.GetEntry(ctx, p.EntryID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get entry for startup mirror",
				"entryId", p.EntryID, "error", err)
			if err := w.storage.MarkMirrorError(ctx, p.EntryID); err != nil {
				slog.ErrorContext(ctx, "Failed to record mirror error", "entryId", p.EntryID, "error", err)
			}
			errorCount++
			continue
		}
		if entry == nil {
			continue
		}

		if err := w.mirrorEntry(ctx, *entry); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror entry during startup",
				"entryId", p.EntryID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup mirror check complete",
		"success", successCount, "errors", errorCount)
	return nil
}

// Run executes the periodic catch-up loop until the context is cancelled.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPendingEntries(ctx); err != nil {
				slog.ErrorContext(ctx, "Catch-up pass failed", "error", err)
			}
		}
	}
}
