package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"stipendi/internal/core"
	"stipendi/internal/records"
)

// Publisher is the slice of the AMQP client the service needs. Nil is a
// valid value when the broker is not configured; the store remains the
// source of truth either way.
type Publisher interface {
	PublishEntrySync(ctx context.Context, entryID string) error
	PublishEntryDelete(ctx context.Context, entryID string) error
	Close() error
}

// EntryService orchestrates entry operations across the store and AMQP.
type EntryService struct {
	store     records.Store
	publisher Publisher
}

func NewEntryService(store records.Store, publisher Publisher) *EntryService {
	return &EntryService{
		store:     store,
		publisher: publisher,
	}
}

func (s *EntryService) List(ctx context.Context) ([]core.Entry, error) {
	return s.store.List(ctx)
}

// Create saves an entry locally and publishes a mirror message. The local
// save is authoritative; a publish failure is logged and swallowed.
func (s *EntryService) Create(ctx context.Context, e core.Entry) (string, error) {
	id, err := s.store.Append(ctx, e)
	if err != nil {
		return "", fmt.Errorf("save entry: %w", err)
	}

	if err := s.publishSync(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"entryId", id, "error", err)
	}

	return id, nil
}

// Delete removes an entry locally and publishes a delete message. Deleting
// an absent id succeeds without publishing side effects beyond the message.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if err := s.publishDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"entryId", id, "error", err)
	}

	return nil
}

func (s *EntryService) ExportSnapshot(ctx context.Context) ([]byte, error) {
	return s.store.ExportSnapshot(ctx)
}

// ImportSnapshot replaces the collection. No per-entry messages are
// published; the worker's catch-up pass re-mirrors the new collection.
func (s *EntryService) ImportSnapshot(ctx context.Context, blob []byte) error {
	return s.store.ImportSnapshot(ctx, blob)
}

func (s *EntryService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *EntryService) publishSync(ctx context.Context, id string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishEntrySync(ctx, id)
}

func (s *EntryService) publishDelete(ctx context.Context, id string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return nil
	}
	return s.publisher.PublishEntryDelete(ctx, id)
}

// Close closes the store and the AMQP connection.
func (s *EntryService) Close() error {
	var errs []error

	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close entry service: %v", errs)
	}

	return nil
}
