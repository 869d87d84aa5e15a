package services

import (
	"context"
	"errors"
	"testing"

	"stipendi/internal/core"
	"stipendi/internal/records/memory"
)

type fakePublisher struct {
	synced  []string
	deleted []string
	err     error
	closed  bool
}

func (f *fakePublisher) PublishEntrySync(ctx context.Context, entryID string) error {
	if f.err != nil {
		return f.err
	}
	f.synced = append(f.synced, entryID)
	return nil
}

func (f *fakePublisher) PublishEntryDelete(ctx context.Context, entryID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, entryID)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func validEntry() core.Entry {
	return core.Entry{
		Amount: 3300,
		Source: "Acme Corp",
		Date:   "2024-03-29",
	}
}

func TestEntryService_Create(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewEntryService(memory.New(), pub)

	id, err := svc.Create(context.Background(), validEntry())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == "" {
		t.Fatal("Create() returned empty id")
	}

	if len(pub.synced) != 1 || pub.synced[0] != id {
		t.Fatalf("publisher synced = %v, want [%s]", pub.synced, id)
	}

	entries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
}

func TestEntryService_CreateInvalidEntry(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewEntryService(memory.New(), pub)

	_, err := svc.Create(context.Background(), core.Entry{Source: "Acme"})
	if err == nil {
		t.Fatal("Create() should fail for an entry without amount")
	}
	if len(pub.synced) != 0 {
		t.Fatalf("no sync message should be published for a failed save, got %v", pub.synced)
	}
}

func TestEntryService_CreateSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewEntryService(memory.New(), pub)

	id, err := svc.Create(context.Background(), validEntry())
	if err != nil {
		t.Fatalf("Create() should succeed despite publish failure, got %v", err)
	}
	if id == "" {
		t.Fatal("Create() returned empty id")
	}

	entries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entry should be saved locally despite publish failure")
	}
}

func TestEntryService_CreateWithoutPublisher(t *testing.T) {
	svc := NewEntryService(memory.New(), nil)

	id, err := svc.Create(context.Background(), validEntry())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == "" {
		t.Fatal("Create() returned empty id")
	}
}

func TestEntryService_Delete(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewEntryService(memory.New(), pub)

	id, err := svc.Create(context.Background(), validEntry())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(pub.deleted) != 1 || pub.deleted[0] != id {
		t.Fatalf("publisher deleted = %v, want [%s]", pub.deleted, id)
	}

	entries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("len(entries) = %d, want 0 after delete", len(entries))
	}
}

func TestEntryService_DeleteAbsentID(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewEntryService(memory.New(), pub)

	if err := svc.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("Delete() of absent id should be a no-op, got %v", err)
	}
}

func TestEntryService_Close(t *testing.T) {
	t.Run("nil components", func(t *testing.T) {
		svc := NewEntryService(memory.New(), nil)
		if err := svc.Close(); err != nil {
			t.Fatalf("Close should not return error with nil publisher: %v", err)
		}
	})

	t.Run("closes publisher", func(t *testing.T) {
		pub := &fakePublisher{}
		svc := NewEntryService(memory.New(), pub)
		if err := svc.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if !pub.closed {
			t.Fatal("Close should close the publisher")
		}
	})
}
