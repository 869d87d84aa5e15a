package worker

import (
	"context"
	"errors"
	"testing"

	"stipendi/internal/amqp"
	"stipendi/internal/core"
	"stipendi/internal/mirror/memory"
	"stipendi/internal/storage"
)

type fakeStorage struct {
	entries  map[string]core.Entry
	pending  []storage.PendingMirrorEntry
	mirrored []string
	errored  []string
	getErr   error
}

func newFakeStorage(entries ...core.Entry) *fakeStorage {
	fs := &fakeStorage{entries: make(map[string]core.Entry)}
	for _, e := range entries {
		fs.entries[e.ID] = e
		fs.pending = append(fs.pending, storage.PendingMirrorEntry{EntryID: e.ID})
	}
	return fs
}

func (f *fakeStorage) GetEntry(ctx context.Context, id string) (*core.Entry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	e, ok := f.entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeStorage) GetPendingMirrorEntries(ctx context.Context, limit int) ([]storage.PendingMirrorEntry, error) {
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	return f.pending[:limit], nil
}

func (f *fakeStorage) MarkMirrored(ctx context.Context, id string) error {
	f.mirrored = append(f.mirrored, id)
	return nil
}

func (f *fakeStorage) MarkMirrorError(ctx context.Context, id string) error {
	f.errored = append(f.errored, id)
	return nil
}

type failingWriter struct{}

func (failingWriter) AppendEntry(ctx context.Context, e core.Entry) (string, error) {
	return "", errors.New("sheet unavailable")
}

func testEntry(id string) core.Entry {
	return core.Entry{
		ID:     id,
		Amount: 3300,
		Source: "Acme Corp",
		Date:   "2024-03-29",
	}
}

func TestMirrorWorker_HandleUpsert(t *testing.T) {
	fs := newFakeStorage(testEntry("e1"))
	m := memory.New()
	w := NewMirrorWorker(fs, m, m, 10)

	msg := amqp.NewEntrySyncMessage("e1")
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	rows := m.Rows()
	if len(rows) != 1 || rows[0].ID != "e1" {
		t.Fatalf("mirror rows = %+v, want single e1 row", rows)
	}
	if len(fs.mirrored) != 1 || fs.mirrored[0] != "e1" {
		t.Fatalf("mirrored marks = %v, want [e1]", fs.mirrored)
	}
}

func TestMirrorWorker_HandleUpsertMissingEntry(t *testing.T) {
	fs := newFakeStorage()
	m := memory.New()
	w := NewMirrorWorker(fs, m, m, 10)

	msg := amqp.NewEntrySyncMessage("gone")
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage() should skip a missing entry, got %v", err)
	}
	if len(m.Rows()) != 0 {
		t.Fatal("nothing should be mirrored for a missing entry")
	}
}

func TestMirrorWorker_HandleUpsertWriterFailure(t *testing.T) {
	fs := newFakeStorage(testEntry("e1"))
	w := NewMirrorWorker(fs, failingWriter{}, nil, 10)

	msg := amqp.NewEntrySyncMessage("e1")
	if err := w.HandleMessage(context.Background(), msg); err == nil {
		t.Fatal("HandleMessage() should fail when the writer fails")
	}
	if len(fs.errored) != 1 || fs.errored[0] != "e1" {
		t.Fatalf("errored marks = %v, want [e1]", fs.errored)
	}
	if len(fs.mirrored) != 0 {
		t.Fatalf("mirrored marks = %v, want none", fs.mirrored)
	}
}

func TestMirrorWorker_HandleDelete(t *testing.T) {
	fs := newFakeStorage(testEntry("e1"))
	m := memory.New()
	w := NewMirrorWorker(fs, m, m, 10)

	if err := w.HandleMessage(context.Background(), amqp.NewEntrySyncMessage("e1")); err != nil {
		t.Fatalf("upsert error = %v", err)
	}
	if err := w.HandleMessage(context.Background(), amqp.NewEntryDeleteMessage("e1")); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if len(m.Rows()) != 0 {
		t.Fatalf("mirror rows = %+v, want empty after delete", m.Rows())
	}
}

func TestMirrorWorker_HandleDeleteWithoutDeleter(t *testing.T) {
	fs := newFakeStorage()
	m := memory.New()
	w := NewMirrorWorker(fs, m, nil, 10)

	if err := w.HandleMessage(context.Background(), amqp.NewEntryDeleteMessage("e1")); err != nil {
		t.Fatalf("delete without deleter should be a no-op, got %v", err)
	}
}

func TestMirrorWorker_ProcessPendingEntries(t *testing.T) {
	fs := newFakeStorage(testEntry("e1"), testEntry("e2"))
	m := memory.New()
	w := NewMirrorWorker(fs, m, m, 10)

	if err := w.ProcessPendingEntries(context.Background()); err != nil {
		t.Fatalf("ProcessPendingEntries() error = %v", err)
	}
	if len(m.Rows()) != 2 {
		t.Fatalf("mirror rows = %d, want 2", len(m.Rows()))
	}
	if len(fs.mirrored) != 2 {
		t.Fatalf("mirrored marks = %v, want 2", fs.mirrored)
	}
}

func TestMirrorWorker_ProcessPendingRespectsBatchSize(t *testing.T) {
	fs := newFakeStorage(testEntry("e1"), testEntry("e2"), testEntry("e3"))
	m := memory.New()
	w := NewMirrorWorker(fs, m, m, 2)

	if err := w.ProcessPendingEntries(context.Background()); err != nil {
		t.Fatalf("ProcessPendingEntries() error = %v", err)
	}
	if len(m.Rows()) != 2 {
		t.Fatalf("mirror rows = %d, want 2 with batch size 2", len(m.Rows()))
	}
}

func TestMirrorWorker_StartupCheck(t *testing.T) {
	fs := newFakeStorage(testEntry("e1"))
	m := memory.New()
	w := NewMirrorWorker(fs, m, m, 10)

	if err := w.StartupCheck(context.Background()); err != nil {
		t.Fatalf("StartupCheck() error = %v", err)
	}
	if len(m.Rows()) != 1 {
		t.Fatalf("mirror rows = %d, want 1", len(m.Rows()))
	}
}
