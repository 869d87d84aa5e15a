package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"stipendi/internal/core"
	"stipendi/internal/records"

	_ "modernc.org/sqlite"
)

// snapshotName is the fixed key of the persisted entry blob.
const snapshotName = "salary_entries"

// SQLiteRepository persists the entry collection as a single named JSON
// blob, plus the mirror bookkeeping the worker uses.
type SQLiteRepository struct {
	db *sql.DB
}

var _ records.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// List implements records.Store.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Entry, error) {
	blob, err := r.readBlob(ctx, r.db)
	if err != nil {
		return nil, err
	}
	entries, err := records.DecodeSnapshot(blob)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return entries, nil
}

// Append implements records.Store. The entry is inserted into the
// descending-ordered blob and queued for mirroring in the same transaction.
func (r *SQLiteRepository) Append(ctx context.Context, e core.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	if e.ID == "" {
		e.ID = core.NewID()
	}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		blob, err := r.readBlob(ctx, tx)
		if err != nil {
			return err
		}
		entries, err := records.DecodeSnapshot(blob)
		if err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		entries = records.Insert(entries, e)
		if err := r.writeBlob(ctx, tx, entries); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO mirror_state (entry_id) VALUES (?) ON CONFLICT(entry_id) DO NOTHING`,
			e.ID); err != nil {
			return fmt.Errorf("queue mirror state: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Entry saved to SQLite",
		"id", e.ID,
		"source", e.Source,
		"date", e.Date,
		"amount", e.Amount)

	return e.ID, nil
}

// Remove implements records.Store. Removing an absent id is a no-op.
func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		blob, err := r.readBlob(ctx, tx)
		if err != nil {
			return err
		}
		entries, err := records.DecodeSnapshot(blob)
		if err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}

		kept := entries[:0]
		removed := false
		for _, e := range entries {
			if e.ID == id {
				removed = true
				continue
			}
			kept = append(kept, e)
		}
		if !removed {
			return nil
		}
		if err := r.writeBlob(ctx, tx, kept); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM mirror_state WHERE entry_id = ?`, id); err != nil {
			return fmt.Errorf("drop mirror state: %w", err)
		}
		return nil
	})
}

// ExportSnapshot implements records.Store; it returns the persisted array
// byte-for-byte.
func (r *SQLiteRepository) ExportSnapshot(ctx context.Context) ([]byte, error) {
	return r.readBlob(ctx, r.db)
}

// ImportSnapshot implements records.Store. The blob must parse as a JSON
// array; on success the collection is replaced wholesale, re-sorted
// descending at write time. A bad blob leaves existing data untouched.
func (r *SQLiteRepository) ImportSnapshot(ctx context.Context, blob []byte) error {
	if err := records.ValidateSnapshot(blob); err != nil {
		return err
	}
	entries, err := records.DecodeSnapshot(blob)
	if err != nil {
		return err
	}
	records.SortDescending(entries)

	err = r.withTx(ctx, func(tx *sql.Tx) error {
		if err := r.writeBlob(ctx, tx, entries); err != nil {
			return err
		}
		// The old collection's mirror bookkeeping is meaningless after a
		// wholesale replace.
		if _, err := tx.ExecContext(ctx, `DELETE FROM mirror_state`); err != nil {
			return fmt.Errorf("reset mirror state: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Snapshot imported", "entries", len(entries))
	return nil
}

// Clear implements records.Store.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := r.writeBlob(ctx, tx, nil); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM mirror_state`); err != nil {
			return fmt.Errorf("reset mirror state: %w", err)
		}
		return nil
	})
}

// GetEntry returns a single entry by id, or nil when absent.
func (r *SQLiteRepository) GetEntry(ctx context.Context, id string) (*core.Entry, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, nil
}

// PendingMirrorEntry is the bookkeeping row for an entry not yet mirrored.
type PendingMirrorEntry struct {
	EntryID    string
	AppendedAt time.Time
	Attempts   int64
}

// GetPendingMirrorEntries returns entries queued for mirroring, oldest
// first. This backs the worker's periodic catch-up pass for lost messages.
func (r *SQLiteRepository) GetPendingMirrorEntries(ctx context.Context, limit int) ([]PendingMirrorEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entry_id, appended_at, attempts
		 FROM mirror_state
		 WHERE synced_at IS NULL
		 ORDER BY appended_at
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending mirror entries: %w", err)
	}
	defer rows.Close()

	var pending []PendingMirrorEntry
	for rows.Next() {
		var p PendingMirrorEntry
		if err := rows.Scan(&p.EntryID, &p.AppendedAt, &p.Attempts); err != nil {
			return nil, fmt.Errorf("scan pending mirror entry: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkMirrored records a successful mirror of the entry.
func (r *SQLiteRepository) MarkMirrored(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE mirror_state SET synced_at = CURRENT_TIMESTAMP WHERE entry_id = ?`, id); err != nil {
		return fmt.Errorf("mark entry mirrored: %w", err)
	}
	slog.InfoContext(ctx, "Entry marked as mirrored", "id", id)
	return nil
}

// MarkMirrorError bumps the attempt counter after a failed mirror.
func (r *SQLiteRepository) MarkMirrorError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE mirror_state SET attempts = attempts + 1 WHERE entry_id = ?`, id); err != nil {
		return fmt.Errorf("mark mirror error: %w", err)
	}
	slog.WarnContext(ctx, "Entry marked with mirror error", "id", id)
	return nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLiteRepository) readBlob(ctx context.Context, q querier) ([]byte, error) {
	var payload []byte
	err := q.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE name = ?`, snapshotName).Scan(&payload)
	if err == sql.ErrNoRows {
		return []byte("[]"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return payload, nil
}

func (r *SQLiteRepository) writeBlob(ctx context.Context, tx *sql.Tx, entries []core.Entry) error {
	blob, err := records.EncodeSnapshot(entries)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (name, payload, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		snapshotName, blob); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
