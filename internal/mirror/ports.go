// Package mirror defines the outbound ports for the read-only spreadsheet
// copy of the collection. The store stays authoritative; a mirror failure
// never rolls back a local write.
package mirror

import (
	"context"

	"stipendi/internal/core"
)

type (
	// RowWriter appends one entry as a spreadsheet row.
	RowWriter interface {
		AppendEntry(ctx context.Context, e core.Entry) (rowRef string, err error)
	}

	// RowDeleter removes the row carrying the given entry id.
	RowDeleter interface {
		DeleteEntry(ctx context.Context, entryID string) error
	}
)
