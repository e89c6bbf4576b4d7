// Package repository defines the event log store contract and its
// in-memory implementation.
package repository

import (
	"context"

	"github.com/fieldside/ultilog/internal/domain/model"
)

// Store provides append/truncate access to the ordered game event log.
// Insertion order is chronological order.
type Store interface {
	// Append adds a row at the end of the log.
	Append(ctx context.Context, row model.EventRow)

	// TruncateLast removes up to n rows from the end of the log and
	// returns the number actually removed.
	TruncateLast(ctx context.Context, n int) int

	// Rows returns a copy of all rows in insertion order.
	Rows(ctx context.Context) []model.EventRow

	// Last returns the most recent row, if any.
	Last(ctx context.Context) (model.EventRow, bool)

	// Len returns the current number of rows.
	Len(ctx context.Context) int
}
