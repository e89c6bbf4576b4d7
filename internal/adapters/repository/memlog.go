package repository

import (
	"context"
	"sync"

	"github.com/fieldside/ultilog/internal/domain/model"
	"github.com/fieldside/ultilog/pkg/metrics"
)

// defaultInitialCapacity sizes the backing slice for a typical game.
const defaultInitialCapacity = 256

// MemoryLog implements Store with an in-memory slice. Rows are never
// mutated in place; undo and drop revocation only ever remove from the
// tail.
type MemoryLog struct {
	mu   sync.RWMutex
	rows []model.EventRow
}

var _ Store = (*MemoryLog)(nil)

// Option applies a configuration option to the MemoryLog.
type Option func(*memLogConfig)

type memLogConfig struct {
	initialCapacity int
}

// WithInitialCapacity pre-allocates space for the given number of rows.
func WithInitialCapacity(n int) Option {
	return func(c *memLogConfig) {
		if n > 0 {
			c.initialCapacity = n
		}
	}
}

// NewMemoryLog creates an empty in-memory event log.
func NewMemoryLog(ctx context.Context, opts ...Option) *MemoryLog {
	cfg := &memLogConfig{initialCapacity: defaultInitialCapacity}
	for _, opt := range opts {
		opt(cfg)
	}
	return &MemoryLog{rows: make([]model.EventRow, 0, cfg.initialCapacity)}
}

// Append adds a row at the end of the log.
func (l *MemoryLog) Append(ctx context.Context, row model.EventRow) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, row)
	metrics.RecordRowLogged(string(row.Event))
	metrics.UpdateEventCount(len(l.rows))
}

// TruncateLast removes up to n rows from the end of the log.
func (l *MemoryLog) TruncateLast(ctx context.Context, n int) int {
	if n <= 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.rows) {
		n = len(l.rows)
	}
	l.rows = l.rows[:len(l.rows)-n]
	if n > 0 {
		metrics.RecordRowsTruncated(n)
		metrics.UpdateEventCount(len(l.rows))
	}
	return n
}

// Rows returns a copy of all rows in insertion order.
func (l *MemoryLog) Rows(ctx context.Context) []model.EventRow {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]model.EventRow(nil), l.rows...)
}

// Last returns the most recent row, if any.
func (l *MemoryLog) Last(ctx context.Context) (model.EventRow, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.rows) == 0 {
		return model.EventRow{}, false
	}
	return l.rows[len(l.rows)-1], true
}

// Len returns the current number of rows.
func (l *MemoryLog) Len(ctx context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.rows)
}
