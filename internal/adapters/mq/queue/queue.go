// Package queue defines the single-writer command pipeline contract.
//
// The state machine assumes exactly one logical actor; a service exposed
// over the network serializes its callers here. Commands enter a bounded
// in-memory queue and a single worker drains them in arrival order, so
// mutations apply one at a time while callers wait on per-command reply
// channels.
package queue

import (
	"context"
	"sync"

	"github.com/fieldside/ultilog/internal/domain/model"
	"github.com/fieldside/ultilog/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 1024
	defaultBufferSize    = 1024
)

// Kind enumerates the commands the writer can apply.
type Kind string

// Command kinds, one per mutating state machine operation.
const (
	KindClick    Kind = "click"
	KindScore    Kind = "score"
	KindDrop     Kind = "drop"
	KindTurn     Kind = "turn"
	KindPull     Kind = "pull"
	KindStartSub Kind = "start_sub"
	KindUndo     Kind = "undo"
)

// Command is one mutating operation heading for the state machine.
type Command struct {
	// ID identifies the command for logging and idempotency.
	ID string

	Kind Kind

	// Team and Player are set for click commands.
	Team   model.Team
	Player string

	// Count is set for undo commands.
	Count int

	// Reply receives the command's outcome. It must be buffered with
	// capacity 1; the worker never blocks on delivery.
	Reply chan Result
}

// Result is the outcome of an applied command.
type Result struct {
	// Rows are the log rows the command created (0-2 for clicks,
	// exactly 1 for presses and substitution completion).
	Rows []model.EventRow

	// Removed is the number of rows an undo command truncated.
	Removed int

	Err error
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a command to the queue.
	// Returns false if the queue is full and the command was dropped.
	Enqueue(ctx context.Context, c Command) bool

	// Dequeue returns a channel that receives commands as they become
	// available. The channel closes when the queue is closed.
	Dequeue(ctx context.Context) <-chan Command

	// Len returns the current number of queued commands.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue. After closing, no new
	// commands can be enqueued and the dequeue channel closes.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	commands   chan Command
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum capacity of the queue.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithBufferSize sets the buffer size for the commands channel.
func WithBufferSize(size int) Option {
	return func(q *InMemoryQueue) {
		if size > 0 {
			q.bufferSize = size
		}
	}
}

// NewInMemoryQueue creates a new in-memory command queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.commands = make(chan Command, q.bufferSize)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a command to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, c Command) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return false
	}
	if len(q.commands) >= q.capacity {
		metrics.RecordQueueEnqueueError("capacity_exceeded")
		return false
	}

	select {
	case q.commands <- c:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.commands))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError("context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError("queue_full")
		return false
	}
}

// Dequeue returns a channel that receives commands as they arrive.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Command {
	out := make(chan Command)
	go func() {
		defer close(out)
		for c := range q.commands {
			select {
			case out <- c:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.commands))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued commands.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.commands)
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.commands)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
