// Package worker defines the single writer that applies queued commands
// to the game state machine.
//
// There is exactly one worker per game so commands apply strictly in
// arrival order; that is the serialization the state machine relies on
// when exposed to concurrent network callers.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldside/ultilog/internal/adapters/mq/queue"
	"github.com/fieldside/ultilog/internal/domain/model"
	"github.com/fieldside/ultilog/pkg/logger"
	"github.com/fieldside/ultilog/pkg/metrics"
)

// Applier applies commands to the game state.
type Applier interface {
	ClickPlayer(ctx context.Context, team model.Team, name string) ([]model.EventRow, error)
	PressScore(ctx context.Context) (model.EventRow, error)
	PressDrop(ctx context.Context) (model.EventRow, error)
	PressTurn(ctx context.Context) (model.EventRow, error)
	PressPull(ctx context.Context) (model.EventRow, error)
	StartSub(ctx context.Context)
	UndoLast(ctx context.Context, n int) int
}

// Queue defines how the worker receives commands.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Command
}

// Writer drains the command queue and applies each command to the
// machine, delivering the outcome on the command's reply channel.
type Writer struct {
	queue   Queue
	applier Applier
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithName sets the writer name for logging.
func WithName(name string) Option {
	return func(w *Writer) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the writer.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWriter creates the single command writer.
func NewWriter(q Queue, applier Applier, opts ...Option) *Writer {
	w := &Writer{
		queue:    q,
		applier:  applier,
		name:     "writer",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("writer"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the apply loop until ctx is canceled, the queue closes or
// Shutdown is called.
func (w *Writer) Run(ctx context.Context) {
	defer close(w.done)

	commands := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			w.apply(ctx, cmd)
		}
	}
}

// Shutdown gracefully stops the writer.
func (w *Writer) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// apply runs a single command against the machine and delivers its
// result without ever blocking the loop.
func (w *Writer) apply(ctx context.Context, cmd queue.Command) {
	start := time.Now()
	var res queue.Result

	switch cmd.Kind {
	case queue.KindClick:
		res.Rows, res.Err = w.applier.ClickPlayer(ctx, cmd.Team, cmd.Player)
	case queue.KindScore:
		res = pressResult(w.applier.PressScore(ctx))
	case queue.KindDrop:
		res = pressResult(w.applier.PressDrop(ctx))
	case queue.KindTurn:
		res = pressResult(w.applier.PressTurn(ctx))
	case queue.KindPull:
		res = pressResult(w.applier.PressPull(ctx))
	case queue.KindStartSub:
		w.applier.StartSub(ctx)
	case queue.KindUndo:
		res.Removed = w.applier.UndoLast(ctx, cmd.Count)
	default:
		res.Err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}

	metrics.RecordCommandApplied(string(cmd.Kind))
	metrics.RecordCommandLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	if res.Err != nil {
		metrics.RecordCommandError(string(cmd.Kind))
		w.logger.Debug(ctx, "command rejected",
			logger.String("command", string(cmd.Kind)),
			logger.String("id", cmd.ID),
			logger.Error(res.Err),
		)
	}

	if cmd.Reply == nil {
		return
	}
	select {
	case cmd.Reply <- res:
	default:
		// Reply channel unbuffered or abandoned; drop the result
		// rather than stall the writer.
		w.logger.Warn(ctx, "dropping command result",
			logger.String("command", string(cmd.Kind)),
			logger.String("id", cmd.ID),
		)
	}
}

func pressResult(row model.EventRow, err error) queue.Result {
	if err != nil {
		return queue.Result{Err: err}
	}
	return queue.Result{Rows: []model.EventRow{row}}
}
