// Package service composes the game state machine with the command
// pipeline, roster store and idempotency cache behind the surface the
// HTTP API needs.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	cmdqueue "github.com/fieldside/ultilog/internal/adapters/mq/queue"
	"github.com/fieldside/ultilog/internal/adapters/mq/worker"
	"github.com/fieldside/ultilog/internal/adapters/repository"
	"github.com/fieldside/ultilog/internal/domain/dedupe"
	"github.com/fieldside/ultilog/internal/domain/game"
	"github.com/fieldside/ultilog/internal/domain/model"
	"github.com/fieldside/ultilog/internal/domain/roster"
	"github.com/fieldside/ultilog/pkg/logger"
	"github.com/fieldside/ultilog/pkg/metrics"
)

// Default configuration constants.
const (
	defaultQueueSize      = 1024
	defaultDedupeSize     = 50000
	defaultPlayersPerSide = 7
	shutdownGrace         = 5 * time.Second
)

// Service owns one game session and serializes all mutations through a
// single writer so concurrent HTTP callers cannot interleave commands.
type Service struct {
	mu sync.RWMutex

	machine *game.Machine
	gameLog *repository.MemoryLog
	rosters *roster.Store
	deduper dedupe.Deduper
	queue   *cmdqueue.InMemoryQueue
	writer  *worker.Writer

	// Configuration.
	queueSize      int
	dedupeSize     int
	playersPerSide int
	teamAName      string
	teamBName      string
	onfieldA       []string
	onfieldB       []string
	rosterA        []string
	rosterB        []string
	clock          func() time.Time

	started    bool
	stopWriter context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the command queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the idempotency cache size.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithPlayersPerSide sets the lineup size (7, or 5 for the fives variant).
func WithPlayersPerSide(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.playersPerSide = n
		}
	}
}

// WithTeamNames sets display labels for the two teams.
func WithTeamNames(a, b string) Option {
	return func(s *Service) {
		if a != "" {
			s.teamAName = a
		}
		if b != "" {
			s.teamBName = b
		}
	}
}

// WithLineups sets the starting on-field lists.
func WithLineups(a, b []string) Option {
	return func(s *Service) {
		s.onfieldA = append([]string(nil), a...)
		s.onfieldB = append([]string(nil), b...)
	}
}

// WithRosters sets the full team rosters.
func WithRosters(a, b []string) Option {
	return func(s *Service) {
		s.rosterA = append([]string(nil), a...)
		s.rosterB = append([]string(nil), b...)
	}
}

// WithClock overrides the wall clock used for row timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:      defaultQueueSize,
		dedupeSize:     defaultDedupeSize,
		playersPerSide: defaultPlayersPerSide,
		teamAName:      "Team A",
		teamBName:      "Team B",
		clock:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(s.onfieldA) == 0 {
		s.onfieldA = numberedLineup("A", s.playersPerSide)
	}
	if len(s.onfieldB) == 0 {
		s.onfieldB = numberedLineup("B", s.playersPerSide)
	}
	if len(s.rosterA) == 0 {
		s.rosterA = append([]string(nil), s.onfieldA...)
	}
	if len(s.rosterB) == 0 {
		s.rosterB = append([]string(nil), s.onfieldB...)
	}
	return s
}

func numberedLineup(prefix string, n int) []string {
	players := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		players = append(players, fmt.Sprintf("%s%d", prefix, i))
	}
	return players
}

// Start initializes the session components and launches the writer.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting game log service...")

	s.gameLog = repository.NewMemoryLog(ctx)
	s.machine = game.New(s.gameLog, s.onfieldA, s.onfieldB,
		game.WithPlayersPerSide(s.playersPerSide),
		game.WithTeamNames(s.teamAName, s.teamBName),
		game.WithClock(s.clock),
	)
	s.rosters = roster.New(
		roster.WithInitial(model.TeamA, s.rosterA),
		roster.WithInitial(model.TeamB, s.rosterB),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = cmdqueue.NewInMemoryQueue(
		cmdqueue.WithCapacity(s.queueSize),
		cmdqueue.WithBufferSize(s.queueSize),
	)
	s.writer = worker.NewWriter(s.queue, s.machine,
		worker.WithLogger(s.logger.Named("writer")),
	)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.stopWriter = cancel
	go s.writer.Run(runCtx)

	s.started = true
	s.logger.Info(ctx, "game log service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("playersPerSide", s.playersPerSide),
		logger.String("teamA", s.teamAName),
		logger.String("teamB", s.teamBName),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping game log service...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.writer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownGrace)
		if err := s.writer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(ctx, "writer shutdown", logger.Error(err))
		}
		cancel()
	}
	if s.stopWriter != nil {
		s.stopWriter()
	}

	s.started = false
	s.logger.Info(ctx, "game log service stopped")
}

// submit pushes one command through the single-writer pipeline and waits
// for its outcome.
func (s *Service) submit(ctx context.Context, cmd cmdqueue.Command) (cmdqueue.Result, error) {
	cmd.Reply = make(chan cmdqueue.Result, 1)
	if !s.queue.Enqueue(ctx, cmd) {
		return cmdqueue.Result{}, cmdqueue.ErrBackpressure
	}
	select {
	case res := <-cmd.Reply:
		return res, nil
	case <-ctx.Done():
		return cmdqueue.Result{}, fmt.Errorf("command %s abandoned: %w", cmd.Kind, ctx.Err())
	}
}

// Click applies a player click and returns the rows it created (0-2).
func (s *Service) Click(ctx context.Context, id string, team model.Team, player string) ([]model.EventRow, error) {
	res, err := s.submit(ctx, cmdqueue.Command{
		ID:     id,
		Kind:   cmdqueue.KindClick,
		Team:   team,
		Player: player,
	})
	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Rows, nil
}

// Press applies a disambiguation press (score, drop, turn or pull) and
// returns the single row it created.
func (s *Service) Press(ctx context.Context, id string, kind cmdqueue.Kind) (model.EventRow, error) {
	res, err := s.submit(ctx, cmdqueue.Command{ID: id, Kind: kind})
	if err != nil {
		return model.EventRow{}, err
	}
	if res.Err != nil {
		return model.EventRow{}, res.Err
	}
	if len(res.Rows) != 1 {
		return model.EventRow{}, fmt.Errorf("press %s produced %d rows", kind, len(res.Rows))
	}
	return res.Rows[0], nil
}

// StartSub enters substitution mode.
func (s *Service) StartSub(ctx context.Context, id string) error {
	res, err := s.submit(ctx, cmdqueue.Command{ID: id, Kind: cmdqueue.KindStartSub})
	if err != nil {
		return err
	}
	return res.Err
}

// Undo removes up to n rows from the end of the log and reports how many
// were removed. Live possession state is not rewound.
func (s *Service) Undo(ctx context.Context, id string, n int) (int, error) {
	res, err := s.submit(ctx, cmdqueue.Command{ID: id, Kind: cmdqueue.KindUndo, Count: n})
	if err != nil {
		return 0, err
	}
	if res.Err != nil {
		return 0, res.Err
	}
	return res.Removed, nil
}

// State returns the current display snapshot.
func (s *Service) State(ctx context.Context) game.State {
	st := s.machine.State(ctx)
	metrics.UpdatePointNumber(st.Point)
	return st
}

// Rows returns the full ordered event log.
func (s *Service) Rows(ctx context.Context) []model.EventRow {
	return s.machine.Rows(ctx)
}

// ExportCSV writes the full log as CSV in the fixed column order.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	return s.machine.Export(ctx, w)
}

// Roster returns the full named roster for a team.
func (s *Service) Roster(ctx context.Context, team model.Team) ([]string, error) {
	return s.rosters.List(ctx, team)
}

// ReplaceRoster swaps a team's entire roster.
func (s *Service) ReplaceRoster(ctx context.Context, team model.Team, players []string) error {
	return s.rosters.Replace(ctx, team, players)
}

// Bench returns the roster players not currently on-field, the IN
// candidates during substitution.
func (s *Service) Bench(ctx context.Context, team model.Team) ([]string, error) {
	onfield, err := s.machine.OnField(ctx, team)
	if err != nil {
		return nil, err
	}
	return s.rosters.Bench(ctx, team, onfield)
}

// SetOnField replaces a team's lineup. Every player must already be on
// the team's roster.
func (s *Service) SetOnField(ctx context.Context, team model.Team, players []string) error {
	for _, p := range players {
		if !s.rosters.Contains(ctx, team, p) {
			return fmt.Errorf("%w: %q is not on team %s's roster", roster.ErrUnknownPlayer, p, team)
		}
	}
	return s.machine.SetOnField(ctx, team, players)
}

// SeenAndRecord atomically checks and records a request ID. Duplicate
// submissions are counted but not reapplied.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordDuplicateCommand()
	}
	return seen
}

// Unrecord removes a request ID from the seen set, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of tracked request IDs.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"queueSize":      s.queueSize,
		"playersPerSide": s.playersPerSide,
	}
	if s.started {
		ctx := context.Background()
		st := s.machine.State(ctx)
		stats["point"] = st.Point
		stats["possession"] = string(st.Possession)
		stats["events"] = st.EventCount
		stats["queueLength"] = s.queue.Len(ctx)
		stats["trackedRequests"] = s.Size()

		metrics.UpdateQueueSize(s.queue.Len(ctx))
		metrics.UpdatePointNumber(st.Point)
		metrics.UpdateEventCount(st.EventCount)
	}
	return stats
}
