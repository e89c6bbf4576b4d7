// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	cmdqueue "github.com/fieldside/ultilog/internal/adapters/mq/queue"
	"github.com/fieldside/ultilog/internal/domain/dedupe"
	"github.com/fieldside/ultilog/internal/domain/game"
	"github.com/fieldside/ultilog/internal/domain/model"
	"github.com/fieldside/ultilog/internal/domain/roster"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Mutations, serialized through the single-writer pipeline.
	Click(ctx context.Context, id string, team model.Team, player string) ([]model.EventRow, error)
	Press(ctx context.Context, id string, kind cmdqueue.Kind) (model.EventRow, error)
	StartSub(ctx context.Context, id string) error
	Undo(ctx context.Context, id string, n int) (int, error)

	// Read operations for display and export.
	State(ctx context.Context) game.State
	Rows(ctx context.Context) []model.EventRow
	ExportCSV(ctx context.Context, w io.Writer) error

	// Roster collaborator.
	Roster(ctx context.Context, team model.Team) ([]string, error)
	ReplaceRoster(ctx context.Context, team model.Team, players []string) error
	Bench(ctx context.Context, team model.Team) ([]string, error)
	SetOnField(ctx context.Context, team model.Team, players []string) error
}

// Server wires HTTP routes for the game log API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	clickHandler  *ClickHandler
	pressHandler  *PressHandler
	undoHandler   *UndoHandler
	logHandler    *LogHandler
	stateHandler  *StateHandler
	rosterHandler *RosterHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		clickHandler:  NewClickHandler(deps),
		pressHandler:  NewPressHandler(deps),
		undoHandler:   NewUndoHandler(deps),
		logHandler:    NewLogHandler(deps),
		stateHandler:  NewStateHandler(deps),
		rosterHandler: NewRosterHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/click", MetricsMiddleware(s.clickHandler.HandleClick, "click"))
	mux.HandleFunc("/press/", MetricsMiddleware(s.pressHandler.HandlePress, "press"))
	mux.HandleFunc("/sub", MetricsMiddleware(s.pressHandler.HandleStartSub, "sub"))
	mux.HandleFunc("/undo", MetricsMiddleware(s.undoHandler.HandleUndo, "undo"))
	mux.HandleFunc("/log", MetricsMiddleware(s.logHandler.HandleGetLog, "log"))
	mux.HandleFunc("/log.csv", MetricsMiddleware(s.logHandler.HandleGetCSV, "log_csv"))
	mux.HandleFunc("/state", MetricsMiddleware(s.stateHandler.HandleGetState, "state"))
	mux.HandleFunc("/roster/", MetricsMiddleware(s.rosterHandler.HandleRoster, "roster"))
	mux.HandleFunc("/bench/", MetricsMiddleware(s.rosterHandler.HandleBench, "bench"))
	mux.HandleFunc("/onfield/", MetricsMiddleware(s.rosterHandler.HandleOnField, "onfield"))
}

// rowsResponse acknowledges a mutation with the rows it created.
type rowsResponse struct {
	Status string           `json:"status"`
	Rows   []model.EventRow `json:"rows"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeGameError translates state machine and roster failures to HTTP
// statuses: rule violations map to 409, bad input to 400, unknown
// players to 404 and backpressure to 429.
func writeGameError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, cmdqueue.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", Wrap(op, err))
	case errors.Is(err, game.ErrUnknownTeam),
		errors.Is(err, game.ErrInvalidLineup),
		errors.Is(err, roster.ErrUnknownTeam),
		errors.Is(err, roster.ErrDuplicatePlayer),
		errors.Is(err, roster.ErrInvalidPlayer):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, roster.ErrUnknownPlayer):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, game.ErrInvalidSubstitution),
		errors.Is(err, game.ErrNoPossession),
		errors.Is(err, game.ErrNoClick),
		errors.Is(err, game.ErrNoHolder),
		errors.Is(err, game.ErrNotPossessionTeam),
		errors.Is(err, game.ErrUnresolvedScore):
		writeError(w, http.StatusConflict, "invalid_action", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
