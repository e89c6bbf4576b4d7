package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fieldside/ultilog/internal/domain/model"
)

// RosterHandler serves and edits the full team rosters and lineups.
type RosterHandler struct {
	deps Dependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps Dependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// playersRequest mirrors the PUT bodies for rosters and lineups.
type playersRequest struct {
	Players []string `json:"players"`
}

type playersResponse struct {
	Team    model.Team `json:"team"`
	Players []string   `json:"players"`
}

// teamFromPath extracts the team key after prefix, e.g. /roster/A.
func teamFromPath(path, prefix string) (model.Team, bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	team := model.Team(rest)
	return team, team.Valid()
}

// HandleRoster handles GET and PUT /roster/{team} requests.
func (h *RosterHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.roster"
	team, ok := teamFromPath(r.URL.Path, "/roster/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch r.Method {
	case http.MethodGet:
		players, err := h.deps.Roster(r.Context(), team)
		if err != nil {
			writeGameError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, playersResponse{Team: team, Players: players})
	case http.MethodPut:
		var req playersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.ReplaceRoster(r.Context(), team, req.Players); err != nil {
			writeGameError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, playersResponse{Team: team, Players: req.Players})
	default:
		http.NotFound(w, r)
	}
}

// HandleBench handles GET /bench/{team} requests: the roster players not
// currently on-field, offered as IN candidates during substitution.
func (h *RosterHandler) HandleBench(w http.ResponseWriter, r *http.Request) {
	const op = "api.bench"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	team, ok := teamFromPath(r.URL.Path, "/bench/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	bench, err := h.deps.Bench(r.Context(), team)
	if err != nil {
		writeGameError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, playersResponse{Team: team, Players: bench})
}

// HandleOnField handles PUT /onfield/{team} requests, replacing a team's
// lineup wholesale. Every player must already be on the team's roster.
func (h *RosterHandler) HandleOnField(w http.ResponseWriter, r *http.Request) {
	const op = "api.onfield"
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	team, ok := teamFromPath(r.URL.Path, "/onfield/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	var req playersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.SetOnField(r.Context(), team, req.Players); err != nil {
		writeGameError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, playersResponse{Team: team, Players: req.Players})
}
