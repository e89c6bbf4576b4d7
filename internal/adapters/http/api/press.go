package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	cmdqueue "github.com/fieldside/ultilog/internal/adapters/mq/queue"
	"github.com/fieldside/ultilog/internal/domain/model"
	"github.com/google/uuid"
)

// PressHandler handles disambiguation button presses.
type PressHandler struct {
	deps Dependencies
}

// NewPressHandler creates a new press handler.
func NewPressHandler(deps Dependencies) *PressHandler {
	return &PressHandler{deps: deps}
}

// pressRequest mirrors the optional POST /press/{action} body.
type pressRequest struct {
	RequestID string `json:"request_id"`
}

// pressKinds maps the path action to its command kind.
var pressKinds = map[string]cmdqueue.Kind{
	"score": cmdqueue.KindScore,
	"drop":  cmdqueue.KindDrop,
	"turn":  cmdqueue.KindTurn,
	"pull":  cmdqueue.KindPull,
}

// HandlePress handles POST /press/{score|drop|turn|pull} requests.
func (h *PressHandler) HandlePress(w http.ResponseWriter, r *http.Request) {
	const op = "api.press"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	action := strings.TrimPrefix(r.URL.Path, "/press/")
	kind, ok := pressKinds[action]
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	req, err := decodePressBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	id := req.RequestID
	if id == "" {
		id = uuid.NewString()
	} else if h.deps.SeenAndRecord(r.Context(), id) {
		writeJSON(w, http.StatusOK, rowsResponse{Status: "duplicate", Rows: []model.EventRow{}})
		return
	}

	row, err := h.deps.Press(r.Context(), id, kind)
	if err != nil {
		if req.RequestID != "" {
			h.deps.Unrecord(r.Context(), req.RequestID)
		}
		writeGameError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rowsResponse{Status: "ok", Rows: []model.EventRow{row}})
}

// HandleStartSub handles POST /sub requests, entering substitution mode.
// The following two clicks select the OUT and IN players.
func (h *PressHandler) HandleStartSub(w http.ResponseWriter, r *http.Request) {
	const op = "api.sub"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := decodePressBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	id := req.RequestID
	if id == "" {
		id = uuid.NewString()
	} else if h.deps.SeenAndRecord(r.Context(), id) {
		writeJSON(w, http.StatusOK, rowsResponse{Status: "duplicate", Rows: []model.EventRow{}})
		return
	}

	if err := h.deps.StartSub(r.Context(), id); err != nil {
		if req.RequestID != "" {
			h.deps.Unrecord(r.Context(), req.RequestID)
		}
		writeGameError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rowsResponse{Status: "sub_mode", Rows: []model.EventRow{}})
}

// decodePressBody tolerates an empty body; presses carry no required
// parameters.
func decodePressBody(r *http.Request) (pressRequest, error) {
	var req pressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		return pressRequest{}, err
	}
	return req, nil
}
