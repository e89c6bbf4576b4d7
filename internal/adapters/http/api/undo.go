package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// UndoHandler handles log truncation requests.
type UndoHandler struct {
	deps Dependencies
}

// NewUndoHandler creates a new undo handler.
func NewUndoHandler(deps Dependencies) *UndoHandler {
	return &UndoHandler{deps: deps}
}

// undoRequest mirrors the POST /undo body.
type undoRequest struct {
	Count     int    `json:"count"`
	RequestID string `json:"request_id"`
}

type undoResponse struct {
	Status  string `json:"status"`
	Removed int    `json:"removed"`
}

// HandleUndo handles POST /undo requests. Count defaults to 1 and is
// clamped to the current log length. Undo removes rows only; live
// possession state is deliberately not rewound.
func (h *UndoHandler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	const op = "api.undo"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req := undoRequest{Count: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Count < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	id := req.RequestID
	if id == "" {
		id = uuid.NewString()
	} else if h.deps.SeenAndRecord(r.Context(), id) {
		writeJSON(w, http.StatusOK, undoResponse{Status: "duplicate"})
		return
	}

	removed, err := h.deps.Undo(r.Context(), id, req.Count)
	if err != nil {
		if req.RequestID != "" {
			h.deps.Unrecord(r.Context(), req.RequestID)
		}
		writeGameError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, undoResponse{Status: "ok", Removed: removed})
}
