package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fieldside/ultilog/internal/domain/model"
	"github.com/google/uuid"
)

// ClickHandler handles player click requests.
type ClickHandler struct {
	deps Dependencies
}

// NewClickHandler creates a new click handler.
func NewClickHandler(deps Dependencies) *ClickHandler {
	return &ClickHandler{deps: deps}
}

// clickRequest mirrors the POST /click body.
type clickRequest struct {
	Team      string `json:"team"`
	Player    string `json:"player"`
	RequestID string `json:"request_id"`
}

func (c clickRequest) validate() error {
	if !model.Team(c.Team).Valid() {
		return NewKind("api.click", ErrBadRequest)
	}
	if strings.TrimSpace(c.Player) == "" {
		return NewKind("api.click", ErrBadRequest)
	}
	return nil
}

// HandleClick handles POST /click requests. A click can create zero rows
// (establishing a holder, or an intentionally ignored click), one row
// (pass, substitution) or two (turnover plus block).
func (h *ClickHandler) HandleClick(w http.ResponseWriter, r *http.Request) {
	const op = "api.click"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	// Idempotency applies only when the client names the request; the
	// same click body is a legitimate new command at a later moment.
	id := req.RequestID
	if id == "" {
		id = uuid.NewString()
	} else if h.deps.SeenAndRecord(r.Context(), id) {
		writeJSON(w, http.StatusOK, rowsResponse{Status: "duplicate", Rows: []model.EventRow{}})
		return
	}

	rows, err := h.deps.Click(r.Context(), id, model.Team(req.Team), req.Player)
	if err != nil {
		if req.RequestID != "" {
			h.deps.Unrecord(r.Context(), req.RequestID)
		}
		writeGameError(w, op, err)
		return
	}
	if rows == nil {
		rows = []model.EventRow{}
	}
	writeJSON(w, http.StatusOK, rowsResponse{Status: "ok", Rows: rows})
}
