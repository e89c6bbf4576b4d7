package api

import (
	"net/http"

	"github.com/fieldside/ultilog/internal/domain/model"
	"github.com/fieldside/ultilog/pkg/logger"
)

// LogHandler serves the ordered event log.
type LogHandler struct {
	deps Dependencies
}

// NewLogHandler creates a new log handler.
func NewLogHandler(deps Dependencies) *LogHandler {
	return &LogHandler{deps: deps}
}

// HandleGetLog handles GET /log requests, returning all rows as JSON in
// insertion order.
func (h *LogHandler) HandleGetLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rows := h.deps.Rows(r.Context())
	if rows == nil {
		rows = []model.EventRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleGetCSV handles GET /log.csv requests, streaming the log in the
// fixed export column order with a header row.
func (h *LogHandler) HandleGetCSV(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_csv"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="game_log.csv"`)
	if err := h.deps.ExportCSV(r.Context(), w); err != nil {
		// Headers are already sent; log instead of rewriting the status.
		logger.Get().Error(r.Context(), "csv export failed", logger.Error(Wrap(op, err)))
	}
}
