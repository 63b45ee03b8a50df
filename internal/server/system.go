package server

import (
	"database/sql"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/harmony/internal/shared"
)

// SystemHandler serves the liveness and database check endpoints.
type SystemHandler struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSystemHandler(db *sql.DB, logger *log.Logger) *SystemHandler {
	return &SystemHandler{db: db, logger: logger}
}

func (h *SystemHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/", Handler: h.Root},
		{Method: http.MethodGet, Path: "/api/db-check", Handler: h.DBCheck},
	}
}

// Root answers with a plain liveness string.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("API is running..."))
}

// DBCheck reports connectivity, the applied migration, and the tables present.
func (h *SystemHandler) DBCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error("database ping failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "disconnected", "error": err.Error()})
		return
	}

	tables, err := shared.TableNames(h.db)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	version, _, err := shared.CurrentMigration(h.db)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "connected",
		"migration": version,
		"tables":    tables,
	})
}
