package http

import (
	"context"
	"net/http"
	"time"

	"github.com/leadpipe/leadpipe/pkg/logger"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RootHandler serves the service banner and the health check
type RootHandler struct {
	logger  logger.Logger
	version string
	db      Pinger
}

func NewRootHandler(db Pinger, version string, logger logger.Logger) *RootHandler {
	return &RootHandler{
		logger:  logger,
		version: version,
		db:      db,
	}
}

func (h *RootHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	// catch all route
	mux.HandleFunc("/", h.Handle)
}

func (h *RootHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteJSONError(w, "Not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "leadpipe",
		"version": h.version,
	})
}

func (h *RootHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.WithField("error", err.Error()).Error("Health check failed")
			WriteJSONError(w, "Database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
