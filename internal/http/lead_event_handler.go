package http

import (
	"errors"
	"net/http"

	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/internal/http/middleware"
	"github.com/leadpipe/leadpipe/pkg/logger"
)

// LeadEventHandler serves the operator endpoints over raw lead events
type LeadEventHandler struct {
	service   domain.LeadEventService
	logger    logger.Logger
	jwtSecret string
}

func NewLeadEventHandler(service domain.LeadEventService, jwtSecret string, logger logger.Logger) *LeadEventHandler {
	return &LeadEventHandler{
		service:   service,
		logger:    logger,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers the operator endpoints behind bearer auth
func (h *LeadEventHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := middleware.NewAuthMiddleware(h.jwtSecret).RequireAuth()

	mux.Handle("/api/leadEvents.stats", requireAuth(http.HandlerFunc(h.handleStats)))
	mux.Handle("/api/leadEvents.failed", requireAuth(http.HandlerFunc(h.handleListFailed)))
	mux.Handle("/api/leadEvents.retry", requireAuth(http.HandlerFunc(h.handleRetry)))
}

func (h *LeadEventHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		WriteJSONError(w, "Failed to get lead event stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *LeadEventHandler) handleListFailed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req := &domain.ListFailedLeadEventsRequest{}
	if err := req.FromQueryParams(r.URL.Query()); err != nil {
		WriteJSONError(w, "Invalid parameters: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.ListFailed(r.Context(), req)
	if err != nil {
		WriteJSONError(w, "Failed to list failed lead events", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *LeadEventHandler) handleRetry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.RetryLeadEventRequest
	if err := readJSON(w, r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	operator, _ := middleware.GetOperator(r.Context())
	if operator != nil {
		h.logger.WithFields(map[string]interface{}{
			"raw_event_id": req.ID,
			"operator":     operator.Subject,
		}).Info("Manual lead retry requested")
	}

	result, err := h.service.Retry(r.Context(), req.ID)
	if err != nil {
		var verr domain.ValidationError
		switch {
		case errors.As(err, &verr):
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
		case domain.IsNotFound(err):
			WriteJSONError(w, "Lead event not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrLeadEventNotRetried):
			WriteJSONError(w, "Lead event cannot be retried", http.StatusConflict)
		default:
			h.logger.WithFields(map[string]interface{}{
				"raw_event_id": req.ID,
				"error":        err.Error(),
			}).Error("Failed to retry lead event")
			WriteJSONError(w, "Failed to retry lead event", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}
