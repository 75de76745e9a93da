package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/pkg/crypto"
	"github.com/leadpipe/leadpipe/pkg/logger"
	"github.com/leadpipe/leadpipe/pkg/ratelimiter"
)

const (
	// WebhookRateNamespace limits deliveries per page id
	WebhookRateNamespace = "webhook_page"

	maxWebhookBodyBytes = 1 << 20
)

// LeadWebhookHandler receives leadgen notifications from the advertising platform
type LeadWebhookHandler struct {
	intake      domain.LeadIntakeService
	appSecret   string
	verifyToken string
	limiter     *ratelimiter.RateLimiter
	logger      logger.Logger
}

// NewLeadWebhookHandler creates the webhook receiver. An empty appSecret
// disables signature checks; a nil limiter disables rate limiting.
func NewLeadWebhookHandler(intake domain.LeadIntakeService, appSecret, verifyToken string, limiter *ratelimiter.RateLimiter, logger logger.Logger) *LeadWebhookHandler {
	return &LeadWebhookHandler{
		intake:      intake,
		appSecret:   appSecret,
		verifyToken: verifyToken,
		limiter:     limiter,
		logger:      logger,
	}
}

// RegisterRoutes registers the public webhook endpoint
func (h *LeadWebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/webhooks/leads", http.HandlerFunc(h.handleWebhook))
}

func (h *LeadWebhookHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleVerify(w, r)
	case http.MethodPost:
		h.handleDelivery(w, r)
	default:
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleVerify answers the platform's subscription handshake
func (h *LeadWebhookHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") != "subscribe" || h.verifyToken == "" || q.Get("hub.verify_token") != h.verifyToken {
		h.logger.WithField("mode", q.Get("hub.mode")).Warn("Rejected webhook subscription verification")
		WriteJSONError(w, "Verification failed", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, q.Get("hub.challenge"))
}

func (h *LeadWebhookHandler) handleDelivery(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to read webhook request body")
		WriteJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	if h.appSecret != "" && !crypto.VerifyWebhookSignature(body, r.Header.Get("X-Hub-Signature-256"), h.appSecret) {
		h.logger.Warn("Rejected webhook delivery with invalid signature")
		WriteJSONError(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	if !gjson.ValidBytes(body) {
		WriteJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	notifications, pages := parseLeadgenNotifications(body)

	// a rejected delivery charges none of its pages
	if h.limiter != nil && !h.limiter.AllowAll(WebhookRateNamespace, pages) {
		h.logger.WithField("page_ids", pages).Warn("Webhook delivery rate limited")
		WriteJSONError(w, "Too many requests", http.StatusTooManyRequests)
		return
	}

	summary, err := h.intake.Ingest(r.Context(), notifications)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to ingest lead notifications")
		WriteJSONError(w, "Failed to store lead notifications", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// parseLeadgenNotifications extracts entry[].changes[] with field "leadgen".
// It also returns the distinct page ids of the delivery.
func parseLeadgenNotifications(body []byte) ([]*domain.LeadNotification, []string) {
	notifications := []*domain.LeadNotification{}
	var pages []string
	seen := map[string]bool{}

	if object := gjson.GetBytes(body, "object"); object.Exists() && object.String() != "page" {
		return notifications, pages
	}

	gjson.GetBytes(body, "entry").ForEach(func(_, entry gjson.Result) bool {
		entryPage := entry.Get("id").String()

		entry.Get("changes").ForEach(func(_, change gjson.Result) bool {
			if change.Get("field").String() != "leadgen" {
				return true
			}
			value := change.Get("value")

			pageID := value.Get("page_id").String()
			if pageID == "" {
				pageID = entryPage
			}

			notifications = append(notifications, &domain.LeadNotification{
				ExternalLeadID: value.Get("leadgen_id").String(),
				ChannelID:      pageID,
				FormID:         value.Get("form_id").String(),
				AdID:           value.Get("ad_id").String(),
				AdsetID:        value.Get("adgroup_id").String(),
				CampaignID:     value.Get("campaign_id").String(),
				CreatedTime:    value.Get("created_time").Int(),
				Payload:        json.RawMessage(value.Raw),
			})

			if pageID != "" && !seen[pageID] {
				seen[pageID] = true
				pages = append(pages, pageID)
			}
			return true
		})
		return true
	})

	return notifications, pages
}
