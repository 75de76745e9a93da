package graphapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
)

// LeadFields is the field list requested for every lead
const LeadFields = "id,created_time,ad_id,ad_name,adset_id,adset_name,campaign_id,campaign_name,form_id,is_organic,platform,field_data"

const maxResponseBytes = 1 << 20

// LeadDetail is the platform's view of one lead. FieldData keeps only the
// first value of each field.
type LeadDetail struct {
	ID           string            `json:"id"`
	CreatedTime  string            `json:"created_time,omitempty"`
	AdID         string            `json:"ad_id,omitempty"`
	AdName       string            `json:"ad_name,omitempty"`
	AdsetID      string            `json:"adset_id,omitempty"`
	AdsetName    string            `json:"adset_name,omitempty"`
	CampaignID   string            `json:"campaign_id,omitempty"`
	CampaignName string            `json:"campaign_name,omitempty"`
	FormID       string            `json:"form_id,omitempty"`
	IsOrganic    bool              `json:"is_organic"`
	Platform     string            `json:"platform,omitempty"`
	FieldData    map[string]string `json:"field_data"`
	Raw          json.RawMessage   `json:"-"`
}

// Config configures a Client
type Config struct {
	// Versioned API root, e.g. https://graph.facebook.com/v19.0
	BaseURL string

	// Consecutive upstream failures before the breaker opens. Zero uses 5.
	BreakerThreshold uint32
	BreakerCooldown  time.Duration

	// Optional. Defaults to a 30s client.
	HTTPClient *http.Client
}

// Client reads lead details from the Graph API behind a circuit breaker
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*LeadDetail]
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "graph_api",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// 4xx answers mean the upstream is healthy
		IsSuccessful: func(err error) bool {
			return err == nil || !IsTransient(err)
		},
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		breaker:    gobreaker.NewCircuitBreaker[*LeadDetail](settings),
	}
}

// BreakerState returns the breaker state name for health reporting
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// FetchLeadDetail performs GET /{leadId}?access_token=..&fields=..
func (c *Client) FetchLeadDetail(ctx context.Context, leadID, accessToken string) (*LeadDetail, error) {
	if leadID == "" {
		return nil, fmt.Errorf("lead id is required")
	}

	detail, err := c.breaker.Execute(func() (*LeadDetail, error) {
		return c.fetch(ctx, leadID, accessToken)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lead %s: %w", leadID, err)
	}
	return detail, nil
}

func (c *Client) fetch(ctx context.Context, leadID, accessToken string) (*LeadDetail, error) {
	q := url.Values{}
	q.Set("access_token", accessToken)
	q.Set("fields", LeadFields)
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(leadID), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(resp.StatusCode, body)
	}

	return ParseLeadDetail(body)
}

func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if gjson.ValidBytes(body) {
		e := gjson.GetBytes(body, "error")
		apiErr.Message = e.Get("message").String()
		apiErr.Type = e.Get("type").String()
		apiErr.Code = int(e.Get("code").Int())
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}
	return apiErr
}

// ParseLeadDetail decodes a lead object; only values[0] of each field_data entry is kept
func ParseLeadDetail(body []byte) (*LeadDetail, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid lead detail JSON")
	}
	root := gjson.ParseBytes(body)

	detail := &LeadDetail{
		ID:           root.Get("id").String(),
		CreatedTime:  root.Get("created_time").String(),
		AdID:         root.Get("ad_id").String(),
		AdName:       root.Get("ad_name").String(),
		AdsetID:      root.Get("adset_id").String(),
		AdsetName:    root.Get("adset_name").String(),
		CampaignID:   root.Get("campaign_id").String(),
		CampaignName: root.Get("campaign_name").String(),
		FormID:       root.Get("form_id").String(),
		IsOrganic:    root.Get("is_organic").Bool(),
		Platform:     root.Get("platform").String(),
		FieldData:    make(map[string]string),
		Raw:          json.RawMessage(append([]byte(nil), body...)),
	}

	root.Get("field_data").ForEach(func(_, field gjson.Result) bool {
		name := field.Get("name").String()
		if name == "" {
			return true
		}
		if first := field.Get("values.0"); first.Exists() {
			detail.FieldData[name] = first.String()
		}
		return true
	})

	return detail, nil
}
