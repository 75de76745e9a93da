package graphapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leadBody = `{
	"id": "lg_001",
	"created_time": "2024-03-01T10:00:00+0000",
	"ad_id": "ad_1",
	"ad_name": "Spring",
	"adset_id": "as_1",
	"campaign_id": "cmp_1",
	"campaign_name": "Q1",
	"form_id": "f_9",
	"is_organic": false,
	"platform": "fb",
	"field_data": [
		{"name": "email", "values": ["ANA@X.COM", "other@x.com"]},
		{"name": "full_name", "values": ["Ana Silva"]},
		{"name": "empty", "values": []}
	]
}`

func TestClient_FetchLeadDetail(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/v19.0/lg_001", r.URL.Path)
			assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
			assert.Equal(t, LeadFields, r.URL.Query().Get("fields"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(leadBody))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL + "/v19.0/"})
		detail, err := client.FetchLeadDetail(context.Background(), "lg_001", "tok")
		require.NoError(t, err)

		assert.Equal(t, "lg_001", detail.ID)
		assert.Equal(t, "f_9", detail.FormID)
		assert.Equal(t, "ad_1", detail.AdID)
		assert.Equal(t, "Q1", detail.CampaignName)
		assert.Equal(t, "fb", detail.Platform)
		assert.False(t, detail.IsOrganic)
		assert.Equal(t, "ANA@X.COM", detail.FieldData["email"], "only the first value is kept")
		assert.Equal(t, "Ana Silva", detail.FieldData["full_name"])
		_, hasEmpty := detail.FieldData["empty"]
		assert.False(t, hasEmpty)
		assert.NotEmpty(t, detail.Raw)
	})

	t.Run("ErrorBodyMessage", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token.","type":"OAuthException","code":190}}`))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		_, err := client.FetchLeadDetail(context.Background(), "lg_001", "bad")
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "Invalid OAuth access token.", apiErr.Message)
		assert.Equal(t, 190, apiErr.Code)
		assert.False(t, IsTransient(err))
		assert.Contains(t, err.Error(), "Invalid OAuth access token.")
	})

	t.Run("ErrorWithoutBody", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		_, err := client.FetchLeadDetail(context.Background(), "lg_001", "tok")
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Service Unavailable", apiErr.Message)
		assert.True(t, IsTransient(err))
	})

	t.Run("EmptyLeadID", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://unused"})
		_, err := client.FetchLeadDetail(context.Background(), "", "tok")
		assert.Error(t, err)
	})

	t.Run("ContextTimeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := client.FetchLeadDetail(ctx, "lg_001", "tok")
		require.Error(t, err)
		assert.True(t, IsTransient(err))
	})
}

func TestClient_BreakerOpensOnConsecutiveServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, BreakerThreshold: 2, BreakerCooldown: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := client.FetchLeadDetail(context.Background(), "lg", "tok")
		require.Error(t, err)
	}
	assert.Equal(t, "open", client.BreakerState())

	_, err := client.FetchLeadDetail(context.Background(), "lg", "tok")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.True(t, IsTransient(err))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "open breaker must not reach the server")
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, BreakerThreshold: 1})
	for i := 0; i < 3; i++ {
		_, err := client.FetchLeadDetail(context.Background(), "lg", "tok")
		require.Error(t, err)
	}
	assert.Equal(t, "closed", client.BreakerState())
}

func TestParseLeadDetail_Invalid(t *testing.T) {
	_, err := ParseLeadDetail([]byte("not json"))
	assert.Error(t, err)
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), code)
	}
	for _, code := range []int{400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), code)
	}
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("lead detail missing email")))
	assert.True(t, IsTransient(errors.New("read tcp: connection reset by peer")))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.True(t, IsTransient(&APIError{StatusCode: 429}))
	assert.False(t, IsTransient(&APIError{StatusCode: 403}))
}
