package service

import (
	"context"
	"fmt"
	"time"

	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/pkg/graphapi"
	"github.com/leadpipe/leadpipe/pkg/logger"
	"github.com/leadpipe/leadpipe/pkg/ratelimiter"
	"github.com/leadpipe/leadpipe/pkg/tracing"
)

// GraphAPIRateNamespace buckets outbound Graph API calls per channel
const GraphAPIRateNamespace = "graph_api"

// GraphAPIClient is the part of *graphapi.Client the fetcher uses
type GraphAPIClient interface {
	FetchLeadDetail(ctx context.Context, leadID, accessToken string) (*graphapi.LeadDetail, error)
}

// CredentialStore hands out decrypted channel access tokens
type CredentialStore struct {
	secretKey string
}

func NewCredentialStore(secretKey string) *CredentialStore {
	return &CredentialStore{secretKey: secretKey}
}

func (s *CredentialStore) AccessToken(ctx context.Context, channel *domain.Channel) (string, error) {
	return channel.DecryptAccessToken(s.secretKey)
}

// LeadFetcher loads lead detail with the channel's credentials
type LeadFetcher struct {
	client      GraphAPIClient
	credentials *CredentialStore
	limiter     *ratelimiter.RateLimiter
	logger      logger.Logger
}

// NewLeadFetcher creates a fetcher. limiter may be nil.
func NewLeadFetcher(client GraphAPIClient, credentials *CredentialStore, limiter *ratelimiter.RateLimiter, logger logger.Logger) *LeadFetcher {
	return &LeadFetcher{
		client:      client,
		credentials: credentials,
		limiter:     limiter,
		logger:      logger,
	}
}

// FetchLeadDetail returns *domain.PipelineError on failure: credential
// problems are configuration failures, upstream errors are transient or
// permanent depending on what the platform answered
func (f *LeadFetcher) FetchLeadDetail(ctx context.Context, channel *domain.Channel, externalLeadID string) (*graphapi.LeadDetail, error) {
	token, err := f.credentials.AccessToken(ctx, channel)
	if err != nil {
		return nil, domain.NewPipelineError(domain.StepCredentials, domain.FailureKindConfiguration, err)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, GraphAPIRateNamespace, channel.ID); err != nil {
			return nil, domain.NewPipelineError(domain.StepFetch, domain.FailureKindTransient,
				fmt.Errorf("rate limit wait: %w", err))
		}
	}

	start := time.Now()
	detail, err := f.client.FetchLeadDetail(ctx, externalLeadID, token)
	tracing.RecordFetchLatency(ctx, time.Since(start))
	if err != nil {
		kind := domain.FailureKindPermanent
		if graphapi.IsTransient(err) {
			kind = domain.FailureKindTransient
		}
		f.logger.WithFields(map[string]interface{}{
			"external_lead_id": externalLeadID,
			"channel_id":       channel.ID,
			"failure_kind":     string(kind),
			"error":            err.Error(),
		}).Warn("Lead detail fetch failed")
		return nil, domain.NewPipelineError(domain.StepFetch, kind, err)
	}

	return detail, nil
}
