package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leadpipe/leadpipe/config"
	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/pkg/logger"
)

// LeadWorkerConfig holds configuration for the retry/recovery worker
type LeadWorkerConfig struct {
	WorkerCount      int           // Concurrent consumers of dispatched ids (default: 1)
	PollInterval     time.Duration // How often to run a retry batch (default: 30s)
	RecoveryInterval time.Duration // How often to reclaim stale rows (default: 1m)
	BatchSize        int           // Rows per retry batch (default: 50)
	MaxRetries       int           // Attempts before a row is left to manual retry (default: 3)
	BaseDelay        time.Duration // Backoff before the second attempt (default: 2s)
	MaxBackoff       time.Duration // Backoff ceiling (default: 1m)
	StaleAfter       time.Duration // Processing rows older than this are reclaimed (default: 5m)
	QueueSize        int           // Buffered dispatch ids (default: 100)
}

// DefaultLeadWorkerConfig returns sensible default configuration
func DefaultLeadWorkerConfig() *LeadWorkerConfig {
	return &LeadWorkerConfig{
		WorkerCount:      1,
		PollInterval:     30 * time.Second,
		RecoveryInterval: time.Minute,
		BatchSize:        50,
		MaxRetries:       3,
		BaseDelay:        2 * time.Second,
		MaxBackoff:       time.Minute,
		StaleAfter:       5 * time.Minute,
		QueueSize:        100,
	}
}

// LeadWorkerConfigFrom builds the worker configuration from the pipeline settings
func LeadWorkerConfigFrom(p config.PipelineConfig) *LeadWorkerConfig {
	cfg := DefaultLeadWorkerConfig()
	if p.WorkerCount > 0 {
		cfg.WorkerCount = p.WorkerCount
	}
	if p.PollInterval > 0 {
		cfg.PollInterval = p.PollInterval
	}
	if p.RecoveryInterval > 0 {
		cfg.RecoveryInterval = p.RecoveryInterval
	}
	if p.BatchSize > 0 {
		cfg.BatchSize = p.BatchSize
	}
	if p.MaxRetryAttempts > 0 {
		cfg.MaxRetries = p.MaxRetryAttempts
	}
	if p.BaseDelay > 0 {
		cfg.BaseDelay = p.BaseDelay
	}
	if p.MaxBackoff > 0 {
		cfg.MaxBackoff = p.MaxBackoff
	}
	if p.StaleAfter > 0 {
		cfg.StaleAfter = p.StaleAfter
	}
	return cfg
}

// BackoffDelay returns base * 2^(retryCount-1), capped at max. No delay
// before the first attempt.
func BackoffDelay(base, max time.Duration, retryCount int) time.Duration {
	if retryCount <= 0 || base <= 0 {
		return 0
	}
	delay := base
	for i := 1; i < retryCount; i++ {
		delay *= 2
		if max > 0 && delay >= max {
			return max
		}
	}
	if max > 0 && delay > max {
		return max
	}
	return delay
}

// BatchResult summarizes one ProcessPending run
type BatchResult struct {
	Picked    int `json:"picked"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Errors    int `json:"errors"`
}

// LeadWorker re-drives pending and failed raw events, reclaims stale ones
// and consumes ids dispatched by intake
type LeadWorker struct {
	repo     domain.LeadEventRepository
	pipeline domain.LeadPipeline
	config   *LeadWorkerConfig
	logger   logger.Logger

	dispatchCh chan string

	// Control
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.RWMutex

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewLeadWorker creates a new LeadWorker
func NewLeadWorker(
	repo domain.LeadEventRepository,
	pipeline domain.LeadPipeline,
	config *LeadWorkerConfig,
	log logger.Logger,
) *LeadWorker {
	if config == nil {
		config = DefaultLeadWorkerConfig()
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 100
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}

	return &LeadWorker{
		repo:       repo,
		pipeline:   pipeline,
		config:     config,
		logger:     log,
		dispatchCh: make(chan string, config.QueueSize),
		now:        func() time.Time { return time.Now().UTC() },
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Start launches the batch loop, the recovery loop and the dispatch consumers
func (w *LeadWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.running = true
	w.mu.Unlock()

	w.logger.WithFields(map[string]interface{}{
		"worker_count":      w.config.WorkerCount,
		"poll_interval":     w.config.PollInterval.String(),
		"recovery_interval": w.config.RecoveryInterval.String(),
		"batch_size":        w.config.BatchSize,
		"max_retries":       w.config.MaxRetries,
	}).Info("Starting lead worker")

	w.wg.Add(2 + w.config.WorkerCount)
	go w.processLoop()
	go w.recoveryLoop()
	for i := 0; i < w.config.WorkerCount; i++ {
		go w.consumeLoop()
	}

	return nil
}

// Stop stops pulling new work and waits for the loops to exit. Rows that
// were mid-pipeline finish their run.
func (w *LeadWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.cancel()
	w.mu.Unlock()

	w.logger.Info("Stopping lead worker...")
	w.wg.Wait()
	w.logger.Info("Lead worker stopped")
}

// IsRunning returns whether the worker is currently running
func (w *LeadWorker) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// Dispatch queues a freshly stored event. It never blocks: a full queue or a
// stopped worker leaves the row to the next batch.
func (w *LeadWorker) Dispatch(rawEventID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.running {
		return false
	}
	select {
	case w.dispatchCh <- rawEventID:
		return true
	default:
		return false
	}
}

func (w *LeadWorker) processLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.ProcessPending(w.ctx, w.config.BatchSize); err != nil {
				w.logger.WithField("error", err.Error()).Error("Failed to process pending lead events")
			}
		}
	}
}

func (w *LeadWorker) recoveryLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.RecoveryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.RecoverStale(w.ctx); err != nil {
				w.logger.WithField("error", err.Error()).Error("Failed to recover stale lead events")
			}
		}
	}
}

func (w *LeadWorker) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case id := <-w.dispatchCh:
			w.process(w.ctx, id)
		}
	}
}

// ProcessPending runs one batch: retryable rows oldest first, serially, with
// exponential backoff before each re-attempt. A failing row never stops the
// batch; cancelling ctx does.
func (w *LeadWorker) ProcessPending(ctx context.Context, limit int) (*BatchResult, error) {
	if limit <= 0 {
		limit = w.config.BatchSize
	}

	events, err := w.repo.ListRetryable(ctx, w.config.MaxRetries, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list retryable lead events: %w", err)
	}

	batch := &BatchResult{Picked: len(events)}
	if len(events) == 0 {
		return batch, nil
	}

	w.logger.WithField("count", len(events)).Debug("Processing retryable lead events")

	for _, event := range events {
		if ctx.Err() != nil {
			break
		}

		if event.RetryCount > 0 {
			delay := BackoffDelay(w.config.BaseDelay, w.config.MaxBackoff, event.RetryCount)
			if err := w.sleep(ctx, delay); err != nil {
				break
			}
		}

		result := w.process(ctx, event.ID)
		switch {
		case result == nil:
			batch.Errors++
		case result.Outcome == domain.ProcessOutcomeCompleted:
			batch.Completed++
		case result.Outcome == domain.ProcessOutcomeSkipped:
			batch.Skipped++
		default:
			batch.Failed++
		}
	}

	return batch, nil
}

func (w *LeadWorker) process(ctx context.Context, id string) *domain.ProcessResult {
	result, err := w.pipeline.ProcessLeadEvent(ctx, id)
	if err != nil {
		w.logger.WithFields(map[string]interface{}{
			"raw_event_id": id,
			"error":        err.Error(),
		}).Error("Failed to process lead event")
		return nil
	}
	return result
}

// RecoverStale returns rows stuck in processing past the staleness window to pending
func (w *LeadWorker) RecoverStale(ctx context.Context) (int64, error) {
	cutoff := w.now().Add(-w.config.StaleAfter)
	count, err := w.repo.ResetStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		w.logger.WithFields(map[string]interface{}{
			"count":       count,
			"stale_after": w.config.StaleAfter.String(),
		}).Warn("Reset stale lead events to pending")
	}
	return count, nil
}

// RetryNow gives the row a fresh retry budget and runs the pipeline once
func (w *LeadWorker) RetryNow(ctx context.Context, rawEventID string) (*domain.ProcessResult, error) {
	if err := w.repo.ResetForRetry(ctx, rawEventID); err != nil {
		return nil, err
	}
	w.logger.WithField("raw_event_id", rawEventID).Info("Lead event reset for manual retry")
	return w.pipeline.ProcessLeadEvent(ctx, rawEventID)
}

// GetConfig returns the worker configuration
func (w *LeadWorker) GetConfig() *LeadWorkerConfig {
	return w.config
}
