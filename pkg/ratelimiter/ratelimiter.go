package ratelimiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Policy is a token bucket refilled with Events tokens every Per, holding at most Events tokens
type Policy struct {
	Events int
	Per    time.Duration
}

func (p Policy) limit() rate.Limit {
	if p.Per <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(p.Events) / p.Per.Seconds())
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per namespace:key pair.
// Namespaces carry their own Policy. Keys are typically a page or channel id.
//
//	rl := ratelimiter.NewRateLimiter()
//	rl.SetPolicy("webhook_page", 600, time.Minute)
//	if !rl.Allow("webhook_page", pageID) { ... }
type RateLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*entry
	policies    map[string]Policy
	idleTTL     time.Duration
	stopCleanup chan struct{}
	stopped     bool
}

// ErrNoPolicy is returned by Wait when the namespace was never configured
var ErrNoPolicy = fmt.Errorf("rate limiter: no policy for namespace")

// NewRateLimiter starts a limiter with a background sweep that drops buckets idle for 10 minutes
func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		buckets:     make(map[string]*entry),
		policies:    make(map[string]Policy),
		idleTTL:     10 * time.Minute,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// SetPolicy configures a namespace. Existing buckets of the namespace pick up the new rate.
func (rl *RateLimiter) SetPolicy(namespace string, events int, per time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if events < 1 {
		events = 1
	}
	p := Policy{Events: events, Per: per}
	rl.policies[namespace] = p

	prefix := namespace + ":"
	for k, e := range rl.buckets {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			e.limiter.SetLimit(p.limit())
			e.limiter.SetBurst(p.Events)
		}
	}
}

func (rl *RateLimiter) bucket(namespace, key string) (*rate.Limiter, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	policy, ok := rl.policies[namespace]
	if !ok {
		return nil, false
	}

	compositeKey := namespace + ":" + key
	e, ok := rl.buckets[compositeKey]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(policy.limit(), policy.Events)}
		rl.buckets[compositeKey] = e
	}
	e.lastSeen = time.Now()
	return e.limiter, true
}

// Allow reports whether one event may happen now. Unconfigured namespaces are denied.
func (rl *RateLimiter) Allow(namespace, key string) bool {
	limiter, ok := rl.bucket(namespace, key)
	if !ok {
		return false
	}
	return limiter.Allow()
}

// AllowAll takes one event from every key only when all of them have a token
// now. On denial no bucket is charged.
func (rl *RateLimiter) AllowAll(namespace string, keys []string) bool {
	now := time.Now()
	reservations := make([]*rate.Reservation, 0, len(keys))
	release := func() {
		for _, r := range reservations {
			r.CancelAt(now)
		}
	}

	for _, key := range keys {
		limiter, ok := rl.bucket(namespace, key)
		if !ok {
			release()
			return false
		}
		r := limiter.ReserveN(now, 1)
		if !r.OK() {
			release()
			return false
		}
		reservations = append(reservations, r)
		if r.DelayFrom(now) > 0 {
			release()
			return false
		}
	}
	return true
}

// Wait blocks until one event may happen or ctx is done
func (rl *RateLimiter) Wait(ctx context.Context, namespace, key string) error {
	limiter, ok := rl.bucket(namespace, key)
	if !ok {
		return fmt.Errorf("%w %q", ErrNoPolicy, namespace)
	}
	return limiter.Wait(ctx)
}

// Reset drops the bucket so the next call starts full
func (rl *RateLimiter) Reset(namespace, key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.buckets, namespace+":"+key)
}

// Tokens returns the tokens currently available for the pair, or 0 when no bucket exists
func (rl *RateLimiter) Tokens(namespace, key string) float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.buckets[namespace+":"+key]
	if !ok {
		return 0
	}
	return e.limiter.Tokens()
}

func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for k, e := range rl.buckets {
		if now.Sub(e.lastSeen) > rl.idleTTL {
			delete(rl.buckets, k)
		}
	}
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.sweep(now)
		case <-rl.stopCleanup:
			return
		}
	}
}

// Stop ends the background sweep. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if !rl.stopped {
		close(rl.stopCleanup)
		rl.stopped = true
	}
}
