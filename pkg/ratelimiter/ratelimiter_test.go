package ratelimiter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter()
	require.NotNil(t, rl)
	assert.NotNil(t, rl.buckets)
	assert.NotNil(t, rl.policies)

	rl.Stop()
	rl.Stop()
}

func TestRateLimiter_Allow_BurstThenDeny(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("webhook_page", 3, time.Hour)

	assert.True(t, rl.Allow("webhook_page", "pg_1"))
	assert.True(t, rl.Allow("webhook_page", "pg_1"))
	assert.True(t, rl.Allow("webhook_page", "pg_1"))
	assert.False(t, rl.Allow("webhook_page", "pg_1"), "fourth event exceeds the burst")

	assert.True(t, rl.Allow("webhook_page", "pg_2"), "keys are isolated")
}

func TestRateLimiter_Allow_MissingPolicy(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	assert.False(t, rl.Allow("unknown", "pg_1"))
}

func TestRateLimiter_AllowAll(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()
	rl.SetPolicy("webhook_page", 1, time.Hour)

	t.Run("charges every key when all have tokens", func(t *testing.T) {
		assert.True(t, rl.AllowAll("webhook_page", []string{"pg_a", "pg_b"}))
		assert.False(t, rl.Allow("webhook_page", "pg_a"))
		assert.False(t, rl.Allow("webhook_page", "pg_b"))
	})

	t.Run("denial charges nothing", func(t *testing.T) {
		require.True(t, rl.Allow("webhook_page", "pg_full"))

		assert.False(t, rl.AllowAll("webhook_page", []string{"pg_free", "pg_full"}))
		assert.True(t, rl.Allow("webhook_page", "pg_free"), "earlier key keeps its token")
	})

	t.Run("no keys", func(t *testing.T) {
		assert.True(t, rl.AllowAll("webhook_page", nil))
	})

	t.Run("missing policy", func(t *testing.T) {
		assert.False(t, rl.AllowAll("unknown", []string{"pg_1"}))
	})
}

func TestRateLimiter_Wait(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	t.Run("no policy", func(t *testing.T) {
		err := rl.Wait(context.Background(), "graph_api", "ch_1")
		assert.True(t, errors.Is(err, ErrNoPolicy))
	})

	t.Run("context cancelled while waiting", func(t *testing.T) {
		rl.SetPolicy("graph_api", 1, time.Hour)
		require.NoError(t, rl.Wait(context.Background(), "graph_api", "ch_1"))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.Error(t, rl.Wait(ctx, "graph_api", "ch_1"))
	})

	t.Run("refills", func(t *testing.T) {
		rl.SetPolicy("fast", 1, 10*time.Millisecond)
		require.NoError(t, rl.Wait(context.Background(), "fast", "k"))

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		start := time.Now()
		require.NoError(t, rl.Wait(ctx, "fast", "k"))
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})
}

func TestRateLimiter_SetPolicyUpdatesExistingBuckets(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("ns", 1, time.Hour)
	assert.True(t, rl.Allow("ns", "k"))
	assert.False(t, rl.Allow("ns", "k"))

	rl.SetPolicy("ns", 100, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	assert.True(t, rl.Allow("ns", "k"))
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("ns", 1, time.Hour)
	assert.True(t, rl.Allow("ns", "k"))
	assert.False(t, rl.Allow("ns", "k"))

	rl.Reset("ns", "k")
	assert.True(t, rl.Allow("ns", "k"))
}

func TestRateLimiter_SweepDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("ns", 5, time.Minute)
	rl.Allow("ns", "k")
	assert.Greater(t, rl.Tokens("ns", "k"), 0.0)

	rl.sweep(time.Now().Add(rl.idleTTL + time.Second))

	rl.mu.Lock()
	_, exists := rl.buckets["ns:k"]
	rl.mu.Unlock()
	assert.False(t, exists)
	assert.Equal(t, 0.0, rl.Tokens("ns", "k"))
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("ns", 50, time.Hour)

	var allowed int32
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("ns", "shared") {
				atomic.AddInt32(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(50), atomic.LoadInt32(&allowed))
}
