package fec

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_MinDelayBetweenCalls(t *testing.T) {
	limiter := NewRateLimiter()
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, limiter.Wait(ctx))
	require.NoError(t, limiter.Wait(ctx))

	// Second call must be paced by the minimum delay.
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestRateLimiter_WaitHonorsCancellation(t *testing.T) {
	limiter := NewRateLimiter()
	limiter.UpdateLimit(0) // force a wait until reset

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRateLimiter_UpdateLimit(t *testing.T) {
	limiter := NewRateLimiter()
	limiter.UpdateLimit(42)

	remaining, _ := limiter.CheckLimit()
	assert.Equal(t, 42, remaining)
}
