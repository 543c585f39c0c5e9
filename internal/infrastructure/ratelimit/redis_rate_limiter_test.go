package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loreline/identity-service/internal/config"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewLimiter(client, config.RateLimitConfig{Enabled: true}, zap.NewNop())
	return limiter, mr
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	rule := config.RateLimitRule{Limit: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "login:10.0.0.1", rule), "request %d", i+1)
	}
	assert.False(t, limiter.Allow(ctx, "login:10.0.0.1", rule))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	rule := config.RateLimitRule{Limit: 1, Window: time.Minute}

	require.True(t, limiter.Allow(ctx, "login:10.0.0.1", rule))
	require.False(t, limiter.Allow(ctx, "login:10.0.0.1", rule))

	assert.True(t, limiter.Allow(ctx, "login:10.0.0.2", rule))
	assert.True(t, limiter.Allow(ctx, "reset:10.0.0.1", rule))
}

func TestLimiter_WindowExpiryResetsCount(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()
	rule := config.RateLimitRule{Limit: 1, Window: time.Minute}

	require.True(t, limiter.Allow(ctx, "login:10.0.0.1", rule))
	require.False(t, limiter.Allow(ctx, "login:10.0.0.1", rule))

	mr.FastForward(2 * time.Minute)

	assert.True(t, limiter.Allow(ctx, "login:10.0.0.1", rule))
}

func TestLimiter_FailsOpenWhenRedisIsDown(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()
	rule := config.RateLimitRule{Limit: 1, Window: time.Minute}

	mr.Close()

	assert.True(t, limiter.Allow(ctx, "login:10.0.0.1", rule))
	assert.True(t, limiter.Allow(ctx, "login:10.0.0.1", rule))
}

func TestLimiter_DisabledConfigAllowsEverything(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewLimiter(client, config.RateLimitConfig{Enabled: false}, zap.NewNop())
	rule := config.RateLimitRule{Limit: 1, Window: time.Minute}

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(context.Background(), "login:10.0.0.1", rule))
	}
}
