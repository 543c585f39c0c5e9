package ratelimit

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/loreline/identity-service/internal/config"
	"github.com/loreline/identity-service/internal/utils/metrics"
)

// Limiter is a fixed-window rate limiter over Redis INCR/EXPIRE.
type Limiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	logger *zap.Logger
}

// NewLimiter creates a Redis-backed limiter. A nil client disables limiting.
func NewLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *Limiter {
	return &Limiter{client: client, cfg: cfg, logger: logger.Named("ratelimit")}
}

// Allow reports whether another event under key fits within the rule. Redis
// failures are logged and the request is allowed through.
func (l *Limiter) Allow(ctx context.Context, key string, rule config.RateLimitRule) bool {
	if !l.cfg.Enabled || l.client == nil || rule.Limit <= 0 {
		return true
	}

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rule.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Error("rate limit check failed, allowing request",
			zap.String("key", key), zap.Error(err))
		return true
	}

	if incr.Val() > int64(rule.Limit) {
		metrics.RateLimitExceededTotal.Inc()
		return false
	}
	return true
}
