package ratelimit

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/redis/go-redis/v9"
)

//go:embed rate_limit.lua
var rateLimitScript string

// Logger interface for logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed           bool
	CurrentCount      int64
	Limit             int64
	RetryAfterSeconds int64
}

// RateLimiter counts requests per user and class in Redis with a Lua script
type RateLimiter struct {
	redis  redis.Scripter
	script *redis.Script
	logger Logger
}

// NewRateLimiter creates a new rate limiter with embedded Lua script
func NewRateLimiter(redisClient redis.Scripter, logger Logger) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		script: redis.NewScript(rateLimitScript),
		logger: logger,
	}
}

// CheckUserLimit checks the counter of one user for one class
func (r *RateLimiter) CheckUserLimit(ctx context.Context, userID int64, cfg ClassConfig) (*RateLimitResult, error) {
	key := fmt.Sprintf("rate_limit:user:%d:%s", userID, cfg.Class)
	return r.checkLimit(ctx, key, cfg.Limit, cfg.WindowSeconds)
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int64, windowSec int) (*RateLimitResult, error) {
	raw, err := r.script.Run(ctx, r.redis, []string{key}, limit, windowSec).Result()
	if err != nil {
		r.logger.Error("rate limit check failed", "key", key, "error", err)
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	result, err := parseResult(raw)
	if err != nil {
		return nil, err
	}

	if !result.Allowed {
		r.logger.Warn("rate limit exceeded",
			"key", key,
			"current", result.CurrentCount,
			"limit", limit,
			"retry_after", result.RetryAfterSeconds)
	} else {
		r.logger.Debug("rate limit check passed",
			"key", key,
			"current", result.CurrentCount,
			"limit", limit)
	}

	return result, nil
}

// parseResult decodes {allowed, current_count, limit, retry_after}
func parseResult(raw interface{}) (*RateLimitResult, error) {
	values, ok := raw.([]interface{})
	if !ok || len(values) != 4 {
		return nil, fmt.Errorf("unexpected script result format: %T", raw)
	}

	nums := make([]int64, 4)
	for i, v := range values {
		n, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("unexpected script result element %d: %T", i, v)
		}
		nums[i] = n
	}

	return &RateLimitResult{
		Allowed:           nums[0] == 1,
		CurrentCount:      nums[1],
		Limit:             nums[2],
		RetryAfterSeconds: nums[3],
	}, nil
}
