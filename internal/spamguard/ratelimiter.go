// Package spamguard limits how many comments a single author can place in the pool.
package spamguard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	rateLimitKeyPrefix = "spamguard:minute:"
	windowDuration     = 60 * time.Second
	keyTTL             = 90 * time.Second
)

// RateLimiter implements a Redis sorted-set sliding window for per-author, per-minute limits.
type RateLimiter struct {
	rdb          redis.Cmdable
	maxPerMinute int
}

// NewRateLimiter creates a Redis-based limiter allowing maxPerMinute comments per author.
func NewRateLimiter(rdb redis.Cmdable, maxPerMinute int) *RateLimiter {
	return &RateLimiter{rdb: rdb, maxPerMinute: maxPerMinute}
}

func authorKey(author string) string {
	return rateLimitKeyPrefix + strings.ToLower(strings.TrimSpace(author))
}

// Allow checks whether the author is under the per-minute limit.
// If under limit, it records the comment and returns true.
// If over limit, it returns false.
func (rl *RateLimiter) Allow(ctx context.Context, author string) (bool, error) {
	key := authorKey(author)
	now := time.Now()
	nowMs := float64(now.UnixMilli())
	windowStart := float64(now.Add(-windowDuration).UnixMilli())

	pipe := rl.rdb.Pipeline()

	// Remove entries older than the window
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatFloat(windowStart, 'f', 0, 64))

	// Count current entries in the window
	countCmd := pipe.ZCard(ctx, key)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("spamguard pipeline (clean+count): %w", err)
	}

	count := countCmd.Val()
	if count >= int64(rl.maxPerMinute) {
		return false, nil
	}

	// Under limit: add new entry and set TTL
	pipe2 := rl.rdb.Pipeline()
	member := fmt.Sprintf("%d:%d", now.UnixNano(), count)
	pipe2.ZAdd(ctx, key, redis.Z{Score: nowMs, Member: member})
	pipe2.Expire(ctx, key, keyTTL)

	_, err = pipe2.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("spamguard pipeline (add): %w", err)
	}

	return true, nil
}
