package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPRateLimiter caps how often OTP mail can be requested per address.
type OTPRateLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewOTPRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *OTPRateLimiter {
	return &OTPRateLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// Allow increments the counter for key and reports whether the request is
// within the window limit. The first hit in a window arms the expiry.
func (l *OTPRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.prefix + key
	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, err
		}
	}
	if count > int64(l.limit) {
		l.rdb.Decr(ctx, redisKey)
		return false, nil
	}
	return true, nil
}
