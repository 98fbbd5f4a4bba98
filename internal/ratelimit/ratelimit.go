package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limiter is a fixed-window counter backed by Redis. It guards the guest
// order-tracking endpoint against order-number enumeration. The limiter
// fails open: if Redis is unreachable the request is allowed, since
// tracking lookups must not depend on cache availability.
type Limiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewLimiter creates a limiter allowing `limit` hits per `window` for
// each distinct key.
func NewLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// Allow records a hit for the key and reports whether it is still within
// the window's budget.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.rdb == nil {
		return true
	}

	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		log.Printf("ratelimit: redis unavailable, allowing request: %v", err)
		return true
	}
	if count == 1 {
		// First hit opens the window
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			log.Printf("ratelimit: failed to set expiry on %s: %v", redisKey, err)
		}
	} else if ttl, err := l.rdb.TTL(ctx, redisKey).Result(); err == nil && ttl < 0 {
		// INCR and EXPIRE are separate commands. If the process died
		// between them the key has no expiry and would throttle this
		// key forever, so restore the window here.
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			log.Printf("ratelimit: failed to restore expiry on %s: %v", redisKey, err)
		}
	}

	return count <= int64(l.limit)
}
