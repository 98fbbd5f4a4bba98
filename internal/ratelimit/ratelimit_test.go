package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func TestLimiterFailsOpen(t *testing.T) {
	t.Run("nil limiter allows everything", func(t *testing.T) {
		var l *Limiter
		if !l.Allow(context.Background(), "1.2.3.4") {
			t.Error("nil limiter should allow")
		}
	})

	t.Run("limiter without a client allows everything", func(t *testing.T) {
		l := NewLimiter(nil, "track", 1, time.Minute)
		for i := 0; i < 5; i++ {
			if !l.Allow(context.Background(), "1.2.3.4") {
				t.Error("limiter without redis should allow")
			}
		}
	})
}

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewLimiter(rdb, "track", limit, window), mr
}

func TestLimiterWindow(t *testing.T) {
	ctx := context.Background()

	t.Run("blocks past the limit", func(t *testing.T) {
		l, _ := newTestLimiter(t, 3, time.Minute)
		for i := 0; i < 3; i++ {
			if !l.Allow(ctx, "1.2.3.4") {
				t.Fatalf("hit %d should be allowed", i+1)
			}
		}
		if l.Allow(ctx, "1.2.3.4") {
			t.Error("hit 4 should be blocked")
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		l, _ := newTestLimiter(t, 1, time.Minute)
		if !l.Allow(ctx, "1.2.3.4") {
			t.Fatal("first key should be allowed")
		}
		if !l.Allow(ctx, "5.6.7.8") {
			t.Error("a different key should have its own budget")
		}
	})

	t.Run("budget resets after the window", func(t *testing.T) {
		l, mr := newTestLimiter(t, 1, time.Minute)
		if !l.Allow(ctx, "1.2.3.4") {
			t.Fatal("first hit should be allowed")
		}
		if l.Allow(ctx, "1.2.3.4") {
			t.Fatal("second hit should be blocked")
		}

		mr.FastForward(time.Minute + time.Second)

		if !l.Allow(ctx, "1.2.3.4") {
			t.Error("hit after the window should be allowed")
		}
	})

	t.Run("first hit opens the window", func(t *testing.T) {
		l, mr := newTestLimiter(t, 3, time.Minute)
		l.Allow(ctx, "1.2.3.4")
		if mr.TTL("track:1.2.3.4") <= 0 {
			t.Error("counter key should carry an expiry")
		}
	})

	t.Run("counter stuck without expiry is repaired", func(t *testing.T) {
		// Simulates a crash between INCR and EXPIRE leaving a
		// persistent counter behind.
		l, mr := newTestLimiter(t, 10, time.Minute)
		if err := mr.Set("track:1.2.3.4", "4"); err != nil {
			t.Fatal(err)
		}

		if !l.Allow(ctx, "1.2.3.4") {
			t.Fatal("hit within the budget should be allowed")
		}
		if mr.TTL("track:1.2.3.4") <= 0 {
			t.Error("expiry should be restored on the stuck counter")
		}
	})
}
