package ratelimit_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mnemo-lab/mnemosyne/pkg/service/ratelimit"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)}
}

func TestRPMLimit(t *testing.T) {
	clock := newClock()
	limiter := ratelimit.New(ratelimit.WithClock(clock.now))

	for i := 0; i < 10; i++ {
		d := limiter.TryAcquire(400, 5000, 10)
		gt.Bool(t, d.Allowed).True()
		clock.advance(time.Second)
	}

	d := limiter.TryAcquire(400, 5000, 10)
	gt.Bool(t, d.Allowed).False()
	gt.Value(t, d.Reason).Equal("RPM limit exceeded")

	// entries age out of the window and requests flow again
	clock.advance(time.Minute)
	gt.Bool(t, limiter.TryAcquire(400, 5000, 10).Allowed).True()
}

func TestRequestTooLarge(t *testing.T) {
	limiter := ratelimit.New(ratelimit.WithClock(newClock().now))

	d := limiter.TryAcquire(12000, 5000, 10)
	gt.Bool(t, d.Allowed).False()
	gt.Value(t, d.Reason).Equal("request too large")
	gt.Number(t, d.AcceptableChunkSize).Equal(3)

	// denial must not consume budget
	gt.Number(t, limiter.TokensInWindow()).Equal(0)
	gt.Number(t, limiter.RequestsToday()).Equal(0)
}

func TestTokensPerMinute(t *testing.T) {
	clock := newClock()
	limiter := ratelimit.New(ratelimit.WithClock(clock.now))

	gt.Bool(t, limiter.TryAcquire(3000, 5000, 100).Allowed).True()
	gt.Bool(t, limiter.TryAcquire(1900, 5000, 100).Allowed).True()

	d := limiter.TryAcquire(200, 5000, 100)
	gt.Bool(t, d.Allowed).False()
	gt.Value(t, d.Reason).Equal("tokens per minute limit exceeded")

	clock.advance(61 * time.Second)
	gt.Bool(t, limiter.TryAcquire(200, 5000, 100).Allowed).True()
}

func TestDailyLimitResetsAtMidnight(t *testing.T) {
	clock := newClock()
	limiter := ratelimit.New(
		ratelimit.WithClock(clock.now),
		ratelimit.WithDailyLimit(3),
	)

	for i := 0; i < 3; i++ {
		gt.Bool(t, limiter.TryAcquire(10, 5000, 100).Allowed).True()
		clock.advance(2 * time.Minute)
	}

	d := limiter.TryAcquire(10, 5000, 100)
	gt.Bool(t, d.Allowed).False()
	gt.Value(t, d.Reason).Equal("requests per day limit exceeded")

	// next calendar day clears the counter
	clock.t = time.Date(2025, 7, 2, 0, 0, 1, 0, time.UTC)
	gt.Bool(t, limiter.TryAcquire(10, 5000, 100).Allowed).True()
	gt.Number(t, limiter.RequestsToday()).Equal(1)
}

func TestPreConsumption(t *testing.T) {
	limiter := ratelimit.New(ratelimit.WithClock(newClock().now))

	gt.Bool(t, limiter.TryAcquire(400, 5000, 10).Allowed).True()
	gt.Number(t, limiter.TokensInWindow()).Equal(400)
	gt.Number(t, limiter.RequestsToday()).Equal(1)
}
