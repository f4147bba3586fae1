package ratelimit

import (
	"sync"
	"time"
)

const (
	window = time.Minute

	// DefaultDailyLimit caps provider requests per calendar day
	DefaultDailyLimit = 1000
)

// Decision is the outcome of one admission check
type Decision struct {
	Allowed bool
	Reason  string

	// AcceptableChunkSize suggests how many pieces an oversized request
	// should be split into before retrying. Set only for the
	// "request too large" denial.
	AcceptableChunkSize int
}

type logEntry struct {
	at     time.Time
	tokens int
}

// Limiter admits provider requests against a sliding one-minute window and
// a calendar-day cap. Admission and consumption are a single step: a
// request that passes every check is recorded immediately, so concurrent
// callers cannot both squeeze through the same remaining budget.
type Limiter struct {
	mu sync.Mutex

	log        []logEntry
	today      int
	lastReset  time.Time
	dailyLimit int

	now func() time.Time
}

// Option configures a Limiter
type Option func(*Limiter)

// WithClock replaces the wall clock, for tests
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithDailyLimit overrides the calendar-day request cap
func WithDailyLimit(n int) Option {
	return func(l *Limiter) {
		l.dailyLimit = n
	}
}

func New(opts ...Option) *Limiter {
	l := &Limiter{
		dailyLimit: DefaultDailyLimit,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.lastReset = l.now()
	return l
}

// TryAcquire checks whether a request consuming tokensRequired may proceed
// right now. Checks run in a fixed order: requests per minute, oversized
// single request, tokens per minute, then the daily cap. On success the
// request is pre-consumed into the window and the daily counter.
func (l *Limiter) TryAcquire(tokensRequired, inputLimit, rpmLimit int) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.log) >= rpmLimit {
		return Decision{Reason: "RPM limit exceeded"}
	}

	if tokensRequired > inputLimit {
		return Decision{
			Reason:              "request too large",
			AcceptableChunkSize: ceilDiv(tokensRequired, inputLimit),
		}
	}

	var inWindow int
	for _, e := range l.log {
		inWindow += e.tokens
	}
	if inWindow+tokensRequired > inputLimit {
		return Decision{Reason: "tokens per minute limit exceeded"}
	}

	l.resetDaily(now)
	if l.today >= l.dailyLimit {
		return Decision{Reason: "requests per day limit exceeded"}
	}

	l.log = append(l.log, logEntry{at: now, tokens: tokensRequired})
	l.today++

	return Decision{Allowed: true}
}

// TokensInWindow reports the summed token count of the current window
func (l *Limiter) TokensInWindow() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	var sum int
	for _, e := range l.log {
		sum += e.tokens
	}
	return sum
}

// RequestsToday reports the calendar-day request count
func (l *Limiter) RequestsToday() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.resetDaily(l.now())
	return l.today
}

func (l *Limiter) prune(now time.Time) {
	kept := l.log[:0]
	for _, e := range l.log {
		if now.Sub(e.at) < window {
			kept = append(kept, e)
		}
	}
	l.log = kept
}

// resetDaily zeroes the day counter when the local calendar date changes
func (l *Limiter) resetDaily(now time.Time) {
	ly, lm, ld := l.lastReset.Date()
	ny, nm, nd := now.Date()
	if ly != ny || lm != nm || ld != nd {
		l.today = 0
		l.lastReset = now
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
