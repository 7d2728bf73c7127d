// Package ratelimit implements the token-bucket admission gate shared by all
// billable MCP tool calls. A single Limiter guards a single bucket; callers
// never block on denial, they receive a retry hint and decide themselves.
package ratelimit

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// RateLimiting is the capability the dispatcher depends on. Production code
// uses *Limiter; tests substitute fakes.
type RateLimiting interface {
	// Acquire spends n tokens, refilling the bucket first. On denial it
	// returns *RateLimitError and leaves the balance untouched.
	Acquire(n float64) error

	// AvailableTokens reports the current balance after a refill.
	AvailableTokens() float64
}

// RateLimitError reports a denied acquisition.
type RateLimitError struct {
	// RetryAfterSeconds is the ceiling-rounded wait until the requested
	// amount could be available. Zero when Unbounded is set.
	RetryAfterSeconds int64

	// Unbounded marks a bucket that never refills: waiting will not help.
	Unbounded bool
}

func (e *RateLimitError) Error() string {
	if e.Unbounded {
		return "rate limit exceeded: bucket does not refill"
	}
	return fmt.Sprintf("rate limit exceeded, retry after %ds", e.RetryAfterSeconds)
}

// tokenBucket holds the admission state. It is owned by exactly one Limiter
// and is only touched with the limiter's mutex held.
type tokenBucket struct {
	maxTokens  float64
	available  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// refill credits tokens for the wall-clock time elapsed since the last
// refill, capped at capacity. Negative elapsed time (clock adjustment) is
// treated as zero.
func (b *tokenBucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	b.available = math.Min(b.maxTokens, b.available+elapsed*b.refillRate)
	b.lastRefill = now
}

// tryAcquire refills, then spends n tokens if the balance covers them.
// Fractional balances are preserved; nothing is truncated to integers.
func (b *tokenBucket) tryAcquire(n float64, now time.Time) error {
	b.refill(now)
	if b.available >= n {
		b.available -= n
		return nil
	}
	if b.refillRate == 0 {
		return &RateLimitError{Unbounded: true}
	}
	wait := math.Ceil((n - b.available) / b.refillRate)
	return &RateLimitError{RetryAfterSeconds: int64(wait)}
}

// Limiter is the thread-safe façade over one token bucket. It is shared by
// reference across all concurrent tool handlers and lives for the whole
// process.
type Limiter struct {
	mu      sync.Mutex
	bucket  tokenBucket
	nowFunc func() time.Time
}

// NewLimiter creates a limiter whose bucket starts full.
func NewLimiter(maxTokens, refillRate float64) *Limiter {
	l := &Limiter{
		bucket: tokenBucket{
			maxTokens:  maxTokens,
			available:  maxTokens,
			refillRate: refillRate,
		},
		nowFunc: time.Now,
	}
	l.bucket.lastRefill = l.nowFunc()
	return l
}

// Acquire spends n tokens or reports a denial. It never blocks: the bucket
// arithmetic is the only work done under the lock.
func (l *Limiter) Acquire(n float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bucket.tryAcquire(n, l.nowFunc())
}

// AvailableTokens refills and reports the balance without spending anything.
func (l *Limiter) AvailableTokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bucket.refill(l.nowFunc())
	return l.bucket.available
}

var _ RateLimiting = (*Limiter)(nil)
