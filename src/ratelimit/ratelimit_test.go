package ratelimit

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests advance time deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(maxTokens, refillRate float64) (*Limiter, *fakeClock) {
	clock := newFakeClock()
	l := NewLimiter(maxTokens, refillRate)
	l.nowFunc = clock.Now
	l.bucket.lastRefill = clock.Now()
	return l, clock
}

func TestLimiterStartsFull(t *testing.T) {
	l, _ := newTestLimiter(50, 2.0)
	assert.Equal(t, 50.0, l.AvailableTokens())
}

func TestAcquireSpendsTokens(t *testing.T) {
	l, _ := newTestLimiter(50, 2.0)

	require.NoError(t, l.Acquire(10))
	assert.Equal(t, 40.0, l.AvailableTokens())
}

func TestAcquireZeroAlwaysSucceeds(t *testing.T) {
	l, _ := newTestLimiter(50, 2.0)
	require.NoError(t, l.Acquire(50))

	// Bucket is empty, but zero costs nothing.
	require.NoError(t, l.Acquire(0))
	assert.Equal(t, 0.0, l.AvailableTokens())
}

func TestAcquireDeniedReportsCeilingRetryAfter(t *testing.T) {
	l, _ := newTestLimiter(50, 2.0)
	require.NoError(t, l.Acquire(50))

	// Fully depleted, asking for 60: ceil((60-0)/2.0) = 30.
	err := l.Acquire(60)
	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, int64(30), rle.RetryAfterSeconds)
	assert.False(t, rle.Unbounded)
}

func TestRetryAfterExampleFromDocs(t *testing.T) {
	// (max=50, rate=2.0) with 50 available, requesting 60:
	// ceil((60-50)/2.0) = 5 seconds.
	l, _ := newTestLimiter(50, 2.0)

	err := l.Acquire(60)
	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, int64(5), rle.RetryAfterSeconds)
}

func TestDenialLeavesBalanceUntouched(t *testing.T) {
	l, _ := newTestLimiter(50, 2.0)
	require.NoError(t, l.Acquire(45))

	require.Error(t, l.Acquire(10))
	assert.Equal(t, 5.0, l.AvailableTokens())
}

func TestRefillOverElapsedTime(t *testing.T) {
	l, clock := newTestLimiter(50, 10)
	require.NoError(t, l.Acquire(50))

	clock.Advance(1 * time.Second)
	assert.Equal(t, 10.0, l.AvailableTokens())

	// Never exceeds capacity.
	clock.Advance(time.Hour)
	assert.Equal(t, 50.0, l.AvailableTokens())
}

func TestFractionalBalancesPreserved(t *testing.T) {
	l, clock := newTestLimiter(50, 2.0)
	require.NoError(t, l.Acquire(50))

	clock.Advance(250 * time.Millisecond)
	assert.InDelta(t, 0.5, l.AvailableTokens(), 1e-9)

	require.NoError(t, l.Acquire(0.5))
	assert.InDelta(t, 0.0, l.AvailableTokens(), 1e-9)
}

func TestZeroRateNeverRefills(t *testing.T) {
	l, clock := newTestLimiter(10, 0)
	require.NoError(t, l.Acquire(10))

	clock.Advance(24 * time.Hour)
	assert.Equal(t, 0.0, l.AvailableTokens())

	err := l.Acquire(1)
	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.True(t, rle.Unbounded)
}

func TestClockGoingBackwardsDoesNotCredit(t *testing.T) {
	l, clock := newTestLimiter(50, 2.0)
	require.NoError(t, l.Acquire(50))

	clock.Advance(-time.Minute)
	assert.Equal(t, 0.0, l.AvailableTokens())
}

func TestConcurrentAcquireNeverOverGrants(t *testing.T) {
	const (
		callers = 20
		perCall = 5.0
	)
	// Exactly callers*perCall tokens and zero refill: every caller must win
	// exactly once and the sum of grants must not exceed the initial balance.
	l, _ := newTestLimiter(callers*perCall, 0)

	var wg sync.WaitGroup
	granted := make(chan struct{}, callers*2)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 2; j++ {
				if err := l.Acquire(perCall); err == nil {
					granted <- struct{}{}
				}
			}
		}()
	}
	wg.Wait()
	close(granted)

	count := 0
	for range granted {
		count++
	}
	assert.Equal(t, callers, count)
	assert.Equal(t, 0.0, l.AvailableTokens())
}

func TestRateLimitErrorMessages(t *testing.T) {
	err := &RateLimitError{RetryAfterSeconds: 5}
	assert.Equal(t, "rate limit exceeded, retry after 5s", err.Error())

	unbounded := &RateLimitError{Unbounded: true}
	assert.Equal(t, "rate limit exceeded: bucket does not refill", unbounded.Error())
}

func TestAcquireErrorIsTyped(t *testing.T) {
	l, _ := newTestLimiter(1, 1)
	require.NoError(t, l.Acquire(1))

	err := l.Acquire(1)
	require.Error(t, err)
	var rle *RateLimitError
	assert.True(t, errors.As(err, &rle))
}
