package std

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts the time source so durations reported by the tools can be
// controlled in tests.
type Clock interface {
	Now() time.Time
}

// OsClock is the production Clock backed by time.Now.
type OsClock struct{}

// Now returns the current wall-clock time.
func (OsClock) Now() time.Time { return time.Now() }

// TestClock is a mutex-protected, manually advanced clock. Every call to Now
// moves the clock forward by Step, which lets tests observe a deterministic
// non-zero duration between two readings.
type TestClock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

// NewTestClock constructs a TestClock seeded to the provided time.
func NewTestClock(initial time.Time) *TestClock {
	return &TestClock{now: initial}
}

// Now returns the current time and then applies Step.
func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.Step)
	return now
}

// Advance moves the TestClock forward by d.
func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Set sets the TestClock to a specific time.
func (c *TestClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

var _ Clock = OsClock{}
var _ Clock = (*TestClock)(nil)

type clockCtxKey int

var ctxClockKey clockCtxKey

// WithClock returns a copy of ctx carrying clock.
func WithClock(ctx context.Context, clock Clock) context.Context {
	return context.WithValue(ctx, ctxClockKey, clock)
}

// ClockFromContext returns the clock stored in ctx, or OsClock.
func ClockFromContext(ctx context.Context) Clock {
	if v := ctx.Value(ctxClockKey); v != nil {
		if clock, ok := v.(Clock); ok && clock != nil {
			return clock
		}
	}
	return OsClock{}
}

// Stopwatch reads the context clock once and returns a function reporting the
// time elapsed since that reading.
func Stopwatch(ctx context.Context) func() time.Duration {
	clock := ClockFromContext(ctx)
	start := clock.Now()
	return func() time.Duration {
		return clock.Now().Sub(start)
	}
}
