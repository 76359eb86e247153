// Package clock supplies the engine's notion of "now" and of calendar days.
//
// The scheduling engine never reads the physical clock directly. Every session is
// given a Clock, so time can be advanced synthetically in tests and demos without
// changing how words are scheduled.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current logical timestamp.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

// Now returns time.Now.
func (System) Now() time.Time { return time.Now() }

// Logical is a settable clock. It is safe for concurrent use.
type Logical struct {
	mu  sync.Mutex
	now time.Time
}

// NewLogical creates a logical clock that starts at start.
func NewLogical(start time.Time) *Logical {
	return &Logical{now: start}
}

// Now returns the current logical time.
func (c *Logical) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Logical) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d and returns the new time.
func (c *Logical) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
