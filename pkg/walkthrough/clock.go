package walkthrough

import (
	"sync"
	"time"
)

// Clock is a settable scenario clock. Until Set is called it
// reads the wall clock. Pass Now to runner.WithClock.
type Clock struct {
	mu  sync.RWMutex
	now time.Time
	set bool
}

// NewClock creates an unset Clock.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the pinned time, or the wall clock when unset.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.set {
		return time.Now()
	}
	return c.now
}

// Set pins the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
	c.set = true
}

// Advance moves a pinned clock forward by d. It is a no-op on an
// unset clock.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set {
		c.now = c.now.Add(d)
	}
}

// Clear returns the clock to the wall clock.
func (c *Clock) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set = false
	c.now = time.Time{}
}
