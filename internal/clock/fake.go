package clock

import (
	"sync"
	"time"
)

// FakeClock is a Clock pinned to a fixed instant, normalized to UTC like
// the system clock. Tests move it forward explicitly with Advance, so
// generated fees and payments carry predictable timestamps. Safe for
// concurrent use; tests race goroutines through the services that read it.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
