package clock

import "time"

// FakeClock is a manually advanced Clock for scheduler and batch tests.
// Times are normalized to UTC, matching how snapshot dates are stored.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward; it never ticks on its own.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
