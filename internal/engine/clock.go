package engine

import (
	"sync"
	"time"
)

// Clock supplies timestamps for evidence records and remediation
// requests. Injected so tests control time.
type Clock interface {
	Now() time.Time
}

// systemClock reads the wall clock in UTC.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// monotonicClock guarantees non-decreasing timestamps across concurrent
// callers. Auditors order evidence records by timestamp, so records
// built later in a run must never carry an earlier time even if the
// wall clock steps backwards.
type monotonicClock struct {
	mu   sync.Mutex
	base Clock
	last time.Time
}

func newMonotonicClock(base Clock) *monotonicClock {
	return &monotonicClock{base: base}
}

func (c *monotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.base.Now()
	if now.Before(c.last) {
		now = c.last
	}
	c.last = now
	return now
}
