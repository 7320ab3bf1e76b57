// Package testutil provides shared helpers for tests.
package testutil

import (
	"sync"
	"time"
)

// BaseTime is the fixed wall-clock origin used by deterministic tests.
// Chosen in UTC so stored timestamps round-trip byte-identically.
var BaseTime = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

// DeterministicClock is a thread-safe manual wall clock for tests.
//
// Time only moves when a test calls Advance, so every transition in a
// scenario gets a known, reproducible timestamp.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewDeterministicClock creates a clock frozen at BaseTime.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{now: BaseTime}
}

// NewDeterministicClockAt creates a clock frozen at the given time.
func NewDeterministicClockAt(t time.Time) *DeterministicClock {
	return &DeterministicClock{now: t}
}

// Now returns the current frozen time.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new time.
func (c *DeterministicClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// AdvanceDays moves the clock forward by whole calendar days, matching how
// the follow-up schedule is computed.
func (c *DeterministicClock) AdvanceDays(days int) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, days)
	return c.now
}

// Set jumps the clock to an absolute time. Used for scenario replay where
// each step names its own timestamp.
func (c *DeterministicClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
