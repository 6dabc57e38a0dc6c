package loop

import "sync/atomic"

// Clock is a monotonic logical turn counter.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	turn atomic.Int64
}

// NewClock creates a clock at turn 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next advances the clock and returns the new turn.
func (c *Clock) Next() int64 {
	return c.turn.Add(1)
}

// Current returns the current turn without advancing.
func (c *Clock) Current() int64 {
	return c.turn.Load()
}
