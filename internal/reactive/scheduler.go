package reactive

import (
	"time"

	"github.com/zoobzio/clockz"
)

// Scheduler runs a flush on a later turn. Implementations must never call fn
// synchronously from Schedule.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn func())

// Schedule calls f(fn).
func (f SchedulerFunc) Schedule(fn func()) {
	f(fn)
}

// DefaultFlushDelay is the TimerScheduler delay, one millisecond after the
// last synchronous Update.
const DefaultFlushDelay = time.Millisecond

// TimerScheduler runs scheduled functions on their own goroutine after a
// delay measured on a clockz.Clock.
type TimerScheduler struct {
	clock clockz.Clock
	delay time.Duration
}

// NewTimerScheduler creates a TimerScheduler. A nil clock uses the real clock;
// a non-positive delay uses DefaultFlushDelay.
func NewTimerScheduler(clock clockz.Clock, delay time.Duration) *TimerScheduler {
	if clock == nil {
		clock = clockz.RealClock
	}
	if delay <= 0 {
		delay = DefaultFlushDelay
	}
	return &TimerScheduler{clock: clock, delay: delay}
}

// Schedule arms a timer and runs fn when it fires.
func (s *TimerScheduler) Schedule(fn func()) {
	timer := s.clock.NewTimer(s.delay)
	go func() {
		<-timer.C()
		fn()
	}()
}
