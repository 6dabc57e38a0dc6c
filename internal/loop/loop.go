package loop

import (
	"context"
	"fmt"
	"log/slog"
)

// Loop runs scheduled tasks one at a time.
type Loop struct {
	queue *taskQueue
	clock *Clock
}

// New creates an idle loop.
func New() *Loop {
	return &Loop{
		queue: newTaskQueue(),
		clock: NewClock(),
	}
}

// Schedule enqueues fn to run on a later turn. It never runs fn itself.
// Tasks scheduled after Stop are dropped with a warning.
func (l *Loop) Schedule(fn func()) {
	if !l.queue.enqueue(fn) {
		slog.Warn("loop stopped, task dropped")
	}
}

// Run processes tasks until ctx is cancelled or Stop is called. Tasks still
// queued at Stop are run before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	slog.Debug("loop starting")

	for {
		if fn, ok := l.queue.tryDequeue(); ok {
			l.exec(fn)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Debug("loop stopping: context cancelled")
			l.queue.close()
			return ctx.Err()

		case <-l.queue.wait():
			// The signal channel is closed by Stop, so this case keeps firing
			// once the queue is closed and empty.
			if l.queue.isClosed() && l.queue.len() == 0 {
				slog.Debug("loop stopping: stopped")
				return nil
			}
		}
	}
}

// Drain runs queued tasks on the caller's goroutine until the queue is empty,
// including tasks queued by the tasks it runs. Returns how many ran.
//
// Drain must not be called while Run is active on another goroutine.
func (l *Loop) Drain() int {
	n := 0
	for {
		fn, ok := l.queue.tryDequeue()
		if !ok {
			return n
		}
		l.exec(fn)
		n++
	}
}

// Stop closes the queue. Run returns after the remaining tasks.
func (l *Loop) Stop() {
	l.queue.close()
}

// Len returns the number of queued tasks.
func (l *Loop) Len() int {
	return l.queue.len()
}

// Clock returns the loop's turn counter.
func (l *Loop) Clock() *Clock {
	return l.clock
}

// Turn returns the number of tasks executed so far.
func (l *Loop) Turn() int64 {
	return l.clock.Current()
}

// exec runs one task. A panicking task is logged and the loop continues.
func (l *Loop) exec(fn func()) {
	turn := l.clock.Next()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("task panicked",
				"turn", turn,
				"panic", fmt.Sprint(r),
			)
		}
	}()
	fn()
}
