package reactive

import (
	"context"
	"sync"
)

// Future is the result of Next: it settles with the arguments of the first
// matching emission, or with an error when cancelled.
type Future struct {
	done  chan struct{}
	once  sync.Once
	args  []any
	err   error
	unsub Unsubscribe
}

// Next returns a Future for the next emission of event. The registration is
// removed as soon as the Future settles.
func (r *Reactive) Next(event string) *Future {
	f := &Future{done: make(chan struct{})}

	// The handler can fire on another goroutine before On returns.
	var (
		mu    sync.Mutex
		unsub Unsubscribe
		fired bool
	)
	detach := func() {
		mu.Lock()
		defer mu.Unlock()
		fired = true
		if unsub != nil {
			unsub()
		}
	}

	u := r.On(event, func(args ...any) {
		f.settle(append([]any(nil), args...), nil)
		detach()
	})

	mu.Lock()
	unsub = u
	if fired {
		u()
	}
	mu.Unlock()

	f.unsub = detach
	return f
}

func (f *Future) settle(args []any, err error) bool {
	settled := false
	f.once.Do(func() {
		f.args = args
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Done is closed when the Future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the Future settles or ctx ends. A context error cancels
// the Future, so its registration is removed either way.
func (f *Future) Wait(ctx context.Context) ([]any, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		f.settle(nil, ctx.Err())
		f.unsub()
	}
	<-f.done
	return f.args, f.err
}

// Cancel settles the Future with ErrCanceled unless it already settled, and
// removes its registration.
func (f *Future) Cancel() {
	f.settle(nil, ErrCanceled)
	f.unsub()
}
