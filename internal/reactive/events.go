package reactive

import (
	"slices"
	"sync"
)

// EventUpdate is emitted by a flush with (r *Reactive, changed map[string]bool).
const EventUpdate = "update"

// Handler receives an event's arguments.
type Handler func(args ...any)

// Unsubscribe removes a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// subscription is the unique handle stored in the subscriber list. The same
// Handler registered twice gets two subscriptions.
type subscription struct {
	fn Handler
}

// On registers fn for event and returns a function that removes exactly this
// registration.
func (r *Reactive) On(event string, fn Handler) Unsubscribe {
	sub := &subscription{fn: fn}

	r.mu.Lock()
	r.subs[event] = append(r.subs[event], sub)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(event, sub) })
	}
}

func (r *Reactive) remove(event string, sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.subs[event]
	i := slices.Index(list, sub)
	if i < 0 {
		return
	}
	// Replace rather than splice so lists captured by an in-flight Emit are
	// left untouched.
	next := slices.Concat(list[:i:i], list[i+1:])
	if len(next) == 0 {
		delete(r.subs, event)
		return
	}
	r.subs[event] = next
}

// Subscribe calls fn(r, nil) once, then registers it for the "update" event.
// An "update" emitted without a source passes r; one without a changed map
// passes nil.
func (r *Reactive) Subscribe(fn func(r *Reactive, changed map[string]bool)) Unsubscribe {
	fn(r, nil)
	return r.On(EventUpdate, func(args ...any) {
		src := r
		if len(args) > 0 {
			if s, ok := args[0].(*Reactive); ok && s != nil {
				src = s
			}
		}
		var changed map[string]bool
		if len(args) > 1 {
			changed, _ = args[1].(map[string]bool)
		}
		fn(src, changed)
	})
}

// Emit calls every handler registered for event, in registration order.
//
// The subscriber list is captured when Emit starts: handlers added during
// the emission are not called, and handlers removed during it still are.
func (r *Reactive) Emit(event string, args ...any) *Reactive {
	r.mu.Lock()
	list := r.subs[event]
	r.mu.Unlock()

	for _, sub := range list {
		sub.fn(args...)
	}
	return r
}

// Subscribers returns the number of handlers registered for event.
func (r *Reactive) Subscribers(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[event])
}
