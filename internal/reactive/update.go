package reactive

import (
	"context"
	"fmt"
	"slices"

	"github.com/khalidelboray/convos/internal/value"
	"github.com/zoobzio/capitan"
)

// Update stages new values and schedules one deferred flush.
//
// Unknown names are ignored. Volatile properties are marked as touched but
// keep their value. Writable properties take the new value immediately, so
// reads see it before the flush runs. Calls made before the flush runs are
// coalesced into a single "update" event.
func (r *Reactive) Update(partial map[string]any) *Reactive {
	r.mu.Lock()
	for name, v := range partial {
		d, ok := r.props[name]
		if !ok {
			continue
		}
		if d.accept != nil && d.kind.Updateable() && !d.accept(v) {
			r.logger.Warn("update skipped: wrong value type",
				"property", name,
				"type", fmt.Sprintf("%T", v),
			)
			continue
		}
		if !d.dirty {
			d.dirty = true
			if d.kind == Volatile {
				d.prev = nil
			} else {
				d.prev = d.value
			}
		}
		if d.kind.Updateable() {
			d.value = v
		}
	}
	schedule := !r.scheduled
	r.scheduled = true
	r.mu.Unlock()

	if schedule {
		r.scheduler.Schedule(func() { r.flush() })
	}
	return r
}

type pendingWrite struct {
	d *descriptor
	v any
}

// flush is the scheduled flush. It clears the scheduled flag.
func (r *Reactive) flush() map[string]bool {
	return r.materialize(true)
}

// Flush runs the pending batch now instead of waiting for the scheduler.
// A flush already scheduled stays scheduled and later finds nothing to do.
func (r *Reactive) Flush() map[string]bool {
	return r.materialize(false)
}

// materialize clears every snapshot, persists changed persisted properties
// and emits "update" when anything changed. The returned map is the changed
// map passed to subscribers.
//
// flushMu covers the snapshot and the store writes but not the emission, so
// "update" handlers may call Flush.
func (r *Reactive) materialize(scheduled bool) map[string]bool {
	changed, dirty := r.commit(scheduled)

	r.logger.Debug("flush completed",
		"dirty", dirty,
		"changed", len(changed),
	)
	if dirty > 0 {
		capitan.Emit(context.Background(), FlushCompleted,
			KeyInstance.Field(r.id),
			KeyChanged.Field(len(changed)),
		)
	}

	if len(changed) > 0 {
		r.Emit(EventUpdate, r, changed)
	}
	return changed
}

// commit takes the dirty set, computes the changed map and writes changed
// persisted properties in name order. It returns the changed map and the
// number of dirty properties.
func (r *Reactive) commit(scheduled bool) (map[string]bool, int) {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	changed := make(map[string]bool)
	var writes []pendingWrite

	r.mu.Lock()
	names := make([]string, 0, len(r.props))
	for name, d := range r.props {
		if d.dirty {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	for _, name := range names {
		d := r.props[name]
		prev := d.prev
		d.prev = nil
		d.dirty = false

		// A Volatile snapshot is absent, so it never matches the live value.
		if d.kind != Volatile && value.Same(d.value, prev) {
			continue
		}
		if d.kind.Persisted() {
			writes = append(writes, pendingWrite{d: d, v: d.value})
		}
		changed[name] = d.kind != Volatile
	}
	if scheduled {
		r.scheduled = false
	}
	r.mu.Unlock()

	for _, w := range writes {
		r.persist(w.d, w.v)
	}
	return changed, len(names)
}
