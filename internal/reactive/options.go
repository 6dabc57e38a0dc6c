package reactive

import "log/slog"

// Option configures a Reactive.
type Option func(*Reactive)

// WithName sets the owner name used in error messages and logs.
func WithName(name string) Option {
	return func(r *Reactive) {
		r.name = name
	}
}

// WithScheduler sets the flush scheduler.
//
// Default: a TimerScheduler with DefaultFlushDelay on the real clock.
func WithScheduler(s Scheduler) Option {
	return func(r *Reactive) {
		r.scheduler = s
	}
}

// WithSessionStore sets the store for SessionPersisted properties.
func WithSessionStore(s SessionStore) Option {
	return func(r *Reactive) {
		r.session = s
	}
}

// WithDurableStore sets the store for DurablyPersisted properties.
func WithDurableStore(s DurableStore) Option {
	return func(r *Reactive) {
		r.durable = s
	}
}

// WithSessionTTL sets the lifetime, in days, passed to SessionStore.Set.
//
// Default: 365 days (DefaultSessionTTLDays). Non-positive values are ignored.
func WithSessionTTL(days int) Option {
	return func(r *Reactive) {
		if days > 0 {
			r.ttlDays = days
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Reactive) {
		r.logger = l
	}
}

// WithIDGenerator sets the instance id generator. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Reactive) {
		r.idGen = g
	}
}

// PropOption configures a single declaration.
type PropOption func(*descriptor)

// WithKey overrides the storage key of a persisted property. The default key
// is the property name.
func WithKey(key string) PropOption {
	return func(d *descriptor) {
		d.key = key
	}
}

// Lazy leaves a persisted property absent from its store until the first
// flush that changes it, instead of writing the default at declaration.
func Lazy() PropOption {
	return func(d *descriptor) {
		d.lazy = true
	}
}

// WithAccessor makes a Volatile property computed: fn is evaluated on every
// read instead of returning the declared value.
func WithAccessor(fn func() any) PropOption {
	return func(d *descriptor) {
		d.get = fn
	}
}
