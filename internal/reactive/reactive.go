package reactive

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/khalidelboray/convos/internal/value"
	"github.com/zoobzio/capitan"
)

// Reactive is an observable object with declared properties.
//
// Thread-safety model:
//   - Declare, Update, Read, On, Emit: safe from any goroutine
//   - Handlers run on the goroutine that emits; the "update" event runs on the
//     scheduler's goroutine
//   - Flushes never overlap
type Reactive struct {
	name      string
	id        string
	idGen     IDGenerator
	logger    *slog.Logger
	scheduler Scheduler
	session   SessionStore
	durable   DurableStore
	ttlDays   int

	mu        sync.Mutex
	props     map[string]*descriptor // never replaced, only mutated in place
	subs      map[string][]*subscription
	scheduled bool

	flushMu sync.Mutex
}

// descriptor is the registry entry for one declared property.
type descriptor struct {
	name  string
	key   string
	kind  Kind
	lazy  bool
	value any

	// get is set for Volatile properties declared with an accessor.
	get func() any

	// accept rejects Update values of the wrong dynamic type. Nil accepts all.
	accept func(any) bool

	// decode turns a stored payload into a value of the declared type.
	decode func([]byte) (any, error)

	// prev is the batch snapshot; dirty marks its presence.
	prev  any
	dirty bool
}

func (d *descriptor) storageKey() string {
	if d.key != "" {
		return d.key
	}
	return d.name
}

// New creates a Reactive with no properties.
func New(opts ...Option) *Reactive {
	r := &Reactive{
		idGen:   UUIDv7Generator{},
		ttlDays: DefaultSessionTTLDays,
		props:   make(map[string]*descriptor),
		subs:    make(map[string][]*subscription),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.scheduler == nil {
		r.scheduler = NewTimerScheduler(nil, DefaultFlushDelay)
	}
	r.id = r.idGen.Generate()
	r.logger = r.logger.With("instance", r.id)
	if r.name != "" {
		r.logger = r.logger.With("owner", r.name)
	}
	return r
}

// ID returns the instance id.
func (r *Reactive) ID() string {
	return r.id
}

// Name returns the owner name set with WithName.
func (r *Reactive) Name() string {
	return r.name
}

// Declare registers a property.
//
// For Volatile, value may be a func() any accessor evaluated on every read;
// the static value (or the accessor's first result) must not be absent.
// For persisted kinds, a stored value overrides value; when nothing is stored
// and Lazy was not given, value is written to the store immediately.
//
// Declaring an existing name replaces its descriptor.
func (r *Reactive) Declare(kind Kind, name string, v any, opts ...PropOption) error {
	d := &descriptor{name: name, kind: kind, value: v}
	d.decode = func(raw []byte) (any, error) {
		return value.DecodeAs(raw, v)
	}
	for _, opt := range opts {
		opt(d)
	}
	if fn, ok := v.(func() any); ok && d.get == nil {
		d.get = fn
	}
	if kind != Volatile {
		d.get = nil
	}
	return r.declare(d)
}

func (r *Reactive) declare(d *descriptor) error {
	if err := r.validate(d); err != nil {
		r.logger.Error("declaration rejected", "property", d.name, "error", err)
		capitan.Emit(context.Background(), DeclareFailed,
			KeyInstance.Field(r.id),
			KeyProperty.Field(d.name),
			KeyKind.Field(d.kind.String()),
			KeyError.Field(err.Error()),
		)
		return err
	}
	if d.kind.Persisted() {
		r.loadPersisted(d)
	}

	r.mu.Lock()
	r.props[d.name] = d
	r.mu.Unlock()

	r.logger.Debug("property declared",
		"property", d.name,
		"kind", d.kind.String(),
	)
	return nil
}

func (r *Reactive) validate(d *descriptor) error {
	if !d.kind.valid() {
		return &Error{
			Code:     ErrCodeUnknownPropertyKind,
			Message:  fmt.Sprintf("unknown property kind %s for property %q", d.kind, d.name),
			Owner:    r.name,
			Property: d.name,
		}
	}

	if d.kind != Volatile {
		return nil
	}
	resolved := d.value
	if d.get != nil {
		resolved = d.get()
	}
	if value.IsAbsent(resolved) {
		return &Error{
			Code:     ErrCodeInvalidDeclaration,
			Message:  fmt.Sprintf("read-only property %q cannot be absent", d.name),
			Owner:    r.name,
			Property: d.name,
		}
	}
	return nil
}

// loadPersisted replaces d's default with the stored value, or writes the
// default back when nothing usable is stored and d is not lazy.
func (r *Reactive) loadPersisted(d *descriptor) {
	raw, ok, err := r.storeGet(d)
	if err != nil {
		r.reportDecode(d, err)
		ok = false
	}
	if ok {
		v, err := d.decode(raw)
		if err == nil {
			d.value = v
			return
		}
		r.reportDecode(d, value.WithKey(err, d.storageKey()))
	}
	if !d.lazy {
		r.persist(d, d.value)
	}
}

func (r *Reactive) storeGet(d *descriptor) ([]byte, bool, error) {
	switch d.kind {
	case SessionPersisted:
		if r.session == nil {
			return nil, false, nil
		}
		return r.session.Get(d.storageKey())
	case DurablyPersisted:
		if r.durable == nil {
			return nil, false, nil
		}
		return r.durable.Get(d.storageKey())
	}
	return nil, false, nil
}

// persist writes v through d's store. Failures are logged and signalled.
func (r *Reactive) persist(d *descriptor, v any) {
	raw, err := value.Encode(v)
	if err != nil {
		r.reportPersist(d, err)
		return
	}

	switch d.kind {
	case SessionPersisted:
		if r.session == nil {
			return
		}
		err = r.session.Set(d.storageKey(), raw, r.ttlDays)
	case DurablyPersisted:
		if r.durable == nil {
			return
		}
		err = r.durable.Set(d.storageKey(), raw)
	}
	if err != nil {
		r.reportPersist(d, err)
	}
}

func (r *Reactive) reportDecode(d *descriptor, err error) {
	r.logger.Warn("stored value unusable, using default",
		"property", d.name,
		"key", d.storageKey(),
		"code", string(ErrCodeDecode),
		"error", err,
	)
	capitan.Emit(context.Background(), DecodeFailed,
		KeyInstance.Field(r.id),
		KeyProperty.Field(d.name),
		KeyKind.Field(d.kind.String()),
		KeyError.Field(err.Error()),
	)
}

func (r *Reactive) reportPersist(d *descriptor, err error) {
	r.logger.Error("persist failed",
		"property", d.name,
		"key", d.storageKey(),
		"error", err,
	)
	capitan.Emit(context.Background(), PersistFailed,
		KeyInstance.Field(r.id),
		KeyProperty.Field(d.name),
		KeyKind.Field(d.kind.String()),
		KeyError.Field(err.Error()),
	)
}

// Read returns the current value of a declared property. Volatile accessors
// are evaluated on every call.
func (r *Reactive) Read(name string) (any, error) {
	r.mu.Lock()
	d, ok := r.props[name]
	if !ok {
		r.mu.Unlock()
		return nil, &Error{
			Code:     ErrCodeUnknownProperty,
			Message:  fmt.Sprintf("unknown property %q", name),
			Owner:    r.name,
			Property: name,
		}
	}
	get, v := d.get, d.value
	r.mu.Unlock()

	// Accessors may read other properties, so they run without the lock.
	if get != nil {
		return get(), nil
	}
	return v, nil
}

// Kind returns the kind of a declared property.
func (r *Reactive) Kind(name string) (Kind, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.props[name]
	if !ok {
		return 0, false
	}
	return d.kind, true
}

// Names returns the declared property names, sorted.
func (r *Reactive) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.props))
	for name := range r.props {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Snapshot returns every property's current value keyed by name.
func (r *Reactive) Snapshot() map[string]any {
	out := make(map[string]any)
	for _, name := range r.Names() {
		if v, err := r.Read(name); err == nil {
			out[name] = v
		}
	}
	return out
}
