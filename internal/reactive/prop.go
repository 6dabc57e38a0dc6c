package reactive

import (
	"github.com/khalidelboray/convos/internal/value"
)

// Prop is the typed read surface of one declared property.
type Prop[T any] struct {
	r    *Reactive
	name string
	kind Kind
}

// NewProp declares a property holding values of type T. Persisted payloads
// are decoded into T, and Update values of any other dynamic type are skipped.
func NewProp[T any](r *Reactive, kind Kind, name string, v T, opts ...PropOption) (*Prop[T], error) {
	d := &descriptor{
		name:   name,
		kind:   kind,
		value:  v,
		accept: accepts[T],
		decode: func(raw []byte) (any, error) {
			return value.Decode[T](raw)
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	if kind != Volatile {
		d.get = nil
	}
	if err := r.declare(d); err != nil {
		return nil, err
	}
	return &Prop[T]{r: r, name: name, kind: kind}, nil
}

// NewComputed declares a Volatile property whose value is fn's result,
// evaluated on every read. fn is called once during declaration and must
// not return an absent value.
func NewComputed[T any](r *Reactive, name string, fn func() T) (*Prop[T], error) {
	d := &descriptor{
		name:   name,
		kind:   Volatile,
		get:    func() any { return fn() },
		accept: accepts[T],
	}
	if err := r.declare(d); err != nil {
		return nil, err
	}
	return &Prop[T]{r: r, name: name, kind: Volatile}, nil
}

func accepts[T any](v any) bool {
	if v == nil {
		var zero T
		return value.IsAbsent(any(zero))
	}
	_, ok := v.(T)
	return ok
}

// Get returns the current value. It returns the zero T when the property
// holds an absent value.
func (p *Prop[T]) Get() T {
	v, err := p.r.Read(p.name)
	if err != nil {
		var zero T
		return zero
	}
	t, _ := v.(T)
	return t
}

// Set stages v through Update.
func (p *Prop[T]) Set(v T) *Reactive {
	return p.r.Update(map[string]any{p.name: v})
}

// Name returns the property name.
func (p *Prop[T]) Name() string {
	return p.name
}

// Kind returns the property kind.
func (p *Prop[T]) Kind() Kind {
	return p.kind
}
