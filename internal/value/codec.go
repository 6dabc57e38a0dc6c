package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// DecodeError reports a persisted payload that could not be decoded.
type DecodeError struct {
	// Key is the storage key the payload was read from, if known.
	Key string

	// Err is the underlying parse error.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("decode %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// WithKey returns err with the storage key attached when err is a
// *DecodeError without one. Other errors are returned unchanged.
func WithKey(err error, key string) error {
	var de *DecodeError
	if errors.As(err, &de) && de.Key == "" {
		return &DecodeError{Key: key, Err: de.Err}
	}
	return err
}

// Encode serializes v as JSON without HTML escaping.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode deserializes data into a T.
func Decode[T any](data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, &DecodeError{Err: err}
	}
	return out, nil
}

// DecodeAs deserializes data into a new value of like's dynamic type. When
// like is absent or an interface-typed nil, the result is generic JSON as
// returned by DecodeAny.
func DecodeAs(data []byte, like any) (any, error) {
	if like == nil {
		return DecodeAny(data)
	}
	ptr := reflect.New(reflect.TypeOf(like))
	if err := json.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return ptr.Elem().Interface(), nil
}

// DecodeAny deserializes generic JSON. Objects become map[string]any, arrays
// []any, and numbers int64 when integral, float64 otherwise.
func DecodeAny(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if dec.More() {
		return nil, &DecodeError{Err: errors.New("trailing data after JSON value")}
	}
	return normalizeNumbers(raw), nil
}

func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		f, _ := val.Float64()
		return f
	case []any:
		for i := range val {
			val[i] = normalizeNumbers(val[i])
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = normalizeNumbers(val[k])
		}
		return val
	default:
		return v
	}
}
