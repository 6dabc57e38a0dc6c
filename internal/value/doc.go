// Package value holds the value-level rules shared by the reactive core and its
// persistence adapters.
//
// # Identity
//
// Change detection compares a property's live value against the snapshot taken
// at the start of a batch with Same. Same is identity, not deep equality:
// comparable values compare with ==, while slices, maps and funcs compare by
// reference (same backing data). Replacing a slice with an equal copy is a
// change; re-submitting the same slice is not.
//
// # Absence
//
// IsAbsent reports the Go equivalents of an undefined value: a nil interface or
// a nil pointer, map, slice, func or chan.
//
// # Codec
//
// Persisted values are JSON documents. Encode never HTML-escapes. Decode and
// DecodeAs decode into a concrete type; DecodeAny decodes generic JSON with
// integral numbers as int64. Every decoding failure is a *DecodeError so that
// adapters and the core can recognise corrupt payloads with IsDecodeError.
//
// # Canonical JSON
//
// MarshalCanonical produces RFC 8785 style output (UTF-16 key order, NFC
// strings, no HTML escaping, no floats). It is used for golden traces, where
// byte-stable output matters.
package value
