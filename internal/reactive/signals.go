package reactive

import "github.com/zoobzio/capitan"

// Flush signals.
var (
	// FlushCompleted is emitted after every flush that found dirty properties.
	FlushCompleted = capitan.NewSignal(
		"reactive.flush.completed",
		"Pending property updates flushed",
	)
)

// Declaration signals.
var (
	// DeclareFailed is emitted when Declare rejects a property.
	DeclareFailed = capitan.NewSignal(
		"reactive.declare.failed",
		"Property declaration rejected",
	)
)

// Persistence signals.
var (
	// DecodeFailed is emitted when a stored value cannot be decoded and the
	// declared default is used instead.
	DecodeFailed = capitan.NewSignal(
		"reactive.decode.failed",
		"Persisted value could not be decoded",
	)

	// PersistFailed is emitted when writing a property to its store fails.
	PersistFailed = capitan.NewSignal(
		"reactive.persist.failed",
		"Persisting a property failed",
	)
)

// Field keys for reactive signals.
var (
	// KeyInstance is the Reactive instance id.
	KeyInstance = capitan.NewStringKey("instance")

	// KeyProperty is the property name.
	KeyProperty = capitan.NewStringKey("property")

	// KeyKind is the property kind.
	KeyKind = capitan.NewStringKey("kind")

	// KeyChanged is the number of properties in a flush's changed map.
	KeyChanged = capitan.NewIntKey("changed")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")
)
