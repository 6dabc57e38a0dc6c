package reactive

import "fmt"

// Kind classifies a property's writability and persistence.
type Kind int

const (
	// Volatile properties are read-only; static or computed on read.
	Volatile Kind = iota + 1
	// Mutable properties are writable through Update and not persisted.
	Mutable
	// SessionPersisted properties are mirrored to the SessionStore.
	SessionPersisted
	// DurablyPersisted properties are mirrored to the DurableStore.
	DurablyPersisted
)

// String returns the kind's long name.
func (k Kind) String() string {
	switch k {
	case Volatile:
		return "volatile"
	case Mutable:
		return "mutable"
	case SessionPersisted:
		return "session"
	case DurablyPersisted:
		return "durable"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Updateable reports whether Update may overwrite the property's value.
func (k Kind) Updateable() bool {
	return k == Mutable || k == SessionPersisted || k == DurablyPersisted
}

// Persisted reports whether the property is mirrored to a store.
func (k Kind) Persisted() bool {
	return k == SessionPersisted || k == DurablyPersisted
}

func (k Kind) valid() bool {
	return k >= Volatile && k <= DurablyPersisted
}

// kindNames maps accepted spellings to kinds. The short tags are the ones
// used by declaration files: ro, rw, cookie, persist.
var kindNames = map[string]Kind{
	"volatile": Volatile,
	"ro":       Volatile,
	"mutable":  Mutable,
	"rw":       Mutable,
	"session":  SessionPersisted,
	"cookie":   SessionPersisted,
	"durable":  DurablyPersisted,
	"persist":  DurablyPersisted,
}

// ParseKind resolves a kind name. Unrecognized names return an
// UNKNOWN_PROPERTY_KIND error.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindNames[s]; ok {
		return k, nil
	}
	return 0, &Error{
		Code:    ErrCodeUnknownPropertyKind,
		Message: fmt.Sprintf("unknown property kind %q", s),
	}
}
