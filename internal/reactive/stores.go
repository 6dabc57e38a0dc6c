package reactive

// SessionStore mirrors SessionPersisted properties. Values are raw JSON
// documents. Get reports absence with ok == false; a corrupt payload is
// reported as a *value.DecodeError.
type SessionStore interface {
	Get(key string) (raw []byte, ok bool, err error)
	Set(key string, raw []byte, ttlDays int) error
}

// DurableStore mirrors DurablyPersisted properties. Values are raw JSON
// documents and never expire.
type DurableStore interface {
	Get(key string) (raw []byte, ok bool, err error)
	Set(key string, raw []byte) error
}

// DefaultSessionTTLDays is how long session-persisted values survive.
const DefaultSessionTTLDays = 365
