package cookie

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/khalidelboray/convos/internal/value"
)

// DefaultName is the cookie holding every session property.
const DefaultName = "convos_js"

// DefaultTTLDays is the cookie lifetime used when Set is given a
// non-positive one.
const DefaultTTLDays = 365

// Store keeps session properties in one base64(JSON) cookie. It implements
// reactive.SessionStore.
type Store struct {
	jar    Jar
	name   string
	cache  *Cache
	secure bool
	clock  clockz.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithName sets the cookie name. Default: DefaultName.
func WithName(name string) Option {
	return func(s *Store) {
		s.name = name
	}
}

// WithCache sets the decode cache. Default: DefaultCache.
func WithCache(c *Cache) Option {
	return func(s *Store) {
		s.cache = c
	}
}

// WithSecure marks written cookies Secure, as when served over https.
func WithSecure(secure bool) Option {
	return func(s *Store) {
		s.secure = secure
	}
}

// WithClock sets the clock used to compute cookie expiry.
func WithClock(clock clockz.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// NewStore creates a session store writing through jar.
func NewStore(jar Jar, opts ...Option) *Store {
	s := &Store{
		jar:   jar,
		name:  DefaultName,
		cache: DefaultCache,
		clock: clockz.RealClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the cookie name.
func (s *Store) Name() string {
	return s.name
}

// Get returns the raw JSON stored under key. The first read of a corrupt
// cookie returns a *value.DecodeError; afterwards the cookie reads as empty.
func (s *Store) Get(key string) ([]byte, bool, error) {
	obj, err := s.cache.load(s.name, s.decode)
	if err != nil {
		return nil, false, err
	}
	raw, ok := obj[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(raw), true, nil
}

// Set stores raw under key and rewrites the whole cookie, expiring ttlDays
// from now.
func (s *Store) Set(key string, raw []byte, ttlDays int) error {
	if !json.Valid(raw) {
		return fmt.Errorf("set %q: value is not valid JSON", key)
	}
	// An expiry of now deletes the cookie.
	if ttlDays <= 0 {
		ttlDays = DefaultTTLDays
	}
	// A corrupt cookie was already reported by Get; it is replaced here.
	_, _ = s.cache.load(s.name, s.decode)

	obj := s.cache.update(s.name, func(o object) {
		o[key] = json.RawMessage(raw)
	})

	payload, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encode cookie %s: %w", s.name, err)
	}

	return s.jar.SetCookie(&http.Cookie{
		Name:     s.name,
		Value:    base64.StdEncoding.EncodeToString(payload),
		Path:     "/",
		Expires:  s.clock.Now().Add(time.Duration(ttlDays) * 24 * time.Hour),
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Keys returns the property keys held in the cookie, sorted.
func (s *Store) Keys() ([]string, error) {
	obj, err := s.cache.load(s.name, s.decode)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(obj)), nil
}

func (s *Store) decode() (object, error) {
	c, ok := s.jar.Cookie(s.name)
	if !ok || c.Value == "" {
		return object{}, nil
	}

	data, err := base64.StdEncoding.DecodeString(c.Value)
	if err != nil {
		return nil, &value.DecodeError{Key: s.name, Err: fmt.Errorf("base64: %w", err)}
	}
	var obj object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, &value.DecodeError{Key: s.name, Err: err}
	}
	if obj == nil {
		obj = object{}
	}
	return obj, nil
}
