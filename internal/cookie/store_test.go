package cookie

import (
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"

	"github.com/khalidelboray/convos/internal/value"
)

func encodeCookie(json string) string {
	return base64.StdEncoding.EncodeToString([]byte(json))
}

func newTestStore(jar Jar, opts ...Option) *Store {
	return NewStore(jar, append([]Option{WithCache(NewCache())}, opts...)...)
}

func TestStore_GetFromCookie(t *testing.T) {
	jar := NewMemoryJar(&http.Cookie{Name: DefaultName, Value: encodeCookie(`{"theme":"dark","colorScheme":"auto"}`)})
	s := newTestStore(jar)

	raw, ok, err := s.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"dark"`, string(raw))

	_, ok, err = s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"colorScheme", "theme"}, keys)
}

func TestStore_NoCookie(t *testing.T) {
	s := newTestStore(NewMemoryJar())

	_, ok, err := s.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SetWritesWholeObject(t *testing.T) {
	clock := clockz.NewFakeClock()
	jar := NewMemoryJar(&http.Cookie{Name: DefaultName, Value: encodeCookie(`{"theme":"dark"}`)})
	s := newTestStore(jar, WithClock(clock), WithSecure(true))

	require.NoError(t, s.Set("colorScheme", []byte(`"light"`), 365))

	c, ok := jar.Cookie(DefaultName)
	require.True(t, ok)
	payload, err := base64.StdEncoding.DecodeString(c.Value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark","colorScheme":"light"}`, string(payload))
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.True(t, clock.Now().Add(365*24*time.Hour).Equal(c.Expires))
}

func TestStore_NonPositiveTTLKeepsCookie(t *testing.T) {
	tests := []struct {
		name    string
		ttlDays int
	}{
		{"zero", 0},
		{"negative", -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := clockz.NewFakeClock()
			jar := NewMemoryJar()
			s := newTestStore(jar, WithClock(clock))

			require.NoError(t, s.Set("theme", []byte(`"dark"`), tt.ttlDays))

			c, ok := jar.Cookie(DefaultName)
			require.True(t, ok)
			assert.True(t, clock.Now().Add(DefaultTTLDays*24*time.Hour).Equal(c.Expires))

			raw, ok, err := s.Get("theme")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `"dark"`, string(raw))
		})
	}
}

func TestStore_CorruptCookie(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not base64", value: "%%%"},
		{name: "not json", value: encodeCookie(`{theme`)},
		{name: "not an object", value: encodeCookie(`["a"]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jar := NewMemoryJar(&http.Cookie{Name: DefaultName, Value: tt.value})
			s := newTestStore(jar)

			_, ok, err := s.Get("theme")
			require.Error(t, err)
			assert.False(t, ok)
			assert.True(t, value.IsDecodeError(err))

			// Reported once, then the cookie reads as empty.
			_, ok, err = s.Get("theme")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set("theme", []byte(`"convos"`), 1))
			c, _ := jar.Cookie(DefaultName)
			assert.Equal(t, encodeCookie(`{"theme":"convos"}`), c.Value)
		})
	}
}

func TestStore_SetRejectsInvalidJSON(t *testing.T) {
	s := newTestStore(NewMemoryJar())
	assert.Error(t, s.Set("theme", []byte(`{`), 1))
}

func TestStore_CacheSharedByName(t *testing.T) {
	cache := NewCache()
	jar := NewMemoryJar(&http.Cookie{Name: DefaultName, Value: encodeCookie(`{"theme":"dark"}`)})
	a := NewStore(jar, WithCache(cache))
	b := NewStore(NewMemoryJar(), WithCache(cache))

	_, _, err := a.Get("theme")
	require.NoError(t, err)

	// b never touches its own jar; the decoded object is shared.
	raw, ok, err := b.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"dark"`, string(raw))

	cache.Invalidate(DefaultName)
	_, ok, err = b.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CustomName(t *testing.T) {
	jar := NewMemoryJar()
	s := newTestStore(jar, WithName("other"))

	require.NoError(t, s.Set("k", []byte(`1`), 1))
	_, ok := jar.Cookie("other")
	assert.True(t, ok)
	assert.Equal(t, "other", s.Name())
}

func TestCache_Reset(t *testing.T) {
	cache := NewCache()
	jar := NewMemoryJar(&http.Cookie{Name: DefaultName, Value: encodeCookie(`{"a":1}`)})
	s := NewStore(jar, WithCache(cache))

	_, ok, _ := s.Get("a")
	require.True(t, ok)

	require.NoError(t, jar.SetCookie(&http.Cookie{Name: DefaultName, Value: encodeCookie(`{}`)}))
	_, ok, _ = s.Get("a")
	assert.True(t, ok, "cached object is still used")

	cache.Reset()
	_, ok, _ = s.Get("a")
	assert.False(t, ok)
}
