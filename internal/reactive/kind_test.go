package reactive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"volatile", Volatile},
		{"ro", Volatile},
		{"mutable", Mutable},
		{"rw", Mutable},
		{"session", SessionPersisted},
		{"cookie", SessionPersisted},
		{"durable", DurablyPersisted},
		{"persist", DurablyPersisted},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := ParseKind("sticky")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPropertyKind))
	assert.Equal(t, `UNKNOWN_PROPERTY_KIND: unknown property kind "sticky"`, err.Error())
}

func TestKind_Classification(t *testing.T) {
	assert.False(t, Volatile.Updateable())
	assert.True(t, Mutable.Updateable())
	assert.True(t, SessionPersisted.Updateable())
	assert.True(t, DurablyPersisted.Updateable())

	assert.False(t, Volatile.Persisted())
	assert.False(t, Mutable.Persisted())
	assert.True(t, SessionPersisted.Persisted())
	assert.True(t, DurablyPersisted.Persisted())

	assert.Equal(t, "session", SessionPersisted.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestError_Wrapping(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Code: ErrCodeDecode, Message: "bad payload", Property: "theme", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsCode(err, ErrCodeDecode))
	assert.False(t, IsCode(err, ErrCodeUnknownProperty))
	assert.False(t, errors.Is(err, ErrUnknownProperty))
	assert.Equal(t, "DECODE_ERROR: bad payload: boom", err.Error())
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Equal(t, "b", g.Generate())
}

func TestUUIDv7Generator(t *testing.T) {
	id := UUIDv7Generator{}.Generate()
	assert.Len(t, id, 36)
	assert.Equal(t, byte('7'), id[14])
}
