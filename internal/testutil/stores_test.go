package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDurable_SeedAndWrites(t *testing.T) {
	m := NewMemoryDurable(map[string]string{"convos:theme": `"dark"`})

	raw, ok, err := m.Get("convos:theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"dark"`, string(raw))

	_, ok, err = m.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set("convos:theme", []byte(`"light"`)))
	assert.Equal(t, []Write{{Key: "convos:theme", Raw: `"light"`}}, m.Writes())
	assert.Equal(t, map[string]string{"convos:theme": `"light"`}, m.Data())
}

func TestMemoryDurable_InjectedErrors(t *testing.T) {
	m := NewMemoryDurable(nil)
	m.SetErr = errors.New("disk full")

	err := m.Set("k", []byte("1"))
	assert.EqualError(t, err, "disk full")
	assert.Empty(t, m.Writes())
}

func TestMemorySession_RecordsTTL(t *testing.T) {
	m := NewMemorySession(nil)

	require.NoError(t, m.Set("colorScheme", []byte(`"auto"`), 365))
	assert.Equal(t, []Write{{Key: "colorScheme", Raw: `"auto"`, TTLDays: 365}}, m.Writes())
}

func TestManualScheduler_RunPending(t *testing.T) {
	s := NewManualScheduler()
	var ran []int

	s.Schedule(func() {
		ran = append(ran, 1)
		s.Schedule(func() { ran = append(ran, 2) })
	})
	assert.Equal(t, 1, s.Pending())

	assert.Equal(t, 1, s.RunPending())
	assert.Equal(t, []int{1}, ran)
	assert.Equal(t, 1, s.Pending())

	assert.Equal(t, 1, s.RunPending())
	assert.Equal(t, []int{1, 2}, ran)
	assert.Equal(t, 2, s.Calls())
}
