package testutil

import (
	"maps"
	"slices"
	"sync"
)

// Write records one call to a store's Set.
type Write struct {
	Key     string
	Raw     string
	TTLDays int
}

// MemoryDurable is an in-memory durable store that records every write.
//
// Thread-safety: All methods are safe for concurrent use.
type MemoryDurable struct {
	mu     sync.Mutex
	data   map[string][]byte
	writes []Write

	// GetErr and SetErr, when set, are returned by Get and Set.
	GetErr error
	SetErr error
}

// NewMemoryDurable creates a durable store seeded with raw JSON values.
func NewMemoryDurable(seed map[string]string) *MemoryDurable {
	m := &MemoryDurable{data: make(map[string][]byte)}
	for k, v := range seed {
		m.data[k] = []byte(v)
	}
	return m
}

// Get returns the raw value stored under key.
func (m *MemoryDurable) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	raw, ok := m.data[key]
	return slices.Clone(raw), ok, nil
}

// Set stores raw under key and records the write.
func (m *MemoryDurable) Set(key string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = slices.Clone(raw)
	m.writes = append(m.writes, Write{Key: key, Raw: string(raw)})
	return nil
}

// Writes returns the recorded writes in order.
func (m *MemoryDurable) Writes() []Write {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.writes)
}

// Data returns the stored values as strings.
func (m *MemoryDurable) Data() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return stringify(m.data)
}

// MemorySession is an in-memory session store that records every write,
// including the requested lifetime.
type MemorySession struct {
	mu     sync.Mutex
	data   map[string][]byte
	writes []Write

	GetErr error
	SetErr error
}

// NewMemorySession creates a session store seeded with raw JSON values.
func NewMemorySession(seed map[string]string) *MemorySession {
	m := &MemorySession{data: make(map[string][]byte)}
	for k, v := range seed {
		m.data[k] = []byte(v)
	}
	return m
}

// Get returns the raw value stored under key.
func (m *MemorySession) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	raw, ok := m.data[key]
	return slices.Clone(raw), ok, nil
}

// Set stores raw under key and records the write.
func (m *MemorySession) Set(key string, raw []byte, ttlDays int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = slices.Clone(raw)
	m.writes = append(m.writes, Write{Key: key, Raw: string(raw), TTLDays: ttlDays})
	return nil
}

// Writes returns the recorded writes in order.
func (m *MemorySession) Writes() []Write {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.writes)
}

// Data returns the stored values as strings.
func (m *MemorySession) Data() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return stringify(m.data)
}

func stringify(data map[string][]byte) map[string]string {
	out := make(map[string]string, len(data))
	for _, k := range slices.Sorted(maps.Keys(data)) {
		out[k] = string(data[k])
	}
	return out
}
