package cookie

import (
	"encoding/json"
	"maps"
	"sync"
)

// object is one decoded cookie: property key to raw JSON value.
type object map[string]json.RawMessage

// Cache holds decoded cookie objects keyed by cookie name.
type Cache struct {
	mu      sync.Mutex
	entries map[string]object
}

// DefaultCache is shared by stores created without WithCache.
var DefaultCache = NewCache()

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]object)}
}

// load returns a copy of the cached object for name, decoding it with decode
// on first use. A decode failure caches an empty object and returns the error
// once.
func (c *Cache) load(name string, decode func() (object, error)) (object, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if obj, ok := c.entries[name]; ok {
		return maps.Clone(obj), nil
	}
	obj, err := decode()
	if err != nil || obj == nil {
		obj = make(object)
	}
	c.entries[name] = obj
	return maps.Clone(obj), err
}

// update applies fn to the cached object for name under the cache lock and
// returns a copy of the result.
func (c *Cache) update(name string, fn func(object)) object {
	c.mu.Lock()
	defer c.mu.Unlock()

	obj, ok := c.entries[name]
	if !ok {
		obj = make(object)
		c.entries[name] = obj
	}
	fn(obj)
	return maps.Clone(obj)
}

// Invalidate drops the cached object for name so the next read decodes the
// cookie again.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

// Reset drops every cached object.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
