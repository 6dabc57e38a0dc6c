package cookie

import (
	"net/http"
	"sync"
)

// Jar reads and writes cookies by name.
type Jar interface {
	Cookie(name string) (*http.Cookie, bool)
	SetCookie(c *http.Cookie) error
}

// MemoryJar keeps cookies in memory. The zero value is ready to use.
type MemoryJar struct {
	mu      sync.Mutex
	cookies map[string]*http.Cookie
}

// NewMemoryJar creates a jar holding cookies.
func NewMemoryJar(cookies ...*http.Cookie) *MemoryJar {
	j := &MemoryJar{}
	for _, c := range cookies {
		_ = j.SetCookie(c)
	}
	return j
}

// Cookie returns a copy of the named cookie.
func (j *MemoryJar) Cookie(name string) (*http.Cookie, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	c, ok := j.cookies[name]
	if !ok {
		return nil, false
	}
	cp := *c
	return &cp, true
}

// SetCookie stores a copy of c. A negative MaxAge deletes it.
func (j *MemoryJar) SetCookie(c *http.Cookie) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cookies == nil {
		j.cookies = make(map[string]*http.Cookie)
	}
	if c.MaxAge < 0 {
		delete(j.cookies, c.Name)
		return nil
	}
	cp := *c
	j.cookies[c.Name] = &cp
	return nil
}

// HTTPJar reads cookies from a request and writes Set-Cookie headers to a
// response. Cookies set through it are visible to later reads.
type HTTPJar struct {
	req *http.Request
	w   http.ResponseWriter

	mu  sync.Mutex
	set map[string]*http.Cookie
}

// NewHTTPJar creates a jar for one request/response pair.
func NewHTTPJar(w http.ResponseWriter, req *http.Request) *HTTPJar {
	return &HTTPJar{req: req, w: w, set: make(map[string]*http.Cookie)}
}

// Cookie returns the cookie set during this request, or the request's cookie.
func (j *HTTPJar) Cookie(name string) (*http.Cookie, bool) {
	j.mu.Lock()
	c, ok := j.set[name]
	j.mu.Unlock()
	if ok {
		return c, true
	}

	c, err := j.req.Cookie(name)
	if err != nil {
		return nil, false
	}
	return c, true
}

// SetCookie adds a Set-Cookie header.
func (j *HTTPJar) SetCookie(c *http.Cookie) error {
	if err := c.Valid(); err != nil {
		return err
	}
	http.SetCookie(j.w, c)

	j.mu.Lock()
	j.set[c.Name] = c
	j.mu.Unlock()
	return nil
}
