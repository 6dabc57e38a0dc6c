// Package cookie implements the session store used by SessionPersisted
// properties: every property lives in one JSON object, base64 encoded into a
// single cookie.
//
// Decoded cookie objects are kept in an explicit Cache keyed by cookie name,
// so a cookie is parsed once per process no matter how many stores read it.
// DefaultCache is the process-wide cache; tests create their own with
// NewCache.
package cookie
