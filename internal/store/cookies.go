package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// CookieJar persists cookies in the cookies table. It implements cookie.Jar.
type CookieJar struct {
	store *Store
}

// Cookies returns the store's cookie jar.
func (s *Store) Cookies() *CookieJar {
	return &CookieJar{store: s}
}

// Cookie returns the named cookie. Expired rows read as absent.
// Read failures are logged and reported as absent.
func (j *CookieJar) Cookie(name string) (*http.Cookie, bool) {
	c, err := j.Load(context.Background(), name)
	if err != nil {
		slog.Warn("cookie read failed", "cookie", name, "error", err)
		return nil, false
	}
	return c, c != nil
}

// SetCookie stores c. A negative MaxAge or an expiry in the past deletes
// the cookie.
func (j *CookieJar) SetCookie(c *http.Cookie) error {
	return j.Save(context.Background(), c)
}

// Load reads the named cookie, or nil when missing or expired.
func (j *CookieJar) Load(ctx context.Context, name string) (*http.Cookie, error) {
	var (
		c        http.Cookie
		expires  int64
		secure   int
		sameSite string
	)
	err := j.store.db.QueryRowContext(ctx, `
		SELECT name, value, path, expires_at, secure, same_site
		FROM cookies WHERE name = ?
	`, name).Scan(&c.Name, &c.Value, &c.Path, &expires, &secure, &sameSite)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cookie %q: %w", name, err)
	}

	if expires != 0 {
		c.Expires = time.Unix(expires, 0).UTC()
		if !c.Expires.After(j.store.clock.Now()) {
			return nil, nil
		}
	}
	c.Secure = secure != 0
	c.SameSite = parseSameSite(sameSite)
	return &c, nil
}

// Save upserts c.
func (j *CookieJar) Save(ctx context.Context, c *http.Cookie) error {
	now := j.store.clock.Now()
	if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now)) {
		if _, err := j.store.db.ExecContext(ctx, `DELETE FROM cookies WHERE name = ?`, c.Name); err != nil {
			return fmt.Errorf("delete cookie %q: %w", c.Name, err)
		}
		return nil
	}

	var expires int64
	switch {
	case c.MaxAge > 0:
		expires = now.Add(time.Duration(c.MaxAge) * time.Second).Unix()
	case !c.Expires.IsZero():
		expires = c.Expires.Unix()
	}

	path := c.Path
	if path == "" {
		path = "/"
	}
	secure := 0
	if c.Secure {
		secure = 1
	}

	_, err := j.store.db.ExecContext(ctx, `
		INSERT INTO cookies (name, value, path, expires_at, secure, same_site)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			path = excluded.path,
			expires_at = excluded.expires_at,
			secure = excluded.secure,
			same_site = excluded.same_site
	`, c.Name, c.Value, path, expires, secure, formatSameSite(c.SameSite))
	if err != nil {
		return fmt.Errorf("save cookie %q: %w", c.Name, err)
	}
	return nil
}

// PurgeExpired deletes expired cookies and returns how many were removed.
func (j *CookieJar) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := j.store.db.ExecContext(ctx, `
		DELETE FROM cookies WHERE expires_at != 0 AND expires_at <= ?
	`, j.store.clock.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge cookies: %w", err)
	}
	return res.RowsAffected()
}

func parseSameSite(s string) http.SameSite {
	switch s {
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	case "Lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteDefaultMode
	}
}

func formatSameSite(s http.SameSite) string {
	switch s {
	case http.SameSiteStrictMode:
		return "Strict"
	case http.SameSiteNoneMode:
		return "None"
	case http.SameSiteLaxMode:
		return "Lax"
	default:
		return ""
	}
}
