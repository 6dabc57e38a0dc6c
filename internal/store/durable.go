package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// DefaultNamespace prefixes every durable key written by the application.
const DefaultNamespace = "convos:"

// Durable is a namespaced view of the kv table. It implements
// reactive.DurableStore.
type Durable struct {
	store     *Store
	namespace string
}

// Durable returns the kv view for namespace.
func (s *Store) Durable(namespace string) *Durable {
	return &Durable{store: s, namespace: namespace}
}

// Get returns the raw JSON stored under key.
func (d *Durable) Get(key string) ([]byte, bool, error) {
	return d.Load(context.Background(), key)
}

// Set stores raw JSON under key.
func (d *Durable) Set(key string, raw []byte) error {
	return d.Save(context.Background(), key, raw)
}

// Load reads key. A missing row reports ok == false.
func (d *Durable) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := d.store.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`,
		d.namespace+key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// Save upserts key.
func (d *Durable) Save(ctx context.Context, key string, raw []byte) error {
	_, err := d.store.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`,
		d.namespace+key,
		string(raw),
		d.store.clock.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (d *Durable) Delete(ctx context.Context, key string) error {
	if _, err := d.store.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, d.namespace+key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Keys lists the keys in this namespace, without the prefix, in binary order.
func (d *Durable) Keys(ctx context.Context) ([]string, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT key FROM kv
		WHERE substr(key, 1, ?) = ?
		ORDER BY key ASC COLLATE BINARY
	`, len(d.namespace), d.namespace)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, strings.TrimPrefix(key, d.namespace))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}
