// Package store provides SQLite-backed persistence for reactive properties.
//
// Two tables live in one database:
//   - kv: durable key/value pairs backing DurablyPersisted properties
//   - cookies: a persistent cookie jar backing the session cookie
//
// Values in kv are raw JSON documents written by the reactive layer; the
// store never interprets them. Cookie rows carry an absolute expiry and
// read as absent once it has passed.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Schema changes are tracked with PRAGMA user_version.
package store
