// Package reactive implements observable objects with typed, declared
// properties and coalesced change notification.
//
// ARCHITECTURE:
//
// A Reactive owns three pieces of state, all guarded by one mutex:
//   - the property table (name → descriptor), filled by Declare and never
//     replaced wholesale
//   - the subscriber table (event name → ordered subscription records)
//   - the "flush scheduled" flag
//
// Property kinds:
//   - Volatile: read-only. Either a static value or an accessor evaluated on
//     every read. Never overwritten by Update.
//   - Mutable: written through Update, not persisted.
//   - SessionPersisted: written through Update, mirrored to a SessionStore
//     (cookie-like, bounded lifetime).
//   - DurablyPersisted: written through Update, mirrored to a DurableStore.
//
// Persistence is a mirror, never the source of truth for reads: a declared
// persisted property reads its stored value once at declaration time and from
// then on reads return the live in-memory value.
//
// Update Flow:
//  1. Update(partial) stages values synchronously. The first time a property
//     is touched in a batch its previous value is snapshotted.
//  2. If no flush is scheduled, one is handed to the Scheduler. Further
//     Update calls before it runs join the same batch.
//  3. The flush clears every snapshot, diffs by identity (value.Same),
//     persists changed persisted properties, and only then emits a single
//     "update" event with (self, changed map).
//
// The changed map flags each name with true for writable properties and false
// for Volatile ones. Volatile properties named in Update always appear (with
// false): consumers use this to ask subscribers to re-read computed values.
//
// Emission snapshots the subscriber list first. A handler added during an
// emission runs from the next emission on; a handler removed during an
// emission still receives the current one.
//
// Errors:
//   - INVALID_DECLARATION and UNKNOWN_PROPERTY_KIND are returned from Declare.
//   - UNKNOWN_PROPERTY is returned from Read.
//   - Decode and store failures are logged and reported through capitan
//     signals, never returned: the property falls back to its default.
//   - Unknown names passed to Update are ignored.
package reactive
