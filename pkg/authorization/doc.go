// Package authorization provides persisted authorization grants for simple-oauth2.
//
// An authorization records that a subject granted a client a scope set,
// allowing silent reauthorization of future token requests carrying the same
// scopes. Records are created lazily on the first successful
// client-credentials exchange for a key and never mutated afterwards.
//
// # Overview
//
// The authorization package provides:
//   - Authorization type with status and type constants
//   - Repository pattern with in-memory and PostgreSQL implementations
//   - AuthorizationService with idempotently convergent EnsureAuthorization
//
// # Concurrency
//
// At most one valid permanent authorization exists per
// (subject, client, scope-set) key. The in-memory repository serializes
// creates under a mutex; the PostgreSQL repository enforces a partial unique
// index and resolves insert conflicts by re-querying the winner. See
// migrations/authorizations.sql for the schema.
package authorization
