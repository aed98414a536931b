// Package repositories provides database access for the track-resolution cache.
//
// Track resolution is a best-effort text search against the music catalog.
// Re-resolving the same title against an unchanged catalog yields the same
// track, so resolutions are cached in SQLite keyed by normalized query.
// Cache lookups short-circuit the search call entirely; misses fall through
// to the live API and are stored on success.
//
// Duplicate stores are silently ignored via the UNIQUE(service, query)
// constraint, matching the insert-or-skip semantics the cache needs.
package repositories
