package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/haylium/moodlist/internal/models"
)

// TrackCacheRepository persists resolved search queries in SQLite.
type TrackCacheRepository struct {
	db *sql.DB
}

// NewTrackCacheRepository creates a repository over an open database.
func NewTrackCacheRepository(db *sql.DB) *TrackCacheRepository {
	return &TrackCacheRepository{db: db}
}

// NormalizeQuery canonicalizes a search query for use as a cache key.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// normalizeService lowercases service names so "Spotify" and "spotify" share entries.
func normalizeService(service string) string {
	return strings.ToLower(strings.TrimSpace(service))
}

// Lookup retrieves a cached resolution for the given service and query.
//
// A cache miss is not an error: ok is false and err is nil.
func (r *TrackCacheRepository) Lookup(service, query string) (*models.Track, bool, error) {
	row := r.db.QueryRow(
		`SELECT track_id, title, artist, uri FROM track_cache WHERE service = ? AND query = ?`,
		normalizeService(service), NormalizeQuery(query),
	)

	var track models.Track
	var artist sql.NullString
	if err := row.Scan(&track.ID, &track.Title, &artist, &track.URI); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query track cache: %w", err)
	}

	track.Artist = artist.String
	return &track, true, nil
}

// Store caches a resolved track for the given service and query.
// Returns nil if the query is already cached (deduplication).
func (r *TrackCacheRepository) Store(service, query string, track models.Track) error {
	_, err := r.db.Exec(
		`INSERT INTO track_cache (service, query, track_id, title, artist, uri) VALUES (?, ?, ?, ?, ?, ?)`,
		normalizeService(service), NormalizeQuery(query), track.ID, track.Title, track.Artist, track.URI,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}

// Count returns the number of cached resolutions for a service.
// An empty service counts all entries.
func (r *TrackCacheRepository) Count(service string) (int, error) {
	var count int
	var err error

	if service == "" {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM track_cache`).Scan(&count)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM track_cache WHERE service = ?`, normalizeService(service)).Scan(&count)
	}

	if err != nil {
		return 0, fmt.Errorf("failed to count track cache: %w", err)
	}

	return count, nil
}

// Clear removes cached resolutions for a service, or all entries when service is empty.
func (r *TrackCacheRepository) Clear(service string) error {
	var err error
	if service == "" {
		_, err = r.db.Exec(`DELETE FROM track_cache`)
	} else {
		_, err = r.db.Exec(`DELETE FROM track_cache WHERE service = ?`, normalizeService(service))
	}

	if err != nil {
		return fmt.Errorf("failed to clear track cache: %w", err)
	}

	return nil
}
