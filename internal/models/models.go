// package models defines the data model for the mood playlist generator
package models

import "time"

// Track represents a resolved music track.
type Track struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
	URI    string `json:"uri"`
}

// Playlist represents a playlist owned by the music service.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Public      bool   `json:"public"`
	URL         string `json:"url"`
}

// Generation holds the output of one full generation cycle.
//
// Candidates keep the order the backend produced them; a new cycle
// replaces the whole value, never merges with a previous one.
type Generation struct {
	Prompt      string   `json:"prompt"`
	Mood        string   `json:"mood"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Candidates  []string `json:"candidates"`
}

// SongBlurb is a short generated description of why a song fits a mood.
type SongBlurb struct {
	Song  string `json:"song"`
	Blurb string `json:"blurb"`
}

// CachedTrack is a persisted search-query-to-track resolution.
type CachedTrack struct {
	Service   string    `json:"service"`
	Query     string    `json:"query"`
	Track     Track     `json:"track"`
	CreatedAt time.Time `json:"created_at"`
}
