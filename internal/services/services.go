// package services defines interfaces for the two external collaborators:
// the generative text backend and the music service.
package services

import (
	"context"

	"github.com/haylium/moodlist/internal/models"
	"golang.org/x/oauth2"
)

// Generator defines the contract with the generative text backend.
//
// Every method sends a single natural-language instruction and decodes the
// free-text reply. List-producing methods use a strict array-literal decoder;
// a reply that does not parse is a hard failure, never silently recovered.
type Generator interface {
	// InferMood derives a short categorical mood label from free text.
	// The label is lowercased and trimmed but not validated against a vocabulary.
	InferMood(ctx context.Context, text string) (string, error)

	// InferSongs requests an ordered candidate list of song titles matching the prompt and mood.
	InferSongs(ctx context.Context, prompt, mood string) ([]string, error)

	// ExpandSongs requests a superset of the liked songs plus similar tracks.
	ExpandSongs(ctx context.Context, liked []string) ([]string, error)

	// InferTitle generates a playlist title for the prompt.
	InferTitle(ctx context.Context, prompt string) (string, error)

	// InferDescription generates a playlist description for the prompt and title.
	InferDescription(ctx context.Context, prompt, title string) (string, error)

	// DescribeSong generates a short blurb on why a song fits a mood.
	DescribeSong(ctx context.Context, mood, song string) (string, error)

	// Name returns the name of the backend (e.g., "Gemini")
	Name() string
}

// MusicService defines the contract with the music catalog and playlist API.
type MusicService interface {
	// Authenticated reports whether a usable access token is held.
	// Callers check this before starting work so a missing token fails
	// fast instead of mid-pipeline.
	Authenticated() bool

	// UserID retrieves the authenticated user's identifier.
	UserID(ctx context.Context) (string, error)

	// SearchTrack resolves a free-text song title to a catalog track.
	// Best-effort: takes the first search result. Returns ErrTrackNotFound on a miss.
	SearchTrack(ctx context.Context, query string) (*models.Track, error)

	// CreatePlaylist creates an empty playlist owned by the authenticated user.
	CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error)

	// AddTracks attaches tracks to a playlist in a single batch call.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// OAuthService is implemented by music services that authenticate via the
// OAuth2 authorization-code flow.
type OAuthService interface {
	// GetAuthURL returns the authorization URL for the given per-session state value.
	GetAuthURL(state string) string

	// GetOAuthConfig returns the underlying OAuth2 config for callback handling.
	GetOAuthConfig() *oauth2.Config

	// OAuthenticate installs a previously obtained token.
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}
