// Package services implements clients for the two external collaborators in
// the mood-to-playlist pipeline.
//
// # Generator
//
// [GeminiService] talks to the Google Generative Language REST API. All
// structure in the exchange is encoded as natural-language instruction and
// decoded by [DecodeSongList], a strict parser with exactly one sanitation
// pass (code-fence stripping). Anything else is surfaced as
// [shared.ErrInvalidFormat], distinct from transport failures
// ([shared.ErrGeneration]) and deadline expiry ([shared.ErrTimeout]).
//
// # Music Service
//
// [SpotifyService] wraps the Spotify Web API with [oauth2] for the
// authorization-code flow. Tokens carry an expiry; requests check it and run
// the refresh grant automatically when a refresh token is available.
// Track search is best-effort (limit 1, take first); a miss is reported as
// [shared.ErrTrackNotFound] so callers can treat it as soft.
//
// Both clients are explicit values constructed once and passed to every
// operation; nothing in this package holds global state.
package services
