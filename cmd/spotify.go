package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/haylium/moodlist/internal/shared"
)

// SpotifySearch searches Spotify for a single best-match track.
func (r *Runner) SpotifySearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: a search query is required", shared.ErrMissingArgument)
	}

	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("searching spotify for %q", query)

	track, err := r.spotify.SearchTrack(ctx, query)
	if err != nil {
		if reauthed, authErr := r.handleSpotifyAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return authErr
			}
			if track, err = r.spotify.SearchTrack(ctx, query); err != nil {
				return err
			}
		} else {
			return err
		}
	}

	r.persistRefreshedToken(configPathFrom(cmd))

	if useJSON {
		return r.writeJSON(track, pretty)
	}

	r.writePlain("✓ Best match for %q:\n", query)
	r.writePlain("  Title: %s\n", track.Title)
	r.writePlain("  Artist: %s\n", track.Artist)
	r.writePlain("  URI: %s\n", track.URI)

	return nil
}

// SpotifyCreate creates an empty playlist.
func (r *Runner) SpotifyCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	description := cmd.String("description")
	private := cmd.Bool("private")

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: a playlist name is required", shared.ErrMissingArgument)
	}

	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("creating spotify playlist %q", name)

	playlist, err := r.spotify.CreatePlaylist(ctx, name, description, !private)
	if err != nil {
		if reauthed, authErr := r.handleSpotifyAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return authErr
			}
			if playlist, err = r.spotify.CreatePlaylist(ctx, name, description, !private); err != nil {
				return err
			}
		} else {
			return err
		}
	}

	r.persistRefreshedToken(configPathFrom(cmd))

	r.writePlain("✓ Playlist created\n")
	r.writePlain("  ID: %s\n", playlist.ID)
	r.writePlain("  URL: %s\n", playlist.URL)

	return nil
}

// SpotifyAdd searches for a track and adds it to an existing playlist.
func (r *Runner) SpotifyAdd(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist-id")
	trackQuery := cmd.String("track")

	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	track, err := r.spotify.SearchTrack(ctx, trackQuery)
	if err != nil {
		if reauthed, authErr := r.handleSpotifyAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return authErr
			}
			if track, err = r.spotify.SearchTrack(ctx, trackQuery); err != nil {
				return err
			}
		} else {
			return err
		}
	}

	if err := r.spotify.AddTracks(ctx, playlistID, []string{track.URI}); err != nil {
		return err
	}

	r.persistRefreshedToken(configPathFrom(cmd))

	r.writePlain("✓ Added %s - %s to playlist %s\n", track.Title, track.Artist, playlistID)
	return nil
}
