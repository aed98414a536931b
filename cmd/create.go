package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/haylium/moodlist/internal/formatter"
	"github.com/haylium/moodlist/internal/models"
	"github.com/haylium/moodlist/internal/shared"
	"github.com/haylium/moodlist/internal/tasks"
)

// Create runs the full pipeline: generate (or load) candidates, curate via
// flags and materialize the playlist on Spotify.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	prompt := cmd.StringArg("prompt")
	fromPath := cmd.String("from")
	pick := cmd.String("pick")
	all := cmd.Bool("all")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	exportBase := cmd.String("export")

	if pick == "" && !all {
		return fmt.Errorf("%w: pass --pick 1,3,5 to choose songs or --all to accept every candidate", shared.ErrMissingArgument)
	}

	gen, err := r.loadOrGenerate(ctx, prompt, fromPath)
	if err != nil {
		return err
	}

	selected := gen.Candidates
	if !all {
		if selected, err = pickSongs(gen.Candidates, pick); err != nil {
			return err
		}
	}

	r.writePlain("Creating playlist from %d accepted songs...\n\n", len(selected))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.PhaseExpandSongs:
				r.writePlain("✨ %s\n", update.Message)
			case tasks.PhaseResolveTracks:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.PhaseCreatePlaylist, tasks.PhaseAttachTracks:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Create(ctx, gen, selected, progressCh)
	close(progressCh)

	if err != nil {
		if reauthed, authErr := r.handleSpotifyAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return authErr
			}
			retryCh := make(chan tasks.ProgressUpdate, 50)
			go func() {
				for range retryCh {
				}
			}()
			result, err = r.engine.Create(ctx, gen, selected, retryCh)
			close(retryCh)
		}
	}

	if r.spotify != nil {
		r.persistRefreshedToken(configPathFrom(cmd))
	}

	if err != nil {
		// Partial success: the playlist exists but tracks could not be attached.
		if result != nil && result.Playlist != nil {
			r.writePlainln("⚠ Playlist created, but adding tracks failed: %v", err)
			r.writePlain("Playlist URL: %s\n", result.Playlist.URL)
			return nil
		}
		return err
	}

	if exportBase != "" {
		exported, exportErr := formatter.WriteCSVExport(result, exportBase)
		if exportErr != nil {
			r.logger.Warn("failed to export playlist", "error", exportErr)
		} else {
			r.writePlain("✓ Exported %s and %s\n", exported.TracksFile, exported.MetadataFile)
		}
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlain("\n")
	r.writePlainHeader("Playlist Created!")
	r.writePlain("Name: %s\n", result.Playlist.Name)
	r.writePlain("Tracks: %d of %d requested\n", len(result.Resolved), result.Requested)
	if result.CacheHits > 0 {
		r.writePlain("Cache hits: %d\n", result.CacheHits)
	}
	r.writePlain("URL: %s\n", result.Playlist.URL)

	if len(result.Dropped) > 0 {
		r.writePlain("\nNo match found for %d songs:\n", len(result.Dropped))
		for _, song := range result.Dropped {
			r.writePlain("  - %s\n", song)
		}
	}

	return nil
}

// loadOrGenerate reads a saved generation from disk or runs the pipeline on the prompt.
func (r *Runner) loadOrGenerate(ctx context.Context, prompt, fromPath string) (*models.Generation, error) {
	if fromPath != "" {
		data, err := os.ReadFile(fromPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read generation file: %w", err)
		}

		var gen models.Generation
		if err := json.Unmarshal(data, &gen); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidFormat, err)
		}

		if len(gen.Candidates) == 0 {
			return nil, fmt.Errorf("%w: saved generation has no songs", shared.ErrInvalidInput)
		}

		return &gen, nil
	}

	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: a mood prompt or --from file is required", shared.ErrMissingArgument)
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			if update.Err != nil || update.Completed {
				continue
			}
			r.writePlain("✨ %s\n", update.Message)
		}
	}()

	gen, err := r.engine.Generate(ctx, prompt, progressCh)
	close(progressCh)
	return gen, err
}

// pickSongs resolves a comma-separated list of 1-based indexes against the candidates.
func pickSongs(candidates []string, pick string) ([]string, error) {
	var selected []string
	seen := make(map[int]bool)

	for _, part := range strings.Split(pick, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", shared.ErrInvalidArgument, part)
		}

		if n < 1 || n > len(candidates) {
			return nil, fmt.Errorf("%w: song %d is out of range (1-%d)", shared.ErrInvalidArgument, n, len(candidates))
		}

		if seen[n] {
			continue
		}
		seen[n] = true
		selected = append(selected, candidates[n-1])
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: --pick selected nothing", shared.ErrEmptySelection)
	}

	return selected, nil
}
