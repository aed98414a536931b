package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/haylium/moodlist/internal/formatter"
	"github.com/haylium/moodlist/internal/models"
	"github.com/haylium/moodlist/internal/shared"
	"github.com/haylium/moodlist/internal/tasks"
)

// Generate runs the generation pipeline and prints or saves the result.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	prompt := cmd.StringArg("prompt")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	savePath := cmd.String("save")
	describe := cmd.Bool("describe")

	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("%w: a mood prompt is required", shared.ErrMissingArgument)
	}

	if r.gemini == nil {
		return fmt.Errorf("%w: generator not configured, set gemini api_key in config.toml", shared.ErrServiceUnavailable)
	}

	r.logger.Info("generating playlist", "prompt", prompt)

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

	if err != nil {
		return err
	}

	var blurbs []models.SongBlurb
	if describe {
		r.writePlain("✨ Describing songs...\n")
		if blurbs, err = r.engine.Describe(ctx, gen.Mood, gen.Candidates, nil); err != nil {
			r.logger.Warn("failed to describe songs", "error", err)
		}
	}

	if savePath != "" {
		if err := r.saveGeneration(gen, blurbs, savePath); err != nil {
			return err
		}
		r.writePlain("✓ Generation saved to %s\n", savePath)
	}

	if useJSON {
		if describe {
			return r.writeJSON(struct {
				*models.Generation
				Blurbs []models.SongBlurb `json:"blurbs,omitempty"`
			}{gen, blurbs}, pretty)
		}
		return r.writeJSON(gen, pretty)
	}

	r.writePlainHeader(gen.Title)
	r.writePlain("Mood: %s\n", gen.Mood)
	if gen.Description != "" {
		r.writePlain("Description: %s\n", gen.Description)
	}
	r.writePlain("\nSongs:\n")

	blurbFor := make(map[string]string, len(blurbs))
	for _, blurb := range blurbs {
		blurbFor[blurb.Song] = blurb.Blurb
	}

	for i, song := range gen.Candidates {
		r.writePlain("%d. %s\n", i+1, song)
		if blurb := blurbFor[song]; blurb != "" {
			r.writePlain("   %s\n", blurb)
		}
	}

	r.writePlain("\nNext: moodlist create --from <saved.json> --all, or moodlist tui\n")
	return nil
}

// saveGeneration writes a generation to disk, picking the format from the file extension.
func (r *Runner) saveGeneration(gen *models.Generation, blurbs []models.SongBlurb, path string) error {
	switch {
	case strings.HasSuffix(path, ".md"):
		_, err := formatter.WriteMarkdownExport(gen, blurbs, path)
		return err
	case strings.HasSuffix(path, ".txt"):
		_, err := formatter.WriteTextExport(gen, path)
		return err
	default:
		data, err := shared.MarshalJSON(gen, true)
		if err != nil {
			return fmt.Errorf("failed to marshal generation: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return nil
	}
}
