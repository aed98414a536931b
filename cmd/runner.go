package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/haylium/moodlist/internal/services"
	"github.com/haylium/moodlist/internal/shared"
	"github.com/haylium/moodlist/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	gemini  services.Generator
	spotify services.MusicService
	cache   tasks.TrackCacher
	logger  *log.Logger
	output  io.Writer
	engine  tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Gemini  services.Generator
	Spotify services.MusicService
	Cache   tasks.TrackCacher
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	engine := tasks.NewPlaylistEngine(tasks.EngineOpts{
		Generator:  opts.Gemini,
		Music:      opts.Spotify,
		Cache:      opts.Cache,
		SearchRate: opts.Config.Generation.SearchRate,
		Timeout:    opts.Config.Generation.Timeout(),
		Logger:     opts.Logger,
	})

	return &Runner{
		config:  opts.Config,
		gemini:  opts.Gemini,
		spotify: opts.Spotify,
		cache:   opts.Cache,
		logger:  opts.Logger,
		output:  opts.Output,
		engine:  engine,
	}
}

// SetLogger swaps the runner and engine logger, used when the TUI takes over the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if engine, ok := r.engine.(*tasks.PlaylistEngine); ok && engine != nil {
		r.engine = tasks.NewPlaylistEngine(tasks.EngineOpts{
			Generator:  r.gemini,
			Music:      r.spotify,
			Cache:      r.cache,
			SearchRate: r.config.Generation.SearchRate,
			Timeout:    r.config.Generation.Timeout(),
			Logger:     logger,
		})
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, generateCommand, createCommand, spotifyCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
