package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/haylium/moodlist/internal/repositories"
	"github.com/haylium/moodlist/internal/services"
	"github.com/haylium/moodlist/internal/shared"
	"github.com/haylium/moodlist/internal/tasks"
)

func main() {
	logger := shared.NewLogger(nil)
	if os.Getenv("MOODLIST_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotifyService services.MusicService
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			if token := config.Credentials.Spotify.Token(); token != nil {
				if err := svc.OAuthenticate(context.Background(), token); err != nil {
					logger.Warn("failed to restore spotify session", "error", err)
				}
			}
			spotifyService = svc
		}
	}

	var geminiService services.Generator
	if config.Credentials.Gemini.APIKey != "" {
		if svc, err := services.NewGeminiService(services.GeminiOpts{
			APIKey:    config.Credentials.Gemini.APIKey,
			Model:     config.Credentials.Gemini.Model,
			SongCount: config.Generation.SongCount,
		}); err == nil {
			geminiService = svc
		}
	}

	var cache tasks.TrackCacher
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			cache = repositories.NewTrackCacheRepository(db)
		} else {
			logger.Warn("failed to open track cache", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Gemini:  geminiService,
		Spotify: spotifyService,
		Cache:   cache,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "moodlist",
		Usage:    "Turn a mood into a Spotify playlist",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
