package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/haylium/moodlist/internal/repositories"
	"github.com/haylium/moodlist/internal/shared"
)

// cacheRepo returns the full repository behind the engine's cache interface.
func (r *Runner) cacheRepo() (*repositories.TrackCacheRepository, error) {
	if r.cache == nil {
		return nil, fmt.Errorf("%w: track cache not initialized, run 'moodlist setup database' first", shared.ErrServiceUnavailable)
	}

	repo, ok := r.cache.(*repositories.TrackCacheRepository)
	if !ok {
		return nil, fmt.Errorf("%w: track cache does not support management operations", shared.ErrServiceUnavailable)
	}

	return repo, nil
}

// CacheStats shows how many track resolutions are cached.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.cacheRepo()
	if err != nil {
		return err
	}

	total, err := repo.Count("")
	if err != nil {
		return fmt.Errorf("failed to count cached tracks: %w", err)
	}

	spotify, err := repo.Count("spotify")
	if err != nil {
		return fmt.Errorf("failed to count cached tracks: %w", err)
	}

	r.writePlainHeader("Track Cache")
	r.writePlain("Total entries: %d\n", total)
	r.writePlain("Spotify entries: %d\n", spotify)

	return nil
}

// CacheClear deletes cached track resolutions, optionally scoped to one service.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	service := cmd.String("service")

	repo, err := r.cacheRepo()
	if err != nil {
		return err
	}

	if err := repo.Clear(service); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	if service == "" {
		r.logger.Info("cleared track cache")
		return r.writePlain("✓ Track cache cleared\n")
	}

	r.logger.Info("cleared track cache", "service", service)
	return r.writePlain("✓ Track cache cleared for %s\n", service)
}
