package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/haylium/moodlist/internal/models"
	"github.com/haylium/moodlist/internal/services"
	"github.com/haylium/moodlist/internal/shared"
)

// TrackCacher stores and retrieves resolved tracks keyed by service and
// normalized query. Implemented by repositories.TrackCacheRepository.
type TrackCacher interface {
	Lookup(service, query string) (*models.Track, bool, error)
	Store(service, query string, track models.Track) error
}

// Engine drives the generation and creation pipelines.
type Engine interface {
	Generate(ctx context.Context, prompt string, progress chan<- ProgressUpdate) (*models.Generation, error)
	Create(ctx context.Context, gen *models.Generation, selected []string, progress chan<- ProgressUpdate) (*CreateResult, error)
	Describe(ctx context.Context, mood string, songs []string, progress chan<- ProgressUpdate) ([]models.SongBlurb, error)
}

// CreateResult summarizes a playlist creation run.
type CreateResult struct {
	Playlist  *models.Playlist `json:"playlist"`
	Resolved  []models.Track   `json:"resolved"`
	Dropped   []string         `json:"dropped,omitempty"`
	Requested int              `json:"requested"`
	CacheHits int              `json:"cache_hits"`
}

// PlaylistEngine implements Engine over a Generator and a MusicService.
type PlaylistEngine struct {
	generator services.Generator
	music     services.MusicService
	cache     TrackCacher
	limiter   *rate.Limiter
	logger    *log.Logger
	timeout   time.Duration
}

// EngineOpts configures NewPlaylistEngine. Cache is optional; when nil every
// track is resolved through the music service. SearchRate bounds outbound
// search and description calls per second (0 means unlimited).
type EngineOpts struct {
	Generator  services.Generator
	Music      services.MusicService
	Cache      TrackCacher
	SearchRate float64
	Timeout    time.Duration
	Logger     *log.Logger
}

// NewPlaylistEngine constructs the engine.
func NewPlaylistEngine(opts EngineOpts) *PlaylistEngine {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.SearchRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.SearchRate), 1)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	logger = shared.WithLogger(logger, "component", "engine")

	return &PlaylistEngine{
		generator: opts.Generator,
		music:     opts.Music,
		cache:     opts.Cache,
		limiter:   limiter,
		logger:    logger,
		timeout:   opts.Timeout,
	}
}

// sendProgress emits an update without blocking when nobody is listening.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}

	select {
	case progress <- update:
	default:
	}
}

// callCtx derives a per-request context honoring the configured timeout.
func (e *PlaylistEngine) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}

// Generate runs the four inference steps for a prompt. All steps must
// succeed; a partial generation is never returned.
func (e *PlaylistEngine) Generate(ctx context.Context, prompt string, progress chan<- ProgressUpdate) (*models.Generation, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt must not be empty", shared.ErrInvalidInput)
	}

	if e.generator == nil {
		return nil, fmt.Errorf("%w: no generator configured", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, NewProgressUpdate(PhaseInferMood, "Reading the mood"))
	callCtx, cancel := e.callCtx(ctx)
	mood, err := e.generator.InferMood(callCtx, prompt)
	cancel()
	if err != nil {
		e.sendProgress(progress, NewErrorUpdate(PhaseInferMood, err))
		return nil, err
	}

	e.logger.Debug("inferred mood", "mood", mood)

	e.sendProgress(progress, NewProgressUpdate(PhaseInferSongs, "Picking candidate songs"))
	callCtx, cancel = e.callCtx(ctx)
	songs, err := e.generator.InferSongs(callCtx, prompt, mood)
	cancel()
	if err != nil {
		e.sendProgress(progress, NewErrorUpdate(PhaseInferSongs, err))
		return nil, err
	}

	e.sendProgress(progress, NewProgressUpdate(PhaseInferTitle, "Naming the playlist"))
	callCtx, cancel = e.callCtx(ctx)
	title, err := e.generator.InferTitle(callCtx, prompt)
	cancel()
	if err != nil {
		e.sendProgress(progress, NewErrorUpdate(PhaseInferTitle, err))
		return nil, err
	}

	e.sendProgress(progress, NewProgressUpdate(PhaseInferDescription, "Writing a description"))
	callCtx, cancel = e.callCtx(ctx)
	description, err := e.generator.InferDescription(callCtx, prompt, title)
	cancel()
	if err != nil {
		e.sendProgress(progress, NewErrorUpdate(PhaseInferDescription, err))
		return nil, err
	}

	e.sendProgress(progress, NewCompletedUpdate(PhaseDone, "Generation complete"))

	return &models.Generation{
		Prompt:      prompt,
		Mood:        mood,
		Title:       title,
		Description: description,
		Candidates:  songs,
	}, nil
}

// Create expands the user's accepted songs, resolves them against the music
// service and materializes a playlist. The access token is checked before any
// network call. Unresolvable tracks are dropped with a warning; every other
// failure aborts and is reported as a playlist creation error. When the
// playlist exists but attaching tracks fails, the returned result still
// carries the playlist so the caller can surface its URL.
func (e *PlaylistEngine) Create(ctx context.Context, gen *models.Generation, selected []string, progress chan<- ProgressUpdate) (*CreateResult, error) {
	if e.music == nil {
		return nil, fmt.Errorf("%w: no music service configured", shared.ErrServiceUnavailable)
	}

	if !e.music.Authenticated() {
		return nil, fmt.Errorf("%w: run \"moodlist auth login\" first", shared.ErrMissingToken)
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: accept at least one song", shared.ErrEmptySelection)
	}

	if gen == nil {
		return nil, fmt.Errorf("%w: missing generation", shared.ErrInvalidInput)
	}

	e.sendProgress(progress, NewProgressUpdate(PhaseExpandSongs, "Expanding your picks"))
	callCtx, cancel := e.callCtx(ctx)
	expanded, err := e.expandSelection(callCtx, selected)
	cancel()
	if err != nil {
		e.sendProgress(progress, NewErrorUpdate(PhaseExpandSongs, err))
		return nil, fmt.Errorf("%w: %w", shared.ErrPlaylistCreation, err)
	}

	result := &CreateResult{Requested: len(expanded)}

	for i, title := range expanded {
		e.sendProgress(progress, NewCountedUpdate(PhaseResolveTracks, i+1, len(expanded), "Resolving tracks"))

		track, hit, err := e.resolveTrack(ctx, title)
		if err != nil {
			e.sendProgress(progress, NewErrorUpdate(PhaseResolveTracks, err))
			return nil, fmt.Errorf("%w: %w", shared.ErrPlaylistCreation, err)
		}

		if track == nil {
			e.logger.Warn("no match on music service, dropping", "song", title)
			result.Dropped = append(result.Dropped, title)
			continue
		}

		if hit {
			result.CacheHits++
		}

		result.Resolved = append(result.Resolved, *track)
	}

	name := playlistName(gen)
	e.sendProgress(progress, NewProgressUpdate(PhaseCreatePlaylist, fmt.Sprintf("Creating %q", name)))

	callCtx, cancel = e.callCtx(ctx)
	playlist, err := e.music.CreatePlaylist(callCtx, name, gen.Description, true)
	cancel()
	if err != nil {
		e.sendProgress(progress, NewErrorUpdate(PhaseCreatePlaylist, err))
		return nil, fmt.Errorf("%w: %w", shared.ErrPlaylistCreation, err)
	}

	result.Playlist = playlist

	if len(result.Resolved) == 0 {
		e.logger.Warn("no tracks resolved, playlist left empty", "playlist", playlist.ID)
		e.sendProgress(progress, NewCompletedUpdate(PhaseDone, "Playlist created with no tracks"))
		return result, nil
	}

	uris := make([]string, 0, len(result.Resolved))
	for _, track := range result.Resolved {
		uris = append(uris, track.URI)
	}

	e.sendProgress(progress, NewProgressUpdate(PhaseAttachTracks, fmt.Sprintf("Adding %d tracks", len(uris))))

	callCtx, cancel = e.callCtx(ctx)
	err = e.music.AddTracks(callCtx, playlist.ID, uris)
	cancel()
	if err != nil {
		e.sendProgress(progress, NewErrorUpdate(PhaseAttachTracks, err))
		return result, fmt.Errorf("%w: playlist created but adding tracks failed: %w", shared.ErrPlaylistCreation, err)
	}

	e.sendProgress(progress, NewCompletedUpdate(PhaseDone, "Playlist created"))
	return result, nil
}

// expandSelection asks the generator to grow the accepted songs into a full
// tracklist. Without a generator the selection is used as-is.
func (e *PlaylistEngine) expandSelection(ctx context.Context, selected []string) ([]string, error) {
	if e.generator == nil {
		return selected, nil
	}
	return e.generator.ExpandSongs(ctx, selected)
}

// resolveTrack finds a track for a song title, consulting the cache first.
// A miss on the music service returns (nil, false, nil) so the caller can
// drop the song instead of aborting.
func (e *PlaylistEngine) resolveTrack(ctx context.Context, title string) (*models.Track, bool, error) {
	serviceName := e.music.Name()

	if e.cache != nil {
		track, ok, err := e.cache.Lookup(serviceName, title)
		if err != nil {
			e.logger.Warn("cache lookup failed", "error", err)
		} else if ok {
			return track, true, nil
		}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	callCtx, cancel := e.callCtx(ctx)
	defer cancel()

	track, err := e.music.SearchTrack(callCtx, title)
	if err != nil {
		if errors.Is(err, shared.ErrTrackNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if e.cache != nil {
		if err := e.cache.Store(serviceName, title, *track); err != nil {
			e.logger.Warn("cache store failed", "error", err)
		}
	}

	return track, false, nil
}

// Describe generates a one-line blurb per song, rate limited alongside the
// search traffic. Individual failures are logged and skipped.
func (e *PlaylistEngine) Describe(ctx context.Context, mood string, songs []string, progress chan<- ProgressUpdate) ([]models.SongBlurb, error) {
	if e.generator == nil {
		return nil, fmt.Errorf("%w: no generator configured", shared.ErrServiceUnavailable)
	}

	blurbs := make([]models.SongBlurb, 0, len(songs))
	for i, song := range songs {
		e.sendProgress(progress, NewCountedUpdate(PhaseDescribeSongs, i+1, len(songs), "Describing songs"))

		if err := e.limiter.Wait(ctx); err != nil {
			return blurbs, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
		}

		callCtx, cancel := e.callCtx(ctx)
		blurb, err := e.generator.DescribeSong(callCtx, mood, song)
		cancel()
		if err != nil {
			e.logger.Warn("blurb generation failed, skipping", "song", song, "error", err)
			continue
		}

		blurbs = append(blurbs, models.SongBlurb{Song: song, Blurb: blurb})
	}

	e.sendProgress(progress, NewCompletedUpdate(PhaseDone, "Descriptions complete"))
	return blurbs, nil
}

// playlistName prefers the generated title and falls back to a name derived
// from the mood.
func playlistName(gen *models.Generation) string {
	if title := strings.TrimSpace(gen.Title); title != "" {
		return title
	}

	mood := strings.TrimSpace(gen.Mood)
	if mood == "" {
		return "Moodlist Mix"
	}
	return capitalize(mood) + " Vibes"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
