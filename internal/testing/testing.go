// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/haylium/moodlist/internal/models"
)

// MockGenerator is a test double for [services.Generator]
type MockGenerator struct{}

func (m *MockGenerator) InferMood(ctx context.Context, text string) (string, error) {
	return "calm", nil
}

func (m *MockGenerator) InferSongs(ctx context.Context, prompt, mood string) ([]string, error) {
	return []string{}, nil
}

func (m *MockGenerator) ExpandSongs(ctx context.Context, liked []string) ([]string, error) {
	return liked, nil
}

func (m *MockGenerator) InferTitle(ctx context.Context, prompt string) (string, error) {
	return "Mock Playlist", nil
}

func (m *MockGenerator) InferDescription(ctx context.Context, prompt, title string) (string, error) {
	return "A mock description.", nil
}

func (m *MockGenerator) DescribeSong(ctx context.Context, mood, song string) (string, error) {
	return "A mock blurb.", nil
}

func (m *MockGenerator) Name() string { return "mock" }

// MockMusicService is a test double for [services.MusicService]
type MockMusicService struct{}

func (m *MockMusicService) Authenticated() bool { return true }

func (m *MockMusicService) UserID(ctx context.Context) (string, error) {
	return "mock-user", nil
}

func (m *MockMusicService) SearchTrack(ctx context.Context, query string) (*models.Track, error) {
	return nil, nil
}

func (m *MockMusicService) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
	return nil, nil
}

func (m *MockMusicService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	return nil
}

func (m *MockMusicService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
