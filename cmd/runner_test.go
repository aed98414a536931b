package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/haylium/moodlist/internal/shared"
	tu "github.com/haylium/moodlist/internal/testing"
)

// tokenedMusicService exposes its current token like the real Spotify client.
type tokenedMusicService struct {
	tu.MockMusicService
	token *oauth2.Token
}

func (s *tokenedMusicService) Token() *oauth2.Token { return s.token }

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			gemini := &tu.MockGenerator{}
			spotify := &tu.MockMusicService{}

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Gemini:  gemini,
				Spotify: spotify,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.gemini != gemini {
				t.Error("expected gemini to be set")
			}
			if runner.spotify != spotify {
				t.Error("expected spotify to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			if err := runner.writeJSON(data, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `{"key":"value"}`) {
				t.Errorf("expected compact JSON, got %s", result)
			}
		})

		t.Run("marshal failures are reported", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(make(chan int), false); err == nil {
				t.Error("expected an error for unmarshalable data")
			}
		})

		t.Run("write failures are reported", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON("data", false); err == nil {
				t.Error("expected an error when the writer fails")
			}
		})
	})

	t.Run("persistRefreshedToken", func(t *testing.T) {
		t.Run("saves a changed token back to the config file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")

			config := shared.DefaultConfig()
			config.Credentials.Spotify.AccessToken = "stale"
			config.Credentials.Spotify.RefreshToken = "refresher"

			spotify := &tokenedMusicService{token: &oauth2.Token{
				AccessToken: "fresh",
				Expiry:      time.Now().Add(time.Hour),
			}}

			runner := NewRunner(RunnerOpts{Config: config, Spotify: spotify, Output: &bytes.Buffer{}})
			runner.persistRefreshedToken(path)

			loaded, err := shared.LoadConfig(path)
			if err != nil {
				t.Fatalf("expected config to be written: %v", err)
			}
			if loaded.Credentials.Spotify.AccessToken != "fresh" {
				t.Errorf("expected fresh access token, got %s", loaded.Credentials.Spotify.AccessToken)
			}
			if loaded.Credentials.Spotify.RefreshToken != "refresher" {
				t.Errorf("expected refresh token preserved, got %s", loaded.Credentials.Spotify.RefreshToken)
			}
		})

		t.Run("unchanged token writes nothing", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")

			config := shared.DefaultConfig()
			config.Credentials.Spotify.AccessToken = "same"

			spotify := &tokenedMusicService{token: &oauth2.Token{AccessToken: "same"}}
			runner := NewRunner(RunnerOpts{Config: config, Spotify: spotify, Output: &bytes.Buffer{}})
			runner.persistRefreshedToken(path)

			if _, err := os.Stat(path); err == nil {
				t.Error("expected no config file to be written")
			}
		})

		t.Run("service without token access is a no-op", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")

			runner := NewRunner(RunnerOpts{Spotify: &tu.MockMusicService{}, Output: &bytes.Buffer{}})
			runner.persistRefreshedToken(path)

			if _, err := os.Stat(path); err == nil {
				t.Error("expected no config file to be written")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes formatted text", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s\n", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if output.String() != "hello world\n" {
				t.Errorf("unexpected output: %q", output.String())
			}
		})

		t.Run("write failures are reported", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("hello"); err == nil {
				t.Error("expected an error when the writer fails")
			}
		})
	})
}

func TestPickSongs(t *testing.T) {
	candidates := []string{"Song A", "Song B", "Song C", "Song D"}

	t.Run("selects by 1-based index in order", func(t *testing.T) {
		selected, err := pickSongs(candidates, "1,3")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(selected) != 2 || selected[0] != "Song A" || selected[1] != "Song C" {
			t.Errorf("unexpected selection: %v", selected)
		}
	})

	t.Run("ignores whitespace and duplicates", func(t *testing.T) {
		selected, err := pickSongs(candidates, " 2 , 2 , 4 ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(selected) != 2 || selected[0] != "Song B" || selected[1] != "Song D" {
			t.Errorf("unexpected selection: %v", selected)
		}
	})

	t.Run("rejects out-of-range indexes", func(t *testing.T) {
		if _, err := pickSongs(candidates, "5"); err == nil {
			t.Error("expected an error for an out-of-range index")
		}

		if _, err := pickSongs(candidates, "0"); err == nil {
			t.Error("expected an error for index zero")
		}
	})

	t.Run("rejects non-numeric input", func(t *testing.T) {
		if _, err := pickSongs(candidates, "one"); err == nil {
			t.Error("expected an error for non-numeric input")
		}
	})

	t.Run("rejects an empty selection", func(t *testing.T) {
		if _, err := pickSongs(candidates, " , "); err == nil {
			t.Error("expected an error for an empty selection")
		}
	})
}
