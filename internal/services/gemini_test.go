package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/haylium/moodlist/internal/shared"
)

// fakeGeminiServer returns an httptest server replying to generateContent
// calls with the text produced by reply.
func fakeGeminiServer(t *testing.T, reply func(prompt string) (string, int)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		prompt := ""
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			prompt = req.Contents[0].Parts[0].Text
		}

		text, status := reply(prompt)
		if status >= 400 {
			http.Error(w, text, status)
			return
		}

		resp := geminiResponse{
			Candidates: []geminiCandidate{
				{Content: geminiContent{Parts: []geminiPart{{Text: text}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestGemini(t *testing.T, srv *httptest.Server) *GeminiService {
	t.Helper()
	g, err := NewGeminiService(GeminiOpts{
		APIKey:  "test_key",
		BaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return g
}

func TestNewGeminiService(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		if _, err := NewGeminiService(GeminiOpts{}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		g, err := NewGeminiService(GeminiOpts{APIKey: "k"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if g.model != defaultGeminiModel {
			t.Errorf("expected default model, got %s", g.model)
		}
		if g.songCount != 10 {
			t.Errorf("expected default song count 10, got %d", g.songCount)
		}
		if g.Name() != "Gemini" {
			t.Errorf("expected name Gemini, got %s", g.Name())
		}
	})
}

func TestGeminiInferMood(t *testing.T) {
	t.Run("normalizes to lowercase and trims", func(t *testing.T) {
		srv := fakeGeminiServer(t, func(prompt string) (string, int) {
			return "  Excited \n", http.StatusOK
		})
		defer srv.Close()

		mood, err := newTestGemini(t, srv).InferMood(context.Background(), "I just got a promotion, feeling amazing!")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if mood != "excited" {
			t.Errorf("expected excited, got %q", mood)
		}
	})

	t.Run("prose-wrapped label is accepted verbatim", func(t *testing.T) {
		// Replies with surrounding prose are passed through lowercased:
		// the label is never validated against a vocabulary.
		srv := fakeGeminiServer(t, func(prompt string) (string, int) {
			return "Sure! Here's your mood: happy", http.StatusOK
		})
		defer srv.Close()

		mood, err := newTestGemini(t, srv).InferMood(context.Background(), "great day")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if mood != "sure! here's your mood: happy" {
			t.Errorf("unexpected mood %q", mood)
		}
	})

	t.Run("backend failure wraps ErrGeneration", func(t *testing.T) {
		srv := fakeGeminiServer(t, func(prompt string) (string, int) {
			return "rate limited", http.StatusTooManyRequests
		})
		defer srv.Close()

		_, err := newTestGemini(t, srv).InferMood(context.Background(), "text")
		if !errors.Is(err, shared.ErrGeneration) {
			t.Errorf("expected ErrGeneration, got %v", err)
		}
	})

	t.Run("deadline expiry wraps ErrTimeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Drain the body so the server detects the client's disconnect
			// and cancels r.Context(); otherwise srv.Close deadlocks.
			io.Copy(io.Discard, r.Body)
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := newTestGemini(t, srv).InferMood(ctx, "text")
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})
}

func TestGeminiInferSongs(t *testing.T) {
	t.Run("fenced array is parsed in order", func(t *testing.T) {
		srv := fakeGeminiServer(t, func(prompt string) (string, int) {
			return "```json\n[\"Song A\", \"Song B\", \"Song C\"]\n```", http.StatusOK
		})
		defer srv.Close()

		songs, err := newTestGemini(t, srv).InferSongs(context.Background(), "road trip", "excited")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(songs) != 3 || songs[0] != "Song A" || songs[2] != "Song C" {
			t.Errorf("unexpected songs %v", songs)
		}
	})

	t.Run("malformed reply fails with ErrInvalidFormat", func(t *testing.T) {
		srv := fakeGeminiServer(t, func(prompt string) (string, int) {
			return "Here are ten great songs for you!", http.StatusOK
		})
		defer srv.Close()

		songs, err := newTestGemini(t, srv).InferSongs(context.Background(), "road trip", "excited")
		if !errors.Is(err, shared.ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat, got %v", err)
		}
		if songs != nil {
			t.Errorf("expected no partial list, got %v", songs)
		}
	})
}

func TestGeminiExpandSongs(t *testing.T) {
	t.Run("includes seed songs in instruction", func(t *testing.T) {
		var seenPrompt string
		srv := fakeGeminiServer(t, func(prompt string) (string, int) {
			seenPrompt = prompt
			return `["Seed One", "Seed Two", "Similar Three"]`, http.StatusOK
		})
		defer srv.Close()

		songs, err := newTestGemini(t, srv).ExpandSongs(context.Background(), []string{"Seed One", "Seed Two"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(songs) != 3 {
			t.Errorf("expected 3 songs, got %d", len(songs))
		}
		if !strings.Contains(seenPrompt, `"Seed One"`) || !strings.Contains(seenPrompt, `"Seed Two"`) {
			t.Errorf("instruction missing seed songs: %s", seenPrompt)
		}
	})

	t.Run("empty seed list rejected", func(t *testing.T) {
		srv := fakeGeminiServer(t, func(prompt string) (string, int) { return "[]", http.StatusOK })
		defer srv.Close()

		if _, err := newTestGemini(t, srv).ExpandSongs(context.Background(), nil); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestGeminiTitleAndDescription(t *testing.T) {
	t.Run("title is cleaned", func(t *testing.T) {
		srv := fakeGeminiServer(t, func(prompt string) (string, int) {
			return `Title: "Golden Hour Grooves"`, http.StatusOK
		})
		defer srv.Close()

		title, err := newTestGemini(t, srv).InferTitle(context.Background(), "sunset drive")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if title != "Golden Hour Grooves" {
			t.Errorf("expected cleaned title, got %q", title)
		}
	})

	t.Run("description passes title through", func(t *testing.T) {
		var seenPrompt string
		srv := fakeGeminiServer(t, func(prompt string) (string, int) {
			seenPrompt = prompt
			return "Sun-drenched melodies for the drive home.", http.StatusOK
		})
		defer srv.Close()

		desc, err := newTestGemini(t, srv).InferDescription(context.Background(), "sunset drive", "Golden Hour Grooves")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if desc == "" {
			t.Error("expected non-empty description")
		}
		if !strings.Contains(seenPrompt, "Golden Hour Grooves") {
			t.Error("instruction missing playlist title")
		}
	})
}

func TestGeminiDescribeSong(t *testing.T) {
	srv := fakeGeminiServer(t, func(prompt string) (string, int) {
		return " A shimmering synth-pop anthem. ", http.StatusOK
	})
	defer srv.Close()

	blurb, err := newTestGemini(t, srv).DescribeSong(context.Background(), "excited", "Song A")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if blurb != "A shimmering synth-pop anthem." {
		t.Errorf("expected trimmed blurb, got %q", blurb)
	}
}
