package services

import (
	"errors"
	"testing"

	"github.com/haylium/moodlist/internal/shared"
)

func TestDecodeSongList(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		songs, err := DecodeSongList(`["Song A", "Song B", "Song C"]`)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(songs) != 3 {
			t.Fatalf("expected 3 songs, got %d", len(songs))
		}
		if songs[0] != "Song A" || songs[2] != "Song C" {
			t.Errorf("order not preserved: %v", songs)
		}
	})

	t.Run("fenced array with language tag", func(t *testing.T) {
		raw := "```json\n[\"Song A\", \"Song B\"]\n```"
		songs, err := DecodeSongList(raw)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(songs) != 2 {
			t.Errorf("expected 2 songs, got %d", len(songs))
		}
	})

	t.Run("fenced array without language tag", func(t *testing.T) {
		raw := "```\n[\"Song A\"]\n```"
		songs, err := DecodeSongList(raw)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if songs[0] != "Song A" {
			t.Errorf("expected Song A, got %s", songs[0])
		}
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		songs, err := DecodeSongList("\n\n  [\" Song A \"]  \n")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if songs[0] != "Song A" {
			t.Errorf("expected trimmed entry, got %q", songs[0])
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		for _, raw := range []string{
			"Sure! Here are some songs: Song A, Song B",
			`{"songs": ["Song A"]}`,
			`["Song A"`,
			"",
		} {
			songs, err := DecodeSongList(raw)
			if !errors.Is(err, shared.ErrInvalidFormat) {
				t.Errorf("input %q: expected ErrInvalidFormat, got %v", raw, err)
			}
			if songs != nil {
				t.Errorf("input %q: expected no partial list, got %v", raw, songs)
			}
		}
	})

	t.Run("empty array", func(t *testing.T) {
		if _, err := DecodeSongList("[]"); !errors.Is(err, shared.ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat for empty array, got %v", err)
		}
	})

	t.Run("blank entry", func(t *testing.T) {
		if _, err := DecodeSongList(`["Song A", "  "]`); !errors.Is(err, shared.ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat for blank entry, got %v", err)
		}
	})
}

func TestCleanLine(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Golden Hour Grooves", "Golden Hour Grooves"},
		{"quoted", `"Golden Hour Grooves"`, "Golden Hour Grooves"},
		{"label header", "Title: Golden Hour Grooves", "Golden Hour Grooves"},
		{"label and quotes", `Playlist Title: "Golden Hour Grooves"`, "Golden Hour Grooves"},
		{"fenced", "```\nGolden Hour Grooves\n```", "Golden Hour Grooves"},
		{"whitespace", "  Golden Hour Grooves  \n", "Golden Hour Grooves"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanLine(tc.input); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
