// Decoding of structured data out of free-text backend replies.
package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/haylium/moodlist/internal/shared"
)

// StripFences removes a surrounding Markdown code fence from a backend reply.
//
// The backend frequently wraps array literals in ```json ... ``` markers even
// when told not to. This is the single sanitation pass before parsing.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)

	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Drop a language tag on the opening fence ("json", "JSON", ...)
	if idx := strings.IndexAny(text, "\n"); idx >= 0 {
		first := strings.TrimSpace(text[:idx])
		if first != "" && !strings.HasPrefix(first, "[") {
			text = text[idx+1:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	return strings.TrimSpace(text)
}

// DecodeSongList parses a backend reply as a JSON array of song titles.
//
// One fence-stripping pass, then a strict parse: anything that is not a
// well-formed non-empty array of strings fails with [shared.ErrInvalidFormat].
// No partial list is ever returned.
func DecodeSongList(raw string) ([]string, error) {
	cleaned := StripFences(raw)

	var songs []string
	if err := json.Unmarshal([]byte(cleaned), &songs); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidFormat, err)
	}

	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: empty song list", shared.ErrInvalidFormat)
	}

	for i, song := range songs {
		songs[i] = strings.TrimSpace(song)
		if songs[i] == "" {
			return nil, fmt.Errorf("%w: blank entry at index %d", shared.ErrInvalidFormat, i)
		}
	}

	return songs, nil
}

// CleanLine defensively strips decoration the backend adds to single-value
// replies despite instructions: surrounding quotes and label headers like
// "Title:".
func CleanLine(raw string) string {
	text := strings.TrimSpace(StripFences(raw))

	for _, label := range []string{"Title:", "Description:", "Mood:", "Playlist Title:", "Playlist Description:"} {
		if strings.HasPrefix(strings.ToLower(text), strings.ToLower(label)) {
			text = strings.TrimSpace(text[len(label):])
		}
	}

	text = strings.Trim(text, `"'`)

	return strings.TrimSpace(text)
}
