// Gemini client for the Google Generative Language REST API.
//
// Request/response shapes follow https://ai.google.dev/api/generate-content
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/haylium/moodlist/internal/shared"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiService implements [Generator] against the generateContent endpoint.
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	songCount  int
}

// GeminiOpts contains configuration options for creating a GeminiService.
type GeminiOpts struct {
	APIKey     string
	Model      string       // Defaults to gemini-2.0-flash
	BaseURL    string       // Defaults to the public API; overridable for tests
	HTTPClient *http.Client // Defaults to http.DefaultClient
	SongCount  int          // Candidate list length, defaults to 10
}

// NewGeminiService creates a new Gemini service with the given options.
func NewGeminiService(opts GeminiOpts) (*GeminiService, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: missing api_key", shared.ErrMissingCredentials)
	}
	if opts.Model == "" {
		opts.Model = defaultGeminiModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = geminiBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.SongCount <= 0 {
		opts.SongCount = 10
	}

	return &GeminiService{
		apiKey:     opts.APIKey,
		model:      opts.Model,
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		songCount:  opts.SongCount,
	}, nil
}

func (g *GeminiService) Name() string {
	return "Gemini"
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// generate sends a single text instruction and returns the raw reply text.
//
// Transport failures wrap [shared.ErrGeneration]; a deadline expiry wraps
// [shared.ErrTimeout] so hung backends surface distinctly.
func (g *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: %v", shared.ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", shared.ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", shared.ErrGeneration, resp.StatusCode, payload)
	}

	var response geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrGeneration, err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidate", shared.ErrGeneration)
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}

// InferMood derives a short categorical mood label from free text.
//
// Any short string the backend returns is accepted; the label is normalized
// to lowercase with surrounding whitespace trimmed.
func (g *GeminiService) InferMood(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(
		"Analyze the user's mood based on this text: %s. "+
			"Return only the emotion as a categorical mood (as specific as possible) "+
			"the user is feeling, in one word or a very short phrase, with no punctuation.",
		text,
	)

	reply, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	return strings.ToLower(strings.TrimSpace(reply)), nil
}

// InferSongs requests an ordered candidate list of song titles.
func (g *GeminiService) InferSongs(ctx context.Context, prompt, mood string) ([]string, error) {
	instruction := fmt.Sprintf(
		`Generate a list of %d songs that match this prompt: %q and fit the mood of %s. `+
			`It is critical to return your response as a JSON array of strings for further processing, for example: `+
			`["Song Title 1", "Song Title 2", "Song Title 3"]`,
		g.songCount, prompt, mood,
	)

	reply, err := g.generate(ctx, instruction)
	if err != nil {
		return nil, err
	}

	return DecodeSongList(reply)
}

// ExpandSongs requests a superset of the liked songs plus similar tracks.
func (g *GeminiService) ExpandSongs(ctx context.Context, liked []string) ([]string, error) {
	if len(liked) == 0 {
		return nil, fmt.Errorf("%w: no seed songs", shared.ErrInvalidArgument)
	}

	quoted := make([]string, len(liked))
	for i, song := range liked {
		quoted[i] = fmt.Sprintf("%q", song)
	}

	instruction := fmt.Sprintf(
		`The user likes the following songs: [%s]. `+
			`Generate a list of %d songs that includes these songs and additional songs that are similar to them. `+
			`Return the response as a JSON array of strings, for example: ["Song Title 1", "Song Title 2"]`,
		strings.Join(quoted, ", "), g.songCount,
	)

	reply, err := g.generate(ctx, instruction)
	if err != nil {
		return nil, err
	}

	return DecodeSongList(reply)
}

// InferTitle generates a playlist title for the prompt.
func (g *GeminiService) InferTitle(ctx context.Context, prompt string) (string, error) {
	instruction := fmt.Sprintf(
		`Create a creative and catchy playlist title based on this prompt: %q. `+
			`Do not provide multiple options, make a selection for the user. `+
			`Format your response to only be the title, no additional characters or commentary.`,
		prompt,
	)

	reply, err := g.generate(ctx, instruction)
	if err != nil {
		return "", err
	}

	return CleanLine(reply), nil
}

// InferDescription generates a playlist description for the prompt and title.
func (g *GeminiService) InferDescription(ctx context.Context, prompt, title string) (string, error) {
	instruction := fmt.Sprintf(
		`Create a creative and catchy description for a music playlist based on this prompt: %q. `+
			`The title of this playlist will be %q. Do not include the title in the description. `+
			`Do not provide multiple options. Format your response to only be the description, no additional characters.`,
		prompt, title,
	)

	reply, err := g.generate(ctx, instruction)
	if err != nil {
		return "", err
	}

	return CleanLine(reply), nil
}

// DescribeSong generates a short blurb on why a song fits a mood.
func (g *GeminiService) DescribeSong(ctx context.Context, mood, song string) (string, error) {
	instruction := fmt.Sprintf(
		`Provide a short description of the song %s and describe how it relates to the mood of %s. `+
			`Keep it to a few short phrases. Do not include any additional text or headers.`,
		song, mood,
	)

	reply, err := g.generate(ctx, instruction)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(reply), nil
}
