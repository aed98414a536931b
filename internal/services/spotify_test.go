package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/haylium/moodlist/internal/shared"
	"golang.org/x/oauth2"
)

func newTestSpotify(t *testing.T, srv *httptest.Server) *SpotifyService {
	t.Helper()
	s, err := NewSpotifyService(map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	if srv != nil {
		s.baseURL = srv.URL
	}
	s.token = &oauth2.Token{AccessToken: "test_token", Expiry: time.Now().Add(time.Hour)}
	return s
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
				"redirect_uri":  "http://localhost:9999/callback",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_secret": "x"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_id": "x"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Default Redirect URI", func(t *testing.T) {
			srv, err := NewSpotifyService(map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.config.RedirectURL != "http://localhost:3000/callback" {
				t.Errorf("unexpected default redirect URI %s", srv.config.RedirectURL)
			}
		})
	})

	t.Run("GetAuthURL", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "test_client_id",
			"client_secret": "test_client_secret",
		})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		authURL := srv.GetAuthURL("test_state")
		if !strings.Contains(authURL, "accounts.spotify.com") {
			t.Error("auth URL should contain Spotify domain")
		}
		if !strings.Contains(authURL, "test_client_id") {
			t.Error("auth URL should contain client_id")
		}
		if !strings.Contains(authURL, "test_state") {
			t.Error("auth URL should contain state")
		}
		if !strings.Contains(authURL, "playlist-modify-public") {
			t.Error("auth URL should request playlist-modify-public scope")
		}
	})

	t.Run("Authenticated", func(t *testing.T) {
		srv, _ := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})

		if srv.Authenticated() {
			t.Error("expected unauthenticated before token install")
		}

		if err := srv.OAuthenticate(context.Background(), nil); !errors.Is(err, shared.ErrMissingToken) {
			t.Errorf("expected ErrMissingToken, got %v", err)
		}

		if err := srv.OAuthenticate(context.Background(), &oauth2.Token{AccessToken: "tok"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !srv.Authenticated() {
			t.Error("expected authenticated after token install")
		}
	})
}

func TestSearchTrack(t *testing.T) {
	t.Run("first result wins", func(t *testing.T) {
		var seenQuery string
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenQuery = r.URL.Query().Get("q")
			json.NewEncoder(w).Encode(searchResponse{
				Tracks: searchTracksPage{
					Items: []SpotifyTrack{
						{ID: "t1", Name: "Song A", URI: "spotify:track:t1", Artists: []SpotifyArtist{{Name: "Artist A"}}},
						{ID: "t2", Name: "Song A (Live)", URI: "spotify:track:t2"},
					},
				},
			})
		}))
		defer api.Close()

		track, err := newTestSpotify(t, api).SearchTrack(context.Background(), "Artist A - Song A")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track.ID != "t1" || track.URI != "spotify:track:t1" {
			t.Errorf("expected first search result, got %+v", track)
		}
		if track.Artist != "Artist A" {
			t.Errorf("expected artist carried over, got %q", track.Artist)
		}
		if seenQuery != "Artist A - Song A" {
			t.Errorf("unexpected search query %q", seenQuery)
		}
	})

	t.Run("no match is ErrTrackNotFound", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(searchResponse{})
		}))
		defer api.Close()

		_, err := newTestSpotify(t, api).SearchTrack(context.Background(), "obscure song")
		if !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("idempotent against unchanged catalog", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(searchResponse{
				Tracks: searchTracksPage{Items: []SpotifyTrack{{ID: "t1", Name: "Song A", URI: "spotify:track:t1"}}},
			})
		}))
		defer api.Close()

		svc := newTestSpotify(t, api)
		first, err := svc.SearchTrack(context.Background(), "Song A")
		if err != nil {
			t.Fatalf("first resolve failed: %v", err)
		}
		second, err := svc.SearchTrack(context.Background(), "Song A")
		if err != nil {
			t.Fatalf("second resolve failed: %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("expected same track ID, got %s then %s", first.ID, second.ID)
		}
	})

	t.Run("missing token fails before network", func(t *testing.T) {
		calls := 0
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))
		defer api.Close()

		svc := newTestSpotify(t, api)
		svc.token = nil

		if _, err := svc.SearchTrack(context.Background(), "Song A"); !errors.Is(err, shared.ErrMissingToken) {
			t.Errorf("expected ErrMissingToken, got %v", err)
		}
		if calls != 0 {
			t.Errorf("expected no network calls, got %d", calls)
		}
	})

	t.Run("expired token without refresh token", func(t *testing.T) {
		svc := newTestSpotify(t, nil)
		svc.token = &oauth2.Token{AccessToken: "stale", Expiry: time.Now().Add(-time.Hour)}

		if _, err := svc.SearchTrack(context.Background(), "Song A"); !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})
}

func TestCreatePlaylistAndAddTracks(t *testing.T) {
	t.Run("create resolves owner then posts", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/me":
				json.NewEncoder(w).Encode(SpotifyUser{ID: "user123"})
			case r.URL.Path == "/users/user123/playlists" && r.Method == http.MethodPost:
				var body map[string]any
				json.NewDecoder(r.Body).Decode(&body)
				json.NewEncoder(w).Encode(SpotifyPlaylist{
					ID:           "pl1",
					Name:         body["name"].(string),
					Description:  body["description"].(string),
					Public:       body["public"].(bool),
					ExternalURLs: externalURLs{Spotify: "https://open.spotify.com/playlist/pl1"},
				})
			default:
				http.NotFound(w, r)
			}
		}))
		defer api.Close()

		pl, err := newTestSpotify(t, api).CreatePlaylist(context.Background(), "Excited Vibes", "A test playlist", true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if pl.ID != "pl1" {
			t.Errorf("expected playlist pl1, got %s", pl.ID)
		}
		if pl.URL != "https://open.spotify.com/playlist/pl1" {
			t.Errorf("expected public URL, got %s", pl.URL)
		}
		if !pl.Public {
			t.Error("expected public playlist")
		}
	})

	t.Run("add tracks batches URIs", func(t *testing.T) {
		var gotURIs []string
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists/pl1/tracks" || r.Method != http.MethodPost {
				http.NotFound(w, r)
				return
			}
			var body struct {
				URIs []string `json:"uris"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			gotURIs = body.URIs
			w.WriteHeader(http.StatusCreated)
		}))
		defer api.Close()

		uris := []string{"spotify:track:t1", "spotify:track:t2"}
		if err := newTestSpotify(t, api).AddTracks(context.Background(), "pl1", uris); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(gotURIs) != 2 || gotURIs[0] != "spotify:track:t1" {
			t.Errorf("unexpected URIs %v", gotURIs)
		}
	})

	t.Run("add tracks rejects empty batch", func(t *testing.T) {
		svc := newTestSpotify(t, nil)
		if err := svc.AddTracks(context.Background(), "pl1", nil); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("API error carries status and payload", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": {"status": 403, "message": "Insufficient client scope"}}`, http.StatusForbidden)
		}))
		defer api.Close()

		_, err := newTestSpotify(t, api).UserProfile(context.Background())
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "Insufficient client scope") {
			t.Errorf("expected payload in error, got %v", err)
		}
	})
}

func TestExchange(t *testing.T) {
	t.Run("consumed code surfaces ErrAuthExchange", func(t *testing.T) {
		tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid_grant","error_description":"Authorization code expired"}`, http.StatusBadRequest)
		}))
		defer tokenSrv.Close()

		svc, _ := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})
		svc.config.Endpoint.TokenURL = tokenSrv.URL

		_, err := svc.Exchange(context.Background(), "already-used-code")
		if !errors.Is(err, shared.ErrAuthExchange) {
			t.Fatalf("expected ErrAuthExchange, got %v", err)
		}
		if svc.Authenticated() {
			t.Error("expected service to remain unauthenticated")
		}
	})

	t.Run("successful exchange installs token", func(t *testing.T) {
		tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"fresh","refresh_token":"refresher","expires_in":3600,"token_type":"Bearer"}`))
		}))
		defer tokenSrv.Close()

		svc, _ := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})
		svc.config.Endpoint.TokenURL = tokenSrv.URL

		token, err := svc.Exchange(context.Background(), "fresh-code")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token.AccessToken != "fresh" || token.RefreshToken != "refresher" {
			t.Errorf("unexpected token %+v", token)
		}
		if !svc.Authenticated() {
			t.Error("expected service to be authenticated")
		}
	})
}
