package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestServer serves the token endpoint plus whatever API handlers the
// test registers.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"access_token": "test-token", "expires_in": 3600}`)
	})
	for path, handler := range handlers {
		mux.HandleFunc(path, handler)
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := New("test-id", "test-secret")
	client.AccountsURL = server.URL
	client.APIURL = server.URL
	return server, client
}

func TestTrackReleaseYears(t *testing.T) {
	_, client := newTestServer(t, map[string]http.HandlerFunc{
		"/v1/tracks": func(w http.ResponseWriter, r *http.Request) {
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
				t.Errorf("Unexpected Authorization header: %q", auth)
			}
			if ids := r.URL.Query().Get("ids"); ids != "abc,def" {
				t.Errorf("Unexpected ids: %q", ids)
			}
			fmt.Fprint(w, `{"tracks": [
				{"id": "abc", "album": {"release_date": "2012-10-02"}},
				{"id": "def", "album": {"release_date": "1999"}},
				null
			]}`)
		},
	})

	years, err := client.TrackReleaseYears(context.Background(), []string{"abc", "def"})
	if err != nil {
		t.Fatalf("TrackReleaseYears: %v", err)
	}
	if years["abc"] != 2012 {
		t.Errorf("Expected 2012 for abc, got %d", years["abc"])
	}
	if years["def"] != 1999 {
		t.Errorf("Expected 1999 for def, got %d", years["def"])
	}
}

func TestArtistGenres(t *testing.T) {
	_, client := newTestServer(t, map[string]http.HandlerFunc{
		"/v1/search": func(w http.ResponseWriter, r *http.Request) {
			if q := r.URL.Query().Get("q"); q != "Zedd" {
				t.Errorf("Unexpected query: %q", q)
			}
			fmt.Fprint(w, `{"artists": {"items": [{"genres": ["edm", "electro house"]}]}}`)
		},
	})

	genres, err := client.ArtistGenres(context.Background(), "Zedd")
	if err != nil {
		t.Fatalf("ArtistGenres: %v", err)
	}
	if len(genres) != 2 || genres[0] != "edm" {
		t.Errorf("Unexpected genres: %v", genres)
	}
}

func TestArtistGenresNoResults(t *testing.T) {
	_, client := newTestServer(t, map[string]http.HandlerFunc{
		"/v1/search": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"artists": {"items": []}}`)
		},
	})

	genres, err := client.ArtistGenres(context.Background(), "Nobody")
	if err != nil {
		t.Fatalf("ArtistGenres: %v", err)
	}
	if genres != nil {
		t.Errorf("Expected nil genres for missing artist, got %v", genres)
	}
}

func TestRetriesTransientFailure(t *testing.T) {
	var calls int
	_, client := newTestServer(t, map[string]http.HandlerFunc{
		"/v1/search": func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, `{"artists": {"items": [{"genres": ["edm"]}]}}`)
		},
	})

	genres, err := client.ArtistGenres(context.Background(), "Zedd")
	if err != nil {
		t.Fatalf("ArtistGenres after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
	if len(genres) != 1 {
		t.Errorf("Unexpected genres: %v", genres)
	}
}

func TestDoesNotRetryClientError(t *testing.T) {
	var calls int
	_, client := newTestServer(t, map[string]http.HandlerFunc{
		"/v1/search": func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadRequest)
		},
	})

	_, err := client.ArtistGenres(context.Background(), "Zedd")
	if err == nil {
		t.Fatal("Expected error for 400 response")
	}
	if calls != 1 {
		t.Errorf("Expected exactly 1 call for a permanent failure, got %d", calls)
	}
}

func TestTokenReused(t *testing.T) {
	var tokenCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		fmt.Fprint(w, `{"access_token": "test-token", "expires_in": 3600}`)
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"artists": {"items": []}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := New("test-id", "test-secret")
	client.AccountsURL = server.URL
	client.APIURL = server.URL

	for i := 0; i < 3; i++ {
		if _, err := client.ArtistGenres(context.Background(), "Zedd"); err != nil {
			t.Fatalf("ArtistGenres: %v", err)
		}
	}
	if tokenCalls != 1 {
		t.Errorf("Expected token to be fetched once, got %d", tokenCalls)
	}
}

func TestMissingCredentials(t *testing.T) {
	client := New("", "")
	_, err := client.ArtistGenres(context.Background(), "Zedd")
	if err == nil {
		t.Fatal("Expected error without credentials")
	}
}

func TestReleaseYear(t *testing.T) {
	cases := map[string]int{
		"2012-10-02": 2012,
		"1999-03":    1999,
		"1967":       1967,
		"":           0,
		"abc":        0,
	}
	for date, want := range cases {
		if got := releaseYear(date); got != want {
			t.Errorf("releaseYear(%q) = %d, want %d", date, got, want)
		}
	}
}

func TestTrackID(t *testing.T) {
	if got := TrackID("spotify:track:abc123"); got != "abc123" {
		t.Errorf("Expected abc123, got %q", got)
	}
	if got := TrackID("spotify:episode:xyz"); got != "" {
		t.Errorf("Expected empty for non-track URI, got %q", got)
	}
	if got := TrackID(""); got != "" {
		t.Errorf("Expected empty for empty URI, got %q", got)
	}
}
