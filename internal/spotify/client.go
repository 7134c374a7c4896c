// Package spotify is a thin client for the pieces of the Spotify Web API
// this tool needs: the client-credentials token exchange, batch track
// lookups, and artist search. Public data only; no user login.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/time/rate"
)

const (
	defaultAccountsURL = "https://accounts.spotify.com"
	defaultAPIURL      = "https://api.spotify.com"

	// The /v1/tracks endpoint accepts at most 50 ids per call.
	trackBatchSize = 50
)

type Client struct {
	// AccountsURL and APIURL are overridable for tests.
	AccountsURL string
	APIURL      string

	httpClient   *http.Client
	limiter      *rate.Limiter
	clientID     string
	clientSecret string

	accessToken string
	tokenExpiry time.Time
}

func New(clientID, clientSecret string) *Client {
	return &Client{
		AccountsURL:  defaultAccountsURL,
		APIURL:       defaultAPIURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		limiter:      rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// apiError carries the HTTP status so retry logic can tell transient
// failures (5xx, 429) from permanent ones.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("spotify API returned %d: %s", e.status, e.body)
}

func retryable(err error) bool {
	if aerr, ok := err.(*apiError); ok {
		return aerr.status == http.StatusTooManyRequests || aerr.status/100 == 5
	}
	// Transport-level errors are worth another attempt.
	return true
}

// token returns a valid bearer token, exchanging client credentials when the
// cached one is missing or expired.
func (c *Client) token(ctx context.Context) (string, error) {
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}
	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("spotify credentials not set: provide client_id and client_secret")
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.AccountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("requesting token: %w", err)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	c.accessToken = parsed.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(parsed.ExpiresIn) * time.Second).Add(-time.Minute)
	return c.accessToken, nil
}

// TrackReleaseYears looks up release years for the given track ids, batching
// requests. The returned map only contains ids the API resolved; a year of 0
// means the track was found but its release date was unusable.
func (c *Client) TrackReleaseYears(ctx context.Context, ids []string) (map[string]int, error) {
	results := make(map[string]int, len(ids))

	for start := 0; start < len(ids); start += trackBatchSize {
		end := start + trackBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		body, err := c.get(ctx, "/v1/tracks", url.Values{"ids": {strings.Join(batch, ",")}})
		if err != nil {
			return results, fmt.Errorf("fetching tracks batch: %w", err)
		}

		var parsed struct {
			Tracks []*struct {
				ID    string `json:"id"`
				Album struct {
					ReleaseDate string `json:"release_date"`
				} `json:"album"`
			} `json:"tracks"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return results, fmt.Errorf("parsing tracks response: %w", err)
		}

		for _, track := range parsed.Tracks {
			if track == nil {
				continue
			}
			results[track.ID] = releaseYear(track.Album.ReleaseDate)
		}
	}

	return results, nil
}

// ArtistGenres searches for an artist by name and returns the top hit's
// genres. The list may be empty; a missing artist is not an error.
func (c *Client) ArtistGenres(ctx context.Context, name string) ([]string, error) {
	body, err := c.get(ctx, "/v1/search", url.Values{
		"q":     {name},
		"type":  {"artist"},
		"limit": {"1"},
	})
	if err != nil {
		return nil, fmt.Errorf("searching for artist %q: %w", name, err)
	}

	var parsed struct {
		Artists struct {
			Items []struct {
				Genres []string `json:"genres"`
			} `json:"items"`
		} `json:"artists"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing search response for %q: %w", name, err)
	}

	if len(parsed.Artists.Items) == 0 {
		return nil, nil
	}
	return parsed.Artists.Items[0].Genres, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req)
}

// do executes a request with rate limiting and a small bounded retry for
// transient failures. A 429 waits out the server's Retry-After before the
// next attempt.
func (c *Client) do(req *http.Request) ([]byte, error) {
	var body []byte

	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(req.Context()); err != nil {
				return retry.Unrecoverable(err)
			}
			if req.GetBody != nil {
				fresh, err := req.GetBody()
				if err != nil {
					return retry.Unrecoverable(err)
				}
				req.Body = fresh
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("reading response: %w", err)
			}

			if resp.StatusCode == http.StatusTooManyRequests {
				if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
					time.Sleep(time.Duration(secs) * time.Second)
				}
				return &apiError{status: resp.StatusCode, body: string(data)}
			}
			if resp.StatusCode != http.StatusOK {
				return &apiError{status: resp.StatusCode, body: string(data)}
			}

			body = data
			return nil
		},
		retry.Attempts(3),
		retry.RetryIf(retryable),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// releaseYear extracts the year from the API's release_date, which may be
// YYYY, YYYY-MM, or YYYY-MM-DD. Returns 0 when unparseable.
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// TrackID extracts the id from a spotify:track:<id> URI. Returns "" for
// non-track URIs.
func TrackID(uri string) string {
	const prefix = "spotify:track:"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return uri[len(prefix):]
}
