package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gearshelf/gearshelf/domain"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_interface"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL  = "https://api.spotify.com/v1"
	defaultTokenURL = "https://accounts.spotify.com/api/token"
)

// Client is the streaming-catalog adapter. The client-credentials token is
// exchanged lazily and cached until shortly before expiry.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	log          zerolog.Logger

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewClient(clientID, clientSecret string, log zerolog.Logger) metadata_interface.StreamingCatalog {
	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      defaultBaseURL,
		tokenURL:     defaultTokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		log:          log.With().Str("component", "spotify").Logger(),
	}
}

// NewClientWithBaseURL is used by tests to point at a stub server.
func NewClientWithBaseURL(clientID, clientSecret, baseURL, tokenURL string, log zerolog.Logger) metadata_interface.StreamingCatalog {
	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      baseURL,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		log:          log.With().Str("component", "spotify").Logger(),
	}
}

func (c *Client) FetchAlbum(ctx context.Context, externalID string) (*metadata_models.StreamingAlbum, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var payload albumPayload
	if err := c.get(ctx, token, "/albums/"+url.PathEscape(externalID), &payload); err != nil {
		return nil, err
	}
	return payload.toModel(), nil
}

func (c *Client) SearchAlbums(ctx context.Context, query string) ([]metadata_models.StreamingAlbum, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "album")
	params.Set("limit", "5")

	var payload struct {
		Albums struct {
			Items []albumPayload `json:"items"`
		} `json:"albums"`
	}
	if err := c.get(ctx, token, "/search?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	albums := make([]metadata_models.StreamingAlbum, 0, len(payload.Albums.Items))
	for _, item := range payload.Albums.Items {
		albums = append(albums, *item.toModel())
	}
	return albums, nil
}

// accessToken returns the cached token, refreshing it via the
// client-credentials exchange when it is within a minute of expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("spotify: no client credentials: %w", domain.ErrUnavailable)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("spotify token request build failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("spotify token exchange failed: %w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("spotify token exchange rejected")
		return "", fmt.Errorf("spotify token status %d: %w", resp.StatusCode, domain.ErrUnavailable)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil || tok.AccessToken == "" {
		return "", fmt.Errorf("spotify token decode failed: %w", domain.ErrUnavailable)
	}

	c.token = tok.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return c.token, nil
}

func (c *Client) get(ctx context.Context, token, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("spotify request build failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spotify request failed: %w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("spotify %s: %w", path, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("spotify non-OK response")
		return fmt.Errorf("spotify status %d: %w", resp.StatusCode, domain.ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify response decode failed: %w: %v", domain.ErrUnavailable, err)
	}
	return nil
}

type albumPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	ReleaseDate string   `json:"release_date"`
	Label       string   `json:"label"`
	Genres      []string `json:"genres"`
	Images      []struct {
		URL string `json:"url"`
	} `json:"images"`
	Tracks struct {
		Items []struct {
			TrackNumber int    `json:"track_number"`
			Name        string `json:"name"`
			DurationMS  int    `json:"duration_ms"`
		} `json:"items"`
	} `json:"tracks"`
}

func (p *albumPayload) toModel() *metadata_models.StreamingAlbum {
	album := &metadata_models.StreamingAlbum{
		ExternalID: p.ID,
		Title:      p.Name,
		Label:      p.Label,
		Genres:     p.Genres,
	}
	for _, artist := range p.Artists {
		album.Artists = append(album.Artists, artist.Name)
	}
	if len(p.ReleaseDate) >= 4 {
		if year, err := strconv.Atoi(p.ReleaseDate[:4]); err == nil {
			album.Year = year
		}
	}
	if len(p.Images) > 0 {
		album.CoverURL = p.Images[0].URL
	}
	for _, track := range p.Tracks.Items {
		duration := time.Duration(track.DurationMS) * time.Millisecond
		album.Tracklist = append(album.Tracklist, metadata_models.Track{
			Position: strconv.Itoa(track.TrackNumber),
			Title:    track.Name,
			Duration: formatDuration(duration),
		})
	}
	return album
}

func formatDuration(d time.Duration) string {
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
