package discogs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gearshelf/gearshelf/domain"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_interface"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://api.discogs.com"
	userAgent      = "Gearshelf/1.0 +https://gearshelf.app"
)

// Client is the release-catalog adapter. Stateless: no caching, no
// retries. A missing token is not a configuration error; every call just
// reports domain.ErrUnavailable so callers degrade to local-only data.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        zerolog.Logger
}

func NewClient(token string, log zerolog.Logger) metadata_interface.ReleaseCatalog {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
		log:        log.With().Str("component", "discogs").Logger(),
	}
}

// NewClientWithBaseURL is used by tests to point at a stub server.
func NewClientWithBaseURL(token, baseURL string, log zerolog.Logger) metadata_interface.ReleaseCatalog {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		token:      token,
		log:        log.With().Str("component", "discogs").Logger(),
	}
}

func (c *Client) Search(ctx context.Context, query string) ([]metadata_models.SearchHit, error) {
	if c.token == "" {
		return nil, fmt.Errorf("discogs search: no access token: %w", domain.ErrUnavailable)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "release")
	params.Set("token", c.token)

	var payload struct {
		Results []struct {
			ID         int64  `json:"id"`
			Title      string `json:"title"`
			Year       string `json:"year"`
			CoverImage string `json:"cover_image"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/database/search?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	hits := make([]metadata_models.SearchHit, 0, len(payload.Results))
	for _, result := range payload.Results {
		year, _ := strconv.Atoi(result.Year)
		hits = append(hits, metadata_models.SearchHit{
			ExternalID: result.ID,
			Title:      result.Title,
			Year:       year,
			CoverURL:   result.CoverImage,
		})
	}
	return hits, nil
}

func (c *Client) FetchRelease(ctx context.Context, externalID int64) (*metadata_models.CatalogRelease, error) {
	if c.token == "" {
		return nil, fmt.Errorf("discogs release fetch: no access token: %w", domain.ErrUnavailable)
	}

	var payload struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		Year    int    `json:"year"`
		Artists []struct {
			Name string `json:"name"`
		} `json:"artists"`
		Genres  []string `json:"genres"`
		Styles  []string `json:"styles"`
		Formats []struct {
			Name string `json:"name"`
		} `json:"formats"`
		Labels []struct {
			Name string `json:"name"`
		} `json:"labels"`
		MasterID int64 `json:"master_id"`
		Images   []struct {
			URI string `json:"uri"`
		} `json:"images"`
		Tracklist []struct {
			Position string `json:"position"`
			Title    string `json:"title"`
			Duration string `json:"duration"`
		} `json:"tracklist"`
		Notes string `json:"notes"`
	}
	path := fmt.Sprintf("/releases/%d?token=%s", externalID, url.QueryEscape(c.token))
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}

	release := &metadata_models.CatalogRelease{
		ExternalID:       payload.ID,
		Title:            payload.Title,
		Year:             payload.Year,
		Genres:           payload.Genres,
		Styles:           payload.Styles,
		MasterExternalID: payload.MasterID,
		Notes:            payload.Notes,
	}
	for _, artist := range payload.Artists {
		release.Artists = append(release.Artists, artist.Name)
	}
	if len(payload.Formats) > 0 {
		release.Format = payload.Formats[0].Name
	}
	if len(payload.Labels) > 0 {
		release.Label = payload.Labels[0].Name
	}
	if len(payload.Images) > 0 {
		release.CoverURL = payload.Images[0].URI
	}
	for _, track := range payload.Tracklist {
		release.Tracklist = append(release.Tracklist, metadata_models.Track{
			Position: track.Position,
			Title:    track.Title,
			Duration: track.Duration,
		})
	}
	return release, nil
}

func (c *Client) FetchMaster(ctx context.Context, externalID int64) (*metadata_models.CatalogMaster, error) {
	if c.token == "" {
		return nil, fmt.Errorf("discogs master fetch: no access token: %w", domain.ErrUnavailable)
	}

	var payload struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		Year    int    `json:"year"`
		Artists []struct {
			Name string `json:"name"`
		} `json:"artists"`
		Genres []string `json:"genres"`
		Styles []string `json:"styles"`
		Images []struct {
			URI string `json:"uri"`
		} `json:"images"`
		Notes string `json:"notes"`
	}
	path := fmt.Sprintf("/masters/%d?token=%s", externalID, url.QueryEscape(c.token))
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}

	master := &metadata_models.CatalogMaster{
		ExternalID: payload.ID,
		Title:      payload.Title,
		Year:       payload.Year,
		Genres:     payload.Genres,
		Styles:     payload.Styles,
		Notes:      payload.Notes,
	}
	for _, artist := range payload.Artists {
		master.Artists = append(master.Artists, artist.Name)
	}
	if len(payload.Images) > 0 {
		master.CoverURL = payload.Images[0].URI
	}
	return master, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("discogs request build failed: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discogs request failed: %w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("discogs %s: %w", path, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("discogs non-OK response")
		return fmt.Errorf("discogs status %d: %w", resp.StatusCode, domain.ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("discogs response decode failed: %w: %v", domain.ErrUnavailable, err)
	}
	return nil
}
