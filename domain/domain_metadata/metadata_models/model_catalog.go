package metadata_models

// CatalogProvider selects which external catalog an external id belongs to.
type CatalogProvider string

const (
	ProviderDiscogs CatalogProvider = "discogs"
	ProviderSpotify CatalogProvider = "spotify"
)

// SearchHit is one row of a release-catalog text search.
type SearchHit struct {
	ExternalID int64  `json:"externalId"`
	Title      string `json:"title"`
	Year       int    `json:"year,omitempty"`
	CoverURL   string `json:"coverUrl,omitempty"`
}

// CatalogRelease is a full release payload from the release catalog.
// MasterExternalID is zero when the release belongs to no master work.
type CatalogRelease struct {
	ExternalID       int64
	Title            string
	Year             int
	Artists          []string
	Genres           []string
	Styles           []string
	Format           string
	Label            string
	MasterExternalID int64
	CoverURL         string
	Tracklist        []Track
	Notes            string
}

// CatalogMaster is a master-work payload. Master responses are sometimes
// thinner than release responses; callers fall back to release fields for
// anything missing here.
type CatalogMaster struct {
	ExternalID int64
	Title      string
	Year       int
	Artists    []string
	Genres     []string
	Styles     []string
	CoverURL   string
	Notes      string
}

// StreamingAlbum is an album payload from the streaming catalog, which has
// no master/release hierarchy.
type StreamingAlbum struct {
	ExternalID string
	Title      string
	Artists    []string
	Year       int
	Label      string
	Genres     []string
	CoverURL   string
	Tracklist  []Track
}
