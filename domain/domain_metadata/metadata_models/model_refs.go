package metadata_models

// ArtistRef and AlbumRef are the strict reference shapes this subsystem
// accepts. The AI extraction step and the manual edit forms both produce
// loosely-typed variants of these; the API layer normalizes them before
// any resolver sees them.

type ArtistRef struct {
	Name      string `json:"name"`
	Key       string `json:"key,omitempty"`
	YearsUsed string `json:"yearsUsed,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type AlbumRef struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Year   int    `json:"year,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// EnrichInput is the batch of references attached to one equipment record.
type EnrichInput struct {
	Artists []ArtistRef `json:"artists,omitempty"`
	Albums  []AlbumRef  `json:"albums,omitempty"`
}

type EnrichStats struct {
	ArtistsCreated   int `json:"artistsCreated"`
	AlbumsCreated    int `json:"albumsCreated"`
	RelationsCreated int `json:"relationsCreated"`
}

// EnrichResult is everything the caller sees. Per-reference failures stay
// internal; Success only turns false when the store itself is unreachable.
type EnrichResult struct {
	Success bool        `json:"success"`
	Stats   EnrichStats `json:"stats"`
}
