package controller_metadata

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
)

// The AI extraction step emits loosely-typed references: an artist is
// sometimes a bare string, sometimes an object; years arrive as numbers or
// strings. These DTOs absorb that variance at the boundary so the
// resolvers only ever see the strict reference shapes.

type artistRefDTO struct {
	metadata_models.ArtistRef
}

func (d *artistRefDTO) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		d.ArtistRef = metadata_models.ArtistRef{Name: strings.TrimSpace(name)}
		return nil
	}

	var obj struct {
		Name      string `json:"name"`
		Key       string `json:"key"`
		YearsUsed string `json:"yearsUsed"`
		Notes     string `json:"notes"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	d.ArtistRef = metadata_models.ArtistRef{
		Name:      strings.TrimSpace(obj.Name),
		Key:       strings.TrimSpace(obj.Key),
		YearsUsed: obj.YearsUsed,
		Notes:     obj.Notes,
	}
	return nil
}

type albumRefDTO struct {
	metadata_models.AlbumRef
}

func (d *albumRefDTO) UnmarshalJSON(data []byte) error {
	var obj struct {
		Title  string          `json:"title"`
		Artist string          `json:"artist"`
		Year   json.RawMessage `json:"year"`
		Notes  string          `json:"notes"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	d.AlbumRef = metadata_models.AlbumRef{
		Title:  strings.TrimSpace(obj.Title),
		Artist: strings.TrimSpace(obj.Artist),
		Year:   flexibleYear(obj.Year),
		Notes:  obj.Notes,
	}
	return nil
}

func flexibleYear(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var year int
	if err := json.Unmarshal(raw, &year); err == nil {
		return year
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if parsed, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			return parsed
		}
	}
	return 0
}

type enrichRequest struct {
	EquipmentID string         `json:"equipmentId" binding:"required"`
	Artists     []artistRefDTO `json:"artists"`
	Albums      []albumRefDTO  `json:"albums"`
	ActorID     string         `json:"actorId"`
}

func (r *enrichRequest) toInput() metadata_models.EnrichInput {
	input := metadata_models.EnrichInput{}
	for _, artist := range r.Artists {
		input.Artists = append(input.Artists, artist.ArtistRef)
	}
	for _, album := range r.Albums {
		input.Albums = append(input.Albums, album.AlbumRef)
	}
	return input
}

type importAlbumRequest struct {
	Provider   string `json:"provider" binding:"required"`
	ExternalID string `json:"externalId" binding:"required"`
}
