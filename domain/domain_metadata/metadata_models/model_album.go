package metadata_models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Track struct {
	Position string `bson:"position,omitempty" json:"position,omitempty"`
	Title    string `bson:"title" json:"title"`
	Duration string `bson:"duration,omitempty" json:"duration,omitempty"`
}

// Album is a local cache entry for an external catalog record. Two shapes
// live in one collection:
//
//   - master records: IsMaster=true, MasterID = external master id, no parent;
//   - release records: IsMaster=false, ParentID pointing at the local master
//     record when the external master is known.
//
// A release without a master is valid and permanent; not every release
// belongs to a discoverable master. Unresolved marks a minimal record
// created without catalog confirmation (provider down or no match).
type Album struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Artist string             `bson:"artist" json:"artist"`
	Title  string             `bson:"title" json:"title"`
	Year   int                `bson:"year,omitempty" json:"year,omitempty"`
	Label  string             `bson:"label,omitempty" json:"label,omitempty"`
	Genres []string           `bson:"genres,omitempty" json:"genres,omitempty"`
	Styles []string           `bson:"styles,omitempty" json:"styles,omitempty"`
	Format string             `bson:"format,omitempty" json:"format,omitempty"`

	// External identifiers, unique-sparse: omitempty keeps the zero value
	// out of the document so the sparse indexes ignore minimal records.
	DiscogsID int64  `bson:"discogs_id,omitempty" json:"discogsId,omitempty"`
	SpotifyID string `bson:"spotify_id,omitempty" json:"spotifyId,omitempty"`

	IsMaster bool               `bson:"is_master" json:"isMaster"`
	MasterID int64              `bson:"master_id,omitempty" json:"masterId,omitempty"`
	ParentID primitive.ObjectID `bson:"parent_id,omitempty" json:"parentId,omitempty"`

	CoverImage string  `bson:"cover_image,omitempty" json:"coverImage,omitempty"`
	Tracklist  []Track `bson:"tracklist,omitempty" json:"tracklist,omitempty"`
	Notes      string  `bson:"notes,omitempty" json:"notes,omitempty"`
	Unresolved bool    `bson:"unresolved,omitempty" json:"unresolved,omitempty"`

	// Back-reference lists, $addToSet/$pull only.
	Instruments []primitive.ObjectID `bson:"instruments" json:"instruments"`
	ArtistRefs  []primitive.ObjectID `bson:"artist_refs" json:"artistRefs"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
