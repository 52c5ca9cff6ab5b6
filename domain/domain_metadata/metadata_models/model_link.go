package metadata_models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Provenance carries the caller-supplied context for a relationship edge.
type Provenance struct {
	IsVerified bool   `bson:"is_verified" json:"isVerified"`
	Notes      string `bson:"notes,omitempty" json:"notes,omitempty"`
	YearsUsed  string `bson:"years_used,omitempty" json:"yearsUsed,omitempty"`
	CreatedBy  string `bson:"created_by,omitempty" json:"createdBy,omitempty"`
}

// EquipmentArtistLink is the equipment↔artist join record. A unique index
// on (equipment_id, artist_id) makes the upsert idempotent; the same edge
// is additionally mirrored in Artist.Instruments.
type EquipmentArtistLink struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EquipmentID primitive.ObjectID `bson:"equipment_id" json:"equipmentId"`
	ArtistID    primitive.ObjectID `bson:"artist_id" json:"artistId"`
	IsVerified  bool               `bson:"is_verified" json:"isVerified"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	YearsUsed   string             `bson:"years_used,omitempty" json:"yearsUsed,omitempty"`
	CreatedBy   string             `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// EquipmentAlbumLink is the equipment↔album join record, same shape and
// same uniqueness rule as the artist side.
type EquipmentAlbumLink struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EquipmentID primitive.ObjectID `bson:"equipment_id" json:"equipmentId"`
	AlbumID     primitive.ObjectID `bson:"album_id" json:"albumId"`
	IsVerified  bool               `bson:"is_verified" json:"isVerified"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	YearsUsed   string             `bson:"years_used,omitempty" json:"yearsUsed,omitempty"`
	CreatedBy   string             `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
