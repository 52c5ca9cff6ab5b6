package metadata_models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Metadata kinds sharing the metadata collection. This subsystem only ever
// writes the artist kind; brand/decade/type records are curated elsewhere.
const MetadataTypeArtist = "artist"

// Artist is the local metadata record for a musical artist, created lazily
// on first reference and never deleted by this subsystem (only unlinked).
// At most one record exists per (type, key) pair, enforced by a unique
// index, so concurrent creates collapse into one document.
type Artist struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type        string             `bson:"type" json:"type"`
	Key         string             `bson:"key" json:"key"`
	Label       string             `bson:"label" json:"label"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	// Instruments mirrors the equipment↔artist join records as a
	// back-reference list of equipment ids. Mutated only through
	// $addToSet/$pull so concurrent syncs never lose an update.
	Instruments []primitive.ObjectID `bson:"instruments" json:"instruments"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
