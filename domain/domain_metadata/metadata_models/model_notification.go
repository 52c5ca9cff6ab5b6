package metadata_models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AlertKindMetadata         = "metadata_alert"
	AlertCategoryArtistCreate = "artist_created"
)

// MetadataAlert flags a newly-created artist for manual curation (logo,
// description). The admin review queue reads these; writing one is always
// fire-and-forget.
type MetadataAlert struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind      string             `bson:"kind" json:"kind"`
	Category  string             `bson:"category" json:"category"`
	Key       string             `bson:"key" json:"key"`
	Label     string             `bson:"label" json:"label"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
