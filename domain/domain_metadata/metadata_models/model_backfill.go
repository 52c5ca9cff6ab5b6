package metadata_models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BackfillFailure records one release the master backfill could not repair,
// so a narrower re-run can target just the failed records. Cleared when a
// later run fixes the release.
type BackfillFailure struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RunID     string             `bson:"run_id" json:"runId"`
	AlbumID   primitive.ObjectID `bson:"album_id" json:"albumId"`
	DiscogsID int64              `bson:"discogs_id" json:"discogsId"`
	Reason    string             `bson:"reason" json:"reason"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// BackfillReport summarizes one backfill run.
type BackfillReport struct {
	RunID   string `json:"runId"`
	Scanned int    `json:"scanned"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}
