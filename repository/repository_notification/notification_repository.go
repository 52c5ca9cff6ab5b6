package repository_notification

import (
	"context"
	"fmt"
	"time"

	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_interface"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"github.com/gearshelf/gearshelf/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Persists metadata alerts for the admin review queue. This is the sink
// behind the fire-and-forget notify call; callers log and move on when it
// errors.
type notificationRepository struct {
	db         mongo.Database
	collection string
}

func NewNotificationRepository(db mongo.Database, collection string) metadata_interface.Notifier {
	return &notificationRepository{
		db:         db,
		collection: collection,
	}
}

func (r *notificationRepository) Notify(ctx context.Context, alert *metadata_models.MetadataAlert) error {
	coll := r.db.Collection(r.collection)

	if alert.ID.IsZero() {
		alert.ID = primitive.NewObjectID()
	}
	if alert.Kind == "" {
		alert.Kind = metadata_models.AlertKindMetadata
	}
	alert.CreatedAt = time.Now().UTC()

	if _, err := coll.InsertOne(ctx, alert); err != nil {
		return fmt.Errorf("metadata alert insert failed: %w", err)
	}
	return nil
}
