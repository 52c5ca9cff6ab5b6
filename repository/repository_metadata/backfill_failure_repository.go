package repository_metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_interface"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"github.com/gearshelf/gearshelf/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type backfillFailureRepository struct {
	db         mongo.Database
	collection string
}

func NewBackfillFailureRepository(db mongo.Database, collection string) metadata_interface.BackfillFailureRepository {
	return &backfillFailureRepository{
		db:         db,
		collection: collection,
	}
}

// Record keeps at most one failure entry per album: a repeat failure
// replaces the previous one rather than piling up.
func (r *backfillFailureRepository) Record(ctx context.Context, failure *metadata_models.BackfillFailure) error {
	coll := r.db.Collection(r.collection)

	if _, err := coll.DeleteMany(ctx, bson.M{"album_id": failure.AlbumID}); err != nil {
		return fmt.Errorf("backfill failure replace failed: %w", err)
	}

	if failure.ID.IsZero() {
		failure.ID = primitive.NewObjectID()
	}
	failure.CreatedAt = time.Now().UTC()
	if _, err := coll.InsertOne(ctx, failure); err != nil {
		return fmt.Errorf("backfill failure record failed: %w", err)
	}
	return nil
}

func (r *backfillFailureRepository) Clear(ctx context.Context, albumID primitive.ObjectID) error {
	coll := r.db.Collection(r.collection)

	if _, err := coll.DeleteMany(ctx, bson.M{"album_id": albumID}); err != nil {
		return fmt.Errorf("backfill failure clear failed: %w", err)
	}
	return nil
}

func (r *backfillFailureRepository) List(ctx context.Context) ([]*metadata_models.BackfillFailure, error) {
	coll := r.db.Collection(r.collection)

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("backfill failure list failed: %w", err)
	}
	defer cursor.Close(ctx)

	var failures []*metadata_models.BackfillFailure
	if err := cursor.All(ctx, &failures); err != nil {
		return nil, fmt.Errorf("backfill failure decode failed: %w", err)
	}
	return failures, nil
}
