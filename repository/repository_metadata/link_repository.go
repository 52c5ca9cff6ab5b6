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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type linkRepository struct {
	db               mongo.Database
	artistCollection string
	albumCollection  string
}

func NewLinkRepository(db mongo.Database, artistCollection, albumCollection string) metadata_interface.LinkRepository {
	return &linkRepository{
		db:               db,
		artistCollection: artistCollection,
		albumCollection:  albumCollection,
	}
}

// UpsertArtistLink inserts the join record only when the edge does not
// exist yet. $setOnInsert plus the unique (equipment_id, artist_id) index
// keeps the operation atomic and idempotent under concurrent syncs.
func (r *linkRepository) UpsertArtistLink(ctx context.Context, link *metadata_models.EquipmentArtistLink) (bool, error) {
	coll := r.db.Collection(r.artistCollection)

	filter := bson.M{
		"equipment_id": link.EquipmentID,
		"artist_id":    link.ArtistID,
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"equipment_id": link.EquipmentID,
			"artist_id":    link.ArtistID,
			"is_verified":  link.IsVerified,
			"notes":        link.Notes,
			"years_used":   link.YearsUsed,
			"created_by":   link.CreatedBy,
			"created_at":   time.Now().UTC(),
		},
	}

	result, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("equipment-artist link upsert failed: %w", err)
	}
	return result.UpsertedCount > 0, nil
}

func (r *linkRepository) UpsertAlbumLink(ctx context.Context, link *metadata_models.EquipmentAlbumLink) (bool, error) {
	coll := r.db.Collection(r.albumCollection)

	filter := bson.M{
		"equipment_id": link.EquipmentID,
		"album_id":     link.AlbumID,
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"equipment_id": link.EquipmentID,
			"album_id":     link.AlbumID,
			"is_verified":  link.IsVerified,
			"notes":        link.Notes,
			"years_used":   link.YearsUsed,
			"created_by":   link.CreatedBy,
			"created_at":   time.Now().UTC(),
		},
	}

	result, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("equipment-album link upsert failed: %w", err)
	}
	return result.UpsertedCount > 0, nil
}

func (r *linkRepository) DeleteArtistLink(ctx context.Context, equipmentID, artistID primitive.ObjectID) error {
	coll := r.db.Collection(r.artistCollection)

	_, err := coll.DeleteOne(ctx, bson.M{"equipment_id": equipmentID, "artist_id": artistID})
	if err != nil {
		return fmt.Errorf("equipment-artist link delete failed: %w", err)
	}
	return nil
}

func (r *linkRepository) DeleteAlbumLink(ctx context.Context, equipmentID, albumID primitive.ObjectID) error {
	coll := r.db.Collection(r.albumCollection)

	_, err := coll.DeleteOne(ctx, bson.M{"equipment_id": equipmentID, "album_id": albumID})
	if err != nil {
		return fmt.Errorf("equipment-album link delete failed: %w", err)
	}
	return nil
}

func (r *linkRepository) DeleteByEquipment(ctx context.Context, equipmentID primitive.ObjectID) (int64, error) {
	artistColl := r.db.Collection(r.artistCollection)
	albumColl := r.db.Collection(r.albumCollection)

	filter := bson.M{"equipment_id": equipmentID}

	artistCount, err := artistColl.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("equipment-artist links delete failed: %w", err)
	}
	albumCount, err := albumColl.DeleteMany(ctx, filter)
	if err != nil {
		return artistCount, fmt.Errorf("equipment-album links delete failed: %w", err)
	}
	return artistCount + albumCount, nil
}
