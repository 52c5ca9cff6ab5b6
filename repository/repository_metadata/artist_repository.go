package repository_metadata

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gearshelf/gearshelf/domain"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_interface"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"github.com/gearshelf/gearshelf/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
)

type artistRepository struct {
	db         mongo.Database
	collection string
}

func NewArtistRepository(db mongo.Database, collection string) metadata_interface.ArtistRepository {
	return &artistRepository{
		db:         db,
		collection: collection,
	}
}

func (r *artistRepository) Create(ctx context.Context, artist *metadata_models.Artist) error {
	coll := r.db.Collection(r.collection)

	now := time.Now().UTC()
	if artist.ID.IsZero() {
		artist.ID = primitive.NewObjectID()
	}
	if artist.Type == "" {
		artist.Type = metadata_models.MetadataTypeArtist
	}
	if artist.Instruments == nil {
		artist.Instruments = []primitive.ObjectID{}
	}
	artist.CreatedAt = now
	artist.UpdatedAt = now

	if _, err := coll.InsertOne(ctx, artist); err != nil {
		if driver.IsDuplicateKeyError(err) {
			return fmt.Errorf("artist %q: %w", artist.Key, domain.ErrConflict)
		}
		return fmt.Errorf("artist create failed: %w", err)
	}
	return nil
}

func (r *artistRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*metadata_models.Artist, error) {
	coll := r.db.Collection(r.collection)

	var artist metadata_models.Artist
	err := coll.FindOne(ctx, bson.M{"_id": id, "type": metadata_models.MetadataTypeArtist}).Decode(&artist)
	if err != nil {
		if strings.Contains(err.Error(), "no documents in result") {
			return nil, nil
		}
		return nil, fmt.Errorf("get artist by ID failed: %w", err)
	}
	return &artist, nil
}

func (r *artistRepository) GetByKey(ctx context.Context, key string) (*metadata_models.Artist, error) {
	coll := r.db.Collection(r.collection)

	var artist metadata_models.Artist
	err := coll.FindOne(ctx, bson.M{"type": metadata_models.MetadataTypeArtist, "key": key}).Decode(&artist)
	if err != nil {
		if strings.Contains(err.Error(), "no documents in result") {
			return nil, nil
		}
		return nil, fmt.Errorf("get artist by key failed: %w", err)
	}
	return &artist, nil
}

func (r *artistRepository) GetByLabelFold(ctx context.Context, label string) (*metadata_models.Artist, error) {
	coll := r.db.Collection(r.collection)

	filter := bson.M{
		"type": metadata_models.MetadataTypeArtist,
		"label": primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(label) + "$",
			Options: "i",
		},
	}

	var artist metadata_models.Artist
	err := coll.FindOne(ctx, filter).Decode(&artist)
	if err != nil {
		if strings.Contains(err.Error(), "no documents in result") {
			return nil, nil
		}
		return nil, fmt.Errorf("get artist by label failed: %w", err)
	}
	return &artist, nil
}

func (r *artistRepository) AddInstrument(ctx context.Context, artistID, equipmentID primitive.ObjectID) error {
	coll := r.db.Collection(r.collection)

	update := bson.M{
		"$addToSet": bson.M{"instruments": equipmentID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	if _, err := coll.UpdateByID(ctx, artistID, update); err != nil {
		return fmt.Errorf("artist instrument add failed: %w", err)
	}
	return nil
}

func (r *artistRepository) RemoveInstrument(ctx context.Context, artistID, equipmentID primitive.ObjectID) error {
	coll := r.db.Collection(r.collection)

	update := bson.M{
		"$pull": bson.M{"instruments": equipmentID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	if _, err := coll.UpdateByID(ctx, artistID, update); err != nil {
		return fmt.Errorf("artist instrument remove failed: %w", err)
	}
	return nil
}

func (r *artistRepository) RemoveInstrumentEverywhere(ctx context.Context, equipmentID primitive.ObjectID) (int64, error) {
	coll := r.db.Collection(r.collection)

	result, err := coll.UpdateMany(
		ctx,
		bson.M{"instruments": equipmentID},
		bson.M{
			"$pull": bson.M{"instruments": equipmentID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("artist instrument cleanup failed: %w", err)
	}
	return result.ModifiedCount, nil
}
