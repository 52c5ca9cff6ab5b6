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

type albumRepository struct {
	db         mongo.Database
	collection string
}

func NewAlbumRepository(db mongo.Database, collection string) metadata_interface.AlbumRepository {
	return &albumRepository{
		db:         db,
		collection: collection,
	}
}

func (r *albumRepository) Create(ctx context.Context, album *metadata_models.Album) error {
	coll := r.db.Collection(r.collection)

	now := time.Now().UTC()
	if album.ID.IsZero() {
		album.ID = primitive.NewObjectID()
	}
	if album.Instruments == nil {
		album.Instruments = []primitive.ObjectID{}
	}
	if album.ArtistRefs == nil {
		album.ArtistRefs = []primitive.ObjectID{}
	}
	album.CreatedAt = now
	album.UpdatedAt = now

	if _, err := coll.InsertOne(ctx, album); err != nil {
		if driver.IsDuplicateKeyError(err) {
			return fmt.Errorf("album %q: %w", album.Title, domain.ErrConflict)
		}
		return fmt.Errorf("album create failed: %w", err)
	}
	return nil
}

func (r *albumRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*metadata_models.Album, error) {
	return r.getOne(ctx, bson.M{"_id": id})
}

func (r *albumRepository) GetByDiscogsID(ctx context.Context, discogsID int64) (*metadata_models.Album, error) {
	return r.getOne(ctx, bson.M{"discogs_id": discogsID, "is_master": false})
}

func (r *albumRepository) GetBySpotifyID(ctx context.Context, spotifyID string) (*metadata_models.Album, error) {
	return r.getOne(ctx, bson.M{"spotify_id": spotifyID})
}

func (r *albumRepository) GetMasterByExternalID(ctx context.Context, masterID int64) (*metadata_models.Album, error) {
	return r.getOne(ctx, bson.M{"master_id": masterID, "is_master": true})
}

// FindLocalMatch matches a release by case-insensitive exact artist AND
// title. Generic titles ("Greatest Hits") made an either/or match too
// loose, so both fields have to agree.
func (r *albumRepository) FindLocalMatch(ctx context.Context, artist, title string) (*metadata_models.Album, error) {
	filter := bson.M{
		"is_master": false,
		"artist": primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(artist)) + "$",
			Options: "i",
		},
		"title": primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(title)) + "$",
			Options: "i",
		},
	}
	return r.getOne(ctx, filter)
}

func (r *albumRepository) SetParent(ctx context.Context, albumID, parentID primitive.ObjectID, masterID int64) error {
	coll := r.db.Collection(r.collection)

	update := bson.M{
		"$set": bson.M{
			"parent_id":  parentID,
			"master_id":  masterID,
			"updated_at": time.Now().UTC(),
		},
	}
	if _, err := coll.UpdateByID(ctx, albumID, update); err != nil {
		return fmt.Errorf("album parent link failed: %w", err)
	}
	return nil
}

// ListReleasesMissingMaster selects equipment-linked releases that carry a
// catalog release id but were never linked to a master record — the
// backfill's work queue.
func (r *albumRepository) ListReleasesMissingMaster(ctx context.Context) ([]*metadata_models.Album, error) {
	coll := r.db.Collection(r.collection)

	filter := bson.M{
		"is_master":      false,
		"discogs_id":     bson.M{"$gt": 0},
		"master_id":      bson.M{"$exists": false},
		"instruments.0":  bson.M{"$exists": true},
	}

	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list releases missing master failed: %w", err)
	}
	defer cursor.Close(ctx)

	var albums []*metadata_models.Album
	if err := cursor.All(ctx, &albums); err != nil {
		return nil, fmt.Errorf("decode releases missing master failed: %w", err)
	}
	return albums, nil
}

func (r *albumRepository) AddArtistRef(ctx context.Context, albumID, artistID primitive.ObjectID) error {
	coll := r.db.Collection(r.collection)

	update := bson.M{
		"$addToSet": bson.M{"artist_refs": artistID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	if _, err := coll.UpdateByID(ctx, albumID, update); err != nil {
		return fmt.Errorf("album artist ref add failed: %w", err)
	}
	return nil
}

func (r *albumRepository) AddInstrument(ctx context.Context, albumID, equipmentID primitive.ObjectID) error {
	coll := r.db.Collection(r.collection)

	update := bson.M{
		"$addToSet": bson.M{"instruments": equipmentID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	if _, err := coll.UpdateByID(ctx, albumID, update); err != nil {
		return fmt.Errorf("album instrument add failed: %w", err)
	}
	return nil
}

func (r *albumRepository) RemoveInstrument(ctx context.Context, albumID, equipmentID primitive.ObjectID) error {
	coll := r.db.Collection(r.collection)

	update := bson.M{
		"$pull": bson.M{"instruments": equipmentID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	if _, err := coll.UpdateByID(ctx, albumID, update); err != nil {
		return fmt.Errorf("album instrument remove failed: %w", err)
	}
	return nil
}

func (r *albumRepository) RemoveInstrumentEverywhere(ctx context.Context, equipmentID primitive.ObjectID) (int64, error) {
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
		return 0, fmt.Errorf("album instrument cleanup failed: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *albumRepository) getOne(ctx context.Context, filter bson.M) (*metadata_models.Album, error) {
	coll := r.db.Collection(r.collection)

	var album metadata_models.Album
	err := coll.FindOne(ctx, filter).Decode(&album)
	if err != nil {
		if strings.Contains(err.Error(), "no documents in result") {
			return nil, nil
		}
		return nil, fmt.Errorf("album lookup failed: %w", err)
	}
	return &album, nil
}
