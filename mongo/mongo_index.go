package mongo

import (
	"context"
	"time"

	"github.com/gearshelf/gearshelf/domain"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIndexes installs the uniqueness constraints the resolvers rely on.
// Find-or-create races are settled here, not by application locking: a
// losing writer gets a duplicate-key error and re-reads.
func CreateIndexes(db Database, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Metadata: one record per canonical key within each kind.
	metadataCollection := db.Collection(domain.CollectionMetadata)
	createUniqueIndex(ctx, metadataCollection, bson.D{{Key: "type", Value: 1}, {Key: "key", Value: 1}}, "type_key_unique", nil, log)
	createIndex(ctx, metadataCollection, bson.D{{Key: "type", Value: 1}, {Key: "label", Value: 1}}, "type_label", log)
	createIndex(ctx, metadataCollection, bson.D{{Key: "instruments", Value: 1}}, "instruments", log)

	// Albums: external ids are unique where present; minimal local-only
	// records carry neither id, hence sparse. Master uniqueness only
	// applies to master records, hence the partial filter.
	albumCollection := db.Collection(domain.CollectionAlbum)
	createUniqueSparseIndex(ctx, albumCollection, bson.D{{Key: "discogs_id", Value: 1}}, "discogs_id_unique", log)
	createUniqueSparseIndex(ctx, albumCollection, bson.D{{Key: "spotify_id", Value: 1}}, "spotify_id_unique", log)
	createUniqueIndex(ctx, albumCollection, bson.D{{Key: "master_id", Value: 1}}, "master_id_unique",
		bson.D{{Key: "is_master", Value: true}}, log)
	createIndex(ctx, albumCollection, bson.D{{Key: "artist", Value: 1}, {Key: "title", Value: 1}}, "artist_title", log)
	createIndex(ctx, albumCollection, bson.D{{Key: "instruments", Value: 1}}, "instruments", log)
	createIndex(ctx, albumCollection, bson.D{{Key: "parent_id", Value: 1}}, "parent_id", log)

	// Join records: one edge per pair, both directions queried.
	equipmentArtistCollection := db.Collection(domain.CollectionEquipmentArtist)
	createUniqueIndex(ctx, equipmentArtistCollection, bson.D{{Key: "equipment_id", Value: 1}, {Key: "artist_id", Value: 1}}, "equipment_artist_unique", nil, log)
	createIndex(ctx, equipmentArtistCollection, bson.D{{Key: "artist_id", Value: 1}}, "artist_id", log)

	equipmentAlbumCollection := db.Collection(domain.CollectionEquipmentAlbum)
	createUniqueIndex(ctx, equipmentAlbumCollection, bson.D{{Key: "equipment_id", Value: 1}, {Key: "album_id", Value: 1}}, "equipment_album_unique", nil, log)
	createIndex(ctx, equipmentAlbumCollection, bson.D{{Key: "album_id", Value: 1}}, "album_id", log)

	notificationCollection := db.Collection(domain.CollectionNotification)
	createIndex(ctx, notificationCollection, bson.D{{Key: "kind", Value: 1}, {Key: "created_at", Value: -1}}, "kind_created", log)

	backfillCollection := db.Collection(domain.CollectionBackfillFailure)
	createIndex(ctx, backfillCollection, bson.D{{Key: "album_id", Value: 1}}, "album_id", log)
	createIndex(ctx, backfillCollection, bson.D{{Key: "run_id", Value: 1}}, "run_id", log)
}

func createIndex(ctx context.Context, coll Collection, keys bson.D, name string, log zerolog.Logger) {
	model := mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name),
	}
	if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
		log.Warn().Err(err).Str("index", name).Msg("index creation failed")
	}
}

func createUniqueIndex(ctx context.Context, coll Collection, keys bson.D, name string, partial bson.D, log zerolog.Logger) {
	opts := options.Index().SetName(name).SetUnique(true)
	if partial != nil {
		opts = opts.SetPartialFilterExpression(partial)
	}
	model := mongo.IndexModel{Keys: keys, Options: opts}
	if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
		log.Warn().Err(err).Str("index", name).Msg("unique index creation failed")
	}
}

func createUniqueSparseIndex(ctx context.Context, coll Collection, keys bson.D, name string, log zerolog.Logger) {
	model := mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name).SetUnique(true).SetSparse(true),
	}
	if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
		log.Warn().Err(err).Str("index", name).Msg("unique sparse index creation failed")
	}
}
