package metadata_interface

import (
	"context"

	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lookup methods return (nil, nil) when no record matches; errors are
// reserved for store failures. Create methods return domain.ErrConflict
// (wrapped) when a unique index rejects the document, which callers treat
// as "someone else just created it, re-read".

type ArtistRepository interface {
	Create(ctx context.Context, artist *metadata_models.Artist) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*metadata_models.Artist, error)
	GetByKey(ctx context.Context, key string) (*metadata_models.Artist, error)
	GetByLabelFold(ctx context.Context, label string) (*metadata_models.Artist, error)
	AddInstrument(ctx context.Context, artistID, equipmentID primitive.ObjectID) error
	RemoveInstrument(ctx context.Context, artistID, equipmentID primitive.ObjectID) error
	RemoveInstrumentEverywhere(ctx context.Context, equipmentID primitive.ObjectID) (int64, error)
}

type AlbumRepository interface {
	Create(ctx context.Context, album *metadata_models.Album) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*metadata_models.Album, error)
	GetByDiscogsID(ctx context.Context, discogsID int64) (*metadata_models.Album, error)
	GetBySpotifyID(ctx context.Context, spotifyID string) (*metadata_models.Album, error)
	GetMasterByExternalID(ctx context.Context, masterID int64) (*metadata_models.Album, error)
	FindLocalMatch(ctx context.Context, artist, title string) (*metadata_models.Album, error)
	SetParent(ctx context.Context, albumID, parentID primitive.ObjectID, masterID int64) error
	ListReleasesMissingMaster(ctx context.Context) ([]*metadata_models.Album, error)
	AddArtistRef(ctx context.Context, albumID, artistID primitive.ObjectID) error
	AddInstrument(ctx context.Context, albumID, equipmentID primitive.ObjectID) error
	RemoveInstrument(ctx context.Context, albumID, equipmentID primitive.ObjectID) error
	RemoveInstrumentEverywhere(ctx context.Context, equipmentID primitive.ObjectID) (int64, error)
}

type LinkRepository interface {
	UpsertArtistLink(ctx context.Context, link *metadata_models.EquipmentArtistLink) (created bool, err error)
	UpsertAlbumLink(ctx context.Context, link *metadata_models.EquipmentAlbumLink) (created bool, err error)
	DeleteArtistLink(ctx context.Context, equipmentID, artistID primitive.ObjectID) error
	DeleteAlbumLink(ctx context.Context, equipmentID, albumID primitive.ObjectID) error
	DeleteByEquipment(ctx context.Context, equipmentID primitive.ObjectID) (int64, error)
}

// ReleaseCatalog is the release/master-oriented external catalog.
// Implementations return domain.ErrNotFound for missing records and
// domain.ErrUnavailable for transport failures or missing credentials.
type ReleaseCatalog interface {
	Search(ctx context.Context, query string) ([]metadata_models.SearchHit, error)
	FetchRelease(ctx context.Context, externalID int64) (*metadata_models.CatalogRelease, error)
	FetchMaster(ctx context.Context, externalID int64) (*metadata_models.CatalogMaster, error)
}

// StreamingCatalog is the streaming-service external catalog.
type StreamingCatalog interface {
	FetchAlbum(ctx context.Context, externalID string) (*metadata_models.StreamingAlbum, error)
	SearchAlbums(ctx context.Context, query string) ([]metadata_models.StreamingAlbum, error)
}

// Notifier is the administrative notification sink. Callers never fail on
// a notify error.
type Notifier interface {
	Notify(ctx context.Context, alert *metadata_models.MetadataAlert) error
}

type BackfillFailureRepository interface {
	Record(ctx context.Context, failure *metadata_models.BackfillFailure) error
	Clear(ctx context.Context, albumID primitive.ObjectID) error
	List(ctx context.Context) ([]*metadata_models.BackfillFailure, error)
}

type ArtistResolverUsecase interface {
	// EnsureArtistsExist returns the full key→id map for every valid
	// reference plus the number of records newly created.
	EnsureArtistsExist(ctx context.Context, refs []metadata_models.ArtistRef) (map[string]primitive.ObjectID, int, error)
}

type AlbumResolverUsecase interface {
	GetOrCreateAlbum(ctx context.Context, provider metadata_models.CatalogProvider, externalID string) (*metadata_models.Album, bool, error)
	EnsureAlbumsExist(ctx context.Context, refs []metadata_models.AlbumRef) (map[string]primitive.ObjectID, int, error)
}

// MasterResolver resolves (creating if needed) the local master record for
// a fetched release. Shared between the online album path and the backfill.
type MasterResolver interface {
	ResolveMaster(ctx context.Context, release *metadata_models.CatalogRelease) (*metadata_models.Album, error)
}

type SyncOp string

const (
	SyncAdd    SyncOp = "add"
	SyncRemove SyncOp = "remove"
)

type RelationSyncUsecase interface {
	SyncEquipmentToArtist(ctx context.Context, equipmentID, artistID primitive.ObjectID, op SyncOp, prov metadata_models.Provenance) error
	SyncEquipmentToAlbum(ctx context.Context, equipmentID, albumID primitive.ObjectID, op SyncOp, prov metadata_models.Provenance) error
	SyncAlbumToArtist(ctx context.Context, albumID primitive.ObjectID, artistName string) error
	BatchSyncInstrument(ctx context.Context, equipmentID primitive.ObjectID, artistIDs, albumIDs []primitive.ObjectID) (int, error)
	CleanupOrphanedReferences(ctx context.Context, equipmentID primitive.ObjectID) error
}

type EnrichUsecase interface {
	Enrich(ctx context.Context, equipmentID primitive.ObjectID, input metadata_models.EnrichInput, actorID string) *metadata_models.EnrichResult
}

type BackfillUsecase interface {
	Run(ctx context.Context) (*metadata_models.BackfillReport, error)
}
