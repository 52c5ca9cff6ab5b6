package usecase_metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gearshelf/gearshelf/domain"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("store unreachable")

// In-memory repositories enforcing the same uniqueness rules as the Mongo
// indexes, so the conflict-as-control-flow paths are exercised for real.

type fakeArtistRepo struct {
	mu      sync.Mutex
	byID    map[primitive.ObjectID]*metadata_models.Artist
	down    bool
	creates int
}

func newFakeArtistRepo() *fakeArtistRepo {
	return &fakeArtistRepo{byID: map[primitive.ObjectID]*metadata_models.Artist{}}
}

func (f *fakeArtistRepo) Create(ctx context.Context, artist *metadata_models.Artist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errStoreDown
	}
	for _, existing := range f.byID {
		if existing.Type == artist.Type && existing.Key == artist.Key {
			return fmt.Errorf("artist %q: %w", artist.Key, domain.ErrConflict)
		}
	}
	if artist.ID.IsZero() {
		artist.ID = primitive.NewObjectID()
	}
	if artist.Instruments == nil {
		artist.Instruments = []primitive.ObjectID{}
	}
	clone := *artist
	f.byID[artist.ID] = &clone
	f.creates++
	return nil
}

func (f *fakeArtistRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*metadata_models.Artist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errStoreDown
	}
	if artist, ok := f.byID[id]; ok {
		clone := *artist
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeArtistRepo) GetByKey(ctx context.Context, key string) (*metadata_models.Artist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errStoreDown
	}
	for _, artist := range f.byID {
		if artist.Key == key {
			clone := *artist
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeArtistRepo) GetByLabelFold(ctx context.Context, label string) (*metadata_models.Artist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errStoreDown
	}
	for _, artist := range f.byID {
		if strings.EqualFold(artist.Label, strings.TrimSpace(label)) {
			clone := *artist
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeArtistRepo) AddInstrument(ctx context.Context, artistID, equipmentID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	artist, ok := f.byID[artistID]
	if !ok {
		return fmt.Errorf("artist %s missing", artistID.Hex())
	}
	artist.Instruments = addToSet(artist.Instruments, equipmentID)
	return nil
}

func (f *fakeArtistRepo) RemoveInstrument(ctx context.Context, artistID, equipmentID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if artist, ok := f.byID[artistID]; ok {
		artist.Instruments = removeFromSet(artist.Instruments, equipmentID)
	}
	return nil
}

func (f *fakeArtistRepo) RemoveInstrumentEverywhere(ctx context.Context, equipmentID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, artist := range f.byID {
		before := len(artist.Instruments)
		artist.Instruments = removeFromSet(artist.Instruments, equipmentID)
		if len(artist.Instruments) != before {
			count++
		}
	}
	return count, nil
}

type fakeAlbumRepo struct {
	mu      sync.Mutex
	byID    map[primitive.ObjectID]*metadata_models.Album
	down    bool
	creates int
	parents int
}

func newFakeAlbumRepo() *fakeAlbumRepo {
	return &fakeAlbumRepo{byID: map[primitive.ObjectID]*metadata_models.Album{}}
}

func (f *fakeAlbumRepo) Create(ctx context.Context, album *metadata_models.Album) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errStoreDown
	}
	for _, existing := range f.byID {
		if album.DiscogsID != 0 && existing.DiscogsID == album.DiscogsID && existing.IsMaster == album.IsMaster {
			return fmt.Errorf("album %q: %w", album.Title, domain.ErrConflict)
		}
		if album.SpotifyID != "" && existing.SpotifyID == album.SpotifyID {
			return fmt.Errorf("album %q: %w", album.Title, domain.ErrConflict)
		}
		if album.IsMaster && existing.IsMaster && existing.MasterID == album.MasterID {
			return fmt.Errorf("album %q: %w", album.Title, domain.ErrConflict)
		}
	}
	if album.ID.IsZero() {
		album.ID = primitive.NewObjectID()
	}
	if album.Instruments == nil {
		album.Instruments = []primitive.ObjectID{}
	}
	if album.ArtistRefs == nil {
		album.ArtistRefs = []primitive.ObjectID{}
	}
	clone := *album
	f.byID[album.ID] = &clone
	f.creates++
	return nil
}

func (f *fakeAlbumRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*metadata_models.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if album, ok := f.byID[id]; ok {
		clone := *album
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeAlbumRepo) GetByDiscogsID(ctx context.Context, discogsID int64) (*metadata_models.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errStoreDown
	}
	for _, album := range f.byID {
		if !album.IsMaster && album.DiscogsID == discogsID {
			clone := *album
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeAlbumRepo) GetBySpotifyID(ctx context.Context, spotifyID string) (*metadata_models.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, album := range f.byID {
		if album.SpotifyID == spotifyID {
			clone := *album
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeAlbumRepo) GetMasterByExternalID(ctx context.Context, masterID int64) (*metadata_models.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, album := range f.byID {
		if album.IsMaster && album.MasterID == masterID {
			clone := *album
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeAlbumRepo) FindLocalMatch(ctx context.Context, artist, title string) (*metadata_models.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errStoreDown
	}
	for _, album := range f.byID {
		if album.IsMaster {
			continue
		}
		if strings.EqualFold(album.Artist, strings.TrimSpace(artist)) && strings.EqualFold(album.Title, strings.TrimSpace(title)) {
			clone := *album
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeAlbumRepo) SetParent(ctx context.Context, albumID, parentID primitive.ObjectID, masterID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	album, ok := f.byID[albumID]
	if !ok {
		return fmt.Errorf("album %s missing", albumID.Hex())
	}
	album.ParentID = parentID
	album.MasterID = masterID
	f.parents++
	return nil
}

func (f *fakeAlbumRepo) ListReleasesMissingMaster(ctx context.Context) ([]*metadata_models.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*metadata_models.Album
	for _, album := range f.byID {
		if !album.IsMaster && album.DiscogsID > 0 && album.MasterID == 0 && len(album.Instruments) > 0 {
			clone := *album
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeAlbumRepo) AddArtistRef(ctx context.Context, albumID, artistID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	album, ok := f.byID[albumID]
	if !ok {
		return fmt.Errorf("album %s missing", albumID.Hex())
	}
	album.ArtistRefs = addToSet(album.ArtistRefs, artistID)
	return nil
}

func (f *fakeAlbumRepo) AddInstrument(ctx context.Context, albumID, equipmentID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	album, ok := f.byID[albumID]
	if !ok {
		return fmt.Errorf("album %s missing", albumID.Hex())
	}
	album.Instruments = addToSet(album.Instruments, equipmentID)
	return nil
}

func (f *fakeAlbumRepo) RemoveInstrument(ctx context.Context, albumID, equipmentID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if album, ok := f.byID[albumID]; ok {
		album.Instruments = removeFromSet(album.Instruments, equipmentID)
	}
	return nil
}

func (f *fakeAlbumRepo) RemoveInstrumentEverywhere(ctx context.Context, equipmentID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, album := range f.byID {
		before := len(album.Instruments)
		album.Instruments = removeFromSet(album.Instruments, equipmentID)
		if len(album.Instruments) != before {
			count++
		}
	}
	return count, nil
}

type fakeLinkRepo struct {
	mu           sync.Mutex
	artistLinks  map[string]*metadata_models.EquipmentArtistLink
	albumLinks   map[string]*metadata_models.EquipmentAlbumLink
	failArtistID primitive.ObjectID
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{
		artistLinks: map[string]*metadata_models.EquipmentArtistLink{},
		albumLinks:  map[string]*metadata_models.EquipmentAlbumLink{},
	}
}

func edgeKey(a, b primitive.ObjectID) string {
	return a.Hex() + "/" + b.Hex()
}

func (f *fakeLinkRepo) UpsertArtistLink(ctx context.Context, link *metadata_models.EquipmentArtistLink) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if link.ArtistID == f.failArtistID && !f.failArtistID.IsZero() {
		return false, errStoreDown
	}
	key := edgeKey(link.EquipmentID, link.ArtistID)
	if _, ok := f.artistLinks[key]; ok {
		return false, nil
	}
	clone := *link
	f.artistLinks[key] = &clone
	return true, nil
}

func (f *fakeLinkRepo) UpsertAlbumLink(ctx context.Context, link *metadata_models.EquipmentAlbumLink) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := edgeKey(link.EquipmentID, link.AlbumID)
	if _, ok := f.albumLinks[key]; ok {
		return false, nil
	}
	clone := *link
	f.albumLinks[key] = &clone
	return true, nil
}

func (f *fakeLinkRepo) DeleteArtistLink(ctx context.Context, equipmentID, artistID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.artistLinks, edgeKey(equipmentID, artistID))
	return nil
}

func (f *fakeLinkRepo) DeleteAlbumLink(ctx context.Context, equipmentID, albumID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.albumLinks, edgeKey(equipmentID, albumID))
	return nil
}

func (f *fakeLinkRepo) DeleteByEquipment(ctx context.Context, equipmentID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for key, link := range f.artistLinks {
		if link.EquipmentID == equipmentID {
			delete(f.artistLinks, key)
			count++
		}
	}
	for key, link := range f.albumLinks {
		if link.EquipmentID == equipmentID {
			delete(f.albumLinks, key)
			count++
		}
	}
	return count, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts []*metadata_models.MetadataAlert
	fail   bool
}

func (f *fakeNotifier) Notify(ctx context.Context, alert *metadata_models.MetadataAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("notification sink down")
	}
	f.alerts = append(f.alerts, alert)
	return nil
}

// fakeReleaseCatalog scripts the release catalog. down makes every call
// report ErrUnavailable; masterDown degrades only the master endpoint.
type fakeReleaseCatalog struct {
	mu           sync.Mutex
	hits         map[string][]metadata_models.SearchHit
	releases     map[int64]*metadata_models.CatalogRelease
	masters      map[int64]*metadata_models.CatalogMaster
	down         bool
	masterDown   bool
	searchCalls  int
	releaseCalls int
	masterCalls  int
}

func newFakeReleaseCatalog() *fakeReleaseCatalog {
	return &fakeReleaseCatalog{
		hits:     map[string][]metadata_models.SearchHit{},
		releases: map[int64]*metadata_models.CatalogRelease{},
		masters:  map[int64]*metadata_models.CatalogMaster{},
	}
}

func (f *fakeReleaseCatalog) Search(ctx context.Context, query string) ([]metadata_models.SearchHit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.down {
		return nil, fmt.Errorf("search: %w", domain.ErrUnavailable)
	}
	return f.hits[query], nil
}

func (f *fakeReleaseCatalog) FetchRelease(ctx context.Context, externalID int64) (*metadata_models.CatalogRelease, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releaseCalls++
	if f.down {
		return nil, fmt.Errorf("release %d: %w", externalID, domain.ErrUnavailable)
	}
	if release, ok := f.releases[externalID]; ok {
		clone := *release
		return &clone, nil
	}
	return nil, fmt.Errorf("release %d: %w", externalID, domain.ErrNotFound)
}

func (f *fakeReleaseCatalog) FetchMaster(ctx context.Context, externalID int64) (*metadata_models.CatalogMaster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.masterCalls++
	if f.down || f.masterDown {
		return nil, fmt.Errorf("master %d: %w", externalID, domain.ErrUnavailable)
	}
	if master, ok := f.masters[externalID]; ok {
		clone := *master
		return &clone, nil
	}
	return nil, fmt.Errorf("master %d: %w", externalID, domain.ErrNotFound)
}

type fakeStreamingCatalog struct {
	albums map[string]*metadata_models.StreamingAlbum
	down   bool
}

func newFakeStreamingCatalog() *fakeStreamingCatalog {
	return &fakeStreamingCatalog{albums: map[string]*metadata_models.StreamingAlbum{}}
}

func (f *fakeStreamingCatalog) FetchAlbum(ctx context.Context, externalID string) (*metadata_models.StreamingAlbum, error) {
	if f.down {
		return nil, fmt.Errorf("album %s: %w", externalID, domain.ErrUnavailable)
	}
	if album, ok := f.albums[externalID]; ok {
		clone := *album
		return &clone, nil
	}
	return nil, fmt.Errorf("album %s: %w", externalID, domain.ErrNotFound)
}

func (f *fakeStreamingCatalog) SearchAlbums(ctx context.Context, query string) ([]metadata_models.StreamingAlbum, error) {
	if f.down {
		return nil, fmt.Errorf("search: %w", domain.ErrUnavailable)
	}
	return nil, nil
}

func addToSet(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range set {
		if existing == id {
			return set
		}
	}
	return append(set, id)
}

func removeFromSet(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := set[:0]
	for _, existing := range set {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
