package usecase_metadata

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeFailureRepo struct {
	mu      sync.Mutex
	byAlbum map[primitive.ObjectID]*metadata_models.BackfillFailure
}

func newFakeFailureRepo() *fakeFailureRepo {
	return &fakeFailureRepo{byAlbum: map[primitive.ObjectID]*metadata_models.BackfillFailure{}}
}

func (f *fakeFailureRepo) Record(ctx context.Context, failure *metadata_models.BackfillFailure) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *failure
	f.byAlbum[failure.AlbumID] = &clone
	return nil
}

func (f *fakeFailureRepo) Clear(ctx context.Context, albumID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byAlbum, albumID)
	return nil
}

func (f *fakeFailureRepo) List(ctx context.Context) ([]*metadata_models.BackfillFailure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*metadata_models.BackfillFailure, 0, len(f.byAlbum))
	for _, failure := range f.byAlbum {
		clone := *failure
		out = append(out, &clone)
	}
	return out, nil
}

type backfillHarness struct {
	albums   *fakeAlbumRepo
	catalog  *fakeReleaseCatalog
	failures *fakeFailureRepo
	job      *MasterBackfill
}

func newBackfillHarness() *backfillHarness {
	h := &backfillHarness{
		albums:   newFakeAlbumRepo(),
		catalog:  newFakeReleaseCatalog(),
		failures: newFakeFailureRepo(),
	}
	resolver := NewAlbumResolver(h.albums, h.catalog, newFakeStreamingCatalog(), 5*time.Second, zerolog.Nop())
	h.job = NewMasterBackfill(h.albums, h.catalog, resolver, h.failures, time.Millisecond, zerolog.Nop())
	return h
}

// seedLegacyRelease stores a release record the way the system wrote them
// before the master hierarchy existed: a catalog id, an equipment edge, no
// parent.
func (h *backfillHarness) seedLegacyRelease(t *testing.T, discogsID int64, title string) *metadata_models.Album {
	t.Helper()
	album := &metadata_models.Album{
		Artist:      "Kraftwerk",
		Title:       title,
		DiscogsID:   discogsID,
		Instruments: []primitive.ObjectID{primitive.NewObjectID()},
	}
	require.NoError(t, h.albums.Create(context.Background(), album))
	return album
}

func TestBackfillRetrofitsMasters(t *testing.T) {
	h := newBackfillHarness()
	legacy := h.seedLegacyRelease(t, 101, "Autobahn")
	h.catalog.releases[101] = autobahnRelease()
	h.catalog.masters[900] = &metadata_models.CatalogMaster{ExternalID: 900, Title: "Autobahn", Year: 1974}

	report, err := h.job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Updated)
	assert.Zero(t, report.Skipped)
	assert.Zero(t, report.Failed)

	repaired, err := h.albums.GetByID(context.Background(), legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(900), repaired.MasterID)
	assert.False(t, repaired.ParentID.IsZero())

	master, err := h.albums.GetByID(context.Background(), repaired.ParentID)
	require.NoError(t, err)
	require.NotNil(t, master)
	assert.True(t, master.IsMaster)
}

func TestBackfillSecondRunFindsNothing(t *testing.T) {
	h := newBackfillHarness()
	h.seedLegacyRelease(t, 101, "Autobahn")
	h.catalog.releases[101] = autobahnRelease()
	h.catalog.masters[900] = &metadata_models.CatalogMaster{ExternalID: 900, Title: "Autobahn"}

	first, err := h.job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Updated)
	parentsAfterFirst := h.albums.parents

	second, err := h.job.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, second.Scanned, "repaired releases leave the work queue")
	assert.Equal(t, parentsAfterFirst, h.albums.parents)
}

func TestBackfillSkipsReleasesWithoutEquipmentEdges(t *testing.T) {
	h := newBackfillHarness()
	orphan := &metadata_models.Album{Artist: "Kraftwerk", Title: "Autobahn", DiscogsID: 101}
	require.NoError(t, h.albums.Create(context.Background(), orphan))

	report, err := h.job.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Scanned, "only records something links to are worth a catalog call")
	assert.Zero(t, h.catalog.releaseCalls)
}

func TestBackfillSkipsVanishedAndMasterlessReleases(t *testing.T) {
	h := newBackfillHarness()
	h.seedLegacyRelease(t, 666, "Withdrawn Bootleg") // not in catalog anymore
	h.seedLegacyRelease(t, 102, "One-Off Single")
	single := autobahnRelease()
	single.ExternalID = 102
	single.MasterExternalID = 0
	h.catalog.releases[102] = single

	report, err := h.job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 2, report.Skipped)
	assert.Zero(t, report.Updated)
	assert.Zero(t, report.Failed)
	failures, _ := h.failures.List(context.Background())
	assert.Empty(t, failures)
}

func TestBackfillRecordsFailureAndContinues(t *testing.T) {
	h := newBackfillHarness()
	broken := h.seedLegacyRelease(t, 101, "Autobahn")
	healthy := h.seedLegacyRelease(t, 102, "Trans-Europe Express")

	h.catalog.releases[101] = autobahnRelease() // master 900 missing → unresolved
	express := autobahnRelease()
	express.ExternalID = 102
	express.Title = "Trans-Europe Express"
	express.MasterExternalID = 901
	h.catalog.releases[102] = express
	h.catalog.masters[901] = &metadata_models.CatalogMaster{ExternalID: 901, Title: "Trans-Europe Express"}

	report, err := h.job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Failed)

	failures, _ := h.failures.List(context.Background())
	require.Len(t, failures, 1)
	assert.Equal(t, broken.ID, failures[0].AlbumID)
	assert.Equal(t, int64(101), failures[0].DiscogsID)
	assert.Equal(t, report.RunID, failures[0].RunID)

	repaired, _ := h.albums.GetByID(context.Background(), healthy.ID)
	assert.Equal(t, int64(901), repaired.MasterID)
}

func TestBackfillClearsFailureOnceRepaired(t *testing.T) {
	h := newBackfillHarness()
	legacy := h.seedLegacyRelease(t, 101, "Autobahn")
	h.catalog.releases[101] = autobahnRelease()

	// First run: master endpoint degraded, failure persisted.
	h.catalog.masterDown = true
	first, err := h.job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Failed)
	failures, _ := h.failures.List(context.Background())
	require.Len(t, failures, 1)

	// Second run: provider recovered.
	h.catalog.masterDown = false
	h.catalog.masters[900] = &metadata_models.CatalogMaster{ExternalID: 900, Title: "Autobahn"}
	second, err := h.job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, second.Updated)
	failures, _ = h.failures.List(context.Background())
	assert.Empty(t, failures, "repair clears the persisted failure")

	repaired, _ := h.albums.GetByID(context.Background(), legacy.ID)
	assert.Equal(t, int64(900), repaired.MasterID)
}

func TestBackfillHonorsCancellation(t *testing.T) {
	h := newBackfillHarness()
	h.seedLegacyRelease(t, 101, "Autobahn")
	h.seedLegacyRelease(t, 102, "Trans-Europe Express")
	h.catalog.down = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := h.job.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, report.Failed, 1, "at most the first record ran before the stop")
}
