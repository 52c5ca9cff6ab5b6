package usecase_metadata

import (
	"context"
	"errors"
	"time"

	"github.com/gearshelf/gearshelf/domain"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_interface"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MasterBackfill retrofits parent links onto release records that predate
// the master hierarchy: anything carrying a catalog release id but no
// master link gets its release re-fetched and its master resolved, the
// same step the online path runs for new releases.
//
// The job is idempotent (repaired releases drop out of the work queue) and
// best-effort: individual failures are persisted for a narrower re-run and
// never abort the batch. A fixed delay between catalog calls respects the
// provider's rate limits.
type MasterBackfill struct {
	albums   metadata_interface.AlbumRepository
	release  metadata_interface.ReleaseCatalog
	masters  metadata_interface.MasterResolver
	failures metadata_interface.BackfillFailureRepository
	delay    time.Duration
	log      zerolog.Logger
}

func NewMasterBackfill(
	albums metadata_interface.AlbumRepository,
	release metadata_interface.ReleaseCatalog,
	masters metadata_interface.MasterResolver,
	failures metadata_interface.BackfillFailureRepository,
	delay time.Duration,
	log zerolog.Logger,
) *MasterBackfill {
	return &MasterBackfill{
		albums:   albums,
		release:  release,
		masters:  masters,
		failures: failures,
		delay:    delay,
		log:      log.With().Str("component", "master_backfill").Logger(),
	}
}

func (b *MasterBackfill) Run(ctx context.Context) (*metadata_models.BackfillReport, error) {
	report := &metadata_models.BackfillReport{RunID: uuid.NewString()}
	log := b.log.With().Str("run_id", report.RunID).Logger()

	releases, err := b.albums.ListReleasesMissingMaster(ctx)
	if err != nil {
		return report, err
	}
	report.Scanned = len(releases)
	log.Info().Int("candidates", len(releases)).Msg("backfill started")

	for i, album := range releases {
		if i > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(b.delay):
			}
		}

		if err := b.repair(ctx, album, report); err != nil {
			report.Failed++
			log.Warn().Err(err).Str("album_id", album.ID.Hex()).Int64("release_id", album.DiscogsID).Msg("backfill record failed")
			b.recordFailure(ctx, report.RunID, album, err)
		}
	}

	log.Info().
		Int("scanned", report.Scanned).
		Int("updated", report.Updated).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("backfill finished")
	return report, nil
}

func (b *MasterBackfill) repair(ctx context.Context, album *metadata_models.Album, report *metadata_models.BackfillReport) error {
	release, err := b.release.FetchRelease(ctx, album.DiscogsID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The catalog no longer has the release; nothing to retrofit.
			report.Skipped++
			b.clearFailure(ctx, album)
			return nil
		}
		return err
	}

	if release.MasterExternalID == 0 {
		// A release without a master is valid and permanent.
		report.Skipped++
		b.clearFailure(ctx, album)
		return nil
	}

	master, err := b.masters.ResolveMaster(ctx, release)
	if err != nil {
		return err
	}
	if master == nil {
		return domain.ErrUnavailable
	}

	if err := b.albums.SetParent(ctx, album.ID, master.ID, release.MasterExternalID); err != nil {
		return err
	}
	report.Updated++
	b.clearFailure(ctx, album)
	return nil
}

func (b *MasterBackfill) recordFailure(ctx context.Context, runID string, album *metadata_models.Album, cause error) {
	failure := &metadata_models.BackfillFailure{
		RunID:     runID,
		AlbumID:   album.ID,
		DiscogsID: album.DiscogsID,
		Reason:    cause.Error(),
	}
	if err := b.failures.Record(ctx, failure); err != nil {
		b.log.Warn().Err(err).Str("album_id", album.ID.Hex()).Msg("backfill failure not recorded")
	}
}

func (b *MasterBackfill) clearFailure(ctx context.Context, album *metadata_models.Album) {
	if err := b.failures.Clear(ctx, album.ID); err != nil {
		b.log.Warn().Err(err).Str("album_id", album.ID.Hex()).Msg("backfill failure not cleared")
	}
}
