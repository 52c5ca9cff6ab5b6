package usecase_metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_interface"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationSync is the single writer for every relationship edge. All edge
// mutations — join records and the mirrored back-reference lists — go
// through here; nothing else in the application touches them.
//
// Each side of an edge update is internally atomic ($setOnInsert upsert on
// the join side, $addToSet/$pull on the back-reference side), but the pair
// is not transactional. The accepted repair mechanism for the resulting
// eventual-consistency window is CleanupOrphanedReferences plus re-running
// a sync, both of which are idempotent.
type RelationSync struct {
	artists metadata_interface.ArtistRepository
	albums  metadata_interface.AlbumRepository
	links   metadata_interface.LinkRepository
	timeout time.Duration
	log     zerolog.Logger
}

func NewRelationSync(
	artists metadata_interface.ArtistRepository,
	albums metadata_interface.AlbumRepository,
	links metadata_interface.LinkRepository,
	timeout time.Duration,
	log zerolog.Logger,
) *RelationSync {
	return &RelationSync{
		artists: artists,
		albums:  albums,
		links:   links,
		timeout: timeout,
		log:     log.With().Str("component", "relation_sync").Logger(),
	}
}

// SyncEquipmentToArtist adds or removes one equipment↔artist edge with set
// semantics: adding an existing edge and removing a missing one are both
// no-ops, so any sync is safe to retry.
func (s *RelationSync) SyncEquipmentToArtist(ctx context.Context, equipmentID, artistID primitive.ObjectID, op metadata_interface.SyncOp, prov metadata_models.Provenance) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	switch op {
	case metadata_interface.SyncAdd:
		link := &metadata_models.EquipmentArtistLink{
			EquipmentID: equipmentID,
			ArtistID:    artistID,
			IsVerified:  prov.IsVerified,
			Notes:       prov.Notes,
			YearsUsed:   prov.YearsUsed,
			CreatedBy:   prov.CreatedBy,
		}
		if _, err := s.links.UpsertArtistLink(ctx, link); err != nil {
			return err
		}
		return s.artists.AddInstrument(ctx, artistID, equipmentID)
	case metadata_interface.SyncRemove:
		if err := s.links.DeleteArtistLink(ctx, equipmentID, artistID); err != nil {
			return err
		}
		return s.artists.RemoveInstrument(ctx, artistID, equipmentID)
	default:
		return fmt.Errorf("unknown sync op %q", op)
	}
}

// SyncEquipmentToAlbum is the album analogue of SyncEquipmentToArtist.
func (s *RelationSync) SyncEquipmentToAlbum(ctx context.Context, equipmentID, albumID primitive.ObjectID, op metadata_interface.SyncOp, prov metadata_models.Provenance) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	switch op {
	case metadata_interface.SyncAdd:
		link := &metadata_models.EquipmentAlbumLink{
			EquipmentID: equipmentID,
			AlbumID:     albumID,
			IsVerified:  prov.IsVerified,
			Notes:       prov.Notes,
			YearsUsed:   prov.YearsUsed,
			CreatedBy:   prov.CreatedBy,
		}
		if _, err := s.links.UpsertAlbumLink(ctx, link); err != nil {
			return err
		}
		return s.albums.AddInstrument(ctx, albumID, equipmentID)
	case metadata_interface.SyncRemove:
		if err := s.links.DeleteAlbumLink(ctx, equipmentID, albumID); err != nil {
			return err
		}
		return s.albums.RemoveInstrument(ctx, albumID, equipmentID)
	default:
		return fmt.Errorf("unknown sync op %q", op)
	}
}

// SyncAlbumToArtist adds the artist matching the display name to the
// album's artist-reference list. Lookup only, case-insensitive exact
// match; it never creates an artist, and an unknown name is a no-op.
func (s *RelationSync) SyncAlbumToArtist(ctx context.Context, albumID primitive.ObjectID, artistName string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	artist, err := s.artists.GetByLabelFold(ctx, artistName)
	if err != nil {
		return err
	}
	if artist == nil {
		s.log.Debug().Str("artist", artistName).Msg("album artist back-reference skipped, no matching artist")
		return nil
	}
	return s.albums.AddArtistRef(ctx, albumID, artist.ID)
}

// BatchSyncInstrument applies add-syncs over a full reference list and
// returns how many edges succeeded. Edges are individually idempotent, so
// a failure on one never aborts the rest and the whole batch is safe to
// retry.
func (s *RelationSync) BatchSyncInstrument(ctx context.Context, equipmentID primitive.ObjectID, artistIDs, albumIDs []primitive.ObjectID) (int, error) {
	synced := 0
	var lastErr error

	for _, artistID := range artistIDs {
		if err := s.SyncEquipmentToArtist(ctx, equipmentID, artistID, metadata_interface.SyncAdd, metadata_models.Provenance{}); err != nil {
			s.log.Warn().Err(err).Str("artist_id", artistID.Hex()).Msg("artist edge sync failed")
			lastErr = err
			continue
		}
		synced++
	}
	for _, albumID := range albumIDs {
		if err := s.SyncEquipmentToAlbum(ctx, equipmentID, albumID, metadata_interface.SyncAdd, metadata_models.Provenance{}); err != nil {
			s.log.Warn().Err(err).Str("album_id", albumID.Hex()).Msg("album edge sync failed")
			lastErr = err
			continue
		}
		synced++
	}
	return synced, lastErr
}

// CleanupOrphanedReferences strips an equipment id from every join record
// and every back-reference list. This is the compensating action run when
// equipment or its relationships are deleted, and the repair pass for a
// crash between the two sides of an edge update.
func (s *RelationSync) CleanupOrphanedReferences(ctx context.Context, equipmentID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.links.DeleteByEquipment(ctx, equipmentID); err != nil {
		return err
	}
	artistCount, err := s.artists.RemoveInstrumentEverywhere(ctx, equipmentID)
	if err != nil {
		return err
	}
	albumCount, err := s.albums.RemoveInstrumentEverywhere(ctx, equipmentID)
	if err != nil {
		return err
	}
	s.log.Info().
		Str("equipment_id", equipmentID.Hex()).
		Int64("artists", artistCount).
		Int64("albums", albumCount).
		Msg("orphaned references cleaned")
	return nil
}
