package usecase_metadata

import (
	"context"
	"strings"
	"time"

	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_interface"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"github.com/gearshelf/gearshelf/domain/domain_util"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enricher drives one enrichment invocation: artist resolution, artist
// edges, album resolution, album edges, in that fixed order. The phases
// are independent; sequencing them keeps error attribution simple.
//
// There is no cross-record transaction. A later phase failing never rolls
// back an earlier one; partial success is reported through the stats, and
// Success only turns false when the store itself is failing.
type Enricher struct {
	artists metadata_interface.ArtistResolverUsecase
	albums  metadata_interface.AlbumResolverUsecase
	sync    metadata_interface.RelationSyncUsecase
	timeout time.Duration
	log     zerolog.Logger
}

func NewEnricher(
	artists metadata_interface.ArtistResolverUsecase,
	albums metadata_interface.AlbumResolverUsecase,
	sync metadata_interface.RelationSyncUsecase,
	timeout time.Duration,
	log zerolog.Logger,
) *Enricher {
	return &Enricher{
		artists: artists,
		albums:  albums,
		sync:    sync,
		timeout: timeout,
		log:     log.With().Str("component", "enricher").Logger(),
	}
}

// Enrich resolves the supplied references and links every one of them to
// the equipment record — pre-existing artists and albums still get a new
// edge, so relation counts are per invocation while record creation stays
// idempotent.
func (e *Enricher) Enrich(ctx context.Context, equipmentID primitive.ObjectID, input metadata_models.EnrichInput, actorID string) *metadata_models.EnrichResult {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	log := e.log.With().
		Str("trace_id", uuid.NewString()).
		Str("equipment_id", equipmentID.Hex()).
		Logger()

	result := &metadata_models.EnrichResult{Success: true}

	artistIDs, created, err := e.artists.EnsureArtistsExist(ctx, input.Artists)
	result.Stats.ArtistsCreated = created
	if err != nil {
		log.Error().Err(err).Msg("artist resolution failed")
		result.Success = false
		return result
	}

	for _, ref := range input.Artists {
		key := artistRefKey(ref)
		artistID, ok := artistIDs[key]
		if !ok {
			continue
		}
		prov := metadata_models.Provenance{
			Notes:     ref.Notes,
			YearsUsed: ref.YearsUsed,
			CreatedBy: actorID,
		}
		if err := e.sync.SyncEquipmentToArtist(ctx, equipmentID, artistID, metadata_interface.SyncAdd, prov); err != nil {
			log.Warn().Err(err).Str("artist_key", key).Msg("artist edge sync failed")
			continue
		}
		result.Stats.RelationsCreated++
	}

	albumIDs, created, err := e.albums.EnsureAlbumsExist(ctx, input.Albums)
	result.Stats.AlbumsCreated = created
	if err != nil {
		log.Error().Err(err).Msg("album resolution failed")
		result.Success = false
		return result
	}

	for _, ref := range input.Albums {
		key := albumRefKey(ref)
		albumID, ok := albumIDs[key]
		if !ok {
			continue
		}
		prov := metadata_models.Provenance{
			Notes:     ref.Notes,
			CreatedBy: actorID,
		}
		if err := e.sync.SyncEquipmentToAlbum(ctx, equipmentID, albumID, metadata_interface.SyncAdd, prov); err != nil {
			log.Warn().Err(err).Str("album_key", key).Msg("album edge sync failed")
			continue
		}
		result.Stats.RelationsCreated++

		// Album→artist back-reference, best-effort and lookup-only.
		if ref.Artist != "" {
			if err := e.sync.SyncAlbumToArtist(ctx, albumID, ref.Artist); err != nil {
				log.Warn().Err(err).Str("album_key", key).Msg("album artist ref sync failed")
			}
		}
	}

	log.Info().
		Int("artists_created", result.Stats.ArtistsCreated).
		Int("albums_created", result.Stats.AlbumsCreated).
		Int("relations_created", result.Stats.RelationsCreated).
		Msg("enrichment finished")
	return result
}

// artistRefKey mirrors the key derivation inside the artist resolver so
// the orchestrator can look its references back up in the returned map.
func artistRefKey(ref metadata_models.ArtistRef) string {
	if ref.Key != "" {
		return domain_util.NormalizeKey(ref.Key)
	}
	return domain_util.NormalizeKey(ref.Name)
}

func albumRefKey(ref metadata_models.AlbumRef) string {
	return strings.ToLower(strings.TrimSpace(ref.Artist)) + "-" + strings.ToLower(strings.TrimSpace(ref.Title))
}
