package usecase_metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gearshelf/gearshelf/domain"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_interface"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"github.com/gearshelf/gearshelf/domain/domain_util"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ArtistResolver struct {
	repo     metadata_interface.ArtistRepository
	notifier metadata_interface.Notifier
	timeout  time.Duration
	log      zerolog.Logger
}

func NewArtistResolver(
	repo metadata_interface.ArtistRepository,
	notifier metadata_interface.Notifier,
	timeout time.Duration,
	log zerolog.Logger,
) *ArtistResolver {
	return &ArtistResolver{
		repo:     repo,
		notifier: notifier,
		timeout:  timeout,
		log:      log.With().Str("component", "artist_resolver").Logger(),
	}
}

// EnsureArtistsExist resolves every reference to a local artist record,
// creating missing ones, and returns the full key→id map plus the number
// of records created. Malformed references are skipped with a warning.
//
// The create path is race-safe without locks: the unique (type, key) index
// rejects a concurrent duplicate, and the loser treats the conflict as
// "already exists" and re-reads.
func (r *ArtistResolver) EnsureArtistsExist(ctx context.Context, refs []metadata_models.ArtistRef) (map[string]primitive.ObjectID, int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resolved := make(map[string]primitive.ObjectID, len(refs))
	created := 0

	for _, ref := range refs {
		key := r.canonicalKey(ref)
		if key == "" {
			r.log.Warn().Str("name", ref.Name).Msgf("artist reference skipped: %v", domain.ErrValidation)
			continue
		}
		if _, ok := resolved[key]; ok {
			continue
		}

		artist, wasCreated, err := r.ensureArtist(ctx, key, ref)
		if err != nil {
			return resolved, created, err
		}
		resolved[key] = artist.ID
		if wasCreated {
			created++
		}
	}

	return resolved, created, nil
}

func (r *ArtistResolver) ensureArtist(ctx context.Context, key string, ref metadata_models.ArtistRef) (*metadata_models.Artist, bool, error) {
	existing, err := r.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	artist := &metadata_models.Artist{
		Type:        metadata_models.MetadataTypeArtist,
		Key:         key,
		Label:       strings.TrimSpace(ref.Name),
		Description: r.provenanceNote(ref),
	}
	if artist.Label == "" {
		artist.Label = key
	}

	err = r.repo.Create(ctx, artist)
	switch {
	case err == nil:
		r.log.Info().Str("key", key).Str("label", artist.Label).Msg("artist created")
		r.notifyCreated(ctx, artist)
		return artist, true, nil
	case errors.Is(err, domain.ErrConflict):
		// Someone else created it between lookup and insert.
		artist, err = r.repo.GetByKey(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if artist == nil {
			return nil, false, fmt.Errorf("artist %q vanished after conflict", key)
		}
		return artist, false, nil
	default:
		return nil, false, err
	}
}

// canonicalKey prefers a caller-supplied key over derivation from the
// display name; both go through normalization so casing and punctuation
// variants still collapse.
func (r *ArtistResolver) canonicalKey(ref metadata_models.ArtistRef) string {
	if ref.Key != "" {
		return domain_util.NormalizeKey(ref.Key)
	}
	return domain_util.NormalizeKey(ref.Name)
}

func (r *ArtistResolver) provenanceNote(ref metadata_models.ArtistRef) string {
	if ref.Notes != "" {
		return ref.Notes
	}
	return "Auto-created from equipment enrichment; pending curation."
}

// notifyCreated flags the new artist for manual curation. Best-effort: a
// notify failure never fails the enrichment.
func (r *ArtistResolver) notifyCreated(ctx context.Context, artist *metadata_models.Artist) {
	alert := &metadata_models.MetadataAlert{
		Kind:     metadata_models.AlertKindMetadata,
		Category: metadata_models.AlertCategoryArtistCreate,
		Key:      artist.Key,
		Label:    artist.Label,
		Message:  fmt.Sprintf("New artist %q needs curation (logo, description)", artist.Label),
	}
	if err := r.notifier.Notify(ctx, alert); err != nil {
		r.log.Warn().Err(err).Str("key", artist.Key).Msg("curation alert failed")
	}
}
