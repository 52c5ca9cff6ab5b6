package usecase_metadata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gearshelf/gearshelf/domain"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_interface"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AlbumResolver struct {
	repo    metadata_interface.AlbumRepository
	release metadata_interface.ReleaseCatalog
	stream  metadata_interface.StreamingCatalog
	timeout time.Duration
	log     zerolog.Logger
}

func NewAlbumResolver(
	repo metadata_interface.AlbumRepository,
	release metadata_interface.ReleaseCatalog,
	stream metadata_interface.StreamingCatalog,
	timeout time.Duration,
	log zerolog.Logger,
) *AlbumResolver {
	return &AlbumResolver{
		repo:    repo,
		release: release,
		stream:  stream,
		timeout: timeout,
		log:     log.With().Str("component", "album_resolver").Logger(),
	}
}

// GetOrCreateAlbum resolves a provider-specific external id into the local
// album cache. The bool reports whether a record was created. Local cache
// hits never touch the network; ErrNotFound and ErrUnavailable from the
// provider propagate to the caller.
func (r *AlbumResolver) GetOrCreateAlbum(ctx context.Context, provider metadata_models.CatalogProvider, externalID string) (*metadata_models.Album, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	switch provider {
	case metadata_models.ProviderDiscogs:
		releaseID, err := strconv.ParseInt(externalID, 10, 64)
		if err != nil || releaseID <= 0 {
			return nil, false, fmt.Errorf("release id %q: %w", externalID, domain.ErrValidation)
		}
		return r.getOrCreateRelease(ctx, releaseID)
	case metadata_models.ProviderSpotify:
		if externalID == "" {
			return nil, false, fmt.Errorf("empty album id: %w", domain.ErrValidation)
		}
		return r.getOrCreateStreamingAlbum(ctx, externalID)
	default:
		return nil, false, fmt.Errorf("provider %q: %w", provider, domain.ErrValidation)
	}
}

// EnsureAlbumsExist is the batch entry point used when only title/artist
// strings are known. Resolution per reference: local fuzzy match →
// provider search → full release resolution; any provider failure falls
// back to a minimal local-only record so relationship linking still has a
// target. The returned map is keyed by the in-batch search key
// lowercase(artist)+"-"+lowercase(title).
func (r *AlbumResolver) EnsureAlbumsExist(ctx context.Context, refs []metadata_models.AlbumRef) (map[string]primitive.ObjectID, int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resolved := make(map[string]primitive.ObjectID, len(refs))
	created := 0

	for _, ref := range refs {
		title := strings.TrimSpace(ref.Title)
		if title == "" {
			r.log.Warn().Str("artist", ref.Artist).Msgf("album reference skipped: %v", domain.ErrValidation)
			continue
		}
		searchKey := strings.ToLower(strings.TrimSpace(ref.Artist)) + "-" + strings.ToLower(title)
		if _, ok := resolved[searchKey]; ok {
			continue
		}

		local, err := r.repo.FindLocalMatch(ctx, ref.Artist, title)
		if err != nil {
			return resolved, created, err
		}
		if local != nil {
			resolved[searchKey] = local.ID
			continue
		}

		album, wasCreated, err := r.resolveBySearch(ctx, ref)
		if err != nil {
			return resolved, created, err
		}
		resolved[searchKey] = album.ID
		if wasCreated {
			created++
		}
	}

	return resolved, created, nil
}

// resolveBySearch tries the release catalog first and degrades to a
// minimal unresolved record when the provider has no match or is down.
func (r *AlbumResolver) resolveBySearch(ctx context.Context, ref metadata_models.AlbumRef) (*metadata_models.Album, bool, error) {
	query := strings.TrimSpace(ref.Artist + " " + ref.Title)
	hits, err := r.release.Search(ctx, query)
	if err == nil && len(hits) > 0 {
		album, created, resolveErr := r.getOrCreateRelease(ctx, hits[0].ExternalID)
		if resolveErr == nil {
			return album, created, nil
		}
		if !errors.Is(resolveErr, domain.ErrNotFound) && !errors.Is(resolveErr, domain.ErrUnavailable) {
			return nil, false, resolveErr
		}
		r.log.Warn().Err(resolveErr).Int64("release_id", hits[0].ExternalID).Msg("release resolution degraded to minimal record")
	} else if err != nil {
		r.log.Debug().Err(err).Str("query", query).Msg("catalog search unavailable")
	}

	return r.createMinimal(ctx, ref)
}

func (r *AlbumResolver) createMinimal(ctx context.Context, ref metadata_models.AlbumRef) (*metadata_models.Album, bool, error) {
	album := &metadata_models.Album{
		Artist:     strings.TrimSpace(ref.Artist),
		Title:      strings.TrimSpace(ref.Title),
		Year:       ref.Year,
		Notes:      ref.Notes,
		Unresolved: true,
	}
	if err := r.repo.Create(ctx, album); err != nil {
		return nil, false, err
	}
	r.log.Info().Str("artist", album.Artist).Str("title", album.Title).Msg("minimal album record created")
	return album, true, nil
}

func (r *AlbumResolver) getOrCreateRelease(ctx context.Context, releaseID int64) (*metadata_models.Album, bool, error) {
	existing, err := r.repo.GetByDiscogsID(ctx, releaseID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	release, err := r.release.FetchRelease(ctx, releaseID)
	if err != nil {
		return nil, false, err
	}

	master, err := r.ResolveMaster(ctx, release)
	if err != nil {
		return nil, false, err
	}

	album := &metadata_models.Album{
		Artist:     firstOr(release.Artists, ""),
		Title:      release.Title,
		Year:       release.Year,
		Label:      release.Label,
		Genres:     release.Genres,
		Styles:     release.Styles,
		Format:     release.Format,
		DiscogsID:  releaseID,
		CoverImage: release.CoverURL,
		Tracklist:  release.Tracklist,
		Notes:      release.Notes,
	}
	if master != nil {
		album.ParentID = master.ID
		album.MasterID = master.MasterID
	}

	err = r.repo.Create(ctx, album)
	switch {
	case err == nil:
		r.log.Info().Int64("release_id", releaseID).Str("title", album.Title).Msg("release record created")
		return album, true, nil
	case errors.Is(err, domain.ErrConflict):
		existing, err = r.repo.GetByDiscogsID(ctx, releaseID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("release %d vanished after conflict", releaseID)
		}
		return existing, false, nil
	default:
		return nil, false, err
	}
}

// ResolveMaster finds or creates the local master record for a fetched
// release. Returns (nil, nil) when the release declares no master or the
// master fetch is degraded — a parentless release beats no release at all.
// The online path never retroactively back-fills parents; that is the
// backfill job's work.
func (r *AlbumResolver) ResolveMaster(ctx context.Context, release *metadata_models.CatalogRelease) (*metadata_models.Album, error) {
	if release.MasterExternalID == 0 {
		return nil, nil
	}

	existing, err := r.repo.GetMasterByExternalID(ctx, release.MasterExternalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	payload, err := r.release.FetchMaster(ctx, release.MasterExternalID)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) || errors.Is(err, domain.ErrNotFound) {
			r.log.Warn().Err(err).Int64("master_id", release.MasterExternalID).Msg("master fetch degraded, proceeding without parent")
			return nil, nil
		}
		return nil, err
	}

	// Master responses can be thinner than release responses; fall back
	// to the release's own fields for anything the master omits.
	master := &metadata_models.Album{
		Artist:     firstOr(payload.Artists, firstOr(release.Artists, "")),
		Title:      payload.Title,
		Year:       payload.Year,
		Genres:     payload.Genres,
		Styles:     payload.Styles,
		IsMaster:   true,
		MasterID:   release.MasterExternalID,
		CoverImage: payload.CoverURL,
		Notes:      payload.Notes,
	}
	if master.Title == "" {
		master.Title = release.Title
	}
	if master.Year == 0 {
		master.Year = release.Year
	}
	if master.CoverImage == "" {
		master.CoverImage = release.CoverURL
	}

	err = r.repo.Create(ctx, master)
	switch {
	case err == nil:
		r.log.Info().Int64("master_id", master.MasterID).Str("title", master.Title).Msg("master record created")
		return master, nil
	case errors.Is(err, domain.ErrConflict):
		existing, err = r.repo.GetMasterByExternalID(ctx, release.MasterExternalID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("master %d vanished after conflict", release.MasterExternalID)
		}
		return existing, nil
	default:
		return nil, err
	}
}

func (r *AlbumResolver) getOrCreateStreamingAlbum(ctx context.Context, albumID string) (*metadata_models.Album, bool, error) {
	existing, err := r.repo.GetBySpotifyID(ctx, albumID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	payload, err := r.stream.FetchAlbum(ctx, albumID)
	if err != nil {
		return nil, false, err
	}

	// The streaming catalog has no master/release hierarchy.
	album := &metadata_models.Album{
		Artist:     firstOr(payload.Artists, ""),
		Title:      payload.Title,
		Year:       payload.Year,
		Label:      payload.Label,
		Genres:     payload.Genres,
		SpotifyID:  payload.ExternalID,
		CoverImage: payload.CoverURL,
		Tracklist:  payload.Tracklist,
	}

	err = r.repo.Create(ctx, album)
	switch {
	case err == nil:
		r.log.Info().Str("spotify_id", albumID).Str("title", album.Title).Msg("streaming album record created")
		return album, true, nil
	case errors.Is(err, domain.ErrConflict):
		existing, err = r.repo.GetBySpotifyID(ctx, albumID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("album %q vanished after conflict", albumID)
		}
		return existing, false, nil
	default:
		return nil, false, err
	}
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 && strings.TrimSpace(values[0]) != "" {
		return strings.TrimSpace(values[0])
	}
	return fallback
}
