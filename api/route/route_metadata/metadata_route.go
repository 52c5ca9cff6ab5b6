package route_metadata

import (
	"time"

	"github.com/gearshelf/gearshelf/api/controller/controller_metadata"
	"github.com/gearshelf/gearshelf/bootstrap"
	"github.com/gearshelf/gearshelf/catalog/discogs"
	"github.com/gearshelf/gearshelf/catalog/spotify"
	"github.com/gearshelf/gearshelf/domain"
	"github.com/gearshelf/gearshelf/mongo"
	"github.com/gearshelf/gearshelf/repository/repository_metadata"
	"github.com/gearshelf/gearshelf/repository/repository_notification"
	"github.com/gearshelf/gearshelf/usecase/usecase_metadata"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func NewMetadataRouter(
	env *bootstrap.Env,
	timeout time.Duration,
	db mongo.Database,
	group *gin.RouterGroup,
	log zerolog.Logger,
) {
	artistRepo := repository_metadata.NewArtistRepository(db, domain.CollectionMetadata)
	albumRepo := repository_metadata.NewAlbumRepository(db, domain.CollectionAlbum)
	linkRepo := repository_metadata.NewLinkRepository(db, domain.CollectionEquipmentArtist, domain.CollectionEquipmentAlbum)
	failureRepo := repository_metadata.NewBackfillFailureRepository(db, domain.CollectionBackfillFailure)
	notifier := repository_notification.NewNotificationRepository(db, domain.CollectionNotification)

	releaseCatalog := discogs.NewClient(env.DiscogsToken, log)
	streamingCatalog := spotify.NewClient(env.SpotifyClientID, env.SpotifyClientSecret, log)

	artistResolver := usecase_metadata.NewArtistResolver(artistRepo, notifier, timeout, log)
	albumResolver := usecase_metadata.NewAlbumResolver(albumRepo, releaseCatalog, streamingCatalog, timeout, log)
	relationSync := usecase_metadata.NewRelationSync(artistRepo, albumRepo, linkRepo, timeout, log)
	enricher := usecase_metadata.NewEnricher(artistResolver, albumResolver, relationSync, timeout, log)
	backfill := usecase_metadata.NewMasterBackfill(
		albumRepo,
		releaseCatalog,
		albumResolver,
		failureRepo,
		time.Duration(env.BackfillDelayMS)*time.Millisecond,
		log,
	)

	ctrl := controller_metadata.NewMetadataController(enricher, albumResolver, relationSync, backfill)

	metadataGroup := group.Group("/metadata")
	{
		metadataGroup.POST("/enrich", ctrl.Enrich)
		metadataGroup.POST("/albums/import", ctrl.ImportAlbum)
		metadataGroup.DELETE("/references/:equipmentId", ctrl.CleanupReferences)
		metadataGroup.POST("/backfill/masters", ctrl.BackfillMasters)
	}
}
