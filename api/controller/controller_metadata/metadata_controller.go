package controller_metadata

import (
	"errors"
	"net/http"

	"github.com/gearshelf/gearshelf/api/controller"
	"github.com/gearshelf/gearshelf/domain"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_interface"
	"github.com/gearshelf/gearshelf/domain/domain_metadata/metadata_models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MetadataController struct {
	EnrichUsecase   metadata_interface.EnrichUsecase
	AlbumResolver   metadata_interface.AlbumResolverUsecase
	RelationSync    metadata_interface.RelationSyncUsecase
	BackfillUsecase metadata_interface.BackfillUsecase
}

func NewMetadataController(
	enrich metadata_interface.EnrichUsecase,
	albums metadata_interface.AlbumResolverUsecase,
	sync metadata_interface.RelationSyncUsecase,
	backfill metadata_interface.BackfillUsecase,
) *MetadataController {
	return &MetadataController{
		EnrichUsecase:   enrich,
		AlbumResolver:   albums,
		RelationSync:    sync,
		BackfillUsecase: backfill,
	}
}

// Enrich is the online entry point for AI/user-supplied references.
// Always 200 when the request parses; partial failures live in the stats.
func (c *MetadataController) Enrich(ctx *gin.Context) {
	var req enrichRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	equipmentID, err := primitive.ObjectIDFromHex(req.EquipmentID)
	if err != nil {
		controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_EQUIPMENT_ID", "equipmentId must be a valid object id")
		return
	}

	result := c.EnrichUsecase.Enrich(ctx.Request.Context(), equipmentID, req.toInput(), req.ActorID)
	ctx.JSON(http.StatusOK, result)
}

// ImportAlbum resolves one provider-specific external id, the
// import-by-URL flow.
func (c *MetadataController) ImportAlbum(ctx *gin.Context) {
	var req importAlbumRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	album, created, err := c.AlbumResolver.GetOrCreateAlbum(
		ctx.Request.Context(),
		metadata_models.CatalogProvider(req.Provider),
		req.ExternalID,
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_REFERENCE", err.Error())
		case errors.Is(err, domain.ErrNotFound):
			controller.ErrorResponse(ctx, http.StatusNotFound, "NOT_FOUND", "the catalog has no such record")
		case errors.Is(err, domain.ErrUnavailable):
			controller.ErrorResponse(ctx, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "the catalog is unreachable, try again later")
		default:
			controller.ErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", err.Error())
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"album": album, "created": created})
}

// CleanupReferences is invoked when equipment or its relationships are
// deleted; it strips the equipment id from every edge and back-reference.
func (c *MetadataController) CleanupReferences(ctx *gin.Context) {
	equipmentID, err := primitive.ObjectIDFromHex(ctx.Param("equipmentId"))
	if err != nil {
		controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_EQUIPMENT_ID", "equipmentId must be a valid object id")
		return
	}

	if err := c.RelationSync.CleanupOrphanedReferences(ctx.Request.Context(), equipmentID); err != nil {
		controller.ErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", err.Error())
		return
	}
	controller.SuccessResponse(ctx, "message", "references cleaned")
}

// BackfillMasters runs the master-hierarchy repair batch synchronously and
// returns its report. Admin-only surface.
func (c *MetadataController) BackfillMasters(ctx *gin.Context) {
	report, err := c.BackfillUsecase.Run(ctx.Request.Context())
	if err != nil {
		controller.ErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", err.Error())
		return
	}
	controller.SuccessResponse(ctx, "report", report)
}
