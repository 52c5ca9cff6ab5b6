package route

import (
	"time"

	"github.com/gearshelf/gearshelf/api/route/route_metadata"
	"github.com/gearshelf/gearshelf/bootstrap"
	"github.com/gearshelf/gearshelf/mongo"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func Setup(env *bootstrap.Env, timeout time.Duration, db mongo.Database, gin *gin.Engine, log zerolog.Logger) {
	apiRouter := gin.Group("/api")

	route_metadata.NewMetadataRouter(env, timeout, db, apiRouter, log)
}
