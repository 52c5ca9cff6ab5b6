package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gearshelf/gearshelf/api/route"
	"github.com/gearshelf/gearshelf/bootstrap"
	"github.com/gearshelf/gearshelf/catalog/discogs"
	"github.com/gearshelf/gearshelf/catalog/spotify"
	"github.com/gearshelf/gearshelf/domain"
	"github.com/gearshelf/gearshelf/mongo"
	"github.com/gearshelf/gearshelf/repository/repository_metadata"
	"github.com/gearshelf/gearshelf/usecase/usecase_metadata"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gearshelf",
		Short: "Music-equipment metadata service",
	}
	rootCmd.AddCommand(newServeCmd(), newBackfillCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := bootstrap.App()
			defer app.CloseDBConnection()

			db := app.Mongo.Database(app.Env.DBName)
			mongo.CreateIndexes(db, app.Log)

			timeout := time.Duration(app.Env.ContextTimeout) * time.Second

			engine := gin.Default()
			route.Setup(app.Env, timeout, db, engine, app.Log)

			app.Log.Info().Str("address", app.Env.ServerAddress).Msg("server starting")
			return engine.Run(app.Env.ServerAddress)
		},
	}
}

func newBackfillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Retrofit master-work links onto legacy release records",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := bootstrap.App()
			defer app.CloseDBConnection()

			db := app.Mongo.Database(app.Env.DBName)
			mongo.CreateIndexes(db, app.Log)

			timeout := time.Duration(app.Env.ContextTimeout) * time.Second
			delay := time.Duration(app.Env.BackfillDelayMS) * time.Millisecond

			albumRepo := repository_metadata.NewAlbumRepository(db, domain.CollectionAlbum)
			failureRepo := repository_metadata.NewBackfillFailureRepository(db, domain.CollectionBackfillFailure)

			releaseCatalog := discogs.NewClient(app.Env.DiscogsToken, app.Log)
			streamingCatalog := spotify.NewClient(app.Env.SpotifyClientID, app.Env.SpotifyClientSecret, app.Log)
			albumResolver := usecase_metadata.NewAlbumResolver(albumRepo, releaseCatalog, streamingCatalog, timeout, app.Log)
			backfill := usecase_metadata.NewMasterBackfill(albumRepo, releaseCatalog, albumResolver, failureRepo, delay, app.Log)

			report, err := backfill.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("backfill %s: scanned=%d updated=%d skipped=%d failed=%d\n",
				report.RunID, report.Scanned, report.Updated, report.Skipped, report.Failed)

			if report.Failed > 0 {
				failures, listErr := failureRepo.List(context.Background())
				if listErr == nil {
					for _, failure := range failures {
						fmt.Printf("  failed album=%s release=%d: %s\n",
							failure.AlbumID.Hex(), failure.DiscogsID, failure.Reason)
					}
				}
			}
			return nil
		},
	}
}
