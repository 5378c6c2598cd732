package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"seedtracker-api/internal/archive"
	"seedtracker-api/internal/config"
	"seedtracker-api/internal/normalize"
	"seedtracker-api/internal/observability"
	"seedtracker-api/internal/repository"
	"seedtracker-api/internal/server"
	"seedtracker-api/internal/service"
)

//	@title			Seed Tracker API
//	@version		1.0
//	@description	Lookup, bounding-box search and upload of seed collection records.
//	@BasePath		/

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := observability.NewLogger(config.Log.Level, config.Log.Format)
	metrics := observability.NewMetrics()
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection
	store, err := repository.Open(ctx, config.Database.Driver, config.Database.Source)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", config.Database.Driver).Msg("cannot connect to db")
	}
	defer store.Close()

	hemispheres, err := config.Coordinates.Defaults()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid coordinate defaults")
	}

	// Initialize layers
	collectionService := service.NewCollectionService(store,
		service.WithNormalizer(normalize.New(
			normalize.WithHemispheres(hemispheres),
			normalize.WithWorkers(config.Normalize.Workers),
		)),
		service.WithMetrics(metrics),
		service.WithLogger(logger.With().Str("component", "collections").Logger()),
		service.WithTimeouts(config.Database.QueryTimeout, config.Database.ReloadTimeout),
	)

	uploadOpts := []service.UploadOption{
		service.WithUploadMetrics(metrics),
		service.WithUploadLogger(logger.With().Str("component", "upload").Logger()),
	}
	if config.Archive.Enabled() {
		archiver, err := archive.NewS3(ctx, archive.Config{
			Bucket:    config.Archive.S3Bucket,
			Region:    config.Archive.S3Region,
			Endpoint:  config.Archive.S3Endpoint,
			PathStyle: config.Archive.S3PathStyle,
			Prefix:    config.Archive.S3Prefix,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot configure source archive")
		}
		uploadOpts = append(uploadOpts, service.WithArchiver(archiver))
		logger.Info().Str("bucket", config.Archive.S3Bucket).Msg("source archive enabled")
	}
	uploadService := service.NewUploadService(collectionService,
		config.Data.SpeciesPath(), config.Data.CollectionsPath(), uploadOpts...)

	if config.Data.LoadOnStart {
		loadOnStart(ctx, logger, collectionService, config.Data)
	}

	router := server.NewRouter(server.Deps{
		Collections:      collectionService,
		Status:           collectionService,
		Uploads:          uploadService,
		Pinger:           store,
		Metrics:          metrics,
		Logger:           logger,
		CORSAllowOrigins: config.Server.CORSAllowOrigins,
		MaxUploadBytes:   config.Server.MaxUploadBytes,
	})
	srv := server.New(config.Server.Address, router, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown error")
	}
	logger.Info().Msg("shutdown complete")
}

// loadOnStart fills an empty database from the configured source files.
// A populated database or missing files are left alone.
func loadOnStart(ctx context.Context, logger zerolog.Logger, svc *service.CollectionService, data config.DataConfig) {
	status, err := svc.Status(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("cannot read dataset status, skipping initial load")
		return
	}
	if status.Collections > 0 {
		logger.Info().Int("collections", status.Collections).Msg("dataset already loaded")
		return
	}

	for _, p := range []string{data.SpeciesPath(), data.CollectionsPath()} {
		if _, err := os.Stat(p); err != nil {
			logger.Warn().Str("path", p).Msg("source file not found, starting with an empty dataset")
			return
		}
	}

	if _, err := svc.LoadFiles(ctx, data.SpeciesPath(), data.CollectionsPath()); err != nil {
		logger.Error().Err(err).Msg("initial load failed, starting with an empty dataset")
	}
}
