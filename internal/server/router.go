// Package server wires handlers and middleware into the gin engine and runs
// the HTTP server.
package server

import (
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "seedtracker-api/docs" // registers the swagger spec
	"seedtracker-api/internal/handler"
	"seedtracker-api/internal/middleware"
	"seedtracker-api/internal/observability"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Collections handler.CollectionService
	Status      handler.StatusService
	Uploads     handler.UploadService
	Pinger      handler.Pinger

	Metrics *observability.Metrics // optional
	Logger  zerolog.Logger

	CORSAllowOrigins []string
	MaxUploadBytes   int64
}

// NewRouter builds the engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(d.Logger))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	r.Use(cors.New(corsConfig(d.CORSAllowOrigins)))

	collectionHandler := handler.NewCollectionHandler(d.Collections)
	uploadHandler := handler.NewUploadHandler(d.Uploads, d.MaxUploadBytes)
	statusHandler := handler.NewStatusHandler(d.Status, d.Pinger)

	r.GET("/health", statusHandler.Health)
	r.GET("/status", statusHandler.Status)

	r.GET("/collections", collectionHandler.ListCollections)
	r.GET("/collections.geojson", collectionHandler.ListCollectionsGeoJSON)
	r.GET("/collections/:code", collectionHandler.GetCollection)
	r.POST("/upload", uploadHandler.Upload)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
