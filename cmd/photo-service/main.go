package main

import (
	"fmt"
	"os"

	"photo-service/internal/auth"
	"photo-service/internal/config"
	"photo-service/internal/db"
	httphandler "photo-service/internal/http"
	"photo-service/internal/http/middleware"
	"photo-service/internal/logger"
	"photo-service/internal/repository"
	"photo-service/internal/service"
	"photo-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	objectStorage := storage.New(cfg.Storage.URL, cfg.Storage.ServiceKey, cfg.Storage.Bucket)

	eventRepo := repository.NewEventRepository(database)
	photoRepo := repository.NewPhotoRepository(database)

	eventService := service.NewEventService(eventRepo)
	photoService := service.NewPhotoService(eventRepo, photoRepo, objectStorage)
	classificationService := service.NewClassificationService(photoRepo)
	queryService := service.NewPhotoQueryService(photoRepo, objectStorage)

	var tokenParser *auth.Parser
	if cfg.Auth.ServiceTokenSecret != "" {
		tokenParser = auth.NewParser(cfg.Auth.ServiceTokenSecret)
	} else {
		appLogger.Warn().Msg("SERVICE_TOKEN_SECRET not set, classification routes are unauthenticated")
	}

	handler := httphandler.NewHandler(
		eventService,
		photoService,
		classificationService,
		queryService,
		cfg.Upload.MaxBytes,
		cfg.Environment,
		appLogger,
	)
	serviceAuth := middleware.ServiceAuth(tokenParser)
	router := httphandler.NewRouter(handler, serviceAuth, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting photo service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
