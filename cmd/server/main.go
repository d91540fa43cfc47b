package main

import (
	"github.com/sirupsen/logrus"

	"github.com/tarekm28/Ou3a-Joura/internal/api"
	"github.com/tarekm28/Ou3a-Joura/internal/config"
	"github.com/tarekm28/Ou3a-Joura/internal/database"
	"github.com/tarekm28/Ou3a-Joura/internal/pipeline/detect"
	"github.com/tarekm28/Ou3a-Joura/internal/repository"
	"github.com/tarekm28/Ou3a-Joura/internal/service"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		logrus.WithError(err).Fatal("failed to initialize database")
	}
	defer database.Close()

	db := database.GetDB()
	tripRepo := repository.NewTripRepository(db)
	detectionRepo := repository.NewDetectionRepository(db)
	segmentRepo := repository.NewSegmentRepository(db)

	ingest := service.NewIngestService(
		tripRepo, detectionRepo, segmentRepo,
		cfg.IngestWorkers, cfg.IngestTimeout, detect.DefaultParams(),
	)
	defer ingest.Shutdown()

	router := api.SetupRouter(cfg, api.Deps{
		Ingest:     ingest,
		Trips:      service.NewTripService(tripRepo),
		Clusters:   service.NewClusterService(detectionRepo),
		Detections: service.NewDetectionService(detectionRepo),
		Segments:   service.NewSegmentService(segmentRepo),
	})

	logrus.WithField("port", cfg.Port).Info("server starting")
	if err := router.Run(cfg.Port); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
