package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tarekm28/Ou3a-Joura/internal/config"
	"github.com/tarekm28/Ou3a-Joura/internal/handler"
	"github.com/tarekm28/Ou3a-Joura/internal/middleware"
	"github.com/tarekm28/Ou3a-Joura/internal/service"
)

// Deps are the wired services the router needs.
type Deps struct {
	Ingest     *service.IngestService
	Trips      *service.TripService
	Clusters   *service.ClusterService
	Detections *service.DetectionService
	Segments   *service.SegmentService
}

// SetupRouter builds the HTTP surface.
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.MaxMultipartMemory = cfg.MaxBodyMB << 20

	// CORS for the dashboard
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.NewAuth(cfg.APIKey, cfg.JWTSecret)
	uploadLimiter := middleware.NewRateLimiter(60, time.Minute)

	tripHandler := handler.NewTripHandler(deps.Ingest, deps.Trips)
	clusterHandler := handler.NewClusterHandler(deps.Clusters)
	detectionHandler := handler.NewDetectionHandler(deps.Detections)
	segmentHandler := handler.NewSegmentHandler(deps.Segments)
	authHandler := handler.NewAuthHandler(auth)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/token", authHandler.IssueToken)

		api.POST("/trips", uploadLimiter.Middleware(), auth.RequireAPIKey(), tripHandler.UploadTrip)
		api.GET("/trips/:id", auth.RequireToken(), tripHandler.GetTrip)

		api.GET("/clusters", auth.RequireToken(), clusterHandler.GetClusters)
		api.GET("/detections", auth.RequireToken(), detectionHandler.GetDetections)
		api.GET("/segments", auth.RequireToken(), segmentHandler.GetSegments)
	}

	return r
}
