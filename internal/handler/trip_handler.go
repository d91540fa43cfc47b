package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tarekm28/Ou3a-Joura/internal/models"
	"github.com/tarekm28/Ou3a-Joura/internal/service"
	"github.com/tarekm28/Ou3a-Joura/pkg/response"
)

// TripHandler handles HTTP requests for trip uploads and metadata
type TripHandler struct {
	ingest *service.IngestService
	trips  *service.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(ingest *service.IngestService, trips *service.TripService) *TripHandler {
	return &TripHandler{ingest: ingest, trips: trips}
}

// UploadTrip handles POST /api/v1/trips. With ?async=1 the trip is queued
// and the reply returns before detection runs; by default the caller waits
// and receives the detection count.
func (h *TripHandler) UploadTrip(c *gin.Context) {
	var doc models.TripUpload
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid trip document: "+err.Error())
		return
	}

	if c.Query("async") == "1" || c.Query("async") == "true" {
		if err := h.ingest.IngestAsync(&doc); err != nil {
			response.FromError(c, err)
			return
		}
		response.Accepted(c, gin.H{"status": "accepted", "trip_id": doc.TripID})
		return
	}

	result, err := h.ingest.Ingest(&doc)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// GetTrip handles GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.trips.GetTrip(c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if trip == nil {
		response.Error(c, http.StatusNotFound, "trip not found")
		return
	}
	response.Success(c, trip)
}
