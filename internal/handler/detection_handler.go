package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tarekm28/Ou3a-Joura/internal/models"
	"github.com/tarekm28/Ou3a-Joura/internal/service"
	"github.com/tarekm28/Ou3a-Joura/pkg/response"
)

// DetectionHandler handles HTTP requests for raw detection events
type DetectionHandler struct {
	service *service.DetectionService
}

// NewDetectionHandler creates a new detection handler
func NewDetectionHandler(service *service.DetectionService) *DetectionHandler {
	return &DetectionHandler{service: service}
}

// GetDetections handles GET /api/v1/detections
func (h *DetectionHandler) GetDetections(c *gin.Context) {
	var filter models.DetectionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	detections, err := h.service.QueryDetections(filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	total, err := h.service.Count()
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{
		"data":   detections,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}
