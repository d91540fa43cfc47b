package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tarekm28/Ou3a-Joura/internal/models"
	"github.com/tarekm28/Ou3a-Joura/internal/service"
	"github.com/tarekm28/Ou3a-Joura/pkg/response"
)

// SegmentHandler handles HTTP requests for rough-road segments
type SegmentHandler struct {
	service *service.SegmentService
}

// NewSegmentHandler creates a new segment handler
func NewSegmentHandler(service *service.SegmentService) *SegmentHandler {
	return &SegmentHandler{service: service}
}

// GetSegments handles GET /api/v1/segments
func (h *SegmentHandler) GetSegments(c *gin.Context) {
	var filter models.SegmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	segments, err := h.service.QuerySegments(filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{
		"data":  segments,
		"total": len(segments),
	})
}
