package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tarekm28/Ou3a-Joura/internal/models"
	"github.com/tarekm28/Ou3a-Joura/internal/service"
	"github.com/tarekm28/Ou3a-Joura/pkg/response"
)

// ClusterHandler handles HTTP requests for pothole clusters
type ClusterHandler struct {
	service *service.ClusterService
}

// NewClusterHandler creates a new cluster handler
func NewClusterHandler(service *service.ClusterService) *ClusterHandler {
	return &ClusterHandler{service: service}
}

// GetClusters handles GET /api/v1/clusters
func (h *ClusterHandler) GetClusters(c *gin.Context) {
	var filter models.ClusterFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	clusters, err := h.service.QueryClusters(filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{
		"data":  clusters,
		"total": len(clusters),
	})
}
