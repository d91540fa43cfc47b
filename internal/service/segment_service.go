package service

import (
	"github.com/tarekm28/Ou3a-Joura/internal/errs"
	"github.com/tarekm28/Ou3a-Joura/internal/models"
	"github.com/tarekm28/Ou3a-Joura/internal/repository"
)

// SegmentService serves rough-road segments.
type SegmentService struct {
	repo *repository.SegmentRepository
}

// NewSegmentService creates a new segment service
func NewSegmentService(repo *repository.SegmentRepository) *SegmentService {
	return &SegmentService{repo: repo}
}

// QuerySegments retrieves rough segments ordered by roughness descending.
func (s *SegmentService) QuerySegments(filter models.SegmentFilter) ([]models.RoughSegment, error) {
	if filter.Limit < 0 {
		return nil, errs.InvalidQuery("limit must be >= 1, got %d", filter.Limit)
	}
	if filter.Offset < 0 {
		return nil, errs.InvalidQuery("offset must be >= 0, got %d", filter.Offset)
	}
	if filter.MinRoughness < 0 {
		return nil, errs.InvalidQuery("min_roughness must be >= 0, got %g", filter.MinRoughness)
	}
	return s.repo.List(filter)
}
