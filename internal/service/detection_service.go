package service

import (
	"github.com/tarekm28/Ou3a-Joura/internal/errs"
	"github.com/tarekm28/Ou3a-Joura/internal/models"
	"github.com/tarekm28/Ou3a-Joura/internal/repository"
)

// DetectionService serves raw detection events.
type DetectionService struct {
	repo *repository.DetectionRepository
}

// NewDetectionService creates a new detection service
func NewDetectionService(repo *repository.DetectionRepository) *DetectionService {
	return &DetectionService{repo: repo}
}

// QueryDetections retrieves detections ordered by wall_time descending.
func (s *DetectionService) QueryDetections(filter models.DetectionFilter) ([]models.Detection, error) {
	if filter.Limit < 0 {
		return nil, errs.InvalidQuery("limit must be >= 1, got %d", filter.Limit)
	}
	if filter.Offset < 0 {
		return nil, errs.InvalidQuery("offset must be >= 0, got %d", filter.Offset)
	}
	if filter.MinIntensity < 0 {
		return nil, errs.InvalidQuery("min_intensity must be >= 0, got %g", filter.MinIntensity)
	}
	return s.repo.List(filter)
}

// Count returns the number of stored detections.
func (s *DetectionService) Count() (int64, error) {
	return s.repo.Count()
}
