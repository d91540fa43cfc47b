package service

import (
	"github.com/tarekm28/Ou3a-Joura/internal/models"
	"github.com/tarekm28/Ou3a-Joura/internal/repository"
)

// TripService serves stored trip metadata.
type TripService struct {
	repo *repository.TripRepository
}

// NewTripService creates a new trip service
func NewTripService(repo *repository.TripRepository) *TripService {
	return &TripService{repo: repo}
}

// GetTrip retrieves trip metadata by id. Returns nil when unknown.
func (s *TripService) GetTrip(tripID string) (*models.Trip, error) {
	return s.repo.GetMeta(tripID)
}
