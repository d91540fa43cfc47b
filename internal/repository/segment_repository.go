package repository

import (
	"database/sql"

	"github.com/tarekm28/Ou3a-Joura/internal/database"
	"github.com/tarekm28/Ou3a-Joura/internal/errs"
	"github.com/tarekm28/Ou3a-Joura/internal/models"
)

// SegmentRepository handles database operations for rough-road segments.
type SegmentRepository struct {
	db *sql.DB
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db *sql.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// ReplaceTripSegments atomically swaps the rough segments of one trip.
func (r *SegmentRepository) ReplaceTripSegments(tripID string, segments []models.RoughSegment) error {
	err := database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM rough_segments WHERE trip_id = ?", tripID); err != nil {
			return err
		}
		for i := range segments {
			s := &segments[i]
			if _, err := tx.Exec(`
				INSERT INTO rough_segments (segment_id, trip_id, latitude, longitude, roughness, rough_windows, last_seen)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				s.SegmentID, s.TripID, s.Latitude, s.Longitude,
				s.Roughness, s.RoughWindows, s.LastSeen,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.StoreUnavailable("replace trip segments", err)
	}
	return nil
}

// List retrieves rough segments ordered by roughness descending.
func (r *SegmentRepository) List(filter models.SegmentFilter) ([]models.RoughSegment, error) {
	if filter.Limit < 1 {
		filter.Limit = 1000
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	rows, err := r.db.Query(`
		SELECT segment_id, trip_id, latitude, longitude, roughness, rough_windows, last_seen
		FROM rough_segments
		WHERE roughness >= ?
		ORDER BY roughness DESC
		LIMIT ? OFFSET ?`,
		filter.MinRoughness, filter.Limit, filter.Offset)
	if err != nil {
		return nil, errs.StoreUnavailable("list segments", err)
	}
	defer rows.Close()

	var segments []models.RoughSegment
	for rows.Next() {
		var s models.RoughSegment
		if err := rows.Scan(
			&s.SegmentID, &s.TripID, &s.Latitude, &s.Longitude,
			&s.Roughness, &s.RoughWindows, &s.LastSeen,
		); err != nil {
			return nil, errs.StoreUnavailable("scan segment row", err)
		}
		segments = append(segments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.StoreUnavailable("iterate segments", err)
	}
	return segments, nil
}
