package repository

import (
	"database/sql"

	"github.com/tarekm28/Ou3a-Joura/internal/database"
	"github.com/tarekm28/Ou3a-Joura/internal/errs"
	"github.com/tarekm28/Ou3a-Joura/internal/models"
)

// DetectionRepository handles database operations for detection events.
// Writes are replace-per-trip inside one transaction, so a concurrent scan
// sees either a trip's old detection set or its new one, never a mixture.
type DetectionRepository struct {
	db *sql.DB
}

// NewDetectionRepository creates a new detection repository
func NewDetectionRepository(db *sql.DB) *DetectionRepository {
	return &DetectionRepository{db: db}
}

// ReplaceTripDetections atomically swaps the detection set of one trip.
// Re-ingesting a trip is idempotent: same document in, same rows out.
func (r *DetectionRepository) ReplaceTripDetections(tripID string, detections []models.Detection) error {
	err := database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM detections WHERE trip_id = ?", tripID); err != nil {
			return err
		}

		if len(detections) == 0 {
			return nil
		}

		stmt, err := tx.Prepare(`
			INSERT INTO detections (trip_id, user_id, wall_time, latitude, longitude, intensity, stability, speed_mps)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i := range detections {
			d := &detections[i]
			if _, err := stmt.Exec(
				d.TripID, d.UserID, d.WallTime,
				d.Latitude, d.Longitude,
				d.Intensity, d.Stability, d.SpeedMps,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.StoreUnavailable("replace trip detections", err)
	}
	return nil
}

// ScanAll streams every stored detection in insertion order.
func (r *DetectionRepository) ScanAll() ([]models.Detection, error) {
	rows, err := r.db.Query(`
		SELECT id, trip_id, user_id, wall_time, latitude, longitude, intensity, stability, speed_mps
		FROM detections ORDER BY id`)
	if err != nil {
		return nil, errs.StoreUnavailable("scan detections", err)
	}
	defer rows.Close()

	return scanDetections(rows)
}

// List retrieves detections ordered by wall_time descending, with pagination
// and an optional intensity floor.
func (r *DetectionRepository) List(filter models.DetectionFilter) ([]models.Detection, error) {
	if filter.Limit < 1 {
		filter.Limit = 1000
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	rows, err := r.db.Query(`
		SELECT id, trip_id, user_id, wall_time, latitude, longitude, intensity, stability, speed_mps
		FROM detections
		WHERE intensity >= ?
		ORDER BY wall_time DESC
		LIMIT ? OFFSET ?`,
		filter.MinIntensity, filter.Limit, filter.Offset)
	if err != nil {
		return nil, errs.StoreUnavailable("list detections", err)
	}
	defer rows.Close()

	return scanDetections(rows)
}

// Count returns the number of stored detections.
func (r *DetectionRepository) Count() (int64, error) {
	var count int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM detections").Scan(&count); err != nil {
		return 0, errs.StoreUnavailable("count detections", err)
	}
	return count, nil
}

func scanDetections(rows *sql.Rows) ([]models.Detection, error) {
	var detections []models.Detection
	for rows.Next() {
		var d models.Detection
		if err := rows.Scan(
			&d.ID, &d.TripID, &d.UserID, &d.WallTime,
			&d.Latitude, &d.Longitude,
			&d.Intensity, &d.Stability, &d.SpeedMps,
		); err != nil {
			return nil, errs.StoreUnavailable("scan detection row", err)
		}
		detections = append(detections, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.StoreUnavailable("iterate detections", err)
	}
	return detections, nil
}
