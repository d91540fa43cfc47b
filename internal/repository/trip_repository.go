package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/tarekm28/Ou3a-Joura/internal/database"
	"github.com/tarekm28/Ou3a-Joura/internal/errs"
	"github.com/tarekm28/Ou3a-Joura/internal/models"
)

// TripRepository handles database operations for trips and their raw payloads
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Put upserts the trip metadata and raw document, keyed by trip_id. Re-upload
// of the same trip replaces the stored copy.
func (r *TripRepository) Put(doc *models.TripUpload) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return errs.InvalidTrip("unserializable document: %v", err)
	}

	err = database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			"INSERT INTO users (user_id) VALUES (?) ON CONFLICT (user_id) DO NOTHING",
			doc.UserID,
		); err != nil {
			return err
		}

		var start, end interface{}
		if doc.StartTime != nil {
			start = doc.StartTime.Time
		}
		if doc.EndTime != nil {
			end = doc.EndTime.Time
		}

		if _, err := tx.Exec(`
			INSERT INTO trips (trip_id, user_id, start_time, end_time, sample_count)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (trip_id) DO UPDATE SET
				user_id      = excluded.user_id,
				start_time   = excluded.start_time,
				end_time     = excluded.end_time,
				sample_count = excluded.sample_count,
				updated_at   = CURRENT_TIMESTAMP`,
			doc.TripID, doc.UserID, start, end, len(doc.Samples),
		); err != nil {
			return err
		}

		_, err := tx.Exec(`
			INSERT INTO trip_raw (trip_id, payload)
			VALUES (?, ?)
			ON CONFLICT (trip_id) DO UPDATE SET payload = excluded.payload`,
			doc.TripID, string(payload),
		)
		return err
	})
	if err != nil {
		return errs.StoreUnavailable("put trip", err)
	}
	return nil
}

// GetMeta retrieves trip metadata by id. Returns nil when the trip is
// unknown.
func (r *TripRepository) GetMeta(tripID string) (*models.Trip, error) {
	var t models.Trip
	var start, end sql.NullTime
	err := r.db.QueryRow(`
		SELECT trip_id, user_id, start_time, end_time, sample_count, created_at, updated_at
		FROM trips WHERE trip_id = ?`, tripID,
	).Scan(&t.TripID, &t.UserID, &start, &end, &t.SampleCount, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.StoreUnavailable("get trip", err)
	}
	if start.Valid {
		t.StartTime = &start.Time
	}
	if end.Valid {
		t.EndTime = &end.Time
	}
	return &t, nil
}

// GetRaw retrieves the stored raw document for a trip. Returns nil when the
// trip has no stored payload.
func (r *TripRepository) GetRaw(tripID string) (*models.TripUpload, error) {
	var payload string
	err := r.db.QueryRow("SELECT payload FROM trip_raw WHERE trip_id = ?", tripID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.StoreUnavailable("get raw trip", err)
	}

	var doc models.TripUpload
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, errs.InvalidTrip("stored payload corrupt: %v", err)
	}
	return &doc, nil
}
