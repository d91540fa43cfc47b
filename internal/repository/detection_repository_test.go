package repository

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarekm28/Ou3a-Joura/internal/database"
	"github.com/tarekm28/Ou3a-Joura/internal/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("PRAGMA journal_mode=WAL")
	require.NoError(t, err)
	_, err = db.Exec("PRAGMA foreign_keys=ON")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func putTrip(t *testing.T, trips *TripRepository, userID, tripID string) {
	t.Helper()
	doc := &models.TripUpload{UserID: userID, TripID: tripID, Samples: []models.SampleDoc{{UptimeMs: 1, Gyro: []float64{0, 0, 0}}}}
	require.NoError(t, trips.Put(doc))
}

func det(tripID, userID string, at time.Time, lat, lon float64) models.Detection {
	return models.Detection{
		TripID: tripID, UserID: userID, WallTime: at,
		Latitude: lat, Longitude: lon,
		Intensity: 10, Stability: 0.9, SpeedMps: 8,
	}
}

func TestReplaceTripDetectionsIsIdempotent(t *testing.T) {
	db := testDB(t)
	trips := NewTripRepository(db)
	detections := NewDetectionRepository(db)

	putTrip(t, trips, "u1", "t1")

	at := time.Date(2025, 11, 9, 10, 0, 0, 0, time.UTC)
	set := []models.Detection{
		det("t1", "u1", at, 33.8886, 35.4955),
		det("t1", "u1", at.Add(2*time.Second), 33.8890, 35.4957),
	}

	require.NoError(t, detections.ReplaceTripDetections("t1", set))
	require.NoError(t, detections.ReplaceTripDetections("t1", set))

	count, err := detections.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	all, err := detections.ScanAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "t1", all[0].TripID)
	assert.InDelta(t, 33.8886, all[0].Latitude, 1e-9)
	assert.True(t, all[0].WallTime.Equal(at))
}

func TestReplaceSwapsWholeTripSet(t *testing.T) {
	db := testDB(t)
	trips := NewTripRepository(db)
	detections := NewDetectionRepository(db)

	putTrip(t, trips, "u1", "t1")
	putTrip(t, trips, "u2", "t2")

	at := time.Date(2025, 11, 9, 10, 0, 0, 0, time.UTC)
	require.NoError(t, detections.ReplaceTripDetections("t1", []models.Detection{
		det("t1", "u1", at, 33.8886, 35.4955),
		det("t1", "u1", at.Add(time.Second), 33.8887, 35.4955),
	}))
	require.NoError(t, detections.ReplaceTripDetections("t2", []models.Detection{
		det("t2", "u2", at, 34.0, 35.5),
	}))

	// Re-ingest of t1 finds fewer bumps this time.
	require.NoError(t, detections.ReplaceTripDetections("t1", []models.Detection{
		det("t1", "u1", at, 33.8886, 35.4955),
	}))

	all, err := detections.ScanAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// And a replace with an empty set clears the trip.
	require.NoError(t, detections.ReplaceTripDetections("t1", nil))
	count, err := detections.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListOrdersByWallTimeDesc(t *testing.T) {
	db := testDB(t)
	trips := NewTripRepository(db)
	detections := NewDetectionRepository(db)

	putTrip(t, trips, "u1", "t1")

	at := time.Date(2025, 11, 9, 10, 0, 0, 0, time.UTC)
	require.NoError(t, detections.ReplaceTripDetections("t1", []models.Detection{
		det("t1", "u1", at, 33.0, 35.0),
		det("t1", "u1", at.Add(5*time.Second), 33.1, 35.1),
		det("t1", "u1", at.Add(2*time.Second), 33.2, 35.2),
	}))

	list, err := detections.List(models.DetectionFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].WallTime.After(list[1].WallTime))

	rest, err := detections.List(models.DetectionFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestTripMetadataRoundTrip(t *testing.T) {
	db := testDB(t)
	trips := NewTripRepository(db)

	start := models.FlexTime{Time: time.Date(2025, 11, 9, 10, 0, 0, 0, time.UTC)}
	end := models.FlexTime{Time: start.Add(5 * time.Minute)}
	doc := &models.TripUpload{
		UserID: "u1", TripID: "t1",
		StartTime: &start, EndTime: &end,
		Samples: []models.SampleDoc{{UptimeMs: 1, Gyro: []float64{0, 0, 0}}},
	}
	require.NoError(t, trips.Put(doc))
	require.NoError(t, trips.Put(doc)) // idempotent upsert

	meta, err := trips.GetMeta("t1")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "u1", meta.UserID)
	assert.Equal(t, 1, meta.SampleCount)
	require.NotNil(t, meta.StartTime)

	raw, err := trips.GetRaw("t1")
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.Equal(t, "t1", raw.TripID)
	assert.Len(t, raw.Samples, 1)

	missing, err := trips.GetMeta("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSegmentReplaceAndList(t *testing.T) {
	db := testDB(t)
	trips := NewTripRepository(db)
	segments := NewSegmentRepository(db)

	putTrip(t, trips, "u1", "t1")

	at := time.Date(2025, 11, 9, 10, 0, 0, 0, time.UTC)
	set := []models.RoughSegment{
		{SegmentID: "a", TripID: "t1", Latitude: 33, Longitude: 35, Roughness: 2.5, RoughWindows: 40, LastSeen: at},
		{SegmentID: "b", TripID: "t1", Latitude: 33.1, Longitude: 35.1, Roughness: 4.0, RoughWindows: 12, LastSeen: at},
	}
	require.NoError(t, segments.ReplaceTripSegments("t1", set))
	require.NoError(t, segments.ReplaceTripSegments("t1", set))

	list, err := segments.List(models.SegmentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].SegmentID) // roughest first

	filtered, err := segments.List(models.SegmentFilter{MinRoughness: 3})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}
