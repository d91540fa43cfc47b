package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarekm28/Ou3a-Joura/internal/errs"
	"github.com/tarekm28/Ou3a-Joura/internal/models"
)

var t0 = time.Date(2025, 11, 9, 10, 56, 58, 0, time.UTC)

func sampleDoc(i int) models.SampleDoc {
	lat, lon := 33.8886, 35.4955
	acc, speed := 5.0, 10.0
	return models.SampleDoc{
		Timestamp: models.FlexTime{Time: t0.Add(time.Duration(i) * 20 * time.Millisecond)},
		UptimeMs:  int64(i) * 20,
		Latitude:  &lat,
		Longitude: &lon,
		AccuracyM: &acc,
		SpeedMps:  &speed,
		Accel:     []float64{0, 0, 9.81},
		Gyro:      []float64{0, 0, 0},
	}
}

func validUpload(n int) *models.TripUpload {
	doc := &models.TripUpload{UserID: "u1", TripID: "t1"}
	for i := 0; i < n; i++ {
		doc.Samples = append(doc.Samples, sampleDoc(i))
	}
	return doc
}

func TestValidTrip(t *testing.T) {
	samples, err := Trip(validUpload(100))
	require.NoError(t, err)
	assert.Len(t, samples, 100)

	s := samples[0]
	assert.True(t, s.HasPosition())
	assert.Equal(t, 33.8886, s.Position.Latitude)
	assert.NotNil(t, s.Accel)
	require.NotNil(t, s.SpeedMps)
	assert.Equal(t, 10.0, *s.SpeedMps)
}

func TestMissingIdentifiers(t *testing.T) {
	doc := validUpload(100)
	doc.UserID = ""
	_, err := Trip(doc)
	assert.ErrorIs(t, err, errs.ErrInvalidTrip)

	doc = validUpload(100)
	doc.TripID = ""
	_, err = Trip(doc)
	assert.ErrorIs(t, err, errs.ErrInvalidTrip)

	_, err = Trip(&models.TripUpload{UserID: "u1", TripID: "t1"})
	assert.ErrorIs(t, err, errs.ErrInvalidTrip)
}

func TestTooFewGyroSamples(t *testing.T) {
	doc := validUpload(100)
	// Only the first 30 keep a valid gyro.
	for i := 30; i < 100; i++ {
		doc.Samples[i].Gyro = nil
	}
	_, err := Trip(doc)
	assert.ErrorIs(t, err, errs.ErrInvalidTrip)
}

func TestMalformedAxisArrays(t *testing.T) {
	doc := validUpload(100)
	doc.Samples[10].Accel = []float64{1, 2}   // accel dropped, sample kept
	doc.Samples[11].Gyro = []float64{1, 2, 3, 4} // whole sample dropped

	samples, err := Trip(doc)
	require.NoError(t, err)
	assert.Len(t, samples, 99)

	for _, s := range samples {
		if s.UptimeMs == 200 {
			assert.Nil(t, s.Accel)
		}
		assert.NotEqual(t, int64(220), s.UptimeMs)
	}
}

func TestOutOfRangeCoordinatesDropPosition(t *testing.T) {
	doc := validUpload(100)
	badLat := 91.0
	doc.Samples[5].Latitude = &badLat
	doc.Samples[6].Latitude = nil

	samples, err := Trip(doc)
	require.NoError(t, err)
	assert.False(t, samples[5].HasPosition())
	assert.False(t, samples[6].HasPosition())
	assert.True(t, samples[7].HasPosition())
}

func TestNonMonotonicUptimeDropped(t *testing.T) {
	doc := validUpload(100)
	doc.Samples[50].UptimeMs = 100 // runs backward

	samples, err := Trip(doc)
	require.NoError(t, err)
	assert.Len(t, samples, 99)
	for i := 1; i < len(samples); i++ {
		assert.Greater(t, samples[i].UptimeMs, samples[i-1].UptimeMs)
	}
}

func TestWallClockRegressionDropped(t *testing.T) {
	doc := validUpload(100)
	// Small adjustment is tolerated, a 10 s jump back is not.
	doc.Samples[40].Timestamp = models.FlexTime{Time: t0.Add(700 * time.Millisecond)}
	doc.Samples[60].Timestamp = models.FlexTime{Time: t0.Add(-10 * time.Second)}

	samples, err := Trip(doc)
	require.NoError(t, err)
	assert.Len(t, samples, 99)
	for _, s := range samples {
		assert.NotEqual(t, int64(1200), s.UptimeMs)
	}
}
