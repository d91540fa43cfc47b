package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTimeAcceptsISO(t *testing.T) {
	var s SampleDoc
	require.NoError(t, json.Unmarshal([]byte(`{"timestamp": "2025-11-09T10:56:58.962Z", "uptime_ms": 378401794, "gyro": [0,0,0]}`), &s))

	want := time.Date(2025, 11, 9, 10, 56, 58, 962_000_000, time.UTC)
	assert.True(t, s.Timestamp.Equal(want))
	assert.Equal(t, int64(378401794), s.UptimeMs)
}

func TestFlexTimeAcceptsMillis(t *testing.T) {
	var s SampleDoc
	require.NoError(t, json.Unmarshal([]byte(`{"timestamp": 1762685818962, "gyro": [0,0,0]}`), &s))
	assert.Equal(t, int64(1762685818962), s.Timestamp.UnixMilli())
}

func TestFlexTimeRejectsGarbage(t *testing.T) {
	var s SampleDoc
	assert.Error(t, json.Unmarshal([]byte(`{"timestamp": "not-a-time"}`), &s))
}

func TestFlexTimeNull(t *testing.T) {
	var s SampleDoc
	require.NoError(t, json.Unmarshal([]byte(`{"timestamp": null, "gyro": [0,0,0]}`), &s))
	assert.True(t, s.Timestamp.IsZero())
}

func TestFlexTimeRoundTrip(t *testing.T) {
	orig := FlexTime{Time: time.Date(2025, 11, 9, 10, 56, 58, 0, time.UTC)}
	raw, err := json.Marshal(orig)
	require.NoError(t, err)

	var back FlexTime
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Equal(orig.Time))
}

func TestTripUploadDocument(t *testing.T) {
	raw := `{
		"user_id": "u1", "trip_id": "t1",
		"start_time": "2025-11-09T10:00:00Z",
		"sample_count": 1,
		"samples": [
			{"timestamp": "2025-11-09T10:00:00Z", "uptime_ms": 100,
			 "latitude": 33.88, "longitude": 35.49, "accuracy_m": 5.0,
			 "speed_mps": 10.5, "accel": [0.1, 0.2, 9.8], "gyro": [0, 0, 0.1]}
		]
	}`

	var doc TripUpload
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "u1", doc.UserID)
	require.Len(t, doc.Samples, 1)

	s := doc.Samples[0]
	require.NotNil(t, s.Latitude)
	assert.Equal(t, 33.88, *s.Latitude)
	assert.Equal(t, []float64{0.1, 0.2, 9.8}, s.Accel)
	assert.Equal(t, []float64{0, 0, 0.1}, s.Gyro)
}
