package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexTime accepts either an ISO-8601 string or a millisecond integer,
// matching what different collector builds upload.
type FlexTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *FlexTime) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		parsed, err := time.Parse(time.RFC3339Nano, s[1:len(s)-1])
		if err != nil {
			return fmt.Errorf("parse timestamp %s: %w", s, err)
		}
		t.Time = parsed.UTC()
		return nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse timestamp %s: %w", s, err)
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// SampleDoc is one raw sample as uploaded by the collector.
type SampleDoc struct {
	Timestamp FlexTime  `json:"timestamp"`
	UptimeMs  int64     `json:"uptime_ms"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	AccuracyM *float64  `json:"accuracy_m"`
	SpeedMps  *float64  `json:"speed_mps"`
	Accel     []float64 `json:"accel"`
	Gyro      []float64 `json:"gyro"`
}

// TripUpload is the trip document posted by the mobile collector.
type TripUpload struct {
	UserID      string      `json:"user_id"`
	TripID      string      `json:"trip_id"`
	StartTime   *FlexTime   `json:"start_time,omitempty"`
	EndTime     *FlexTime   `json:"end_time,omitempty"`
	SampleCount int         `json:"sample_count,omitempty"`
	Samples     []SampleDoc `json:"samples"`
}

// Trip is the stored per-trip metadata row.
type Trip struct {
	TripID      string     `json:"trip_id" db:"trip_id"`
	UserID      string     `json:"user_id" db:"user_id"`
	StartTime   *time.Time `json:"start_time,omitempty" db:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty" db:"end_time"`
	SampleCount int        `json:"sample_count" db:"sample_count"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
