package models

import "time"

// RoughSegment is the vibration level (Roughness) measured over one geohash
// cell of a trip. Produced per trip alongside pothole detections.
type RoughSegment struct {
	SegmentID    string    `json:"segment_id" db:"segment_id"`
	TripID       string    `json:"trip_id" db:"trip_id"`
	Latitude     float64   `json:"latitude" db:"latitude"`
	Longitude    float64   `json:"longitude" db:"longitude"`
	Roughness    float64   `json:"roughness" db:"roughness"`
	RoughWindows int       `json:"rough_windows" db:"rough_windows"`
	LastSeen     time.Time `json:"last_seen" db:"last_seen"`
}
