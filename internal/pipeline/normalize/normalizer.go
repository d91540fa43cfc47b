package normalize

import (
	"time"

	"github.com/tarekm28/Ou3a-Joura/internal/errs"
	"github.com/tarekm28/Ou3a-Joura/internal/models"
)

// MinGyroSamples is the minimum number of gyro-bearing samples a trip must
// carry to be processable.
const MinGyroSamples = 50

// maxWallClockRegression is the largest backward wall-clock jump tolerated
// before the offending sample is dropped.
const maxWallClockRegression = 5 * time.Second

// Trip converts one uploaded trip document into a validated, uptime-ordered
// sample sequence. Samples that lack a valid gyro reading, run backward in
// uptime, or jump backward in wall time by more than 5 s are dropped.
func Trip(doc *models.TripUpload) ([]models.Sample, error) {
	if doc == nil {
		return nil, errs.InvalidTrip("empty document")
	}
	if doc.UserID == "" {
		return nil, errs.InvalidTrip("missing user_id")
	}
	if doc.TripID == "" {
		return nil, errs.InvalidTrip("missing trip_id")
	}
	if len(doc.Samples) == 0 {
		return nil, errs.InvalidTrip("no samples")
	}

	samples := make([]models.Sample, 0, len(doc.Samples))

	var maxUptime int64 = -1
	var maxWall time.Time

	for i := range doc.Samples {
		raw := &doc.Samples[i]

		gyro, ok := vec3(raw.Gyro)
		if !ok {
			continue
		}

		// One-pass monotonicity filter: keep fix-up cases, ignore reordering.
		if maxUptime >= 0 && raw.UptimeMs <= maxUptime {
			continue
		}

		wall := raw.Timestamp.Time
		if wall.IsZero() {
			continue
		}
		if !maxWall.IsZero() && maxWall.Sub(wall) > maxWallClockRegression {
			continue
		}

		s := models.Sample{
			WallTime: wall,
			UptimeMs: raw.UptimeMs,
			Gyro:     gyro,
		}

		if accel, ok := vec3(raw.Accel); ok {
			a := accel
			s.Accel = &a
		}

		if pos := position(raw); pos != nil {
			s.Position = pos
		}
		if raw.SpeedMps != nil && *raw.SpeedMps >= 0 {
			v := *raw.SpeedMps
			s.SpeedMps = &v
		}

		maxUptime = raw.UptimeMs
		if wall.After(maxWall) {
			maxWall = wall
		}
		samples = append(samples, s)
	}

	if len(samples) < MinGyroSamples {
		return nil, errs.InvalidTrip("only %d usable samples, need %d", len(samples), MinGyroSamples)
	}

	return samples, nil
}

func vec3(arr []float64) (models.Vec3, bool) {
	if len(arr) != 3 {
		return models.Vec3{}, false
	}
	return models.Vec3{X: arr[0], Y: arr[1], Z: arr[2]}, true
}

func position(raw *models.SampleDoc) *models.Position {
	if raw.Latitude == nil || raw.Longitude == nil {
		return nil
	}
	lat, lon := *raw.Latitude, *raw.Longitude
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil
	}
	pos := &models.Position{Latitude: lat, Longitude: lon}
	if raw.AccuracyM != nil && *raw.AccuracyM >= 0 {
		pos.AccuracyM = *raw.AccuracyM
	}
	return pos
}
