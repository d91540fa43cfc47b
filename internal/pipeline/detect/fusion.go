package detect

import (
	"time"

	"github.com/tarekm28/Ou3a-Joura/internal/models"
)

// fusedRow is one gyro-paced row after sensor fusion. Accel is the last known
// reading, carried only while fresh; position and speed are the last known
// fix, carried at any age, with that age in posAgeMs.
type fusedRow struct {
	wall     time.Time
	uptimeMs int64
	gyro     models.Vec3
	accel    *models.Vec3

	pos      *models.Position
	posAgeMs int64
	speed    *float64

	// filled by the detector pass
	stability float64
	av        float64
	hasAV     bool
	z         float64
	hasZ      bool
}

// fuse aligns accel and GPS state to the gyro beat. The normalizer guarantees
// every sample carries gyro and ascending uptime, so fusion is a single scan
// tracking last-known accel and position with their ages.
func fuse(samples []models.Sample, p Params) []fusedRow {
	rows := make([]fusedRow, 0, len(samples))

	var lastAccel *models.Vec3
	var lastAccelUptime int64
	var lastPos *models.Position
	var lastPosUptime int64
	var lastSpeed *float64

	staleMs := p.FusionStaleness.Milliseconds()

	for i := range samples {
		s := &samples[i]

		if s.Accel != nil {
			lastAccel = s.Accel
			lastAccelUptime = s.UptimeMs
		}
		if s.Position != nil {
			lastPos = s.Position
			lastPosUptime = s.UptimeMs
			lastSpeed = s.SpeedMps
		}

		row := fusedRow{
			wall:     s.WallTime,
			uptimeMs: s.UptimeMs,
			gyro:     s.Gyro,
		}

		if lastAccel != nil && s.UptimeMs-lastAccelUptime <= staleMs {
			row.accel = lastAccel
		}
		if lastPos != nil {
			row.pos = lastPos
			row.posAgeMs = s.UptimeMs - lastPosUptime
			row.speed = lastSpeed
		}

		rows = append(rows, row)
	}

	return rows
}
