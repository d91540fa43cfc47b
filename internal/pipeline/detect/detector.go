package detect

import (
	"context"
	"math"

	"github.com/tarekm28/Ou3a-Joura/internal/models"
	"github.com/tarekm28/Ou3a-Joura/internal/stats"
)

// Result is the detector output for one trip.
type Result struct {
	Detections []models.Detection
	Segments   []models.RoughSegment
}

// ctxCheckInterval is how many rows are processed between context checks.
const ctxCheckInterval = 2048

// Run executes the per-trip detection pipeline over normalized samples:
// sensor fusion, vertical-axis estimation, stability and robust z-score
// tracking, candidate gating, and debounce. A trip with no usable gravity
// baseline or no qualifying excursions yields an empty result, not an error.
func Run(ctx context.Context, tripID, userID string, samples []models.Sample, p Params) (*Result, error) {
	rows := fuse(samples, p)

	gravity, ok := estimateVertical(rows, p)
	if !ok {
		// No usable orientation: the phone never settled enough to tell
		// which way is down.
		return &Result{}, nil
	}

	meanProj := meanProjection(rows, gravity)

	gyroWin := newTrailingWindow(p.GyroWindow.Milliseconds())
	avWin := newTrailingWindow(p.MADWindow.Milliseconds())

	for i := range rows {
		if i%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		row := &rows[i]

		gyroWin.Push(row.uptimeMs, norm(row.gyro))
		jitter := gyroWin.Mean()
		row.stability = clamp01(math.Exp(-p.StabilityDecay * jitter))

		if row.accel == nil {
			continue
		}
		row.av = dot(*row.accel, gravity) - meanProj
		row.hasAV = true

		avWin.Push(row.uptimeMs, row.av)
		if avWin.Len() < p.MinWindowSamples {
			continue
		}
		m, mad := stats.MAD(avWin.Values())
		row.z = math.Abs(row.av-m) / (1.4826*mad + p.Epsilon)
		row.hasZ = true
	}

	candidates := gate(rows, p)
	events := debounce(rows, candidates, p)

	result := &Result{
		Detections: emit(tripID, userID, rows, events),
		Segments:   roughSegments(tripID, rows, p),
	}
	return result, nil
}

// estimateVertical approximates the device's vertical axis as the unit mean
// of the accel vectors over the whole trip (a stationary-baseline estimate
// of the gravity direction).
func estimateVertical(rows []fusedRow, p Params) (models.Vec3, bool) {
	var sum models.Vec3
	n := 0
	for i := range rows {
		if rows[i].accel == nil {
			continue
		}
		sum.X += rows[i].accel.X
		sum.Y += rows[i].accel.Y
		sum.Z += rows[i].accel.Z
		n++
	}
	if n == 0 {
		return models.Vec3{}, false
	}

	mean := models.Vec3{X: sum.X / float64(n), Y: sum.Y / float64(n), Z: sum.Z / float64(n)}
	mag := norm(mean)
	if mag < p.MinGravity {
		return models.Vec3{}, false
	}
	return models.Vec3{X: mean.X / mag, Y: mean.Y / mag, Z: mean.Z / mag}, true
}

// meanProjection zero-centers the vertical acceleration signal.
func meanProjection(rows []fusedRow, gravity models.Vec3) float64 {
	sum := 0.0
	n := 0
	for i := range rows {
		if rows[i].accel == nil {
			continue
		}
		sum += dot(*rows[i].accel, gravity)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// gate returns the indices of rows passing every candidate condition.
func gate(rows []fusedRow, p Params) []int {
	var candidates []int
	staleMs := p.PositionStaleness.Milliseconds()

	for i := range rows {
		row := &rows[i]
		if !row.hasZ || row.z < p.ZThreshold {
			continue
		}
		if row.speed == nil || *row.speed < p.MinSpeedMps {
			continue
		}
		if row.stability < p.MinStability {
			continue
		}
		if row.pos == nil || row.pos.AccuracyM > p.MaxAccuracyM || row.posAgeMs > staleMs {
			continue
		}
		candidates = append(candidates, i)
	}
	return candidates
}

// debounce walks candidates in time order, keeping the largest-z candidate
// of each window and suppressing anything within Debounce of it.
func debounce(rows []fusedRow, candidates []int, p Params) []int {
	if len(candidates) == 0 {
		return nil
	}
	debounceMs := p.Debounce.Milliseconds()

	var events []int
	i := 0
	for i < len(candidates) {
		best := candidates[i]
		j := i + 1
		for j < len(candidates) && rows[candidates[j]].uptimeMs-rows[best].uptimeMs < debounceMs {
			if rows[candidates[j]].z > rows[best].z {
				best = candidates[j]
			}
			j++
		}
		events = append(events, best)
		i = j
	}
	return events
}

func emit(tripID, userID string, rows []fusedRow, events []int) []models.Detection {
	detections := make([]models.Detection, 0, len(events))
	for _, idx := range events {
		row := &rows[idx]
		detections = append(detections, models.Detection{
			TripID:    tripID,
			UserID:    userID,
			WallTime:  row.wall,
			Latitude:  row.pos.Latitude,
			Longitude: row.pos.Longitude,
			Intensity: row.z,
			Stability: row.stability,
			SpeedMps:  *row.speed,
		})
	}
	return detections
}

func norm(v models.Vec3) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func dot(a, b models.Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
