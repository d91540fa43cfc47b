package detect

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"time"

	"github.com/tarekm28/Ou3a-Joura/internal/models"
	"github.com/tarekm28/Ou3a-Joura/internal/spatial"
	"github.com/tarekm28/Ou3a-Joura/internal/stats"
)

type roughCell struct {
	latSum   float64
	lonSum   float64
	zs       []float64
	lastSeen time.Time
}

// roughSegments buckets stable, geolocated rows into geohash cells and
// reports every cell holding at least RoughMinSamples z-bearing rows, with
// the RMS of their robust z as its roughness. No roughness threshold is
// applied, so smooth cells are reported too, with a low roughness. Unstable
// stretches are skipped entirely: roughness measured on a flailing phone
// says nothing about the road.
func roughSegments(tripID string, rows []fusedRow, p Params) []models.RoughSegment {
	cells := make(map[string]*roughCell)
	staleMs := p.PositionStaleness.Milliseconds()

	for i := range rows {
		row := &rows[i]
		if !row.hasZ || row.stability < p.RoughMinStability {
			continue
		}
		if row.pos == nil || row.posAgeMs > staleMs {
			continue
		}

		hash := spatial.EncodeGeohash(row.pos.Latitude, row.pos.Longitude, p.RoughCellPrecision)
		cell, ok := cells[hash]
		if !ok {
			cell = &roughCell{}
			cells[hash] = cell
		}
		cell.latSum += row.pos.Latitude
		cell.lonSum += row.pos.Longitude
		cell.zs = append(cell.zs, row.z)
		if row.wall.After(cell.lastSeen) {
			cell.lastSeen = row.wall
		}
	}

	var segments []models.RoughSegment
	for hash, cell := range cells {
		if len(cell.zs) < p.RoughMinSamples {
			continue
		}
		n := float64(len(cell.zs))
		sum := sha1.Sum([]byte(hash))
		segments = append(segments, models.RoughSegment{
			SegmentID:    hex.EncodeToString(sum[:]),
			TripID:       tripID,
			Latitude:     cell.latSum / n,
			Longitude:    cell.lonSum / n,
			Roughness:    stats.RMS(cell.zs),
			RoughWindows: len(cell.zs),
			LastSeen:     cell.lastSeen,
		})
	}

	sort.Slice(segments, func(i, j int) bool {
		return segments[i].SegmentID < segments[j].SegmentID
	})
	return segments
}
