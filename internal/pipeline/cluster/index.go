package cluster

import (
	"math"

	"github.com/tarekm28/Ou3a-Joura/internal/models"
	"github.com/tarekm28/Ou3a-Joura/internal/spatial"
)

type cellKey struct {
	lat int64
	lon int64
}

// gridIndex is a hash-grid spatial index over detections. Cells are sized so
// that any two points within eps meters of each other land in the same or an
// adjacent cell; candidate pairs are then confirmed with exact haversine
// distance. This keeps neighborhood queries O(points-per-cell) and the whole
// DBSCAN pass near-linear, which the million-detection target requires.
type gridIndex struct {
	epsM       float64
	latCellDeg float64
	lonCellDeg float64
	cells      map[cellKey][]int
	points     []models.Detection
}

func newGridIndex(points []models.Detection, epsM float64) *gridIndex {
	latCellDeg := epsM / spatial.EarthRadiusMeters * 180 / math.Pi

	// Longitude degrees shrink with latitude; size lon cells for the worst
	// latitude in the set so adjacency never misses a true neighbor.
	maxAbsLat := 0.0
	for i := range points {
		if a := math.Abs(points[i].Latitude); a > maxAbsLat {
			maxAbsLat = a
		}
	}
	if maxAbsLat > 89.9 {
		maxAbsLat = 89.9
	}
	lonCellDeg := latCellDeg / math.Cos(maxAbsLat*math.Pi/180)

	idx := &gridIndex{
		epsM:       epsM,
		latCellDeg: latCellDeg,
		lonCellDeg: lonCellDeg,
		cells:      make(map[cellKey][]int, len(points)/2+1),
		points:     points,
	}
	for i := range points {
		k := idx.key(points[i].Latitude, points[i].Longitude)
		idx.cells[k] = append(idx.cells[k], i)
	}
	return idx
}

func (idx *gridIndex) key(lat, lon float64) cellKey {
	return cellKey{
		lat: int64(math.Floor(lat / idx.latCellDeg)),
		lon: int64(math.Floor(lon / idx.lonCellDeg)),
	}
}

// Neighbors returns the indices within epsM of point i, including i itself.
func (idx *gridIndex) Neighbors(i int) []int {
	p := &idx.points[i]
	center := idx.key(p.Latitude, p.Longitude)

	var out []int
	for dlat := int64(-1); dlat <= 1; dlat++ {
		for dlon := int64(-1); dlon <= 1; dlon++ {
			k := cellKey{lat: center.lat + dlat, lon: center.lon + dlon}
			for _, j := range idx.cells[k] {
				q := &idx.points[j]
				d := spatial.HaversineDistance(p.Latitude, p.Longitude, q.Latitude, q.Longitude)
				if d <= idx.epsM {
					out = append(out, j)
				}
			}
		}
	}
	return out
}
