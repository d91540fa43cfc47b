package cluster

import (
	"sort"

	"github.com/tarekm28/Ou3a-Joura/internal/models"
)

// Params are the spatial aggregation parameters, overridable per query.
type Params struct {
	EpsM   float64
	MinPts int
}

// DefaultParams returns the production clustering parameters.
func DefaultParams() Params {
	return Params{EpsM: 5.0, MinPts: 2}
}

const noise = -1
const unvisited = -2

// dbscan labels each detection with a cluster index, or noise. Detections
// must already be in canonical order; with that fixed, the labeling is
// deterministic and matches reference DBSCAN up to noise ordering.
func dbscan(points []models.Detection, p Params) []int {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = unvisited
	}

	idx := newGridIndex(points, p.EpsM)
	clusterID := 0

	for i := range points {
		if labels[i] != unvisited {
			continue
		}

		neighbors := idx.Neighbors(i)
		if len(neighbors) < p.MinPts {
			labels[i] = noise
			continue
		}

		labels[i] = clusterID
		queue := append([]int(nil), neighbors...)
		for head := 0; head < len(queue); head++ {
			j := queue[head]
			if labels[j] == noise {
				labels[j] = clusterID // border point
				continue
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = clusterID

			jn := idx.Neighbors(j)
			if len(jn) >= p.MinPts {
				queue = append(queue, jn...)
			}
		}
		clusterID++
	}

	return labels
}

// canonicalize sorts detections into a stable order so clustering and
// cluster ids are independent of insertion order.
func canonicalize(points []models.Detection) {
	sort.Slice(points, func(i, j int) bool {
		a, b := &points[i], &points[j]
		if a.Latitude != b.Latitude {
			return a.Latitude < b.Latitude
		}
		if a.Longitude != b.Longitude {
			return a.Longitude < b.Longitude
		}
		if !a.WallTime.Equal(b.WallTime) {
			return a.WallTime.Before(b.WallTime)
		}
		return a.TripID < b.TripID
	})
}
