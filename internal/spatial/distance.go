package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Constants
const (
	// EarthRadiusMeters is the WGS-84 mean sphere radius.
	EarthRadiusMeters = 6371008.8
)

// HaversineDistance calculates the great-circle distance between two points
// in meters using the Haversine formula
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// EquirectangularXY projects a point to local planar meters around a
// reference latitude. Only valid for small regions (< ~1 degree of span).
// The cluster grid index does not use it: it bins by degree cells and
// measures with HaversineDistance.
func EquirectangularXY(lat, lon, refLatDeg float64) (x, y float64) {
	cosRef := math.Cos(refLatDeg * math.Pi / 180)
	x = lon * math.Pi / 180 * cosRef * EarthRadiusMeters
	y = lat * math.Pi / 180 * EarthRadiusMeters
	return
}
