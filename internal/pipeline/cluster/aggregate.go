package cluster

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/tarekm28/Ou3a-Joura/internal/models"
)

// Group clusters the detection set spatially and computes per-cluster
// aggregates. Noise points are discarded: a bump only one pass ever felt is
// not evidence enough to report. Scoring is left to the score package.
func Group(detections []models.Detection, p Params) []models.Cluster {
	if len(detections) == 0 {
		return nil
	}

	points := append([]models.Detection(nil), detections...)
	canonicalize(points)

	labels := dbscan(points, p)

	byLabel := make(map[int][]int)
	for i, lbl := range labels {
		if lbl == noise {
			continue
		}
		byLabel[lbl] = append(byLabel[lbl], i)
	}

	clusters := make([]models.Cluster, 0, len(byLabel))
	for _, members := range byLabel {
		clusters = append(clusters, summarize(points, members))
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].ClusterID < clusters[j].ClusterID
	})
	return clusters
}

func summarize(points []models.Detection, members []int) models.Cluster {
	var c models.Cluster
	users := make(map[string]struct{})

	var latSum, lonSum, intensitySum, stabilitySum float64
	for _, i := range members {
		d := &points[i]
		latSum += d.Latitude
		lonSum += d.Longitude
		intensitySum += d.Intensity
		stabilitySum += d.Stability
		users[d.UserID] = struct{}{}
		if d.WallTime.After(c.LastSeen) {
			c.LastSeen = d.WallTime
		}
	}

	n := float64(len(members))
	c.Hits = len(members)
	c.Users = len(users)
	c.Latitude = latSum / n
	c.Longitude = lonSum / n
	c.AvgIntensity = intensitySum / n
	c.AvgStability = stabilitySum / n
	c.ClusterID = clusterID(points, members)
	return c
}

// clusterID derives a deterministic id from the member coordinates: the hex
// of the first 16 bytes of a sha-256 over the sorted 6-dp coordinate list.
// Stable membership gives a stable id across recomputes.
func clusterID(points []models.Detection, members []int) string {
	coords := make([]string, 0, len(members))
	for _, i := range members {
		coords = append(coords, fmt.Sprintf("%.6f:%.6f", points[i].Latitude, points[i].Longitude))
	}
	sort.Strings(coords)

	sum := sha256.Sum256([]byte(strings.Join(coords, "\n")))
	return hex.EncodeToString(sum[:16])
}

// Fingerprint hashes the detection set content together with the clustering
// parameters. Used as the cache key for derived clusters, so a cache entry
// can never outlive a detection write.
func Fingerprint(detections []models.Detection, p Params) string {
	h := sha256.New()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(detections)))
	h.Write(buf[:])

	for i := range detections {
		d := &detections[i]
		fmt.Fprintf(h, "%s|%s|%d|%.7f|%.7f|%.4f|%.4f\n",
			d.TripID, d.UserID, d.WallTime.UnixMilli(),
			d.Latitude, d.Longitude, d.Intensity, d.Stability)
	}
	fmt.Fprintf(h, "eps=%.3f,minpts=%d", p.EpsM, p.MinPts)

	return hex.EncodeToString(h.Sum(nil))
}
