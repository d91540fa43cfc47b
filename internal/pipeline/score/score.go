package score

import (
	"math"
	"time"

	"github.com/tarekm28/Ou3a-Joura/internal/models"
	"github.com/tarekm28/Ou3a-Joura/internal/stats"
)

// Weights and saturation points of the confidence model. Three independent
// users saturate coverage; ten hits saturate the hit term; recency halves
// roughly every three weeks.
const (
	coverageSaturation = 3.0
	hitsSaturation     = 10.0
	intensityFloor     = 5.0
	intensitySpan      = 10.0
	recencyDecayDays   = 30.0

	weightCoverage  = 0.45
	weightHits      = 0.25
	weightIntensity = 0.20
	weightStability = 0.10

	priorityConfidenceWeight = 0.7
	prioritySeverityWeight   = 0.3

	veryLikelyThreshold = 0.66
	likelyThreshold     = 0.40
)

// DashboardFloor is the minimum confidence cut applied by the dashboard
// percentile filter.
const DashboardFloor = 0.40

// dashboardQuantile selects the slice of clusters shown in the
// high-priority view.
const dashboardQuantile = 0.66

// Apply fills Confidence, Priority and Likelihood for each cluster in place,
// evaluated at the given instant.
func Apply(clusters []models.Cluster, now time.Time) {
	for i := range clusters {
		scoreCluster(&clusters[i], now)
	}
}

func scoreCluster(c *models.Cluster, now time.Time) {
	coverage := math.Min(float64(c.Users)/coverageSaturation, 1)
	hitsN := math.Min(float64(c.Hits)/hitsSaturation, 1)

	intensityN := (c.AvgIntensity - intensityFloor) / intensitySpan
	intensityN = math.Min(math.Max(intensityN, 0), 1)

	stabilityN := math.Min(math.Max(c.AvgStability, 0), 1)

	deltaDays := now.Sub(c.LastSeen).Hours() / 24
	if deltaDays < 0 {
		deltaDays = 0
	}
	recency := math.Exp(-deltaDays / recencyDecayDays)

	confidence := (weightCoverage*coverage +
		weightHits*hitsN +
		weightIntensity*intensityN +
		weightStability*stabilityN) * recency
	confidence = math.Min(math.Max(confidence, 0), 1)

	// Severe bumps on wobbly mounts are likely real but under-confident;
	// the second term keeps them from sinking in the ranking.
	priority := priorityConfidenceWeight*confidence +
		prioritySeverityWeight*intensityN*(1-stabilityN)
	priority = math.Min(math.Max(priority, 0), 1)

	c.Confidence = confidence
	c.Priority = priority
	c.Likelihood = likelihood(confidence)
}

func likelihood(confidence float64) string {
	switch {
	case confidence >= veryLikelyThreshold:
		return models.LikelihoodVeryLikely
	case confidence >= likelyThreshold:
		return models.LikelihoodLikely
	default:
		return models.LikelihoodUncertain
	}
}

// DashboardThreshold returns the confidence cut for the high-priority view:
// the 66th percentile of the current confidence distribution, floored at
// 0.40. Output-time only; nothing is stored.
func DashboardThreshold(clusters []models.Cluster) float64 {
	if len(clusters) == 0 {
		return DashboardFloor
	}
	confidences := make([]float64, len(clusters))
	for i := range clusters {
		confidences[i] = clusters[i].Confidence
	}
	threshold := stats.Quantile(confidences, dashboardQuantile)
	if threshold < DashboardFloor {
		threshold = DashboardFloor
	}
	return threshold
}
