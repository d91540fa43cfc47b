package score

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarekm28/Ou3a-Joura/internal/models"
)

var now = time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

func cluster(hits, users int, intensity, stability float64, lastSeen time.Time) models.Cluster {
	return models.Cluster{
		Hits: hits, Users: users,
		AvgIntensity: intensity, AvgStability: stability,
		LastSeen: lastSeen,
	}
}

func TestScoreRanges(t *testing.T) {
	clusters := []models.Cluster{
		cluster(1, 1, 5, 0.1, now.Add(-400*24*time.Hour)),
		cluster(3, 2, 12, 0.8, now.Add(-24*time.Hour)),
		cluster(50, 10, 40, 1.0, now),
	}
	Apply(clusters, now)

	for _, c := range clusters {
		assert.GreaterOrEqual(t, c.Confidence, 0.0)
		assert.LessOrEqual(t, c.Confidence, 1.0)
		assert.GreaterOrEqual(t, c.Priority, 0.0)
		assert.LessOrEqual(t, c.Priority, 1.0)
		switch {
		case c.Confidence >= 0.66:
			assert.Equal(t, models.LikelihoodVeryLikely, c.Likelihood)
		case c.Confidence >= 0.40:
			assert.Equal(t, models.LikelihoodLikely, c.Likelihood)
		default:
			assert.Equal(t, models.LikelihoodUncertain, c.Likelihood)
		}
	}
}

func TestTwoUsersRecentBumpIsLikely(t *testing.T) {
	clusters := []models.Cluster{cluster(2, 2, 30, 0.95, now.Add(-time.Hour))}
	Apply(clusters, now)

	c := clusters[0]
	// coverage 2/3, hits 2/10, intensity saturated, stability 0.95.
	assert.InDelta(t, 0.45*2.0/3+0.25*0.2+0.20*1.0+0.10*0.95, c.Confidence, 0.01)
	assert.GreaterOrEqual(t, c.Confidence, 0.40)
	assert.Equal(t, models.LikelihoodLikely, c.Likelihood)
}

func TestThreeUsersTenHitsRecentIsVeryLikely(t *testing.T) {
	clusters := []models.Cluster{cluster(11, 3, 18, 0.9, now.Add(-2*24*time.Hour))}
	Apply(clusters, now)

	c := clusters[0]
	assert.GreaterOrEqual(t, c.Confidence, 0.70)
	assert.Equal(t, models.LikelihoodVeryLikely, c.Likelihood)
}

func TestOldClusterFadesToUncertain(t *testing.T) {
	clusters := []models.Cluster{cluster(11, 3, 18, 0.9, now.Add(-180*24*time.Hour))}
	Apply(clusters, now)

	c := clusters[0]
	assert.InDelta(t, math.Exp(-6), c.Confidence/0.99, 0.05)
	assert.LessOrEqual(t, c.Confidence, 0.01)
	assert.Equal(t, models.LikelihoodUncertain, c.Likelihood)
}

func TestCoverageSaturatesAtThreeUsers(t *testing.T) {
	three := []models.Cluster{cluster(5, 3, 10, 0.9, now)}
	thirty := []models.Cluster{cluster(5, 30, 10, 0.9, now)}
	Apply(three, now)
	Apply(thirty, now)

	assert.InDelta(t, three[0].Confidence, thirty[0].Confidence, 1e-12)
}

func TestFutureLastSeenClampedToFullRecency(t *testing.T) {
	clusters := []models.Cluster{cluster(5, 3, 10, 0.9, now.Add(time.Hour))}
	Apply(clusters, now)
	ref := []models.Cluster{cluster(5, 3, 10, 0.9, now)}
	Apply(ref, now)

	assert.InDelta(t, ref[0].Confidence, clusters[0].Confidence, 1e-12)
}

func TestPriorityElevatesWobblyMounts(t *testing.T) {
	steady := []models.Cluster{cluster(4, 2, 25, 0.95, now)}
	wobbly := []models.Cluster{cluster(4, 2, 25, 0.55, now)}
	Apply(steady, now)
	Apply(wobbly, now)

	// Lower stability drags confidence down but the severity term keeps
	// the wobbly cluster competitive in priority.
	assert.Less(t, wobbly[0].Confidence, steady[0].Confidence)
	assert.Greater(t, wobbly[0].Priority, steady[0].Priority)
}

func TestDashboardThreshold(t *testing.T) {
	assert.Equal(t, DashboardFloor, DashboardThreshold(nil))

	var clusters []models.Cluster
	for i := 0; i < 10; i++ {
		c := cluster(2+i, 1+i%3, 8+float64(i), 0.9, now)
		clusters = append(clusters, c)
	}
	Apply(clusters, now)

	threshold := DashboardThreshold(clusters)
	require.GreaterOrEqual(t, threshold, DashboardFloor)

	kept := 0
	for _, c := range clusters {
		if c.Confidence >= threshold {
			kept++
		}
	}
	assert.LessOrEqual(t, kept, len(clusters))
	assert.Greater(t, kept, 0)
}
