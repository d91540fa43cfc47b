package service

import (
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tarekm28/Ou3a-Joura/internal/errs"
	"github.com/tarekm28/Ou3a-Joura/internal/models"
	"github.com/tarekm28/Ou3a-Joura/internal/pipeline/cluster"
	"github.com/tarekm28/Ou3a-Joura/internal/pipeline/score"
	"github.com/tarekm28/Ou3a-Joura/internal/repository"
)

const (
	defaultClusterLimit = 1000

	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// ClusterService recomputes spatial clusters from the current detection set.
// Aggregates are cached keyed by the detection-set content hash plus the
// clustering parameters, so the cache can never serve clusters for a
// detection set that has since changed. Scores are always evaluated fresh:
// recency decays with the query clock.
type ClusterService struct {
	detections *repository.DetectionRepository
	cache      *gocache.Cache
	now        func() time.Time
}

// NewClusterService creates a new cluster service
func NewClusterService(detections *repository.DetectionRepository) *ClusterService {
	return &ClusterService{
		detections: detections,
		cache:      gocache.New(cacheTTL, cacheCleanup),
		now:        time.Now,
	}
}

// QueryClusters returns scored clusters matching the filter, ordered by
// priority descending.
func (s *ClusterService) QueryClusters(filter models.ClusterFilter) ([]models.Cluster, error) {
	params, err := validateClusterFilter(&filter)
	if err != nil {
		return nil, err
	}

	detections, err := s.detections.ScanAll()
	if err != nil {
		return nil, err
	}
	if len(detections) == 0 {
		return []models.Cluster{}, nil
	}

	clusters := s.aggregate(detections, params)
	score.Apply(clusters, s.now().UTC())

	threshold := filter.MinConfidence
	if filter.Dashboard {
		if t := score.DashboardThreshold(clusters); t > threshold {
			threshold = t
		}
	}

	filtered := clusters[:0]
	for _, c := range clusters {
		if c.Confidence >= threshold {
			filtered = append(filtered, c)
		}
	}
	clusters = filtered

	sort.Slice(clusters, func(i, j int) bool {
		a, b := &clusters[i], &clusters[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.ClusterID < b.ClusterID
	})

	if len(clusters) > filter.Limit {
		clusters = clusters[:filter.Limit]
	}
	return clusters, nil
}

// aggregate returns a private copy of the cluster aggregates for this
// detection snapshot, from cache when the content hash matches.
func (s *ClusterService) aggregate(detections []models.Detection, params cluster.Params) []models.Cluster {
	key := cluster.Fingerprint(detections, params)
	if cached, ok := s.cache.Get(key); ok {
		return append([]models.Cluster(nil), cached.([]models.Cluster)...)
	}

	clusters := cluster.Group(detections, params)
	s.cache.Set(key, append([]models.Cluster(nil), clusters...), gocache.DefaultExpiration)
	return clusters
}

func validateClusterFilter(filter *models.ClusterFilter) (cluster.Params, error) {
	params := cluster.DefaultParams()

	if filter.MinConfidence < 0 || filter.MinConfidence > 1 {
		return params, errs.InvalidQuery("min_confidence must be in [0,1], got %g", filter.MinConfidence)
	}
	if filter.Limit < 0 {
		return params, errs.InvalidQuery("limit must be >= 1, got %d", filter.Limit)
	}
	if filter.Limit == 0 {
		filter.Limit = defaultClusterLimit
	}
	if filter.EpsM < 0 {
		return params, errs.InvalidQuery("eps_m must be > 0, got %g", filter.EpsM)
	}
	if filter.EpsM > 0 {
		params.EpsM = filter.EpsM
	}
	if filter.MinPts < 0 {
		return params, errs.InvalidQuery("min_pts must be >= 1, got %d", filter.MinPts)
	}
	if filter.MinPts > 0 {
		params.MinPts = filter.MinPts
	}

	return params, nil
}
