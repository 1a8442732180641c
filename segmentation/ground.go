// Package segmentation implements ground-plane estimation and plot clipping
// for forest survey point clouds.
package segmentation

import (
	"math"
	"math/rand"
	"sort"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/pannatron/Lidar-process/pointcloud"
	"github.com/pannatron/Lidar-process/spatialmath"
	"github.com/pannatron/Lidar-process/utils"
)

// GroundConfig holds the parameters of the ground-plane search.
type GroundConfig struct {
	// GroundPercentile is the z-quantile taken as the ground reference level.
	GroundPercentile float64
	// CandidateBand is how far above the reference level a point may sit and
	// still be a ground candidate, in cloud units.
	CandidateBand float64
	// MaxCandidates caps the candidate set by uniform random subsampling.
	MaxCandidates int
	// Rounds is the number of random-subset plane fits.
	Rounds int
	// SampleSize is the number of candidates fit per round.
	SampleSize int
	// InlierDistance is the max perpendicular distance from a fitted plane
	// for a candidate to count as an inlier.
	InlierDistance float64
	// Seed seeds the subsampling; a fixed seed makes the estimate
	// deterministic.
	Seed int64
}

// DefaultGroundConfig are the parameters used by the survey pipeline.
var DefaultGroundConfig = GroundConfig{
	GroundPercentile: 0.02,
	CandidateBand:    0.2,
	MaxCandidates:    10000,
	Rounds:           10,
	SampleSize:       1000,
	InlierDistance:   0.05,
	Seed:             1,
}

// CheckValid checks that the config's parameters are usable.
func (cfg *GroundConfig) CheckValid() error {
	if cfg.GroundPercentile < 0 || cfg.GroundPercentile > 1 {
		return errors.New("ground_percentile must be between 0 and 1")
	}
	if cfg.CandidateBand <= 0 {
		return errors.New("candidate_band must be greater than 0")
	}
	if cfg.MaxCandidates <= 0 {
		return errors.New("max_candidates must be greater than 0")
	}
	if cfg.Rounds <= 0 {
		return errors.New("rounds must be greater than 0")
	}
	if cfg.SampleSize < 3 {
		return errors.New("sample_size must be at least 3")
	}
	if cfg.InlierDistance <= 0 {
		return errors.New("inlier_distance must be greater than 0")
	}
	return nil
}

// EstimateGroundPlane estimates the upward normal and a reference point of
// the terrain under a survey cloud. Candidate ground points are those within
// CandidateBand of the cloud's low z-quantile; the plane is found by
// repeated random-subset principal-axis fits, keeping the fit with the most
// candidate inliers (first round wins ties), then refit once on the winning
// inlier set.
func EstimateGroundPlane(cloud *pointcloud.PointCloud, cfg GroundConfig, logger golog.Logger) (*spatialmath.Plane, error) {
	if err := cfg.CheckValid(); err != nil {
		return nil, err
	}
	if cloud.Size() == 0 {
		return nil, errors.Wrap(pointcloud.ErrEmptyCloud, "cannot estimate ground plane")
	}

	zs := make([]float64, 0, cloud.Size())
	cloud.Iterate(0, 0, func(i int, p r3.Vector) bool {
		zs = append(zs, p.Z)
		return true
	})
	sort.Float64s(zs)
	groundLevel := stat.Quantile(cfg.GroundPercentile, stat.Empirical, zs, nil)

	candidates := make([]r3.Vector, 0, cloud.Size())
	cloud.Iterate(0, 0, func(i int, p r3.Vector) bool {
		if p.Z < groundLevel+cfg.CandidateBand {
			candidates = append(candidates, p)
		}
		return true
	})
	if len(candidates) == 0 {
		return nil, errors.Errorf("no candidate ground points within %f of level %f", cfg.CandidateBand, groundLevel)
	}

	r := rand.New(rand.NewSource(cfg.Seed))
	if len(candidates) > cfg.MaxCandidates {
		sub := make([]r3.Vector, 0, cfg.MaxCandidates)
		for _, idx := range utils.SampleIndicesWithoutReplacement(len(candidates), cfg.MaxCandidates, r) {
			sub = append(sub, candidates[idx])
		}
		candidates = sub
	}

	var best *spatialmath.Plane
	bestInliers := 0
	sampleSize := utils.MinInt(cfg.SampleSize, len(candidates))
	sample := make([]r3.Vector, sampleSize)
	for round := 0; round < cfg.Rounds; round++ {
		for i, idx := range utils.SampleIndicesWithoutReplacement(len(candidates), sampleSize, r) {
			sample[i] = candidates[idx]
		}
		plane, err := spatialmath.FitPlane(sample)
		if err != nil {
			logger.Debugw("skipping degenerate ground sample", "round", round, "error", err)
			continue
		}
		inliers := countInliers(plane, candidates, cfg.InlierDistance)
		if inliers > bestInliers {
			best = plane
			bestInliers = inliers
		}
	}
	if best == nil {
		return nil, errors.Wrap(spatialmath.ErrDegenerateGeometry, "every ground sample was degenerate")
	}

	// refine once on the full inlier set of the winning fit
	inliers := make([]r3.Vector, 0, bestInliers)
	for _, p := range candidates {
		if math.Abs(best.Distance(p)) < cfg.InlierDistance {
			inliers = append(inliers, p)
		}
	}
	if len(inliers) >= 3 {
		if refined, err := spatialmath.FitPlane(inliers); err == nil {
			best = refined
		}
	}

	residuals := make([]float64, len(inliers))
	for i, p := range inliers {
		residuals[i] = math.Abs(best.Distance(p))
	}
	logger.Debugw("estimated ground plane",
		"normal", best.Normal,
		"center", best.Center,
		"inliers", len(inliers),
		"median_residual", utils.Median(residuals...),
	)
	return best, nil
}

func countInliers(plane *spatialmath.Plane, pts []r3.Vector, tolerance float64) int {
	count := 0
	for _, p := range pts {
		if math.Abs(plane.Distance(p)) < tolerance {
			count++
		}
	}
	return count
}
