package dbh

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ReferenceSectionType flags the cross-sections measured at breast height;
// only these contribute to a tree's statistics.
const ReferenceSectionType = 0

// SectionMeasurement is one stem cross-section's diameter estimate.
type SectionMeasurement struct {
	TreeID      int
	Section     int
	SectionType int
	// Diameter is NaN when the section's circle fit failed; such sections
	// are skipped rather than counted as zero.
	Diameter float64
}

// TreeStatistics summarizes the reference-section diameters of one tree.
// When a tree has no valid reference sections, HasData is false and the
// statistics are NaN; a missing tree is never reported as a zero diameter.
type TreeStatistics struct {
	TreeID       int
	SampleSize   int
	MeanDiameter float64
	StdDeviation float64
	Range        float64
	// PercentError is the standard deviation as a percentage of the mean.
	PercentError float64
	// ConfidenceInterval95 is the half-width 1.96*sd/sqrt(n) of the 95%
	// confidence interval, and CIPercent its percentage of the mean.
	ConfidenceInterval95 float64
	CIPercent            float64
	HasData              bool
}

// Aggregate compresses an ordered sequence of section measurements into one
// statistics row per tree. A change in TreeID begins a new tree; within a
// tree only reference sections with a valid diameter are used. The standard
// deviation is the population form.
func Aggregate(measurements []SectionMeasurement) []TreeStatistics {
	var out []TreeStatistics
	var diameters []float64

	flush := func(treeID int) {
		out = append(out, summarize(treeID, diameters))
		diameters = diameters[:0]
	}

	for i, m := range measurements {
		if i > 0 && m.TreeID != measurements[i-1].TreeID {
			flush(measurements[i-1].TreeID)
		}
		if m.SectionType == ReferenceSectionType && !math.IsNaN(m.Diameter) {
			diameters = append(diameters, m.Diameter)
		}
	}
	if len(measurements) > 0 {
		flush(measurements[len(measurements)-1].TreeID)
	}
	return out
}

func summarize(treeID int, diameters []float64) TreeStatistics {
	if len(diameters) == 0 {
		nan := math.NaN()
		return TreeStatistics{
			TreeID:               treeID,
			MeanDiameter:         nan,
			StdDeviation:         nan,
			Range:                nan,
			PercentError:         nan,
			ConfidenceInterval95: nan,
			CIPercent:            nan,
		}
	}

	mean := stat.Mean(diameters, nil)
	sd := stat.PopStdDev(diameters, nil)
	minD, maxD := diameters[0], diameters[0]
	for _, d := range diameters[1:] {
		minD = math.Min(minD, d)
		maxD = math.Max(maxD, d)
	}
	ci := 1.96 * sd / math.Sqrt(float64(len(diameters)))
	return TreeStatistics{
		TreeID:               treeID,
		SampleSize:           len(diameters),
		MeanDiameter:         mean,
		StdDeviation:         sd,
		Range:                maxD - minD,
		PercentError:         sd / mean * 100,
		ConfidenceInterval95: ci,
		CIPercent:            ci / mean * 100,
		HasData:              true,
	}
}
