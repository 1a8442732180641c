package dbh

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestAggregateSingleTree(t *testing.T) {
	stats := Aggregate([]SectionMeasurement{
		{TreeID: 1, Section: 0, SectionType: ReferenceSectionType, Diameter: 10},
		{TreeID: 1, Section: 1, SectionType: ReferenceSectionType, Diameter: 10},
		{TreeID: 1, Section: 2, SectionType: ReferenceSectionType, Diameter: 10},
	})
	test.That(t, len(stats), test.ShouldEqual, 1)
	s := stats[0]
	test.That(t, s.TreeID, test.ShouldEqual, 1)
	test.That(t, s.HasData, test.ShouldBeTrue)
	test.That(t, s.SampleSize, test.ShouldEqual, 3)
	test.That(t, s.MeanDiameter, test.ShouldEqual, 10.0)
	test.That(t, s.StdDeviation, test.ShouldEqual, 0.0)
	test.That(t, s.Range, test.ShouldEqual, 0.0)
	test.That(t, s.ConfidenceInterval95, test.ShouldEqual, 0.0)
}

func TestAggregateSpread(t *testing.T) {
	stats := Aggregate([]SectionMeasurement{
		{TreeID: 7, SectionType: ReferenceSectionType, Diameter: 9},
		{TreeID: 7, SectionType: ReferenceSectionType, Diameter: 10},
		{TreeID: 7, SectionType: ReferenceSectionType, Diameter: 11},
	})
	test.That(t, len(stats), test.ShouldEqual, 1)
	s := stats[0]

	// population standard deviation of {9, 10, 11} is sqrt(2/3)
	sd := math.Sqrt(2.0 / 3.0)
	test.That(t, s.MeanDiameter, test.ShouldAlmostEqual, 10)
	test.That(t, s.StdDeviation, test.ShouldAlmostEqual, sd)
	test.That(t, s.Range, test.ShouldAlmostEqual, 2)
	test.That(t, s.PercentError, test.ShouldAlmostEqual, sd*10)
	test.That(t, s.ConfidenceInterval95, test.ShouldAlmostEqual, 1.96*sd/math.Sqrt(3))
	test.That(t, s.CIPercent, test.ShouldAlmostEqual, 1.96*sd/math.Sqrt(3)*10)
}

func TestAggregateSkipsInvalidSections(t *testing.T) {
	stats := Aggregate([]SectionMeasurement{
		{TreeID: 2, SectionType: ReferenceSectionType, Diameter: 8},
		{TreeID: 2, SectionType: ReferenceSectionType, Diameter: math.NaN()},
		{TreeID: 2, SectionType: 1, Diameter: 50},
		{TreeID: 2, SectionType: ReferenceSectionType, Diameter: 12},
	})
	test.That(t, len(stats), test.ShouldEqual, 1)
	s := stats[0]
	test.That(t, s.SampleSize, test.ShouldEqual, 2)
	test.That(t, s.MeanDiameter, test.ShouldAlmostEqual, 10)
	test.That(t, s.Range, test.ShouldAlmostEqual, 4)
}

func TestAggregateNoData(t *testing.T) {
	stats := Aggregate([]SectionMeasurement{
		{TreeID: 3, SectionType: ReferenceSectionType, Diameter: math.NaN()},
		{TreeID: 3, SectionType: 2, Diameter: 14},
	})
	test.That(t, len(stats), test.ShouldEqual, 1)
	s := stats[0]
	test.That(t, s.TreeID, test.ShouldEqual, 3)
	test.That(t, s.HasData, test.ShouldBeFalse)
	test.That(t, s.SampleSize, test.ShouldEqual, 0)
	test.That(t, math.IsNaN(s.MeanDiameter), test.ShouldBeTrue)
	test.That(t, math.IsNaN(s.StdDeviation), test.ShouldBeTrue)
	test.That(t, math.IsNaN(s.ConfidenceInterval95), test.ShouldBeTrue)
}

func TestAggregateMultipleTrees(t *testing.T) {
	stats := Aggregate([]SectionMeasurement{
		{TreeID: 1, SectionType: ReferenceSectionType, Diameter: 10},
		{TreeID: 1, SectionType: ReferenceSectionType, Diameter: 12},
		{TreeID: 5, SectionType: ReferenceSectionType, Diameter: math.NaN()},
		{TreeID: 9, SectionType: ReferenceSectionType, Diameter: 20},
	})
	test.That(t, len(stats), test.ShouldEqual, 3)
	test.That(t, stats[0].TreeID, test.ShouldEqual, 1)
	test.That(t, stats[0].MeanDiameter, test.ShouldAlmostEqual, 11)
	test.That(t, stats[1].TreeID, test.ShouldEqual, 5)
	test.That(t, stats[1].HasData, test.ShouldBeFalse)
	test.That(t, stats[2].TreeID, test.ShouldEqual, 9)
	test.That(t, stats[2].MeanDiameter, test.ShouldAlmostEqual, 20)
	test.That(t, stats[2].StdDeviation, test.ShouldEqual, 0.0)
}

func TestAggregateEmpty(t *testing.T) {
	test.That(t, Aggregate(nil), test.ShouldBeNil)
}
