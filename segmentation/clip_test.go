package segmentation

import (
	"context"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/pannatron/Lidar-process/pointcloud"
)

// flatPlotScene is a level plot: ground points over [0,4]x[0,4], two stems
// of points rising at (1.5,1.5) and (2.5,2.5), and a survey trajectory
// walking the square [0.98,3.02]^2 at sensor height.
func flatPlotScene() (cloud, trajectory *pointcloud.PointCloud) {
	cloud = pointcloud.New()
	for i := 0; i <= 80; i++ {
		for j := 0; j <= 80; j++ {
			cloud.Add(r3.Vector{X: float64(i) * 0.05, Y: float64(j) * 0.05, Z: 0})
		}
	}
	for _, stem := range []r3.Vector{{X: 1.5, Y: 1.5}, {X: 2.5, Y: 2.5}} {
		for k := 1; k <= 40; k++ {
			cloud.Add(r3.Vector{X: stem.X, Y: stem.Y, Z: float64(k) * 0.05})
		}
	}

	trajectory = pointcloud.New()
	lo, hi := 0.98, 3.02
	for s := 0; s <= 10; s++ {
		d := lo + float64(s)*(hi-lo)/10
		trajectory.Add(r3.Vector{X: d, Y: lo, Z: 1.2})
		trajectory.Add(r3.Vector{X: d, Y: hi, Z: 1.2})
		trajectory.Add(r3.Vector{X: lo, Y: d, Z: 1.2})
		trajectory.Add(r3.Vector{X: hi, Y: d, Z: 1.2})
	}
	return cloud, trajectory
}

func TestClipToPlot(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cloud, trajectory := flatPlotScene()

	clipped, bounds, err := ClipToPlot(context.Background(), cloud, trajectory, DefaultClipConfig, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, clipped.Size(), test.ShouldBeGreaterThan, 0)
	test.That(t, clipped.Size(), test.ShouldBeLessThan, cloud.Size())

	// every kept point sits inside the surveyed square
	clipped.Iterate(0, 0, func(i int, p r3.Vector) bool {
		test.That(t, p.X, test.ShouldBeBetweenOrEqual, 0.98, 3.02)
		test.That(t, p.Y, test.ShouldBeBetweenOrEqual, 0.98, 3.02)
		return true
	})

	// stems inside the plot survive, including their full height
	meta := clipped.MetaData()
	test.That(t, meta.MaxZ, test.ShouldAlmostEqual, 2.0)

	// grid points inside the footprint run from 1.0 to 3.0 on each axis
	test.That(t, bounds.MinX, test.ShouldEqual, 1.0)
	test.That(t, bounds.MaxX, test.ShouldEqual, 3.0)
	test.That(t, bounds.MinY, test.ShouldEqual, 1.0)
	test.That(t, bounds.MaxY, test.ShouldEqual, 3.0)
	test.That(t, bounds.MinZ, test.ShouldEqual, 0.0)
	test.That(t, bounds.MaxZ, test.ShouldEqual, 2.0)
}

func TestClipToPlotIdempotent(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cloud, trajectory := flatPlotScene()

	once, _, err := ClipToPlot(context.Background(), cloud, trajectory, DefaultClipConfig, logger)
	test.That(t, err, test.ShouldBeNil)
	twice, _, err := ClipToPlot(context.Background(), once, trajectory, DefaultClipConfig, logger)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, twice.Size(), test.ShouldEqual, once.Size())
	for i := 0; i < once.Size(); i++ {
		test.That(t, twice.At(i), test.ShouldResemble, once.At(i))
	}
}

func TestClipToPlotHeightBand(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cloud, trajectory := flatPlotScene()

	cfg := DefaultClipConfig
	cfg.MinHeight = 0.5
	cfg.MaxHeight = 1.5

	clipped, _, err := ClipToPlot(context.Background(), cloud, trajectory, cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, clipped.Size(), test.ShouldBeGreaterThan, 0)
	clipped.Iterate(0, 0, func(i int, p r3.Vector) bool {
		// only stem points in the band remain
		test.That(t, p.Z, test.ShouldBeBetweenOrEqual, 0.5, 1.5)
		return true
	})
}

func TestClipToPlotErrors(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cloud, trajectory := flatPlotScene()

	_, _, err := ClipToPlot(context.Background(), pointcloud.New(), trajectory, DefaultClipConfig, logger)
	test.That(t, err, test.ShouldNotBeNil)

	_, _, err = ClipToPlot(context.Background(), cloud, pointcloud.New(), DefaultClipConfig, logger)
	test.That(t, err, test.ShouldNotBeNil)

	// a straight-line trajectory has no footprint
	line := pointcloud.New()
	for i := 0; i < 10; i++ {
		line.Add(r3.Vector{X: float64(i), Y: 2 * float64(i), Z: 1})
	}
	_, _, err = ClipToPlot(context.Background(), cloud, line, DefaultClipConfig, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "footprint")

	_, _, err = ClipToPlot(context.Background(), cloud, trajectory, ClipConfig{}, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestClipToPlotEmptyResult(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cloud, trajectory := flatPlotScene()

	cfg := DefaultClipConfig
	cfg.MinHeight = 100 // above everything
	clipped, bounds, err := ClipToPlot(context.Background(), cloud, trajectory, cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, clipped.Size(), test.ShouldEqual, 0)
	test.That(t, bounds, test.ShouldResemble, Bounds{})
}
