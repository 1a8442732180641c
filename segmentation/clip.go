package segmentation

import (
	"context"
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/pannatron/Lidar-process/pointcloud"
	"github.com/pannatron/Lidar-process/polygon"
	"github.com/pannatron/Lidar-process/spatialmath"
	"github.com/pannatron/Lidar-process/utils"
)

// ClipConfig holds the parameters of a plot clip.
type ClipConfig struct {
	Ground GroundConfig
	// MinHeight and MaxHeight bound the kept points' height above the
	// ground plane, in the canonical frame. NaN leaves a side unbounded.
	MinHeight float64
	MaxHeight float64
}

// DefaultClipConfig clips to the plot footprint with no height band.
var DefaultClipConfig = ClipConfig{
	Ground:    DefaultGroundConfig,
	MinHeight: math.NaN(),
	MaxHeight: math.NaN(),
}

// Bounds is the axis-aligned bounding box of a clipped cloud, rounded
// outward to whole units.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// ClipToPlot filters a raw survey cloud to the plot footprint traced by the
// survey trajectory. The ground plane is estimated from the raw cloud, both
// cloud and trajectory are aligned so the ground is horizontal, the
// footprint is the convex hull of the aligned trajectory's 2D projection,
// and the returned cloud holds the original (unaligned) points whose
// aligned counterpart passed both the height band and the hull membership
// test.
func ClipToPlot(
	ctx context.Context,
	cloud, trajectory *pointcloud.PointCloud,
	cfg ClipConfig,
	logger golog.Logger,
) (*pointcloud.PointCloud, Bounds, error) {
	if cloud.Size() == 0 {
		return nil, Bounds{}, errors.Wrap(pointcloud.ErrEmptyCloud, "cannot clip")
	}
	if trajectory.Size() == 0 {
		return nil, Bounds{}, errors.Wrap(pointcloud.ErrEmptyCloud, "cannot clip without a trajectory")
	}

	plane, err := EstimateGroundPlane(cloud, cfg.Ground, logger)
	if err != nil {
		return nil, Bounds{}, err
	}
	align := spatialmath.NewPlaneAlignment(plane)

	var alignedCloud, alignedTraj *pointcloud.PointCloud
	if _, err := utils.RunInParallel(ctx, []utils.SimpleFunc{
		func(ctx context.Context) error {
			alignedCloud = alignCloud(cloud, align)
			return nil
		},
		func(ctx context.Context) error {
			alignedTraj = alignCloud(trajectory, align)
			return nil
		},
	}); err != nil {
		return nil, Bounds{}, err
	}

	footprint := make([]r2.Point, 0, alignedTraj.Size())
	alignedTraj.Iterate(0, 0, func(i int, p r3.Vector) bool {
		footprint = append(footprint, r2.Point{X: p.X, Y: p.Y})
		return true
	})
	hull, err := polygon.ConvexHull(footprint)
	if err != nil {
		return nil, Bounds{}, errors.Wrap(err, "trajectory does not enclose a plot footprint")
	}

	keep := alignedCloud.FilterHeight(cfg.MinHeight, cfg.MaxHeight)
	inPlot := polygon.WindingTest{}
	if err := utils.GroupWorkParallel(
		ctx,
		alignedCloud.Size(),
		func(groupSize int) {},
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			return func(memberNum, workNum int) {
				if !keep[workNum] {
					return
				}
				p := alignedCloud.At(workNum)
				keep[workNum] = inPlot.Contains(hull, r2.Point{X: p.X, Y: p.Y})
			}, nil
		},
	); err != nil {
		return nil, Bounds{}, err
	}

	clipped, err := cloud.Select(keep)
	if err != nil {
		return nil, Bounds{}, err
	}
	logger.Infow("clipped cloud to plot footprint",
		"points_in", cloud.Size(),
		"points_out", clipped.Size(),
		"hull_vertices", hull.NumEdges(),
	)
	if clipped.Size() == 0 {
		logger.Warn("no points inside the plot footprint")
		return clipped, Bounds{}, nil
	}

	meta := clipped.MetaData()
	bounds := Bounds{
		MinX: math.Floor(meta.MinX), MaxX: math.Ceil(meta.MaxX),
		MinY: math.Floor(meta.MinY), MaxY: math.Ceil(meta.MaxY),
		MinZ: math.Floor(meta.MinZ), MaxZ: math.Ceil(meta.MaxZ),
	}
	return clipped, bounds, nil
}

func alignCloud(cloud *pointcloud.PointCloud, align *spatialmath.PlaneAlignment) *pointcloud.PointCloud {
	out := pointcloud.NewWithPrealloc(cloud.Size())
	cloud.Iterate(0, 0, func(i int, p r3.Vector) bool {
		out.Add(align.ToCanonical(p))
		return true
	})
	return out
}
