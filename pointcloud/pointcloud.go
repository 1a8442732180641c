// Package pointcloud defines an ordered point cloud for forest-plot LiDAR
// surveys and provides readers and writers for the file formats the
// processing pipeline consumes.
//
// Clouds are ordered sequences of 3D points. Duplicate points are legal and
// order is preserved; operations never mutate a cloud in place and instead
// return new clouds.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// MetaData is data about what's stored in the point cloud.
type MetaData struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// NewMetaData returns a new MetaData with bounds ready for merging.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// Merge updates the bounds with the given point.
func (meta *MetaData) Merge(v r3.Vector) {
	if v.X > meta.MaxX {
		meta.MaxX = v.X
	}
	if v.Y > meta.MaxY {
		meta.MaxY = v.Y
	}
	if v.Z > meta.MaxZ {
		meta.MaxZ = v.Z
	}
	if v.X < meta.MinX {
		meta.MinX = v.X
	}
	if v.Y < meta.MinY {
		meta.MinY = v.Y
	}
	if v.Z < meta.MinZ {
		meta.MinZ = v.Z
	}
}

// ErrEmptyCloud is returned by operations that need at least one point.
var ErrEmptyCloud = errors.New("point cloud is empty")

// PointCloud is an ordered sequence of 3D points backed by a slice.
// Unlike a map-backed cloud, duplicate positions are preserved.
type PointCloud struct {
	points []r3.Vector
	meta   MetaData
}

// New returns an empty PointCloud.
func New() *PointCloud {
	return NewWithPrealloc(0)
}

// NewWithPrealloc returns an empty, preallocated PointCloud.
func NewWithPrealloc(size int) *PointCloud {
	return &PointCloud{
		points: make([]r3.Vector, 0, size),
		meta:   NewMetaData(),
	}
}

// NewFromPoints returns a PointCloud holding a copy of the given points.
func NewFromPoints(pts []r3.Vector) *PointCloud {
	cloud := NewWithPrealloc(len(pts))
	for _, p := range pts {
		cloud.Add(p)
	}
	return cloud
}

// Size returns the number of points in the cloud.
func (cloud *PointCloud) Size() int {
	return len(cloud.points)
}

// MetaData returns the bounds of the cloud.
func (cloud *PointCloud) MetaData() MetaData {
	return cloud.meta
}

// Add appends a point to the cloud.
func (cloud *PointCloud) Add(p r3.Vector) {
	cloud.points = append(cloud.points, p)
	cloud.meta.Merge(p)
}

// At returns the point at the given index.
func (cloud *PointCloud) At(i int) r3.Vector {
	return cloud.points[i]
}

// Iterate iterates over all points in the cloud and calls the given function
// for each point. If the supplied function returns false, iteration stops.
// numBatches lets you divide up the work. 0 means don't divide.
// myBatch is used iff numBatches > 0 and is which batch you want.
func (cloud *PointCloud) Iterate(numBatches, myBatch int, fn func(i int, p r3.Vector) bool) {
	lower, upper := 0, len(cloud.points)
	if numBatches > 0 {
		batchSize := (len(cloud.points) + numBatches - 1) / numBatches
		lower = myBatch * batchSize
		upper = lower + batchSize
		if upper > len(cloud.points) {
			upper = len(cloud.points)
		}
	}
	for i := lower; i < upper; i++ {
		if !fn(i, cloud.points[i]) {
			return
		}
	}
}

// Select returns a new cloud containing the points whose entry in keep is
// true. keep must have one entry per point.
func (cloud *PointCloud) Select(keep []bool) (*PointCloud, error) {
	if len(keep) != len(cloud.points) {
		return nil, errors.Errorf("selection mask has %d entries for %d points", len(keep), len(cloud.points))
	}
	out := New()
	for i, p := range cloud.points {
		if keep[i] {
			out.Add(p)
		}
	}
	return out, nil
}

// FilterHeight returns a mask marking the points whose z-coordinate lies in
// the closed interval [minZ, maxZ]. Either bound may be NaN to leave that
// side unbounded.
func (cloud *PointCloud) FilterHeight(minZ, maxZ float64) []bool {
	keep := make([]bool, len(cloud.points))
	for i, p := range cloud.points {
		keep[i] = true
		if !math.IsNaN(minZ) && p.Z < minZ {
			keep[i] = false
		}
		if !math.IsNaN(maxZ) && p.Z > maxZ {
			keep[i] = false
		}
	}
	return keep
}
