// Package spatialmath implements the plane and rigid-rotation math used to
// reorient survey point clouds into a canonical, ground-horizontal frame.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateGeometry is returned when points are collinear or coincident
// and a plane is not well-defined.
var ErrDegenerateGeometry = errors.New("points are collinear or coincident, plane is not well-defined")

// relative gap required between the two smallest singular values for the
// least-dominant principal axis to be meaningful.
const degenerateSingularValueRatio = 1e-9

// Plane is a planar surface described by its unit normal and a reference
// point on the plane. The normal's z-component is non-negative by
// convention (upward-facing).
type Plane struct {
	Normal r3.Vector
	Center r3.Vector
}

// NewPlane normalizes the given normal, orients it upward and returns the
// plane through center.
func NewPlane(normal, center r3.Vector) (*Plane, error) {
	if normal.Norm2() == 0 {
		return nil, errors.New("plane normal cannot be the zero vector")
	}
	normal = normal.Normalize()
	if normal.Z < 0 {
		normal = normal.Mul(-1)
	}
	return &Plane{Normal: normal, Center: center}, nil
}

// Distance returns the signed perpendicular distance from the plane to the
// given point. Positive distances are on the normal's side.
func (p *Plane) Distance(pt r3.Vector) float64 {
	return pt.Sub(p.Center).Dot(p.Normal)
}

// FitPlane fits a plane to the given points by principal-axis decomposition:
// the singular vector of the centered coordinate matrix with the smallest
// singular value is the plane normal. The returned normal is unit length and
// upward-oriented, and the returned center is the mean of the points.
// Collinear or coincident input returns ErrDegenerateGeometry.
func FitPlane(pts []r3.Vector) (*Plane, error) {
	if len(pts) < 3 {
		return nil, errors.Errorf("need at least 3 points to fit a plane, got %d", len(pts))
	}

	var center r3.Vector
	for _, p := range pts {
		center = center.Add(p)
	}
	center = center.Mul(1.0 / float64(len(pts)))

	centered := mat.NewDense(len(pts), 3, nil)
	for i, p := range pts {
		centered.Set(i, 0, p.X-center.X)
		centered.Set(i, 1, p.Y-center.Y)
		centered.Set(i, 2, p.Z-center.Z)
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, errors.New("SVD of centered point matrix failed to converge")
	}
	// singular values come back in descending order; the second one being
	// (numerically) zero means the points have no planar extent.
	values := svd.Values(nil)
	if values[1] <= degenerateSingularValueRatio*math.Max(values[0], 1) {
		return nil, ErrDegenerateGeometry
	}

	var v mat.Dense
	svd.VTo(&v)
	normal := r3.Vector{X: v.At(0, 2), Y: v.At(1, 2), Z: v.At(2, 2)}
	return NewPlane(normal, center)
}
