package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// RotationMatrix is a 3x3 orthonormal matrix in row-major order. Its
// transpose is its inverse.
type RotationMatrix struct {
	mat [9]float64
}

// NewIdentityRotation returns the identity rotation.
func NewIdentityRotation() *RotationMatrix {
	return &RotationMatrix{mat: [9]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}}
}

// At returns the entry at row r, column c.
func (rm *RotationMatrix) At(r, c int) float64 {
	return rm.mat[3*r+c]
}

// Row returns the given row as a vector.
func (rm *RotationMatrix) Row(r int) r3.Vector {
	return r3.Vector{X: rm.mat[3*r], Y: rm.mat[3*r+1], Z: rm.mat[3*r+2]}
}

// Mul returns the matrix-vector product R*v.
func (rm *RotationMatrix) Mul(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: rm.Row(0).Dot(v),
		Y: rm.Row(1).Dot(v),
		Z: rm.Row(2).Dot(v),
	}
}

// Transpose returns the transposed (inverse) rotation.
func (rm *RotationMatrix) Transpose() *RotationMatrix {
	m := rm.mat
	return &RotationMatrix{mat: [9]float64{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}}
}

// newRotationFromAxisAngle builds a rotation of angle theta about the given
// unit axis via the Rodrigues formula R = I + sin(theta)K + (1-cos(theta))K^2,
// where K is the skew-symmetric cross-product matrix of the axis.
func newRotationFromAxisAngle(axis r3.Vector, cosTheta, sinTheta float64) *RotationMatrix {
	k := [9]float64{
		0, -axis.Z, axis.Y,
		axis.Z, 0, -axis.X,
		-axis.Y, axis.X, 0,
	}
	var k2 [9]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var sum float64
			for i := 0; i < 3; i++ {
				sum += k[3*r+i] * k[3*i+c]
			}
			k2[3*r+c] = sum
		}
	}
	rm := NewIdentityRotation()
	for i := range rm.mat {
		rm.mat[i] += sinTheta*k[i] + (1-cosTheta)*k2[i]
	}
	return rm
}

// NewRotationToVertical returns the rotation mapping the given unit normal
// onto the +z axis. An already-vertical normal yields the identity, or a
// 180 degree rotation about the x-axis if it points downward.
func NewRotationToVertical(normal r3.Vector) *RotationMatrix {
	zAxis := r3.Vector{X: 0, Y: 0, Z: 1}
	axis := normal.Cross(zAxis)
	if axis.Norm() < 1e-12 {
		if normal.Z > 0 {
			return NewIdentityRotation()
		}
		return &RotationMatrix{mat: [9]float64{
			1, 0, 0,
			0, -1, 0,
			0, 0, -1,
		}}
	}
	axis = axis.Normalize()
	cosTheta := normal.Dot(zAxis)
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
	return newRotationFromAxisAngle(axis, cosTheta, sinTheta)
}

// PlaneAlignment is the rigid transform into the canonical frame where the
// plane's normal is the +z axis and its reference point is the origin.
type PlaneAlignment struct {
	rot    *RotationMatrix
	rotInv *RotationMatrix
	center r3.Vector
}

// NewPlaneAlignment builds the alignment for the given plane.
func NewPlaneAlignment(plane *Plane) *PlaneAlignment {
	rot := NewRotationToVertical(plane.Normal)
	return &PlaneAlignment{
		rot:    rot,
		rotInv: rot.Transpose(),
		center: plane.Center,
	}
}

// Rotation returns the rotation part of the alignment.
func (a *PlaneAlignment) Rotation() *RotationMatrix {
	return a.rot
}

// ToCanonical maps a point into the canonical frame: R*(p - C).
func (a *PlaneAlignment) ToCanonical(p r3.Vector) r3.Vector {
	return a.rot.Mul(p.Sub(a.center))
}

// FromCanonical maps a canonical-frame point back to the survey frame:
// R^T*p + C. It is the exact inverse of ToCanonical.
func (a *PlaneAlignment) FromCanonical(p r3.Vector) r3.Vector {
	return a.rotInv.Mul(p).Add(a.center)
}
