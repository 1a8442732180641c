// Package polygon implements the planar convex hull and point-membership
// tests used to clip survey point clouds to a plot footprint.
package polygon

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// ErrDegenerateHull is returned when a hull is requested for fewer than
// three points or for an entirely collinear point set.
var ErrDegenerateHull = errors.New("point set has no 2D extent, convex hull is degenerate")

// ConvexPolygon is a simple convex polygon stored as a closed ring of
// vertices in clockwise order. The first and last vertex are the same point.
type ConvexPolygon struct {
	ring []r2.Point
}

// Vertices returns the closed vertex ring. The returned slice must not be
// modified.
func (p *ConvexPolygon) Vertices() []r2.Point {
	return p.ring
}

// NumEdges returns the number of edges in the polygon.
func (p *ConvexPolygon) NumEdges() int {
	return len(p.ring) - 1
}

// Edge returns the endpoints of the i-th edge.
func (p *ConvexPolygon) Edge(i int) (r2.Point, r2.Point) {
	return p.ring[i], p.ring[i+1]
}
