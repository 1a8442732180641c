package polygon

import (
	"github.com/golang/geo/r2"
)

// MembershipTest decides whether a point lies inside a convex polygon. Two
// independent implementations exist so that one can validate the other; for
// strictly interior and strictly exterior points they agree, on boundary
// points their tie-breaking may differ.
type MembershipTest interface {
	Contains(poly *ConvexPolygon, pt r2.Point) bool
}

// ScanlineTest is a horizontal-scanline parity test: a point is inside iff a
// rightward ray from it crosses an odd number of polygon edges. Each edge's
// y-range is treated as half-open [minY, maxY) so shared vertices count
// once; horizontal edges have an empty range and contribute no crossing.
type ScanlineTest struct{}

// Contains implements MembershipTest.
func (ScanlineTest) Contains(poly *ConvexPolygon, pt r2.Point) bool {
	crossings := 0
	for i := 0; i < poly.NumEdges(); i++ {
		p1, p2 := poly.Edge(i)
		if p1.Y == p2.Y {
			continue
		}
		if p2.Y < p1.Y {
			p1, p2 = p2, p1
		}
		if pt.Y < p1.Y || pt.Y >= p2.Y {
			continue
		}
		borderX := p1.X + (p2.X-p1.X)/(p2.Y-p1.Y)*(pt.Y-p1.Y)
		if pt.X < borderX {
			crossings++
		}
	}
	return crossings%2 == 1
}

// WindingTest is a signed-cross-product test: for a clockwise convex ring a
// point is inside iff it is on the inner side of every edge, i.e. the cross
// product of (point - p1) with (p2 - p1) is non-negative for each edge.
type WindingTest struct{}

// Contains implements MembershipTest.
func (WindingTest) Contains(poly *ConvexPolygon, pt r2.Point) bool {
	for i := 0; i < poly.NumEdges(); i++ {
		p1, p2 := poly.Edge(i)
		dp := pt.Sub(p1)
		edge := p2.Sub(p1)
		if dp.X*edge.Y-dp.Y*edge.X < 0 {
			return false
		}
	}
	return true
}
