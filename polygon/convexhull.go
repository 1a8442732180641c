package polygon

import (
	"sort"

	"github.com/golang/geo/r2"
)

// ConvexHull computes the convex hull of the given planar point set. The
// hull is built as two monotone chains: points are sorted by x (ties by y),
// the upper chain is scanned left to right with backtracking, and the lower
// chain is scanned over the reversed order. The chains are concatenated into
// a closed clockwise ring.
//
// Fewer than three points, or a point set with no 2D extent (all collinear
// or coincident), returns ErrDegenerateHull.
func ConvexHull(pts []r2.Point) (*ConvexPolygon, error) {
	if len(pts) < 3 {
		return nil, ErrDegenerateHull
	}

	sorted := make([]r2.Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	upper := buildChain(sorted, true)

	reversed := make([]r2.Point, len(sorted))
	for i, p := range sorted {
		reversed[len(sorted)-1-i] = p
	}
	lower := buildChain(reversed, false)

	// upper runs leftmost to rightmost, lower runs back to the leftmost
	// point, so dropping lower's duplicated start closes the ring.
	ring := make([]r2.Point, 0, len(upper)+len(lower)-1)
	ring = append(ring, upper...)
	ring = append(ring, lower[1:]...)

	if len(ring)-1 < 3 {
		return nil, ErrDegenerateHull
	}
	return &ConvexPolygon{ring: ring}, nil
}

// buildChain scans the points in order, maintaining an index stack of
// accepted chain points. A candidate must lie strictly below (upper chain)
// or strictly above (lower chain) the line through the last two accepted
// points; otherwise the last point is popped until convexity holds.
func buildChain(pts []r2.Point, upper bool) []r2.Point {
	stack := make([]int, 0, len(pts))
	for i := range pts {
		for len(stack) >= 2 && !chainTurns(pts[stack[len(stack)-2]], pts[stack[len(stack)-1]], pts[i], upper) {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, i)
	}
	chain := make([]r2.Point, len(stack))
	for i, idx := range stack {
		chain[i] = pts[idx]
	}
	return chain
}

// chainTurns reports whether keeping b preserves convexity of the chain
// a -> b -> c. Vertical (equal-x) pairs cannot be projected, so they are
// tie-broken by comparing y directly: an upper chain must be ascending
// through a vertical pair, a lower chain descending.
func chainTurns(a, b, c r2.Point, upper bool) bool {
	if a.X == b.X {
		if upper {
			return b.Y > a.Y
		}
		return b.Y < a.Y
	}
	// height of the line through a,b at c's x-coordinate
	yt := a.Y + (b.Y-a.Y)/(b.X-a.X)*(c.X-a.X)
	if upper {
		return c.Y < yt
	}
	return c.Y > yt
}
