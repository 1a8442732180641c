// Package dbh derives diameter-at-breast-height estimates from stem
// cross-section point clusters and compresses them into per-tree statistics.
package dbh

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/pannatron/Lidar-process/utils"
)

// maxConditionNumber is the largest condition number of the circle-fit
// normal equations accepted before the fit is rejected as unstable.
const maxConditionNumber = 1e12

// IllConditionedError reports a circle fit whose normal-equations matrix is
// near-singular, typically from collinear or coincident section points.
type IllConditionedError struct {
	Cond float64
}

func (e *IllConditionedError) Error() string {
	return fmt.Sprintf("circle fit matrix is near-singular (condition number %.2e)", e.Cond)
}

// Circle is a fitted stem cross-section.
type Circle struct {
	Center r2.Point
	Radius float64
}

// Diameter returns the circle's diameter.
func (c Circle) Diameter() float64 {
	return 2 * c.Radius
}

// FitCircle fits a circle to the given cross-section points by algebraic
// least squares: minimizing ||G*[a b c]^T - D||^2 with D_i = x_i^2 + y_i^2
// and G rows [x_i y_i 1], solved through the 3x3 normal equations. The
// center is (a/2, b/2) and the radius sqrt(c + (a/2)^2 + (b/2)^2).
func FitCircle(pts []r2.Point) (Circle, error) {
	if len(pts) < 3 {
		return Circle{}, errors.Errorf("need at least 3 points to fit a circle, got %d", len(pts))
	}

	g := mat.NewDense(len(pts), 3, nil)
	d := mat.NewVecDense(len(pts), nil)
	for i, p := range pts {
		g.Set(i, 0, p.X)
		g.Set(i, 1, p.Y)
		g.Set(i, 2, 1)
		d.SetVec(i, utils.Square(p.X)+utils.Square(p.Y))
	}

	var a mat.Dense
	a.Mul(g.T(), g)
	var b mat.VecDense
	b.MulVec(g.T(), d)

	cond := mat.Cond(&a, 2)
	if math.IsNaN(cond) || cond > maxConditionNumber {
		return Circle{}, &IllConditionedError{Cond: cond}
	}

	var p mat.VecDense
	if err := p.SolveVec(&a, &b); err != nil {
		return Circle{}, errors.Wrap(err, "solving circle fit normal equations")
	}

	center := r2.Point{X: p.AtVec(0) / 2, Y: p.AtVec(1) / 2}
	radiusSq := p.AtVec(2) + utils.Square(center.X) + utils.Square(center.Y)
	if radiusSq < 0 {
		return Circle{}, errors.Errorf("circle fit produced a negative squared radius %f", radiusSq)
	}
	return Circle{Center: center, Radius: math.Sqrt(radiusSq)}, nil
}
