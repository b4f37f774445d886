package utils

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// LinearInterp is a piecewise-linear interpolant with an explicit domain
// check: evaluation strictly outside the fitted abscissa range is an error,
// never an extrapolation.
type LinearInterp struct {
	xMin, xMax float64
	pl         interp.PiecewiseLinear
}

func NewLinearInterp(x, y Vector) (li LinearInterp, err error) {
	if x.Len() != y.Len() {
		err = fmt.Errorf("interp: length mismatch, %d abscissae vs %d values", x.Len(), y.Len())
		return
	}
	if err = li.pl.Fit(x.DataP(), y.DataP()); err != nil {
		err = fmt.Errorf("interp: fit failed: %v", err)
		return
	}
	li.xMin, li.xMax = x.AtVec(0), x.AtVec(x.Len()-1)
	return
}

func (li LinearInterp) At(x float64) (val float64, err error) {
	if x < li.xMin || x > li.xMax {
		err = fmt.Errorf("interp: point %g outside sampled range [%g, %g]", x, li.xMin, li.xMax)
		return
	}
	val = li.pl.Predict(x)
	return
}

// BiLinearGrid interpolates values sampled on a tensor grid: vals is
// (len(y) x len(x)), row index following y, column index following x.
// Both coordinate arrays must be strictly increasing with at least two
// entries, and evaluation is domain checked like LinearInterp.
type BiLinearGrid struct {
	x, y []float64
	vals Matrix
}

func NewBiLinearGrid(x, y Vector, vals Matrix) (bl BiLinearGrid, err error) {
	var (
		nr, nc = vals.Dims()
	)
	if x.Len() != nc || y.Len() != nr {
		err = fmt.Errorf("interp: grid shape (%d,%d) does not match coordinates (%d,%d)", nr, nc, y.Len(), x.Len())
		return
	}
	if x.Len() < 2 || y.Len() < 2 {
		err = fmt.Errorf("interp: need at least two points per grid axis, got %dx%d", y.Len(), x.Len())
		return
	}
	for _, c := range [][]float64{x.DataP(), y.DataP()} {
		for i := 1; i < len(c); i++ {
			if c[i] <= c[i-1] {
				err = fmt.Errorf("interp: grid coordinates must be strictly increasing")
				return
			}
		}
	}
	bl.x = append([]float64{}, x.DataP()...)
	bl.y = append([]float64{}, y.DataP()...)
	bl.vals = vals.Copy()
	return
}

func (bl BiLinearGrid) At(x, y float64) (val float64, err error) {
	if x < bl.x[0] || x > bl.x[len(bl.x)-1] {
		err = fmt.Errorf("interp: point %g outside sampled range [%g, %g]", x, bl.x[0], bl.x[len(bl.x)-1])
		return
	}
	if y < bl.y[0] || y > bl.y[len(bl.y)-1] {
		err = fmt.Errorf("interp: point %g outside sampled range [%g, %g]", y, bl.y[0], bl.y[len(bl.y)-1])
		return
	}
	var (
		ix, tx = segment(bl.x, x)
		iy, ty = segment(bl.y, y)
	)
	val = (1-ty)*((1-tx)*bl.vals.At(iy, ix)+tx*bl.vals.At(iy, ix+1)) +
		ty*((1-tx)*bl.vals.At(iy+1, ix)+tx*bl.vals.At(iy+1, ix+1))
	return
}

// segment locates the cell containing x and the fractional position within
// it. Assumes xs[0] <= x <= xs[len-1].
func segment(xs []float64, x float64) (i int, t float64) {
	i = sort.SearchFloat64s(xs, x)
	switch {
	case i == 0:
		return 0, 0
	case i >= len(xs):
		i = len(xs) - 1
	}
	i--
	t = (x - xs[i]) / (xs[i+1] - xs[i])
	return
}
