package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*(math.Abs(a)+1.e-12) {
		l = true
	}
	return
}

func TestLinearInterp(t *testing.T) {
	li, err := NewLinearInterp(
		NewVector(3, []float64{0, 1, 2}),
		NewVector(3, []float64{0, 10, 14}))
	assert.NoError(t, err)

	val, err := li.At(0.5)
	assert.NoError(t, err)
	assert.True(t, near(val, 5))

	val, err = li.At(1.5)
	assert.NoError(t, err)
	assert.True(t, near(val, 12))

	// Endpoints are inside the domain
	val, err = li.At(0)
	assert.NoError(t, err)
	assert.True(t, near(val, 0))
	val, err = li.At(2)
	assert.NoError(t, err)
	assert.True(t, near(val, 14))

	// Outside the sampled range is an error, not an extrapolation
	_, err = li.At(-0.1)
	assert.Error(t, err)
	_, err = li.At(2.1)
	assert.Error(t, err)

	// Length mismatch
	_, err = NewLinearInterp(NewVector(2, []float64{0, 1}), NewVector(3, []float64{0, 1, 2}))
	assert.Error(t, err)
}

func TestBiLinearGrid(t *testing.T) {
	// vals is (len(y) x len(x))
	bl, err := NewBiLinearGrid(
		NewVector(2, []float64{0, 1}),
		NewVector(2, []float64{0, 2}),
		NewMatrix(2, 2, []float64{0, 1, 2, 3}))
	assert.NoError(t, err)

	for _, tc := range []struct {
		x, y, want float64
	}{
		{0, 0, 0}, {1, 0, 1}, {0, 2, 2}, {1, 2, 3}, // corners
		{0.5, 0, 0.5}, {0, 1, 1}, {0.5, 1, 1.5}, // edges and centre
	} {
		val, err := bl.At(tc.x, tc.y)
		assert.NoError(t, err)
		assert.True(t, near(val, tc.want), "at (%g,%g): got %g, want %g", tc.x, tc.y, val, tc.want)
	}

	_, err = bl.At(-0.1, 1)
	assert.Error(t, err)
	_, err = bl.At(0.5, 2.5)
	assert.Error(t, err)

	// Shape mismatch and non-monotonic coordinates are rejected
	_, err = NewBiLinearGrid(NewVector(2, []float64{0, 1}), NewVector(3, []float64{0, 1, 2}),
		NewMatrix(2, 2, []float64{0, 1, 2, 3}))
	assert.Error(t, err)
	_, err = NewBiLinearGrid(NewVector(2, []float64{1, 0}), NewVector(2, []float64{0, 2}),
		NewMatrix(2, 2, []float64{0, 1, 2, 3}))
	assert.Error(t, err)
}

func TestMatrixHelpers(t *testing.T) {
	m := NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})

	f := m.FlipRows()
	assert.True(t, near(f.At(0, 0), 4))
	assert.True(t, near(f.At(1, 2), 3))
	// Receiver untouched
	assert.True(t, near(m.At(0, 0), 1))

	m.SubColBroadcast(NewVector(2, []float64{1, 4}))
	assert.True(t, near(m.At(0, 0), 0))
	assert.True(t, near(m.At(0, 2), 2))
	assert.True(t, near(m.At(1, 0), 0))
	assert.True(t, near(m.At(1, 2), 2))

	v := NewVector(3, []float64{3, 2, 1})
	r := v.Reverse()
	assert.True(t, near(r.AtVec(0), 1))
	assert.True(t, near(v.AtVec(0), 3))
}
