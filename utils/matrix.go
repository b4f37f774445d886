package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	M *mat.Dense
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{m}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }

func (m Matrix) Set(i, j int, val float64) Matrix {
	m.M.Set(i, j, val)
	return m
}

// DataP returns the raw backing slice in row-major order, writable in place.
func (m Matrix) DataP() []float64 { return m.M.RawMatrix().Data }

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		data   = m.M.RawMatrix().Data
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, data)
	R = NewMatrix(nr, nc, dataR)
	return
}

// Row extracts row i as a new Vector.
func (m Matrix) Row(i int) (R Vector) { // Does not change receiver
	var (
		_, nc = m.Dims()
		dataR = make([]float64, nc)
	)
	copy(dataR, m.M.RawRowView(i))
	R = NewVector(nc, dataR)
	return
}

// SetRowVec overwrites row i with the contents of v.
func (m Matrix) SetRowVec(i int, v Vector) Matrix {
	var (
		_, nc = m.Dims()
	)
	if v.Len() != nc {
		panic(fmt.Errorf("row length mismatch: matrix has %d columns, vector has %d", nc, v.Len()))
	}
	m.M.SetRow(i, v.DataP())
	return m
}

// FlipRows returns a copy with the row order inverted, the 2D counterpart
// of Vector.Reverse for wall-orientation handling.
func (m Matrix) FlipRows() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nr, nc)
	for i := 0; i < nr; i++ {
		R.M.SetRow(i, m.M.RawRowView(nr-1-i))
	}
	return
}

// Add performs elementwise addition in place and returns the receiver.
func (m Matrix) Add(A Matrix) Matrix {
	var (
		nr, nc   = m.Dims()
		nrA, ncA = A.Dims()
		data     = m.DataP()
		dataA    = A.DataP()
	)
	if nr != nrA || nc != ncA {
		panic(fmt.Errorf("dimension mismatch in Add: (%d,%d) vs (%d,%d)", nr, nc, nrA, ncA))
	}
	for i := range data {
		data[i] += dataA[i]
	}
	return m
}

// SubColBroadcast subtracts v[i] from every element of row i in place,
// the broadcast used when removing a wall-normal mean profile from a
// (wall-normal x spanwise) field.
func (m Matrix) SubColBroadcast(v Vector) Matrix {
	var (
		nr, nc = m.Dims()
		data   = m.DataP()
		vd     = v.DataP()
	)
	if v.Len() != nr {
		panic(fmt.Errorf("dimension mismatch in SubColBroadcast: %d rows vs vector length %d", nr, v.Len()))
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			data[i*nc+j] -= vd[i]
		}
	}
	return m
}

func (m Matrix) Scale(a float64) Matrix {
	var (
		data = m.DataP()
	)
	for i := range data {
		data[i] *= a
	}
	return m
}

func (m Matrix) Min() (min float64) {
	var (
		data = m.DataP()
	)
	min = data[0]
	for _, val := range data {
		if val < min {
			min = val
		}
	}
	return
}

func (m Matrix) Max() (max float64) {
	var (
		data = m.DataP()
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}
