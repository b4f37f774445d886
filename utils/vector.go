package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var v *mat.VecDense
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v", n, len(dataO[0]))
			panic(err)
		}
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	R = Vector{v}
	return
}

func NewVectorConst(n int, val float64) (R Vector) {
	var (
		x = make([]float64, n)
	)
	for i := 0; i < n; i++ {
		x[i] = val
	}
	return NewVector(n, x)
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }

// DataP returns the raw backing slice, writable in place.
func (v Vector) DataP() []float64 { return v.V.RawVector().Data }

func (v Vector) Copy() (R Vector) { // Does not change receiver
	var (
		data  = v.V.RawVector().Data
		dataR = make([]float64, v.Len())
	)
	copy(dataR, data)
	R = NewVector(v.Len(), dataR)
	return
}

func (v Vector) Slice(I, K int) (R Vector) { // Does not change receiver
	var (
		data  = v.V.RawVector().Data
		dataR = make([]float64, K-I)
	)
	if I < 0 || K > v.Len() || K < I {
		panic(fmt.Errorf("invalid vector slice bounds [%d:%d] on length %d", I, K, v.Len()))
	}
	copy(dataR, data[I:K])
	R = NewVector(K-I, dataR)
	return
}

// Reverse returns a copy with the element order inverted, used to flip
// wall-normal arrays when the wall sits at the top of the index range.
func (v Vector) Reverse() (R Vector) { // Does not change receiver
	var (
		N     = v.Len()
		data  = v.V.RawVector().Data
		dataR = make([]float64, N)
	)
	for i := 0; i < N; i++ {
		dataR[i] = data[N-1-i]
	}
	R = NewVector(N, dataR)
	return
}

func (v Vector) Scale(a float64) Vector {
	var (
		data = v.V.RawVector().Data
	)
	for i := range data {
		data[i] *= a
	}
	return v
}

func (v Vector) Add(a float64) Vector {
	var (
		data = v.V.RawVector().Data
	)
	for i := range data {
		data[i] += a
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector {
	var (
		data = v.V.RawVector().Data
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return v
}

func (v Vector) Min() (min float64) {
	var (
		data = v.V.RawVector().Data
	)
	min = data[0]
	for _, val := range data {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	var (
		data = v.V.RawVector().Data
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}
