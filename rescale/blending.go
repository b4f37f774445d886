package rescale

import (
	"math"

	"github.com/notargets/goinflow/utils"
)

// Blending evaluates Lund's weight function
//
//	W(eta) = (1 + tanh(a*(eta-b)/((1-2b)*eta+b))/tanh(a)) / 2
//
// with a = 4 and b = 0.2, clamped to 1 for eta >= 1. W is 0 at the wall,
// so the inner (viscous-scaled) estimate dominates there, and grows to 1
// at the boundary-layer edge where the outer estimate takes over.
func Blending(eta utils.Vector) (W utils.Vector) {
	const (
		a = 4.0
		b = 0.2
	)
	W = utils.NewVector(eta.Len())
	data := W.DataP()
	for i := 0; i < eta.Len(); i++ {
		e := eta.AtVec(i)
		if e >= 1 {
			data[i] = 1
			continue
		}
		data[i] = 0.5 * (1 + math.Tanh(a*(e-b)/((1-2*b)*e+b))/math.Tanh(a))
	}
	return
}
