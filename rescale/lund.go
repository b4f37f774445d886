/*
Package rescale generates synthetic turbulent inflow fields by rescaling
precursor boundary-layer data following Lund et al,

	Lund T.S., Wu X., Squires K.D. Generation of turbulent inflow
	data for spatially-developing boundary layer simulations.
	J. Comp. Phys. 1998; 140:233-58.

The mean profile and the fluctuations are rescaled separately, each as a
blend of an inner (viscous-scaled) and an outer (boundary-layer-scaled)
estimate. Note the deliberate asymmetry beyond the resolved boundary
layer: the mean profile is held at its last in-range value, while the
fluctuation field is left at zero; combining both reproduces a steady
freestream.
*/
package rescale

import (
	"fmt"

	"github.com/notargets/goinflow/utils"
)

// SimilarityCoords holds the two wall-normal coordinate scalings of the
// same physical points: Eta is outer-scaled (y/delta99), YPlus is
// viscous-scaled (y*uTau/nu).
type SimilarityCoords struct {
	Eta, YPlus utils.Vector
}

// normalizeOrientation flips the wall-normal coordinate arrays when the
// wall sits at the top of the index range, so that index 0 is always the
// near-wall point. The returned flag tells the caller to flip its outputs
// back. The check is repeated in every consumer since each call may see a
// different subset of the inflow arrays.
func normalizeOrientation(c SimilarityCoords) (R SimilarityCoords, flipped bool) {
	R = c
	if c.Eta.Len() > 1 && c.Eta.AtVec(0) > c.Eta.AtVec(1) {
		R = SimilarityCoords{Eta: c.Eta.Reverse(), YPlus: c.YPlus.Reverse()}
		flipped = true
	}
	return
}

func checkNonNegative(name string, v utils.Vector) {
	if v.Len() > 0 && v.Min() < 0 {
		panic(fmt.Errorf("%s contains a negative wall distance: %g", name, v.Min()))
	}
}

// MeanVelocity rescales the precursor mean velocity profile onto the
// inflow boundary. The first nInfl wall-normal points blend a gamma-scaled
// inner estimate with an outer estimate carrying the additive freestream
// correction u0Infl - gamma*u0Prec (streamwise only); points beyond nInfl
// hold the value at nInfl-1. The blended profile is uniform in the
// spanwise direction and broadcast over nPointsZInfl columns.
//
// A requested coordinate outside the precursor's sampled range, or a
// negative rescaled streamwise value, is returned as an error.
func MeanVelocity(prec SimilarityCoords, uMeanXPrec, uMeanYPrec utils.Vector,
	infl SimilarityCoords, nInfl, nPointsZInfl int,
	u0Infl, u0Prec, gamma float64,
	blending utils.Vector) (uMeanXInfl, uMeanYInfl utils.Matrix, err error) {
	switch {
	case nInfl <= 0:
		panic(fmt.Errorf("nInfl must be positive, got %d", nInfl))
	case nPointsZInfl <= 0:
		panic(fmt.Errorf("nPointsZInfl must be positive, got %d", nPointsZInfl))
	case u0Infl <= 0 || u0Prec <= 0:
		panic(fmt.Errorf("freestream velocities must be positive, got %g and %g", u0Infl, u0Prec))
	case gamma <= 0:
		panic(fmt.Errorf("gamma must be positive, got %g", gamma))
	case nInfl > infl.Eta.Len():
		panic(fmt.Errorf("nInfl = %d exceeds the inflow wall-normal extent %d", nInfl, infl.Eta.Len()))
	case blending.Len() < nInfl:
		panic(fmt.Errorf("blending length %d is shorter than nInfl = %d", blending.Len(), nInfl))
	}
	checkNonNegative("etaPrec", prec.Eta)
	checkNonNegative("yPlusPrec", prec.YPlus)
	checkNonNegative("etaInfl", infl.Eta)
	checkNonNegative("yPlusInfl", infl.YPlus)

	// blending stays wall-first regardless of the input orientation
	infl, flipped := normalizeOrientation(infl)

	uX, err := blendMeanComponent(prec.Eta, prec.YPlus, uMeanXPrec, infl, nInfl,
		gamma, u0Infl-gamma*u0Prec, blending)
	if err != nil {
		return
	}
	// The wall-normal component carries no freestream correction.
	uY, err := blendMeanComponent(prec.Eta, prec.YPlus, uMeanYPrec, infl, nInfl,
		gamma, 0, blending)
	if err != nil {
		return
	}

	if uX.Min() < 0 {
		err = fmt.Errorf("rescaled mean streamwise velocity is negative (min %g): inconsistent precursor data or scaling", uX.Min())
		return
	}

	uMeanXInfl = broadcastColumns(uX, nPointsZInfl)
	uMeanYInfl = broadcastColumns(uY, nPointsZInfl)
	if flipped {
		uMeanXInfl = uMeanXInfl.FlipRows()
		uMeanYInfl = uMeanYInfl.FlipRows()
	}
	return
}

// blendMeanComponent produces one blended wall-normal profile: inner
// estimate scale*innerInterp(yPlus), outer estimate
// scale*outerInterp(eta) + freestreamAdd, held constant beyond nInfl.
func blendMeanComponent(etaPrec, yPlusPrec, uMeanPrec utils.Vector,
	infl SimilarityCoords, nInfl int, scale, freestreamAdd float64,
	blending utils.Vector) (profile utils.Vector, err error) {
	var (
		outerInterp, innerInterp utils.LinearInterp
		inner, outer             float64
	)
	if outerInterp, err = utils.NewLinearInterp(etaPrec, uMeanPrec); err != nil {
		return
	}
	if innerInterp, err = utils.NewLinearInterp(yPlusPrec, uMeanPrec); err != nil {
		return
	}
	profile = utils.NewVector(infl.Eta.Len())
	data := profile.DataP()
	for i := 0; i < nInfl; i++ {
		if inner, err = innerInterp.At(infl.YPlus.AtVec(i)); err != nil {
			err = fmt.Errorf("inner profile at point %d: %v", i, err)
			return
		}
		if outer, err = outerInterp.At(infl.Eta.AtVec(i)); err != nil {
			err = fmt.Errorf("outer profile at point %d: %v", i, err)
			return
		}
		b := blending.AtVec(i)
		data[i] = scale*inner*(1-b) + (scale*outer+freestreamAdd)*b
	}
	for i := nInfl; i < len(data); i++ {
		data[i] = data[nInfl-1]
	}
	return
}

func broadcastColumns(profile utils.Vector, nCols int) (R utils.Matrix) {
	R = utils.NewMatrix(profile.Len(), nCols)
	data := R.DataP()
	for i := 0; i < profile.Len(); i++ {
		val := profile.AtVec(i)
		for j := 0; j < nCols; j++ {
			data[i*nCols+j] = val
		}
	}
	return
}

// Fluctuations rescales an instantaneous precursor fluctuation snapshot
// onto the inflow boundary. The spanwise extent of both meshes is
// normalized to [0, 1] using the first grid row, so spanwise position is
// comparable across meshes of different span or resolution. Each velocity
// component is interpolated twice over (normalized spanwise, wall-normal)
// grids, once indexed by eta and once by yPlus, both gamma-scaled, and
// blended per wall-normal row. Rows at or beyond nInfl remain zero.
//
// Both the flipped and the unflipped wall orientation return the same
// concrete, fully materialized triple, in (streamwise, wall-normal,
// spanwise) order, shaped like pointsZInfl.
func Fluctuations(prec SimilarityCoords, pointsZ utils.Matrix,
	uPrimeX, uPrimeY, uPrimeZ utils.Matrix, gamma float64,
	infl SimilarityCoords, pointsZInfl utils.Matrix, nInfl int,
	blending utils.Vector) (uXInfl, uYInfl, uZInfl utils.Matrix, err error) {
	switch {
	case nInfl <= 0:
		panic(fmt.Errorf("nInfl must be positive, got %d", nInfl))
	case gamma <= 0:
		panic(fmt.Errorf("gamma must be positive, got %g", gamma))
	case blending.Len() < nInfl:
		panic(fmt.Errorf("blending length %d is shorter than nInfl = %d", blending.Len(), nInfl))
	}
	checkNonNegative("etaPrec", prec.Eta)
	checkNonNegative("yPlusPrec", prec.YPlus)
	checkNonNegative("etaInfl", infl.Eta)
	checkNonNegative("yPlusInfl", infl.YPlus)

	// blending stays wall-first regardless of the input orientation
	infl, flipped := normalizeOrientation(infl)

	var (
		zNormPrec = normalizeSpan(pointsZ)
		zNormInfl = normalizeSpan(pointsZInfl)
		out       [3]utils.Matrix
	)
	for n, uPrime := range []utils.Matrix{uPrimeX, uPrimeY, uPrimeZ} {
		if out[n], err = blendFluctComponent(zNormPrec, prec, uPrime, gamma,
			zNormInfl, infl, nInfl, blending, pointsZInfl); err != nil {
			err = fmt.Errorf("component %d: %v", n, err)
			return
		}
	}
	if flipped {
		for n := range out {
			out[n] = out[n].FlipRows()
		}
	}
	uXInfl, uYInfl, uZInfl = out[0], out[1], out[2]
	return
}

// normalizeSpan maps the first spanwise grid row onto [0, 1] by dividing
// through the last entry, which must be nonzero.
func normalizeSpan(pointsZ utils.Matrix) (zNorm utils.Vector) {
	var (
		_, nc = pointsZ.Dims()
	)
	zNorm = pointsZ.Row(0)
	last := zNorm.AtVec(nc - 1)
	if last == 0 {
		panic(fmt.Errorf("spanwise grid ends at z = 0, cannot normalize the span"))
	}
	zNorm.Scale(1 / last)
	return
}

func blendFluctComponent(zNormPrec utils.Vector, prec SimilarityCoords,
	uPrime utils.Matrix, gamma float64,
	zNormInfl utils.Vector, infl SimilarityCoords, nInfl int,
	blending utils.Vector, pointsZInfl utils.Matrix) (R utils.Matrix, err error) {
	var (
		outerInterp, innerInterp utils.BiLinearGrid
		inner, outer             float64
	)
	if outerInterp, err = utils.NewBiLinearGrid(zNormPrec, prec.Eta, uPrime); err != nil {
		return
	}
	if innerInterp, err = utils.NewBiLinearGrid(zNormPrec, prec.YPlus, uPrime); err != nil {
		return
	}
	nr, nc := pointsZInfl.Dims()
	R = utils.NewMatrix(nr, nc)
	data := R.DataP()
	for i := 0; i < nInfl; i++ {
		b := blending.AtVec(i)
		for j := 0; j < nc; j++ {
			z := zNormInfl.AtVec(j)
			if inner, err = innerInterp.At(z, infl.YPlus.AtVec(i)); err != nil {
				err = fmt.Errorf("inner estimate at point (%d,%d): %v", i, j, err)
				return
			}
			if outer, err = outerInterp.At(z, infl.Eta.AtVec(i)); err != nil {
				err = fmt.Errorf("outer estimate at point (%d,%d): %v", i, j, err)
				return
			}
			data[i*nc+j] = gamma*inner*(1-b) + gamma*outer*b
		}
	}
	return
}
