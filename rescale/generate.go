package rescale

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/notargets/goinflow/utils"
)

// Reader fetches one instantaneous precursor snapshot by its position in
// the sampled time series, returning the three velocity components shaped
// (precursor wall-normal count x precursor spanwise count). How positions
// map onto storage keys (time labels, record indices) is the reader's own
// convention.
type Reader interface {
	ReadSnapshot(position int) (uX, uY, uZ utils.Matrix, err error)
}

// Writer persists one produced inflow field under a key derived from the
// simulation time and the sequence position.
type Writer interface {
	WriteSnapshot(t float64, position int, uX, uY, uZ utils.Matrix) error
}

// Generator drives the per-timestep rescaling: for every step in
// [0, Size()) it reads a precursor snapshot, subtracts the precursor mean,
// rescales the fluctuations, adds the precomputed inflow mean and hands
// the reconstructed field to the writer. Steps are independent, so the
// range is split into contiguous blocks across workers with no
// coordination inside the loop. A failed step aborts that worker's
// remaining block; this is a fail-fast batch job.
type Generator struct {
	Reader Reader
	Writer Writer

	Dt, T0, TEnd  float64
	TimePrecision int // decimal digits kept on the written time value

	// Precursor mean profile, subtracted from each raw snapshot.
	UMeanXPrec, UMeanYPrec utils.Vector
	// Inflow mean field from MeanVelocity, reused every step.
	UMeanXInfl, UMeanYInfl utils.Matrix

	Prec, Infl           SimilarityCoords
	PointsZ, PointsZInfl utils.Matrix
	NInfl                int
	Gamma                float64
	Blending             utils.Vector

	Log *logrus.Logger // optional, progress is reported by worker 0 only
}

// Size is the total number of time steps to produce.
func (g *Generator) Size() int {
	return int(math.Round((g.TEnd-g.T0)/g.Dt)) + 1
}

func (g *Generator) validate() error {
	switch {
	case g.Reader == nil:
		return fmt.Errorf("generate: no reader configured")
	case g.Writer == nil:
		return fmt.Errorf("generate: no writer configured")
	case g.Dt <= 0:
		return fmt.Errorf("generate: dt must be positive, got %g", g.Dt)
	case g.TEnd < g.T0:
		return fmt.Errorf("generate: tEnd = %g precedes t0 = %g", g.TEnd, g.T0)
	case g.NInfl <= 0:
		return fmt.Errorf("generate: nInfl must be positive, got %d", g.NInfl)
	case g.Gamma <= 0:
		return fmt.Errorf("generate: gamma must be positive, got %g", g.Gamma)
	}
	return nil
}

// Run produces all Size() fields using nProcs workers. The first worker
// error encountered is returned; other workers run their blocks to
// completion independently.
func (g *Generator) Run(nProcs int) error {
	if err := g.validate(); err != nil {
		return err
	}
	var (
		wg   = sync.WaitGroup{}
		errs = make([]error, nProcs)
	)
	for np := 0; np < nProcs; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			errs[np] = g.RunWorker(np, nProcs)
		}(np)
	}
	wg.Wait()
	for np, err := range errs {
		if err != nil {
			return fmt.Errorf("worker %d: %v", np, err)
		}
	}
	return nil
}

// RunWorker executes the contiguous step block assigned to workerIndex out
// of workerCount. Every worker derives the same partition from
// (workerCount, Size()) without communication; blocks cover the step range
// exactly once with sizes differing by at most one. Step order within the
// block is ascending.
func (g *Generator) RunWorker(workerIndex, workerCount int) error {
	if err := g.validate(); err != nil {
		return err
	}
	var (
		pm          = utils.NewPartitionMap(workerCount, g.Size())
		offset, end = pm.GetBucketRange(workerIndex)
		nSteps      = end - offset
	)
	for i := 0; i < nSteps; i++ {
		position := offset + i
		t := roundTime(g.T0+g.Dt*float64(position), g.TimePrecision)

		if workerIndex == 0 && g.Log != nil && nSteps >= 10 && i%(nSteps/10) == 0 {
			g.Log.WithFields(logrus.Fields{"step": position, "time": t}).
				Infof("rescaled about %d%%", 100*i/nSteps)
		}

		uPrimeX, uPrimeY, uPrimeZ, err := g.Reader.ReadSnapshot(position)
		if err != nil {
			return fmt.Errorf("reading snapshot %d: %v", position, err)
		}
		// Raw instantaneous values become true fluctuations.
		uPrimeX.SubColBroadcast(g.UMeanXPrec)
		uPrimeY.SubColBroadcast(g.UMeanYPrec)

		uXInfl, uYInfl, uZInfl, err := Fluctuations(g.Prec, g.PointsZ,
			uPrimeX, uPrimeY, uPrimeZ, g.Gamma,
			g.Infl, g.PointsZInfl, g.NInfl, g.Blending)
		if err != nil {
			return fmt.Errorf("rescaling snapshot %d: %v", position, err)
		}
		// Reconstruct the instantaneous total velocity. There is no
		// spanwise mean in this model.
		uXInfl.Add(g.UMeanXInfl)
		uYInfl.Add(g.UMeanYInfl)

		if err = g.Writer.WriteSnapshot(t, position, uXInfl, uYInfl, uZInfl); err != nil {
			return fmt.Errorf("writing snapshot %d: %v", position, err)
		}
	}
	return nil
}

// roundTime fixes the written time value to prec decimal digits so that
// storage keys are reproducible across platforms.
func roundTime(t float64, prec int) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(t, 'f', prec, 64), 64)
	return v
}
