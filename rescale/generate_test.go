package rescale

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/goinflow/utils"
)

// memReader serves a fixed snapshot for every position, failing from
// failAt onward when failAt is non-negative.
type memReader struct {
	uX, uY, uZ utils.Matrix
	failAt     int
}

func (r *memReader) ReadSnapshot(position int) (uX, uY, uZ utils.Matrix, err error) {
	if r.failAt >= 0 && position >= r.failAt {
		err = fmt.Errorf("no snapshot at position %d", position)
		return
	}
	uX, uY, uZ = r.uX.Copy(), r.uY.Copy(), r.uZ.Copy()
	return
}

type writeRecord struct {
	t        float64
	position int
	uX       utils.Matrix
}

type memWriter struct {
	mu      sync.Mutex
	records []writeRecord
}

func (w *memWriter) WriteSnapshot(t float64, position int, uX, uY, uZ utils.Matrix) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, writeRecord{t: t, position: position, uX: uX})
	return nil
}

func identityGenerator(nTimes int) (*Generator, *memReader, *memWriter) {
	// Inflow mesh equal to the precursor mesh, unit gamma, all-inner
	// blending and an inflow mean equal to the precursor mean, so the
	// written field reproduces the raw snapshot exactly.
	var (
		coords = precCoords()
		z      = utils.NewMatrix(3, 3, []float64{
			0, 1, 2,
			0, 1, 2,
			0, 1, 2,
		})
		uMeanX = utils.NewVector(3, []float64{1, 5, 10})
		uMeanY = utils.NewVector(3)
		snapX  = utils.NewMatrix(3, 3, []float64{
			1.5, 2.5, 3.5,
			5.5, 6.5, 7.5,
			10.5, 11.5, 12.5,
		})
		reader = &memReader{uX: snapX, uY: snapX.Copy(), uZ: snapX.Copy(), failAt: -1}
		writer = &memWriter{}
	)
	g := &Generator{
		Reader:        reader,
		Writer:        writer,
		Dt:            0.1,
		T0:            0,
		TEnd:          0.1 * float64(nTimes-1),
		TimePrecision: 3,
		UMeanXPrec:    uMeanX,
		UMeanYPrec:    uMeanY,
		UMeanXInfl:    broadcastColumns(uMeanX, 3),
		UMeanYInfl:    broadcastColumns(uMeanY, 3),
		Prec:          coords,
		Infl:          coords,
		PointsZ:       z,
		PointsZInfl:   z,
		NInfl:         3,
		Gamma:         1.0,
		Blending:      utils.NewVector(3),
	}
	return g, reader, writer
}

func TestGeneratorSize(t *testing.T) {
	g := &Generator{Dt: 0.1, T0: 0, TEnd: 1.0}
	assert.Equal(t, 11, g.Size())
	g = &Generator{Dt: 0.1, T0: 2.5, TEnd: 2.5}
	assert.Equal(t, 1, g.Size())
	// Size survives the accumulated binary representation error of dt
	g = &Generator{Dt: 0.001, T0: 0, TEnd: 0.999}
	assert.Equal(t, 1000, g.Size())
}

func TestGeneratorValidate(t *testing.T) {
	g, _, _ := identityGenerator(5)
	assert.NoError(t, g.validate())

	bad := *g
	bad.Reader = nil
	assert.Error(t, bad.Run(1))

	bad = *g
	bad.Writer = nil
	assert.Error(t, bad.Run(1))

	bad = *g
	bad.Dt = 0
	assert.Error(t, bad.Run(1))

	bad = *g
	bad.TEnd = bad.T0 - 1
	assert.Error(t, bad.Run(1))

	bad = *g
	bad.NInfl = 0
	assert.Error(t, bad.Run(1))

	bad = *g
	bad.Gamma = 0
	assert.Error(t, bad.Run(1))
}

func TestGeneratorReconstructsSnapshot(t *testing.T) {
	g, reader, writer := identityGenerator(3)
	assert.NoError(t, g.Run(1))
	assert.Equal(t, 3, len(writer.records))

	// Subtracting the precursor mean and adding back the equal inflow
	// mean must return the raw snapshot.
	for _, rec := range writer.records {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				assert.True(t, near(rec.uX.At(i, j), reader.uX.At(i, j)),
					"position %d at (%d,%d)", rec.position, i, j)
			}
		}
	}
}

func TestGeneratorWorkerOrderAndTimes(t *testing.T) {
	g, _, writer := identityGenerator(7)
	assert.NoError(t, g.RunWorker(0, 1))
	assert.Equal(t, 7, len(writer.records))
	for i, rec := range writer.records {
		assert.Equal(t, i, rec.position)
		assert.InDelta(t, 0.1*float64(i), rec.t, 1.e-12)
	}
}

func TestGeneratorMultiWorkerCoverage(t *testing.T) {
	for _, nProcs := range []int{1, 2, 3, 5} {
		g, _, writer := identityGenerator(11)
		assert.NoError(t, g.Run(nProcs))
		assert.Equal(t, 11, len(writer.records))
		seen := make(map[int]int)
		for _, rec := range writer.records {
			seen[rec.position]++
		}
		for position := 0; position < 11; position++ {
			assert.Equal(t, 1, seen[position], "nProcs = %d, position %d", nProcs, position)
		}
	}
}

func TestGeneratorReaderFailureAborts(t *testing.T) {
	g, reader, writer := identityGenerator(6)
	reader.failAt = 2
	err := g.RunWorker(0, 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading snapshot 2")
	// Positions before the failure were written, none after.
	assert.Equal(t, 2, len(writer.records))
}

func TestRoundTime(t *testing.T) {
	assert.Equal(t, 0.3, roundTime(0.1+0.1+0.1, 3))
	assert.Equal(t, 1.0, roundTime(0.9999, 2))
	assert.Equal(t, 12.346, roundTime(12.345678, 3))
}
