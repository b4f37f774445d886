package writefiles

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/goinflow/readfiles"
	"github.com/notargets/goinflow/utils"
)

func TestNetCDFRoundTrip(t *testing.T) {
	var (
		path    = filepath.Join(t.TempDir(), "inflow.nc")
		pointsY = utils.NewMatrix(2, 3, []float64{
			0.1, 0.1, 0.1,
			0.5, 0.5, 0.5,
		})
		pointsZ = utils.NewMatrix(2, 3, []float64{
			0, 1, 2,
			0, 1, 2,
		})
		snapshot = func(base float64) utils.Matrix {
			return utils.NewMatrix(2, 3, []float64{
				base, base + 1, base + 2,
				base + 3, base + 4, base + 5,
			})
		}
	)
	w, err := CreateNetCDF(path, 2, 2, 3)
	require.NoError(t, err)
	require.NoError(t, w.WritePoints(pointsY, pointsZ))
	// Written out of position order, as concurrent workers would
	require.NoError(t, w.WriteSnapshot(0.2, 1, snapshot(100), snapshot(200), snapshot(300)))
	require.NoError(t, w.WriteSnapshot(0.1, 0, snapshot(10), snapshot(20), snapshot(30)))
	require.NoError(t, w.Close())

	r, err := readfiles.OpenNetCDF(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 2, r.NumTimes())
	ny, nz := r.PointsShape()
	assert.Equal(t, 2, ny)
	assert.Equal(t, 3, nz)

	gotY, gotZ, err := r.ReadPoints()
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, pointsY.At(i, j), gotY.At(i, j))
			assert.Equal(t, pointsZ.At(i, j), gotZ.At(i, j))
		}
	}

	for position, base := range []float64{10, 100} {
		uX, uY, uZ, err := r.ReadSnapshot(position)
		require.NoError(t, err)
		for i := 0; i < 2; i++ {
			for j := 0; j < 3; j++ {
				offset := float64(i*3 + j)
				assert.Equal(t, base+offset, uX.At(i, j))
				assert.Equal(t, 2*base+offset, uY.At(i, j))
				assert.Equal(t, 3*base+offset, uZ.At(i, j))
			}
		}
	}

	_, _, _, err = r.ReadSnapshot(2)
	assert.Error(t, err)
}

func TestNetCDFShapeRejection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inflow.nc")
	w, err := CreateNetCDF(path, 1, 2, 3)
	require.NoError(t, err)
	defer w.Close()

	wrong := utils.NewMatrix(3, 2)
	assert.Error(t, w.WritePoints(wrong, wrong))
	ok := utils.NewMatrix(2, 3)
	assert.Error(t, w.WriteSnapshot(0, 0, wrong, ok, ok))
	assert.Error(t, w.WriteSnapshot(0, 1, ok, ok, ok))
	assert.Error(t, w.WriteSnapshot(0, -1, ok, ok, ok))
}
