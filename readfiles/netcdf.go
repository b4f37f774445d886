package readfiles

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"

	"github.com/notargets/goinflow/utils"
)

// NetCDF reads velocity snapshots from a single NetCDF container holding
// the variables uX, uY and uZ, each dimensioned (time, y, z). Positions
// address the time dimension directly, the index-keyed convention of this
// storage format.
type NetCDF struct {
	ff       *os.File
	f        *cdf.File
	nTimes   int
	nPointsY int
	nPointsZ int
}

func OpenNetCDF(path string) (r *NetCDF, err error) {
	var (
		ff *os.File
		f  *cdf.File
	)
	if ff, err = os.Open(path); err != nil {
		return nil, fmt.Errorf("opening NetCDF file %s: %v", path, err)
	}
	if f, err = cdf.Open(ff); err != nil {
		ff.Close()
		return nil, fmt.Errorf("reading NetCDF header of %s: %v", path, err)
	}
	r = &NetCDF{ff: ff, f: f}
	for n, v := range []string{"uX", "uY", "uZ"} {
		lens := f.Header.Lengths(v)
		if len(lens) != 3 {
			ff.Close()
			return nil, fmt.Errorf("%s: variable %s has %d dimensions, want (time, y, z)", path, v, len(lens))
		}
		if n == 0 {
			r.nTimes, r.nPointsY, r.nPointsZ = lens[0], lens[1], lens[2]
			continue
		}
		if lens[0] != r.nTimes || lens[1] != r.nPointsY || lens[2] != r.nPointsZ {
			ff.Close()
			return nil, fmt.Errorf("%s: variable %s has shape %v, but uX has (%d,%d,%d)",
				path, v, lens, r.nTimes, r.nPointsY, r.nPointsZ)
		}
	}
	return
}

func (r *NetCDF) Close() error { return r.ff.Close() }

// NumTimes is the number of snapshots stored in the container.
func (r *NetCDF) NumTimes() int { return r.nTimes }

// PointsShape is the (wall-normal, spanwise) extent of each snapshot.
func (r *NetCDF) PointsShape() (nPointsY, nPointsZ int) { return r.nPointsY, r.nPointsZ }

// ReadPoints returns the wall-normal and spanwise coordinate grids stored
// alongside the snapshots.
func (r *NetCDF) ReadPoints() (pointsY, pointsZ utils.Matrix, err error) {
	if pointsY, err = r.readPlane("pointsY", nil); err != nil {
		return
	}
	pointsZ, err = r.readPlane("pointsZ", nil)
	return
}

func (r *NetCDF) ReadSnapshot(position int) (uX, uY, uZ utils.Matrix, err error) {
	if position < 0 || position >= r.nTimes {
		err = fmt.Errorf("snapshot position %d outside the %d available times", position, r.nTimes)
		return
	}
	if uX, err = r.readPlane("uX", []int{position}); err != nil {
		return
	}
	if uY, err = r.readPlane("uY", []int{position}); err != nil {
		return
	}
	uZ, err = r.readPlane("uZ", []int{position})
	return
}

// readPlane reads one (y, z) plane of the named variable; prefix selects
// the leading (time) index for 3D variables, nil reads a 2D variable.
func (r *NetCDF) readPlane(v string, prefix []int) (R utils.Matrix, err error) {
	var (
		begin = append(append([]int{}, prefix...), 0, 0)
		end   = append(append([]int{}, prefix...), r.nPointsY, r.nPointsZ)
	)
	for i := range prefix {
		end[i] = prefix[i] + 1
	}
	rr := r.f.Reader(v, begin, end)
	buf := rr.Zero(r.nPointsY * r.nPointsZ)
	if _, err = rr.Read(buf); err != nil {
		err = fmt.Errorf("reading variable %s: %v", v, err)
		return
	}
	data, ok := buf.([]float64)
	if !ok {
		err = fmt.Errorf("variable %s is not stored as float64", v)
		return
	}
	R = utils.NewMatrix(r.nPointsY, r.nPointsZ, data)
	return
}
