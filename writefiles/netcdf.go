package writefiles

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"

	"github.com/notargets/goinflow/utils"
)

// NetCDF writes snapshots into a single NetCDF container with variables
// uX, uY, uZ dimensioned (time, y, z), a time variable, and the point
// coordinate grids. Snapshots may be written out of order and from
// multiple workers: each position owns a disjoint slab of the file.
type NetCDF struct {
	ff       *os.File
	f        *cdf.File
	nTimes   int
	nPointsY int
	nPointsZ int
}

func CreateNetCDF(path string, nTimes, nPointsY, nPointsZ int) (w *NetCDF, err error) {
	h := cdf.NewHeader([]string{"time", "y", "z"}, []int{nTimes, nPointsY, nPointsZ})
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "description", "Simulation time of each produced field")
	for _, v := range []string{"uX", "uY", "uZ"} {
		h.AddVariable(v, []string{"time", "y", "z"}, []float64{0})
	}
	h.AddAttribute("uX", "description", "Streamwise velocity")
	h.AddAttribute("uY", "description", "Wall-normal velocity")
	h.AddAttribute("uZ", "description", "Spanwise velocity")
	for _, v := range []string{"pointsY", "pointsZ"} {
		h.AddVariable(v, []string{"y", "z"}, []float64{0})
	}
	h.Define()
	for _, err = range h.Check() {
		return nil, fmt.Errorf("defining NetCDF header: %v", err)
	}

	var (
		ff *os.File
		f  *cdf.File
	)
	if ff, err = os.Create(path); err != nil {
		return nil, fmt.Errorf("creating NetCDF file %s: %v", path, err)
	}
	if f, err = cdf.Create(ff, h); err != nil {
		ff.Close()
		return nil, fmt.Errorf("creating NetCDF file %s: %v", path, err)
	}
	w = &NetCDF{ff: ff, f: f, nTimes: nTimes, nPointsY: nPointsY, nPointsZ: nPointsZ}
	return
}

func (w *NetCDF) Close() error { return w.ff.Close() }

// WritePoints stores the coordinate grids of the plane the snapshots live
// on.
func (w *NetCDF) WritePoints(pointsY, pointsZ utils.Matrix) error {
	for _, p := range []struct {
		name string
		m    utils.Matrix
	}{{"pointsY", pointsY}, {"pointsZ", pointsZ}} {
		nr, nc := p.m.Dims()
		if nr != w.nPointsY || nc != w.nPointsZ {
			return fmt.Errorf("%s shape (%d,%d) does not match container (%d,%d)",
				p.name, nr, nc, w.nPointsY, w.nPointsZ)
		}
		wr := w.f.Writer(p.name, []int{0, 0}, []int{w.nPointsY, w.nPointsZ})
		if _, err := wr.Write(p.m.DataP()); err != nil {
			return fmt.Errorf("writing %s: %v", p.name, err)
		}
	}
	return nil
}

func (w *NetCDF) WriteSnapshot(t float64, position int, uX, uY, uZ utils.Matrix) error {
	if position < 0 || position >= w.nTimes {
		return fmt.Errorf("snapshot position %d outside container capacity %d", position, w.nTimes)
	}
	tw := w.f.Writer("time", []int{position}, []int{position + 1})
	if _, err := tw.Write([]float64{t}); err != nil {
		return fmt.Errorf("writing time at position %d: %v", position, err)
	}
	for _, p := range []struct {
		name string
		m    utils.Matrix
	}{{"uX", uX}, {"uY", uY}, {"uZ", uZ}} {
		nr, nc := p.m.Dims()
		if nr != w.nPointsY || nc != w.nPointsZ {
			return fmt.Errorf("%s shape (%d,%d) does not match container (%d,%d)",
				p.name, nr, nc, w.nPointsY, w.nPointsZ)
		}
		wr := w.f.Writer(p.name, []int{position, 0, 0}, []int{position + 1, w.nPointsY, w.nPointsZ})
		if _, err := wr.Write(p.m.DataP()); err != nil {
			return fmt.Errorf("writing %s at position %d: %v", p.name, position, err)
		}
	}
	return nil
}
