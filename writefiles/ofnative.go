// Package writefiles persists produced inflow fields, either as an
// OpenFOAM-native boundaryData tree or into a single NetCDF container.
package writefiles

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/notargets/goinflow/utils"
)

// OFNative writes fields in the layout consumed by OpenFOAM's
// timeVaryingMappedFixedValue boundary condition: one directory per time
// value under Path, each holding a U file of parenthesized vectors.
type OFNative struct {
	Path string
}

func (w *OFNative) WriteSnapshot(t float64, position int, uX, uY, uZ utils.Matrix) error {
	var (
		dir    = filepath.Join(w.Path, formatTimeLabel(t))
		nr, nc = uX.Dims()
	)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating time directory %s: %v", dir, err)
	}
	file, err := os.Create(filepath.Join(dir, "U"))
	if err != nil {
		return fmt.Errorf("creating %s: %v", filepath.Join(dir, "U"), err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	fmt.Fprintf(bw, "%d\n(\n", nr*nc)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			fmt.Fprintf(bw, "(%.9g %.9g %.9g)\n", uX.At(i, j), uY.At(i, j), uZ.At(i, j))
		}
	}
	fmt.Fprint(bw, ")\n")
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %v", filepath.Join(dir, "U"), err)
	}
	return nil
}

// WritePoints writes the boundary face centres once, next to the time
// directories. x is the constant streamwise coordinate of the plane.
func (w *OFNative) WritePoints(x float64, pointsY, pointsZ utils.Matrix) error {
	var (
		nr, nc = pointsY.Dims()
	)
	if err := os.MkdirAll(w.Path, 0755); err != nil {
		return fmt.Errorf("creating %s: %v", w.Path, err)
	}
	file, err := os.Create(filepath.Join(w.Path, "points"))
	if err != nil {
		return fmt.Errorf("creating points file: %v", err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	fmt.Fprintf(bw, "%d\n(\n", nr*nc)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			fmt.Fprintf(bw, "(%.9g %.9g %.9g)\n", x, pointsY.At(i, j), pointsZ.At(i, j))
		}
	}
	fmt.Fprint(bw, ")\n")
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("writing points file: %v", err)
	}
	return nil
}

func formatTimeLabel(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}
