// Package readfiles parses precursor snapshot storage into the structured
// arrays the rescaling core consumes: for every sampled time, three
// (wall-normal x spanwise) velocity component arrays.
package readfiles

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/notargets/goinflow/utils"
)

// readFoamFile reads a foamFile-format list of tuples: an entry count,
// an opening parenthesis, one parenthesized whitespace-separated tuple
// per line, and a closing parenthesis. Header lines before the count are
// skipped.
func readFoamFile(readPath string) (rows [][]float64, err error) {
	var (
		file *os.File
		n    = -1
	)
	if file, err = os.Open(readPath); err != nil {
		return nil, fmt.Errorf("unable to open file %s: %v", readPath, err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if n < 0 {
			// Looking for the entry count
			if v, convErr := strconv.Atoi(line); convErr == nil {
				n = v
				rows = make([][]float64, 0, n)
			}
			continue
		}
		if line == "(" || line == "" {
			continue
		}
		if line == ")" {
			break
		}
		line = strings.TrimPrefix(line, "(")
		line = strings.TrimSuffix(line, ")")
		fields := strings.Fields(line)
		row := make([]float64, len(fields))
		for i, f := range fields {
			if row[i], err = strconv.ParseFloat(f, 64); err != nil {
				return nil, fmt.Errorf("parsing %s: bad value %q: %v", readPath, f, err)
			}
		}
		rows = append(rows, row)
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %v", readPath, err)
	}
	if n < 0 {
		return nil, fmt.Errorf("parsing %s: no entry count found", readPath)
	}
	if len(rows) != n {
		return nil, fmt.Errorf("parsing %s: expected %d entries, got %d", readPath, n, len(rows))
	}
	return
}

// StructuredPoints is a planar point set arranged so that the row index
// follows the wall-normal direction and the column index the spanwise
// direction, together with the sorting permutations that arrangement
// required. The permutations are reapplied to every velocity snapshot so
// values line up with the points.
type StructuredPoints struct {
	PointsY, PointsZ utils.Matrix
	YInd             []int   // wall-normal ordering of the raw entries
	ZInd             [][]int // per-row spanwise ordering
	AddedBot         bool    // a synthetic wall row was prepended
}

// ReadStructuredPoints reads face-centre coordinates stored in foamFile
// format and sorts them into (wall-normal x spanwise) arrays: first along
// y, then along z within each row of constant y. Pass addValBot as the
// wall coordinate to prepend a synthetic near-wall row (NaN to disable),
// mirroring sampling planes that do not include the wall itself.
func ReadStructuredPoints(readPath string, addValBot float64) (sp StructuredPoints, err error) {
	var rows [][]float64
	if rows, err = readFoamFile(readPath); err != nil {
		return
	}
	nTotal := len(rows)
	if nTotal == 0 {
		err = fmt.Errorf("points file %s is empty", readPath)
		return
	}
	// The first column is the streamwise coordinate of the plane, constant
	// by construction, so only y and z matter.
	y := make([]float64, nTotal)
	z := make([]float64, nTotal)
	sp.YInd = make([]int, nTotal)
	for i, row := range rows {
		if len(row) != 3 {
			err = fmt.Errorf("points file %s: entry %d has %d components, want 3", readPath, i, len(row))
			return
		}
		y[i], z[i] = row[1], row[2]
		sp.YInd[i] = i
	}
	sort.SliceStable(sp.YInd, func(a, b int) bool { return y[sp.YInd[a]] < y[sp.YInd[b]] })

	// Points per row of constant y gives the spanwise count.
	nPointsZ := 0
	for _, ind := range sp.YInd {
		if y[ind] != y[sp.YInd[0]] {
			break
		}
		nPointsZ++
	}
	if nTotal%nPointsZ != 0 {
		err = fmt.Errorf("points file %s: %d points do not tile into rows of %d", readPath, nTotal, nPointsZ)
		return
	}
	nPointsY := nTotal / nPointsZ

	sp.PointsY = utils.NewMatrix(nPointsY, nPointsZ)
	sp.PointsZ = utils.NewMatrix(nPointsY, nPointsZ)
	sp.ZInd = make([][]int, nPointsY)
	for i := 0; i < nPointsY; i++ {
		sp.ZInd[i] = make([]int, nPointsZ)
		for j := 0; j < nPointsZ; j++ {
			sp.ZInd[i][j] = j
		}
		rowStart := i * nPointsZ
		zRow := make([]float64, nPointsZ)
		for j := 0; j < nPointsZ; j++ {
			zRow[j] = z[sp.YInd[rowStart+j]]
		}
		sort.SliceStable(sp.ZInd[i], func(a, b int) bool { return zRow[sp.ZInd[i][a]] < zRow[sp.ZInd[i][b]] })
		for j := 0; j < nPointsZ; j++ {
			sp.PointsY.Set(i, j, y[sp.YInd[rowStart+sp.ZInd[i][j]]])
			sp.PointsZ.Set(i, j, zRow[sp.ZInd[i][j]])
		}
	}

	if !math.IsNaN(addValBot) {
		sp.PointsY = prependRow(sp.PointsY, utils.NewVectorConst(nPointsZ, addValBot))
		sp.PointsZ = prependRow(sp.PointsZ, sp.PointsZ.Row(0))
		sp.AddedBot = true
	}
	return
}

func prependRow(m utils.Matrix, row utils.Vector) (R utils.Matrix) {
	var (
		nr, nc = m.Dims()
	)
	R = utils.NewMatrix(nr+1, nc)
	R.SetRowVec(0, row)
	for i := 0; i < nr; i++ {
		R.SetRowVec(i+1, m.Row(i))
	}
	return
}

// FoamFile reads velocity snapshots from a foamFile time-directory tree:
// <BasePath>/<time>/<SurfaceName>/vectorField/U. Positions address the
// Times list, the string-keyed convention of this storage format.
type FoamFile struct {
	BasePath    string
	SurfaceName string
	Times       []string
	Points      StructuredPoints
	// AddValBot, when non-nil, prepends a row with these three component
	// values at the wall; must match the Points configuration.
	AddValBot []float64
}

func (r *FoamFile) ReadSnapshot(position int) (uX, uY, uZ utils.Matrix, err error) {
	if position < 0 || position >= len(r.Times) {
		err = fmt.Errorf("snapshot position %d outside the %d available times", position, len(r.Times))
		return
	}
	readPath := filepath.Join(r.BasePath, r.Times[position], r.SurfaceName, "vectorField", "U")
	var rows [][]float64
	if rows, err = readFoamFile(readPath); err != nil {
		return
	}
	var (
		nPointsZ = len(r.Points.ZInd[0])
		nPointsY = len(r.Points.ZInd)
	)
	if len(rows) != nPointsY*nPointsZ {
		err = fmt.Errorf("%s: %d velocity entries for %d mesh points", readPath, len(rows), nPointsY*nPointsZ)
		return
	}
	uX = utils.NewMatrix(nPointsY, nPointsZ)
	uY = utils.NewMatrix(nPointsY, nPointsZ)
	uZ = utils.NewMatrix(nPointsY, nPointsZ)
	for i := 0; i < nPointsY; i++ {
		rowStart := i * nPointsZ
		for j := 0; j < nPointsZ; j++ {
			row := rows[r.Points.YInd[rowStart+r.Points.ZInd[i][j]]]
			if len(row) != 3 {
				err = fmt.Errorf("%s: entry %d has %d components, want 3", readPath, rowStart+j, len(row))
				return
			}
			uX.Set(i, j, row[0])
			uY.Set(i, j, row[1])
			uZ.Set(i, j, row[2])
		}
	}
	if r.AddValBot != nil {
		if len(r.AddValBot) != 3 {
			err = fmt.Errorf("addValBot needs 3 components, got %d", len(r.AddValBot))
			return
		}
		uX = prependRow(uX, utils.NewVectorConst(nPointsZ, r.AddValBot[0]))
		uY = prependRow(uY, utils.NewVectorConst(nPointsZ, r.AddValBot[1]))
		uZ = prependRow(uZ, utils.NewVectorConst(nPointsZ, r.AddValBot[2]))
	}
	return
}

// ListTimes returns the names of the time directories under basePath in
// ascending numeric order.
func ListTimes(basePath string) (times []string, err error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return nil, fmt.Errorf("listing time directories in %s: %v", basePath, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, convErr := strconv.ParseFloat(e.Name(), 64); convErr != nil {
			continue
		}
		times = append(times, e.Name())
	}
	sort.Slice(times, func(a, b int) bool {
		va, _ := strconv.ParseFloat(times[a], 64)
		vb, _ := strconv.ParseFloat(times[b], 64)
		return va < vb
	})
	return
}
