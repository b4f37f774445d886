package cmd

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/goinflow/InputParameters"
	"github.com/notargets/goinflow/readfiles"
	"github.com/notargets/goinflow/rescale"
	"github.com/notargets/goinflow/utils"
	"github.com/notargets/goinflow/writefiles"
)

type LundModel struct {
	InputFile string
	NProcs    int
	Profile   bool
}

// lundCmd represents the lund command
var lundCmd = &cobra.Command{
	Use:   "lund",
	Short: "Run the Lund rescaling inflow generation",
	Long: `Run the Lund rescaling inflow generation: rescale the precursor
mean profile onto the inflow boundary once, then produce one synthetic
velocity field per time step by rescaling the precursor fluctuations.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			m   = &LundModel{}
		)
		if m.InputFile, err = cmd.Flags().GetString("inputFile"); err != nil {
			panic(err)
		}
		m.NProcs, _ = cmd.Flags().GetInt("nProcs")
		m.Profile, _ = cmd.Flags().GetBool("profile")
		if len(m.InputFile) == 0 {
			fmt.Println("must supply an input parameters file (-I, --inputFile) in YAML format")
			os.Exit(1)
		}
		if m.Profile {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		RunLund(m)
	},
}

func init() {
	rootCmd.AddCommand(lundCmd)
	lundCmd.Flags().StringP("inputFile", "I", "", "YAML input parameters file")
	lundCmd.Flags().IntP("nProcs", "n", runtime.NumCPU(), "number of parallel workers")
	lundCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
}

func RunLund(m *LundModel) {
	ip := readInputParameters(m.InputFile)
	ip.Print()

	// Precursor geometry and snapshot source
	var (
		pointsZPrec utils.Matrix
		yPrec       utils.Vector
		reader      rescale.Reader
		nAvailable  int
	)
	switch ip.ReaderFormat {
	case readfiles.FormatFoamFile:
		times, err := readfiles.ListTimes(ip.ReadPath)
		if err != nil {
			panic(err)
		}
		var (
			botCoord = math.NaN()
			botRow   []float64
		)
		if ip.AddValBot != nil {
			botCoord = *ip.AddValBot
			botRow = []float64{0, 0, 0}
		}
		sp, err := readfiles.ReadStructuredPoints(ip.PointsPath, botCoord)
		if err != nil {
			panic(err)
		}
		pointsZPrec = sp.PointsZ
		yPrec = wallNormalCoords(sp.PointsY)
		if reader, err = readfiles.NewReader(readfiles.ReaderConfig{
			Format:      readfiles.FormatFoamFile,
			Path:        ip.ReadPath,
			SurfaceName: ip.SurfaceName,
			Times:       times,
			Points:      sp,
			AddValBot:   botRow,
		}); err != nil {
			panic(err)
		}
		nAvailable = len(times)
	case readfiles.FormatNetCDF:
		nc, err := readfiles.OpenNetCDF(ip.ReadPath)
		if err != nil {
			panic(err)
		}
		pointsY, pZ, err := nc.ReadPoints()
		if err != nil {
			panic(err)
		}
		pointsZPrec = pZ
		yPrec = wallNormalCoords(pointsY)
		reader = nc
		nAvailable = nc.NumTimes()
	default:
		panic(fmt.Errorf("unknown reader format %q", ip.ReaderFormat))
	}

	// Inflow geometry
	spInfl, err := readfiles.ReadStructuredPoints(ip.InflowPointsPath, math.NaN())
	if err != nil {
		panic(err)
	}
	yInfl := wallNormalCoords(spInfl.PointsY)

	// Similarity coordinates, friction-velocity ratio, blending weights
	var (
		prec = similarityCoords(yPrec, ip.Delta99Prec, ip.UTauPrec, ip.Nu)
		infl = similarityCoords(yInfl, ip.Delta99Infl, ip.UTauInfl, ip.Nu)

		gamma    = ip.UTauInfl / ip.UTauPrec
		nInfl    = boundaryLayerPoints(infl, prec)
		blending = rescale.Blending(infl.Eta)
	)
	if nInfl == 0 {
		panic(fmt.Errorf("no inflow point lies within the precursor's sampled range"))
	}

	// Precursor mean profile and its rescaled inflow counterpart
	uMeanXPrec, uMeanYPrec := loadMeanProfile(ip.UMeanPath, yPrec)
	_, nPointsZInfl := spInfl.PointsZ.Dims()
	uMeanXInfl, uMeanYInfl, err := rescale.MeanVelocity(prec, uMeanXPrec, uMeanYPrec,
		infl, nInfl, nPointsZInfl, ip.U0Infl, ip.U0Prec, gamma, blending)
	if err != nil {
		panic(err)
	}

	gen := &rescale.Generator{
		Reader:        reader,
		Dt:            ip.Dt,
		T0:            ip.T0,
		TEnd:          ip.TEnd,
		TimePrecision: ip.TimePrecision,
		UMeanXPrec:    uMeanXPrec,
		UMeanYPrec:    uMeanYPrec,
		UMeanXInfl:    uMeanXInfl,
		UMeanYInfl:    uMeanYInfl,
		Prec:          prec,
		Infl:          infl,
		PointsZ:       pointsZPrec,
		PointsZInfl:   spInfl.PointsZ,
		NInfl:         nInfl,
		Gamma:         gamma,
		Blending:      blending,
		Log:           log,
	}
	if gen.Size() > nAvailable {
		panic(fmt.Errorf("%d steps requested but only %d precursor snapshots available", gen.Size(), nAvailable))
	}

	// Produced field sink
	switch ip.WriterFormat {
	case "ofnative":
		w := &writefiles.OFNative{Path: ip.WritePath}
		if err = w.WritePoints(ip.XOrigin, spInfl.PointsY, spInfl.PointsZ); err != nil {
			panic(err)
		}
		gen.Writer = w
	case "netcdf":
		nyInfl, nzInfl := spInfl.PointsZ.Dims()
		w, err := writefiles.CreateNetCDF(ip.WritePath, gen.Size(), nyInfl, nzInfl)
		if err != nil {
			panic(err)
		}
		defer w.Close()
		if err = w.WritePoints(spInfl.PointsY, spInfl.PointsZ); err != nil {
			panic(err)
		}
		gen.Writer = w
	default:
		panic(fmt.Errorf("unknown writer format %q, want \"ofnative\" or \"netcdf\"", ip.WriterFormat))
	}

	log.Infof("generating %d fields using %d workers, gamma = %g, nInfl = %d",
		gen.Size(), m.NProcs, gamma, nInfl)
	if err = gen.Run(m.NProcs); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
	log.Info("done")
}

func readInputParameters(path string) (ip *InputParameters.InputParameters) {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	if err = ip.Validate(); err != nil {
		panic(err)
	}
	return
}

// wallNormalCoords extracts the wall-normal coordinate of each mesh row;
// the coordinate is constant along the span, so the first column serves.
func wallNormalCoords(pointsY utils.Matrix) (y utils.Vector) {
	nr, _ := pointsY.Dims()
	y = utils.NewVector(nr)
	for i := 0; i < nr; i++ {
		y.DataP()[i] = pointsY.At(i, 0)
	}
	return
}

func similarityCoords(y utils.Vector, delta99, uTau, nu float64) rescale.SimilarityCoords {
	return rescale.SimilarityCoords{
		Eta:   y.Copy().Scale(1 / delta99),
		YPlus: y.Copy().Scale(uTau / nu),
	}
}

// boundaryLayerPoints counts the inflow points, starting at the wall,
// whose similarity coordinates lie inside the precursor's sampled range.
// The wall sits at index 0 unless the coordinates decrease, in which
// case counting starts from the last index.
func boundaryLayerPoints(infl, prec rescale.SimilarityCoords) (nInfl int) {
	var (
		etaMax   = prec.Eta.Max()
		yPlusMax = prec.YPlus.Max()
		eta      = infl.Eta
		yPlus    = infl.YPlus
	)
	if eta.Len() > 1 && eta.AtVec(0) > eta.AtVec(1) {
		eta, yPlus = eta.Reverse(), yPlus.Reverse()
	}
	for i := 0; i < eta.Len(); i++ {
		if eta.AtVec(i) > etaMax || yPlus.AtVec(i) > yPlusMax {
			break
		}
		nInfl++
	}
	return
}

// loadMeanProfile reads a whitespace-separated profile file with columns
// y, uMeanX and optionally uMeanY, and interpolates it onto the precursor
// mesh's wall-normal coordinates.
func loadMeanProfile(path string, y utils.Vector) (uMeanX, uMeanY utils.Vector) {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var ys, uxs, uys []float64
	for ln, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var yv, uxv, uyv float64
		n, _ := fmt.Sscan(line, &yv, &uxv, &uyv)
		if n < 2 {
			panic(fmt.Errorf("%s: line %d needs at least columns y and uMeanX", path, ln+1))
		}
		ys = append(ys, yv)
		uxs = append(uxs, uxv)
		uys = append(uys, uyv)
	}
	uMeanX = interpolateProfile(path, ys, uxs, y)
	uMeanY = interpolateProfile(path, ys, uys, y)
	return
}

func interpolateProfile(path string, ys, vals []float64, y utils.Vector) (R utils.Vector) {
	li, err := utils.NewLinearInterp(utils.NewVector(len(ys), ys), utils.NewVector(len(vals), vals))
	if err != nil {
		panic(fmt.Errorf("%s: %v", path, err))
	}
	R = utils.NewVector(y.Len())
	for i := 0; i < y.Len(); i++ {
		if R.DataP()[i], err = li.At(y.AtVec(i)); err != nil {
			panic(fmt.Errorf("%s does not cover the precursor mesh: %v", path, err))
		}
	}
	return
}
