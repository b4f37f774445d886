package readfiles

import (
	"fmt"

	"github.com/notargets/goinflow/rescale"
)

// The closed set of snapshot storage formats.
const (
	FormatFoamFile = "foamFile"
	FormatNetCDF   = "netcdf"
)

// ReaderConfig selects and parameterizes a snapshot reader.
type ReaderConfig struct {
	Format string
	// Path is the time-directory tree root for foamFile, or the container
	// file for netcdf.
	Path string
	// foamFile only:
	SurfaceName string
	Times       []string
	Points      StructuredPoints
	AddValBot   []float64
}

// NewReader constructs the reader for the configured format. An
// unrecognized format is a configuration error and is reported here, before
// any generation step runs.
func NewReader(cfg ReaderConfig) (r rescale.Reader, err error) {
	switch cfg.Format {
	case FormatFoamFile:
		r = &FoamFile{
			BasePath:    cfg.Path,
			SurfaceName: cfg.SurfaceName,
			Times:       cfg.Times,
			Points:      cfg.Points,
			AddValBot:   cfg.AddValBot,
		}
	case FormatNetCDF:
		r, err = OpenNetCDF(cfg.Path)
	default:
		err = fmt.Errorf("unknown reader format %q, want %q or %q", cfg.Format, FormatFoamFile, FormatNetCDF)
	}
	return
}
