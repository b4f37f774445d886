package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file describing one inflow
// generation run.
type InputParameters struct {
	Title string `yaml:"Title"`

	// Precursor snapshot storage
	ReaderFormat string `yaml:"ReaderFormat"` // "foamFile" or "netcdf"
	ReadPath     string `yaml:"ReadPath"`     // time-directory tree root, or container file
	SurfaceName  string `yaml:"SurfaceName"`  // sampling surface name (foamFile only)
	PointsPath   string `yaml:"PointsPath"`   // precursor face centres (foamFile only)
	// AddValBot, when set, prepends a synthetic wall row at this
	// wall-normal coordinate with zero velocity (foamFile only).
	AddValBot *float64 `yaml:"AddValBot"`

	// Inflow boundary
	InflowPointsPath string  `yaml:"InflowPointsPath"` // inflow face centres, foamFile format
	XOrigin          float64 `yaml:"XOrigin"`          // streamwise location of the inflow plane

	// Produced field storage
	WriterFormat string `yaml:"WriterFormat"` // "ofnative" or "netcdf"
	WritePath    string `yaml:"WritePath"`

	// Precursor mean profile, columns y uMeanX [uMeanY]
	UMeanPath string `yaml:"UMeanPath"`

	// Time range of the produced fields
	T0            float64 `yaml:"T0"`
	TEnd          float64 `yaml:"TEnd"`
	Dt            float64 `yaml:"Dt"`
	TimePrecision int     `yaml:"TimePrecision"`

	// Boundary-layer scales
	Nu          float64 `yaml:"Nu"`
	U0Prec      float64 `yaml:"U0Prec"`
	U0Infl      float64 `yaml:"U0Infl"`
	Delta99Prec float64 `yaml:"Delta99Prec"`
	Delta99Infl float64 `yaml:"Delta99Infl"`
	UTauPrec    float64 `yaml:"UTauPrec"`
	UTauInfl    float64 `yaml:"UTauInfl"`
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Validate() error {
	switch {
	case ip.Dt <= 0:
		return fmt.Errorf("Dt must be positive, got %g", ip.Dt)
	case ip.TEnd < ip.T0:
		return fmt.Errorf("TEnd = %g precedes T0 = %g", ip.TEnd, ip.T0)
	case ip.Nu <= 0:
		return fmt.Errorf("Nu must be positive, got %g", ip.Nu)
	case ip.U0Prec <= 0 || ip.U0Infl <= 0:
		return fmt.Errorf("freestream velocities must be positive, got %g and %g", ip.U0Prec, ip.U0Infl)
	case ip.Delta99Prec <= 0 || ip.Delta99Infl <= 0:
		return fmt.Errorf("boundary-layer thicknesses must be positive, got %g and %g", ip.Delta99Prec, ip.Delta99Infl)
	case ip.UTauPrec <= 0 || ip.UTauInfl <= 0:
		return fmt.Errorf("friction velocities must be positive, got %g and %g", ip.UTauPrec, ip.UTauInfl)
	}
	return nil
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Reader Format\n", ip.ReaderFormat)
	fmt.Printf("[%s]\t\t= Writer Format\n", ip.WriterFormat)
	fmt.Printf("%8.5f\t\t= T0\n", ip.T0)
	fmt.Printf("%8.5f\t\t= TEnd\n", ip.TEnd)
	fmt.Printf("%8.5f\t\t= Dt\n", ip.Dt)
	fmt.Printf("[%d]\t\t\t= Time Precision\n", ip.TimePrecision)
	fmt.Printf("%8.5g\t\t= Nu\n", ip.Nu)
	fmt.Printf("%8.5f\t\t= U0 (precursor)\n", ip.U0Prec)
	fmt.Printf("%8.5f\t\t= U0 (inflow)\n", ip.U0Infl)
	fmt.Printf("%8.5f\t\t= delta99 (precursor)\n", ip.Delta99Prec)
	fmt.Printf("%8.5f\t\t= delta99 (inflow)\n", ip.Delta99Infl)
	fmt.Printf("%8.5f\t\t= uTau (precursor)\n", ip.UTauPrec)
	fmt.Printf("%8.5f\t\t= uTau (inflow)\n", ip.UTauInfl)
}
