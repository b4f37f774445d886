package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var yamlInput = []byte(`
Title: "Channel flow inflow"
ReaderFormat: foamFile
ReadPath: precursor/postProcessing/sampledSurface
SurfaceName: inletSurface
PointsPath: precursor/faceCentres
InflowPointsPath: inflow/faceCentres
XOrigin: 0.5
WriterFormat: netcdf
WritePath: inflow.nc
UMeanPath: uMean.dat
T0: 0
TEnd: 10
Dt: 0.01
TimePrecision: 3
Nu: 1.5e-05
U0Prec: 10
U0Infl: 10
Delta99Prec: 0.05
Delta99Infl: 0.06
UTauPrec: 0.45
UTauInfl: 0.41
`)

func TestParse(t *testing.T) {
	var ip InputParameters
	require.NoError(t, ip.Parse(yamlInput))
	assert.Equal(t, "Channel flow inflow", ip.Title)
	assert.Equal(t, "foamFile", ip.ReaderFormat)
	assert.Equal(t, "inletSurface", ip.SurfaceName)
	assert.Equal(t, 0.5, ip.XOrigin)
	assert.Equal(t, "netcdf", ip.WriterFormat)
	assert.Equal(t, 0.01, ip.Dt)
	assert.Equal(t, 3, ip.TimePrecision)
	assert.Equal(t, 1.5e-05, ip.Nu)
	assert.Equal(t, 0.41, ip.UTauInfl)
	// Absent AddValBot means no synthetic wall row
	assert.Nil(t, ip.AddValBot)
	assert.NoError(t, ip.Validate())
}

func TestParseAddValBot(t *testing.T) {
	var ip InputParameters
	require.NoError(t, ip.Parse(append([]byte("AddValBot: 0\n"), yamlInput...)))
	require.NotNil(t, ip.AddValBot)
	assert.Equal(t, 0.0, *ip.AddValBot)
}

func TestValidate(t *testing.T) {
	var good InputParameters
	require.NoError(t, good.Parse(yamlInput))

	bad := good
	bad.Dt = 0
	assert.Error(t, bad.Validate())

	bad = good
	bad.TEnd = bad.T0 - 1
	assert.Error(t, bad.Validate())

	bad = good
	bad.Nu = 0
	assert.Error(t, bad.Validate())

	bad = good
	bad.U0Infl = -1
	assert.Error(t, bad.Validate())

	bad = good
	bad.Delta99Prec = 0
	assert.Error(t, bad.Validate())

	bad = good
	bad.UTauPrec = 0
	assert.Error(t, bad.Validate())
}

func TestParseRejectsMalformed(t *testing.T) {
	var ip InputParameters
	assert.Error(t, ip.Parse([]byte("Dt: [not, a, number]")))
}
