package cmd

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/notargets/goinflow/readfiles"
	"github.com/notargets/goinflow/writefiles"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a foamFile snapshot series into a NetCDF container",
	Long: `Convert a foamFile time-directory tree of sampled precursor
velocity fields into a single NetCDF container, which is both faster to
read back and simpler to move around than thousands of time directories.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			readPath, _    = cmd.Flags().GetString("readPath")
			pointsPath, _  = cmd.Flags().GetString("pointsPath")
			surfaceName, _ = cmd.Flags().GetString("surfaceName")
			writePath, _   = cmd.Flags().GetString("writePath")
		)
		for flag, val := range map[string]string{
			"readPath": readPath, "pointsPath": pointsPath, "writePath": writePath,
		} {
			if val == "" {
				fmt.Printf("must supply --%s\n", flag)
				os.Exit(1)
			}
		}
		RunConvert(readPath, pointsPath, surfaceName, writePath)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("readPath", "", "root of the foamFile time-directory tree")
	convertCmd.Flags().String("pointsPath", "", "foamFile face-centres file of the sampling plane")
	convertCmd.Flags().String("surfaceName", "", "name of the sampling surface")
	convertCmd.Flags().String("writePath", "", "NetCDF file to create")
}

func RunConvert(readPath, pointsPath, surfaceName, writePath string) {
	times, err := readfiles.ListTimes(readPath)
	if err != nil {
		panic(err)
	}
	if len(times) == 0 {
		panic(fmt.Errorf("no time directories found in %s", readPath))
	}
	sp, err := readfiles.ReadStructuredPoints(pointsPath, math.NaN())
	if err != nil {
		panic(err)
	}
	reader := &readfiles.FoamFile{
		BasePath:    readPath,
		SurfaceName: surfaceName,
		Times:       times,
		Points:      sp,
	}

	ny, nz := sp.PointsY.Dims()
	w, err := writefiles.CreateNetCDF(writePath, len(times), ny, nz)
	if err != nil {
		panic(err)
	}
	defer w.Close()
	if err = w.WritePoints(sp.PointsY, sp.PointsZ); err != nil {
		panic(err)
	}

	for position, label := range times {
		t, err := strconv.ParseFloat(label, 64)
		if err != nil {
			panic(fmt.Errorf("time directory %q is not numeric: %v", label, err))
		}
		uX, uY, uZ, err := reader.ReadSnapshot(position)
		if err != nil {
			panic(err)
		}
		if err = w.WriteSnapshot(t, position, uX, uY, uZ); err != nil {
			panic(err)
		}
		if len(times) >= 10 && position%(len(times)/10) == 0 {
			log.Infof("converted about %d%%", 100*position/len(times))
		}
	}
	log.Infof("wrote %d snapshots to %s", len(times), writePath)
}
