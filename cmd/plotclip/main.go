// Package main is a command that clips a LiDAR survey cloud to the plot
// footprint traced by its odometry, with an optional height band above the
// estimated ground plane.
package main

import (
	"context"
	"flag"
	"math"
	"strings"

	"github.com/edaniels/golog"

	"github.com/pannatron/Lidar-process/pointcloud"
	"github.com/pannatron/Lidar-process/segmentation"
)

var logger = golog.NewDevelopmentLogger("plotclip")

func main() {
	minHeight := flag.Float64("min-height", math.NaN(), "minimum height above ground to keep")
	maxHeight := flag.Float64("max-height", math.NaN(), "maximum height above ground to keep")
	out := flag.String("out", "", "output LAS file (default <input>_processed.las)")
	seed := flag.Int64("seed", segmentation.DefaultGroundConfig.Seed, "seed for the ground plane search")

	flag.Parse()

	if flag.NArg() < 2 {
		logger.Fatal("need two args <cloud.las> <odometry.txt>")
	}
	lasFile, odomFile := flag.Arg(0), flag.Arg(1)
	outFile := *out
	if outFile == "" {
		outFile = strings.TrimSuffix(lasFile, ".las") + "_processed.las"
	}

	cloud, err := pointcloud.NewFromFile(lasFile, logger)
	if err != nil {
		logger.Fatal(err)
	}
	trajectory, err := pointcloud.NewFromTrajectoryFile(odomFile)
	if err != nil {
		logger.Fatal(err)
	}

	cfg := segmentation.DefaultClipConfig
	cfg.Ground.Seed = *seed
	cfg.MinHeight = *minHeight
	cfg.MaxHeight = *maxHeight

	clipped, bounds, err := segmentation.ClipToPlot(context.Background(), cloud, trajectory, cfg, logger)
	if err != nil {
		logger.Fatal(err)
	}
	if err := pointcloud.WriteToLASFile(clipped, outFile); err != nil {
		logger.Fatal(err)
	}
	logger.Infow("wrote clipped cloud",
		"file", outFile,
		"points", clipped.Size(),
		"bounds", bounds,
	)
}
