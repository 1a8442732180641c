// Package main is a command that compresses a per-section stem diameter
// table into one (mean, confidence interval) row per tree.
package main

import (
	"flag"

	"github.com/edaniels/golog"

	"github.com/pannatron/Lidar-process/dbh"
)

var logger = golog.NewDevelopmentLogger("dbhcompress")

func main() {
	resDir := flag.String("res", "res", "results directory for the compressed table")

	flag.Parse()

	if flag.NArg() < 1 {
		logger.Fatal("need one arg <sections.txt>")
	}

	measurements, err := dbh.ReadSectionTable(flag.Arg(0))
	if err != nil {
		logger.Fatal(err)
	}
	stats := dbh.Aggregate(measurements)

	fn, err := dbh.WriteCompressedTable(stats, *resDir)
	if err != nil {
		logger.Fatal(err)
	}
	trees := 0
	for _, s := range stats {
		if s.HasData {
			trees++
		}
	}
	logger.Infow("wrote compressed DBH table",
		"file", fn,
		"trees", len(stats),
		"trees_with_data", trees,
	)
}
