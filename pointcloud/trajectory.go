package pointcloud

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// trajectory rows are whitespace delimited; the scanner pose x,y,z live in
// fields 3-5 (1-indexed) of each row.
const (
	trajectoryFieldX = 2
	trajectoryFieldZ = 4
)

// NewFromTrajectoryFile reads a survey trajectory from a plain-text odometry
// table, one scan pose per row. Blank lines are skipped; short or malformed
// rows are an error.
func NewFromTrajectoryFile(fn string) (*PointCloud, error) {
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	cloud := New()
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) <= trajectoryFieldZ {
			return nil, errors.Errorf("trajectory line %d has %d fields, need at least %d",
				lineNum, len(fields), trajectoryFieldZ+1)
		}
		var coords [3]float64
		for i := range coords {
			v, err := strconv.ParseFloat(fields[trajectoryFieldX+i], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "trajectory line %d field %d", lineNum, trajectoryFieldX+i+1)
			}
			coords[i] = v
		}
		cloud.Add(r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if cloud.Size() == 0 {
		return nil, errors.Wrapf(ErrEmptyCloud, "no trajectory poses in %q", fn)
	}
	return cloud, nil
}
