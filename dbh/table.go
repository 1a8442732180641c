package dbh

import (
	"bufio"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// compressedFileName is the per-tree output table written into the results
// directory.
const compressedFileName = "compressed_dat.csv"

// ReadSectionTable reads per-section measurements from a whitespace
// delimited text table with columns treeId, sectionIndex, sectionType,
// diameter. A diameter field of "nan" marks a failed fit and is kept as NaN.
func ReadSectionTable(fn string) ([]SectionMeasurement, error) {
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	var measurements []SectionMeasurement
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, errors.Errorf("section table line %d has %d fields, need 4", lineNum, len(fields))
		}
		var ints [3]int
		for i := range ints {
			v, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, errors.Wrapf(err, "section table line %d field %d", lineNum, i+1)
			}
			ints[i] = v
		}
		diameter, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "section table line %d diameter", lineNum)
		}
		measurements = append(measurements, SectionMeasurement{
			TreeID:      ints[0],
			Section:     ints[1],
			SectionType: ints[2],
			Diameter:    diameter,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return measurements, nil
}

// WriteCompressedTable writes one (meanDiameter, confidenceIntervalHalfWidth)
// row per tree into the results directory, creating it if needed, and
// returns the written file's path. Trees without data are written as NaN.
func WriteCompressedTable(stats []TreeStatistics, resultsDir string) (_ string, err error) {
	if err = os.MkdirAll(resultsDir, 0o755); err != nil {
		return "", err
	}
	fn := filepath.Join(resultsDir, compressedFileName)
	//nolint:gosec
	f, err := os.Create(fn)
	if err != nil {
		return "", err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	w := csv.NewWriter(f)
	for _, s := range stats {
		record := []string{
			strconv.FormatFloat(s.MeanDiameter, 'g', -1, 64),
			strconv.FormatFloat(s.ConfidenceInterval95, 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return fn, nil
}
