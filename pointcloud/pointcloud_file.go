package pointcloud

import (
	"math"
	"path/filepath"

	"github.com/edaniels/golog"
	"github.com/edaniels/lidario"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// NewFromFile returns a pointcloud read in from the given file.
func NewFromFile(fn string, logger golog.Logger) (*PointCloud, error) {
	switch filepath.Ext(fn) {
	case ".las":
		return NewFromLASFile(fn, logger)
	default:
		return nil, errors.Errorf("do not know how to read file %q", fn)
	}
}

// NewFromLASFile returns a point cloud from reading a LAS file. Coordinates
// are reconstructed from the stored integer records using the header's
// offset and scale, which the LAS library handles. Non-finite points are
// dropped and reported but are not an error.
func NewFromLASFile(fn string, logger golog.Logger) (*PointCloud, error) {
	lf, err := lidario.NewLasFile(fn, "r")
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(lf.Close)

	cloud := NewWithPrealloc(lf.Header.NumberPoints)
	dropped := 0
	for i := 0; i < lf.Header.NumberPoints; i++ {
		p, err := lf.LasPoint(i)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading LAS point %d", i)
		}
		data := p.PointData()

		x, y, z := data.X, data.Y, data.Z
		if math.IsNaN(x) || math.IsInf(x, 0) ||
			math.IsNaN(y) || math.IsInf(y, 0) ||
			math.IsNaN(z) || math.IsInf(z, 0) {
			dropped++
			continue
		}
		cloud.Add(r3.Vector{X: x, Y: y, Z: z})
	}
	if dropped != 0 {
		logger.Warnf("dropped %d non-finite points reading %q", dropped, fn)
	}
	return cloud, nil
}

// WriteToLASFile writes the point cloud out to a LAS file. The header's
// offset and scale are chosen by the LAS library to cover the cloud's
// bounding box.
func WriteToLASFile(cloud *PointCloud, fn string) (err error) {
	lf, err := lidario.NewLasFile(fn, "w")
	if err != nil {
		return
	}
	defer func() {
		cerr := lf.Close()
		err = multierr.Combine(err, cerr)
	}()

	if err = lf.AddHeader(lidario.LasHeader{
		PointFormatID: 0,
	}); err != nil {
		return
	}

	var lastErr error
	cloud.Iterate(0, 0, func(i int, pos r3.Vector) bool {
		pr0 := &lidario.PointRecord0{
			X: pos.X,
			Y: pos.Y,
			Z: pos.Z,
			BitField: lidario.PointBitField{
				Value: (1) | (1 << 3) | (0 << 6) | (0 << 7),
			},
			ClassBitField: lidario.ClassificationBitField{
				Value: 0,
			},
			ScanAngle:     0,
			UserData:      0,
			PointSourceID: 1,
		}
		if lerr := lf.AddLasPoint(pr0); lerr != nil {
			lastErr = lerr
			return false
		}
		return true
	})
	if lastErr != nil {
		err = multierr.Combine(err, lastErr)
		return
	}
	return
}
