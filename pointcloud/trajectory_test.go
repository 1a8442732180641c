package pointcloud

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "odom.txt")
	test.That(t, os.WriteFile(fn, []byte(contents), 0o644), test.ShouldBeNil)
	return fn
}

func TestNewFromTrajectoryFile(t *testing.T) {
	fn := writeTempFile(t, `
1 0.05 10.5 -20.25 30.125 0 0 0 1
2 0.10 11.5 -21.25 31.125 0 0 0 1

3 0.15 12.5 -22.25 32.125 0 0 0 1
`)
	traj, err := NewFromTrajectoryFile(fn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.Size(), test.ShouldEqual, 3)
	test.That(t, traj.At(0), test.ShouldResemble, r3.Vector{X: 10.5, Y: -20.25, Z: 30.125})
	test.That(t, traj.At(2), test.ShouldResemble, r3.Vector{X: 12.5, Y: -22.25, Z: 32.125})
}

func TestNewFromTrajectoryFileErrors(t *testing.T) {
	_, err := NewFromTrajectoryFile(filepath.Join(t.TempDir(), "missing.txt"))
	test.That(t, err, test.ShouldNotBeNil)

	fn := writeTempFile(t, "1 2 3\n")
	_, err = NewFromTrajectoryFile(fn)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "fields")

	fn = writeTempFile(t, "1 2 three 4 5\n")
	_, err = NewFromTrajectoryFile(fn)
	test.That(t, err, test.ShouldNotBeNil)

	fn = writeTempFile(t, "\n\n")
	_, err = NewFromTrajectoryFile(fn)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no trajectory poses")
}
