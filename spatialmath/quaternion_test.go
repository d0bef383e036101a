package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestAxisAngleRoundTrip(t *testing.T) {
	axis := r3.Vector{X: 0.2, Y: 0.6, Z: 0.3}
	theta := 1.1
	q := axisAngleToQuaternion(axis, theta)
	gotAxis, gotTheta := quaternionToAxisAngle(q)
	test.That(t, gotTheta, test.ShouldAlmostEqual, theta, 1e-9)
	n := axis.Norm()
	test.That(t, gotAxis.X, test.ShouldAlmostEqual, axis.X/n, 1e-9)
	test.That(t, gotAxis.Y, test.ShouldAlmostEqual, axis.Y/n, 1e-9)
	test.That(t, gotAxis.Z, test.ShouldAlmostEqual, axis.Z/n, 1e-9)
}

func TestAxisAngleIdentity(t *testing.T) {
	axis, theta := quaternionToAxisAngle(quat.Number{Real: 1})
	test.That(t, theta, test.ShouldAlmostEqual, 0.0, 1e-12)
	test.That(t, axis.X, test.ShouldAlmostEqual, 1.0, 1e-12)
}

func TestOrientationVectorRoundTrip(t *testing.T) {
	cases := []OrientationVector{
		{Theta: 0, OX: 0, OY: 0, OZ: 1},
		{Theta: math.Pi / 4, OX: 0, OY: 0, OZ: 1},
		{Theta: 0.3, OX: 1, OY: 0, OZ: 0},
		{Theta: -1.2, OX: 0.5, OY: 0.5, OZ: 0.7071},
		{Theta: 2.0, OX: 0, OY: 0, OZ: -1},
	}
	for _, ov := range cases {
		q := ov.Quaternion()
		back := quaternionToOrientationVector(q)
		q2 := back.Quaternion()
		rel := quat.Mul(quat.Conj(normalizeQuaternion(q)), normalizeQuaternion(q2))
		_, theta := quaternionToAxisAngle(rel)
		test.That(t, theta, test.ShouldBeLessThan, 1e-6)
	}
}

func TestRotateVectorByQuaternion(t *testing.T) {
	q := axisAngleToQuaternion(r3.Vector{Z: 1}, math.Pi/2)
	rotated := rotateVectorByQuaternion(q, r3.Vector{X: 1})
	test.That(t, rotated.X, test.ShouldAlmostEqual, 0.0, 1e-9)
	test.That(t, rotated.Y, test.ShouldAlmostEqual, 1.0, 1e-9)
	test.That(t, rotated.Z, test.ShouldAlmostEqual, 0.0, 1e-9)
}

func TestTiltQuaternionForZAxis(t *testing.T) {
	q := tiltQuaternionFor(r3.Vector{Z: 1})
	test.That(t, q.Real, test.ShouldAlmostEqual, 1.0, 1e-9)
}
