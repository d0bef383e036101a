package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestOrientationVectorDegreesMatchesRadians(t *testing.T) {
	deg := &OrientationVectorDegrees{Theta: 90, OX: 0, OY: 0, OZ: 1}
	rad := &OrientationVector{Theta: math.Pi / 2, OX: 0, OY: 0, OZ: 1}
	qd := deg.Quaternion()
	qr := rad.Quaternion()
	test.That(t, qd.Real, test.ShouldAlmostEqual, qr.Real, 1e-9)
	test.That(t, qd.Kmag, test.ShouldAlmostEqual, qr.Kmag, 1e-9)
}

func TestNewR4AAIsIdentity(t *testing.T) {
	r := NewR4AA()
	q := r.Quaternion()
	test.That(t, q.Real, test.ShouldAlmostEqual, 1.0, 1e-9)
}

func TestR4AARoundTripThroughQuaternion(t *testing.T) {
	r := &R4AA{Theta: 1.23, RX: 0, RY: 1, RZ: 0}
	q := Quaternion(r.Quaternion())
	back := q.AxisAngles()
	test.That(t, back.Theta, test.ShouldAlmostEqual, 1.23, 1e-9)
	test.That(t, back.RY, test.ShouldAlmostEqual, 1.0, 1e-9)
}

func TestQuaternionImplementsOrientation(t *testing.T) {
	var o Orientation = Quaternion{Real: 1}
	ov := o.OrientationVectorRadians()
	test.That(t, ov.OZ, test.ShouldAlmostEqual, 1.0, 1e-9)
}
