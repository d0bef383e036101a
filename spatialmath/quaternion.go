package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// axisAngleToQuaternion builds a unit quaternion for a rotation of theta radians
// about axis. axis need not be normalized; a zero-length axis yields the identity.
func axisAngleToQuaternion(axis r3.Vector, theta float64) quat.Number {
	n := axis.Norm()
	if n < angleEpsilon {
		return quat.Number{Real: 1}
	}
	axis = axis.Mul(1 / n)
	half := theta / 2
	s := math.Sin(half)
	return quat.Number{Real: math.Cos(half), Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

// quaternionToAxisAngle recovers the (axis, angle) pair encoded by a unit quaternion.
// For the identity rotation it returns the X axis with a zero angle.
func quaternionToAxisAngle(q quat.Number) (r3.Vector, float64) {
	q = normalizeQuaternion(q)
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	imagNorm := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	theta := 2 * math.Atan2(imagNorm, q.Real)
	if imagNorm < angleEpsilon {
		return r3.Vector{X: 1}, 0
	}
	return r3.Vector{X: q.Imag / imagNorm, Y: q.Jmag / imagNorm, Z: q.Kmag / imagNorm}, theta
}

func normalizeQuaternion(q quat.Number) quat.Number {
	a := quat.Abs(q)
	if a < angleEpsilon {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/a, q)
}

// rotateVectorByQuaternion rotates v by the unit quaternion q, via q*v*conj(q).
func rotateVectorByQuaternion(q quat.Number, v r3.Vector) r3.Vector {
	vq := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, vq), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// tiltQuaternionFor returns the shortest-arc rotation that carries the reference
// +Z axis onto the unit vector axis. It is the "tilt" half of the orientation
// vector decomposition: orientationVectorToQuaternion composes it with a rotation
// about the original Z axis by Theta.
func tiltQuaternionFor(axis r3.Vector) quat.Number {
	z := r3.Vector{Z: 1}
	dot := clamp(z.Dot(axis), -1, 1)
	switch {
	case dot > 1-angleEpsilon:
		return quat.Number{Real: 1}
	case dot < -1+angleEpsilon:
		// 180 degree flip; any axis perpendicular to Z works, X is as good as any.
		return axisAngleToQuaternion(r3.Vector{X: 1}, math.Pi)
	default:
		cross := z.Cross(axis)
		return axisAngleToQuaternion(cross, math.Acos(dot))
	}
}

// orientationVectorToQuaternion builds the quaternion for an orientation vector
// whose local +Z axis points along (ox, oy, oz) (need not be normalized), having
// first been rotated by theta about the original +Z axis.
func orientationVectorToQuaternion(ox, oy, oz, theta float64) quat.Number {
	axis := r3.Vector{X: ox, Y: oy, Z: oz}
	n := axis.Norm()
	if n < angleEpsilon {
		axis = r3.Vector{Z: 1}
	} else {
		axis = axis.Mul(1 / n)
	}
	qTilt := tiltQuaternionFor(axis)
	qTheta := axisAngleToQuaternion(r3.Vector{Z: 1}, theta)
	return quat.Mul(qTilt, qTheta)
}

// quaternionToOrientationVector is the inverse of orientationVectorToQuaternion.
func quaternionToOrientationVector(q quat.Number) *OrientationVector {
	q = normalizeQuaternion(q)
	axis := rotateVectorByQuaternion(q, r3.Vector{Z: 1})
	qTilt := tiltQuaternionFor(axis)
	qTheta := quat.Mul(quat.Conj(qTilt), q)
	_, theta := quaternionToAxisAngle(qTheta)
	// quaternionToAxisAngle always returns a non-negative angle; recover the sign
	// by checking which way qTheta rotates the X axis about Z.
	if qTheta.Kmag < 0 {
		theta = -theta
	}
	return &OrientationVector{Theta: theta, OX: axis.X, OY: axis.Y, OZ: axis.Z}
}

// quaternionToR4AA converts a unit quaternion to an axis-angle representation.
func quaternionToR4AA(q quat.Number) *R4AA {
	axis, theta := quaternionToAxisAngle(q)
	return &R4AA{Theta: theta, RX: axis.X, RY: axis.Y, RZ: axis.Z}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
