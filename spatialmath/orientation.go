// Package spatialmath provides the pose and orientation primitives shared by the
// kinematics engine: 3D points (github.com/golang/geo/r3), unit-quaternion
// orientations (gonum.org/v1/gonum/num/quat), and the various human-friendly
// orientation encodings used throughout the teacher SDK's component configs.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// angleEpsilon is the tolerance used when deciding whether an orientation vector's
// axis is degenerate (aligned or anti-aligned with the reference Z axis).
const angleEpsilon = 1e-8

// Orientation represents a rotation in 3D space. All concrete orientation encodings
// used by this module (OrientationVector, OrientationVectorDegrees, R4AA, Quaternion)
// implement it. The canonical internal representation is a unit quaternion stored
// scalar-first (Real, Imag, Jmag, Kmag), matching gonum.org/v1/gonum/num/quat.Number's
// own field order.
type Orientation interface {
	Quaternion() quat.Number
	OrientationVectorRadians() *OrientationVector
	AxisAngles() *R4AA
}

// Quaternion is a unit quaternion orientation. It implements Orientation directly.
type Quaternion quat.Number

// Quaternion returns the receiver as a gonum quat.Number.
func (q Quaternion) Quaternion() quat.Number { return quat.Number(q) }

// OrientationVectorRadians converts the quaternion to an OrientationVector.
func (q Quaternion) OrientationVectorRadians() *OrientationVector {
	return quaternionToOrientationVector(quat.Number(q))
}

// AxisAngles converts the quaternion to an axis-angle representation.
func (q Quaternion) AxisAngles() *R4AA {
	return quaternionToR4AA(quat.Number(q))
}

// OrientationVector describes an orientation as the direction that the frame's local
// +Z axis points in the parent frame (OX, OY, OZ, not necessarily normalized) together
// with Theta, the angle of rotation about that direction applied before the tilt.
// Angles are in radians.
type OrientationVector struct {
	Theta float64
	OX    float64
	OY    float64
	OZ    float64
}

// Quaternion converts the orientation vector to a unit quaternion.
func (ov *OrientationVector) Quaternion() quat.Number {
	return orientationVectorToQuaternion(ov.OX, ov.OY, ov.OZ, ov.Theta)
}

// OrientationVectorRadians returns the receiver unchanged (it is already in radians).
func (ov *OrientationVector) OrientationVectorRadians() *OrientationVector {
	return &OrientationVector{Theta: ov.Theta, OX: ov.OX, OY: ov.OY, OZ: ov.OZ}
}

// AxisAngles converts the orientation vector to an axis-angle representation.
func (ov *OrientationVector) AxisAngles() *R4AA {
	return quaternionToR4AA(ov.Quaternion())
}

// OrientationVectorDegrees is OrientationVector with Theta in degrees.
type OrientationVectorDegrees struct {
	Theta float64
	OX    float64
	OY    float64
	OZ    float64
}

// Quaternion converts the degrees-valued orientation vector to a unit quaternion.
func (ov *OrientationVectorDegrees) Quaternion() quat.Number {
	return orientationVectorToQuaternion(ov.OX, ov.OY, ov.OZ, radians(ov.Theta))
}

// OrientationVectorRadians converts Theta to radians.
func (ov *OrientationVectorDegrees) OrientationVectorRadians() *OrientationVector {
	return &OrientationVector{Theta: radians(ov.Theta), OX: ov.OX, OY: ov.OY, OZ: ov.OZ}
}

// AxisAngles converts the orientation vector to an axis-angle representation.
func (ov *OrientationVectorDegrees) AxisAngles() *R4AA {
	return quaternionToR4AA(ov.Quaternion())
}

// R4AA is an axis-angle orientation: a rotation of Theta radians about the unit
// axis (RX, RY, RZ).
type R4AA struct {
	Theta float64
	RX    float64
	RY    float64
	RZ    float64
}

// NewR4AA returns the identity axis-angle orientation.
func NewR4AA() *R4AA {
	return &R4AA{Theta: 0, RX: 1, RY: 0, RZ: 0}
}

// Quaternion converts the axis-angle orientation to a unit quaternion.
func (r *R4AA) Quaternion() quat.Number {
	return axisAngleToQuaternion(r3.Vector{X: r.RX, Y: r.RY, Z: r.RZ}, r.Theta)
}

// OrientationVectorRadians converts the axis-angle orientation to an OrientationVector.
func (r *R4AA) OrientationVectorRadians() *OrientationVector {
	return quaternionToOrientationVector(r.Quaternion())
}

// AxisAngles returns the receiver unchanged.
func (r *R4AA) AxisAngles() *R4AA {
	return &R4AA{Theta: r.Theta, RX: r.RX, RY: r.RY, RZ: r.RZ}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
