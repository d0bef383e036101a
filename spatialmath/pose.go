package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// defaultEpsilon is the tolerance used by PoseAlmostEqual and PoseAlmostCoincident.
const defaultEpsilon = 1e-6

// Pose is a rigid transform: a position and an orientation, expressed relative to
// some parent frame. Poses compose via Compose and can be chained to express a
// robot's forward kinematics.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

type pose struct {
	point       r3.Vector
	orientation Orientation
}

func (p *pose) Point() r3.Vector        { return p.point }
func (p *pose) Orientation() Orientation { return p.orientation }

// NewPose returns a Pose with the given position and orientation.
func NewPose(point r3.Vector, orientation Orientation) Pose {
	if orientation == nil {
		orientation = Quaternion{Real: 1}
	}
	return &pose{point: point, orientation: orientation}
}

// NewPoseFromPoint returns a Pose at the given position with identity orientation.
func NewPoseFromPoint(point r3.Vector) Pose {
	return &pose{point: point, orientation: Quaternion{Real: 1}}
}

// NewPoseFromOrientation returns a Pose at the origin with the given orientation.
func NewPoseFromOrientation(orientation Orientation) Pose {
	return NewPose(r3.Vector{}, orientation)
}

// NewZeroPose returns a Pose at the origin with identity orientation.
func NewZeroPose() Pose {
	return &pose{point: r3.Vector{}, orientation: Quaternion{Real: 1}}
}

// Compose returns the pose obtained by expressing b in a's parent frame: first
// apply a, then apply b within the frame a establishes. If a and b are both
// transforms along a kinematic chain, Compose(a, b) is the pose of b's frame as
// seen from a's parent.
func Compose(a, b Pose) Pose {
	aq := a.Orientation().Quaternion()
	bq := b.Orientation().Quaternion()
	rotated := rotateVectorByQuaternion(aq, b.Point())
	return &pose{
		point:       a.Point().Add(rotated),
		orientation: Quaternion(quat.Mul(aq, bq)),
	}
}

// Invert returns the pose that undoes p: Compose(p, Invert(p)) is the zero pose.
func Invert(p Pose) Pose {
	q := p.Orientation().Quaternion()
	qInv := quat.Conj(normalizeQuaternion(q))
	point := rotateVectorByQuaternion(qInv, p.Point()).Mul(-1)
	return &pose{point: point, orientation: Quaternion(qInv)}
}

// PoseDelta returns the pose that, composed onto a, yields b: Compose(a, PoseDelta(a, b))
// is (up to numerical precision) equal to b.
func PoseDelta(a, b Pose) Pose {
	return Compose(Invert(a), b)
}

// PoseAlmostEqual reports whether a and b are within defaultEpsilon of each other
// in both position and orientation.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, defaultEpsilon)
}

// PoseAlmostEqualEps reports whether a and b are within eps of each other in both
// position and orientation. Orientation closeness is measured via the angle of the
// relative rotation between the two quaternions.
func PoseAlmostEqualEps(a, b Pose, eps float64) bool {
	if a.Point().Sub(b.Point()).Norm() > eps {
		return false
	}
	qa := normalizeQuaternion(a.Orientation().Quaternion())
	qb := normalizeQuaternion(b.Orientation().Quaternion())
	rel := quat.Mul(quat.Conj(qa), qb)
	_, theta := quaternionToAxisAngle(rel)
	return theta < eps
}

// PoseAlmostCoincident reports whether a and b occupy (almost) the same point in
// space, ignoring orientation entirely. This is the right comparison for, e.g.,
// checking that an end effector reached a target position regardless of how the
// wrist is twisted.
func PoseAlmostCoincident(a, b Pose) bool {
	return a.Point().Sub(b.Point()).Norm() < defaultEpsilon
}
