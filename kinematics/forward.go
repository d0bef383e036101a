package kinematics

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/rllkin/spatialmath"
)

// chainState is the accumulated position and orientation at each named frame
// along the kinematic chain, used by both ForwardKinematics and the reference
// solve that seeds the arm-angle coefficient builder.
type chainState struct {
	shoulder r3.Vector
	elbow    r3.Vector
	wrist    r3.Vector
	flange   r3.Vector
	rShoulder mat3 // orientation of frame 3 (after joints 1-3)
	rElbow    mat3 // orientation of frame 4 (after joint 4)
	rWrist    mat3 // orientation of frame 7 (after joints 5-7)
}

// ForwardKinematics computes the flange pose for a full set of seven joint
// angles. It is exact for any q, independent of the arm-angle parameterization
// used by the inverse solver.
func ForwardKinematics(geom Geometry, q JointAngles) spatialmath.Pose {
	cs := computeChain(geom, q)
	return spatialmath.NewPose(cs.flange, spatialmath.Quaternion(mat3ToQuaternion(cs.rWrist)))
}

// Forward computes the flange pose, arm angle psi, and global configuration
// for a full set of seven joint angles, inverting the three pieces of
// information BuildCoefficients consumes: psi and GlobalConfiguration are not
// independent inputs chosen by a caller here, they are derived from q itself,
// so Forward(geom, q) followed by InverseArmAngle(geom, limits, pose, gc, psi)
// round-trips back to q (up to the arm's own representational ambiguities).
//
// GlobalConfiguration falls out of the sign of three joint angles directly:
// the shoulder and wrist hinge joints' closed forms are ±acos(...), and the
// elbow's is ±acos(...), so their sign alone recovers the branch bit
// BuildCoefficients would have chosen. psi is recovered by measuring the
// angle, about the shoulder-wrist axis, between the psi=0 reference elbow
// position and the actual one.
func Forward(geom Geometry, q JointAngles) (pose spatialmath.Pose, psi float64, gc GlobalConfiguration) {
	cs := computeChain(geom, q)
	pose = spatialmath.NewPose(cs.flange, spatialmath.Quaternion(mat3ToQuaternion(cs.rWrist)))
	gc = gcFromAngles(q)
	psi, _ = armAngleFromElbow(geom, cs.shoulder, cs.wrist, cs.elbow, gc.ElbowSign())
	return pose, psi, gc
}

// gcFromAngles recovers the GlobalConfiguration branch bits from a joint
// vector. Each bit is the sign of the corresponding branch-selecting joint
// angle: BuildCoefficients produces q[1], q[elbowJoint], and q[5] as a signed
// acos, whose sign is exactly the HingeSign/ElbowSign it applied, so reading
// the sign back off q needs no geometry at all.
func gcFromAngles(q JointAngles) GlobalConfiguration {
	var gc GlobalConfiguration
	if q[1] < 0 {
		gc |= shoulderBit
	}
	if q[elbowJoint] < 0 {
		gc |= elbowBit
	}
	if q[5] < 0 {
		gc |= wristBit
	}
	return gc
}

// armAngleFromElbow recovers psi from the actual elbow position by measuring
// its rotation, about the shoulder-wrist axis, away from the psi=0 reference
// elbow position referencePlane computes for the same triangle. It reports
// pivotSingular when the shoulder-wrist axis is degenerate or either
// perpendicular component vanishes (the arm is fully extended or folded along
// the reference axis, so rotation about it is not observable).
func armAngleFromElbow(geom Geometry, shoulder, wrist, elbow r3.Vector, elbowSign float64) (psi float64, pivotSingular bool) {
	xsw := wrist.Sub(shoulder)
	lsw := xsw.Norm()
	if lsw < singularityEpsilon {
		return 0, true
	}
	uSW := xsw.Mul(1 / lsw)

	_, _, elbowRef, pivotSingular := referencePlane(shoulder, uSW, lsw, geom.ShoulderToElbow, geom.ElbowToWrist, elbowSign)

	refVec := elbowRef.Sub(shoulder)
	refPerp := refVec.Sub(uSW.Mul(refVec.Dot(uSW)))

	actualVec := elbow.Sub(shoulder)
	actualPerp := actualVec.Sub(uSW.Mul(actualVec.Dot(uSW)))

	if refPerp.Norm() < singularityEpsilon || actualPerp.Norm() < singularityEpsilon {
		return 0, true
	}

	cross := refPerp.Cross(actualPerp)
	psi = math.Atan2(cross.Dot(uSW), refPerp.Dot(actualPerp))
	return psi, pivotSingular
}

// ElbowPosition returns the position of the elbow joint for a full set of seven
// joint angles, primarily useful for visualization and testing.
func ElbowPosition(geom Geometry, q JointAngles) r3.Vector {
	return computeChain(geom, q).elbow
}

func computeChain(geom Geometry, q JointAngles) chainState {
	var cs chainState
	cs.shoulder = r3.Vector{Z: geom.BaseToShoulder}

	rShoulder := rotZ(q[0]).mul(rotY(q[1])).mul(rotZ(q[2]))
	cs.rShoulder = rShoulder
	cs.elbow = cs.shoulder.Add(rShoulder.apply(r3.Vector{Z: geom.ShoulderToElbow}))

	rElbow := rShoulder.mul(rotY(q[elbowJoint]))
	cs.rElbow = rElbow
	cs.wrist = cs.elbow.Add(rElbow.apply(r3.Vector{Z: geom.ElbowToWrist}))

	rWrist := rElbow.mul(rotZ(q[4])).mul(rotY(q[5])).mul(rotZ(q[6]))
	cs.rWrist = rWrist
	cs.flange = cs.wrist.Add(rWrist.apply(r3.Vector{Z: geom.WristToFlange}))

	return cs
}
