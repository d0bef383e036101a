package kinematics

import (
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/rllkin/spatialmath"
)

// TestSelfMotionManifoldPreservesPose is the central correctness property of
// the arm-angle parameterization: for a fixed target pose and global
// configuration, sweeping psi across its whole range and re-deriving the
// seven joint angles from the closed form must always reproduce the same
// flange pose, since psi parameterizes exactly the redundant null space of a
// fixed end-effector pose.
func TestSelfMotionManifoldPreservesPose(t *testing.T) {
	geom := testGeometry()
	seedAngles := JointAngles{0.3, 1.1, 0.2, 1.3, -0.4, 1.0, 0.5}
	target := ForwardKinematics(geom, seedAngles)

	for gc := GlobalConfiguration(0); gc < 8; gc++ {
		coeffs, status := BuildCoefficients(geom, target, gc)
		if !status.OK() {
			continue
		}
		for _, psi := range []float64{-3.0, -1.5, -0.5, 0, 0.5, 1.5, 3.0} {
			q := anglesAtPsi(coeffs, psi)
			got := ForwardKinematics(geom, q)
			test.That(t, got.Point().Sub(target.Point()).Norm() < 1e-6, test.ShouldBeTrue)
		}
	}
}

func TestBuildCoefficientsRejectsUnreachableTarget(t *testing.T) {
	geom := testGeometry()
	far := ForwardKinematics(geom, JointAngles{})
	unreachable := spatialmath.NewPoseFromPoint(far.Point().Mul(100))
	_, status := BuildCoefficients(geom, unreachable, 0)
	test.That(t, status, test.ShouldEqual, JointLimitViolated)
}

func TestBuildCoefficientsElbowAngleMatchesLawOfCosines(t *testing.T) {
	geom := testGeometry()
	q := JointAngles{0, 0.9, 0, 1.4, 0, 0.5, 0}
	target := ForwardKinematics(geom, q)
	coeffs, status := BuildCoefficients(geom, target, 0)
	test.That(t, status, test.ShouldEqual, Success)
	test.That(t, coeffs.Joints[elbowJoint].FixedAngle, test.ShouldAlmostEqual, 1.4, 1e-6)
}

func TestBuildCoefficientsElbowSignFlip(t *testing.T) {
	geom := testGeometry()
	q := JointAngles{0, 0.9, 0, 1.4, 0, 0.5, 0}
	target := ForwardKinematics(geom, q)
	coeffs, status := BuildCoefficients(geom, target, GlobalConfiguration(elbowBit))
	test.That(t, status, test.ShouldEqual, Success)
	test.That(t, coeffs.Joints[elbowJoint].FixedAngle, test.ShouldAlmostEqual, -1.4, 1e-6)
}

func TestPivotCoefficientsAngleIsPeriodic(t *testing.T) {
	p := PivotCoefficients{ANum: 0.5, BNum: 0.2, CNum: 0.1, ADen: 0.1, BDen: 0.7, CDen: 0.3}
	a := p.Angle(0.4)
	b := p.Angle(0.4 + 2*math.Pi)
	test.That(t, a, test.ShouldAlmostEqual, b, 1e-9)
}

func TestHingeCoefficientsClampsArgument(t *testing.T) {
	h := HingeCoefficients{A: 10, B: 10, F: 10}
	angle := h.Angle(0.1)
	test.That(t, angle >= 0 && angle <= math.Pi, test.ShouldBeTrue)
}

func TestPivotCoefficientsDerivativeMatchesFiniteDifference(t *testing.T) {
	p := PivotCoefficients{ANum: 0.5, BNum: -0.3, CNum: 0.2, ADen: 0.2, BDen: 0.6, CDen: 0.4}
	const h = 1e-6
	for _, psi := range []float64{-1.2, -0.3, 0.4, 1.7} {
		fd := (p.Angle(psi+h) - p.Angle(psi-h)) / (2 * h)
		test.That(t, math.Abs(p.Derivative(psi)-fd) < 1e-5, test.ShouldBeTrue)
	}
}

func TestHingeCoefficientsDerivativeMatchesFiniteDifference(t *testing.T) {
	h2 := HingeCoefficients{A: 0.4, B: 0.3, F: 0.1}
	const h = 1e-6
	for _, psi := range []float64{-1.0, -0.2, 0.3, 1.1} {
		fd := (h2.Angle(psi+h) - h2.Angle(psi-h)) / (2 * h)
		test.That(t, math.Abs(h2.Derivative(psi)-fd) < 1e-4, test.ShouldBeTrue)
	}
}

func TestJointDerivativeMatchesFiniteDifferenceOnRealCoefficients(t *testing.T) {
	geom := testGeometry()
	q := JointAngles{0.2, 0.9, -0.3, 1.2, 0.1, 0.6, -0.4}
	target := ForwardKinematics(geom, q)
	coeffs, status := BuildCoefficients(geom, target, 0)
	test.That(t, status, test.ShouldEqual, Success)

	const h = 1e-6
	for j := 0; j < NumJoints; j++ {
		if j == elbowJoint {
			test.That(t, coeffs.JointDerivative(j, 0.3, 0), test.ShouldEqual, 0.0)
			continue
		}
		for _, psi := range []float64{-1.5, -0.4, 0.6, 1.8} {
			fd := (coeffs.Joints[j].AngleAtPsi(psi+h) - coeffs.Joints[j].AngleAtPsi(psi-h)) / (2 * h)
			got := coeffs.JointDerivative(j, psi, 0)
			test.That(t, math.Abs(got-fd) < 1e-4, test.ShouldBeTrue)
		}
	}
}
