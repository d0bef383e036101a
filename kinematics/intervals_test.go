package kinematics

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func wideLimits() Limits {
	var l Limits
	for j := 0; j < NumJoints; j++ {
		l.PositionMin[j] = -2.9
		l.PositionMax[j] = 2.9
		l.VelocityMax[j] = 2.0
		l.AccelMax[j] = 5.0
	}
	return l
}

func TestArmAngleIntervalsCoverWholeCircleWhenUnconstrained(t *testing.T) {
	geom := testGeometry()
	q := JointAngles{0, 0.9, 0, 1.0, 0, 0.6, 0}
	target := ForwardKinematics(geom, q)
	coeffs, status := BuildCoefficients(geom, target, 0)
	test.That(t, status, test.ShouldEqual, Success)

	var l Limits
	for j := 0; j < NumJoints; j++ {
		l.PositionMin[j] = -math.Pi
		l.PositionMax[j] = math.Pi
	}
	intervals, status := ArmAngleIntervals(coeffs, l)
	test.That(t, status, test.ShouldEqual, Success)
	test.That(t, len(intervals) >= 1, test.ShouldBeTrue)
	test.That(t, intervals[0].Hi-intervals[0].Lo, test.ShouldAlmostEqual, 2*math.Pi, 1e-9)
}

func TestArmAngleIntervalsExcludeBlockedPsi(t *testing.T) {
	geom := testGeometry()
	q := JointAngles{0, 0.9, 0, 1.0, 0, 0.6, 0}
	target := ForwardKinematics(geom, q)
	coeffs, status := BuildCoefficients(geom, target, 0)
	test.That(t, status, test.ShouldEqual, Success)

	limits := wideLimits()
	limits.PositionMax[0] = 0.05 // force joint 0's pivot angle to bind somewhere

	intervals, status := ArmAngleIntervals(coeffs, limits)
	if status != Success {
		// a sufficiently tight limit can legitimately exclude every psi.
		test.That(t, status, test.ShouldEqual, JointLimitViolated)
		return
	}
	for _, iv := range intervals {
		mid := midpointOfArc(iv.Lo, iv.Hi)
		test.That(t, allJointsWithinLimits(coeffs, limits, mid), test.ShouldBeTrue)
	}
}

func TestClosestArmAngleReturnsSeedWhenFeasible(t *testing.T) {
	intervals := []Interval{{Lo: -1, Hi: 1}}
	psi, iv, status := ClosestArmAngle(intervals, 0.5)
	test.That(t, status, test.ShouldEqual, Success)
	test.That(t, psi, test.ShouldEqual, 0.5)
	test.That(t, iv, test.ShouldResemble, intervals[0])
}

func TestClosestArmAngleFallsBackToIntervalMidpoint(t *testing.T) {
	intervals := []Interval{{Lo: 1, Hi: 2}}
	psi, _, status := ClosestArmAngle(intervals, 0)
	test.That(t, status, test.ShouldEqual, ArmAngleNotInSameInterval)
	test.That(t, psi, test.ShouldAlmostEqual, 1.5, 1e-9)
}

func TestClosestArmAngleEmptyIsNoSolution(t *testing.T) {
	psi, _, status := ClosestArmAngle(nil, 0)
	test.That(t, status, test.ShouldEqual, NoSolutionForArmAngle)
	test.That(t, psi, test.ShouldEqual, 0.0)
}

func TestIntervalWraps(t *testing.T) {
	iv := Interval{Lo: 3.0, Hi: -3.0, Wraps: true}
	test.That(t, iv.Wraps, test.ShouldBeTrue)
	test.That(t, iv.Contains(math.Pi), test.ShouldBeTrue)
	test.That(t, iv.Contains(0), test.ShouldBeFalse)
}

func TestSolveAffineZeroFindsKnownRoot(t *testing.T) {
	// sin(psi) - 0.5 = 0 has roots at pi/6 and 5pi/6.
	roots := solveAffineZero(1, 0, -0.5)
	test.That(t, len(roots), test.ShouldEqual, 2)
	for _, r := range roots {
		test.That(t, math.Abs(math.Sin(r)-0.5) < 1e-9, test.ShouldBeTrue)
	}
}
