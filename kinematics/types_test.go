package kinematics

import (
	"testing"

	"go.viam.com/test"
)

func TestGlobalConfigurationSigns(t *testing.T) {
	test.That(t, GlobalConfiguration(0).ShoulderSign(), test.ShouldEqual, 1.0)
	test.That(t, GlobalConfiguration(0).ElbowSign(), test.ShouldEqual, 1.0)
	test.That(t, GlobalConfiguration(0).WristSign(), test.ShouldEqual, 1.0)
	test.That(t, GlobalConfiguration(shoulderBit).ShoulderSign(), test.ShouldEqual, -1.0)
	test.That(t, GlobalConfiguration(elbowBit).ElbowSign(), test.ShouldEqual, -1.0)
	test.That(t, GlobalConfiguration(wristBit).WristSign(), test.ShouldEqual, -1.0)
}

func TestAllConfigurationsHasEight(t *testing.T) {
	test.That(t, len(AllConfigurations()), test.ShouldEqual, 8)
}

func TestIntervalWidthNonWrapping(t *testing.T) {
	iv := Interval{Lo: -1, Hi: 1}
	test.That(t, iv.Width(), test.ShouldEqual, 2.0)
}

func TestRLLKinMsgSeverity(t *testing.T) {
	test.That(t, Success.Severity(), test.ShouldEqual, SeverityOK)
	test.That(t, ArmAngleNotInSameInterval.Severity(), test.ShouldEqual, SeverityWarning)
	test.That(t, JointLimitViolated.Severity(), test.ShouldEqual, SeverityError)
	test.That(t, Success.OK(), test.ShouldBeTrue)
	test.That(t, GeneralError.OK(), test.ShouldBeFalse)
}

func TestRLLKinMsgString(t *testing.T) {
	test.That(t, JointLimitViolated.String(), test.ShouldEqual, "JOINT_LIMIT_VIOLATED")
	test.That(t, TargetTooCloseToSingularity.String(), test.ShouldEqual, "TARGET_TOO_CLOSE_TO_SINGULARITY")
}

func TestDefaultOptionsEnumeratesAllAndSnapsClosest(t *testing.T) {
	opts := DefaultOptions()
	test.That(t, opts.GlobalConfigurationMode, test.ShouldEqual, ReturnAll)
	test.That(t, opts.PositionIKMode, test.ShouldEqual, ClosestFeasiblePsi)
	test.That(t, opts.JointDistanceWeights, test.ShouldResemble, EqualWeights())
}

func TestGlobalConfigurationModeString(t *testing.T) {
	test.That(t, ReturnAll.String(), test.ShouldEqual, "RETURN_ALL")
	test.That(t, KeepCurrent.String(), test.ShouldEqual, "KEEP_CURRENT")
	test.That(t, SelectBySeed.String(), test.ShouldEqual, "SELECT_BY_SEED")
	test.That(t, UserSpecified.String(), test.ShouldEqual, "USER_SPECIFIED")
}

func TestPositionIKModeString(t *testing.T) {
	test.That(t, ExactPsi.String(), test.ShouldEqual, "EXACT_PSI")
	test.That(t, ClosestFeasiblePsi.String(), test.ShouldEqual, "CLOSEST_FEASIBLE_PSI")
	test.That(t, ResolvePsi.String(), test.ShouldEqual, "RESOLVE_PSI")
}

func TestJointTypeClassification(t *testing.T) {
	test.That(t, jointType(0), test.ShouldEqual, Pivot)
	test.That(t, jointType(1), test.ShouldEqual, Hinge)
	test.That(t, jointType(elbowJoint), test.ShouldEqual, Hinge)
	test.That(t, jointType(6), test.ShouldEqual, Pivot)
}
