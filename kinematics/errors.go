package kinematics

import "fmt"

// Severity classifies an RLLKinMsg as a normal outcome, a usable but
// noteworthy result, or a failed solve.
type Severity int

const (
	// SeverityOK marks a successful outcome.
	SeverityOK Severity = iota
	// SeverityWarning marks a result that is usable but noteworthy.
	SeverityWarning
	// SeverityError marks a failed solve attributable to the target or the
	// current arm-angle seed, not to a programming mistake.
	SeverityError
)

// RLLKinMsg is the status returned by every kinematics operation. Unlike a Go
// error, it is not reserved for exceptional conditions: "no solution exists for
// this arm angle" is an expected, common outcome of a redundant-manipulator
// solve and callers are expected to branch on it, not just propagate it.
// The kinematics functions return no Go error; every outcome, including a
// target out of reach, is reported as an RLLKinMsg.
type RLLKinMsg int

const (
	// Success indicates the operation completed and produced a valid result.
	Success RLLKinMsg = iota
	// TargetTooCloseToSingularity indicates the target pose places the arm
	// within singularityEpsilon of a singularity (shoulder and wrist coinciding,
	// or the shoulder-wrist axis aligned with Z), where psi is not well defined.
	TargetTooCloseToSingularity
	// JointLimitViolated indicates every candidate solution would violate a
	// joint's position limit, or the target lies outside the arm's reach.
	JointLimitViolated
	// NoSolutionForArmAngle indicates the requested arm angle lies within a
	// blocked interval: at least one joint limit is violated at that psi.
	NoSolutionForArmAngle
	// ArmAngleNotInSameInterval indicates the seed arm angle and the solved
	// arm angle fall in different feasible intervals, so the solution may
	// require a large, discontinuous joint motion to reach.
	ArmAngleNotInSameInterval
	// GeneralError indicates a solve failed for a reason not covered above
	// (e.g. the arm-angle step fraction falls below its floor, or no global
	// configuration yields a usable solution).
	GeneralError
)

// String returns a human-readable name for the message.
func (m RLLKinMsg) String() string {
	switch m {
	case Success:
		return "SUCCESS"
	case TargetTooCloseToSingularity:
		return "TARGET_TOO_CLOSE_TO_SINGULARITY"
	case JointLimitViolated:
		return "JOINT_LIMIT_VIOLATED"
	case NoSolutionForArmAngle:
		return "NO_SOLUTION_FOR_ARMANGLE"
	case ArmAngleNotInSameInterval:
		return "ARMANGLE_NOT_IN_SAME_INTERVAL"
	case GeneralError:
		return "GENERAL_ERROR"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(m))
	}
}

// Severity classifies the message.
func (m RLLKinMsg) Severity() Severity {
	switch m {
	case Success:
		return SeverityOK
	case ArmAngleNotInSameInterval:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// OK reports whether the message represents success.
func (m RLLKinMsg) OK() bool { return m == Success }
