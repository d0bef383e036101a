package kinematics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// singularityGuardWidth is the half-width, in radians, of the blocked band
// placed around every detected pivot singularity (a psi at which a pivot
// joint's atan2 numerator and denominator both vanish, so the joint angle is
// undefined and arbitrarily sensitive to target-pose noise nearby).
const singularityGuardWidth = 10 * ZeroRoundingTol

// breakEpsilon is the angular tolerance used to deduplicate arm-angle
// breakpoints produced by different joints' limit crossings.
const breakEpsilon = 1e-9

// solveAffineZero finds the psi in (-pi, pi] solving a*sin(psi)+b*cos(psi)+c=0.
// Returns no more than two distinct roots, since a sinusoid of period 2*pi
// crosses any constant at most twice per period.
func solveAffineZero(a, b, c float64) []float64 {
	r := math.Hypot(a, b)
	if r < 1e-12 {
		return nil
	}
	ratio := clampUnit(-c / r)
	phi := math.Atan2(b, a)
	base := math.Asin(ratio)
	psi1 := normalizeAngle(base - phi)
	psi2 := normalizeAngle(math.Pi-base-phi)
	return dedupeAngles([]float64{psi1, psi2})
}

func dedupeAngles(angles []float64) []float64 {
	out := angles[:0:0]
	for _, a := range angles {
		dup := false
		for _, b := range out {
			if angleClose(a, b, breakEpsilon) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, a)
		}
	}
	return out
}

func angleClose(a, b, eps float64) bool {
	d := math.Abs(normalizeAngle(a - b))
	return d < eps || d > 2*math.Pi-eps
}

// armAngleForJointLimit returns the arm angles psi at which the given joint's
// closed-form angle equals limit. For the elbow (whose angle never depends on
// psi) it always returns nil; callers must check the elbow angle separately.
func armAngleForJointLimit(jc JointCoefficients, limit float64) []float64 {
	if jc.IsElbow {
		return nil
	}
	if jc.Type == Pivot {
		target := normalizeAngle(limit - jc.PhaseShift)
		return solvePivotEquals(jc.Pivot, target)
	}
	sign := jc.HingeSign
	if sign == 0 {
		sign = 1
	}
	target := limit / sign
	if target < -1e-9 || target > math.Pi+1e-9 {
		return nil
	}
	target = clampRange(target, 0, math.Pi)
	val := math.Cos(target)
	return solveAffineZero(jc.Hinge.A, jc.Hinge.B, jc.Hinge.F-val)
}

// solvePivotEquals finds psi such that atan2(p.Numerator(psi), p.Denominator(psi)) == target.
func solvePivotEquals(p PivotCoefficients, target float64) []float64 {
	sinL, cosL := math.Sin(target), math.Cos(target)
	a := p.ANum*cosL - p.ADen*sinL
	b := p.BNum*cosL - p.BDen*sinL
	c := p.CNum*cosL - p.CDen*sinL
	roots := solveAffineZero(a, b, c)
	var out []float64
	for _, psi := range roots {
		proj := p.Numerator(psi)*sinL + p.Denominator(psi)*cosL
		if proj > 0 {
			out = append(out, psi)
		}
	}
	return out
}

// pivotSingularityPoints returns the psi at which p's numerator and
// denominator vanish simultaneously, making the joint angle undefined.
func pivotSingularityPoints(p PivotCoefficients) []float64 {
	candidates := solveAffineZero(p.ANum, p.BNum, p.CNum)
	var out []float64
	for _, psi := range candidates {
		if math.Abs(p.Denominator(psi)) < singularityEpsilon {
			out = append(out, psi)
		}
	}
	return out
}

// ArmAngleIntervals computes the set of feasible arm angles for a target pose
// under one global configuration: the sub-ranges of (-pi, pi] at which every
// joint's closed-form angle is within its position limit and no joint sits in
// a pivot-singularity guard band.
//
// It works by collecting every psi at which some joint's angle crosses a
// limit, or a pivot joint enters a singularity guard band, sorting those
// breakpoints, and classifying each arc between consecutive breakpoints by
// evaluating all seven joint angles at its midpoint. Because the breakpoints
// already partition the circle into arcs no joint's feasibility changes
// within, adjacent feasible arcs are merged without needing to check for one
// interval swallowing another: the arcs are disjoint and sorted by
// construction, unlike a general interval-merge over possibly-overlapping
// ranges.
func ArmAngleIntervals(coeffs *Coefficients, limits Limits) ([]Interval, RLLKinMsg) {
	if coeffs.PivotSingular {
		return nil, TargetTooCloseToSingularity
	}

	theta4 := coeffs.Joints[elbowJoint].FixedAngle
	if theta4 < limits.PositionMin[elbowJoint] || theta4 > limits.PositionMax[elbowJoint] {
		return nil, JointLimitViolated
	}

	var breakpoints []float64
	var guards []Interval
	for j := 0; j < NumJoints; j++ {
		if j == elbowJoint {
			continue
		}
		jc := coeffs.Joints[j]
		breakpoints = append(breakpoints, armAngleForJointLimit(jc, limits.PositionMin[j])...)
		breakpoints = append(breakpoints, armAngleForJointLimit(jc, limits.PositionMax[j])...)
		if jc.Type == Pivot {
			for _, psi := range pivotSingularityPoints(jc.Pivot) {
				lo, hi := normalizeAngle(psi-singularityGuardWidth), normalizeAngle(psi+singularityGuardWidth)
				breakpoints = append(breakpoints, lo, hi)
				guards = append(guards, Interval{Lo: lo, Hi: hi, Wraps: hi < lo})
			}
		}
	}

	if len(breakpoints) == 0 {
		if allJointsWithinLimits(coeffs, limits, 0) {
			return []Interval{{Lo: -math.Pi, Hi: math.Pi}}, Success
		}
		return nil, JointLimitViolated
	}

	breakpoints = dedupeAngles(breakpoints)
	floats.Sort(breakpoints)

	type cell struct {
		lo, hi   float64
		feasible bool
	}
	cells := make([]cell, len(breakpoints))
	for i, lo := range breakpoints {
		hi := breakpoints[(i+1)%len(breakpoints)]
		mid := midpointOfArc(lo, hi)
		feasible := allJointsWithinLimits(coeffs, limits, mid) && !inAnyGuard(mid, guards)
		cells[i] = cell{lo: lo, hi: hi, feasible: feasible}
	}

	// Start the sweep just after an infeasible cell so that a feasible run
	// crossing the last-to-first cell seam is reported once, as one interval.
	n := len(cells)
	startCell := -1
	for k := 0; k < n; k++ {
		if !cells[k].feasible {
			startCell = (k + 1) % n
			break
		}
	}
	if startCell < 0 {
		// Every cell is feasible: the whole circle is one interval.
		return []Interval{{Lo: -math.Pi, Hi: math.Pi}}, Success
	}

	var feasible []Interval
	i := startCell
	visited := 0
	for visited < n {
		if !cells[i].feasible {
			i = (i + 1) % n
			visited++
			continue
		}
		start := cells[i].lo
		end := cells[i].hi
		count := 1
		for count < n && cells[(i+count)%n].feasible {
			end = cells[(i+count)%n].hi
			count++
		}
		feasible = append(feasible, Interval{Lo: start, Hi: end, Wraps: end < start})
		i = (i + count) % n
		visited += count
	}

	if len(feasible) == 0 {
		return nil, JointLimitViolated
	}
	return feasible, Success
}

func midpointOfArc(lo, hi float64) float64 {
	if hi >= lo {
		return (lo + hi) / 2
	}
	width := (math.Pi - lo) + (hi + math.Pi)
	return normalizeAngle(lo + width/2)
}

func inAnyGuard(psi float64, guards []Interval) bool {
	for _, g := range guards {
		if g.Contains(psi) {
			return true
		}
	}
	return false
}

func allJointsWithinLimits(coeffs *Coefficients, limits Limits, psi float64) bool {
	for j := 0; j < NumJoints; j++ {
		if j == elbowJoint {
			continue
		}
		angle := coeffs.Joints[j].AngleAtPsi(psi)
		if angle < limits.PositionMin[j]-1e-9 || angle > limits.PositionMax[j]+1e-9 {
			return false
		}
	}
	return true
}

// ClosestArmAngle returns seed unchanged and SUCCESS if some interval
// contains it. Otherwise it returns the mid-point of the circularly-nearest
// feasible interval with ARMANGLE_NOT_IN_SAME_INTERVAL, or, if no feasible
// interval exists at all, psi=0 with NO_SOLUTION_FOR_ARMANGLE.
func ClosestArmAngle(intervals []Interval, seed float64) (psi float64, interval Interval, status RLLKinMsg) {
	if len(intervals) == 0 {
		return 0, Interval{}, NoSolutionForArmAngle
	}
	seed = normalizeAngle(seed)
	for _, iv := range intervals {
		if iv.Contains(seed) {
			return seed, iv, Success
		}
	}
	best := math.Inf(1)
	var bestMid float64
	var bestInterval Interval
	for _, iv := range intervals {
		mid := midpointOfArc(iv.Lo, iv.Hi)
		d := math.Abs(angularDistance(seed, mid))
		switch {
		case d < best-ZeroRoundingTol:
			best, bestMid, bestInterval = d, mid, iv
		case math.Abs(d-best) <= ZeroRoundingTol && isAboveSeed(seed, mid) && !isAboveSeed(seed, bestMid):
			bestMid, bestInterval = mid, iv
		}
	}
	return bestMid, bestInterval, ArmAngleNotInSameInterval
}

// angularDistance returns the signed shortest-arc distance from b to a.
func angularDistance(a, b float64) float64 {
	return normalizeAngle(a - b)
}

// isAboveSeed reports whether mid lies ahead of seed going counterclockwise,
// used to break a distance tie in favor of the interval above per the
// closest-arm-angle tie-break rule.
func isAboveSeed(seed, mid float64) bool {
	return normalizeAngle(mid-seed) >= 0
}
