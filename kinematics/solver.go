package kinematics

import (
	"runtime"
	"sort"
	"sync"

	"go.viam.com/utils"

	"go.viam.com/rllkin/logging"
	"go.viam.com/rllkin/spatialmath"
)

// Solution is the joint configuration and arm angle found for one global
// configuration of an IK solve, together with the status of that attempt.
type Solution struct {
	GC                 GlobalConfiguration
	Psi                float64
	Interval           Interval
	Angles             JointAngles
	Status             RLLKinMsg
	SameIntervalAsSeed bool
}

// Solutions is the ranked result of a Solve call. Best is nil iff every
// candidate global configuration ended with an error-severity status;
// Candidates holds every attempt, ranked best first, so a caller can
// fall through to an alternative on downstream failure (e.g. collision).
type Solutions struct {
	Best       *Solution
	Candidates []Solution
}

// IntervalsFor is a thin wrapper combining BuildCoefficients and
// ArmAngleIntervals for a target pose and global configuration.
func IntervalsFor(geom Geometry, limits Limits, target spatialmath.Pose, gc GlobalConfiguration) ([]Interval, RLLKinMsg) {
	coeffs, status := BuildCoefficients(geom, target, gc)
	if !status.OK() {
		return nil, status
	}
	return ArmAngleIntervals(coeffs, limits)
}

// InverseArmAngle computes the joint angles for a target pose at an
// explicitly chosen arm angle psi and global configuration. It does not
// search for a feasible psi; if the requested psi falls in a blocked
// interval it reports NoSolutionForArmAngle.
func InverseArmAngle(geom Geometry, limits Limits, target spatialmath.Pose, gc GlobalConfiguration, psi float64) (JointAngles, RLLKinMsg) {
	coeffs, status := BuildCoefficients(geom, target, gc)
	if !status.OK() {
		return JointAngles{}, status
	}
	intervals, status := ArmAngleIntervals(coeffs, limits)
	if !status.OK() {
		return JointAngles{}, status
	}
	psi = normalizeAngle(psi)
	inFeasible := false
	for _, iv := range intervals {
		if iv.Contains(psi) {
			inFeasible = true
			break
		}
	}
	if !inFeasible {
		return JointAngles{}, NoSolutionForArmAngle
	}
	return anglesAtPsi(coeffs, psi), Success
}

// SolveNearArmAngle computes the joint angles closest, in arm-angle space, to
// seedPsi for a target pose under one global configuration. If seedPsi's
// interval is infeasible, it returns the mid-point of the nearest feasible
// interval and reports ArmAngleNotInSameInterval rather than failing
// outright, since a redundant-manipulator controller can usually tolerate a
// discontinuous jump in the null-space coordinate when nothing else is
// feasible nearby.
func SolveNearArmAngle(geom Geometry, limits Limits, target spatialmath.Pose, gc GlobalConfiguration, seedPsi float64) (*Solution, RLLKinMsg) {
	coeffs, status := BuildCoefficients(geom, target, gc)
	if !status.OK() {
		return nil, status
	}
	intervals, status := ArmAngleIntervals(coeffs, limits)
	if !status.OK() {
		return nil, status
	}
	psi, interval, status := ClosestArmAngle(intervals, seedPsi)
	if status.Severity() == SeverityError {
		return nil, status
	}
	result := &Solution{
		GC:                 gc,
		Psi:                psi,
		Interval:           interval,
		Angles:             anglesAtPsi(coeffs, psi),
		Status:             status,
		SameIntervalAsSeed: status == Success,
	}
	return result, result.Status
}

// alphaFloor is the minimum time-optimal step fraction ScaleArmAngleStep may
// return before a ResolvePsi candidate is rejected outright: below this, the
// requested motion would barely progress toward the target arm angle within
// one control period, so the candidate is not worth reporting as usable.
const alphaFloor = 1e-3

// scaledLimits applies Options' velocity/acceleration scaling factors to a
// copy of limits, leaving position limits untouched.
func scaledLimits(limits Limits, opts Options) Limits {
	out := limits
	for j := 0; j < NumJoints; j++ {
		out.VelocityMax[j] *= opts.JointVelocityScalingFactor
		out.AccelMax[j] *= opts.JointAccelerationScalingFactor
	}
	return out
}

// candidateConfigurations returns the global configurations Solve should
// attempt, given its mode and the seed's own current configuration.
func candidateConfigurations(opts Options, seedGC GlobalConfiguration) []GlobalConfiguration {
	switch opts.GlobalConfigurationMode {
	case KeepCurrent:
		return []GlobalConfiguration{seedGC}
	case UserSpecified:
		return []GlobalConfiguration{opts.UserGC}
	default: // ReturnAll, SelectBySeed
		return AllConfigurations()
	}
}

// estimatePreviousVelocity derives a per-joint velocity estimate from the
// seed's current and previous joint vectors, used as ScaleArmAngleStep's
// starting velocity for its acceleration-limit check. It returns the zero
// vector when there is no previous sample or no time step to divide by.
func estimatePreviousVelocity(seed SeedState, dt float64) JointAngles {
	var vel JointAngles
	if seed.Previous == nil || dt <= 0 {
		return vel
	}
	for j := 0; j < NumJoints; j++ {
		vel[j] = (seed.Current[j] - seed.Previous[j]) / dt
	}
	return vel
}

// resolvePsi picks the arm angle for one candidate global configuration
// according to opts.PositionIKMode.
func resolvePsi(
	coeffs *Coefficients,
	limits Limits,
	intervals []Interval,
	opts Options,
	seed SeedState,
	seedPsi float64,
) (psi float64, interval Interval, status RLLKinMsg, alpha float64) {
	switch opts.PositionIKMode {
	case ExactPsi:
		target := normalizeAngle(opts.TargetArmAngle)
		for _, iv := range intervals {
			if iv.Contains(target) {
				return target, iv, Success, 1
			}
		}
		return 0, Interval{}, NoSolutionForArmAngle, 0

	case ClosestFeasiblePsi:
		p, iv, st := ClosestArmAngle(intervals, opts.TargetArmAngle)
		return p, iv, st, 1

	case ResolvePsi:
		p, iv, st := ClosestArmAngle(intervals, seedPsi)
		if st.Severity() == SeverityError {
			return 0, Interval{}, st, 0
		}
		dt := opts.DeltaT
		if dt <= 0 {
			dt = 1
		}
		prevVel := estimatePreviousVelocity(seed, dt)
		scaled := scaledLimits(limits, opts)
		newPsi, stepAlpha, _ := ScaleArmAngleStep(coeffs, scaled, seedPsi, p, prevVel, dt)
		if stepAlpha < alphaFloor {
			return 0, Interval{}, GeneralError, stepAlpha
		}
		return newPsi, iv, st, stepAlpha

	default:
		return 0, Interval{}, GeneralError, 0
	}
}

// rankCandidates orders candidates best-first: lower status severity first,
// then (when GlobalConfigurationMode is SelectBySeed) the seed's own global
// configuration first, then closer weighted joint distance from current,
// then, to break any remaining tie deterministically, lower global
// configuration index and lower arm angle.
func rankCandidates(candidates []Solution, current JointAngles, seedGC GlobalConfiguration, opts Options) {
	weights := opts.JointDistanceWeights
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Status.Severity() != b.Status.Severity() {
			return a.Status.Severity() < b.Status.Severity()
		}
		if opts.GlobalConfigurationMode == SelectBySeed {
			ai, bi := a.GC == seedGC, b.GC == seedGC
			if ai != bi {
				return ai
			}
		}
		if a.Status.Severity() < SeverityError {
			da := weightedDistance(weights, current, a.Angles)
			db := weightedDistance(weights, current, b.Angles)
			if da != db {
				return da < db
			}
		}
		if a.GC != b.GC {
			return a.GC < b.GC
		}
		return a.Psi < b.Psi
	})
}

// Solve is the entry point for a policy-driven IK solve: it tries every
// global configuration opts selects, resolves an arm angle for each per
// opts.PositionIKMode (wiring ScaleArmAngleStep's time-optimal step limiting
// in for ResolvePsi), ranks the results, and returns both the best candidate
// and the full ranked list so a caller can fall through past a best solution
// that later fails an out-of-band check such as collision.
func Solve(geom Geometry, limits Limits, target spatialmath.Pose, seed SeedState, opts Options) (*Solutions, RLLKinMsg) {
	_, seedPsi, seedGC := Forward(geom, seed.Current)

	gcs := candidateConfigurations(opts, seedGC)
	candidates := make([]Solution, 0, len(gcs))
	for _, gc := range gcs {
		coeffs, status := BuildCoefficients(geom, target, gc)
		if !status.OK() {
			candidates = append(candidates, Solution{GC: gc, Status: status})
			continue
		}
		intervals, status := ArmAngleIntervals(coeffs, limits)
		if !status.OK() {
			candidates = append(candidates, Solution{GC: gc, Status: status})
			continue
		}
		psi, interval, status, _ := resolvePsi(coeffs, limits, intervals, opts, seed, seedPsi)
		if status.Severity() == SeverityError {
			candidates = append(candidates, Solution{GC: gc, Status: status})
			continue
		}
		candidates = append(candidates, Solution{
			GC:                 gc,
			Psi:                psi,
			Interval:           interval,
			Angles:             anglesAtPsi(coeffs, psi),
			Status:             status,
			SameIntervalAsSeed: status == Success,
		})
	}

	rankCandidates(candidates, seed.Current, seedGC, opts)

	var best *Solution
	overall := GeneralError
	for i := range candidates {
		if candidates[i].Status.Severity() < SeverityError {
			best = &candidates[i]
			overall = best.Status
			break
		}
	}
	return &Solutions{Best: best, Candidates: candidates}, overall
}

func anglesAtPsi(coeffs *Coefficients, psi float64) JointAngles {
	var q JointAngles
	for j := 0; j < NumJoints; j++ {
		q[j] = coeffs.Joints[j].AngleAtPsi(psi)
	}
	return q
}

// SolveAllConfigurations attempts SolveNearArmAngle for all 8 global
// configurations concurrently, bounded by min(8, runtime.NumCPU()) workers,
// and returns every attempt (including failures) so the caller's redundancy
// resolution can rank the successes.
func SolveAllConfigurations(logger logging.Logger, geom Geometry, limits Limits, target spatialmath.Pose, seedPsi float64) []Solution {
	configs := AllConfigurations()
	results := make([]Solution, len(configs))

	workers := runtime.NumCPU()
	if workers > len(configs) {
		workers = len(configs)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			for idx := range jobs {
				gc := configs[idx]
				sol, status := SolveNearArmAngle(geom, limits, target, gc, seedPsi)
				if sol == nil {
					results[idx] = Solution{GC: gc, Status: status}
					continue
				}
				results[idx] = *sol
				if logger != nil && status.Severity() >= SeverityWarning {
					logger.Debugw("configuration solve finished with non-success status",
						"gc", uint8(gc), "status", status.String())
				}
			}
		})
	}
	for idx := range configs {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return results
}
