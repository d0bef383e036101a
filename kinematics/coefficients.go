package kinematics

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/rllkin/spatialmath"
)

// PivotCoefficients describes a pivot joint's angle as
// atan2(ANum*sin(psi)+BNum*cos(psi)+CNum, ADen*sin(psi)+BDen*cos(psi)+CDen).
type PivotCoefficients struct {
	ANum, BNum, CNum float64
	ADen, BDen, CDen float64
}

// Numerator evaluates the atan2 numerator at psi.
func (p PivotCoefficients) Numerator(psi float64) float64 {
	s, c := math.Sin(psi), math.Cos(psi)
	return p.ANum*s + p.BNum*c + p.CNum
}

// Denominator evaluates the atan2 denominator at psi.
func (p PivotCoefficients) Denominator(psi float64) float64 {
	s, c := math.Sin(psi), math.Cos(psi)
	return p.ADen*s + p.BDen*c + p.CDen
}

// Angle evaluates the joint angle at psi.
func (p PivotCoefficients) Angle(psi float64) float64 {
	return math.Atan2(p.Numerator(psi), p.Denominator(psi))
}

// Derivative evaluates d(Angle)/d(psi) by differentiating atan2(N, D) through
// the quotient rule, without dividing by D directly so it stays finite
// wherever Angle itself is defined.
func (p PivotCoefficients) Derivative(psi float64) float64 {
	s, c := math.Sin(psi), math.Cos(psi)
	n := p.ANum*s + p.BNum*c + p.CNum
	d := p.ADen*s + p.BDen*c + p.CDen
	nPrime := p.ANum*c - p.BNum*s
	dPrime := p.ADen*c - p.BDen*s
	return (nPrime*d - n*dPrime) / (n*n + d*d)
}

// HingeCoefficients describes a hinge joint's angle as
// acos(A*sin(psi)+B*cos(psi)+C*sin(psi)^2+D*cos(psi)^2+E*sin(psi)*cos(psi)+F).
// For every joint in this S-R-S geometry the quadratic terms C, D, E are
// identically zero: the underlying quantity is an entry of a rotation matrix
// that is itself affine in sin(psi) and cos(psi) (see BuildCoefficients), never
// a product of two such entries. They are retained in the representation
// because the general closed-form derivation for an arbitrary redundant chain
// does not rule them out.
type HingeCoefficients struct {
	A, B, C, D, E, F float64
}

// Value evaluates the acos argument at psi.
func (h HingeCoefficients) Value(psi float64) float64 {
	s, c := math.Sin(psi), math.Cos(psi)
	return h.A*s + h.B*c + h.C*s*s + h.D*c*c + h.E*s*c + h.F
}

// Angle evaluates the joint angle at psi, clamping the acos argument into
// [-1, 1] to absorb floating point drift.
func (h HingeCoefficients) Angle(psi float64) float64 {
	return math.Acos(clampUnit(h.Value(psi)))
}

// Derivative evaluates d(Angle)/d(psi) by differentiating acos(V(psi)).
func (h HingeCoefficients) Derivative(psi float64) float64 {
	s, c := math.Sin(psi), math.Cos(psi)
	v := h.A*s + h.B*c + h.C*s*s + h.D*c*c + h.E*s*c + h.F
	vPrime := h.A*c - h.B*s + 2*(h.C-h.D)*s*c + h.E*(c*c-s*s)
	denom := math.Sqrt(math.Max(1e-18, 1-v*v))
	return -vPrime / denom
}

// JointCoefficients is the closed-form description of one joint's angle as a
// function of the arm angle psi.
type JointCoefficients struct {
	Type JointType
	// IsElbow marks the one hinge joint (see elbowJoint) whose angle does not
	// depend on psi at all.
	IsElbow    bool
	FixedAngle float64
	Pivot      PivotCoefficients
	Hinge      HingeCoefficients

	// PhaseShift and HingeSign encode the shoulder/wrist global-configuration
	// branch: a ZYZ Euler decomposition has a second solution
	// (alpha+pi, -beta, gamma+pi) for every (alpha, beta, gamma), and the
	// shoulder/wrist bits of GlobalConfiguration select which branch this
	// joint's closed form reports. PhaseShift is added to a pivot joint's
	// atan2 result; HingeSign multiplies a hinge joint's acos result. Both
	// default to the identity branch (0 and +1).
	PhaseShift float64
	HingeSign  float64
}

// AngleAtPsi evaluates the joint's angle at the given arm angle.
func (jc JointCoefficients) AngleAtPsi(psi float64) float64 {
	switch {
	case jc.IsElbow:
		return jc.FixedAngle
	case jc.Type == Pivot:
		return normalizeAngle(jc.Pivot.Angle(psi) + jc.PhaseShift)
	default:
		hingeSign := jc.HingeSign
		if hingeSign == 0 {
			hingeSign = 1
		}
		return hingeSign * jc.Hinge.Angle(psi)
	}
}

// Derivative evaluates d(AngleAtPsi)/d(psi). A constant PhaseShift does not
// affect the derivative; HingeSign does, the same way it scales Angle itself.
func (jc JointCoefficients) Derivative(psi float64) float64 {
	switch {
	case jc.IsElbow:
		return 0
	case jc.Type == Pivot:
		return jc.Pivot.Derivative(psi)
	default:
		hingeSign := jc.HingeSign
		if hingeSign == 0 {
			hingeSign = 1
		}
		return hingeSign * jc.Hinge.Derivative(psi)
	}
}

// Coefficients is the full closed-form description of how every joint angle
// varies with the arm angle psi, for one target pose and one global
// configuration.
type Coefficients struct {
	Joints [NumJoints]JointCoefficients

	Shoulder r3.Vector
	Wrist    r3.Vector
	AxisSW   r3.Vector // unit vector from shoulder to wrist
	Reach    float64   // |wrist - shoulder|

	// PivotSingular is true when the shoulder-wrist axis is (anti)parallel to
	// the global Z axis (the wrist sits directly above or below the shoulder),
	// so the primary reference plane is undefined and psi does not
	// parameterize a 1-dimensional self-motion in the usual way.
	PivotSingular bool
}

// BuildCoefficients computes the closed-form joint-angle coefficients for a
// target flange pose under a chosen global configuration. It returns
// JointLimitViolated if the target is outside the arm's reach, and
// TargetTooCloseToSingularity if the shoulder and wrist coincide.
func BuildCoefficients(geom Geometry, target spatialmath.Pose, gc GlobalConfiguration) (*Coefficients, RLLKinMsg) {
	rTarget := quaternionToMat3(target.Orientation().Quaternion())
	shoulder := r3.Vector{Z: geom.BaseToShoulder}
	wrist := target.Point().Sub(rTarget.apply(r3.Vector{Z: geom.WristToFlange}))

	xsw := wrist.Sub(shoulder)
	lsw := xsw.Norm()

	const reachEps = 1e-9
	if lsw > geom.MaxReach()+reachEps || lsw < geom.MinReach()-reachEps {
		return nil, JointLimitViolated
	}
	if lsw < singularityEpsilon {
		return nil, TargetTooCloseToSingularity
	}
	lsw = clampRange(lsw, geom.MinReach(), geom.MaxReach())
	uSW := xsw.Mul(1 / lsw)

	se, ew := geom.ShoulderToElbow, geom.ElbowToWrist
	cosTheta4 := (lsw*lsw - se*se - ew*ew) / (2 * se * ew)
	theta4 := gc.ElbowSign() * math.Acos(clampUnit(cosTheta4))

	n0, _, elbowRef, pivotSingular := referencePlane(shoulder, uSW, lsw, se, ew, gc.ElbowSign())

	z3 := elbowRef.Sub(shoulder).Mul(1 / se)
	y3 := n0
	x3 := y3.Cross(z3)

	r03_0 := columnsToMat3(x3, y3, z3)
	r04_0 := r03_0.mul(rotY(theta4))

	k := skew(uSW)
	k2 := k.mul(k)

	// R03(psi) = As(psi) R03_0 = sin(psi) K R03_0 + cos(psi) (-K2) R03_0 + (R03_0 + K2 R03_0).
	shoulderSin := k.mul(r03_0)
	shoulderCos := negate(k2.mul(r03_0))
	shoulderConst := add(r03_0, k2.mul(r03_0))

	// R47(psi) = R04_0^T As(psi)^T R07
	//          = sin(psi) (-R04_0^T K R07) + cos(psi) (-R04_0^T K2 R07) + (R04_0^T R07 + R04_0^T K2 R07).
	r04_0T := r04_0.transpose()
	wristSin := negate(r04_0T.mul(k).mul(rTarget))
	wristCos := negate(r04_0T.mul(k2).mul(rTarget))
	wristConst := add(r04_0T.mul(rTarget), r04_0T.mul(k2).mul(rTarget))

	var coeffs Coefficients
	coeffs.Shoulder = shoulder
	coeffs.Wrist = wrist
	coeffs.AxisSW = uSW
	coeffs.Reach = lsw
	coeffs.PivotSingular = pivotSingular

	shoulderPhase, shoulderHingeSign := branchParams(gc.ShoulderSign())
	wristPhase, wristHingeSign := branchParams(gc.WristSign())

	coeffs.Joints[0] = pivotFromEntries(shoulderSin, shoulderCos, shoulderConst, 1, 2, 0, 2).withPhase(shoulderPhase)
	coeffs.Joints[1] = hingeFromEntries(shoulderSin, shoulderCos, shoulderConst, 2, 2).withHingeSign(shoulderHingeSign)
	coeffs.Joints[2] = pivotFromEntries(shoulderSin, shoulderCos, shoulderConst, 2, 1, 2, 0).negatedDenominator().withPhase(shoulderPhase)
	coeffs.Joints[elbowJoint] = JointCoefficients{Type: Hinge, IsElbow: true, FixedAngle: theta4}
	coeffs.Joints[4] = pivotFromEntries(wristSin, wristCos, wristConst, 1, 2, 0, 2).withPhase(wristPhase)
	coeffs.Joints[5] = hingeFromEntries(wristSin, wristCos, wristConst, 2, 2).withHingeSign(wristHingeSign)
	coeffs.Joints[6] = pivotFromEntries(wristSin, wristCos, wristConst, 2, 1, 2, 0).negatedDenominator().withPhase(wristPhase)

	return &coeffs, Success
}

// referencePlane computes the psi=0 reference frame for a shoulder-elbow-wrist
// triangle: n0 is a unit normal to the plane containing the shoulder-wrist
// axis (chosen away from the global Z axis when the arm is vertical, falling
// back to X then Y if those are also degenerate), perpDir is the in-plane unit
// vector perpendicular to the shoulder-wrist axis, and elbowRef is the elbow
// position at psi=0. pivotSingular reports whether uSW was too close to Z for
// the primary normal choice, which ArmAngleIntervals treats as unsolvable.
func referencePlane(shoulder, uSW r3.Vector, lsw, se, ew, elbowSign float64) (n0, perpDir, elbowRef r3.Vector, pivotSingular bool) {
	n0 = r3.Vector{Z: 1}.Cross(uSW)
	if n0.Norm() < singularityEpsilon {
		pivotSingular = true
		n0 = r3.Vector{X: 1}.Cross(uSW)
		if n0.Norm() < singularityEpsilon {
			n0 = r3.Vector{Y: 1}.Cross(uSW)
		}
	}
	n0 = n0.Mul(1 / n0.Norm())

	perpDir = uSW.Cross(n0)
	perpDir = perpDir.Mul(1 / perpDir.Norm())

	dAlong := (se*se - ew*ew + lsw*lsw) / (2 * lsw)
	dPerp := math.Sqrt(math.Max(0, se*se-dAlong*dAlong))
	elbowRef = shoulder.Add(uSW.Mul(dAlong)).Add(perpDir.Mul(dPerp * elbowSign))
	return n0, perpDir, elbowRef, pivotSingular
}

// JointDerivative evaluates d(q_j)/d(psi) for joint j at arm angle psi. q, the
// current value of joint j, is accepted to match the closed-form contract of a
// joint derivative, but is unused here: which of the two ZYZ branches a
// joint's closed form occupies is already fixed by the GlobalConfiguration
// baked into coeffs (PhaseShift/HingeSign), not by re-inspecting q.
func (coeffs *Coefficients) JointDerivative(j int, psi, q float64) float64 {
	return coeffs.Joints[j].Derivative(psi)
}

// branchParams returns the (phase shift, hinge sign) pair corresponding to a
// shoulder or wrist global-configuration sign: +1 selects the principal ZYZ
// branch, -1 selects the alternate branch (alpha+pi, -beta, gamma+pi).
func branchParams(configSign float64) (phase, hingeSign float64) {
	if configSign < 0 {
		return math.Pi, -1
	}
	return 0, 1
}

func (jc JointCoefficients) withPhase(phase float64) JointCoefficients {
	jc.PhaseShift = phase
	return jc
}

func (jc JointCoefficients) withHingeSign(s float64) JointCoefficients {
	jc.HingeSign = s
	return jc
}

// singularityEpsilon bounds how close the shoulder and wrist, or the
// shoulder-wrist axis and a reference plane normal, may come before a solve is
// reported as too close to a singularity to trust.
const singularityEpsilon = 1e-7

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func columnsToMat3(x, y, z r3.Vector) mat3 {
	return mat3{
		{x.X, y.X, z.X},
		{x.Y, y.Y, z.Y},
		{x.Z, y.Z, z.Z},
	}
}

func negate(m mat3) mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = -m[i][j]
		}
	}
	return out
}

func add(a, b mat3) mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][j] + b[i][j]
		}
	}
	return out
}

// pivotFromEntries builds a PivotCoefficients whose numerator is entry
// (numI,numJ) of sinM*sin(psi)+cosM*cos(psi)+constM and whose denominator is
// entry (denI,denJ) of the same affine matrix family.
func pivotFromEntries(sinM, cosM, constM mat3, numI, numJ, denI, denJ int) JointCoefficients {
	return JointCoefficients{
		Type: Pivot,
		Pivot: PivotCoefficients{
			ANum: sinM[numI][numJ], BNum: cosM[numI][numJ], CNum: constM[numI][numJ],
			ADen: sinM[denI][denJ], BDen: cosM[denI][denJ], CDen: constM[denI][denJ],
		},
	}
}

// negatedDenominator flips the sign of a pivot's denominator coefficients,
// used for the joints whose closed form is atan2(M21, -M20).
func (jc JointCoefficients) negatedDenominator() JointCoefficients {
	jc.Pivot.ADen, jc.Pivot.BDen, jc.Pivot.CDen = -jc.Pivot.ADen, -jc.Pivot.BDen, -jc.Pivot.CDen
	return jc
}

func hingeFromEntries(sinM, cosM, constM mat3, i, j int) JointCoefficients {
	return JointCoefficients{
		Type: Hinge,
		Hinge: HingeCoefficients{
			A: sinM[i][j], B: cosM[i][j], F: constM[i][j],
		},
	}
}
