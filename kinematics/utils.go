package kinematics

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// mat3 is a row-major 3x3 rotation matrix. Forward kinematics and the
// coefficient builder's reference solve compose many small fixed-size
// rotations; a plain array avoids the allocation and bounds-check overhead of
// a general matrix type for this inner loop.
type mat3 [3][3]float64

func identity3() mat3 {
	return mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func rotZ(theta float64) mat3 {
	c, s := math.Cos(theta), math.Sin(theta)
	return mat3{
		{c, -s, 0},
		{s, c, 0},
		{0, 0, 1},
	}
}

func rotY(theta float64) mat3 {
	c, s := math.Cos(theta), math.Sin(theta)
	return mat3{
		{c, 0, s},
		{0, 1, 0},
		{-s, 0, c},
	}
}

func (a mat3) mul(b mat3) mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

func (a mat3) transpose() mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = a[i][j]
		}
	}
	return out
}

func (a mat3) apply(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: a[0][0]*v.X + a[0][1]*v.Y + a[0][2]*v.Z,
		Y: a[1][0]*v.X + a[1][1]*v.Y + a[1][2]*v.Z,
		Z: a[2][0]*v.X + a[2][1]*v.Y + a[2][2]*v.Z,
	}
}

// skew returns the cross-product matrix of v, such that skew(v).apply(w) == v.Cross(w).
func skew(v r3.Vector) mat3 {
	return mat3{
		{0, -v.Z, v.Y},
		{v.Z, 0, -v.X},
		{-v.Y, v.X, 0},
	}
}

// rodrigues returns the rotation matrix for a rotation of theta radians about
// the unit axis u: R(theta) = I + sin(theta) K + (1-cos(theta)) K^2, K = skew(u).
// Because this expression is linear in sin(theta) and cos(theta), every entry
// of the result is an affine function a*sin(theta) + b*cos(theta) + c for fixed
// coefficients a, b, c depending only on u -- the algebraic fact the coefficient
// builder exploits to fit closed forms in the arm angle psi.
func rodrigues(u r3.Vector, theta float64) mat3 {
	k := skew(u)
	k2 := k.mul(k)
	s, c := math.Sin(theta), math.Cos(theta)
	var out mat3
	id := identity3()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = id[i][j] + s*k[i][j] + (1-c)*k2[i][j]
		}
	}
	return out
}

// zyzDecompose recovers (alpha, beta, gamma) such that R == Rz(alpha) Ry(beta) Rz(gamma),
// for a rotation matrix known to be exactly of that form. When sin(beta) is near
// zero (beta near 0 or pi) the decomposition is singular and alpha, gamma are
// not individually meaningful; callers detect this via pivotSingular.
func zyzDecompose(r mat3) (alpha, beta, gamma float64) {
	beta = math.Acos(clampUnit(r[2][2]))
	alpha = math.Atan2(r[1][2], r[0][2])
	gamma = math.Atan2(r[2][1], -r[2][0])
	return alpha, beta, gamma
}

// mat3ToQuaternion converts a rotation matrix to a unit quaternion via
// Shepperd's method, which picks the numerically stable branch based on the
// trace and diagonal of r.
func mat3ToQuaternion(r mat3) quat.Number {
	trace := r[0][0] + r[1][1] + r[2][2]
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		return quat.Number{
			Real: 0.25 / s,
			Imag: (r[2][1] - r[1][2]) * s,
			Jmag: (r[0][2] - r[2][0]) * s,
			Kmag: (r[1][0] - r[0][1]) * s,
		}
	case r[0][0] > r[1][1] && r[0][0] > r[2][2]:
		s := 2 * math.Sqrt(1+r[0][0]-r[1][1]-r[2][2])
		return quat.Number{
			Real: (r[2][1] - r[1][2]) / s,
			Imag: 0.25 * s,
			Jmag: (r[0][1] + r[1][0]) / s,
			Kmag: (r[0][2] + r[2][0]) / s,
		}
	case r[1][1] > r[2][2]:
		s := 2 * math.Sqrt(1+r[1][1]-r[0][0]-r[2][2])
		return quat.Number{
			Real: (r[0][2] - r[2][0]) / s,
			Imag: (r[0][1] + r[1][0]) / s,
			Jmag: 0.25 * s,
			Kmag: (r[1][2] + r[2][1]) / s,
		}
	default:
		s := 2 * math.Sqrt(1+r[2][2]-r[0][0]-r[1][1])
		return quat.Number{
			Real: (r[1][0] - r[0][1]) / s,
			Imag: (r[0][2] + r[2][0]) / s,
			Jmag: (r[1][2] + r[2][1]) / s,
			Kmag: 0.25 * s,
		}
	}
}

// quaternionToMat3 converts a unit quaternion to a rotation matrix.
func quaternionToMat3(q quat.Number) mat3 {
	n := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if n < 1e-12 {
		return identity3()
	}
	w, x, y, z := q.Real/n, q.Imag/n, q.Jmag/n, q.Kmag/n
	return mat3{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
