package handpose

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// antiparallelDot is the dot-product threshold below which two unit vectors
// are treated as exactly opposite and the shortest-arc rotation is singular.
const antiparallelDot = -1.0 + 1e-8

// Transform is a rigid rotation + translation mapping points from one
// coordinate frame to another. Rotation is a unit quaternion; no scale or
// shear is representable.
type Transform struct {
	Rotation    quat.Number
	Translation r3.Vector
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{Rotation: identityQuat()}
}

func identityQuat() quat.Number {
	return quat.Number{Real: 1}
}

// Compose returns the transform equivalent to applying other first, then t.
func (t Transform) Compose(other Transform) Transform {
	return Transform{
		Rotation:    normalizeQuat(quat.Mul(t.Rotation, other.Rotation)),
		Translation: t.Translation.Add(rotateVector(t.Rotation, other.Translation)),
	}
}

// Inverse returns the transform mapping back from t's destination frame to
// its source frame.
func (t Transform) Inverse() Transform {
	inv := quat.Conj(t.Rotation)
	return Transform{
		Rotation:    inv,
		Translation: rotateVector(inv, t.Translation.Mul(-1)),
	}
}

// TransformPoint maps a point through t.
func (t Transform) TransformPoint(p r3.Vector) r3.Vector {
	return t.Translation.Add(rotateVector(t.Rotation, p))
}

// rotateVector rotates v by the unit quaternion q.
func rotateVector(q quat.Number, v r3.Vector) r3.Vector {
	qv := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, qv), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// normalizeQuat rescales q to unit norm, returning the identity rotation for
// degenerate (near-zero) input.
func normalizeQuat(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n < 1e-12 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

// axisAngleQuat builds the rotation of angle radians about the given unit axis.
func axisAngleQuat(axis r3.Vector, angle float64) quat.Number {
	s := math.Sin(angle / 2)
	return quat.Number{
		Real: math.Cos(angle / 2),
		Imag: axis.X * s,
		Jmag: axis.Y * s,
		Kmag: axis.Z * s,
	}
}

// quatToAxisAngle decomposes a unit quaternion into a unit axis and an angle
// in [0, π]. The identity rotation reports the X axis with a zero angle.
func quatToAxisAngle(q quat.Number) (r3.Vector, float64) {
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	v := r3.Vector{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	s := v.Norm()
	if s < 1e-9 {
		return r3.Vector{X: 1}, 0
	}
	return v.Mul(1 / s), 2 * math.Atan2(s, q.Real)
}

// quatBetweenVectors returns the minimal rotation carrying the unit vector
// from onto the unit vector to. Exactly opposite vectors have no unique
// minimal rotation; a 180° turn about a deterministic orthogonal axis is
// returned instead of a degenerate quaternion.
func quatBetweenVectors(from, to r3.Vector) quat.Number {
	d := from.Dot(to)
	if d < antiparallelDot {
		return axisAngleQuat(orthogonalTo(from), math.Pi)
	}
	c := from.Cross(to)
	return normalizeQuat(quat.Number{Real: d + 1, Imag: c.X, Jmag: c.Y, Kmag: c.Z})
}

// orthogonalTo returns a unit vector orthogonal to v.
func orthogonalTo(v r3.Vector) r3.Vector {
	a := v.Cross(r3.Vector{X: 1})
	if a.Norm() < 1e-6 {
		a = v.Cross(r3.Vector{Y: 1})
	}
	return a.Normalize()
}

// normalizeOr returns v scaled to unit length, or fallback when v is too
// short to normalize safely.
func normalizeOr(v, fallback r3.Vector) r3.Vector {
	n := v.Norm()
	if n < 1e-9 {
		return fallback
	}
	return v.Mul(1 / n)
}

// quatToRotationMatrix converts a unit quaternion to a row-major 3×3 rotation
// matrix.
func quatToRotationMatrix(q quat.Number) [3][3]float64 {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}
}

// rotationMatrixToQuat converts a row-major 3×3 rotation matrix to a unit
// quaternion using the largest-diagonal branch for numerical stability.
func rotationMatrixToQuat(m [3][3]float64) quat.Number {
	tr := m[0][0] + m[1][1] + m[2][2]
	var q quat.Number
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q = quat.Number{
			Real: 0.25 * s,
			Imag: (m[2][1] - m[1][2]) / s,
			Jmag: (m[0][2] - m[2][0]) / s,
			Kmag: (m[1][0] - m[0][1]) / s,
		}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := math.Sqrt(1+m[0][0]-m[1][1]-m[2][2]) * 2
		q = quat.Number{
			Real: (m[2][1] - m[1][2]) / s,
			Imag: 0.25 * s,
			Jmag: (m[0][1] + m[1][0]) / s,
			Kmag: (m[0][2] + m[2][0]) / s,
		}
	case m[1][1] > m[2][2]:
		s := math.Sqrt(1+m[1][1]-m[0][0]-m[2][2]) * 2
		q = quat.Number{
			Real: (m[0][2] - m[2][0]) / s,
			Imag: (m[0][1] + m[1][0]) / s,
			Jmag: 0.25 * s,
			Kmag: (m[1][2] + m[2][1]) / s,
		}
	default:
		s := math.Sqrt(1+m[2][2]-m[0][0]-m[1][1]) * 2
		q = quat.Number{
			Real: (m[1][0] - m[0][1]) / s,
			Imag: (m[0][2] + m[2][0]) / s,
			Jmag: (m[1][2] + m[2][1]) / s,
			Kmag: 0.25 * s,
		}
	}
	return normalizeQuat(q)
}

// clampValue limits v to the closed interval [lo, hi].
func clampValue(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
