package handpose

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// boneForward is the direction a bone's chain extends in its own frame when
// its rotation is the identity.
var boneForward = r3.Vector{Z: -1}

// ConstraintKind selects which anatomical limit model applies to a bone.
type ConstraintKind int

const (
	// ConstraintFixed marks a bone with no solved degree of freedom
	// (the thumb's metacarpal offset).
	ConstraintFixed ConstraintKind = iota
	// ConstraintHinge restricts rotation to a single axis within an
	// angular range.
	ConstraintHinge
	// ConstraintSwingTwist allows a ball-and-socket motion: a bounded
	// twist about the bone's forward axis plus a pyramidally bounded swing.
	ConstraintSwingTwist
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintFixed:
		return "fixed"
	case ConstraintHinge:
		return "hinge"
	case ConstraintSwingTwist:
		return "swing_twist"
	default:
		return "unknown"
	}
}

// AxisIndex selects one of the bone-local coordinate axes.
type AxisIndex int

const (
	AxisX AxisIndex = iota
	AxisY
	AxisZ
)

var localAxes = [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}

// HingeLimits bounds a single-axis joint. A zero MinAngle and MaxAngle
// disables the angular clamp; the off-axis cancellation always applies.
type HingeLimits struct {
	Axis     AxisIndex
	MinAngle float64 // radians; flexion is negative
	MaxAngle float64 // radians
}

// SwingTwistLimits bounds a ball-and-socket joint. The swing region is
// expressed through the tangent of the deviation angle along two
// perpendicular directions, which yields a pyramidal rather than conical
// limit, matching how finger knuckles deflect.
type SwingTwistLimits struct {
	MaxTwist    float64 // radians, symmetric
	TanLeft     float64 // lower radial (adduction) bound, tan of a negative angle
	TanRight    float64 // upper radial (abduction) bound
	TanCurled   float64 // lower curl (flexion) bound, tan of a negative angle
	TanUncurled float64 // upper curl (extension) bound
}

// BoneConstraint is the tagged per-bone limit: Kind selects which of the
// embedded limit sets is meaningful.
type BoneConstraint struct {
	Kind       ConstraintKind
	Hinge      HingeLimits
	SwingTwist SwingTwistLimits
}

// ConstraintTable holds one constraint per (finger, bone). The bounds are
// anatomy-derived constants; they never change during a tracking session.
type ConstraintTable [numFingers][bonesPerFinger]BoneConstraint

// hingeAngle reports the signed rotation of q about the given axis, read
// from where q sends the next coordinate axis.
func hingeAngle(q quat.Number, axis AxisIndex) float64 {
	ortho := rotateVector(q, localAxes[(int(axis)+1)%3])
	return math.Atan2(axisComponent(ortho, (int(axis)+2)%3), axisComponent(ortho, (int(axis)+1)%3))
}

func axisComponent(v r3.Vector, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// circularDistance returns the magnitude of the shortest angular path from a
// to b.
func circularDistance(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d < -math.Pi {
		d += 2 * math.Pi
	}
	return math.Abs(d)
}

// clampHinge projects q onto a pure rotation about the hinge axis, then
// clamps the signed angle into [MinAngle, MaxAngle]. The candidate rotation
// generally moves the hinge axis itself; composing the minimal rotation that
// carries the displaced axis back onto its canonical direction cancels every
// off-axis component without disturbing the rotation about the axis. An
// out-of-range angle snaps to whichever bound is circularly closer.
func clampHinge(q quat.Number, lim HingeLimits) quat.Number {
	axis := localAxes[lim.Axis]
	displaced := rotateVector(q, axis)
	correction := quatBetweenVectors(normalizeOr(displaced, axis), axis)
	q = normalizeQuat(quat.Mul(correction, q))

	if lim.MinAngle == 0 && lim.MaxAngle == 0 {
		return q
	}

	angle := hingeAngle(q, lim.Axis)
	if angle >= lim.MinAngle && angle <= lim.MaxAngle {
		return q
	}
	if circularDistance(angle, lim.MaxAngle) < circularDistance(angle, lim.MinAngle) {
		angle = lim.MaxAngle
	} else {
		angle = lim.MinAngle
	}
	return axisAngleQuat(axis, angle)
}

// decomposeSwingTwist splits q into a twist about the bone's forward axis and
// the minimal swing that reorients the forward axis, with q = twist ∘ swing.
func decomposeSwingTwist(q quat.Number) (twist, swing quat.Number) {
	pointed := rotateVector(q, boneForward)
	swing = quatBetweenVectors(boneForward, normalizeOr(pointed, boneForward))
	twist = normalizeQuat(quat.Mul(q, quat.Conj(swing)))
	return twist, swing
}

// minForwardZ floors the forward direction's depth before the tangent
// projection; hyper-extended and equatorial directions are pinned just inside
// the forward hemisphere so the division below never sees a zero.
const minForwardZ = 1e-6

// clampSwingTwist limits q to the anatomical range of a ball-and-socket
// joint: the twist angle saturates at ±MaxTwist and the swung forward
// direction, expressed as tangent coordinates on the z = -1 plane, is clamped
// component-wise to the asymmetric swing bounds. The clamped twist is rebuilt
// about the clamped swing direction, so the recombined rotation lands exactly
// on the limit surface and projecting it again is a no-op.
func clampSwingTwist(q quat.Number, lim SwingTwistLimits) quat.Number {
	twist, _ := decomposeSwingTwist(q)
	pointed := rotateVector(q, boneForward)
	dir := normalizeOr(pointed, boneForward)

	axis, angle := quatToAxisAngle(twist)
	if angle > lim.MaxTwist {
		angle = lim.MaxTwist
	}

	if pointed.Z > -minForwardZ {
		pointed.Z = -minForwardZ
	}
	pointed = pointed.Mul(-1 / pointed.Z)
	pointed.X = clampValue(pointed.X, lim.TanLeft, lim.TanRight)
	pointed.Y = clampValue(pointed.Y, lim.TanCurled, lim.TanUncurled)
	clampedDir := pointed.Normalize()

	swing := quatBetweenVectors(boneForward, clampedDir)
	twistAxis := clampedDir
	if axis.Dot(dir) < 0 {
		twistAxis = clampedDir.Mul(-1)
	}
	twist = axisAngleQuat(twistAxis, angle)
	return normalizeQuat(quat.Mul(twist, swing))
}
