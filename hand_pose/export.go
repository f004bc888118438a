package handpose

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rdk/spatialmath"
)

// orientationNormTol bounds how far an exported orientation's norm may drift
// from one before the joint is demoted to untracked.
const orientationNormTol = 1e-4

// export converts the finalized world poses into the canonical joint array.
// The palm joint is synthesized from the middle finger: its orientation is
// the metacarpal's and its position the midpoint of the metacarpal and
// proximal joints. The solver's two thumb root frames (the fixed metacarpal
// offset and its child at the CMC landmark) stay internal; the exported
// thumb starts at the proximal joint.
func (h *Hand) export() {
	h.set.Active = false

	middle := &h.fingers[FingerMiddle]
	palm := Transform{
		Rotation: middle.bones[0].world.Rotation,
		Translation: middle.bones[0].world.Translation.
			Add(middle.bones[1].world.Translation).Mul(0.5),
	}

	idx := 0
	put := func(t Transform) {
		h.set.Joints[idx] = h.exportJoint(t)
		idx++
	}

	put(h.wrist)
	put(palm)

	thumb := &h.fingers[FingerThumb]
	put(thumb.bones[2].world)
	put(thumb.bones[3].world)
	put(thumb.tipWorld)

	for f := FingerIndex; f <= FingerLittle; f++ {
		fg := &h.fingers[f]
		for b := 0; b < bonesPerFinger; b++ {
			put(fg.bones[b].world)
		}
		put(fg.tipWorld)
	}

	h.set.Active = true
}

// exportJoint converts one world pose to an exported joint, applying the
// right-hand mirroring correction and validating the result. The solver
// works in a left-hand convention; a right-hand pose is reflected across the
// yz plane and its x basis column negated afterward, which keeps the
// orientation a proper rotation (determinant +1) instead of a reflection.
func (h *Hand) exportJoint(t Transform) JointPose {
	pos := t.Translation
	rot := t.Rotation

	if h.handed == RightHand {
		pos.X = -pos.X
		m := quatToRotationMatrix(rot)
		for c := 0; c < 3; c++ {
			m[0][c] = -m[0][c]
		}
		for r := 0; r < 3; r++ {
			m[r][0] = -m[r][0]
		}
		rot = rotationMatrixToQuat(m)
	}

	var flags JointFlags
	if vectorFinite(pos) && quatFinite(rot) && math.Abs(quat.Abs(rot)-1) < orientationNormTol {
		flags = flagsFullyTracked
	}

	q := spatialmath.Quaternion(rot)
	return JointPose{
		Pose:  spatialmath.NewPose(pos, &q),
		Flags: flags,
	}
}

func vectorFinite(v r3.Vector) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func quatFinite(q quat.Number) bool {
	return finite(q.Real) && finite(q.Imag) && finite(q.Jmag) && finite(q.Kmag)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
