package handpose

import (
	"github.com/golang/geo/r3"
)

// Solve fits the kinematic hand to one frame of 21 target keypoints and
// returns the exported joint set. The optimization runs to completion on the
// calling goroutine with a fixed iteration budget; there is no cancellation
// and no early exit. The previous frame's pose is the starting point, so a
// tracking session naturally warm-starts frame over frame.
//
// The returned set is a copy; it stays valid after the next Solve call.
func (h *Hand) Solve(keypoints []r3.Vector) (*JointSet, error) {
	if len(keypoints) != NumKeypoints {
		return nil, ErrKeypointCount
	}
	h.intake(keypoints)
	h.optimize()
	h.export()

	set := h.set
	return &set, nil
}

// intake stores the frame's targets, mirroring right-hand input across the
// x axis into the solver's native left-hand convention.
func (h *Hand) intake(keypoints []r3.Vector) {
	for i, kp := range keypoints {
		if h.handed == RightHand {
			kp.X = -kp.X
		}
		h.targets[i] = kp
		setColumn(h.targetMat, i, kp)
	}
}

// optimize runs the fixed per-frame schedule: each outer iteration re-anchors
// the wrist, solves the thumb, re-anchors again (the thumb perturbs the
// overall fit), then solves the remaining fingers root-to-tip. A final
// alignment follows the last iteration. The schedule is a cyclic projection:
// each fit/clamp step must observe geometry refreshed after the step before
// it, which is why forward kinematics runs inside every solveBone.
func (h *Hand) optimize() {
	for i := 0; i < h.cfg.Iterations; i++ {
		h.alignWrist()
		h.solveFinger(FingerThumb)
		h.alignWrist()
		for f := FingerIndex; f <= FingerLittle; f++ {
			h.solveFinger(f)
		}
	}
	h.alignWrist()
}

func (h *Hand) solveFinger(fingerIdx int) {
	for b := 0; b < bonesPerFinger; b++ {
		h.solveBone(fingerIdx, b)
	}
}

// solveBone direction-fits one bone, then projects it back inside its
// anatomical limits, refreshing world poses after each mutation. Bones with
// a fixed constraint (the thumb metacarpal) are skipped.
func (h *Hand) solveBone(fingerIdx, boneIdx int) {
	c := &h.cfg.Constraints[fingerIdx][boneIdx]
	if c.Kind == ConstraintFixed {
		return
	}

	h.fitBone(fingerIdx, boneIdx)
	h.refreshWorldPoses()

	bone := &h.fingers[fingerIdx].bones[boneIdx]
	switch c.Kind {
	case ConstraintHinge:
		bone.local.Rotation = clampHinge(bone.local.Rotation, c.Hinge)
	case ConstraintSwingTwist:
		bone.local.Rotation = clampSwingTwist(bone.local.Rotation, c.SwingTwist)
	}
	h.refreshWorldPoses()
}
