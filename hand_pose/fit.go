package handpose

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// fitBone rotates a bone in place so the average direction toward its
// descendant joints matches the average direction toward the corresponding
// target keypoints. Both averages are taken over every joint distal to the
// bone in its finger, mapped into the bone's own frame through the inverse
// of its world pose, so the resulting shortest-arc rotation re-aims the
// descendant chain without moving the bone's own position. The rotation is
// right-composed onto the existing local rotation; callers must refresh
// world poses before the effect is read.
func (h *Hand) fitBone(fingerIdx, boneIdx int) {
	fg := &h.fingers[fingerIdx]

	var current, target r3.Vector
	count := 0
	for b := boneIdx; b < bonesPerFinger; b++ {
		count++
		current = current.Add(fg.distalEnd(b))
		target = target.Add(h.targets[fg.bones[b].keypoint])
	}
	scale := 1.0 / float64(count)

	inv := fg.bones[boneIdx].world.Inverse()
	localCurrent := inv.TransformPoint(current.Mul(scale))
	localTarget := inv.TransformPoint(target.Mul(scale))

	rot := quatBetweenVectors(
		normalizeOr(localCurrent, boneForward),
		normalizeOr(localTarget, boneForward),
	)
	bone := &fg.bones[boneIdx]
	bone.local.Rotation = normalizeQuat(quat.Mul(bone.local.Rotation, rot))
}
