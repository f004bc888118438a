package handpose

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Bone is one solved segment of a finger. Its local relation maps the bone
// frame into the parent bone's frame: the translation is fixed at
// construction and the rotation is the solved degree of freedom. The world
// pose is a derived cache, rewritten only by refreshWorldPoses.
type Bone struct {
	local    Transform
	world    Transform
	keypoint int // input landmark index of this bone's distal end
}

// Finger is a chain of four bones hanging off the wrist, plus a fixed tip
// offset marking the distal end of the last bone.
type Finger struct {
	bones     [bonesPerFinger]Bone
	tipOffset r3.Vector
	tipWorld  Transform
}

// distalEnd returns the world-space position of bone b's distal joint.
func (fg *Finger) distalEnd(b int) r3.Vector {
	if b == bonesPerFinger-1 {
		return fg.tipWorld.Translation
	}
	return fg.bones[b+1].world.Translation
}

// Hand is one tracked hand's solver state: the kinematic tree plus the
// per-frame target keypoints and pre-sized scratch buffers. One instance
// exists per tracked hand for the lifetime of its tracking session; each
// frame's solve overwrites the previous pose in place, which also warm-starts
// the optimization from the last frame's result.
//
// A Hand is not safe for concurrent use; solve the left and right hands
// concurrently with two independent instances.
type Hand struct {
	handed Handedness
	cfg    Config

	wrist   Transform
	fingers [numFingers]Finger

	targets   [NumKeypoints]r3.Vector
	jointMat  *mat.Dense // 3×21 solved joint positions, refreshed per alignment
	targetMat *mat.Dense // 3×21 target keypoints for the current frame

	set JointSet
}

// NewHand builds a hand at its rest pose. A nil config selects the defaults.
func NewHand(handed Handedness, cfg *Config) *Hand {
	if cfg == nil {
		c := DefaultConfig()
		cfg = &c
	}
	h := &Hand{
		handed:    handed,
		cfg:       *cfg,
		wrist:     NewTransform(),
		jointMat:  mat.NewDense(3, NumKeypoints, nil),
		targetMat: mat.NewDense(3, NumKeypoints, nil),
	}
	for f := range h.fingers {
		geo := &h.cfg.Geometry[f]
		fg := &h.fingers[f]
		for b := range fg.bones {
			t := NewTransform()
			if b == 0 {
				t.Translation = geo.Root
			} else {
				t.Translation = boneForward.Mul(geo.Lengths[b-1])
			}
			fg.bones[b].local = t
			fg.bones[b].keypoint = keypointIndex(f, b)
		}
		fg.tipOffset = boneForward.Mul(geo.Lengths[bonesPerFinger-1])
	}
	h.refreshWorldPoses()
	return h
}

// Handedness reports which hand this solver fits.
func (h *Hand) Handedness() Handedness {
	return h.handed
}

// refreshWorldPoses recomputes every bone's world pose from the wrist
// outward: a bone's world pose is its parent's world pose composed with its
// local relation. Must run after any local-relation mutation before world
// poses are read. The wrist has no parent; its relation is its world pose.
func (h *Hand) refreshWorldPoses() {
	for f := range h.fingers {
		fg := &h.fingers[f]
		parent := h.wrist
		for b := range fg.bones {
			parent = parent.Compose(fg.bones[b].local)
			fg.bones[b].world = parent
		}
		fg.tipWorld = parent.Compose(Transform{Rotation: identityQuat(), Translation: fg.tipOffset})
	}
}

// fillJointMatrix writes the current world-space positions of all 21 model
// joints into the alignment scratch matrix, column-matched to the input
// landmark order.
func (h *Hand) fillJointMatrix() {
	setColumn(h.jointMat, KeypointWrist, h.wrist.Translation)
	for f := range h.fingers {
		for b := 0; b < bonesPerFinger; b++ {
			setColumn(h.jointMat, keypointIndex(f, b), h.fingers[f].distalEnd(b))
		}
	}
}

func setColumn(m *mat.Dense, col int, v r3.Vector) {
	m.Set(0, col, v.X)
	m.Set(1, col, v.Y)
	m.Set(2, col, v.Z)
}

func column(m *mat.Dense, col int) r3.Vector {
	return r3.Vector{X: m.At(0, col), Y: m.At(1, col), Z: m.At(2, col)}
}
