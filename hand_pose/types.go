package handpose

import (
	"fmt"
	"strings"

	"go.viam.com/rdk/spatialmath"
)

// Handedness identifies which of the two hands a solver instance fits.
type Handedness int

const (
	// LeftHand is the solver's native convention; input is used as-is.
	LeftHand Handedness = iota
	// RightHand input is mirrored across the x axis at intake and mirrored
	// back on export.
	RightHand
)

func (h Handedness) String() string {
	switch h {
	case LeftHand:
		return "left"
	case RightHand:
		return "right"
	default:
		return "unknown"
	}
}

// ParseHandedness converts a string such as "left" or "right" into a
// Handedness value.
func ParseHandedness(s string) (Handedness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return LeftHand, nil
	case "right":
		return RightHand, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownHandedness, s)
	}
}

const (
	// NumKeypoints is the number of input landmarks per hand per frame:
	// the wrist plus four per finger.
	NumKeypoints = 21
	// NumJoints is the number of exported joint poses per hand.
	NumJoints = 25

	numFingers     = 5
	bonesPerFinger = 4
)

// Finger indices, thumb through little finger.
const (
	FingerThumb = iota
	FingerIndex
	FingerMiddle
	FingerRing
	FingerLittle
)

// KeypointWrist is the index of the wrist landmark; the remaining twenty
// landmarks follow in per-finger groups of four (thumb CMC/MCP/IP/tip, then
// MCP/PIP/DIP/tip for each other finger), the ordering used by MediaPipe-style
// hand landmark models.
const KeypointWrist = 0

// keypointIndex returns the input landmark index corresponding to the distal
// end of the given bone.
func keypointIndex(finger, bone int) int {
	return 1 + finger*bonesPerFinger + bone
}

// JointID indexes the exported joint array in its canonical order.
type JointID int

// Canonical exported joint order: wrist, palm, then each finger tip-ward.
// The thumb's fixed metacarpal has no solved degree of freedom and is not
// exported, so the thumb contributes three joints and the others five.
const (
	JointWrist JointID = iota
	JointPalm
	JointThumbProximal
	JointThumbDistal
	JointThumbTip
	JointIndexMetacarpal
	JointIndexProximal
	JointIndexIntermediate
	JointIndexDistal
	JointIndexTip
	JointMiddleMetacarpal
	JointMiddleProximal
	JointMiddleIntermediate
	JointMiddleDistal
	JointMiddleTip
	JointRingMetacarpal
	JointRingProximal
	JointRingIntermediate
	JointRingDistal
	JointRingTip
	JointLittleMetacarpal
	JointLittleProximal
	JointLittleIntermediate
	JointLittleDistal
	JointLittleTip
)

var jointNames = [NumJoints]string{
	"wrist", "palm",
	"thumb_proximal", "thumb_distal", "thumb_tip",
	"index_metacarpal", "index_proximal", "index_intermediate", "index_distal", "index_tip",
	"middle_metacarpal", "middle_proximal", "middle_intermediate", "middle_distal", "middle_tip",
	"ring_metacarpal", "ring_proximal", "ring_intermediate", "ring_distal", "ring_tip",
	"little_metacarpal", "little_proximal", "little_intermediate", "little_distal", "little_tip",
}

func (j JointID) String() string {
	if j < 0 || int(j) >= NumJoints {
		return "unknown"
	}
	return jointNames[j]
}

// JointFlags marks which parts of an exported joint pose passed validation.
type JointFlags uint8

const (
	// FlagPositionValid is set when the joint position is finite.
	FlagPositionValid JointFlags = 1 << iota
	// FlagPositionTracked is set when the position derives from this frame's
	// observation rather than a guess.
	FlagPositionTracked
	// FlagOrientationValid is set when the orientation is a finite unit
	// quaternion.
	FlagOrientationValid
	// FlagOrientationTracked is set when the orientation derives from this
	// frame's observation.
	FlagOrientationTracked

	// flagsFullyTracked is the flag set for a joint that passed all checks.
	flagsFullyTracked = FlagPositionValid | FlagPositionTracked |
		FlagOrientationValid | FlagOrientationTracked
)

// Has reports whether all bits of want are set.
func (f JointFlags) Has(want JointFlags) bool {
	return f&want == want
}

// JointPose is one exported joint: a rigid pose plus validity flags.
type JointPose struct {
	Pose  spatialmath.Pose
	Flags JointFlags
}

// JointSet is the full exported result of one frame's solve, in canonical
// joint order. Active is set once export completes.
type JointSet struct {
	Joints [NumJoints]JointPose
	Active bool
}
