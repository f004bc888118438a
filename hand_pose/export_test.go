package handpose

import (
	"math"
	"testing"
)

func TestExportCanonicalLayout(t *testing.T) {
	h := NewHand(LeftHand, nil)
	h.export()
	set := h.set

	if !set.Active {
		t.Fatal("export did not mark the set active")
	}

	check := func(j JointID, want Transform) {
		t.Helper()
		got := set.Joints[j].Pose.Point()
		if got.Sub(want.Translation).Norm() > 1e-12 {
			t.Errorf("%v position %v, want %v", j, got, want.Translation)
		}
	}

	check(JointWrist, h.wrist)

	thumb := &h.fingers[FingerThumb]
	check(JointThumbProximal, thumb.bones[2].world)
	check(JointThumbDistal, thumb.bones[3].world)
	check(JointThumbTip, thumb.tipWorld)

	for f := FingerIndex; f <= FingerLittle; f++ {
		base := JointIndexMetacarpal + JointID((f-FingerIndex)*5)
		fg := &h.fingers[f]
		for b := 0; b < bonesPerFinger; b++ {
			check(base+JointID(b), fg.bones[b].world)
		}
		check(base+4, fg.tipWorld)
	}
}

func TestExportPalmSynthesis(t *testing.T) {
	h := NewHand(LeftHand, nil)
	h.export()

	middle := &h.fingers[FingerMiddle]
	wantPos := middle.bones[0].world.Translation.
		Add(middle.bones[1].world.Translation).Mul(0.5)

	palm := h.set.Joints[JointPalm]
	if palm.Pose.Point().Sub(wantPos).Norm() > 1e-12 {
		t.Errorf("palm position %v, want midpoint %v", palm.Pose.Point(), wantPos)
	}

	gotQ := palm.Pose.Orientation().Quaternion()
	wantQ := middle.bones[0].world.Rotation
	if quatAngleBetween(gotQ, wantQ) > 1e-9 {
		t.Errorf("palm orientation differs from middle metacarpal by %v rad", quatAngleBetween(gotQ, wantQ))
	}
}

func TestExportRightHandMirror(t *testing.T) {
	left := NewHand(LeftHand, nil)
	right := NewHand(RightHand, nil)
	left.export()
	right.export()

	for i := range left.set.Joints {
		lp := left.set.Joints[i].Pose.Point()
		rp := right.set.Joints[i].Pose.Point()
		if math.Abs(rp.X+lp.X) > 1e-12 || math.Abs(rp.Y-lp.Y) > 1e-12 || math.Abs(rp.Z-lp.Z) > 1e-12 {
			t.Fatalf("joint %v: right position %v is not the mirror of %v", JointID(i), rp, lp)
		}

		// Mirroring must not leak a reflection into the orientation.
		m := quatToRotationMatrix(right.set.Joints[i].Pose.Orientation().Quaternion())
		det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
			m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
			m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
		if math.Abs(det-1) > 1e-9 {
			t.Fatalf("joint %v: right orientation determinant %v, want +1", JointID(i), det)
		}
	}
}

func TestExportFlagsDemoteNonFinitePoses(t *testing.T) {
	h := NewHand(LeftHand, nil)
	h.fingers[FingerThumb].bones[2].world.Translation.X = math.NaN()
	h.export()

	if h.set.Joints[JointThumbProximal].Flags != 0 {
		t.Errorf("poisoned joint still flagged tracked: %b", h.set.Joints[JointThumbProximal].Flags)
	}
	if !h.set.Joints[JointWrist].Flags.Has(flagsFullyTracked) {
		t.Error("healthy wrist joint lost its tracked flags")
	}
	if !h.set.Active {
		t.Error("set should still be active; validity is per joint")
	}
}

func TestJointNames(t *testing.T) {
	cases := map[JointID]string{
		JointWrist:             "wrist",
		JointPalm:              "palm",
		JointThumbTip:          "thumb_tip",
		JointIndexMetacarpal:   "index_metacarpal",
		JointMiddleProximal:    "middle_proximal",
		JointRingIntermediate:  "ring_intermediate",
		JointLittleTip:         "little_tip",
		JointID(NumJoints + 3): "unknown",
	}
	for id, want := range cases {
		if got := id.String(); got != want {
			t.Errorf("JointID(%d).String() = %q, want %q", id, got, want)
		}
	}

	seen := map[string]bool{}
	for i := 0; i < NumJoints; i++ {
		name := JointID(i).String()
		if seen[name] {
			t.Errorf("duplicate joint name %q", name)
		}
		seen[name] = true
	}
}

func TestParseHandedness(t *testing.T) {
	for in, want := range map[string]Handedness{
		"left": LeftHand, "Right": RightHand, " LEFT ": LeftHand,
	} {
		got, err := ParseHandedness(in)
		if err != nil || got != want {
			t.Errorf("ParseHandedness(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseHandedness("both"); err == nil {
		t.Error("ParseHandedness accepted an unknown value")
	}
}
