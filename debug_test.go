package handkinematics

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"go.viam.com/rdk/logging"

	handpose "github.com/biotinker/handkinematics/hand_pose"
)

func TestWriteJointCloud(t *testing.T) {
	tr := NewTracker(logging.NewTestLogger(t))
	kps := restKeypoints(t, false)
	set, err := tr.Observe(handpose.LeftHand, kps)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJointCloud(&buf, set, kps); err != nil {
		t.Fatalf("WriteJointCloud: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "VERSION") {
		t.Fatalf("output does not look like a PCD file:\n%.80s", out)
	}

	// Joints and keypoints overlap heavily at rest, so only a loose size
	// bound holds. The declared point count must match the data section.
	var points int
	for _, line := range strings.Split(out, "\n") {
		if n, err := fmt.Sscanf(line, "POINTS %d", &points); err == nil && n == 1 {
			break
		}
	}
	if points == 0 || points > handpose.NumJoints+handpose.NumKeypoints {
		t.Fatalf("declared point count %d out of range", points)
	}
	_, data, found := strings.Cut(out, "DATA ascii\n")
	if !found {
		t.Fatal("missing DATA ascii section")
	}
	if got := strings.Count(strings.TrimRight(data, "\n"), "\n") + 1; got != points {
		t.Fatalf("data rows %d, declared %d", got, points)
	}
}

func TestWriteJointCloudNilSet(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJointCloud(&buf, nil, restKeypoints(t, false)); err != nil {
		t.Fatalf("WriteJointCloud: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected keypoint-only output")
	}
}
