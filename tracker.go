// Package handkinematics turns per-frame 3D hand landmarks from an external
// perception model into anatomically constrained joint poses. The numerical
// solver lives in the hand_pose package; this package owns tracking-session
// lifecycle around it.
package handkinematics

import (
	"fmt"
	"sync"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"

	handpose "github.com/biotinker/handkinematics/hand_pose"
)

// defaultFrameName is the reference frame exported poses are reported in
// when the caller does not name one.
const defaultFrameName = "camera"

// Tracker owns one kinematic solver per tracked hand. A session starts the
// first time a hand is observed, persists its solver across frames (each
// frame warm-starts from the last), and ends when the hand is dropped.
//
// Observe may be called concurrently for different hands, since the two
// solvers share no state, but each hand must be observed from one goroutine
// at a time.
type Tracker struct {
	logger logging.Logger
	cfg    handpose.Config
	frame  string

	mu    sync.Mutex
	hands map[handpose.Handedness]*handpose.Hand
}

// TrackerOption customizes a Tracker.
type TrackerOption func(*Tracker)

// WithConfig replaces the default solver configuration.
func WithConfig(cfg handpose.Config) TrackerOption {
	return func(t *Tracker) {
		t.cfg = cfg
	}
}

// WithFrame names the reference frame the input keypoints (and therefore the
// exported joints) are expressed in.
func WithFrame(name string) TrackerOption {
	return func(t *Tracker) {
		t.frame = name
	}
}

// NewTracker creates a Tracker with no active sessions.
func NewTracker(logger logging.Logger, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		logger: logger,
		cfg:    handpose.DefaultConfig(),
		frame:  defaultFrameName,
		hands:  make(map[handpose.Handedness]*handpose.Hand),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Observe feeds one frame of keypoints for the given hand and returns the
// solved joint set. The first observation of a hand starts its session.
func (t *Tracker) Observe(hand handpose.Handedness, keypoints []r3.Vector) (*handpose.JointSet, error) {
	t.mu.Lock()
	solver, ok := t.hands[hand]
	if !ok {
		solver = handpose.NewHand(hand, &t.cfg)
		t.hands[hand] = solver
		t.logger.Infof("started tracking %s hand", hand)
	}
	t.mu.Unlock()

	set, err := solver.Solve(keypoints)
	if err != nil {
		return nil, fmt.Errorf("solving %s hand: %w", hand, err)
	}
	return set, nil
}

// Drop ends a hand's tracking session, discarding its solver state. The next
// observation of that hand starts a fresh session from the rest pose.
func (t *Tracker) Drop(hand handpose.Handedness) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.hands[hand]; ok {
		delete(t.hands, hand)
		t.logger.Infof("stopped tracking %s hand", hand)
	}
}

// Tracking reports whether a session is active for the given hand.
func (t *Tracker) Tracking(hand handpose.Handedness) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.hands[hand]
	return ok
}

// PosesInFrame wraps every fully tracked joint of a solved set as a
// PoseInFrame in the tracker's reference frame, in canonical joint order.
// Untracked joints are omitted.
func (t *Tracker) PosesInFrame(set *handpose.JointSet) []*referenceframe.PoseInFrame {
	if set == nil || !set.Active {
		return nil
	}
	out := make([]*referenceframe.PoseInFrame, 0, len(set.Joints))
	for i := range set.Joints {
		jp := &set.Joints[i]
		if !jp.Flags.Has(handpose.FlagPositionTracked | handpose.FlagOrientationTracked) {
			continue
		}
		out = append(out, referenceframe.NewPoseInFrame(t.frame, jp.Pose))
	}
	return out
}
