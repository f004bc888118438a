package handpose

import "errors"

var (
	// ErrKeypointCount is returned when an input frame does not contain
	// exactly NumKeypoints landmarks.
	ErrKeypointCount = errors.New("keypoint frame must contain exactly 21 landmarks")

	// ErrUnknownHandedness is returned when a handedness string is neither
	// "left" nor "right".
	ErrUnknownHandedness = errors.New("unknown handedness")

	// ErrBadIterationCount is returned when a config specifies a
	// non-positive optimization iteration count.
	ErrBadIterationCount = errors.New("iteration count must be positive")

	// ErrBadGeometry is returned when a config specifies a non-positive
	// bone segment length.
	ErrBadGeometry = errors.New("bone segment lengths must be positive")

	// ErrBadConstraint is returned when a config specifies an inverted or
	// negative constraint range.
	ErrBadConstraint = errors.New("constraint bounds are inverted or negative")
)
