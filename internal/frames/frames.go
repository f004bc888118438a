// Package frames loads recorded keypoint frames for offline replay through
// the solver.
package frames

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/geo/r3"
)

// Frame is one recorded observation of a single hand: which hand it is and
// its 21 landmark positions.
type Frame struct {
	Hand      string       `json:"hand"`
	Keypoints [][3]float64 `json:"keypoints"`
}

// Vectors converts the frame's landmarks to vectors.
func (f *Frame) Vectors() []r3.Vector {
	out := make([]r3.Vector, len(f.Keypoints))
	for i, kp := range f.Keypoints {
		out[i] = r3.Vector{X: kp[0], Y: kp[1], Z: kp[2]}
	}
	return out
}

// Recording is a sequence of frames captured from one perception stream.
type Recording struct {
	FrameName string  `json:"frame_name,omitempty"`
	Frames    []Frame `json:"frames"`
}

// Load reads and parses a recording from a JSON file.
func Load(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recording file: %w", err)
	}
	var r Recording
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing recording file: %w", err)
	}
	return &r, nil
}
