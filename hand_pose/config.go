package handpose

import (
	"fmt"
	"math"

	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
)

// Config holds everything tunable about the solver: the optimization budget,
// the hand's rest-pose geometry, and the anatomical constraint table.
type Config struct {
	// Iterations is the fixed outer-loop budget per frame. There is no
	// convergence check; the count bounds worst-case latency.
	Iterations int

	Geometry    HandGeometry
	Constraints ConstraintTable
}

// HandGeometry describes the rest-pose skeleton, one entry per finger in
// thumb-to-little order.
type HandGeometry [numFingers]FingerGeometry

// FingerGeometry fixes a finger's bone translations. At rest every segment
// extends along the bone-forward (-Z) axis from its root.
type FingerGeometry struct {
	// Root is the metacarpal root offset from the wrist, in the wrist frame.
	Root r3.Vector
	// Lengths are the segment lengths in meters: metacarpal, proximal,
	// intermediate, distal.
	Lengths [bonesPerFinger]float64
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// DefaultConfig returns the compiled-in solver defaults: a 15-iteration
// budget, an average adult hand, and the standard anatomical limits.
func DefaultConfig() Config {
	return Config{
		Iterations: 15,
		Geometry: HandGeometry{
			FingerThumb:  {Root: r3.Vector{X: 0.030, Y: -0.010, Z: -0.015}, Lengths: [4]float64{0.025, 0.040, 0.032, 0.028}},
			FingerIndex:  {Root: r3.Vector{X: 0.020, Y: 0, Z: -0.010}, Lengths: [4]float64{0.060, 0.040, 0.025, 0.023}},
			FingerMiddle: {Root: r3.Vector{X: 0.005, Y: 0, Z: -0.010}, Lengths: [4]float64{0.058, 0.044, 0.028, 0.024}},
			FingerRing:   {Root: r3.Vector{X: -0.010, Y: 0, Z: -0.010}, Lengths: [4]float64{0.054, 0.040, 0.027, 0.024}},
			FingerLittle: {Root: r3.Vector{X: -0.024, Y: 0, Z: -0.012}, Lengths: [4]float64{0.049, 0.032, 0.021, 0.022}},
		},
		Constraints: defaultConstraints(),
	}
}

// defaultConstraints builds the anatomical limit table. The thumb's
// metacarpal is a fixed offset; its proximal bone gets a wide swing-twist
// range and the remaining two bones hinge between deep flexion and moderate
// hyper-extension. The other fingers allow only a few degrees of metacarpal
// swing, then hinge with progressively narrower ranges toward the tip.
func defaultConstraints() ConstraintTable {
	var t ConstraintTable

	t[FingerThumb][0] = BoneConstraint{Kind: ConstraintFixed}
	t[FingerThumb][1] = BoneConstraint{
		Kind: ConstraintSwingTwist,
		SwingTwist: SwingTwistLimits{
			MaxTwist:    rad(70),
			TanLeft:     math.Tan(rad(-40)),
			TanRight:    math.Tan(rad(40)),
			TanCurled:   math.Tan(rad(-40)),
			TanUncurled: math.Tan(rad(40)),
		},
	}
	for _, b := range []int{2, 3} {
		t[FingerThumb][b] = BoneConstraint{
			Kind:  ConstraintHinge,
			Hinge: HingeLimits{Axis: AxisX, MinAngle: rad(-90), MaxAngle: rad(40)},
		}
	}

	hingeRanges := [bonesPerFinger]HingeLimits{
		1: {Axis: AxisX, MinAngle: rad(-100), MaxAngle: rad(30)},
		2: {Axis: AxisX, MinAngle: rad(-90), MaxAngle: rad(10)},
		3: {Axis: AxisX, MinAngle: rad(-80), MaxAngle: rad(10)},
	}
	for f := FingerIndex; f <= FingerLittle; f++ {
		t[f][0] = BoneConstraint{
			Kind: ConstraintSwingTwist,
			SwingTwist: SwingTwistLimits{
				MaxTwist:    rad(4),
				TanLeft:     math.Tan(rad(-30)),
				TanRight:    math.Tan(rad(30)),
				TanCurled:   math.Tan(rad(-10)),
				TanUncurled: math.Tan(rad(10)),
			},
		}
		for b := 1; b < bonesPerFinger; b++ {
			t[f][b] = BoneConstraint{Kind: ConstraintHinge, Hinge: hingeRanges[b]}
		}
	}
	return t
}

// ConfigFromMap decodes tuning overrides from a JSON-derived map over the
// defaults. Only keys present in the map are changed.
func ConfigFromMap(m map[string]interface{}) (Config, error) {
	cfg := DefaultConfig()
	if err := mapstructure.Decode(m, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode solver config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the config describes a solvable hand.
func (c *Config) Validate() error {
	if c.Iterations <= 0 {
		return ErrBadIterationCount
	}
	for f := range c.Geometry {
		for b, l := range c.Geometry[f].Lengths {
			if l <= 0 {
				return fmt.Errorf("%w: finger %d segment %d", ErrBadGeometry, f, b)
			}
		}
	}
	for f := range c.Constraints {
		for b, bc := range c.Constraints[f] {
			switch bc.Kind {
			case ConstraintHinge:
				if bc.Hinge.MinAngle > bc.Hinge.MaxAngle {
					return fmt.Errorf("%w: finger %d bone %d hinge", ErrBadConstraint, f, b)
				}
			case ConstraintSwingTwist:
				st := bc.SwingTwist
				if st.MaxTwist < 0 || st.TanLeft > st.TanRight || st.TanCurled > st.TanUncurled {
					return fmt.Errorf("%w: finger %d bone %d swing-twist", ErrBadConstraint, f, b)
				}
			}
		}
	}
	return nil
}
