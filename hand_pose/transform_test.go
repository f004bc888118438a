package handpose

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

func quatNorm(q quat.Number) float64 {
	return quat.Abs(q)
}

func r3Vec(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

func randomUnitVector(rng *rand.Rand) r3.Vector {
	for {
		v := r3.Vector{
			X: rng.Float64()*2 - 1,
			Y: rng.Float64()*2 - 1,
			Z: rng.Float64()*2 - 1,
		}
		if n := v.Norm(); n > 0.1 {
			return v.Mul(1 / n)
		}
	}
}

func randomRotation(rng *rand.Rand) quat.Number {
	return axisAngleQuat(randomUnitVector(rng), rng.Float64()*2*math.Pi-math.Pi)
}

func TestTransformComposeInverse(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		a := Transform{Rotation: randomRotation(rng), Translation: randomUnitVector(rng).Mul(rng.Float64())}
		b := Transform{Rotation: randomRotation(rng), Translation: randomUnitVector(rng).Mul(rng.Float64())}
		p := randomUnitVector(rng).Mul(rng.Float64() * 3)

		// Composing then applying must equal applying in sequence.
		got := a.Compose(b).TransformPoint(p)
		want := a.TransformPoint(b.TransformPoint(p))
		if got.Sub(want).Norm() > 1e-9 {
			t.Fatalf("compose mismatch: got %v want %v", got, want)
		}

		// A transform composed with its inverse is the identity.
		round := a.Compose(a.Inverse()).TransformPoint(p)
		if round.Sub(p).Norm() > 1e-9 {
			t.Fatalf("inverse roundtrip moved point by %v", round.Sub(p).Norm())
		}
	}
}

func TestQuatBetweenVectors(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 100; i++ {
		from := randomUnitVector(rng)
		to := randomUnitVector(rng)
		q := quatBetweenVectors(from, to)

		if math.Abs(quatNorm(q)-1) > 1e-9 {
			t.Fatalf("rotation norm %v not unit", quatNorm(q))
		}
		got := rotateVector(q, from)
		if got.Sub(to).Norm() > 1e-9 {
			t.Fatalf("rotation sends %v to %v, want %v", from, got, to)
		}
	}
}

func TestQuatBetweenVectorsAntiparallel(t *testing.T) {
	vectors := []r3.Vector{
		{X: 1}, {Y: 1}, {Z: -1},
		{X: 0.577, Y: 0.577, Z: 0.577},
	}
	for _, v := range vectors {
		v = v.Normalize()
		q := quatBetweenVectors(v, v.Mul(-1))

		if !quatFinite(q) {
			t.Fatalf("antiparallel rotation for %v is not finite: %v", v, q)
		}
		if math.Abs(quatNorm(q)-1) > 1e-9 {
			t.Fatalf("antiparallel rotation for %v has norm %v", v, quatNorm(q))
		}
		got := rotateVector(q, v)
		if got.Sub(v.Mul(-1)).Norm() > 1e-9 {
			t.Fatalf("antiparallel rotation sends %v to %v", v, got)
		}
	}
}

func TestRotationMatrixRoundtrip(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 100; i++ {
		q := randomRotation(rng)
		m := quatToRotationMatrix(q)
		back := rotationMatrixToQuat(m)

		// q and -q encode the same rotation; compare their action.
		v := randomUnitVector(rng)
		a := rotateVector(q, v)
		b := rotateVector(back, v)
		if a.Sub(b).Norm() > 1e-9 {
			t.Fatalf("matrix roundtrip changed rotation action: %v vs %v", a, b)
		}
	}
}

func TestQuatToAxisAngle(t *testing.T) {
	axis := r3.Vector{X: 0, Y: 1, Z: 0}
	angle := 1.25
	gotAxis, gotAngle := quatToAxisAngle(axisAngleQuat(axis, angle))
	if math.Abs(gotAngle-angle) > 1e-9 || gotAxis.Sub(axis).Norm() > 1e-9 {
		t.Fatalf("axis-angle roundtrip: got axis %v angle %v", gotAxis, gotAngle)
	}

	// Negative angles come back as positive angles about the flipped axis.
	gotAxis, gotAngle = quatToAxisAngle(axisAngleQuat(axis, -angle))
	if math.Abs(gotAngle-angle) > 1e-9 || gotAxis.Sub(axis.Mul(-1)).Norm() > 1e-9 {
		t.Fatalf("negative axis-angle roundtrip: got axis %v angle %v", gotAxis, gotAngle)
	}

	// Identity has a zero angle and a deterministic axis.
	gotAxis, gotAngle = quatToAxisAngle(identityQuat())
	if gotAngle != 0 {
		t.Fatalf("identity angle %v", gotAngle)
	}
	_ = gotAxis
}
