package handpose

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// alignWrist computes the least-squares rigid transform carrying the model's
// 21 current joint positions onto the target keypoints and left-composes it
// onto the wrist relation, then refreshes the kinematic tree. Scale is fixed
// to one; degenerate (collinear or duplicate) keypoint configurations are
// accepted with whatever rotation the decomposition yields.
func (h *Hand) alignWrist() {
	h.fillJointMatrix()
	correction := rigidCorrection(h.jointMat, h.targetMat)
	h.wrist = correction.Compose(h.wrist)
	h.refreshWorldPoses()
}

// rigidCorrection solves the scale-free Procrustes problem mapping the
// columns of src onto the columns of dst: the Kabsch construction, with the
// singular-vector sign fix that keeps the result a proper rotation.
func rigidCorrection(src, dst *mat.Dense) Transform {
	_, n := src.Dims()
	inv := 1.0 / float64(n)

	var srcMean, dstMean [3]float64
	for i := 0; i < n; i++ {
		for r := 0; r < 3; r++ {
			srcMean[r] += src.At(r, i) * inv
			dstMean[r] += dst.At(r, i) * inv
		}
	}

	// Cross-covariance of the centered point sets.
	cov := mat.NewDense(3, 3, nil)
	for i := 0; i < n; i++ {
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				cov.Set(r, c, cov.At(r, c)+
					(src.At(r, i)-srcMean[r])*(dst.At(c, i)-dstMean[c]))
			}
		}
	}

	var svd mat.SVD
	if !svd.Factorize(cov, mat.SVDFull) {
		return NewTransform()
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var rot mat.Dense
	rot.Mul(&v, u.T())
	if mat.Det(&rot) < 0 {
		// Reflection case: flip the axis of least variance.
		for r := 0; r < 3; r++ {
			v.Set(r, 2, -v.At(r, 2))
		}
		rot.Mul(&v, u.T())
	}

	var rm [3][3]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			rm[r][c] = rot.At(r, c)
		}
	}
	q := rotationMatrixToQuat(rm)

	rotatedMean := rotateVector(q, vecFromArray(srcMean))
	return Transform{
		Rotation:    q,
		Translation: vecFromArray(dstMean).Sub(rotatedMean),
	}
}

func vecFromArray(a [3]float64) r3.Vector {
	return r3.Vector{X: a[0], Y: a[1], Z: a[2]}
}
