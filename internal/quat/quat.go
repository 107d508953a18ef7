// Package quat holds the quaternion primitives shared by the heading
// pipeline: normalization, Hamilton quaternion-to-matrix conversion and
// the polar re-orthonormalization applied to averaged rotations.
package quat

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateInput is returned when a quaternion (or an averaged
// quaternion) has a norm too small to normalize, i.e. the sample
// carries no usable orientation.
var ErrDegenerateInput = errors.New("degenerate input: quaternion norm below tolerance")

// NormTolerance is the smallest norm we are willing to divide by.
const NormTolerance = 1e-12

// Quaternion is a rotation in Hamilton convention, ordered (w, x, y, z).
// Sign is not canonicalized: q and -q represent the same rotation.
type Quaternion struct {
	W float64 `json:"qw"`
	X float64 `json:"qx"`
	Y float64 `json:"qy"`
	Z float64 `json:"qz"`
}

// Identity is the no-rotation quaternion.
var Identity = Quaternion{W: 1}

// Norm returns the Euclidean norm of q.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize returns q scaled to unit length. A norm below NormTolerance
// yields ErrDegenerateInput.
func (q Quaternion) Normalize() (Quaternion, error) {
	n := q.Norm()
	if n < NormTolerance {
		return Quaternion{}, ErrDegenerateInput
	}
	return Quaternion{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}, nil
}

// Dot returns the four-component dot product of q and p. Its sign tells
// whether the two quaternions lie in the same hemisphere of the
// double-cover of SO(3).
func (q Quaternion) Dot(p Quaternion) float64 {
	return q.W*p.W + q.X*p.X + q.Y*p.Y + q.Z*p.Z
}

// Neg returns -q, which represents the same rotation as q.
func (q Quaternion) Neg() Quaternion {
	return Quaternion{W: -q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// RotationMatrix converts q into a 3x3 rotation matrix using the
// standard Hamilton formula. q must be normalized; the result is then
// orthonormal with determinant +1 to floating precision.
func (q Quaternion) RotationMatrix() *mat.Dense {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
}

// Orthonormalize projects r onto the closest rotation matrix via polar
// decomposition (SVD): R = U * Vᵀ, with the last column of U flipped
// when the product would have a negative determinant.
func Orthonormalize(r *mat.Dense) *mat.Dense {
	var svd mat.SVD
	if ok := svd.Factorize(r, mat.SVDFull); !ok {
		// Factorization only fails on pathological input; the caller
		// always passes a near-rotation, so keep it unchanged.
		out := mat.NewDense(3, 3, nil)
		out.Copy(r)
		return out
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	out := mat.NewDense(3, 3, nil)
	out.Mul(&u, v.T())

	if mat.Det(out) < 0 {
		for i := 0; i < 3; i++ {
			u.Set(i, 2, -u.At(i, 2))
		}
		out.Mul(&u, v.T())
	}
	return out
}

// FrobeniusDistance returns the Frobenius norm of a-b.
func FrobeniusDistance(a, b mat.Matrix) float64 {
	diff := mat.NewDense(3, 3, nil)
	diff.Sub(a, b)
	return mat.Norm(diff, 2)
}
