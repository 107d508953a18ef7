// Package euler decomposes rotation matrices into Roll-Pitch-Yaw
// angles under two conventions and rebuilds matrices from them so the
// decomposition can be checked numerically.
//
// Extrinsic: successive rotations about the fixed world axes, composed
// as R = Rz(yaw) * Ry(pitch) * Rx(roll).
//
// Intrinsic: successive rotations about the axes as they move with the
// body (roll about X, pitch about the new Y, yaw about the new Z),
// composed as R = Rx(roll) * Ry(pitch) * Rz(yaw).
package euler

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/relabs-tech/imu_world/internal/quat"
)

// Convention identifies which Euler composition order an Angles value
// was extracted under.
type Convention string

const (
	Extrinsic Convention = "extrinsic"
	Intrinsic Convention = "intrinsic"
)

// GimbalTolerance bounds how close the singular matrix element must be
// to ±1 before the decomposition is treated as gimbal-locked.
const GimbalTolerance = 1e-6

// Angles is one Roll-Pitch-Yaw split of a rotation, in degrees.
//
// GimbalLock marks the degenerate pitch = ±90° case: the angles are
// still valid (yaw is forced to zero and roll absorbs the combined
// rotation) but the roll/yaw split itself is arbitrary.
type Angles struct {
	Roll       float64    `json:"roll_deg"`
	Pitch      float64    `json:"pitch_deg"`
	Yaw        float64    `json:"yaw_deg"`
	Convention Convention `json:"convention"`
	GimbalLock bool       `json:"gimbal_lock"`
}

// Decompose extracts the Roll-Pitch-Yaw angles of r under the given
// convention. It is total for orthonormal input: gimbal lock is
// flagged, never an error.
func Decompose(r *mat.Dense, c Convention) Angles {
	if c == Intrinsic {
		return intrinsic(r)
	}
	return extrinsic(r)
}

// extrinsic extracts angles for R = Rz(yaw)*Ry(pitch)*Rx(roll).
// The singular element is R[2,0] = -sin(pitch).
func extrinsic(r *mat.Dense) Angles {
	a := Angles{Convention: Extrinsic}
	sp := -r.At(2, 0)

	if math.Abs(sp) >= 1-GimbalTolerance {
		a.GimbalLock = true
		a.Pitch = math.Copysign(90, sp)
		a.Yaw = 0
		if sp > 0 {
			a.Roll = deg(math.Atan2(r.At(0, 1), r.At(1, 1)))
		} else {
			a.Roll = deg(math.Atan2(-r.At(0, 1), r.At(1, 1)))
		}
		return a
	}

	a.Pitch = deg(math.Asin(sp))
	a.Roll = deg(math.Atan2(r.At(2, 1), r.At(2, 2)))
	a.Yaw = deg(math.Atan2(r.At(1, 0), r.At(0, 0)))
	return a
}

// intrinsic extracts angles for R = Rx(roll)*Ry(pitch)*Rz(yaw).
// The singular element is R[0,2] = sin(pitch).
func intrinsic(r *mat.Dense) Angles {
	a := Angles{Convention: Intrinsic}
	sp := r.At(0, 2)

	if math.Abs(sp) >= 1-GimbalTolerance {
		a.GimbalLock = true
		a.Pitch = math.Copysign(90, sp)
		a.Yaw = 0
		if sp > 0 {
			a.Roll = deg(math.Atan2(r.At(1, 0), r.At(1, 1)))
		} else {
			a.Roll = deg(math.Atan2(-r.At(1, 0), r.At(1, 1)))
		}
		return a
	}

	a.Pitch = deg(math.Asin(sp))
	a.Roll = deg(math.Atan2(-r.At(1, 2), r.At(2, 2)))
	a.Yaw = deg(math.Atan2(-r.At(0, 1), r.At(0, 0)))
	return a
}

// Matrix rebuilds the rotation matrix from a using the composition
// order matching its convention.
func (a Angles) Matrix() *mat.Dense {
	rx := rotX(rad(a.Roll))
	ry := rotY(rad(a.Pitch))
	rz := rotZ(rad(a.Yaw))

	out := mat.NewDense(3, 3, nil)
	tmp := mat.NewDense(3, 3, nil)
	if a.Convention == Intrinsic {
		tmp.Mul(ry, rz)
		out.Mul(rx, tmp)
	} else {
		tmp.Mul(ry, rx)
		out.Mul(rz, tmp)
	}
	return out
}

// ReconstructionError rebuilds a matrix from a and returns the
// Frobenius distance to the original r. An error above ~0.01 points at
// a decomposition-formula bug, not at sensor inaccuracy.
func ReconstructionError(r *mat.Dense, a Angles) float64 {
	return quat.FrobeniusDistance(r, a.Matrix())
}

func rotX(t float64) *mat.Dense {
	c, s := math.Cos(t), math.Sin(t)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

func rotY(t float64) *mat.Dense {
	c, s := math.Cos(t), math.Sin(t)
	return mat.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

func rotZ(t float64) *mat.Dense {
	c, s := math.Cos(t), math.Sin(t)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }

func rad(deg float64) float64 { return deg * math.Pi / 180 }
