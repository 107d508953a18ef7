package quat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("scales to unit length", func(t *testing.T) {
		t.Parallel()
		q := Quaternion{W: 2, X: 0, Y: 0, Z: 0}
		n, err := q.Normalize()
		require.NoError(t, err)
		assert.InDelta(t, 1.0, n.Norm(), 1e-12)
		assert.InDelta(t, 1.0, n.W, 1e-12)
	})

	t.Run("preserves direction", func(t *testing.T) {
		t.Parallel()
		q := Quaternion{W: 3, X: -3, Y: 3, Z: -3}
		n, err := q.Normalize()
		require.NoError(t, err)
		assert.InDelta(t, 0.5, n.W, 1e-12)
		assert.InDelta(t, -0.5, n.X, 1e-12)
	})

	t.Run("zero quaternion is degenerate", func(t *testing.T) {
		t.Parallel()
		_, err := Quaternion{}.Normalize()
		assert.ErrorIs(t, err, ErrDegenerateInput)
	})
}

func TestRotationMatrixOrthonormal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		q    Quaternion
	}{
		{"identity", Identity},
		{"yaw 90", Quaternion{W: math.Sqrt2 / 2, Z: math.Sqrt2 / 2}},
		{"half turn all axes", Quaternion{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5}},
		{"arbitrary", Quaternion{W: 0.36, X: 0.48, Y: -0.64, Z: 0.48}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			q, err := tc.q.Normalize()
			require.NoError(t, err)
			r := q.RotationMatrix()

			var rtr mat.Dense
			rtr.Mul(r.T(), r)
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					want := 0.0
					if i == j {
						want = 1.0
					}
					assert.InDelta(t, want, rtr.At(i, j), 1e-6, "RᵀR at %d,%d", i, j)
				}
			}
			assert.InDelta(t, 1.0, mat.Det(r), 1e-6)
		})
	}
}

func TestIdentityRotationMatrix(t *testing.T) {
	t.Parallel()

	r := Identity.RotationMatrix()
	assert.InDelta(t, 0.0, FrobeniusDistance(r, eye()), 1e-12)
}

func TestOrthonormalize(t *testing.T) {
	t.Parallel()

	t.Run("repairs a perturbed rotation", func(t *testing.T) {
		t.Parallel()
		q, err := Quaternion{W: 1, X: 0.2, Y: -0.1, Z: 0.3}.Normalize()
		require.NoError(t, err)
		r := q.RotationMatrix()

		perturbed := mat.NewDense(3, 3, nil)
		perturbed.Copy(r)
		perturbed.Set(0, 0, perturbed.At(0, 0)+1e-4)

		fixed := Orthonormalize(perturbed)
		var rtr mat.Dense
		rtr.Mul(fixed.T(), fixed)
		assert.InDelta(t, 0.0, FrobeniusDistance(&rtr, eye()), 1e-10)
		assert.InDelta(t, 1.0, mat.Det(fixed), 1e-10)
		assert.Less(t, FrobeniusDistance(fixed, r), 1e-3)
	})

	t.Run("flips a reflection to a proper rotation", func(t *testing.T) {
		t.Parallel()
		reflection := mat.NewDense(3, 3, []float64{
			1, 0, 0,
			0, 1, 0,
			0, 0, -1,
		})
		fixed := Orthonormalize(reflection)
		assert.InDelta(t, 1.0, mat.Det(fixed), 1e-10)
	})
}

func TestFrobeniusDistance(t *testing.T) {
	t.Parallel()

	a := eye()
	assert.Zero(t, FrobeniusDistance(a, a))

	b := mat.NewDense(3, 3, nil)
	b.Copy(a)
	b.Set(2, 2, 0)
	assert.InDelta(t, 1.0, FrobeniusDistance(a, b), 1e-12)
}

func eye() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}
