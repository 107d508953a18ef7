package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/imu_world/internal/quat"
)

func TestRotationRoundTrip(t *testing.T) {
	t.Parallel()

	q, err := quat.Quaternion{W: 0.7, X: 0.1, Y: -0.2, Z: 0.3}.Normalize()
	require.NoError(t, err)
	r := q.RotationMatrix()

	n := NodeResult{Rotation: RotationRows(r)}
	assert.InDelta(t, 0.0, quat.FrobeniusDistance(r, n.Matrix()), 1e-15)
}

func TestAxisIsMatrixColumn(t *testing.T) {
	t.Parallel()

	// 90° yaw: body X maps to world Y, body Y to world -X.
	n := NodeResult{Rotation: [3][3]float64{
		{0, -1, 0},
		{1, 0, 0},
		{0, 0, 1},
	}}
	assert.Equal(t, [3]float64{0, 1, 0}, n.Axis(0))
	assert.Equal(t, [3]float64{-1, 0, 0}, n.Axis(1))
	assert.Equal(t, [3]float64{0, 0, 1}, n.Axis(2))
}
