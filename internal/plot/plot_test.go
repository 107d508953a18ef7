package plot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/imu_world/internal/node"
	"github.com/relabs-tech/imu_world/internal/result"
)

func sampleResults() []result.NodeResult {
	return []result.NodeResult{
		{
			Label:    node.Label{NodeID: "node3"},
			Rotation: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		},
		{
			Label:    node.Label{NodeID: "node10", Acquisition: 4},
			Rotation: [3][3]float64{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}, // 90° yaw
		},
	}
}

func TestWritePNG(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "frames.png")
	require.NoError(t, WritePNG(path, "test frames", sampleResults()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWriteHTML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "frames.html")
	require.NoError(t, WriteHTML(path, "test frames", sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "node3 X")
	assert.Contains(t, content, "node10_4 Z")
	assert.Contains(t, content, "ENU X (East)")
}

func TestProjectKeepsUpAxisVertical(t *testing.T) {
	t.Parallel()

	up := project([3]float64{0, 0, 1})
	assert.Zero(t, up.X)
	assert.Equal(t, 1.0, up.Y)

	east := project([3]float64{1, 0, 0})
	north := project([3]float64{0, 1, 0})
	assert.Equal(t, east.Y, north.Y)
	assert.Equal(t, east.X, -north.X)
}
