package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/imu_world/internal/config"
	"github.com/relabs-tech/imu_world/internal/euler"
	"github.com/relabs-tech/imu_world/internal/node"
	"github.com/relabs-tech/imu_world/internal/quat"
)

const (
	identityRows = "qw,qx,qy,qz\n1,0,0,0\n1,0,0,0\n1,0,0,0\n"
	yaw90Rows    = "qw,qx,qy,qz\n0.7071,0,0,0.7071\n0.7071,0,0,0.7071\n"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func testConfig(dir string, workers int) *config.Config {
	return &config.Config{
		InputDir:     dir,
		FilePattern:  "node*.csv",
		SampleWindow: 100,
		Workers:      workers,
	}
}

func TestComputeBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCSV(t, dir, "node3.csv", identityRows)
	writeCSV(t, dir, "node10_4.csv", yaw90Rows)
	writeCSV(t, dir, "node5.csv", "time_s,qw,qx,qy\n0,1,0,0\n")  // qz missing
	writeCSV(t, dir, "node6.csv", "qw,qx,qy,qz\n0,0,0,0\n")      // all zero-norm

	summary, err := ComputeBatch(testConfig(dir, 1), nil)
	require.NoError(t, err)

	// Sorted by (node_id, acquisition_id): node10 before node3 lexically.
	require.Len(t, summary.Results, 2)
	assert.Equal(t, node.Label{NodeID: "node10", Acquisition: 4}, summary.Results[0].Label)
	assert.Equal(t, node.Label{NodeID: "node3"}, summary.Results[1].Label)

	require.Len(t, summary.Skipped, 2)
	assert.Equal(t, "node5", summary.Skipped[0].Label.NodeID)
	assert.Contains(t, summary.Skipped[0].Reason, "qz")
	assert.Equal(t, "node6", summary.Skipped[1].Label.NodeID)

	// node10_4: 90° yaw about Z under both conventions.
	got := summary.Results[0]
	assert.Equal(t, 2, got.SamplesUsed)
	approx := cmpopts.EquateApprox(0, 1e-6)
	assert.Empty(t, cmp.Diff(euler.Angles{Yaw: 90, Convention: euler.Extrinsic}, got.Extrinsic, approx))
	assert.Empty(t, cmp.Diff(euler.Angles{Yaw: 90, Convention: euler.Intrinsic}, got.Intrinsic, approx))
	assert.Less(t, got.ExtrinsicError, 1e-6)
	assert.Less(t, got.IntrinsicError, 1e-6)

	// node3: identity orientation.
	id := summary.Results[1]
	assert.InDelta(t, 1.0, id.MeanQuaternion.W, 1e-9)
	assert.InDelta(t, 0.0, id.Extrinsic.Roll, 1e-9)
	assert.InDelta(t, 0.0, id.Intrinsic.Yaw, 1e-9)
}

func TestComputeBatchParallelOrderingIsDeterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"node3.csv", "node4.csv", "node7_1.csv", "node7_2.csv", "node10.csv", "node11.csv"} {
		writeCSV(t, dir, name, identityRows)
	}

	sequential, err := ComputeBatch(testConfig(dir, 1), nil)
	require.NoError(t, err)
	parallel, err := ComputeBatch(testConfig(dir, 4), nil)
	require.NoError(t, err)

	require.Equal(t, len(sequential.Results), len(parallel.Results))
	for i := range sequential.Results {
		assert.Equal(t, sequential.Results[i].Label, parallel.Results[i].Label)
	}
}

func TestComputeBatchSelector(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCSV(t, dir, "node3.csv", identityRows)
	writeCSV(t, dir, "node13.csv", identityRows)

	summary, err := ComputeBatch(testConfig(dir, 1), node.NumberRange(1, 12))
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, "node3", summary.Results[0].Label.NodeID)

	_, err = ComputeBatch(testConfig(dir, 1), node.NumberRange(20, 30))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selector rejected")
}

func TestComputeBatchNoValidResult(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCSV(t, dir, "node1.csv", "time_s,qw\n0,1\n")
	writeCSV(t, dir, "node2.csv", "qw,qx,qy,qz\n0,0,0,0\n")

	_, err := ComputeBatch(testConfig(dir, 1), nil)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestComputeBatchEmptyDir(t *testing.T) {
	t.Parallel()

	_, err := ComputeBatch(testConfig(t.TempDir(), 1), nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no node*.csv files"))
}

func TestProcessRecordingWindow(t *testing.T) {
	t.Parallel()

	rec := &node.Recording{Label: node.Label{NodeID: "node4"}}
	for i := 0; i < 7; i++ {
		rec.Samples = append(rec.Samples, quat.Identity)
	}

	res, err := ProcessRecording(rec, 100)
	require.NoError(t, err)
	assert.Equal(t, 7, res.SamplesUsed, "window clamps to the recording length")

	res, err = ProcessRecording(rec, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.SamplesUsed)

	_, err = ProcessRecording(&node.Recording{Label: rec.Label}, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, quat.ErrDegenerateInput)
}
