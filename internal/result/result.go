// Package result defines the per-node output records exchanged between
// the batch pipeline and the reporting, plotting, MQTT and web layers.
package result

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/relabs-tech/imu_world/internal/euler"
	"github.com/relabs-tech/imu_world/internal/node"
	"github.com/relabs-tech/imu_world/internal/quat"
)

// NodeResult is the complete orientation estimate for one recording.
// Assembled once by the pipeline and read-only afterwards.
type NodeResult struct {
	Label          node.Label      `json:"label"`
	SamplesUsed    int             `json:"samples_used"`
	SamplesSkipped int             `json:"samples_skipped,omitempty"`
	MeanQuaternion quat.Quaternion `json:"mean_quaternion"`
	Rotation       [3][3]float64   `json:"rotation"`
	Extrinsic      euler.Angles    `json:"extrinsic"`
	Intrinsic      euler.Angles    `json:"intrinsic"`
	ExtrinsicError float64         `json:"extrinsic_error"`
	IntrinsicError float64         `json:"intrinsic_error"`
}

// Skipped records a node that produced no result, with the reason the
// orchestrator attached when it caught the error.
type Skipped struct {
	Label  node.Label `json:"label"`
	Reason string     `json:"reason"`
}

// Summary is the output of one batch run: valid results sorted by
// (node_id, acquisition_id) plus the nodes that were skipped.
type Summary struct {
	GeneratedAt  time.Time    `json:"generated_at"`
	SampleWindow int          `json:"sample_window"`
	Results      []NodeResult `json:"results"`
	Skipped      []Skipped    `json:"skipped,omitempty"`
}

// RotationRows copies a 3x3 matrix into a JSON-friendly array.
func RotationRows(r *mat.Dense) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r.At(i, j)
		}
	}
	return out
}

// Matrix rebuilds the rotation as a mat.Dense.
func (n *NodeResult) Matrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		n.Rotation[0][0], n.Rotation[0][1], n.Rotation[0][2],
		n.Rotation[1][0], n.Rotation[1][1], n.Rotation[1][2],
		n.Rotation[2][0], n.Rotation[2][1], n.Rotation[2][2],
	})
}

// Axis returns body axis i (0=X, 1=Y, 2=Z) expressed in the world
// frame, i.e. column i of the rotation matrix.
func (n *NodeResult) Axis(i int) [3]float64 {
	return [3]float64{n.Rotation[0][i], n.Rotation[1][i], n.Rotation[2][i]}
}
