// Package report prints the textual angle report for a batch run.
package report

import (
	"fmt"
	"io"

	"github.com/relabs-tech/imu_world/internal/result"
)

// ReconstructionWarnThreshold flags reconstruction errors that point
// at a decomposition bug rather than at measurement noise.
const ReconstructionWarnThreshold = 0.01

// Write renders the full console report: per-node angles under both
// conventions, reconstruction checks, the intrinsic rotation procedure
// and the list of skipped nodes.
func Write(w io.Writer, s *result.Summary) {
	fmt.Fprintf(w, "mean heading over first %d samples, %d node(s)\n", s.SampleWindow, len(s.Results))

	for i := range s.Results {
		r := &s.Results[i]
		fmt.Fprintf(w, "\n%s (%d samples", r.Label, r.SamplesUsed)
		if r.SamplesSkipped > 0 {
			fmt.Fprintf(w, ", %d zero-norm skipped", r.SamplesSkipped)
		}
		fmt.Fprintf(w, ")\n")
		fmt.Fprintf(w, "  mean quaternion: w=%.6f x=%.6f y=%.6f z=%.6f\n",
			r.MeanQuaternion.W, r.MeanQuaternion.X, r.MeanQuaternion.Y, r.MeanQuaternion.Z)

		writeAngles(w, "extrinsic (fixed axes)", r.Extrinsic.Roll, r.Extrinsic.Pitch, r.Extrinsic.Yaw, r.Extrinsic.GimbalLock)
		writeAngles(w, "intrinsic (moving axes)", r.Intrinsic.Roll, r.Intrinsic.Pitch, r.Intrinsic.Yaw, r.Intrinsic.GimbalLock)

		fmt.Fprintf(w, "  reconstruction error: extrinsic=%.6f intrinsic=%.6f\n", r.ExtrinsicError, r.IntrinsicError)
		if r.ExtrinsicError > ReconstructionWarnThreshold || r.IntrinsicError > ReconstructionWarnThreshold {
			fmt.Fprintf(w, "  WARNING: reconstruction error above %.2f, decomposition formulas suspect\n", ReconstructionWarnThreshold)
		}
	}

	writeProcedure(w, s)

	if len(s.Skipped) > 0 {
		fmt.Fprintf(w, "\nskipped nodes:\n")
		for _, sk := range s.Skipped {
			fmt.Fprintf(w, "  %s: %s\n", sk.Label, sk.Reason)
		}
	}
}

func writeAngles(w io.Writer, name string, roll, pitch, yaw float64, lock bool) {
	fmt.Fprintf(w, "  %s:\n", name)
	fmt.Fprintf(w, "    roll  (X): %8.3f°\n", roll)
	fmt.Fprintf(w, "    pitch (Y): %8.3f°\n", pitch)
	fmt.Fprintf(w, "    yaw   (Z): %8.3f°\n", yaw)
	if lock {
		fmt.Fprintf(w, "    gimbal lock: yaw forced to 0, roll carries the combined rotation\n")
	}
}

// writeProcedure prints, per node, the step-by-step intrinsic rotation
// sequence that reproduces the mean orientation by hand.
func writeProcedure(w io.Writer, s *result.Summary) {
	fmt.Fprintf(w, "\nintrinsic rotation procedure (axes move with the body):\n")
	for i := range s.Results {
		r := &s.Results[i]
		fmt.Fprintf(w, "\n%s:\n", r.Label)
		fmt.Fprintf(w, "  1. start from the identity frame\n")
		fmt.Fprintf(w, "  2. rotate %8.3f° about the current X axis\n", r.Intrinsic.Roll)
		fmt.Fprintf(w, "  3. rotate %8.3f° about the new Y axis\n", r.Intrinsic.Pitch)
		fmt.Fprintf(w, "  4. rotate %8.3f° about the new Z axis\n", r.Intrinsic.Yaw)
	}
}
