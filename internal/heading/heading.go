// Package heading estimates one representative orientation from the
// leading static window of a quaternion recording.
package heading

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/relabs-tech/imu_world/internal/quat"
)

// DefaultWindow is the number of leading samples averaged when the
// caller does not configure a window.
const DefaultWindow = 100

// Estimate is the mean orientation of a static window.
type Estimate struct {
	// Quaternion is the normalized mean quaternion of the window.
	Quaternion quat.Quaternion
	// Rotation is the mean rotation matrix, re-orthonormalized via
	// polar decomposition.
	Rotation *mat.Dense
	// SamplesUsed is the number of samples that entered the mean
	// (window clamped to the recording length, zero-norm samples
	// excluded).
	SamplesUsed int
	// SamplesSkipped counts zero-norm samples found inside the window.
	SamplesSkipped int
}

// Mean averages the first window samples of the sequence and returns
// the resulting unit quaternion and rotation matrix.
//
// Quaternion components cannot be averaged directly: q and -q encode
// the same rotation, and unit quaternions do not live in a Euclidean
// space. The estimator therefore sign-aligns every sample against the
// first usable one, takes the arithmetic component mean and
// renormalizes. This is a known approximation to the true SO(3) mean;
// for a near-static window where all samples are clustered it is
// accurate, and it is the documented behavior of this tool.
func Mean(samples []quat.Quaternion, window int) (Estimate, error) {
	if len(samples) == 0 {
		return Estimate{}, fmt.Errorf("empty sample sequence: %w", quat.ErrDegenerateInput)
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if window > len(samples) {
		window = len(samples)
	}

	var (
		ref     quat.Quaternion
		haveRef bool
		sum     quat.Quaternion
		used    int
		skipped int
	)

	for _, s := range samples[:window] {
		n, err := s.Normalize()
		if err != nil {
			skipped++
			continue
		}
		if !haveRef {
			ref = n
			haveRef = true
		}
		if n.Dot(ref) < 0 {
			n = n.Neg()
		}
		sum.W += n.W
		sum.X += n.X
		sum.Y += n.Y
		sum.Z += n.Z
		used++
	}

	if used == 0 {
		return Estimate{}, fmt.Errorf("no usable sample in window of %d: %w", window, quat.ErrDegenerateInput)
	}

	mean := quat.Quaternion{
		W: sum.W / float64(used),
		X: sum.X / float64(used),
		Y: sum.Y / float64(used),
		Z: sum.Z / float64(used),
	}
	mean, err := mean.Normalize()
	if err != nil {
		return Estimate{}, fmt.Errorf("mean quaternion over %d samples: %w", used, err)
	}

	return Estimate{
		Quaternion:     mean,
		Rotation:       quat.Orthonormalize(mean.RotationMatrix()),
		SamplesUsed:    used,
		SamplesSkipped: skipped,
	}, nil
}
