// Package node loads per-node quaternion recordings from the flat CSV
// files produced by the upstream extraction tool.
package node

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/relabs-tech/imu_world/internal/quat"
)

// Pattern matches the per-node files written by the extraction tool.
const Pattern = "node*.csv"

// The four columns the pipeline actually consumes. Everything else in
// the file (time, gyro, accel, mag) is tolerated and ignored.
var quaternionColumns = []string{"qw", "qx", "qy", "qz"}

// MissingDataError reports that a recording lacks one or more of the
// required quaternion columns. The orchestrator treats it as
// "skip this node", never as a fatal condition.
type MissingDataError struct {
	Label   Label
	Columns []string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("%s: missing required columns %s", e.Label, strings.Join(e.Columns, ", "))
}

// Recording is one node's ordered quaternion sequence. Immutable once
// loaded; the estimator reads it without copying.
type Recording struct {
	Label   Label
	Samples []quat.Quaternion
}

// Discover lists the recording files under dir matching pattern,
// sorted by path. An empty pattern falls back to Pattern.
func Discover(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = Pattern
	}
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("discover recordings in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadRecording reads one CSV file into a Recording.
//
// The header is matched by exact (whitespace-trimmed) column name.
// Absent optional columns never error; absent quaternion columns yield
// a *MissingDataError.
func LoadRecording(path string) (*Recording, error) {
	label := ParseLabel(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, &MissingDataError{Label: label, Columns: quaternionColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var idx [4]int
	var missing []string
	for i, name := range quaternionColumns {
		j, ok := cols[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		idx[i] = j
	}
	if len(missing) > 0 {
		return nil, &MissingDataError{Label: label, Columns: missing}
	}

	rec := &Recording{Label: label}
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}

		var vals [4]float64
		for i, j := range idx {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[j]), 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d column %s: %w", path, line, quaternionColumns[i], err)
			}
			vals[i] = v
		}
		rec.Samples = append(rec.Samples, quat.Quaternion{W: vals[0], X: vals[1], Y: vals[2], Z: vals[3]})
	}

	return rec, nil
}
