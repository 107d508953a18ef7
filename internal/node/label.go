package node

import (
	"fmt"
	"strconv"
	"strings"
)

// Label identifies one recording: the sensor node plus the acquisition
// run on that node. File stems follow the extraction tool's naming,
// "node10_4" (node10, acquisition 4) or bare "node3" (acquisition 0).
type Label struct {
	NodeID      string `json:"node_id"`
	Acquisition int    `json:"acquisition_id"`
}

// ParseLabel derives a Label from a file stem.
func ParseLabel(stem string) Label {
	if i := strings.LastIndex(stem, "_"); i > 0 {
		if acq, err := strconv.Atoi(stem[i+1:]); err == nil {
			return Label{NodeID: stem[:i], Acquisition: acq}
		}
	}
	return Label{NodeID: stem}
}

func (l Label) String() string {
	if l.Acquisition > 0 {
		return fmt.Sprintf("%s_%d", l.NodeID, l.Acquisition)
	}
	return l.NodeID
}

// Compare orders labels by (node_id, acquisition_id).
func (l Label) Compare(o Label) int {
	if c := strings.Compare(l.NodeID, o.NodeID); c != 0 {
		return c
	}
	return l.Acquisition - o.Acquisition
}

// Number extracts the numeric part of a "nodeN" identifier.
func (l Label) Number() (int, bool) {
	rest, ok := strings.CutPrefix(l.NodeID, "node")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Selector decides whether a recording takes part in a given stage
// (processing, or a particular plot). Selection policy stays with the
// caller; the pipeline itself never filters.
type Selector func(Label) bool

// All selects every recording.
func All(Label) bool { return true }

// NumberRange selects nodes whose numeric identifier lies in
// [min, max]. Labels without a parseable node number are excluded.
func NumberRange(min, max int) Selector {
	return func(l Label) bool {
		n, ok := l.Number()
		return ok && n >= min && n <= max
	}
}
