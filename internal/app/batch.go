// Package app wires the orientation pipeline to its inputs and
// outputs: batch computation over a directory of recordings, the
// console report, plot rendering, MQTT publishing and the web viewer.
package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/relabs-tech/imu_world/internal/config"
	"github.com/relabs-tech/imu_world/internal/euler"
	"github.com/relabs-tech/imu_world/internal/heading"
	"github.com/relabs-tech/imu_world/internal/node"
	"github.com/relabs-tech/imu_world/internal/plot"
	"github.com/relabs-tech/imu_world/internal/report"
	"github.com/relabs-tech/imu_world/internal/result"
)

// ErrNoResults is the run-level fatal condition: not a single node
// produced a valid orientation, so there is nothing to report or plot.
var ErrNoResults = errors.New("no node produced a valid result")

// ProcessRecording runs the full per-node pipeline: mean orientation
// over the configured window, both Euler decompositions and the
// reconstruction self-check for each.
func ProcessRecording(rec *node.Recording, window int) (*result.NodeResult, error) {
	est, err := heading.Mean(rec.Samples, window)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", rec.Label, err)
	}

	ext := euler.Decompose(est.Rotation, euler.Extrinsic)
	intr := euler.Decompose(est.Rotation, euler.Intrinsic)

	return &result.NodeResult{
		Label:          rec.Label,
		SamplesUsed:    est.SamplesUsed,
		SamplesSkipped: est.SamplesSkipped,
		MeanQuaternion: est.Quaternion,
		Rotation:       result.RotationRows(est.Rotation),
		Extrinsic:      ext,
		Intrinsic:      intr,
		ExtrinsicError: euler.ReconstructionError(est.Rotation, ext),
		IntrinsicError: euler.ReconstructionError(est.Rotation, intr),
	}, nil
}

// ComputeBatch discovers the recordings under cfg.InputDir, runs the
// pipeline on every one accepted by sel and returns the summary.
//
// Node pipelines are independent, so they run on cfg.Workers
// goroutines; outcomes are collected and then sorted by
// (node_id, acquisition_id), keeping the output deterministic
// regardless of completion order. A failing node is recorded as
// skipped and never aborts the batch.
func ComputeBatch(cfg *config.Config, sel node.Selector) (*result.Summary, error) {
	if sel == nil {
		sel = node.All
	}

	files, err := node.Discover(cfg.InputDir, cfg.FilePattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", cfg.FilePattern, cfg.InputDir)
	}

	var selected []string
	for _, f := range files {
		if sel(node.ParseLabel(stemOf(f))) {
			selected = append(selected, f)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("selector rejected all %d recordings in %s", len(files), cfg.InputDir)
	}

	jobs := make(chan string)
	outcomes := make(chan nodeOutcome, len(selected))

	workers := cfg.Workers
	if workers > len(selected) {
		workers = len(selected)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				outcomes <- processFile(path, cfg.SampleWindow)
			}
		}()
	}

	go func() {
		for _, f := range selected {
			jobs <- f
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
	}()

	summary := &result.Summary{
		GeneratedAt:  time.Now().UTC(),
		SampleWindow: cfg.SampleWindow,
	}
	for o := range outcomes {
		if o.skip != nil {
			summary.Skipped = append(summary.Skipped, *o.skip)
			continue
		}
		summary.Results = append(summary.Results, *o.res)
	}

	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Label.Compare(summary.Results[j].Label) < 0
	})
	sort.Slice(summary.Skipped, func(i, j int) bool {
		return summary.Skipped[i].Label.Compare(summary.Skipped[j].Label) < 0
	})

	if len(summary.Results) == 0 {
		return nil, fmt.Errorf("%d recordings skipped: %w", len(summary.Skipped), ErrNoResults)
	}
	return summary, nil
}

// nodeOutcome is the per-recording result of one worker: either a
// valid NodeResult or the reason the recording was skipped.
type nodeOutcome struct {
	res  *result.NodeResult
	skip *result.Skipped
}

// processFile converts any per-node failure into a skipped outcome so
// one bad file never takes the rest of the batch down.
func processFile(path string, window int) (o nodeOutcome) {
	rec, err := node.LoadRecording(path)
	if err != nil {
		label := node.ParseLabel(stemOf(path))
		var missing *node.MissingDataError
		if errors.As(err, &missing) {
			label = missing.Label
		}
		log.Printf("skipping %s: %v", label, err)
		o.skip = &result.Skipped{Label: label, Reason: err.Error()}
		return o
	}

	res, err := ProcessRecording(rec, window)
	if err != nil {
		log.Printf("skipping %s: %v", rec.Label, err)
		o.skip = &result.Skipped{Label: rec.Label, Reason: err.Error()}
		return o
	}
	o.res = res
	return o
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// RunBatch is the top-level entry of the batch binary: compute, print
// the report, render the configured plots and publish over MQTT when a
// broker is configured.
func RunBatch(cfg *config.Config, sel node.Selector) error {
	summary, err := ComputeBatch(cfg, sel)
	if err != nil {
		return err
	}

	report.Write(os.Stdout, summary)

	if cfg.PlotPNG || cfg.PlotHTML {
		if err := renderPlots(cfg, summary); err != nil {
			return err
		}
	}

	if cfg.MQTTBroker != "" {
		if err := PublishResults(cfg, summary); err != nil {
			return fmt.Errorf("mqtt publish: %w", err)
		}
	}
	return nil
}

// renderPlots writes the combined plot over the configured node range
// plus, when enabled, one plot per node_id group.
func renderPlots(cfg *config.Config, summary *result.Summary) error {
	inRange := node.NumberRange(cfg.PlotNodeMin, cfg.PlotNodeMax)
	var combined []result.NodeResult
	for _, r := range summary.Results {
		if inRange(r.Label) {
			combined = append(combined, r)
		}
	}
	if len(combined) == 0 {
		log.Printf("no node in range node%d-node%d, skipping combined plot", cfg.PlotNodeMin, cfg.PlotNodeMax)
	} else {
		title := fmt.Sprintf("Mean headings node%d-node%d (first %d samples)", cfg.PlotNodeMin, cfg.PlotNodeMax, cfg.SampleWindow)
		stem := fmt.Sprintf("mean_headings_3d_combined_node%d_to_%d", cfg.PlotNodeMin, cfg.PlotNodeMax)
		if err := writePlotSet(cfg, stem, title, combined); err != nil {
			return err
		}
	}

	if !cfg.GroupPlots {
		return nil
	}
	groups := make(map[string][]result.NodeResult)
	var order []string
	for _, r := range summary.Results {
		if _, ok := groups[r.Label.NodeID]; !ok {
			order = append(order, r.Label.NodeID)
		}
		groups[r.Label.NodeID] = append(groups[r.Label.NodeID], r)
	}
	sort.Strings(order)
	for _, id := range order {
		title := fmt.Sprintf("Mean headings %s (first %d samples)", id, cfg.SampleWindow)
		if err := writePlotSet(cfg, "mean_headings_3d_"+id, title, groups[id]); err != nil {
			return err
		}
	}
	return nil
}

func writePlotSet(cfg *config.Config, stem, title string, results []result.NodeResult) error {
	if cfg.PlotPNG {
		path := filepath.Join(cfg.PlotDir, stem+".png")
		if err := plot.WritePNG(path, title, results); err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
		log.Printf("plot saved: %s", path)
	}
	if cfg.PlotHTML {
		path := filepath.Join(cfg.PlotDir, stem+".html")
		if err := plot.WriteHTML(path, title, results); err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
		log.Printf("plot saved: %s", path)
	}
	return nil
}
