// Package plot renders the per-node coordinate frames: a static PNG
// with an isometric projection and an interactive 3D HTML page.
package plot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/relabs-tech/imu_world/internal/result"
)

const (
	axisLength = 1.0
	refLength  = 1.2
)

// palette holds the per-node colors, cycled when there are more nodes
// than entries.
var palette = []color.RGBA{
	{R: 0xe4, G: 0x1a, B: 0x1c, A: 0xff},
	{R: 0x37, G: 0x7e, B: 0xb8, A: 0xff},
	{R: 0x4d, G: 0xaf, B: 0x4a, A: 0xff},
	{R: 0x98, G: 0x4e, B: 0xa3, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x00, A: 0xff},
	{R: 0xa6, G: 0x56, B: 0x28, A: 0xff},
	{R: 0xf7, G: 0x81, B: 0xbf, A: 0xff},
	{R: 0x99, G: 0x99, B: 0x99, A: 0xff},
}

// project maps a world-frame point onto the 2D canvas with a fixed
// isometric view, matching the elev=20/azim=45 view of the interactive
// plot closely enough for a static export.
func project(v [3]float64) plotter.XY {
	const (
		cos30 = 0.8660254037844387
		sin30 = 0.5
	)
	return plotter.XY{
		X: (v[0] - v[1]) * cos30,
		Y: v[2] + (v[0]+v[1])*sin30,
	}
}

// WritePNG draws the ENU reference frame and every node's rotated body
// axes into a PNG file.
func WritePNG(path, title string, results []result.NodeResult) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "East / North plane"
	p.Y.Label.Text = "Up"
	p.Add(plotter.NewGrid())

	// World reference frame, drawn thicker than the node frames.
	refs := []struct {
		name string
		tip  [3]float64
		col  color.RGBA
	}{
		{"ENU X (East)", [3]float64{refLength, 0, 0}, color.RGBA{R: 0xcc, A: 0xff}},
		{"ENU Y (North)", [3]float64{0, refLength, 0}, color.RGBA{G: 0x99, A: 0xff}},
		{"ENU Z (Up)", [3]float64{0, 0, refLength}, color.RGBA{B: 0xcc, A: 0xff}},
	}
	for _, ref := range refs {
		l, err := plotter.NewLine(plotter.XYs{project([3]float64{}), project(ref.tip)})
		if err != nil {
			return fmt.Errorf("reference axis %s: %w", ref.name, err)
		}
		l.LineStyle.Width = vg.Points(3)
		l.LineStyle.Color = ref.col
		p.Add(l)
		p.Legend.Add(ref.name, l)
	}

	// One line style per body axis so frames stay readable when they
	// overlap: X solid, Y dashed, Z dotted.
	dashes := [3][]vg.Length{
		nil,
		{vg.Points(6), vg.Points(3)},
		{vg.Points(2), vg.Points(2)},
	}
	axisNames := [3]string{"X", "Y", "Z"}

	for i := range results {
		r := &results[i]
		col := palette[i%len(palette)]
		for a := 0; a < 3; a++ {
			tip := r.Axis(a)
			for j := range tip {
				tip[j] *= axisLength
			}
			l, err := plotter.NewLine(plotter.XYs{project([3]float64{}), project(tip)})
			if err != nil {
				return fmt.Errorf("node %s axis %s: %w", r.Label, axisNames[a], err)
			}
			l.LineStyle.Width = vg.Points(2)
			l.LineStyle.Color = col
			l.LineStyle.Dashes = dashes[a]
			p.Add(l)
			p.Legend.Add(fmt.Sprintf("%s %s", r.Label, axisNames[a]), l)
		}
	}

	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(9*vg.Inch, 9*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
