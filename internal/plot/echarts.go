package plot

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/relabs-tech/imu_world/internal/result"
)

var echartsPalette = []string{
	"#e41a1c", "#377eb8", "#4daf4a", "#984ea3",
	"#ff7f00", "#a65628", "#f781bf", "#999999",
}

// WriteHTML renders an interactive 3D view of the node frames as a
// standalone HTML page (one Line3D series per axis, ENU reference
// included).
func WriteHTML(path, title string, results []result.NodeResult) error {
	line3d := charts.NewLine3D()
	line3d.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d node frames vs ENU reference", len(results)),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X (East)", Min: -1.5, Max: 1.5}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y (North)", Min: -1.5, Max: 1.5}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z (Up)", Min: -1.5, Max: 1.5}),
	)

	addAxis := func(name string, tip [3]float64, color string, width float32) {
		line3d.AddSeries(name, []opts.Chart3DData{
			{Value: []interface{}{0.0, 0.0, 0.0}},
			{Value: []interface{}{tip[0], tip[1], tip[2]}},
		}, charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: width}))
	}

	addAxis("ENU X (East)", [3]float64{refLength, 0, 0}, "#cc0000", 5)
	addAxis("ENU Y (North)", [3]float64{0, refLength, 0}, "#009900", 5)
	addAxis("ENU Z (Up)", [3]float64{0, 0, refLength}, "#0000cc", 5)

	axisNames := [3]string{"X", "Y", "Z"}
	for i := range results {
		r := &results[i]
		color := echartsPalette[i%len(echartsPalette)]
		for a := 0; a < 3; a++ {
			tip := r.Axis(a)
			for j := range tip {
				tip[j] *= axisLength
			}
			addAxis(fmt.Sprintf("%s %s", r.Label, axisNames[a]), tip, color, 3)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := line3d.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
