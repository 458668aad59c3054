package heatmap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartData samples every stride-th non-zero cell as an [x, y, count] triple.
// Y is negated so the chart reads in image orientation.
func ChartData(g *Grid, stride int) []opts.ScatterData {
	if stride < 1 {
		stride = 1
	}
	data := make([]opts.ScatterData, 0, 256)
	seen := 0
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := g.counts[y*g.width+x]
			if c == 0 {
				continue
			}
			if seen%stride == 0 {
				data = append(data, opts.ScatterData{Value: []interface{}{x, -y, c}})
			}
			seen++
		}
	}
	return data
}

// WriteChart renders an interactive scatter view of g as HTML into w.
func WriteChart(w io.Writer, g *Grid, stride int, title string) error {
	data := ChartData(g, stride)
	maxSeen := g.Max()
	if maxSeen == 0 {
		maxSeen = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Proximity Heatmap", Width: "1000px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("points=%d stride=%d max=%d", len(data), stride, g.Max())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: g.width, Name: "X (px)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -g.height, Max: 0, Name: "Y (px)", NameLocation: "middle", NameGap: 40}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxSeen),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: paletteHex[:]},
		}),
	)
	scatter.AddSeries("visits", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}))

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// ChartName returns the file name for a chart exported at t.
func ChartName(t time.Time) string {
	return "heatmap_" + t.Format(OutputLayout) + ".html"
}

// WriteChartFile exports the chart for g into dir and returns its path.
func WriteChartFile(g *Grid, dir string, stride int, now time.Time) (string, error) {
	path := filepath.Join(dir, ChartName(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := WriteChart(f, g, stride, "Proximity Heatmap"); err != nil {
		return "", err
	}
	return path, nil
}
