package console

import (
	"github.com/guptarohit/asciigraph"
)

// Chart plots one or more series as a text line chart. Series are sampled
// by asciigraph to fit width.
func Chart(caption string, width, height int, series ...[]float64) string {
	data := make([][]float64, 0, len(series))
	for _, s := range series {
		if len(s) > 0 {
			data = append(data, s)
		}
	}
	if len(data) == 0 {
		return Hint.Render("(no data)")
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	}
	if len(data) == 1 {
		return asciigraph.Plot(data[0], opts...)
	}
	colors := []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red, asciigraph.Green, asciigraph.Yellow, asciigraph.Magenta}
	opts = append(opts, asciigraph.SeriesColors(colors[:min(len(data), len(colors))]...))
	return asciigraph.PlotMany(data, opts...)
}
