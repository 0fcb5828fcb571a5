package metrics

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/san-kum/evoviz/internal/encode"
	"github.com/san-kum/evoviz/internal/fault"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Series colours in file order.
var lineColors = []color.Color{
	color.RGBA{B: 255, A: 255},
	color.RGBA{R: 255, A: 255},
	color.RGBA{G: 160, A: 255},
	color.RGBA{R: 200, G: 120, A: 255},
	color.RGBA{R: 140, B: 200, A: 255},
}

const (
	FigureWidth  = 16 * vg.Inch
	FigureHeight = 12 * vg.Inch
)

// Plot draws one line per series. A legend is added when there is more than
// one.
func Plot(k Kind, series ...*Series) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series to plot")
	}

	p := plot.New()
	p.Title.Text = k.Title
	p.X.Label.Text = k.XLabel
	p.Y.Label.Text = k.YLabel
	p.Add(plotter.NewGrid())

	for i, s := range series {
		l, err := plotter.NewLine(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		l.Color = lineColors[i%len(lineColors)]
		l.Width = vg.Points(1.5)
		p.Add(l)
		if len(series) > 1 {
			p.Legend.Add(filepath.Base(s.Name), l)
		}
	}
	p.Legend.Top = true
	return p, nil
}

// Save writes p to path; the format follows the extension.
func Save(p *plot.Plot, path string, w, h vg.Length) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	wt, err := p.WriterTo(w, h, format)
	if err != nil {
		return fault.Argumentf("unsupported image format %q", format)
	}
	return encode.WriteFile(path, func(out io.Writer) error {
		_, err := wt.WriteTo(out)
		return err
	})
}
