package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/evoviz/internal/grid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	pointColor   = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	contourColor = color.Black
)

// solid is a one-colour palette for contour lines.
type solid struct{ c color.Color }

func (s solid) Colors() []color.Color { return []color.Color{s.c} }

// Assembler draws the 2-axis view: filled level bands and contour lines over
// the block-replicated landscape, with the jittered population on top. The
// surface is shared by every frame and never modified.
type Assembler struct {
	surface *grid.Grid
	opts    Options
	bands   palette.Palette
}

func NewAssembler(g *grid.Grid, opts Options) *Assembler {
	n := max(len(g.Levels)-1, 2)
	return &Assembler{
		surface: g,
		opts:    opts,
		bands:   palette.Heat(n, opts.FillAlpha),
	}
}

func (a *Assembler) Options() Options { return a.opts }

// Plot builds the plot for f.
func (a *Assembler) Plot(f Frame) (*plot.Plot, error) {
	if a.opts.XUpper < 2 || a.opts.YUpper < 2 {
		return nil, fmt.Errorf("axis bounds must be at least 2, got %dx%d", a.opts.XUpper, a.opts.YUpper)
	}

	p := plot.New()
	p.Title.Text = f.Label
	p.X.Label.Text = "X Gene"
	p.Y.Label.Text = "Y Gene"

	g := a.surface
	lo, hi := g.Range()

	fill := plotter.NewHeatMap(g, a.bands)
	fill.Min, fill.Max = lo, hi
	colors := a.bands.Colors()
	fill.Underflow = colors[0]
	fill.Overflow = colors[len(colors)-1]
	p.Add(fill)

	if !g.Flat() {
		lines := plotter.NewContour(g, g.Levels, solid{contourColor})
		lines.Min, lines.Max = lo, hi
		p.Add(lines)
	}

	p.Add(plotter.NewGrid())

	if len(f.Points) > 0 {
		xys := make(plotter.XYs, len(f.Points))
		for i, pt := range f.Points {
			xys[i].X, xys[i].Y = pt.X, pt.Y
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("scatter: %w", err)
		}
		sc.GlyphStyle = draw.GlyphStyle{
			Color:  pointColor,
			Radius: a.opts.PointRadius,
			Shape:  draw.CircleGlyph{},
		}
		p.Add(sc)
	}

	// Add widens the axes to fit the data, so limits are applied last.
	p.X.Min, p.X.Max = 0, float64(a.opts.XUpper-1)
	p.Y.Min, p.Y.Max = 0, float64(a.opts.YUpper-1)
	p.X.Tick.Marker = geneTicks(a.opts.XUpper)
	p.Y.Tick.Marker = geneTicks(a.opts.YUpper)
	p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}
	p.X.Padding, p.Y.Padding = vg.Points(2), vg.Points(2)

	return p, nil
}

// geneTicks labels integer genes 0..upper-1, thinned to at most ~20 labels.
func geneTicks(upper int) plot.ConstantTicks {
	every := int(math.Ceil(float64(upper) / 20))
	if every < 1 {
		every = 1
	}
	ticks := make(plot.ConstantTicks, 0, upper)
	for v := 0; v < upper; v++ {
		t := plot.Tick{Value: float64(v)}
		if v%every == 0 {
			t.Label = fmt.Sprint(v)
		}
		ticks = append(ticks, t)
	}
	return ticks
}
