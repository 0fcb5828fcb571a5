package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/san-kum/evoviz/internal/landscape"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Camera projects world space (Y up) onto the image plane. The eye sits on
// the +Z axis at Distance, looking at the origin.
type Camera struct {
	RotX, RotY, RotZ float64
	Distance, Near   float64
	Zoom             float64
}

func DefaultCamera() Camera {
	return Camera{RotX: 0.55, RotY: -0.65, Distance: 6, Near: 0.1, Zoom: 1}
}

// RotatePoint rotates p around X, then Y, then Z.
func (c Camera) RotatePoint(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project returns image-plane coordinates, depth (larger is nearer) and
// whether the point lies in front of the eye.
func (c Camera) Project(p Vec3) (x, y, depth float64, ok bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	s := c.Distance / (c.Distance - rot.Z)
	return rot.X * s, rot.Y * s, rot.Z, true
}

type edge struct {
	x1, y1, x2, y2 float64
	depth          float64
	height         float64
}

// surface is a depth-sorted projected wireframe. It implements plot.Plotter
// and plot.DataRanger.
type surface struct {
	edges   []edge
	colors  []color.Color
	lo, hi  float64
	width   vg.Length
	xr, yr  [2]float64
	visible bool
}

func (s *surface) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	span := s.hi - s.lo
	for _, e := range s.edges {
		idx := 0
		if span > 0 {
			idx = int((e.height - s.lo) / span * float64(len(s.colors)-1))
		}
		idx = max(0, min(idx, len(s.colors)-1))
		ls := draw.LineStyle{Color: s.colors[idx], Width: s.width}
		c.StrokeLine2(ls, trX(e.x1), trY(e.y1), trX(e.x2), trY(e.y2))
	}
}

func (s *surface) DataRange() (xmin, xmax, ymin, ymax float64) {
	return s.xr[0], s.xr[1], s.yr[0], s.yr[1]
}

// Perspective draws the 3-axis view: the landscape as a projected wireframe
// and each individual at (x, y, fitness).
type Perspective struct {
	land   *landscape.Landscape
	cam    Camera
	opts   Options
	mesh   *surface
	zScale float64
	cx, cy float64
	span   float64
}

func NewPerspective(l *landscape.Landscape, cam Camera, opts Options) *Perspective {
	pr := &Perspective{land: l, cam: cam, opts: opts}
	pr.cx = float64(l.Width-1) / 2
	pr.cy = float64(l.Height-1) / 2
	pr.span = math.Max(math.Max(pr.cx, pr.cy), 0.5)
	top := l.MaxFitness
	if top <= 0 {
		top = 1
	}
	pr.zScale = 0.8 / top
	pr.mesh = pr.buildMesh()
	return pr
}

func (pr *Perspective) Options() Options { return pr.opts }

// world maps gene (x, y) and fitness z to world space: genes on the ground
// plane, fitness up.
func (pr *Perspective) world(x, y, z float64) Vec3 {
	return Vec3{
		X: (x - pr.cx) / pr.span,
		Y: z * pr.zScale,
		Z: (y - pr.cy) / pr.span,
	}
}

func (pr *Perspective) buildMesh() *surface {
	l := pr.land
	m := &surface{
		colors:  palette.Heat(16, 1).Colors(),
		lo:      0,
		hi:      l.MaxFitness,
		width:   vg.Points(0.6),
		visible: true,
	}
	m.xr = [2]float64{math.Inf(1), math.Inf(-1)}
	m.yr = [2]float64{math.Inf(1), math.Inf(-1)}

	add := func(x1, y1, x2, y2 int) {
		z1, z2 := l.At(x1, y1), l.At(x2, y2)
		ax, ay, ad, aok := pr.cam.Project(pr.world(float64(x1), float64(y1), z1))
		bx, by, bd, bok := pr.cam.Project(pr.world(float64(x2), float64(y2), z2))
		if !aok || !bok {
			return
		}
		m.edges = append(m.edges, edge{ax, ay, bx, by, (ad + bd) / 2, (z1 + z2) / 2})
		m.xr[0], m.xr[1] = math.Min(m.xr[0], math.Min(ax, bx)), math.Max(m.xr[1], math.Max(ax, bx))
		m.yr[0], m.yr[1] = math.Min(m.yr[0], math.Min(ay, by)), math.Max(m.yr[1], math.Max(ay, by))
	}
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			if x+1 < l.Width {
				add(x, y, x+1, y)
			}
			if y+1 < l.Height {
				add(x, y, x, y+1)
			}
		}
	}
	if len(m.edges) == 0 {
		m.visible = false
		m.xr, m.yr = [2]float64{-1, 1}, [2]float64{-1, 1}
	}

	// painter's order: far edges first
	sort.Slice(m.edges, func(i, j int) bool { return m.edges[i].depth < m.edges[j].depth })
	return m
}

// Plot builds the plot for f. Points behind the eye are dropped.
func (pr *Perspective) Plot(f Frame) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Label
	p.HideAxes()

	if pr.mesh.visible {
		p.Add(pr.mesh)
	}

	corner := func(x, y float64) plotter.XY {
		px, py, _, _ := pr.cam.Project(pr.world(x, y, 0))
		return plotter.XY{X: px, Y: py}
	}
	w, h := float64(pr.land.Width-1), float64(pr.land.Height-1)
	base, err := plotter.NewLine(plotter.XYs{corner(0, 0), corner(w, 0), corner(w, h), corner(0, h), corner(0, 0)})
	if err != nil {
		return nil, fmt.Errorf("base outline: %w", err)
	}
	base.Color = color.Gray{Y: 120}
	p.Add(base)

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{corner(w, 0), corner(0, h)},
		Labels: []string{"X Gene", "Y Gene"},
	})
	if err != nil {
		return nil, fmt.Errorf("axis labels: %w", err)
	}
	p.Add(labels)

	xys := make(plotter.XYs, 0, len(f.Points))
	for _, pt := range f.Points {
		x, y, _, ok := pr.cam.Project(pr.world(pt.X, pt.Y, pt.Z))
		if ok {
			xys = append(xys, plotter.XY{X: x, Y: y})
		}
	}
	if len(xys) > 0 {
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("scatter: %w", err)
		}
		sc.GlyphStyle = draw.GlyphStyle{
			Color:  pointColor,
			Radius: pr.opts.PointRadius,
			Shape:  draw.CircleGlyph{},
		}
		p.Add(sc)
	}

	return p, nil
}
