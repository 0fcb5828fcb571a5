package landscape

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Provider yields the landscape for one rendering session.
type Provider interface {
	Landscape() (*Landscape, error)
	Describe() string
}

// FileProvider loads a landscape file.
type FileProvider struct {
	Path string
}

func (p FileProvider) Landscape() (*Landscape, error) { return Load(p.Path) }
func (p FileProvider) Describe() string                { return "file " + p.Path }

// AnalyticProvider samples two Gaussian bumps centred on (5,5) and (-3,-3)
// over [0,XUpper) x [0,YUpper).
type AnalyticProvider struct {
	XUpper, YUpper int
}

// Bumps is the closed-form surface sampled by AnalyticProvider.
func Bumps(x, y float64) float64 {
	z1 := math.Exp(-0.05 * ((x-5)*(x-5) + (y-5)*(y-5)))
	z2 := math.Exp(-0.05 * ((x+3)*(x+3) + (y+3)*(y+3)))
	return z1 + z2
}

func (p AnalyticProvider) Landscape() (*Landscape, error) {
	if p.XUpper <= 0 || p.YUpper <= 0 {
		return nil, fmt.Errorf("analytic landscape: bounds must be positive, got %dx%d", p.XUpper, p.YUpper)
	}

	cells := make([][]float64, p.YUpper)
	top := 0.0
	for y := range cells {
		row := make([]float64, p.XUpper)
		for x := range row {
			row[x] = Bumps(float64(x), float64(y))
		}
		top = math.Max(top, floats.Max(row))
		cells[y] = row
	}

	return &Landscape{
		Width:       p.XUpper,
		Height:      p.YUpper,
		MaxFitness:  math.Ceil(top*10) / 10,
		ContourStep: 0.1,
		Cells:       cells,
	}, nil
}

func (p AnalyticProvider) Describe() string {
	return fmt.Sprintf("analytic bumps %dx%d", p.XUpper, p.YUpper)
}
