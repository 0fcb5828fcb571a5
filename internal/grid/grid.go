// Package grid expands a landscape into the block-replicated surface drawn
// behind every frame.
//
// Each landscape cell becomes a Scale x Scale block whose centre sits on the
// cell's integer gene coordinate, so the rendered surface is a step function:
// fitness exists only at integer genes and is never interpolated between them.
package grid

import (
	"math"

	"github.com/san-kum/evoviz/internal/landscape"
)

// Scale is the block size used for replication.
const Scale = 3

// Grid is the replicated surface plus its coordinate axes.
// It implements gonum.org/v1/plot/plotter.GridXYZ.
type Grid struct {
	Cells  [][]float64 // Cells[row][col], Scale*Height rows x Scale*Width cols
	XAxis  []float64   // len Scale*Width, from -1/Scale in steps of 1/Scale
	YAxis  []float64   // len Scale*Height
	Levels []float64
}

// Build replicates l into a Grid. l is not retained.
func Build(l *landscape.Landscape) *Grid {
	rows, cols := l.Height*Scale, l.Width*Scale

	g := &Grid{
		Cells:  make([][]float64, rows),
		XAxis:  axis(cols),
		YAxis:  axis(rows),
		Levels: Levels(l.MaxFitness, l.ContourStep),
	}
	for r := 0; r < rows; r++ {
		src := l.Cells[r/Scale]
		row := make([]float64, cols)
		for c := range row {
			row[c] = src[c/Scale]
		}
		g.Cells[r] = row
	}
	return g
}

func axis(n int) []float64 {
	out := make([]float64, n)
	for k := range out {
		out[k] = float64(k-1) / Scale
	}
	return out
}

// Levels returns 0, step, 2*step, ... up to and including the first value
// that is >= maxFit. When step does not divide maxFit the top level
// overshoots it by less than one step. Non-finite inputs yield [0].
func Levels(maxFit, step float64) []float64 {
	levels := []float64{0}
	if !(step > 0) || math.IsInf(step, 0) || math.IsInf(maxFit, 0) || math.IsNaN(maxFit) {
		return levels
	}
	eps := step * 1e-9
	for k := 1; levels[len(levels)-1] < maxFit-eps; k++ {
		levels = append(levels, float64(k)*step)
	}
	return levels
}

// Dims returns the number of columns and rows.
func (g *Grid) Dims() (c, r int) {
	if len(g.Cells) == 0 {
		return 0, 0
	}
	return len(g.Cells[0]), len(g.Cells)
}

func (g *Grid) Z(c, r int) float64 { return g.Cells[r][c] }
func (g *Grid) X(c int) float64    { return g.XAxis[c] }
func (g *Grid) Y(r int) float64    { return g.YAxis[r] }

// Range returns the lowest and highest level, widened to a non-empty
// interval so colour mapping never divides by zero.
func (g *Grid) Range() (lo, hi float64) {
	lo, hi = g.Levels[0], g.Levels[len(g.Levels)-1]
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// Flat reports whether every cell holds the same value.
func (g *Grid) Flat() bool {
	if len(g.Cells) == 0 {
		return true
	}
	first := g.Cells[0][0]
	for _, row := range g.Cells {
		for _, v := range row {
			if v != first {
				return false
			}
		}
	}
	return true
}
