package storage

import (
	"github.com/san-kum/evoviz/internal/render"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarises the displayed population of one frame.
// Positions include jitter; fitness does not.
type GenerationStats struct {
	Generation  int
	Individuals int
	MeanX       float64
	MeanY       float64
	StdX        float64
	StdY        float64
	MeanFitness float64
	MaxFitness  float64
}

// Summarize computes the statistics of f. Empty frames report zeros.
func Summarize(f render.Frame) GenerationStats {
	st := GenerationStats{Generation: f.Generation, Individuals: len(f.Points)}
	if len(f.Points) == 0 {
		return st
	}

	xs := make([]float64, len(f.Points))
	ys := make([]float64, len(f.Points))
	zs := make([]float64, len(f.Points))
	for i, p := range f.Points {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}

	if len(xs) > 1 {
		st.MeanX, st.StdX = stat.MeanStdDev(xs, nil)
		st.MeanY, st.StdY = stat.MeanStdDev(ys, nil)
	} else {
		st.MeanX, st.MeanY = xs[0], ys[0]
	}
	st.MeanFitness = stat.Mean(zs, nil)
	st.MaxFitness = floats.Max(zs)
	return st
}

// Recorder collects statistics for every frame of an animation.
type Recorder struct {
	Stats []GenerationStats
}

func (r *Recorder) OnFrame(f render.Frame, _ int) {
	r.Stats = append(r.Stats, Summarize(f))
}
