// Package jitter spreads individuals that share an integer gene cell so they
// stay visible when drawn. Offsets exist only on the returned points; the
// snapshot itself is never modified.
package jitter

import (
	"math/rand/v2"

	"github.com/san-kum/evoviz/internal/snapshot"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultSigma is the per-axis standard deviation used when none is given.
const DefaultSigma = 0.2

// Point is a display position. Z carries fitness in 3-axis mode and is
// never perturbed.
type Point struct {
	X, Y, Z float64
}

// Jitterer draws independent zero-mean Gaussian offsets for every axis of
// every point. It is not safe for concurrent use.
type Jitterer struct {
	sigma float64
	norm  distuv.Normal
}

// New returns a Jitterer with standard deviation sigma. The same seed
// reproduces the same sequence of offsets.
func New(sigma float64, seed uint64) *Jitterer {
	return &Jitterer{
		sigma: sigma,
		norm: distuv.Normal{
			Mu:    0,
			Sigma: sigma,
			Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		},
	}
}

// Offset returns one fresh draw, or 0 when jitter is disabled.
func (j *Jitterer) Offset() float64 {
	if j.sigma <= 0 {
		return 0
	}
	return j.norm.Rand()
}

// Apply returns one jittered point per individual, in snapshot order.
func (j *Jitterer) Apply(s *snapshot.Snapshot) []Point {
	pts := make([]Point, len(s.Individuals))
	for i, ind := range s.Individuals {
		pts[i] = Point{
			X: float64(ind.X) + j.Offset(),
			Y: float64(ind.Y) + j.Offset(),
			Z: ind.Fitness,
		}
	}
	return pts
}
