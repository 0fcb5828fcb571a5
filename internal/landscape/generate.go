package landscape

import (
	"fmt"
	"math"
	"sort"
)

const (
	DefaultSize        = 10
	DefaultMaxFitness  = 5.0
	DefaultContourStep = 1.0
)

// Func computes the fitness of gene (x, y) on a width x height map.
type Func func(x, y, width, height int) float64

// Registry maps fitness function names to implementations.
type Registry struct {
	funcs map[string]Func
}

func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}

	r.funcs["origin"] = func(x, y, _, _ int) float64 {
		if x+y == 0 {
			return 1
		}
		return 0
	}
	r.funcs["ring"] = func(x, y, w, h int) float64 {
		dx := float64(x) - float64(w)/2
		dy := float64(y) - float64(h)/2
		d := dx*dx + dy*dy
		if d > 9 && d < 25 {
			return 1
		}
		return 0
	}
	r.funcs["bumps"] = func(x, y, _, _ int) float64 {
		return Bumps(float64(x), float64(y))
	}
	r.funcs["flat"] = func(_, _, _, _ int) float64 { return 0 }

	return r
}

func (r *Registry) Get(name string) (Func, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("unknown fitness function: %s (available: %v)", name, r.List())
	}
	return fn, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateConfig sizes and labels a generated landscape.
type GenerateConfig struct {
	Width, Height int
	MaxFitness    float64
	ContourStep   float64
}

func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Width:       DefaultSize,
		Height:      DefaultSize,
		MaxFitness:  DefaultMaxFitness,
		ContourStep: DefaultContourStep,
	}
}

// Generate samples fn over every cell. The header values are taken from cfg
// as given; fn is trusted to stay within [0, MaxFitness].
func Generate(cfg GenerateConfig, fn Func) (*Landscape, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("landscape size must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	if !(cfg.ContourStep > 0) || math.IsInf(cfg.ContourStep, 0) {
		return nil, fmt.Errorf("contour step must be a positive number, got %g", cfg.ContourStep)
	}
	if !(cfg.MaxFitness >= 0) || math.IsInf(cfg.MaxFitness, 0) {
		return nil, fmt.Errorf("max fitness must be a non-negative number, got %g", cfg.MaxFitness)
	}

	cells := make([][]float64, cfg.Height)
	for y := range cells {
		cells[y] = make([]float64, cfg.Width)
		for x := range cells[y] {
			cells[y][x] = fn(x, y, cfg.Width, cfg.Height)
		}
	}

	return &Landscape{
		Width:       cfg.Width,
		Height:      cfg.Height,
		MaxFitness:  cfg.MaxFitness,
		ContourStep: cfg.ContourStep,
		Cells:       cells,
	}, nil
}
