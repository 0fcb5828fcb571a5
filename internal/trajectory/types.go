// Package trajectory drives rendering jobs: the animator walks generations
// 0..N of a snapshot directory and feeds one frame per generation to an
// output sink, and the static renderer draws a single snapshot to an image.
package trajectory

import (
	"github.com/san-kum/evoviz/internal/encode"
	"github.com/san-kum/evoviz/internal/fault"
	"github.com/san-kum/evoviz/internal/render"
	"github.com/san-kum/evoviz/internal/snapshot"
)

// DefaultProgressEvery is how many frames pass between progress notices.
const DefaultProgressEvery = 100

// Job describes one animation.
type Job struct {
	Dir            string
	Output         string
	XUpper, YUpper int
	Generations    int // frames 0..Generations are rendered
	Timing         encode.Timing
	Mode           snapshot.Mode
	Jitter         float64
	Seed           uint64
}

// Static describes a single-frame render.
type Static struct {
	Snapshot string
	Output   string
	Mode     snapshot.Mode
	Jitter   float64
	Seed     uint64
}

// Observer is notified after each frame has been handed to the sink.
type Observer interface {
	OnFrame(f render.Frame, done int)
}

// Result summarises a finished animation.
type Result struct {
	Frames int
	Points int
}

func (j Job) validate() error {
	if j.Generations < 0 {
		return fault.Argumentf("generation count must not be negative, got %d", j.Generations)
	}
	if j.XUpper < 2 || j.YUpper < 2 {
		return fault.Argumentf("axis bounds must be at least 2, got %dx%d", j.XUpper, j.YUpper)
	}
	if j.Jitter < 0 {
		return fault.Argumentf("jitter must not be negative, got %g", j.Jitter)
	}
	return nil
}
