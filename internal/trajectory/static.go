package trajectory

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/san-kum/evoviz/internal/encode"
	"github.com/san-kum/evoviz/internal/fault"
	"github.com/san-kum/evoviz/internal/grid"
	"github.com/san-kum/evoviz/internal/jitter"
	"github.com/san-kum/evoviz/internal/landscape"
	"github.com/san-kum/evoviz/internal/render"
	"github.com/san-kum/evoviz/internal/snapshot"
)

// NewDrawer loads the landscape once and builds the drawer for mode: the
// contour view for 2-axis data, the perspective view for 3-axis data.
func NewDrawer(mode snapshot.Mode, p landscape.Provider, opts render.Options, cam render.Camera) (render.Drawer, error) {
	l, err := p.Landscape()
	if err != nil {
		return nil, err
	}
	switch mode {
	case snapshot.TwoAxis:
		return render.NewAssembler(grid.Build(l), opts), nil
	case snapshot.ThreeAxis:
		return render.NewPerspective(l, cam, opts), nil
	default:
		return nil, fmt.Errorf("unknown snapshot mode %v", mode)
	}
}

// Animate renders job into a GIF at job.Output.
func Animate(job Job, drawer render.Drawer, observers ...Observer) (*Result, error) {
	if ext := strings.ToLower(filepath.Ext(job.Output)); ext != ".gif" {
		return nil, fault.Argumentf("animated output must be a .gif file, got %q", job.Output)
	}
	a, err := NewAnimator(job, drawer)
	if err != nil {
		return nil, err
	}
	for _, o := range observers {
		a.AddObserver(o)
	}
	return a.Run(encode.NewGIF(job.Output, job.Timing))
}

// RenderStatic draws one snapshot to s.Output. The image format follows the
// output extension. The assembled frame is returned for previews.
func RenderStatic(s Static, drawer render.Drawer) (render.Frame, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(s.Output), "."))
	if !slices.Contains(render.Formats(), format) {
		return render.Frame{}, fault.Argumentf("unsupported image format %q (want one of %s)", format, strings.Join(render.Formats(), ", "))
	}
	if s.Jitter < 0 {
		return render.Frame{}, fault.Argumentf("jitter must not be negative, got %g", s.Jitter)
	}

	snap, err := snapshot.Load(s.Snapshot, s.Mode)
	if err != nil {
		return render.Frame{}, err
	}
	f := render.Assemble(snap.Generation, jitter.New(s.Jitter, s.Seed).Apply(snap))

	err = encode.WriteFile(s.Output, func(w io.Writer) error {
		return render.Encode(drawer, f, w, format)
	})
	if err != nil {
		return render.Frame{}, err
	}
	return f, nil
}
