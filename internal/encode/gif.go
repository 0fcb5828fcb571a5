// Package encode writes rendered frames to their output artifact.
//
// Every sink is write-once: frames are buffered and the artifact only
// appears at the output path when Commit succeeds. Abort, or any failure,
// leaves the path untouched.
package encode

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"

	"github.com/san-kum/evoviz/internal/fault"
)

// Sink accepts frames in presentation order.
type Sink interface {
	Append(img image.Image) error
	Commit() error
	Abort() error
}

// GIF is an animated GIF sink. Frames are quantised to a fixed palette as
// they arrive and the file is written in one pass on Commit.
type GIF struct {
	path    string
	timing  Timing
	palette color.Palette
	anim    gif.GIF
	closed  bool
}

func NewGIF(path string, t Timing) *GIF {
	return &GIF{
		path:    path,
		timing:  t,
		palette: palette.Plan9,
		anim:    gif.GIF{LoopCount: 0},
	}
}

// Len returns the number of buffered frames.
func (g *GIF) Len() int { return len(g.anim.Image) }

func (g *GIF) Append(img image.Image) error {
	frame := len(g.anim.Image)
	if g.closed {
		return &fault.EncodingError{Target: g.path, Frame: frame, Wrapped: errors.New("sink is closed")}
	}
	if img == nil {
		return &fault.EncodingError{Target: g.path, Frame: frame, Wrapped: errors.New("nil image")}
	}

	b := img.Bounds()
	if b.Empty() {
		return &fault.EncodingError{Target: g.path, Frame: frame, Wrapped: errors.New("empty image")}
	}
	if frame > 0 {
		first := g.anim.Image[0].Bounds()
		if b.Dx() != first.Dx() || b.Dy() != first.Dy() {
			return &fault.EncodingError{Target: g.path, Frame: frame, Wrapped: fmt.Errorf("frame size %dx%d differs from %dx%d", b.Dx(), b.Dy(), first.Dx(), first.Dy())}
		}
	}

	pal := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), g.palette)
	draw.Draw(pal, pal.Rect, img, b.Min, draw.Src)

	g.anim.Image = append(g.anim.Image, pal)
	g.anim.Delay = append(g.anim.Delay, g.timing.CentiSeconds())
	return nil
}

// Commit encodes every buffered frame to the output path.
func (g *GIF) Commit() error {
	if g.closed {
		return &fault.EncodingError{Target: g.path, Frame: -1, Wrapped: errors.New("sink is closed")}
	}
	g.closed = true
	if len(g.anim.Image) == 0 {
		return &fault.EncodingError{Target: g.path, Frame: -1, Wrapped: errors.New("no frames to encode")}
	}

	err := WriteFile(g.path, func(w io.Writer) error {
		return gif.EncodeAll(w, &g.anim)
	})
	g.anim.Image, g.anim.Delay = nil, nil
	return err
}

// Abort drops the buffered frames.
func (g *GIF) Abort() error {
	g.closed = true
	g.anim.Image, g.anim.Delay = nil, nil
	return nil
}
