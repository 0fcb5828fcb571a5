// Package render turns a point cloud and a constant landscape surface into
// drawable frames.
//
// Two drawers exist: [Assembler] draws the top-down contour view used for
// 2-axis snapshots, [Perspective] draws a projected wireframe surface with
// points at their fitness height for 3-axis snapshots. Both produce a
// gonum/plot Plot that can be rasterised for an animation or written as a
// static image.
package render

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/san-kum/evoviz/internal/jitter"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Frame is one generation ready to draw.
type Frame struct {
	Generation int
	Points     []jitter.Point
	Label      string
}

// Label formats the title shown on a frame.
func Label(gen int) string {
	return fmt.Sprintf("Generation=%d", gen)
}

// Assemble pairs a generation with its jittered points.
func Assemble(gen int, pts []jitter.Point) Frame {
	return Frame{Generation: gen, Points: pts, Label: Label(gen)}
}

// Options sizes the output and bounds the gene axes.
type Options struct {
	Width, Height  vg.Length
	DPI            int
	XUpper, YUpper int
	PointRadius    vg.Length
	FillAlpha      float64
}

func DefaultOptions(xUpper, yUpper int) Options {
	return Options{
		Width:       8 * vg.Inch,
		Height:      6 * vg.Inch,
		DPI:         96,
		XUpper:      xUpper,
		YUpper:      yUpper,
		PointRadius: vg.Points(3),
		FillAlpha:   0.5,
	}
}

// Drawer builds the plot for a frame.
type Drawer interface {
	Plot(f Frame) (*plot.Plot, error)
	Options() Options
}

// Image rasterises f.
func Image(d Drawer, f Frame) (image.Image, error) {
	p, err := d.Plot(f)
	if err != nil {
		return nil, err
	}
	o := d.Options()
	c := vgimg.NewWith(vgimg.UseWH(o.Width, o.Height), vgimg.UseDPI(o.DPI))
	p.Draw(draw.New(c))
	return c.Image(), nil
}

// Encode writes f to w in format (png, jpg, tif, svg, pdf or eps).
func Encode(d Drawer, f Frame, w io.Writer, format string) error {
	p, err := d.Plot(f)
	if err != nil {
		return err
	}
	o := d.Options()

	format = strings.ToLower(strings.TrimPrefix(format, "."))
	var wt io.WriterTo
	switch format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		c := vgimg.NewWith(vgimg.UseWH(o.Width, o.Height), vgimg.UseDPI(o.DPI))
		p.Draw(draw.New(c))
		switch format {
		case "png":
			wt = vgimg.PngCanvas{Canvas: c}
		case "jpg", "jpeg":
			wt = vgimg.JpegCanvas{Canvas: c}
		default:
			wt = vgimg.TiffCanvas{Canvas: c}
		}
	default:
		wt, err = p.WriterTo(o.Width, o.Height, format)
		if err != nil {
			return err
		}
	}

	_, err = wt.WriteTo(w)
	return err
}

// Formats lists the static formats Encode accepts.
func Formats() []string {
	return []string{"png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf", "eps"}
}
