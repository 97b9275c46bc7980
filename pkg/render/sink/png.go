package sink

import (
	"bytes"
	"image"

	"github.com/fogleman/gg"

	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/render"
)

// RenderPNG rasterizes the snapshot.
func RenderPNG(s render.Snapshot, opts ...Option) ([]byte, error) {
	dc, err := draw(s, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// Rasterize draws the snapshot into a new image.
func Rasterize(s render.Snapshot, opts ...Option) (image.Image, error) {
	dc, err := draw(s, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// draw strokes every line as one round-joined polyline on a white canvas.
func draw(s render.Snapshot, opts []Option) (*gg.Context, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	v := c.view(s)
	w, h := c.pixels(v)
	if w > MaxPixels || h > MaxPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"image of %dx%d pixels exceeds the %d pixel limit", w, h, MaxPixels)
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	px := func(p render.Point) (float64, float64) {
		return (p[0] - v.MinX) * c.scale, (p[1] - v.MinY) * c.scale
	}

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(c.stroke)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	for _, l := range s.Lines {
		if len(l.Points) < 2 {
			continue
		}
		dc.MoveTo(px(l.Points[0]))
		for _, p := range l.Points[1:] {
			dc.LineTo(px(p))
		}
		dc.NewSubPath()
	}
	dc.Stroke()

	if c.bodies {
		side := 2 * BodyHalfExtent * c.scale
		for _, l := range s.Lines {
			for _, p := range l.Points {
				x, y := px(p)
				dc.DrawRectangle(x-side/2, y-side/2, side, side)
			}
		}
		dc.Fill()
	}
	return dc, nil
}
