package sink

import (
	"math"

	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/render"
)

const (
	// DefaultScale is the number of pixels per world unit.
	DefaultScale = 30.0
	// DefaultStroke is the line width in pixels.
	DefaultStroke = 1.5
	// DefaultMargin is the padding around the pattern in world units.
	DefaultMargin = 1.0

	// BodyHalfExtent is the half side of a drawn body square in world units.
	BodyHalfExtent = 0.15

	// MaxPixels caps either side of a raster image.
	MaxPixels = 16384
)

// Option configures rendering.
type Option func(*config)

type config struct {
	scale  float64
	stroke float64
	margin float64
	bodies bool
}

// WithScale sets the number of pixels per world unit.
func WithScale(s float64) Option { return func(c *config) { c.scale = s } }

// WithStroke sets the line width in pixels.
func WithStroke(w float64) Option { return func(c *config) { c.stroke = w } }

// WithMargin sets the padding around the pattern in world units.
func WithMargin(m float64) Option { return func(c *config) { c.margin = m } }

// WithBodies draws every body as a filled square.
func WithBodies(on bool) Option { return func(c *config) { c.bodies = on } }

func newConfig(opts []Option) (config, error) {
	c := config{scale: DefaultScale, stroke: DefaultStroke, margin: DefaultMargin}
	for _, opt := range opts {
		opt(&c)
	}
	if err := errors.ValidatePositive("scale", c.scale); err != nil {
		return c, err
	}
	if err := errors.ValidatePositive("stroke", c.stroke); err != nil {
		return c, err
	}
	if err := errors.ValidateFinite("margin", c.margin); err != nil {
		return c, err
	}
	if c.margin < 0 {
		return c, errors.New(errors.ErrCodeInvalidInput, "margin must not be negative, got %g", c.margin)
	}
	return c, nil
}

// View returns the world-space box a snapshot is framed in. An empty
// snapshot gets a unit box around the origin.
func View(s render.Snapshot, opts ...Option) render.Box {
	c, _ := newConfig(opts)
	return c.view(s)
}

func (c config) view(s render.Snapshot) render.Box {
	if len(s.Lines) == 0 {
		return render.Box{MinX: -0.5, MinY: -0.5, MaxX: 0.5, MaxY: 0.5}.Pad(c.margin)
	}
	v := s.Bounds.Pad(c.margin)
	if c.bodies {
		v = v.Pad(BodyHalfExtent)
	}
	// Degenerate extents, e.g. a single straight horizontal line.
	if v.Width() <= 0 {
		v.MinX, v.MaxX = v.MinX-0.5, v.MaxX+0.5
	}
	if v.Height() <= 0 {
		v.MinY, v.MaxY = v.MinY-0.5, v.MaxY+0.5
	}
	return v
}

// pixels returns the image size for a view.
func (c config) pixels(v render.Box) (w, h int) {
	return int(math.Ceil(v.Width() * c.scale)), int(math.Ceil(v.Height() * c.scale))
}
