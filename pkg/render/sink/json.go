package sink

import (
	"encoding/json"

	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/render"
)

type jsonOutput struct {
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Scale    float64         `json:"scale"`
	View     render.Box      `json:"view"`
	Segments int             `json:"segments"`
	Pattern  render.Snapshot `json:"pattern"`
}

// RenderJSON exports the snapshot together with the view and pixel size an
// image rendered with the same options would have.
func RenderJSON(s render.Snapshot, opts ...Option) ([]byte, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	v := c.view(s)
	w, h := c.pixels(v)
	data, err := json.MarshalIndent(jsonOutput{
		Width:    w,
		Height:   h,
		Scale:    c.scale,
		View:     v,
		Segments: s.SegmentCount(),
		Pattern:  s,
	}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return data, nil
}
