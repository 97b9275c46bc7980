package sink

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/render"
)

func testSnapshot() render.Snapshot {
	return render.Snapshot{
		Seed:   7,
		Steps:  10,
		Bounds: render.Box{MinX: 0, MinY: 0, MaxX: 4, MaxY: 2},
		Lines: []render.Line{
			{ID: "a", Dynamic: true, Points: []render.Point{{0, 0}, {2, 0}, {4, 0}}},
			{ID: "b", Points: []render.Point{{4, 0}, {4, 2}}},
		},
		Joints: []render.Joint{{A: 0, B: 1, EndA: "end", EndB: "start", Angle: 1.5708}},
	}
}

func TestView(t *testing.T) {
	tests := []struct {
		name string
		snap render.Snapshot
		opts []Option
		want render.Box
	}{
		{"default margin", testSnapshot(), nil, render.Box{MinX: -1, MinY: -1, MaxX: 5, MaxY: 3}},
		{"no margin", testSnapshot(), []Option{WithMargin(0)}, render.Box{MinX: 0, MinY: 0, MaxX: 4, MaxY: 2}},
		{"empty", render.Snapshot{}, []Option{WithMargin(0)}, render.Box{MinX: -0.5, MinY: -0.5, MaxX: 0.5, MaxY: 0.5}},
		{
			"flat line",
			render.Snapshot{
				Bounds: render.Box{MinX: 0, MinY: 1, MaxX: 3, MaxY: 1},
				Lines:  []render.Line{{ID: "x", Points: []render.Point{{0, 1}, {3, 1}}}},
			},
			[]Option{WithMargin(0)},
			render.Box{MinX: 0, MinY: 0.5, MaxX: 3, MaxY: 1.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := View(tt.snap, tt.opts...); got != tt.want {
				t.Errorf("View() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero scale", WithScale(0)},
		{"negative stroke", WithStroke(-1)},
		{"negative margin", WithMargin(-2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RenderSVG(testSnapshot(), tt.opt); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("RenderSVG() error = %v, want INVALID_INPUT", err)
			}
			if _, err := RenderPNG(testSnapshot(), tt.opt); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("RenderPNG() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(testSnapshot(), WithScale(10))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	out := string(svg)

	for _, want := range []string{
		`viewBox="-1 -1 6 4"`,
		`width="60" height="40"`,
		`fill="white"`,
		`stroke-width="0.15"`,
		`<polyline id="line-a" points="0,0 2,0 4,0"/>`,
		`<polyline id="line-b" points="4,0 4,2"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(out, `class="bodies"`) {
		t.Error("SVG has bodies without WithBodies")
	}
}

func TestRenderSVGBodies(t *testing.T) {
	svg, err := RenderSVG(testSnapshot(), WithBodies(true))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if got := strings.Count(string(svg), `<rect x=`); got != 1+5 {
		t.Errorf("rect count = %d, want background plus 5 bodies", got)
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testSnapshot(), WithScale(10), WithStroke(2))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 40 {
		t.Fatalf("size = %dx%d, want 60x40", b.Dx(), b.Dy())
	}

	// World (1, 0) lies on line a; world (2, 1.5) is empty.
	if !dark(img.At(20, 10)) {
		t.Error("pixel on line is not dark")
	}
	if dark(img.At(30, 25)) {
		t.Error("pixel off line is not white")
	}
	if r, g, b, _ := img.At(0, 0).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("background = %v, want white", img.At(0, 0))
	}
}

func TestRenderPNGBodies(t *testing.T) {
	// Stroke is thin enough that only a body fills the pixel beside a point.
	opts := []Option{WithScale(20), WithStroke(0.5), WithMargin(0)}
	plain, err := Rasterize(testSnapshot(), opts...)
	if err != nil {
		t.Fatalf("Rasterize() error: %v", err)
	}
	bodies, err := Rasterize(testSnapshot(), append(opts, WithBodies(true))...)
	if err != nil {
		t.Fatalf("Rasterize() error: %v", err)
	}

	// Point (2, 0), 2 pixels below the line.
	pv := View(testSnapshot(), opts...)
	x := int((2 - pv.MinX) * 20)
	y := int((0 - pv.MinY) * 20)
	bv := View(testSnapshot(), append(opts, WithBodies(true))...)
	bx := int((2 - bv.MinX) * 20)
	by := int((0 - bv.MinY) * 20)

	if dark(plain.At(x, y+2)) {
		t.Error("plain image is dark below the line")
	}
	if !dark(bodies.At(bx, by+2)) {
		t.Error("body square not drawn")
	}
}

func TestRasterizeRoundCaps(t *testing.T) {
	img, err := Rasterize(testSnapshot(), WithScale(10), WithStroke(8))
	if err != nil {
		t.Fatalf("Rasterize() error: %v", err)
	}
	// Line a starts at pixel (10, 10) with a cap radius of 4 pixels.
	tests := []struct {
		x, y int
		want bool
	}{
		{7, 10, true},  // inside the cap along the line
		{6, 6, false},  // cap corner a square cap would fill
		{20, 13, true}, // inside the stroke
		{20, 16, false},
	}
	for _, tt := range tests {
		if got := dark(img.At(tt.x, tt.y)); got != tt.want {
			t.Errorf("dark(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRenderPNGTooLarge(t *testing.T) {
	_, err := RenderPNG(testSnapshot(), WithScale(MaxPixels))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("RenderPNG() error = %v, want INVALID_INPUT", err)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testSnapshot(), WithScale(10))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Width != 60 || out.Height != 40 {
		t.Errorf("size = %dx%d, want 60x40", out.Width, out.Height)
	}
	if out.Segments != 3 {
		t.Errorf("Segments = %d, want 3", out.Segments)
	}
	if len(out.Pattern.Lines) != 2 {
		t.Errorf("Lines count = %d, want 2", len(out.Pattern.Lines))
	}
	if len(out.Pattern.Joints) != 1 || out.Pattern.Joints[0].EndA != "end" {
		t.Errorf("Joints = %+v, want one end-start joint", out.Pattern.Joints)
	}
}

func dark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r < 0x8000 && g < 0x8000 && b < 0x8000
}
