package topology

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/patternsynth/pkg/render"
)

func triangle() render.Snapshot {
	return render.Snapshot{
		Lines: []render.Line{
			{ID: "0123456789abcdef", Dynamic: true, Points: []render.Point{{0, 0}, {1, 0}}},
			{ID: "b", Points: []render.Point{{1, 0}, {0.5, 1}}},
			{ID: "c", Points: []render.Point{{0.5, 1}, {0.25, 0.5}, {0, 0}}},
		},
		Joints: []render.Joint{
			{A: 0, B: 1, EndA: "end", EndB: "start", Angle: 2.0344},
			{A: 0, B: 2, EndA: "start", EndB: "end", Angle: -2.0344},
			{A: 1, B: 2, EndA: "end", EndB: "start", Angle: 2.2143},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(triangle(), Options{})

	for _, want := range []string{
		"graph G {",
		`"line-0" [label="0", fillcolor=black, fontcolor=white];`,
		`"line-1" [label="1"];`,
		`"line-0" -- "line-1" [label="end-start"];`,
		`"line-0" -- "line-2" [label="start-end"];`,
		`"line-1" -- "line-2" [label="end-start"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, " -- "); got != 3 {
		t.Errorf("edge count = %d, want 3", got)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(triangle(), Options{Detailed: true})

	for _, want := range []string{
		`label="0\n01234567\nsegments: 1"`,
		`label="2\nc\nsegments: 2"`,
		`label="end-start\n2.034"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte("<svg></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(triangle(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(svg)), "<") || !strings.Contains(string(svg), "<svg") {
		t.Errorf("RenderSVG() output is not svg: %.80s", svg)
	}
}
