package recipe

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/shape"
)

func TestDecodeDefaults(t *testing.T) {
	r, err := Decode(strings.NewReader(`pattern = "box"`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if r.Shape != DefaultShape {
		t.Errorf("Shape = %q, want %q", r.Shape, DefaultShape)
	}
	if r.Segments != DefaultSegments {
		t.Errorf("Segments = %d, want %d", r.Segments, DefaultSegments)
	}
	if r.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", r.Seed, DefaultSeed)
	}
	if r.DT != DefaultDT {
		t.Errorf("DT = %v, want %v", r.DT, DefaultDT)
	}
	if r.Depth != 0 {
		t.Errorf("Depth = %d, want 0 for a box", r.Depth)
	}
	if len(r.Formats) != 1 || r.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", r.Formats)
	}
}

func TestDecodeZeroMeansDefault(t *testing.T) {
	r, err := Decode(strings.NewReader("seed = 0\nsteps = 0"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if r.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", r.Seed, DefaultSeed)
	}
	if r.Steps != DefaultSteps {
		t.Errorf("Steps = %d, want %d", r.Steps, DefaultSteps)
	}

	if _, err := Decode(strings.NewReader("steps = -1")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Decode(steps = -1) error = %v, want INVALID_INPUT", err)
	}
}

func TestDecodeFull(t *testing.T) {
	src := `
name = "waves"
pattern = "voronoi"
shape = "sequential-sine"
value = 1.5
points = 40
distribution = "stratified"
seed = 7
steps = 120
dt = 0.01
width = 20
height = 10
matcher = "grid"
formats = ["svg", "png"]
`
	r, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if r.Kind() != shape.SequentialSine {
		t.Errorf("Kind = %v, want sequential-sine", r.Kind())
	}
	if r.Points != 40 || r.Seed != 7 || r.Steps != 120 || r.DT != 0.01 {
		t.Errorf("decoded %+v", r)
	}
	if r.Policy().String() != "stratified" {
		t.Errorf("Policy = %v, want stratified", r.Policy())
	}
	if r.Matcher != MatcherGrid {
		t.Errorf("Matcher = %q, want grid", r.Matcher)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"syntax", `pattern = `, errors.ErrCodeInvalidRecipe},
		{"unknown key", "pattern = \"box\"\ncolour = \"red\"", errors.ErrCodeInvalidRecipe},
		{"unknown pattern", `pattern = "spiral"`, errors.ErrCodeInvalidPattern},
		{"unknown shape", `shape = "zigzag"`, errors.ErrCodeInvalidShape},
		{"bad format", `formats = ["pdf"]`, errors.ErrCodeInvalidFormat},
		{"negative segments", `segments = -1`, errors.ErrCodeInvalidInput},
		{"too deep", "pattern = \"tree\"\ndepth = 40", errors.ErrCodeInvalidInput},
		{"negative width", `width = -3`, errors.ErrCodeInvalidInput},
		{"huge width", "pattern = \"voronoi\"\npoints = 1\nwidth = 1e9", errors.ErrCodeInvalidInput},
		{"huge height", `height = 301`, errors.ErrCodeInvalidInput},
		{"bad distribution", `distribution = "hex"`, errors.ErrCodeInvalidInput},
		{"bad matcher", `matcher = "kd"`, errors.ErrCodeInvalidInput},
		{"bad name", `name = "My Pattern"`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if !errors.Is(err, tt.code) {
				t.Errorf("Decode error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	r := Recipe{Pattern: "Tree"}
	if err := r.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	first := r
	if err := r.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults: %v", err)
	}
	if r.Hash() != first.Hash() {
		t.Error("second call changed the recipe")
	}
	if r.Pattern != PatternTree || r.Depth != DefaultDepth {
		t.Errorf("Pattern, Depth = %q, %d, want tree, %d", r.Pattern, r.Depth, DefaultDepth)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	want, err := Preset("waves")
	if err != nil {
		t.Fatalf("Preset: %v", err)
	}
	var buf bytes.Buffer
	if err := want.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, buf.String())
	}
	if got.Hash() != want.Hash() || got.Name != want.Name {
		t.Errorf("round trip changed the recipe:\n%s\nvs\n%s", got, want)
	}
}

func TestHash(t *testing.T) {
	a, _ := Preset("mud")
	b, _ := Preset("mud")
	b.Formats = []string{FormatPNG}
	b.Name = ""
	if a.Hash() != b.Hash() {
		t.Error("Hash should ignore name and formats")
	}
	b.Seed++
	if a.Hash() == b.Hash() {
		t.Error("Hash should depend on the seed")
	}
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	want := []string{"mud", "scales", "tree", "voronoi-lerp", "waves"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("PresetNames = %v, want %v", names, want)
	}
	for _, name := range names {
		r, err := Preset(name)
		if err != nil {
			t.Errorf("Preset(%q): %v", name, err)
			continue
		}
		if r.Name != name {
			t.Errorf("Preset(%q).Name = %q", name, r.Name)
		}
	}
	if _, err := Preset("nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Preset(nope) error = %v, want NOT_FOUND", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "box.toml")
	if err := os.WriteFile(path, []byte("pattern = \"box\"\nsegments = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Segments != 4 {
		t.Errorf("Segments = %d, want 4", r.Segments)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCloneRevalidates(t *testing.T) {
	rc, err := Preset("tree")
	if err != nil {
		t.Fatalf("Preset() error: %v", err)
	}

	c := rc.Clone()
	c.Segments = MaxSegments + 1
	if err := c.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ValidateAndSetDefaults() error = %v, want INVALID_INPUT", err)
	}

	c = rc.Clone()
	c.Formats = append(c.Formats, FormatPNG)
	if len(rc.Formats) == len(c.Formats) {
		t.Error("Clone() shares the Formats slice")
	}
}
