// Package recipe defines pattern recipes: the TOML documents that describe
// which pattern to build, how to shape it and how long to relax it.
//
// A recipe names a pattern constructor, a shape function and the parameters
// both need. Missing fields get defaults from [Recipe.ValidateAndSetDefaults],
// so the smallest useful recipe is a single line:
//
//	pattern = "box"
//
// Recipes are also the unit of caching: [Recipe.Hash] identifies the
// simulated result.
package recipe

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/patternsynth/pkg/cache"
	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/partition"
	"github.com/matzehuels/patternsynth/pkg/shape"
)

// =============================================================================
// Constants
// =============================================================================

// Pattern names.
const (
	PatternBox        = "box"
	PatternVoronoi    = "voronoi"
	PatternTree       = "tree"
	PatternRandomTree = "random-tree"
	PatternSquiggle   = "squiggle"
	PatternLine       = "line"
)

// Matcher names.
const (
	MatcherBruteForce = "brute-force"
	MatcherGrid       = "grid"
)

// Default values shared by the CLI and the HTTP server.
const (
	DefaultPattern      = PatternBox
	DefaultShape        = "constant"
	DefaultValue        = 10.0
	DefaultSegments     = 10
	DefaultDepth        = 5
	DefaultPoints       = 50
	DefaultDistribution = "random"
	DefaultSeed         = uint64(42)
	DefaultSteps        = 600
	DefaultDT           = 1.0 / 60
	DefaultMatcher      = MatcherBruteForce

	// DefaultWidth and DefaultHeight are the canvas size in world units:
	// a 1000px window at 30px per unit.
	DefaultWidth  = 1000.0 / 30
	DefaultHeight = 1000.0 / 30

	// Limits keep a single request within a reasonable budget.
	MaxSegments = 2000
	MaxDepth    = 12
	MaxPoints   = 5000
	MaxSteps    = 100000
	MaxWidth    = 300.0
	MaxHeight   = 300.0

	// MaxSprings caps the springs of a generated partition. Edge segment
	// counts grow with the canvas, so the other limits alone do not bound it.
	MaxSprings = 100000
)

// Patterns lists every pattern name.
var Patterns = []string{PatternBox, PatternVoronoi, PatternTree, PatternRandomTree, PatternSquiggle, PatternLine}

// =============================================================================
// Recipe
// =============================================================================

// Recipe describes one pattern.
//
// Zero values mean "use the default" for every numeric field. In particular
// seed 0 runs with DefaultSeed and steps 0 with DefaultSteps, so a recipe
// cannot ask for either literally. Build a network with pipeline.Build to
// inspect it without simulating.
type Recipe struct {
	Name    string `toml:"name,omitempty" json:"name,omitempty"`
	Pattern string `toml:"pattern" json:"pattern"`

	// Shape function
	Shape string  `toml:"shape" json:"shape"`
	Value float64 `toml:"value" json:"value"`

	// Construction
	Segments     int     `toml:"segments,omitempty" json:"segments,omitempty"`
	Depth        int     `toml:"depth,omitempty" json:"depth,omitempty"`
	Points       int     `toml:"points,omitempty" json:"points,omitempty"`
	Distribution string  `toml:"distribution,omitempty" json:"distribution,omitempty"`
	Width        float64 `toml:"width,omitempty" json:"width,omitempty"`
	Height       float64 `toml:"height,omitempty" json:"height,omitempty"`
	Matcher      string  `toml:"matcher,omitempty" json:"matcher,omitempty"`

	// Simulation
	Seed  uint64  `toml:"seed" json:"seed"`
	Steps int     `toml:"steps" json:"steps"`
	DT    float64 `toml:"dt" json:"dt"`

	// Output
	Formats []string `toml:"formats,omitempty" json:"formats,omitempty"`

	validated bool
}

// Load reads and validates a recipe file.
func Load(path string) (Recipe, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Recipe{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "recipe %s", path)
	}
	if err != nil {
		return Recipe{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads and validates a recipe.
func Decode(r io.Reader) (Recipe, error) {
	var rc Recipe
	md, err := toml.NewDecoder(r).Decode(&rc)
	if err != nil {
		return Recipe{}, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "decode recipe")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Recipe{}, errors.New(errors.ErrCodeInvalidRecipe, "unknown recipe keys: %s", strings.Join(keys, ", "))
	}
	if err := rc.ValidateAndSetDefaults(); err != nil {
		return Recipe{}, err
	}
	return rc, nil
}

// Encode writes the recipe as TOML.
func (r Recipe) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(r)
}

// ValidateAndSetDefaults fills missing fields and checks ranges. It is
// idempotent.
func (r *Recipe) ValidateAndSetDefaults() error {
	if r.validated {
		return nil
	}
	r.setDefaults()

	if r.Name != "" {
		if err := errors.ValidateName("recipe", r.Name); err != nil {
			return err
		}
	}
	if !slices.Contains(Patterns, r.Pattern) {
		return errors.New(errors.ErrCodeInvalidPattern, "unknown pattern %q (want one of %s)", r.Pattern, strings.Join(Patterns, ", "))
	}
	if _, ok := shape.Parse(r.Shape); !ok {
		return errors.New(errors.ErrCodeInvalidShape, "unknown shape %q", r.Shape)
	}
	if err := errors.ValidateFinite("value", r.Value); err != nil {
		return err
	}
	if r.Segments < 1 || r.Segments > MaxSegments {
		return errors.New(errors.ErrCodeInvalidInput, "segments must be in [1, %d], got %d", MaxSegments, r.Segments)
	}
	if r.Depth < 0 || r.Depth > MaxDepth {
		return errors.New(errors.ErrCodeInvalidInput, "depth must be in [0, %d], got %d", MaxDepth, r.Depth)
	}
	if r.Points < 1 || r.Points > MaxPoints {
		return errors.New(errors.ErrCodeInvalidInput, "points must be in [1, %d], got %d", MaxPoints, r.Points)
	}
	if _, err := partition.ParsePolicy(r.Distribution); err != nil {
		return err
	}
	if err := errors.ValidatePositive("width", r.Width); err != nil {
		return err
	}
	if err := errors.ValidatePositive("height", r.Height); err != nil {
		return err
	}
	if r.Width > MaxWidth || r.Height > MaxHeight {
		return errors.New(errors.ErrCodeInvalidInput, "canvas %gx%g exceeds %gx%g", r.Width, r.Height, MaxWidth, MaxHeight)
	}
	if err := errors.ValidatePositive("dt", r.DT); err != nil {
		return err
	}
	if r.Steps < 1 || r.Steps > MaxSteps {
		return errors.New(errors.ErrCodeInvalidInput, "steps must be in [1, %d], got %d", MaxSteps, r.Steps)
	}
	if r.Matcher != MatcherBruteForce && r.Matcher != MatcherGrid {
		return errors.New(errors.ErrCodeInvalidInput, "unknown matcher %q", r.Matcher)
	}
	if err := ValidateFormats(r.Formats); err != nil {
		return err
	}
	r.validated = true
	return nil
}

func (r *Recipe) setDefaults() {
	r.Pattern = strings.ToLower(strings.TrimSpace(r.Pattern))
	if r.Pattern == "" {
		r.Pattern = DefaultPattern
	}
	if r.Shape == "" {
		r.Shape = DefaultShape
	}
	if r.Segments == 0 {
		r.Segments = DefaultSegments
	}
	if r.Depth == 0 && (r.Pattern == PatternTree || r.Pattern == PatternRandomTree) {
		r.Depth = DefaultDepth
	}
	if r.Points == 0 {
		r.Points = DefaultPoints
	}
	if r.Distribution == "" {
		r.Distribution = DefaultDistribution
	}
	if r.Width == 0 {
		r.Width = DefaultWidth
	}
	if r.Height == 0 {
		r.Height = DefaultHeight
	}
	if r.Seed == 0 {
		r.Seed = DefaultSeed
	}
	if r.Steps == 0 {
		r.Steps = DefaultSteps
	}
	if r.DT == 0 {
		r.DT = DefaultDT
	}
	if r.Matcher == "" {
		r.Matcher = DefaultMatcher
	}
	if len(r.Formats) == 0 {
		r.Formats = []string{FormatSVG}
	}
}

// Clone returns a deep copy that is validated again on the next
// ValidateAndSetDefaults call, so fields may be overridden first.
func (r Recipe) Clone() Recipe {
	r.Formats = slices.Clone(r.Formats)
	r.validated = false
	return r
}

// Kind returns the recipe's shape kind.
func (r Recipe) Kind() shape.Kind {
	k, _ := shape.Parse(r.Shape)
	return k
}

// Policy returns the recipe's point distribution.
func (r Recipe) Policy() partition.Policy {
	p, _ := partition.ParsePolicy(r.Distribution)
	return p
}

// Hash identifies the simulated network. Output formats and the recipe name
// do not contribute.
func (r Recipe) Hash() string {
	key := r
	key.Name = ""
	key.Formats = nil
	data, _ := json.Marshal(key)
	return cache.Hash(data)
}

// String renders the recipe as TOML.
func (r Recipe) String() string {
	var buf bytes.Buffer
	_ = r.Encode(&buf)
	return buf.String()
}

// =============================================================================
// Formats
// =============================================================================

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}
