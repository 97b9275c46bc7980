package recipe

import (
	"slices"

	"github.com/matzehuels/patternsynth/pkg/errors"
)

var presets = map[string]Recipe{
	"voronoi-lerp": {
		Pattern:      PatternVoronoi,
		Shape:        "lerp",
		Value:        1,
		Points:       100,
		Distribution: "random",
	},
	"tree": {
		Pattern: PatternRandomTree,
		Shape:   "randomized",
		Value:   2,
		Depth:   7,
	},
	"scales": {
		Pattern:      PatternVoronoi,
		Shape:        "constant",
		Value:        10,
		Points:       100,
		Distribution: "grid",
	},
	"mud": {
		Pattern:      PatternVoronoi,
		Shape:        "pseudorandom",
		Value:        1,
		Points:       100,
		Distribution: "stratified",
	},
	"waves": {
		Pattern:      PatternVoronoi,
		Shape:        "sequential-sine",
		Value:        1,
		Points:       40,
		Distribution: "stratified",
	},
}

// PresetNames returns the names of the built-in recipes in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Preset returns a validated copy of a built-in recipe.
func Preset(name string) (Recipe, error) {
	r, ok := presets[name]
	if !ok {
		return Recipe{}, errors.New(errors.ErrCodeNotFound, "unknown preset %q", name)
	}
	r.Name = name
	if err := r.ValidateAndSetDefaults(); err != nil {
		return Recipe{}, err
	}
	return r, nil
}
