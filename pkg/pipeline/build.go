package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patternsynth/pkg/engine/box2d"
	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/partition"
	"github.com/matzehuels/patternsynth/pkg/recipe"
	"github.com/matzehuels/patternsynth/pkg/shape"
	"github.com/matzehuels/patternsynth/pkg/spring"
)

// partitionStream selects the point stream of a seed so that it never
// coincides with the network's own stream.
const partitionStream = 0x9e3779b97f4a7c15

// checkEvery is how many steps run between context checks.
const checkEvery = 64

// Build constructs and initializes the network a recipe describes on a new
// Box2D world.
func Build(rc recipe.Recipe, logger *log.Logger) (*spring.Network, error) {
	if err := rc.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	n := spring.New(box2d.New(), spring.Options{
		Seed:    rc.Seed,
		Matcher: matcher(rc.Matcher),
		Logger:  logger,
	})

	kind := rc.Kind()
	var err error
	switch rc.Pattern {
	case recipe.PatternBox:
		err = n.CreateBox(rc.Segments, kind, rc.Value)
	case recipe.PatternVoronoi:
		err = buildVoronoi(n, rc)
	case recipe.PatternTree:
		err = n.CreateFractalTree(rc.Depth, kind, rc.Value)
	case recipe.PatternRandomTree:
		err = n.CreateRandomizedFractalTree(rc.Depth, kind, rc.Value)
	case recipe.PatternSquiggle:
		err = n.CreateSquiggle(rc.Segments, kind, rc.Value)
	case recipe.PatternLine:
		err = n.CreateSingleLine(rc.Segments, shape.New(kind, rc.Value))
	default:
		err = errors.New(errors.ErrCodeInvalidPattern, "unknown pattern %q", rc.Pattern)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", rc.Pattern, err)
	}
	return n, nil
}

func buildVoronoi(n *spring.Network, rc recipe.Recipe) error {
	rect := partition.Rect(rc.Width, rc.Height)
	rng := rand.New(rand.NewPCG(rc.Seed, partitionStream))
	points, err := partition.Points(rc.Policy(), rect, rc.Points, rng)
	if err != nil {
		return err
	}
	edges, err := partition.Voronoi{}.Edges(rect, points)
	if err != nil {
		return err
	}
	if err := checkSprings(edges, recipe.MaxSprings); err != nil {
		return err
	}
	return n.CreateSystem(spring.BorderOf(rect), edges, rc.Kind(), rc.Value)
}

// checkSprings fails when the edges would need more than limit springs.
func checkSprings(edges []spring.Edge, limit int) error {
	total := 0
	for _, e := range edges {
		total += spring.SegmentsFor(e.Length())
	}
	if total > limit {
		return errors.New(errors.ErrCodeInvalidInput, "partition needs %d springs, limit is %d", total, limit)
	}
	return nil
}

func matcher(name string) spring.Matcher {
	if name == recipe.MatcherGrid {
		return spring.Grid{}
	}
	return spring.BruteForce{}
}

// Simulate advances n by steps ticks of dt. It stops early with the context
// error when ctx is cancelled.
func Simulate(ctx context.Context, n *spring.Network, steps int, dt float64) (spring.Residual, error) {
	if !n.Ready() {
		return spring.Residual{}, errors.New(errors.ErrCodeInvalidState, "network is not initialized")
	}
	for i := 0; i < steps; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return n.Residual(), errors.Wrap(errors.ErrCodeTimeout, err, "simulation stopped after %d steps", i)
			}
		}
		n.Step(dt)
	}
	return n.Residual(), nil
}
