package spring

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/shape"
)

// Tree geometry.
const (
	treeLengthScale  = 1.15
	treeBranchSpread = 20.0
	treeMinSpread    = 10.0
	treeMaxSpread    = 35.0
	treeMinScale     = 0.8
	treeMaxScale     = 1.2
)

var treeRoot = r2.Vec{X: 0, Y: 10}

// SegmentsFor returns the number of segments used for an edge of the given
// length: two per unit, at least one.
func SegmentsFor(length float64) int {
	return max(1, int(math.Round(length*2)))
}

// CreateBox builds a closed 10×10 square of four lines sharing one shape
// function, then initializes the network.
func (n *Network) CreateBox(segments int, kind shape.Kind, sideAngle float64) error {
	segments = max(1, segments)
	fn := shape.New(kind, sideAngle)
	corners := []r2.Vec{{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}, {X: -5, Y: 5}}
	for i, c := range corners {
		if _, err := n.CreateLine(c, corners[(i+1)%len(corners)], segments, fn, true); err != nil {
			return err
		}
	}
	return n.Init()
}

// CreateSystem builds one line per edge. A line is dynamic when either
// endpoint lies strictly inside the border, so lines along the border stay
// fixed. Zero-length edges are skipped.
func (n *Network) CreateSystem(border Border, edges []Edge, kind shape.Kind, severity float64) error {
	fn := shape.New(kind, severity)
	skipped := 0
	for _, e := range edges {
		length := e.Length()
		if length < JoinEpsilon {
			skipped++
			continue
		}
		dynamic := border.Contains(e.A) || border.Contains(e.B)
		if _, err := n.CreateLine(e.A, e.B, SegmentsFor(length), fn, dynamic); err != nil {
			return err
		}
	}
	if skipped > 0 {
		n.opts.Logger.Debug("skipped degenerate edges", "count", skipped)
	}
	return n.Init()
}

// CreateFractalTree builds a binary tree of lines rooted at (0, 10) growing
// downward. Each branch is shorter by one depth step and splits at ±20°.
func (n *Network) CreateFractalTree(depth int, kind shape.Kind, severity float64) error {
	if depth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "tree depth must not be negative, got %d", depth)
	}
	fn := shape.New(kind, severity)
	grow := func(depth int) (float64, float64) {
		return treeBranchSpread, float64(depth) * treeLengthScale
	}
	if err := n.branch(treeRoot, -90, depth, fn, grow); err != nil {
		return err
	}
	return n.Init()
}

// CreateRandomizedFractalTree builds a tree like [Network.CreateFractalTree]
// with each branch's spread and length drawn from the network stream.
func (n *Network) CreateRandomizedFractalTree(depth int, kind shape.Kind, value float64) error {
	if depth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "tree depth must not be negative, got %d", depth)
	}
	fn := shape.New(kind, value)
	grow := func(depth int) (float64, float64) {
		spread := treeMinSpread + n.rng.Float64()*(treeMaxSpread-treeMinSpread)
		scale := treeMinScale + n.rng.Float64()*(treeMaxScale-treeMinScale)
		return spread, float64(depth) * treeLengthScale * scale
	}
	if err := n.branch(treeRoot, -90, depth, fn, grow); err != nil {
		return err
	}
	return n.Init()
}

// growFunc returns the branch spread in degrees and the length of a branch
// at the given depth.
type growFunc func(depth int) (spread, length float64)

func (n *Network) branch(p r2.Vec, angleDeg float64, depth int, fn shape.Func, grow growFunc) error {
	if depth == 0 {
		return nil
	}
	spread, length := grow(depth)
	rad := angleDeg * shape.Deg2Rad
	end := r2.Add(p, r2.Vec{X: length * math.Cos(rad), Y: length * math.Sin(rad)})
	if _, err := n.CreateLine(p, end, SegmentsFor(length), fn, true); err != nil {
		return err
	}
	if err := n.branch(end, angleDeg-spread, depth-1, fn, grow); err != nil {
		return err
	}
	return n.branch(end, angleDeg+spread, depth-1, fn, grow)
}

// CreateSquiggle builds a three-line zig-zag.
func (n *Network) CreateSquiggle(segments int, kind shape.Kind, severity float64) error {
	segments = max(1, segments)
	fn := shape.New(kind, severity)
	pts := []r2.Vec{{X: -10, Y: -5}, {X: 0, Y: -5}, {X: 0, Y: 5}, {X: 10, Y: 5}}
	for i := 1; i < len(pts); i++ {
		if _, err := n.CreateLine(pts[i-1], pts[i], segments, fn, true); err != nil {
			return err
		}
	}
	return n.Init()
}

// CreateSingleLine builds one horizontal line from (-10, 0) to (10, 0).
func (n *Network) CreateSingleLine(segments int, fn shape.Func) error {
	if _, err := n.CreateLine(r2.Vec{X: -10, Y: 0}, r2.Vec{X: 10, Y: 0}, max(1, segments), fn, true); err != nil {
		return err
	}
	return n.Init()
}
