package partition

import (
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/patternsynth/pkg/errors"
)

// Policy selects how sites are placed.
type Policy int

const (
	// Random places sites uniformly in the rectangle.
	Random Policy = iota
	// Stratified places one site uniformly inside each cell of a near-square
	// grid, which spreads sites evenly while keeping them irregular.
	Stratified
	// Grid places sites at the centers of a square grid.
	Grid
)

var policyNames = map[Policy]string{
	Random:     "random",
	Stratified: "stratified",
	Grid:       "grid",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return "unknown"
}

// Policies returns every policy name.
func Policies() []string {
	return []string{Random.String(), Stratified.String(), Grid.String()}
}

// ParsePolicy resolves a policy by name.
func ParsePolicy(name string) (Policy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, s := range policyNames {
		if s == name {
			return p, nil
		}
	}
	return Random, errors.New(errors.ErrCodeInvalidInput, "unknown distribution %q (want one of %s)", name, strings.Join(Policies(), ", "))
}

// Rect returns a width×height rectangle centered on the origin.
func Rect(width, height float64) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: -width / 2, Y: -height / 2},
		Max: r2.Vec{X: width / 2, Y: height / 2},
	}
}

// Points samples n sites inside rect. The grid policy rounds n to the nearest
// square.
func Points(policy Policy, rect r2.Box, n int, rng *rand.Rand) ([]r2.Vec, error) {
	if n < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "need at least one point, got %d", n)
	}
	size := r2.Sub(rect.Max, rect.Min)
	if !(size.X > 0 && size.Y > 0) {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "rectangle %v is empty", rect)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	switch policy {
	case Random:
		pts := make([]r2.Vec, n)
		for i := range pts {
			pts[i] = r2.Vec{
				X: rect.Min.X + rng.Float64()*size.X,
				Y: rect.Min.Y + rng.Float64()*size.Y,
			}
		}
		return pts, nil

	case Stratified:
		cols := int(math.Ceil(math.Sqrt(float64(n))))
		rows := (n + cols - 1) / cols
		cw, ch := size.X/float64(cols), size.Y/float64(rows)
		pts := make([]r2.Vec, n)
		for i := range pts {
			c, r := i%cols, i/cols
			pts[i] = r2.Vec{
				X: rect.Min.X + (float64(c)+rng.Float64())*cw,
				Y: rect.Min.Y + (float64(r)+rng.Float64())*ch,
			}
		}
		return pts, nil

	case Grid:
		side := max(1, int(math.Round(math.Sqrt(float64(n)))))
		cw, ch := size.X/float64(side), size.Y/float64(side)
		pts := make([]r2.Vec, 0, side*side)
		for r := range side {
			for c := range side {
				pts = append(pts, r2.Vec{
					X: rect.Min.X + (float64(c)+0.5)*cw,
					Y: rect.Min.Y + (float64(r)+0.5)*ch,
				})
			}
		}
		return pts, nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown distribution %d", int(policy))
	}
}
