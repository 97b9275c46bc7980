package spring

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ClampAngle wraps an angle difference into (-π, π].
func ClampAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// jointAngle returns the signed angle from v1 to v2 in [0, 2π).
func jointAngle(v1, v2 r2.Vec) float64 {
	a := math.Atan2(r2.Cross(v1, v2), r2.Dot(v1, v2))
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// heading returns the direction of the segment from a to b.
func heading(a, b r2.Vec) float64 {
	d := r2.Sub(b, a)
	return math.Atan2(d.Y, d.X)
}

func rotCW(v r2.Vec) r2.Vec  { return r2.Vec{X: v.Y, Y: -v.X} }
func rotCCW(v r2.Vec) r2.Vec { return r2.Vec{X: -v.Y, Y: v.X} }

// Border is an axis-aligned rectangle in world units.
type Border struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether p lies strictly inside the border.
func (b Border) Contains(p r2.Vec) bool {
	return p.X > b.MinX && p.X < b.MaxX && p.Y > b.MinY && p.Y < b.MaxY
}

// BorderOf returns the border covering box.
func BorderOf(box r2.Box) Border {
	return Border{MinX: box.Min.X, MinY: box.Min.Y, MaxX: box.Max.X, MaxY: box.Max.Y}
}

// Edge is a straight segment between two points, as produced by a partition
// generator.
type Edge struct {
	A, B r2.Vec
}

// Length returns the edge's Euclidean length.
func (e Edge) Length() float64 {
	return r2.Norm(r2.Sub(e.B, e.A))
}

// Segment is the current position pair of one spring.
type Segment struct {
	A, B r2.Vec
	Line int
}
