package render

import (
	"encoding/json"

	"github.com/matzehuels/patternsynth/pkg/spring"
)

// Point is an (x, y) pair in world units.
type Point [2]float64

// Box is an axis-aligned rectangle in world units.
type Box struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the box width.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the box height.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Pad grows the box by m on every side.
func (b Box) Pad(m float64) Box {
	return Box{MinX: b.MinX - m, MinY: b.MinY - m, MaxX: b.MaxX + m, MaxY: b.MaxY + m}
}

// Line is one line's body chain.
type Line struct {
	ID      string    `json:"id"`
	Dynamic bool      `json:"dynamic"`
	Points  []Point   `json:"points"`
	Rest    []float64 `json:"rest,omitempty"` // rest angle per spring
}

// Joint is a pin between two line ends. Angle is the relative angle recorded
// for line A at that end.
type Joint struct {
	A     int     `json:"a"`
	B     int     `json:"b"`
	EndA  string  `json:"end_a"`
	EndB  string  `json:"end_b"`
	Angle float64 `json:"angle"`
}

// Residual mirrors [spring.Residual].
type Residual struct {
	Linear  float64 `json:"linear"`
	Angular float64 `json:"angular"`
}

// Snapshot is a serializable copy of a network's geometry.
type Snapshot struct {
	Seed     uint64   `json:"seed"`
	Steps    int      `json:"steps"`
	Bounds   Box      `json:"bounds"`
	Lines    []Line   `json:"lines"`
	Joints   []Joint  `json:"joints,omitempty"`
	Residual Residual `json:"residual"`
}

// Capture copies the current geometry of n. steps records how far the
// network was simulated.
func Capture(n *spring.Network, steps int) Snapshot {
	s := Snapshot{
		Seed:  n.Seed(),
		Steps: steps,
		Lines: make([]Line, 0, len(n.Lines())),
	}
	if box, ok := n.Bounds(); ok {
		s.Bounds = Box{MinX: box.Min.X, MinY: box.Min.Y, MaxX: box.Max.X, MaxY: box.Max.Y}
	}
	for _, l := range n.Lines() {
		poly := n.Polyline(l)
		pts := make([]Point, len(poly))
		for i, p := range poly {
			pts[i] = Point{p.X, p.Y}
		}
		s.Lines = append(s.Lines, Line{
			ID:      l.ID.String(),
			Dynamic: l.Dynamic,
			Points:  pts,
			Rest:    l.RestAngles(),
		})
	}

	// Each match appended one angle to line A's list at that end, in order.
	seen := make(map[[2]int]int)
	lines := n.Lines()
	for _, m := range n.Joints() {
		key := [2]int{m.A, int(m.EndA)}
		angles := lines[m.A].Angles(m.EndA)
		var angle float64
		if i := seen[key]; i < len(angles) {
			angle = angles[i]
		}
		seen[key]++
		s.Joints = append(s.Joints, Joint{
			A: m.A, B: m.B,
			EndA: m.EndA.String(), EndB: m.EndB.String(),
			Angle: angle,
		})
	}

	r := n.Residual()
	s.Residual = Residual{Linear: r.Linear, Angular: r.Angular}
	return s
}

// SegmentCount returns the number of springs in the snapshot.
func (s Snapshot) SegmentCount() int {
	var c int
	for _, l := range s.Lines {
		if len(l.Points) > 1 {
			c += len(l.Points) - 1
		}
	}
	return c
}

// MarshalSnapshot encodes a snapshot for caching.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes a cached snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	err := json.Unmarshal(data, &s)
	return s, err
}
