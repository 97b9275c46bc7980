package partition

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/spring"
)

// Generator turns sites into an edge set bounded by a rectangle.
type Generator interface {
	Edges(rect r2.Box, points []r2.Vec) ([]spring.Edge, error)
}

// snapTol is the distance below which two computed vertices are merged.
const snapTol = 1e-7

// clipTol absorbs rounding when classifying polygon vertices.
const clipTol = 1e-12

// Voronoi computes bounded Voronoi diagrams by clipping the rectangle with
// the bisector half-plane of each pair of nearby sites.
type Voronoi struct{}

var _ Generator = Voronoi{}

// Edges returns the edges of the Voronoi diagram of points clipped to rect,
// including the border. Each edge appears once. Duplicate sites are ignored;
// sites outside rect are rejected.
func (Voronoi) Edges(rect r2.Box, points []r2.Vec) ([]spring.Edge, error) {
	if len(points) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "voronoi diagram needs at least one site")
	}
	if !(rect.Max.X > rect.Min.X && rect.Max.Y > rect.Min.Y) {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "rectangle %v is empty", rect)
	}

	sites := make([]r2.Vec, 0, len(points))
	seen := make(map[r2.Vec]struct{}, len(points))
	for _, p := range points {
		if p.X < rect.Min.X || p.X > rect.Max.X || p.Y < rect.Min.Y || p.Y > rect.Max.Y {
			return nil, errors.New(errors.ErrCodeInvalidGeometry, "site %v lies outside %v", p, rect)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		sites = append(sites, p)
	}

	var (
		verts  = newVertexSet()
		out    []spring.Edge
		edges  = make(map[[2]int]struct{})
		order  = make([]int, len(sites))
		border = []r2.Vec{
			rect.Min,
			{X: rect.Max.X, Y: rect.Min.Y},
			rect.Max,
			{X: rect.Min.X, Y: rect.Max.Y},
		}
	)

	for i, s := range sites {
		cell := cellOf(i, s, sites, order, border)
		for k := range cell {
			a := verts.id(cell[k])
			b := verts.id(cell[(k+1)%len(cell)])
			if a == b {
				continue
			}
			key := [2]int{min(a, b), max(a, b)}
			if _, dup := edges[key]; dup {
				continue
			}
			edges[key] = struct{}{}
			out = append(out, spring.Edge{A: verts.at(a), B: verts.at(b)})
		}
	}
	return out, nil
}

// cellOf clips the border polygon to the region closer to sites[i] than to
// any other site. Neighbors are visited nearest first so the scan can stop
// once no remaining site is close enough to cut the cell.
func cellOf(i int, s r2.Vec, sites []r2.Vec, order []int, border []r2.Vec) []r2.Vec {
	for k := range order {
		order[k] = k
	}
	slices.SortFunc(order, func(a, b int) int {
		da, db := r2.Norm2(r2.Sub(sites[a], s)), r2.Norm2(r2.Sub(sites[b], s))
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return a - b
	})

	cell := slices.Clone(border)
	for _, j := range order {
		if j == i {
			continue
		}
		d := r2.Sub(sites[j], s)
		if r2.Norm(d) > 2*radius(s, cell) {
			break
		}
		mid := r2.Scale(0.5, r2.Add(s, sites[j]))
		cell = clip(cell, mid, d)
		if len(cell) < 3 {
			return nil
		}
	}
	return cell
}

// radius returns the distance from s to the farthest vertex of poly.
func radius(s r2.Vec, poly []r2.Vec) float64 {
	var r float64
	for _, p := range poly {
		r = math.Max(r, r2.Norm(r2.Sub(p, s)))
	}
	return r
}

// clip keeps the part of poly on the side of the line through m with normal
// n that does not contain m+n.
func clip(poly []r2.Vec, m, n r2.Vec) []r2.Vec {
	out := make([]r2.Vec, 0, len(poly)+1)
	for k, p := range poly {
		q := poly[(k+1)%len(poly)]
		dp := r2.Dot(r2.Sub(p, m), n)
		dq := r2.Dot(r2.Sub(q, m), n)
		pin, qin := dp <= clipTol, dq <= clipTol
		if pin {
			out = append(out, p)
		}
		if pin != qin && math.Abs(dp-dq) > 0 {
			t := dp / (dp - dq)
			out = append(out, r2.Add(p, r2.Scale(t, r2.Sub(q, p))))
		}
	}
	return out
}

// vertexSet merges vertices closer than snapTol so that edges computed from
// different cells share exact endpoints.
type vertexSet struct {
	pts     []r2.Vec
	buckets map[[2]int64][]int
}

func newVertexSet() *vertexSet {
	return &vertexSet{buckets: make(map[[2]int64][]int)}
}

func (v *vertexSet) key(p r2.Vec) [2]int64 {
	return [2]int64{int64(math.Floor(p.X / snapTol)), int64(math.Floor(p.Y / snapTol))}
}

func (v *vertexSet) id(p r2.Vec) int {
	k := v.key(p)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, idx := range v.buckets[[2]int64{k[0] + dx, k[1] + dy}] {
				if r2.Norm(r2.Sub(v.pts[idx], p)) < snapTol {
					return idx
				}
			}
		}
	}
	v.pts = append(v.pts, p)
	v.buckets[k] = append(v.buckets[k], len(v.pts)-1)
	return len(v.pts) - 1
}

func (v *vertexSet) at(i int) r2.Vec { return v.pts[i] }
