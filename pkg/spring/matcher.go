package spring

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// JoinEpsilon is the distance below which two endpoints are coincident.
const JoinEpsilon = 1e-5

// Match records two coincident endpoints of distinct lines. A is always the
// lower line index.
type Match struct {
	A, B       int
	EndA, EndB End
}

// Matcher finds coincident endpoints between lines.
//
// Implementations must return matches in canonical order: by A, then B, then
// the combinations start-start, start-end, end-start, end-end.
type Matcher interface {
	Match(lines []*Line, eps float64) []Match
}

var endPairs = [4][2]End{{Start, Start}, {Start, Finish}, {Finish, Start}, {Finish, Finish}}

func coincident(a, b r2.Vec, eps float64) bool {
	return r2.Norm(r2.Sub(a, b)) < eps
}

// BruteForce tests every pair of lines.
type BruteForce struct{}

// Match implements [Matcher].
func (BruteForce) Match(lines []*Line, eps float64) []Match {
	var out []Match
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			for _, p := range endPairs {
				if coincident(lines[i].Point(p[0]), lines[j].Point(p[1]), eps) {
					out = append(out, Match{A: i, B: j, EndA: p[0], EndB: p[1]})
				}
			}
		}
	}
	return out
}

// Grid buckets endpoints into square cells and only tests endpoints in
// neighboring cells. Cell sizes below eps are raised to eps.
type Grid struct {
	Cell float64
}

type cellKey struct{ x, y int64 }

type gridEntry struct {
	line int
	end  End
	p    r2.Vec
}

// Match implements [Matcher].
func (g Grid) Match(lines []*Line, eps float64) []Match {
	cell := g.Cell
	if cell < eps || cell <= 0 {
		cell = eps
	}
	key := func(p r2.Vec) cellKey {
		return cellKey{int64(math.Floor(p.X / cell)), int64(math.Floor(p.Y / cell))}
	}

	buckets := make(map[cellKey][]gridEntry, 2*len(lines))
	for i, l := range lines {
		for _, e := range []End{Start, Finish} {
			p := l.Point(e)
			k := key(p)
			buckets[k] = append(buckets[k], gridEntry{line: i, end: e, p: p})
		}
	}

	seen := make(map[Match]struct{})
	var out []Match
	for i, l := range lines {
		for _, e := range []End{Start, Finish} {
			p := l.Point(e)
			k := key(p)
			for dx := int64(-1); dx <= 1; dx++ {
				for dy := int64(-1); dy <= 1; dy++ {
					for _, other := range buckets[cellKey{k.x + dx, k.y + dy}] {
						if other.line <= i || !coincident(p, other.p, eps) {
							continue
						}
						m := Match{A: i, B: other.line, EndA: e, EndB: other.end}
						if _, dup := seen[m]; dup {
							continue
						}
						seen[m] = struct{}{}
						out = append(out, m)
					}
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.A != b.A {
			return a.A < b.A
		}
		if a.B != b.B {
			return a.B < b.B
		}
		if a.EndA != b.EndA {
			return a.EndA < b.EndA
		}
		return a.EndB < b.EndB
	})
	return out
}
