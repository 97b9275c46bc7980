package shape

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
)

// Angle conversion factors.
const (
	Deg2Rad = math.Pi / 180
	Rad2Deg = 180 / math.Pi
)

// Input is the local context a shape function evaluates.
type Input struct {
	// StartAngles holds the relative angles of lines joined at the line's start.
	StartAngles []float64
	// EndAngles holds the relative angles of lines joined at the line's end.
	EndAngles []float64
	// T is the spring's fractional position along the line, in [0, 1].
	T float64
	// Segments is the number of springs in the line.
	Segments int
	// Rand is the line's random stream. Stochastic kinds fall back to the
	// global source when it is nil.
	Rand *rand.Rand
}

// Func produces a target angle in radians for one spring.
type Func interface {
	Angle(in Input) float64
}

// Binder is implemented by functions that keep per-line state. Bind is called
// once per line and rest-angle pass; the returned Func is used for every
// spring of that line only.
type Binder interface {
	Bind(rng *rand.Rand) Func
}

// Kind identifies a shape function family.
type Kind int

const (
	Constant Kind = iota
	Average
	BasicLerp
	Randomized
	Sine
	Pseudorandom
	SequentialSine
	SequentialSineBlend
)

var kindNames = map[Kind]string{
	Constant:            "constant",
	Average:             "average",
	BasicLerp:           "lerp",
	Randomized:          "randomized",
	Sine:                "sine",
	Pseudorandom:        "pseudorandom",
	SequentialSine:      "sequential-sine",
	SequentialSineBlend: "sequential-sine-blend",
}

// String returns the kind's canonical name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := range kindNames {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Parse resolves a kind by name, case-insensitively. Unknown names resolve to
// Constant with ok set to false, so callers may warn but keep going.
func Parse(name string) (k Kind, ok bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, s := range kindNames {
		if s == name {
			return kind, true
		}
	}
	return Constant, false
}

// New returns the function for kind. value is the angle in degrees for
// Constant and a multiplier for every other kind. Unknown kinds fall back to
// Constant.
func New(kind Kind, value float64) Func {
	switch kind {
	case Constant:
		return constant{degrees: value}
	case Average:
		return average{multiplier: value}
	case BasicLerp:
		return basicLerp{multiplier: value}
	case Randomized:
		return randomized{multiplier: value}
	case Sine:
		return sine{multiplier: value}
	case Pseudorandom:
		return pseudorandom{}
	case SequentialSine:
		return &sequentialSine{multiplier: value}
	case SequentialSineBlend:
		return &sequentialSine{multiplier: value, blend: true}
	default:
		return constant{degrees: value}
	}
}

// Evaluate computes the angles of all n springs of a line, binding fn first
// when it keeps per-line state. It is meant for previews outside a network.
func Evaluate(fn Func, start, end []float64, n int, rng *rand.Rand) []float64 {
	if b, ok := fn.(Binder); ok {
		fn = b.Bind(rng)
	}
	out := make([]float64, n)
	for i := range n {
		out[i] = fn.Angle(Input{
			StartAngles: start,
			EndAngles:   end,
			T:           float64(i) / float64(n),
			Segments:    n,
			Rand:        rng,
		})
	}
	return out
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	var f float64
	if rng != nil {
		f = rng.Float64()
	} else {
		f = rand.Float64()
	}
	return lo + f*(hi-lo)
}

// dominant returns the signed element with the largest magnitude, or 0.
func dominant(angles []float64) float64 {
	var d float64
	for _, a := range angles {
		if math.Abs(a) > math.Abs(d) {
			d = a
		}
	}
	return d
}

// meanRelative averages the negated start angles together with the end
// angles. It returns 0 when the line has no neighbors.
func meanRelative(start, end []float64) float64 {
	n := len(start) + len(end)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, a := range start {
		sum -= a
	}
	for _, a := range end {
		sum += a
	}
	return sum / float64(n)
}

func invSegments(n int) float64 {
	if n < 1 {
		return 1
	}
	return 1 / float64(n)
}
