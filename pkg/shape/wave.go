package shape

import (
	"math"
	"math/rand/v2"
	"sort"
)

// minWaveSpan is the remaining line fraction below which no new wave starts.
const minWaveSpan = 0.15

// Blend weights for SequentialSineBlend.
const (
	blendSineScale    = 3.0
	blendAverageScale = 0.4
)

// sequentialSine lays consecutive sine bursts of random length along a line.
// It only carries parameters; Bind draws the partition.
type sequentialSine struct {
	multiplier float64
	blend      bool
}

// Bind draws the wave partition for one line. The result is not a Binder,
// so binding it again is impossible.
func (s *sequentialSine) Bind(rng *rand.Rand) Func {
	return boundSine{params: *s, starts: wavePartition(rng)}
}

// Angle draws a fresh partition from the caller's stream on every call.
func (s *sequentialSine) Angle(in Input) float64 {
	return s.value(wavePartition(in.Rand), in)
}

func (s *sequentialSine) value(starts []float64, in Input) float64 {
	v := waveValue(starts, in.T) * s.multiplier
	if !s.blend {
		return v
	}
	avg := s.multiplier * invSegments(in.Segments) * meanRelative(in.StartAngles, in.EndAngles)
	return 0.5*(blendSineScale*v) + 0.5*(blendAverageScale*avg)
}

// boundSine is a sequentialSine with the partition of one line.
type boundSine struct {
	params sequentialSine
	starts []float64 // ascending wave start fractions, starts[0] == 0
}

func (b boundSine) Angle(in Input) float64 {
	return b.params.value(b.starts, in)
}

// wavePartition returns the start fractions of consecutive waves. Each new
// start is drawn uniformly between the previous start and the line end until
// the remaining span drops below minWaveSpan.
func wavePartition(rng *rand.Rand) []float64 {
	starts := []float64{0}
	last := 0.0
	for 1-last >= minWaveSpan {
		last = uniform(rng, last, 1)
		starts = append(starts, last)
	}
	return starts
}

// waveValue evaluates the partition at t: the wave containing t contributes
// (1 - length) * sin(2π * progress).
func waveValue(starts []float64, t float64) float64 {
	i := sort.SearchFloat64s(starts, t)
	if i == len(starts) || starts[i] > t {
		i--
	}
	if i < 0 {
		i = 0
	}
	lo := starts[i]
	hi := 1.0
	if i+1 < len(starts) {
		hi = starts[i+1]
	}
	length := hi - lo
	if length <= 0 {
		return 0
	}
	progress := (t - lo) / length
	return (1 - length) * math.Sin(progress*2*math.Pi)
}
