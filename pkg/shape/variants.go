package shape

import "math"

type constant struct{ degrees float64 }

func (c constant) Angle(Input) float64 { return c.degrees * Deg2Rad }

type average struct{ multiplier float64 }

func (a average) Angle(in Input) float64 {
	return a.multiplier * invSegments(in.Segments) * meanRelative(in.StartAngles, in.EndAngles)
}

type basicLerp struct{ multiplier float64 }

func (l basicLerp) Angle(in Input) float64 {
	start := dominant(in.StartAngles)
	end := dominant(in.EndAngles)
	return l.multiplier * invSegments(in.Segments) * lerp(-start, end, in.T)
}

type randomized struct{ multiplier float64 }

func (r randomized) Angle(in Input) float64 {
	return r.multiplier * invSegments(in.Segments) * uniform(in.Rand, -90*Deg2Rad, 90*Deg2Rad)
}

type sine struct{ multiplier float64 }

func (s sine) Angle(in Input) float64 {
	return s.multiplier * math.Sin(in.T*2*math.Pi)
}

// pseudorandomMinimizer scales every pseudorandom draw.
const pseudorandomMinimizer = 0.4

type pseudorandom struct{}

func (pseudorandom) Angle(in Input) float64 {
	bucket := int(math.Floor(in.T*float64(in.Segments))) % 4
	if bucket < 2 {
		return pseudorandomMinimizer * uniform(in.Rand, -90*Deg2Rad, 0)
	}
	return pseudorandomMinimizer * uniform(in.Rand, 0, 90*Deg2Rad)
}
