package spring

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/patternsynth/pkg/shape"
)

// End selects one end of a line.
type End uint8

const (
	Start End = iota
	Finish
)

func (e End) String() string {
	if e == Start {
		return "start"
	}
	return "end"
}

// Line is a chain of springs between two endpoints.
type Line struct {
	ID    uuid.UUID
	Index int
	// Seed selects the line's random stream together with the network seed.
	Seed uint64

	Springs   []*Spring
	StartBody BodyID
	EndBody   BodyID

	StartPoint r2.Vec
	EndPoint   r2.Vec

	// StartAngles and EndAngles hold the relative angle of every line joined
	// at each end. They are filled by ConnectLines.
	StartAngles []float64
	EndAngles   []float64

	Shape        shape.Func
	InitialAngle float64
	Dynamic      bool
}

// Body returns the body at the given end.
func (l *Line) Body(e End) BodyID {
	if e == Start {
		return l.StartBody
	}
	return l.EndBody
}

// Point returns the construction position of the given end.
func (l *Line) Point(e End) r2.Vec {
	if e == Start {
		return l.StartPoint
	}
	return l.EndPoint
}

// Angles returns the recorded angle list at the given end.
func (l *Line) Angles(e End) []float64 {
	if e == Start {
		return l.StartAngles
	}
	return l.EndAngles
}

func (l *Line) appendAngle(e End, a float64) {
	if e == Start {
		l.StartAngles = append(l.StartAngles, a)
	} else {
		l.EndAngles = append(l.EndAngles, a)
	}
}

// Length returns the construction length of the line.
func (l *Line) Length() float64 {
	return r2.Norm(r2.Sub(l.EndPoint, l.StartPoint))
}

// RestAngles returns the rest angle of every spring in chain order.
func (l *Line) RestAngles() []float64 {
	out := make([]float64, len(l.Springs))
	for i, s := range l.Springs {
		out[i] = s.RestAngle
	}
	return out
}
