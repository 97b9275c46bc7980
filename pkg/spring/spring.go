package spring

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/patternsynth/pkg/errors"
)

// Default stiffness coefficients.
const (
	DefaultLinearK = 20.0
	DefaultRotK    = 20.0
)

// minArm is the shortest arm length the force law accepts.
const minArm = 1e-9

// Spring is a linear and angular constraint between two adjacent bodies of a
// chain. The angular part needs the preceding body and is skipped for the
// first spring of a line.
type Spring struct {
	Body BodyID
	Next BodyID
	Prev BodyID

	// RestLength is the distance Body→Next at construction.
	RestLength float64
	// RestAngle is the target bend in radians, set by rest-angle initialization.
	RestAngle float64
	// Baseline offsets the measured angle so that the pose at SetPrev time
	// reads as zero bend.
	Baseline float64

	LinearK float64
	RotK    float64
}

// NewSpring creates a spring between body and next and captures its rest
// length from their current positions.
func NewSpring(e Engine, body, next BodyID) (*Spring, error) {
	length := r2.Norm(r2.Sub(e.Position(next), e.Position(body)))
	if length < minArm {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "bodies %d and %d coincide", body, next)
	}
	return &Spring{
		Body:       body,
		Next:       next,
		Prev:       NoBody,
		RestLength: length,
		LinearK:    DefaultLinearK,
		RotK:       DefaultRotK,
	}, nil
}

// HasPrev reports whether the angular term is active.
func (s *Spring) HasPrev() bool { return s.Prev != NoBody }

// SetPrev attaches the preceding body and captures the baseline angle.
func (s *Spring) SetPrev(e Engine, prev BodyID) error {
	p := e.Position(s.Body)
	v1 := r2.Sub(p, e.Position(prev))
	v2 := r2.Sub(p, e.Position(s.Next))
	if r2.Norm(v1) < minArm || r2.Norm(v2) < minArm {
		return errors.New(errors.ErrCodeInvalidGeometry, "body %d coincides with a neighbor", s.Body)
	}
	s.Prev = prev
	s.Baseline = -jointAngle(v1, v2)
	return nil
}

// Angle returns the current angle prev→body→next in [0, 2π). ok is false for
// springs without a preceding body or with a collapsed arm.
func (s *Spring) Angle(e Engine) (angle float64, ok bool) {
	if !s.HasPrev() {
		return 0, false
	}
	p := e.Position(s.Body)
	v1 := r2.Sub(p, e.Position(s.Prev))
	v2 := r2.Sub(p, e.Position(s.Next))
	if r2.Norm(v1) < minArm || r2.Norm(v2) < minArm {
		return 0, false
	}
	return jointAngle(v1, v2), true
}

// Bend returns the angular error the spring is correcting.
func (s *Spring) Bend(e Engine) (float64, bool) {
	angle, ok := s.Angle(e)
	if !ok {
		return 0, false
	}
	return angle - s.RestAngle + s.Baseline, true
}

// Stretch returns the linear error the spring is correcting.
func (s *Spring) Stretch(e Engine) float64 {
	return r2.Norm(r2.Sub(e.Position(s.Next), e.Position(s.Body))) - s.RestLength
}

// ApplyForces accumulates the spring's forces on its bodies.
//
// The linear term pulls Body and Next toward RestLength, half the force on
// each. The angular term is approximated by two force pairs perpendicular to
// the arms, applied to Prev and Next with equal and opposite reactions on
// Body, which keeps net force and torque on the three bodies balanced.
func (s *Spring) ApplyForces(e Engine) {
	pos := e.Position(s.Body)
	next := e.Position(s.Next)

	d := r2.Sub(next, pos)
	dist := r2.Norm(d)
	if dist >= minArm {
		f := s.LinearK * (dist - s.RestLength)
		dir := r2.Scale(1/dist, d)
		e.ApplyForce(s.Body, r2.Scale(f/2, dir))
		e.ApplyForce(s.Next, r2.Scale(-f/2, dir))
	}

	if !s.HasPrev() {
		return
	}

	v1 := r2.Sub(pos, e.Position(s.Prev))
	v2 := r2.Sub(pos, next)
	if r2.Norm(v1) < minArm || r2.Norm(v2) < minArm {
		return
	}

	delta := jointAngle(v1, v2) - s.RestAngle + s.Baseline
	half := s.RotK * delta / 2

	prevF := r2.Scale(half, r2.Unit(rotCW(v1)))
	nextF := r2.Scale(half, r2.Unit(rotCCW(v2)))

	e.ApplyForce(s.Prev, prevF)
	e.ApplyForce(s.Next, nextF)
	e.ApplyForce(s.Body, r2.Scale(-1, prevF))
	e.ApplyForce(s.Body, r2.Scale(-1, nextF))
}
