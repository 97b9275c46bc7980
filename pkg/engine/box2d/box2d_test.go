package box2d

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/patternsynth/pkg/shape"
	"github.com/matzehuels/patternsynth/pkg/spring"
)

func TestCreateBody(t *testing.T) {
	e := New()
	id := e.CreateBody(spring.BodyDef{
		Position: r2.Vec{X: 3, Y: -2},
		Type:     spring.DynamicBody,
		Fixture:  spring.Fixture{HalfExtent: 0.15, Density: 1, Category: 2, Mask: 4},
	})
	if id != 0 {
		t.Errorf("first body id = %d, want 0", id)
	}
	if got := e.Position(id); got != (r2.Vec{X: 3, Y: -2}) {
		t.Errorf("Position = %v, want (3, -2)", got)
	}
	if got := e.BodyCount(); got != 1 {
		t.Errorf("BodyCount = %d, want 1", got)
	}
}

func TestStaticBodyIgnoresForce(t *testing.T) {
	e := New()
	id := e.CreateBody(spring.BodyDef{Position: r2.Vec{X: 1, Y: 1}, Type: spring.StaticBody})
	e.ApplyForce(id, r2.Vec{X: 100})
	e.Step(1.0/60, spring.VelocityIterations, spring.PositionIterations)
	if got := e.Position(id); got != (r2.Vec{X: 1, Y: 1}) {
		t.Errorf("static body moved to %v", got)
	}
}

func TestDynamicBodyMoves(t *testing.T) {
	e := New()
	id := e.CreateBody(spring.BodyDef{
		Type:    spring.DynamicBody,
		Fixture: spring.Fixture{HalfExtent: 0.5, Density: 1},
	})
	for range 10 {
		e.ApplyForce(id, r2.Vec{X: 10})
		e.Step(1.0/60, spring.VelocityIterations, spring.PositionIterations)
	}
	if got := e.Position(id); got.X <= 0 {
		t.Errorf("Position = %v, want positive X", got)
	}
}

func TestStraightLineStaysAtRest(t *testing.T) {
	e := New()
	n := spring.New(e, spring.Options{Seed: 1})
	if err := n.CreateSingleLine(10, shape.New(shape.Constant, 0)); err != nil {
		t.Fatalf("CreateSingleLine: %v", err)
	}
	before := n.Segments()
	for range 30 {
		n.Step(1.0 / 60)
	}
	after := n.Segments()
	for i := range before {
		if d := r2.Norm(r2.Sub(before[i].A, after[i].A)); d > 1e-6 {
			t.Errorf("segment %d moved by %v", i, d)
		}
	}
}

func TestBoxJoints(t *testing.T) {
	e := New()
	n := spring.New(e, spring.Options{Seed: 1})
	if err := n.CreateBox(4, shape.Constant, 10); err != nil {
		t.Fatalf("CreateBox: %v", err)
	}
	if got := e.JointCount(); got != 4 {
		t.Errorf("JointCount = %d, want 4", got)
	}
	if got := e.BodyCount(); got != 20 {
		t.Errorf("BodyCount = %d, want 20", got)
	}
}

func TestBoxRelaxes(t *testing.T) {
	e := New()
	n := spring.New(e, spring.Options{Seed: 1})
	if err := n.CreateBox(8, shape.Constant, 10); err != nil {
		t.Fatalf("CreateBox: %v", err)
	}
	start := n.Residual()
	for range 300 {
		n.Step(1.0 / 60)
	}
	end := n.Residual()
	if math.IsNaN(end.Angular) || math.IsNaN(end.Linear) {
		t.Fatalf("Residual = %+v, want finite", end)
	}
	if end.Angular >= start.Angular {
		t.Errorf("angular residual went from %v to %v, want a decrease", start.Angular, end.Angular)
	}
}
