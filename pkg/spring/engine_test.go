package spring

import "gonum.org/v1/gonum/spatial/r2"

// fakeEngine is a point-mass integrator that records forces and pins.
type fakeEngine struct {
	bodies []fakeBody
	pins   [][2]BodyID
	steps  int
	iters  [2]int // velocity and position iterations of the last step
}

type fakeBody struct {
	def   BodyDef
	pos   r2.Vec
	force r2.Vec
}

func newFakeEngine() *fakeEngine { return &fakeEngine{} }

func (e *fakeEngine) CreateBody(def BodyDef) BodyID {
	e.bodies = append(e.bodies, fakeBody{def: def, pos: def.Position})
	return BodyID(len(e.bodies) - 1)
}

func (e *fakeEngine) Position(id BodyID) r2.Vec { return e.bodies[id].pos }

func (e *fakeEngine) ApplyForce(id BodyID, f r2.Vec) {
	e.bodies[id].force = r2.Add(e.bodies[id].force, f)
}

func (e *fakeEngine) Pin(a, b BodyID) { e.pins = append(e.pins, [2]BodyID{a, b}) }

func (e *fakeEngine) Step(dt float64, velocityIterations, positionIterations int) {
	e.iters = [2]int{velocityIterations, positionIterations}
	for i := range e.bodies {
		b := &e.bodies[i]
		if b.def.Type == DynamicBody {
			b.pos = r2.Add(b.pos, r2.Scale(dt*dt, b.force))
		}
		b.force = r2.Vec{}
	}
	e.steps++
}

func (e *fakeEngine) BodyCount() int  { return len(e.bodies) }
func (e *fakeEngine) JointCount() int { return len(e.pins) }

func (e *fakeEngine) set(id BodyID, p r2.Vec) { e.bodies[id].pos = p }

func (e *fakeEngine) netForce() r2.Vec {
	var sum r2.Vec
	for _, b := range e.bodies {
		sum = r2.Add(sum, b.force)
	}
	return sum
}

func (e *fakeEngine) clearForces() {
	for i := range e.bodies {
		e.bodies[i].force = r2.Vec{}
	}
}
