// Package box2d adapts github.com/ByteArena/box2d to the spring.Engine port.
//
// The world has no gravity. Bodies get a square polygon fixture and pins are
// revolute joints anchored at the first body's center with collision between
// the joined bodies disabled.
package box2d

import (
	b2 "github.com/ByteArena/box2d"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/patternsynth/pkg/spring"
)

// Engine is a Box2D world that implements [spring.Engine].
type Engine struct {
	world  *b2.B2World
	bodies []*b2.B2Body
}

var _ spring.Engine = (*Engine)(nil)

// New creates an empty gravity-free world.
func New() *Engine {
	w := b2.MakeB2World(b2.MakeB2Vec2(0, 0))
	return &Engine{world: &w}
}

// CreateBody implements [spring.Engine].
func (e *Engine) CreateBody(def spring.BodyDef) spring.BodyID {
	bd := b2.MakeB2BodyDef()
	bd.Type = bodyType(def.Type)
	bd.Position = vec(def.Position)
	bd.Angle = def.Angle
	bd.LinearDamping = def.LinearDamping
	bd.AngularDamping = def.AngularDamping
	body := e.world.CreateBody(&bd)

	if def.Fixture.HalfExtent > 0 {
		box := b2.MakeB2PolygonShape()
		box.SetAsBox(def.Fixture.HalfExtent, def.Fixture.HalfExtent)

		fd := b2.MakeB2FixtureDef()
		fd.Shape = &box
		fd.Density = def.Fixture.Density
		fd.Filter.CategoryBits = def.Fixture.Category
		fd.Filter.MaskBits = def.Fixture.Mask
		body.CreateFixtureFromDef(&fd)
	}

	e.bodies = append(e.bodies, body)
	return spring.BodyID(len(e.bodies) - 1)
}

// Position implements [spring.Engine].
func (e *Engine) Position(id spring.BodyID) r2.Vec {
	p := e.bodies[id].GetPosition()
	return r2.Vec{X: p.X, Y: p.Y}
}

// ApplyForce implements [spring.Engine].
func (e *Engine) ApplyForce(id spring.BodyID, f r2.Vec) {
	e.bodies[id].ApplyForceToCenter(vec(f), true)
}

// Pin implements [spring.Engine].
func (e *Engine) Pin(a, b spring.BodyID) {
	ba, bb := e.bodies[a], e.bodies[b]
	jd := b2.MakeB2RevoluteJointDef()
	jd.Initialize(ba, bb, ba.GetPosition())
	jd.CollideConnected = false
	e.world.CreateJoint(&jd)
}

// Step implements [spring.Engine].
func (e *Engine) Step(dt float64, velocityIterations, positionIterations int) {
	e.world.Step(dt, velocityIterations, positionIterations)
}

// BodyCount implements [spring.Engine].
func (e *Engine) BodyCount() int { return e.world.GetBodyCount() }

// JointCount implements [spring.Engine].
func (e *Engine) JointCount() int { return e.world.GetJointCount() }

func vec(v r2.Vec) b2.B2Vec2 { return b2.MakeB2Vec2(v.X, v.Y) }

func bodyType(t spring.BodyType) uint8 {
	if t == spring.DynamicBody {
		return b2.B2BodyType.B2_dynamicBody
	}
	return b2.B2BodyType.B2_staticBody
}
