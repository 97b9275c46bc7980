package spring

import "gonum.org/v1/gonum/spatial/r2"

// BodyID identifies a body owned by an [Engine].
type BodyID int

// NoBody marks an absent body reference.
const NoBody BodyID = -1

// BodyType is the engine-level kinematic classification of a body.
type BodyType uint8

const (
	StaticBody BodyType = iota
	DynamicBody
)

// Fixture describes the square collision shape attached to a body.
type Fixture struct {
	HalfExtent float64
	Density    float64
	Category   uint16
	Mask       uint16
}

// BodyDef describes a body to create.
type BodyDef struct {
	Position       r2.Vec
	Angle          float64
	Type           BodyType
	LinearDamping  float64
	AngularDamping float64
	Fixture        Fixture
}

// Engine is the rigid-body integrator the network drives. It owns body
// transforms; the network only reads positions and accumulates forces.
type Engine interface {
	// CreateBody creates a body with its fixture and returns its handle.
	CreateBody(def BodyDef) BodyID
	// Position returns the current position of a body's center.
	Position(id BodyID) r2.Vec
	// ApplyForce accumulates a force at a body's center for the next step.
	ApplyForce(id BodyID, f r2.Vec)
	// Pin joins two bodies at their shared position with collision disabled.
	Pin(a, b BodyID)
	// Step advances the world by dt.
	Step(dt float64, velocityIterations, positionIterations int)
	// BodyCount returns the number of bodies in the world.
	BodyCount() int
	// JointCount returns the number of joints in the world.
	JointCount() int
}
