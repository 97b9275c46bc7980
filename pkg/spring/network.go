package spring

import (
	"encoding/binary"
	"io"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/shape"
)

// Solver iteration counts passed to the engine on every step.
const (
	VelocityIterations = 80
	PositionIterations = 30
)

// Body parameters shared by every line.
const (
	bodyDamping    = 1.0
	bodyHalfExtent = 0.15
	bodyDensity    = 1.0
	bodyCategory   = 0x0002
	bodyMask       = 0x0004
)

// lineNamespace scopes the name-based UUIDs assigned to lines.
var lineNamespace = uuid.MustParse("9c1d7a52-3e0b-4f7e-a4c2-5b8e1f6d2a90")

type phase uint8

const (
	phaseBuilding phase = iota
	phaseConnected
	phaseReady
)

func (p phase) String() string {
	switch p {
	case phaseConnected:
		return "connected"
	case phaseReady:
		return "ready"
	default:
		return "building"
	}
}

// Options configures a [Network].
type Options struct {
	// Seed selects every random stream the network uses.
	Seed uint64
	// Matcher finds coincident endpoints. Defaults to [BruteForce].
	Matcher Matcher
	// Logger receives debug output. Defaults to a discarding logger.
	Logger *log.Logger
	// LinearK and RotK override the spring stiffness when positive.
	LinearK float64
	RotK    float64
}

func (o *Options) setDefaults() {
	if o.Matcher == nil {
		o.Matcher = BruteForce{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.LinearK <= 0 {
		o.LinearK = DefaultLinearK
	}
	if o.RotK <= 0 {
		o.RotK = DefaultRotK
	}
}

// Network owns lines and drives an engine that owns their bodies.
type Network struct {
	engine  Engine
	opts    Options
	rng     *rand.Rand
	lines   []*Line
	phase   phase
	joints  []Match
	springs int
}

// New creates an empty network on the given engine.
func New(e Engine, opts Options) *Network {
	opts.setDefaults()
	return &Network{
		engine: e,
		opts:   opts,
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef)),
	}
}

// Seed returns the network seed.
func (n *Network) Seed() uint64 { return n.opts.Seed }

// Lines returns the network's lines in creation order.
func (n *Network) Lines() []*Line { return n.lines }

// SpringCount returns the total number of springs.
func (n *Network) SpringCount() int { return n.springs }

// JointCount returns the number of pin joints created by ConnectLines.
func (n *Network) JointCount() int { return len(n.joints) }

// Joints returns the endpoint matches pinned by ConnectLines.
func (n *Network) Joints() []Match { return n.joints }

// Ready reports whether rest angles have been initialized.
func (n *Network) Ready() bool { return n.phase == phaseReady }

// CreateLine adds a line of segments springs from one point to another.
// Bodies are evenly spaced and oriented along the line. Lines can only be
// added before ConnectLines.
func (n *Network) CreateLine(from, to r2.Vec, segments int, fn shape.Func, dynamic bool) (*Line, error) {
	if n.phase != phaseBuilding {
		return nil, errors.New(errors.ErrCodeInvalidState, "cannot add lines to a %s network", n.phase)
	}
	if segments < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "segments must be at least 1, got %d", segments)
	}
	if fn == nil {
		return nil, errors.New(errors.ErrCodeInvalidShape, "line needs a shape function")
	}
	for _, v := range []float64{from.X, from.Y, to.X, to.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New(errors.ErrCodeInvalidGeometry, "line endpoint is not finite")
		}
	}
	length := r2.Norm(r2.Sub(to, from))
	if length/float64(segments) < minArm {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "line from %v to %v is too short for %d segments", from, to, segments)
	}

	angle := heading(from, to)
	typ := StaticBody
	if dynamic {
		typ = DynamicBody
	}

	bodies := make([]BodyID, segments+1)
	for i := range bodies {
		t := float64(i) / float64(segments)
		bodies[i] = n.engine.CreateBody(BodyDef{
			Position:       r2.Add(from, r2.Scale(t, r2.Sub(to, from))),
			Angle:          angle,
			Type:           typ,
			LinearDamping:  bodyDamping,
			AngularDamping: bodyDamping,
			Fixture: Fixture{
				HalfExtent: bodyHalfExtent,
				Density:    bodyDensity,
				Category:   bodyCategory,
				Mask:       bodyMask,
			},
		})
	}

	springs := make([]*Spring, 0, segments)
	for i := 1; i < len(bodies); i++ {
		s, err := NewSpring(n.engine, bodies[i-1], bodies[i])
		if err != nil {
			return nil, err
		}
		s.LinearK, s.RotK = n.opts.LinearK, n.opts.RotK
		if i >= 2 {
			if err := s.SetPrev(n.engine, bodies[i-2]); err != nil {
				return nil, err
			}
		}
		springs = append(springs, s)
	}

	idx := len(n.lines)
	id := uuid.NewSHA1(lineNamespace, []byte(strconv.FormatUint(n.opts.Seed, 10)+"/"+strconv.Itoa(idx)))
	l := &Line{
		ID:           id,
		Index:        idx,
		Seed:         binary.BigEndian.Uint64(id[8:]),
		Springs:      springs,
		StartBody:    bodies[0],
		EndBody:      bodies[len(bodies)-1],
		StartPoint:   from,
		EndPoint:     to,
		Shape:        fn,
		InitialAngle: angle,
		Dynamic:      dynamic,
	}
	n.lines = append(n.lines, l)
	n.springs += len(springs)

	n.opts.Logger.Debug("line created", "index", idx, "segments", segments, "dynamic", dynamic)
	return l, nil
}

// ConnectLines pins coincident endpoints of distinct lines together and
// records each joined line's relative angle at that end. It runs once.
func (n *Network) ConnectLines() error {
	if n.phase != phaseBuilding {
		return errors.New(errors.ErrCodeInvalidState, "lines are already connected")
	}
	for _, m := range n.opts.Matcher.Match(n.lines, JoinEpsilon) {
		l1, l2 := n.lines[m.A], n.lines[m.B]
		n.engine.Pin(l1.Body(m.EndA), l2.Body(m.EndB))
		l1.appendAngle(m.EndA, ClampAngle(l2.InitialAngle-l1.InitialAngle))
		l2.appendAngle(m.EndB, ClampAngle(l1.InitialAngle-l2.InitialAngle))
		n.joints = append(n.joints, m)
	}
	n.phase = phaseConnected
	n.opts.Logger.Debug("lines connected", "lines", len(n.lines), "joints", len(n.joints))
	return nil
}

// lineRand returns the stream for one line. It is re-created on every call so
// that rest angles depend only on the seeds.
func (n *Network) lineRand(l *Line) *rand.Rand {
	return rand.New(rand.NewPCG(n.opts.Seed, l.Seed))
}

// InitRestAngles evaluates every line's shape function once per spring and
// stores the results as rest angles. ConnectLines must have run.
func (n *Network) InitRestAngles() error {
	if n.phase == phaseBuilding {
		return errors.New(errors.ErrCodeInvalidState, "rest angles need connected lines")
	}
	for _, l := range n.lines {
		rng := n.lineRand(l)
		fn := l.Shape
		if b, ok := fn.(shape.Binder); ok {
			fn = b.Bind(rng)
		}
		count := len(l.Springs)
		for i, s := range l.Springs {
			s.RestAngle = fn.Angle(shape.Input{
				StartAngles: l.StartAngles,
				EndAngles:   l.EndAngles,
				T:           float64(i) / float64(count),
				Segments:    count,
				Rand:        rng,
			})
		}
	}
	n.phase = phaseReady
	n.opts.Logger.Debug("rest angles initialized", "lines", len(n.lines), "springs", n.springs)
	return nil
}

// Init connects lines and initializes rest angles.
func (n *Network) Init() error {
	if err := n.ConnectLines(); err != nil {
		return err
	}
	return n.InitRestAngles()
}

// Step applies every spring's forces and advances the engine by dt.
func (n *Network) Step(dt float64) {
	for _, l := range n.lines {
		for _, s := range l.Springs {
			s.ApplyForces(n.engine)
		}
	}
	n.engine.Step(dt, VelocityIterations, PositionIterations)
}

// Segments returns the current endpoints of every spring.
func (n *Network) Segments() []Segment {
	out := make([]Segment, 0, n.springs)
	for _, l := range n.lines {
		for _, s := range l.Springs {
			out = append(out, Segment{
				A:    n.engine.Position(s.Body),
				B:    n.engine.Position(s.Next),
				Line: l.Index,
			})
		}
	}
	return out
}

// Polyline returns the current positions of a line's bodies from start to
// end.
func (n *Network) Polyline(l *Line) []r2.Vec {
	pts := make([]r2.Vec, 0, len(l.Springs)+1)
	pts = append(pts, n.engine.Position(l.StartBody))
	for _, s := range l.Springs {
		pts = append(pts, n.engine.Position(s.Next))
	}
	return pts
}

// Bounds returns the box covering all spring endpoints. The second result is
// false for an empty network.
func (n *Network) Bounds() (r2.Box, bool) {
	segs := n.Segments()
	if len(segs) == 0 {
		return r2.Box{}, false
	}
	box := r2.Box{Min: segs[0].A, Max: segs[0].A}
	for _, s := range segs {
		for _, p := range [2]r2.Vec{s.A, s.B} {
			box.Min.X = math.Min(box.Min.X, p.X)
			box.Min.Y = math.Min(box.Min.Y, p.Y)
			box.Max.X = math.Max(box.Max.X, p.X)
			box.Max.Y = math.Max(box.Max.Y, p.Y)
		}
	}
	return box, true
}

// Residual is the root-mean-square error of all springs.
type Residual struct {
	Linear  float64
	Angular float64
}

// Residual measures how far the network is from its rest configuration.
func (n *Network) Residual() Residual {
	var lin, ang float64
	var nl, na int
	for _, l := range n.lines {
		for _, s := range l.Springs {
			d := s.Stretch(n.engine)
			lin += d * d
			nl++
			if b, ok := s.Bend(n.engine); ok {
				ang += b * b
				na++
			}
		}
	}
	var r Residual
	if nl > 0 {
		r.Linear = math.Sqrt(lin / float64(nl))
	}
	if na > 0 {
		r.Angular = math.Sqrt(ang / float64(na))
	}
	return r
}
