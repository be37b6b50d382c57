package force

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netgraph/pkg/observability"
)

var (
	// ErrLinkOutOfRange is returned by New when a link references a body
	// index outside the node list.
	ErrLinkOutOfRange = errors.New("link endpoint out of range")

	// ErrIndexOutOfRange is returned by per-body operations given an invalid
	// index.
	ErrIndexOutOfRange = errors.New("body index out of range")
)

// State is the lifecycle state of a Simulator.
type State int

const (
	// Idle simulators have been torn down.
	Idle State = iota
	// Running simulators advance on every Tick.
	Running
	// Settled simulators have cooled to AlphaMin or were stopped.
	Settled
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Settled:
		return "settled"
	default:
		return "idle"
	}
}

// Node seeds one body. Bodies without Placed start on the spiral.
type Node struct {
	X, Y   float64
	Placed bool
	Radius float64
	Pinned bool
}

// Link connects two bodies by index.
type Link struct {
	Source, Target int
}

type body struct {
	pos, vel r2.Vec
	radius   float64
	pinned   bool
	pin      r2.Vec
}

// Coord2 and Mass satisfy barneshut.Particle2. Every body carries unit
// charge so aggregate mass equals body count.
func (b *body) Coord2() r2.Vec { return b.pos }
func (b *body) Mass() float64  { return 1 }

// Simulator runs the force layout. Create one with New.
type Simulator struct {
	bodies []body
	links  []Link
	degree []int

	params  Params
	pending *Params

	alpha  float64
	target float64
	state  State
	ticks  int
	start  time.Time

	rng lcg
}

// New creates a running simulator at alpha 1. Link endpoints must index
// into nodes. A simulator with no nodes starts settled.
func New(nodes []Node, links []Link, p Params) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for _, l := range links {
		if l.Source < 0 || l.Source >= len(nodes) || l.Target < 0 || l.Target >= len(nodes) {
			return nil, fmt.Errorf("link %d-%d: %w", l.Source, l.Target, ErrLinkOutOfRange)
		}
	}

	s := &Simulator{
		bodies: make([]body, len(nodes)),
		links:  append([]Link(nil), links...),
		degree: make([]int, len(nodes)),
		params: p,
		rng:    1,
	}
	for i, n := range nodes {
		b := &s.bodies[i]
		b.radius = n.Radius
		if n.Placed {
			b.pos = r2.Vec{X: n.X, Y: n.Y}
		} else {
			b.pos = spiral(i)
		}
		if n.Pinned {
			b.pinned, b.pin = true, b.pos
		}
	}
	for _, l := range s.links {
		s.degree[l.Source]++
		s.degree[l.Target]++
	}

	s.state = Settled
	s.Restart(1)
	return s, nil
}

// Tick advances the layout one step. It returns false, without doing work,
// when the simulator is not running, and false after the step that settles
// it.
func (s *Simulator) Tick() bool {
	if s.state != Running {
		return false
	}
	if s.pending != nil {
		s.params, s.pending = *s.pending, nil
	}

	s.alpha += (s.target - s.alpha) * s.params.AlphaDecay

	s.applyLinks()
	s.applyCharge()
	s.applyCenter()
	s.applyCollision()
	s.integrate()

	s.ticks++
	observability.Simulation().OnTick(s.ticks, s.alpha)

	if s.alpha <= s.params.AlphaMin {
		s.state = Settled
		observability.Simulation().OnSettled(s.ticks, time.Since(s.start))
		return false
	}
	return true
}

// Step runs up to n ticks and reports whether the simulator is still running.
func (s *Simulator) Step(n int) bool {
	for i := 0; i < n; i++ {
		if !s.Tick() {
			return false
		}
	}
	return s.state == Running
}

// RunUntilSettled ticks until the simulator settles, maxTicks ticks have run
// (when positive), or ctx is done. It returns the number of ticks run.
func (s *Simulator) RunUntilSettled(ctx context.Context, maxTicks int) (int, error) {
	n := 0
	for maxTicks <= 0 || n < maxTicks {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if s.state != Running {
			break
		}
		s.Tick()
		n++
	}
	return n, nil
}

// Stop halts ticking without changing alpha. Restart resumes.
func (s *Simulator) Stop() {
	if s.state == Running {
		s.state = Settled
	}
}

// Restart reheats the simulation to alpha (ReheatAlpha when alpha is not
// positive). It is a no-op on idle simulators and on simulators without
// bodies.
func (s *Simulator) Restart(alpha float64) {
	if s.state == Idle {
		return
	}
	if alpha <= 0 || math.IsNaN(alpha) {
		alpha = ReheatAlpha
	}
	s.alpha = math.Min(alpha, 1)
	if len(s.bodies) == 0 {
		s.state = Settled
		return
	}
	s.state = Running
	s.ticks = 0
	s.start = time.Now()
	observability.Simulation().OnRestart(len(s.bodies), s.alpha)
}

// SetParams validates p and schedules it for the next tick.
func (s *Simulator) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.pending = &p
	return nil
}

// Params returns the parameters in effect, including any pending update.
func (s *Simulator) Params() Params {
	if s.pending != nil {
		return *s.pending
	}
	return s.params
}

// SetAlphaTarget sets the alpha the simulation decays toward. A target at or
// above AlphaMin keeps the simulation running indefinitely, which hosts use
// while dragging a node; setting it back to zero lets it settle.
func (s *Simulator) SetAlphaTarget(target float64) {
	s.target = math.Max(0, math.Min(1, target))
	if s.state == Settled && s.target >= s.Params().AlphaMin && len(s.bodies) > 0 {
		s.state = Running
	}
}

// Pin fixes body i at (x, y). Pinned bodies ignore forces but still exert
// them.
func (s *Simulator) Pin(i int, x, y float64) error {
	if i < 0 || i >= len(s.bodies) {
		return ErrIndexOutOfRange
	}
	b := &s.bodies[i]
	b.pinned = true
	b.pin = r2.Vec{X: x, Y: y}
	b.pos, b.vel = b.pin, r2.Vec{}
	return nil
}

// Unpin releases body i.
func (s *Simulator) Unpin(i int) error {
	if i < 0 || i >= len(s.bodies) {
		return ErrIndexOutOfRange
	}
	s.bodies[i].pinned = false
	return nil
}

// SetRadii replaces the collision radii. Extra values are ignored and
// missing ones leave radii unchanged.
func (s *Simulator) SetRadii(radii []float64) {
	for i := range s.bodies {
		if i < len(radii) {
			s.bodies[i].radius = radii[i]
		}
	}
}

// Teardown releases all state. The simulator is idle afterwards and every
// operation becomes a no-op.
func (s *Simulator) Teardown() {
	s.bodies, s.links, s.degree = nil, nil, nil
	s.pending = nil
	s.state = Idle
	s.alpha = 0
}

// Alpha returns the current alpha.
func (s *Simulator) Alpha() float64 { return s.alpha }

// AlphaTarget returns the alpha the simulation decays toward.
func (s *Simulator) AlphaTarget() float64 { return s.target }

// State returns the lifecycle state.
func (s *Simulator) State() State { return s.state }

// Ticks returns the number of ticks since the last restart.
func (s *Simulator) Ticks() int { return s.ticks }

// Len returns the number of bodies.
func (s *Simulator) Len() int { return len(s.bodies) }

// Position returns the position of body i.
func (s *Simulator) Position(i int) r2.Vec { return s.bodies[i].pos }

// Positions returns a snapshot of all positions.
func (s *Simulator) Positions() []r2.Vec {
	out := make([]r2.Vec, len(s.bodies))
	for i := range s.bodies {
		out[i] = s.bodies[i].pos
	}
	return out
}

// Energy returns the mean squared velocity, a rough measure of how much the
// layout is still moving.
func (s *Simulator) Energy() float64 {
	if len(s.bodies) == 0 {
		return 0
	}
	e := 0.0
	for i := range s.bodies {
		e += r2.Norm2(s.bodies[i].vel)
	}
	return e / float64(len(s.bodies))
}

// spiral places body i on a phyllotaxis spiral around the origin.
func spiral(i int) r2.Vec {
	const initialRadius = 10.0
	angle := math.Pi * (3 - math.Sqrt(5))
	r := initialRadius * math.Sqrt(0.5+float64(i))
	a := float64(i) * angle
	return r2.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)}
}

// lcg is a linear congruential generator for deterministic jiggle.
type lcg uint32

func (g *lcg) next() float64 {
	*g = lcg(1664525*uint32(*g) + 1013904223)
	return float64(*g) / 4294967296
}

// jiggle returns a tiny random offset used to separate coincident bodies.
func (s *Simulator) jiggle() float64 { return (s.rng.next() - 0.5) * 1e-6 }
