package force

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	nerrors "github.com/matzehuels/netgraph/pkg/errors"
)

func ring(n int) ([]Node, []Link) {
	nodes := make([]Node, n)
	links := make([]Link, n)
	for i := range nodes {
		nodes[i] = Node{Radius: 8}
		links[i] = Link{Source: i, Target: (i + 1) % n}
	}
	return nodes, links
}

func TestNew_ZeroNodesSettled(t *testing.T) {
	s, err := New(nil, nil, DefaultParams())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.State() != Settled {
		t.Errorf("State() = %v, want settled", s.State())
	}
	if s.Tick() {
		t.Error("Tick() = true on empty simulator")
	}
	if s.Ticks() != 0 {
		t.Errorf("Ticks() = %d, want 0", s.Ticks())
	}
	s.Restart(1)
	if s.State() != Settled {
		t.Errorf("State() after Restart = %v, want settled", s.State())
	}
}

func TestNew_InvalidLink(t *testing.T) {
	_, err := New([]Node{{}}, []Link{{Source: 0, Target: 3}}, DefaultParams())
	if !errors.Is(err, ErrLinkOutOfRange) {
		t.Errorf("New() error = %v, want ErrLinkOutOfRange", err)
	}
}

func TestNew_InvalidParams(t *testing.T) {
	p := DefaultParams()
	p.LinkStrength = 2
	_, err := New([]Node{{}}, nil, p)
	if !nerrors.Is(err, nerrors.ErrCodeInvalidConfig) {
		t.Errorf("New() error = %v, want INVALID_CONFIG", err)
	}
}

func TestAlphaMonotoneAndBoundedSettle(t *testing.T) {
	nodes, links := ring(30)
	p := DefaultParams()
	s, err := New(nodes, links, p)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	bound := int(math.Ceil(math.Log(p.AlphaMin)/math.Log(1-p.AlphaDecay))) + 1
	prev := s.Alpha()
	ticks := 0
	for s.Tick() {
		ticks++
		if a := s.Alpha(); a > prev {
			t.Fatalf("tick %d: alpha rose from %v to %v", ticks, prev, a)
		}
		prev = s.Alpha()
		if ticks > bound {
			t.Fatalf("not settled after %d ticks", ticks)
		}
	}
	if s.State() != Settled {
		t.Errorf("State() = %v, want settled", s.State())
	}
	if s.Alpha() > p.AlphaMin {
		t.Errorf("Alpha() = %v, want <= %v", s.Alpha(), p.AlphaMin)
	}
}

func TestRunUntilSettled(t *testing.T) {
	nodes, links := ring(10)
	s, _ := New(nodes, links, DefaultParams())

	n, err := s.RunUntilSettled(context.Background(), 0)
	if err != nil {
		t.Fatalf("RunUntilSettled() error = %v", err)
	}
	if n == 0 || s.State() != Settled {
		t.Errorf("ran %d ticks, state %v, want settled", n, s.State())
	}

	s.Restart(0)
	if s.Alpha() != ReheatAlpha || s.State() != Running {
		t.Errorf("after Restart: alpha %v state %v, want %v running", s.Alpha(), s.State(), ReheatAlpha)
	}
	if n, _ := s.RunUntilSettled(context.Background(), 5); n != 5 {
		t.Errorf("RunUntilSettled(5) ran %d ticks", n)
	}
}

func TestRunUntilSettled_Canceled(t *testing.T) {
	nodes, links := ring(5)
	s, _ := New(nodes, links, DefaultParams())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := s.RunUntilSettled(ctx, 0)
	if !errors.Is(err, context.Canceled) || n != 0 {
		t.Errorf("RunUntilSettled() = %d, %v, want 0, context.Canceled", n, err)
	}
}

func TestPinnedNodeStaysPut(t *testing.T) {
	nodes, links := ring(8)
	s, _ := New(nodes, links, DefaultParams())
	if err := s.Pin(3, 100, -50); err != nil {
		t.Fatalf("Pin() error = %v", err)
	}

	s.Step(50)
	if got := s.Position(3); got != (r2.Vec{X: 100, Y: -50}) {
		t.Errorf("pinned position = %v, want (100, -50)", got)
	}

	if err := s.Unpin(3); err != nil {
		t.Fatalf("Unpin() error = %v", err)
	}
	s.Restart(1)
	s.Step(5)
	if got := s.Position(3); got == (r2.Vec{X: 100, Y: -50}) {
		t.Error("unpinned node did not move")
	}

	if err := s.Pin(99, 0, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Pin(99) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestSettlesWhenAlphaReachesMin(t *testing.T) {
	nodes, links := ring(4)
	p := DefaultParams()
	p.AlphaDecay, p.AlphaMin = 1, 0
	s, err := New(nodes, links, p)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Tick() {
		t.Error("Tick() = true, want settled once alpha reaches zero")
	}
	if s.State() != Settled || s.Alpha() != 0 {
		t.Errorf("state %v alpha %v, want settled at 0", s.State(), s.Alpha())
	}
}

func TestCenterSkipsPinned(t *testing.T) {
	nodes, links := ring(6)
	s, _ := New(nodes, links, DefaultParams())
	pin := r2.Vec{X: 400, Y: 300}
	if err := s.Pin(0, pin.X, pin.Y); err != nil {
		t.Fatalf("Pin() error = %v", err)
	}
	free := s.Position(1)

	s.applyCenter()
	if got := s.Position(0); got != pin {
		t.Errorf("pinned position after centering = %v, want %v", got, pin)
	}
	if s.Position(1) == free {
		t.Error("centering did not move the free bodies")
	}
}

func TestSetParamsAppliedOnNextTick(t *testing.T) {
	nodes, links := ring(4)
	s, _ := New(nodes, links, DefaultParams())

	p := DefaultParams()
	p.AlphaDecay = 0.5
	if err := s.SetParams(p); err != nil {
		t.Fatalf("SetParams() error = %v", err)
	}
	if s.Params().AlphaDecay != 0.5 {
		t.Errorf("Params().AlphaDecay = %v, want pending 0.5", s.Params().AlphaDecay)
	}
	if s.Alpha() != 1 {
		t.Errorf("Alpha() before tick = %v, want 1", s.Alpha())
	}
	s.Tick()
	if s.Alpha() != 0.5 {
		t.Errorf("Alpha() after tick = %v, want 0.5", s.Alpha())
	}

	p.VelocityDecay = -1
	if err := s.SetParams(p); err == nil {
		t.Error("SetParams() accepted negative velocity decay")
	}
}

func TestAlphaTargetKeepsRunning(t *testing.T) {
	nodes, links := ring(6)
	s, _ := New(nodes, links, DefaultParams())
	s.RunUntilSettled(context.Background(), 0)

	s.SetAlphaTarget(0.3)
	if s.State() != Running {
		t.Fatalf("State() = %v, want running", s.State())
	}
	if !s.Step(1000) {
		t.Error("simulation settled while alpha target was raised")
	}
	if math.Abs(s.Alpha()-0.3) > 0.01 {
		t.Errorf("Alpha() = %v, want about 0.3", s.Alpha())
	}

	s.SetAlphaTarget(0)
	if _, err := s.RunUntilSettled(context.Background(), 2000); err != nil || s.State() != Settled {
		t.Errorf("did not settle after target reset: state %v", s.State())
	}
}

func TestLinkDistance(t *testing.T) {
	p := DefaultParams()
	p.ChargeStrength = 0
	p.CollisionStrength = 0
	p.LinkStrength = 1
	s, _ := New([]Node{{}, {}}, []Link{{Source: 0, Target: 1}}, p)
	s.RunUntilSettled(context.Background(), 0)

	d := r2.Norm(r2.Sub(s.Position(0), s.Position(1)))
	if math.Abs(d-p.LinkDistance) > 8 {
		t.Errorf("link length = %v, want about %v", d, p.LinkDistance)
	}
}

func TestChargeRepels(t *testing.T) {
	p := DefaultParams()
	p.CollisionStrength = 0
	s, _ := New([]Node{{X: 0, Y: 0, Placed: true}, {X: 5, Y: 0, Placed: true}}, nil, p)
	s.Step(50)

	if d := r2.Norm(r2.Sub(s.Position(0), s.Position(1))); d <= 5 {
		t.Errorf("distance = %v, want > 5", d)
	}
}

func TestBarnesHutMatchesExact(t *testing.T) {
	nodes, links := ring(40)
	approx := DefaultParams()
	approx.Theta = 0.5
	exact := DefaultParams()
	exact.Theta = 0

	a, _ := New(nodes, links, approx)
	b, _ := New(nodes, links, exact)
	start := b.Positions()
	a.Tick()
	b.Tick()

	for i := range nodes {
		moved := r2.Norm(r2.Sub(b.Position(i), start[i]))
		diff := r2.Norm(r2.Sub(a.Position(i), b.Position(i)))
		if diff > 0.1*moved+1 {
			t.Errorf("body %d: approximate and exact positions differ by %v (moved %v)", i, diff, moved)
		}
	}
}

func TestCollisionSeparates(t *testing.T) {
	p := DefaultParams()
	p.ChargeStrength = 0
	p.LinkStrength = 0
	s, _ := New([]Node{
		{X: 0, Y: 0, Placed: true, Radius: 20},
		{X: 1, Y: 0, Placed: true, Radius: 20},
	}, nil, p)
	s.RunUntilSettled(context.Background(), 0)

	want := 2 * (20 + p.CollisionPadding)
	if d := r2.Norm(r2.Sub(s.Position(0), s.Position(1))); d < want-1 {
		t.Errorf("distance = %v, want >= %v", d, want)
	}
}

func TestWarmStartAndSpiral(t *testing.T) {
	s, _ := New([]Node{{X: 42, Y: 7, Placed: true}, {}, {}}, nil, DefaultParams())
	if got := s.Position(0); got != (r2.Vec{X: 42, Y: 7}) {
		t.Errorf("placed position = %v, want (42, 7)", got)
	}
	if s.Position(1) == s.Position(2) {
		t.Error("spiral placed two bodies at the same point")
	}
}

func TestDeterministic(t *testing.T) {
	nodes, links := ring(25)
	a, _ := New(nodes, links, DefaultParams())
	b, _ := New(nodes, links, DefaultParams())
	a.Step(100)
	b.Step(100)

	for i, pa := range a.Positions() {
		if pb := b.Position(i); pa != pb {
			t.Fatalf("body %d: %v != %v", i, pa, pb)
		}
	}
}

func TestTeardown(t *testing.T) {
	nodes, links := ring(5)
	s, _ := New(nodes, links, DefaultParams())
	s.Tick()
	if s.Energy() == 0 {
		t.Error("Energy() = 0 after first tick")
	}

	s.Teardown()
	if s.State() != Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	if s.Tick() || s.Len() != 0 {
		t.Error("torn down simulator still ticks")
	}
	s.Restart(1)
	if s.State() != Idle {
		t.Errorf("Restart revived an idle simulator: %v", s.State())
	}
}

func TestPresetsValidate(t *testing.T) {
	for name, p := range map[string]Params{"default": DefaultParams(), "expanded": ExpandedParams()} {
		if err := p.Validate(); err != nil {
			t.Errorf("%s: Validate() error = %v", name, err)
		}
	}
}
