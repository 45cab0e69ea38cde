package layout_test

import (
	"math"
	"testing"

	"github.com/belnav/belnav/internal/layout"
)

func step(s *layout.Simulation, n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

func dist(a, b *layout.Node) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func newPair() (*layout.Simulation, *layout.Node, *layout.Node) {
	a := &layout.Node{ID: "a", X: 0, Y: 0}
	b := &layout.Node{ID: "b", X: 300, Y: 0}
	s := layout.New([]*layout.Node{a, b}, 1)
	s.AddForce(layout.NewLinkForce([]*layout.SimLink{{Source: a, Target: b}}))
	return s, a, b
}

func TestSimulation_LinkPullsTowardRestDistance(t *testing.T) {
	s, a, b := newPair()

	start := dist(a, b)
	step(s, 400)

	if s.Running() {
		t.Error("expected simulation to settle after decay")
	}

	end := dist(a, b)
	if math.Abs(end-100) >= math.Abs(start-100) {
		t.Errorf("expected distance to approach 100, start %.1f end %.1f", start, end)
	}
}

func TestSimulation_PinnedNodeImmobile(t *testing.T) {
	s, a, b := newPair()
	s.AddForce(layout.NewManyBodyForce())

	s.Pin("a", 50, 60)
	step(s, 100)

	if a.X != 50 || a.Y != 60 {
		t.Errorf("pinned node moved to (%.2f, %.2f)", a.X, a.Y)
	}
	if a.VX != 0 || a.VY != 0 {
		t.Errorf("pinned node kept velocity (%.2f, %.2f)", a.VX, a.VY)
	}

	// The pin still exerts forces: the free node must have moved.
	if b.X == 300 && b.Y == 0 {
		t.Error("free node never moved")
	}
}

func TestSimulation_DragLifecycle(t *testing.T) {
	s, a, _ := newPair()

	step(s, 400)
	if s.Running() {
		t.Fatal("expected settled simulation before drag")
	}

	s.DragStart("a")
	if !s.Running() {
		t.Error("drag must keep the simulation running")
	}
	if a.FX == nil || *a.FX != a.X {
		t.Error("drag start must pin at the current position")
	}

	s.DragMove("a", -40, 25)
	s.Step()
	if a.X != -40 || a.Y != 25 {
		t.Errorf("dragged node at (%.2f, %.2f), want (-40, 25)", a.X, a.Y)
	}

	s.DragEnd("a")
	step(s, 400)
	if s.Running() {
		t.Error("expected simulation to cool after drag end")
	}
	if a.X != -40 || a.Y != 25 {
		t.Error("drag end must leave the node pinned in place")
	}

	s.Unpin("a")
	if a.FX != nil || a.FY != nil {
		t.Error("unpin must clear the fixed position")
	}
}

func TestSimulation_FreezeAndReheat(t *testing.T) {
	s, _, _ := newPair()

	s.Freeze()
	if s.Running() {
		t.Error("frozen simulation must not be running")
	}

	s.Reheat()
	if !s.Running() {
		t.Error("reheated simulation must run again")
	}
}

func TestSimulation_SeparatesCoincidentNodes(t *testing.T) {
	nodes := make([]*layout.Node, 5)
	for i := range nodes {
		nodes[i] = &layout.Node{ID: string(rune('a' + i)), X: -1000, Y: -1000}
	}

	s := layout.New(nodes, 7)
	s.AddForce(layout.NewManyBodyForce())
	step(s, 100)

	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			if dist(nodes[i], nodes[j]) == 0 {
				t.Fatalf("nodes %d and %d still coincident", i, j)
			}
		}
	}
}

func TestSimulation_CenterForceRecentersMean(t *testing.T) {
	a := &layout.Node{ID: "a", X: 500, Y: 500}
	b := &layout.Node{ID: "b", X: 700, Y: 900}
	s := layout.New([]*layout.Node{a, b}, 1)
	s.AddForce(layout.NewCenterForce(0, 0))

	s.Step()

	mx := (a.X + b.X) / 2
	my := (a.Y + b.Y) / 2
	if math.Abs(mx) > 1e-9 || math.Abs(my) > 1e-9 {
		t.Errorf("mean position (%.3f, %.3f), want origin", mx, my)
	}
}

func TestSimulation_CollidePushesApart(t *testing.T) {
	a := &layout.Node{ID: "a", X: 0, Y: 0}
	b := &layout.Node{ID: "b", X: 5, Y: 0}
	s := layout.New([]*layout.Node{a, b}, 3)
	s.AddForce(layout.NewCollideForce())

	step(s, 200)

	if d := dist(a, b); d < 30 {
		t.Errorf("expected separation near twice the radius, got %.2f", d)
	}
}

func TestSimulation_DeterministicForEqualSeeds(t *testing.T) {
	run := func() (float64, float64) {
		nodes := []*layout.Node{
			{ID: "a", X: -1000, Y: -1000},
			{ID: "b", X: -1000, Y: -1000},
			{ID: "c", X: 10, Y: 10},
		}
		s := layout.New(nodes, 42)
		s.AddForce(layout.NewManyBodyForce())
		s.AddForce(layout.NewLinkForce([]*layout.SimLink{
			{Source: nodes[0], Target: nodes[2]},
			{Source: nodes[1], Target: nodes[2]},
		}))
		step(s, 50)
		return nodes[0].X, nodes[0].Y
	}

	x1, y1 := run()
	x2, y2 := run()
	if x1 != x2 || y1 != y2 {
		t.Errorf("equal seeds diverged: (%.6f, %.6f) vs (%.6f, %.6f)", x1, y1, x2, y2)
	}
}
