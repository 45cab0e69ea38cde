// Package layout implements a force-directed layout simulation for graph
// views: velocity Verlet integration with a decaying activity level (alpha),
// pluggable forces, and support for pinned and dragged nodes.
package layout

import (
	"math"
	"math/rand"
)

// Node is a point mass in the simulation. FX/FY non-nil pin the node: it
// snaps to that position each tick and accumulates no velocity, but still
// exerts forces on its neighbors.
type Node struct {
	ID     string
	X, Y   float64
	VX, VY float64
	FX, FY *float64

	index int
}

// Force adjusts node velocities (or positions) once per tick.
type Force interface {
	Initialize(nodes []*Node, rnd *rand.Rand)
	Apply(alpha float64)
}

const (
	defaultAlphaMin = 0.001
	// Fraction of velocity retained each tick.
	defaultVelocityDecay = 0.6
)

// Simulation advances a set of nodes under a set of forces. Activity decays
// from 1 toward alphaTarget; once alpha drops below alphaMin the simulation
// is considered settled. Not safe for concurrent use: callers own the
// stepping goroutine.
type Simulation struct {
	nodes []*Node
	byID  map[string]*Node

	forces []Force
	rnd    *rand.Rand

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64
}

// New builds a simulation over nodes. The seed drives the jiggle used to
// separate coincident nodes, so equal seeds give reproducible layouts.
func New(nodes []*Node, seed int64) *Simulation {
	s := &Simulation{
		nodes:         nodes,
		byID:          make(map[string]*Node, len(nodes)),
		rnd:           rand.New(rand.NewSource(seed)),
		alpha:         1,
		alphaMin:      defaultAlphaMin,
		alphaDecay:    1 - math.Pow(defaultAlphaMin, 1.0/300),
		velocityDecay: defaultVelocityDecay,
	}

	for i, n := range nodes {
		n.index = i
		s.byID[n.ID] = n
	}

	return s
}

// AddForce registers a force and initializes it against the current nodes.
func (s *Simulation) AddForce(f Force) {
	f.Initialize(s.nodes, s.rnd)
	s.forces = append(s.forces, f)
}

// Nodes returns the simulation's nodes in index order.
func (s *Simulation) Nodes() []*Node { return s.nodes }

// Node returns the node with the given id, or nil.
func (s *Simulation) Node(id string) *Node { return s.byID[id] }

// Alpha returns the current activity level.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Running reports whether stepping still changes anything: the simulation
// has not cooled below alphaMin, or a target keeps it hot.
func (s *Simulation) Running() bool {
	return s.alpha >= s.alphaMin || s.alphaTarget >= s.alphaMin
}

// Step advances the simulation one tick: decay alpha toward the target,
// apply every force, then integrate velocities. Pinned nodes snap to their
// fixed position with zero velocity.
func (s *Simulation) Step() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, f := range s.forces {
		f.Apply(s.alpha)
	}

	for _, n := range s.nodes {
		if n.FX == nil {
			n.VX *= s.velocityDecay
			n.X += n.VX
		} else {
			n.X = *n.FX
			n.VX = 0
		}
		if n.FY == nil {
			n.VY *= s.velocityDecay
			n.Y += n.VY
		} else {
			n.Y = *n.FY
			n.VY = 0
		}
	}
}

// Reheat resets alpha to full so a settled layout starts moving again.
func (s *Simulation) Reheat() { s.alpha = 1 }

// Freeze cools the simulation immediately. Positions stay exactly where
// they are until something reheats it.
func (s *Simulation) Freeze() {
	s.alpha = 0
	s.alphaTarget = 0
}

// SetAlphaTarget keeps the simulation simmering at the given level.
func (s *Simulation) SetAlphaTarget(t float64) { s.alphaTarget = t }

// Pin fixes a node at (x, y). Unknown ids are ignored.
func (s *Simulation) Pin(id string, x, y float64) {
	n := s.byID[id]
	if n == nil {
		return
	}
	n.FX = &x
	n.FY = &y
}

// Unpin releases a pinned node back to the simulation.
func (s *Simulation) Unpin(id string) {
	n := s.byID[id]
	if n == nil {
		return
	}
	n.FX = nil
	n.FY = nil
}

const dragAlphaTarget = 0.3

// DragStart pins the node at its current position and keeps the simulation
// simmering so neighbors adjust while the node moves.
func (s *Simulation) DragStart(id string) {
	n := s.byID[id]
	if n == nil {
		return
	}
	s.Pin(id, n.X, n.Y)
	s.alphaTarget = dragAlphaTarget
}

// DragMove moves a dragged node's pin.
func (s *Simulation) DragMove(id string, x, y float64) {
	s.Pin(id, x, y)
}

// DragEnd lets the simulation cool again. The pin stays: dragged nodes hold
// their position until explicitly unpinned.
func (s *Simulation) DragEnd(id string) {
	s.alphaTarget = 0
}

func jiggle(rnd *rand.Rand) float64 {
	return (rnd.Float64() - 0.5) * 1e-6
}
