package layout

import (
	"math"
	"math/rand"
)

const (
	defaultChargeStrength = -120
	// Barnes-Hut opening criterion, squared: a cell of width w at squared
	// distance l is treated as one body when w*w/theta2 < l.
	defaultTheta2 = 0.81
)

// ManyBodyForce applies mutual charge between all node pairs, approximated
// with a Barnes-Hut quadtree. Negative strength repels.
type ManyBodyForce struct {
	nodes []*Node
	rnd   *rand.Rand

	strength     float64
	theta2       float64
	distanceMin2 float64
	distanceMax2 float64
}

// NewManyBodyForce builds a repulsive charge force with default strength.
func NewManyBodyForce() *ManyBodyForce {
	return &ManyBodyForce{
		strength:     defaultChargeStrength,
		theta2:       defaultTheta2,
		distanceMin2: 1,
		distanceMax2: math.Inf(1),
	}
}

// SetStrength overrides the charge applied by every node.
func (f *ManyBodyForce) SetStrength(s float64) { f.strength = s }

// SetDistanceMax caps the interaction range.
func (f *ManyBodyForce) SetDistanceMax(d float64) { f.distanceMax2 = d * d }

// Initialize captures the node set.
func (f *ManyBodyForce) Initialize(nodes []*Node, rnd *rand.Rand) {
	f.nodes = nodes
	f.rnd = rnd
}

// Apply rebuilds the quadtree and accumulates charge on every node.
func (f *ManyBodyForce) Apply(alpha float64) {
	if len(f.nodes) == 0 {
		return
	}

	px := func(n *Node) float64 { return n.X }
	py := func(n *Node) float64 { return n.Y }

	tree := buildQuadtree(f.nodes, px, py)
	tree.root.accumulate(func(*Node) float64 { return f.strength }, nil, px, py)

	for _, n := range f.nodes {
		f.applyTo(tree, n, alpha)
	}
}

func (f *ManyBodyForce) applyTo(tree *quadtree, node *Node, alpha float64) {
	tree.visit(func(c *quadCell, x0, _, x1, _ float64) bool {
		if c.value == 0 && c.points == nil {
			return true
		}

		dx := c.x - node.X
		dy := c.y - node.Y
		w := x1 - x0
		l := dx*dx + dy*dy

		// Far enough: treat the whole cell as a single body.
		if w*w/f.theta2 < l {
			if l < f.distanceMax2 {
				if dx == 0 {
					dx = jiggle(f.rnd)
					l += dx * dx
				}
				if dy == 0 {
					dy = jiggle(f.rnd)
					l += dy * dy
				}
				if l < f.distanceMin2 {
					l = math.Sqrt(f.distanceMin2 * l)
				}
				node.VX += dx * c.value * alpha / l
				node.VY += dy * c.value * alpha / l
			}
			return true
		}

		if c.points == nil || l >= f.distanceMax2 {
			return false
		}

		other := false
		for _, p := range c.points {
			if p != node {
				other = true
				break
			}
		}
		if !other {
			return true
		}

		if dx == 0 {
			dx = jiggle(f.rnd)
			l += dx * dx
		}
		if dy == 0 {
			dy = jiggle(f.rnd)
			l += dy * dy
		}
		if l < f.distanceMin2 {
			l = math.Sqrt(f.distanceMin2 * l)
		}

		for _, p := range c.points {
			if p == node {
				continue
			}
			node.VX += dx * f.strength * alpha / l
			node.VY += dy * f.strength * alpha / l
		}

		return true
	})
}
