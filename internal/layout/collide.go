package layout

import (
	"math"
	"math/rand"
)

const defaultCollideRadius = 18

// CollideForce resolves overlaps between nodes treated as circles, splitting
// the correction between the pair by squared radius.
type CollideForce struct {
	nodes []*Node
	rnd   *rand.Rand

	radius     func(*Node) float64
	strength   float64
	iterations int
}

// NewCollideForce builds a collision force with a uniform default radius.
func NewCollideForce() *CollideForce {
	return &CollideForce{
		radius:     func(*Node) float64 { return defaultCollideRadius },
		strength:   1,
		iterations: 1,
	}
}

// SetRadius replaces the radius accessor.
func (f *CollideForce) SetRadius(r func(*Node) float64) { f.radius = r }

// Initialize captures the node set.
func (f *CollideForce) Initialize(nodes []*Node, rnd *rand.Rand) {
	f.nodes = nodes
	f.rnd = rnd
}

// Apply separates overlapping nodes. Positions are read with velocity
// applied so corrections account for where nodes are headed this tick.
func (f *CollideForce) Apply(_ float64) {
	if len(f.nodes) == 0 {
		return
	}

	px := func(n *Node) float64 { return n.X + n.VX }
	py := func(n *Node) float64 { return n.Y + n.VY }

	for k := 0; k < f.iterations; k++ {
		tree := buildQuadtree(f.nodes, px, py)
		tree.root.accumulate(nil, f.radius, px, py)

		for _, n := range f.nodes {
			f.applyTo(tree, n, px, py)
		}
	}
}

func (f *CollideForce) applyTo(tree *quadtree, node *Node, px, py pointFn) {
	ri := f.radius(node)
	ri2 := ri * ri
	xi := px(node)
	yi := py(node)

	tree.visit(func(c *quadCell, x0, y0, x1, y1 float64) bool {
		r := ri + c.r

		if c.points == nil {
			// Prune cells that cannot contain an overlapping node.
			return x0 > xi+r || x1 < xi-r || y0 > yi+r || y1 < yi-r
		}

		for _, p := range c.points {
			// Visit each pair once.
			if p.index <= node.index {
				continue
			}

			x := xi - px(p)
			y := yi - py(p)
			l := x*x + y*y
			rj := f.radius(p)
			rp := ri + rj

			if l >= rp*rp {
				continue
			}

			if x == 0 {
				x = jiggle(f.rnd)
				l += x * x
			}
			if y == 0 {
				y = jiggle(f.rnd)
				l += y * y
			}

			l = math.Sqrt(l)
			corr := (rp - l) / l * f.strength
			x *= corr
			y *= corr

			rj2 := rj * rj
			share := rj2 / (ri2 + rj2)
			node.VX += x * share
			node.VY += y * share
			p.VX -= x * (1 - share)
			p.VY -= y * (1 - share)
		}

		return false
	})
}
