package layout

import "math/rand"

// CenterForce translates all nodes uniformly so their mean position sits at
// a fixed point. It adjusts positions directly rather than velocities, so
// the view never drifts even as the layout settles.
type CenterForce struct {
	nodes    []*Node
	x, y     float64
	strength float64
}

// NewCenterForce builds a centering force on (x, y).
func NewCenterForce(x, y float64) *CenterForce {
	return &CenterForce{x: x, y: y, strength: 1}
}

// Initialize captures the node set.
func (f *CenterForce) Initialize(nodes []*Node, _ *rand.Rand) {
	f.nodes = nodes
}

// Apply recenters the mean position.
func (f *CenterForce) Apply(_ float64) {
	if len(f.nodes) == 0 {
		return
	}

	var sx, sy float64
	for _, n := range f.nodes {
		sx += n.X
		sy += n.Y
	}

	n := float64(len(f.nodes))
	sx = (sx/n - f.x) * f.strength
	sy = (sy/n - f.y) * f.strength

	for _, node := range f.nodes {
		node.X -= sx
		node.Y -= sy
	}
}
