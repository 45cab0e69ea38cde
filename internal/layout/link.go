package layout

import (
	"math"
	"math/rand"
)

// SimLink is a spring between two simulation nodes. Distance 0 takes the
// force default.
type SimLink struct {
	Source, Target *Node
	Distance       float64

	strength float64
	bias     float64
}

const defaultLinkDistance = 100

// LinkForce pulls linked nodes toward a set distance. Strength is derived
// from degree (1 / min degree of the two ends) so heavily connected nodes
// are not torn apart, and the correction is biased toward the lighter end.
type LinkForce struct {
	links      []*SimLink
	distance   float64
	iterations int
	rnd        *rand.Rand
}

// NewLinkForce builds a link force with the default distance.
func NewLinkForce(links []*SimLink) *LinkForce {
	return &LinkForce{links: links, distance: defaultLinkDistance, iterations: 1}
}

// SetDistance overrides the default rest length for links without their own.
func (f *LinkForce) SetDistance(d float64) { f.distance = d }

// Initialize computes per-link strength and bias from node degrees.
func (f *LinkForce) Initialize(nodes []*Node, rnd *rand.Rand) {
	f.rnd = rnd

	count := make(map[*Node]int, len(nodes))
	for _, l := range f.links {
		count[l.Source]++
		count[l.Target]++
	}

	for _, l := range f.links {
		cs, ct := count[l.Source], count[l.Target]
		l.bias = float64(cs) / float64(cs+ct)

		minDeg := cs
		if ct < cs {
			minDeg = ct
		}
		l.strength = 1 / float64(minDeg)

		if l.Distance == 0 {
			l.Distance = f.distance
		}
	}
}

// Apply relaxes every link once per iteration.
func (f *LinkForce) Apply(alpha float64) {
	for k := 0; k < f.iterations; k++ {
		for _, l := range f.links {
			x := l.Target.X + l.Target.VX - l.Source.X - l.Source.VX
			y := l.Target.Y + l.Target.VY - l.Source.Y - l.Source.VY
			if x == 0 {
				x = jiggle(f.rnd)
			}
			if y == 0 {
				y = jiggle(f.rnd)
			}

			dist := math.Sqrt(x*x + y*y)
			corr := (dist - l.Distance) / dist * alpha * l.strength
			x *= corr
			y *= corr

			l.Target.VX -= x * l.bias
			l.Target.VY -= y * l.bias
			l.Source.VX += x * (1 - l.bias)
			l.Source.VY += y * (1 - l.bias)
		}
	}
}
