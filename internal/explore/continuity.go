package explore

import "github.com/belnav/belnav/internal/models"

// Nodes entering a render start off-canvas and are pulled in by the
// simulation, so appearing nodes are visually distinguishable from moved
// ones.
const (
	StagingX = -1000
	StagingY = -1000
)

// Position is a node's captured layout state.
type Position struct {
	X, Y   float64
	Pinned bool
}

// Reconcile carries positions from the previous render into a freshly
// fetched graph: nodes present before keep their coordinates (and pin),
// genuinely new nodes are staged off-canvas. Edges are never touched.
// It returns the set of new node ids and must run before the graph is
// handed to the layout engine.
func Reconcile(g *models.NodeLinkGraph, prev map[string]Position) map[string]struct{} {
	fresh := make(map[string]struct{})

	for i := range g.Nodes {
		p, ok := prev[g.Nodes[i].ID]
		if !ok {
			g.Nodes[i].X = StagingX
			g.Nodes[i].Y = StagingY
			g.Nodes[i].FX = nil
			g.Nodes[i].FY = nil
			fresh[g.Nodes[i].ID] = struct{}{}
			continue
		}

		g.Nodes[i].X = p.X
		g.Nodes[i].Y = p.Y
		if p.Pinned {
			fx, fy := p.X, p.Y
			g.Nodes[i].FX = &fx
			g.Nodes[i].FY = &fy
		} else {
			g.Nodes[i].FX = nil
			g.Nodes[i].FY = nil
		}
	}

	return fresh
}
