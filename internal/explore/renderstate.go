package explore

import (
	"sort"

	"github.com/belnav/belnav/internal/models"
)

// RenderState indexes the currently rendered subgraph: node lookup by id,
// adjacency for neighborhood overlays, and edge lookup by triple. It is
// rebuilt from scratch on every render swap and never mutated in place.
type RenderState struct {
	Nodes []models.Node
	Links []models.Edge

	nodeIdx  map[string]int
	adjacent map[string]map[string]struct{}
	incident map[string][]int
}

// NewRenderState builds the indexes for a freshly fetched graph.
func NewRenderState(g *models.NodeLinkGraph) *RenderState {
	r := &RenderState{
		Nodes:    g.Nodes,
		Links:    g.Links,
		nodeIdx:  make(map[string]int, len(g.Nodes)),
		adjacent: make(map[string]map[string]struct{}, len(g.Nodes)),
		incident: make(map[string][]int, len(g.Nodes)),
	}

	for i, n := range g.Nodes {
		r.nodeIdx[n.ID] = i
		// A node is always linked to itself, so hover never dims the
		// hovered node.
		r.link(n.ID, n.ID)
	}

	for i, e := range g.Links {
		r.link(e.Source, e.Target)
		r.link(e.Target, e.Source)
		r.incident[e.Source] = append(r.incident[e.Source], i)
		if e.Target != e.Source {
			r.incident[e.Target] = append(r.incident[e.Target], i)
		}
	}

	return r
}

func (r *RenderState) link(a, b string) {
	set := r.adjacent[a]
	if set == nil {
		set = map[string]struct{}{}
		r.adjacent[a] = set
	}
	set[b] = struct{}{}
}

// Node returns the rendered node with the given id.
func (r *RenderState) Node(id string) (models.Node, bool) {
	i, ok := r.nodeIdx[id]
	if !ok {
		return models.Node{}, false
	}
	return r.Nodes[i], true
}

// Has reports whether a node is part of the render.
func (r *RenderState) Has(id string) bool {
	_, ok := r.nodeIdx[id]
	return ok
}

// Linked reports whether two nodes share an edge. Every node is linked to
// itself.
func (r *RenderState) Linked(a, b string) bool {
	_, ok := r.adjacent[a][b]
	return ok
}

// NeighborIDs returns the ids adjacent to a node (itself included), sorted.
func (r *RenderState) NeighborIDs(id string) []string {
	set := r.adjacent[id]
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Size returns node and link counts.
func (r *RenderState) Size() (nodes, links int) {
	return len(r.Nodes), len(r.Links)
}
