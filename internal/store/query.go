package store

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/models"
)

// Query runs the subgraph pipeline against one network: seed, then filter by
// annotations, then expand appended nodes, then drop removed ones. The result
// is deterministic for equal arguments.
func (s *Store) Query(args models.QueryArgs) (*models.NodeLinkGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	net, err := s.networkForLocked(args.GraphID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"graphid": args.GraphID,
		"query":   args.EncodeString(),
	}).Debug("running subgraph query")

	ws := newWorkspace(net)
	if err := ws.seed(args); err != nil {
		return nil, err
	}

	if len(args.Annotations) > 0 {
		ws.filterAnnotations(args.Annotations)
	}

	for _, id := range args.Append {
		if err := ws.expandNeighborhood(id); err != nil {
			return nil, err
		}
	}

	for _, id := range args.Remove {
		if _, ok := ws.nodes[id]; !ok {
			s.log.WithField("node", id).Warn("remove target not in subgraph")
			continue
		}
		ws.removeNode(id)
	}

	return ws.graph(), nil
}

// workspace is a mutable node and edge selection over one parent network.
// Edges are addressed by their index in the parent's link list.
type workspace struct {
	net   *network
	nodes map[string]struct{}
	edges map[int]struct{}
}

func newWorkspace(net *network) *workspace {
	return &workspace{
		net:   net,
		nodes: make(map[string]struct{}),
		edges: make(map[int]struct{}),
	}
}

func (w *workspace) addAll() {
	for id := range w.net.nodeIdx {
		w.nodes[id] = struct{}{}
	}
	for i := range w.net.links {
		w.edges[i] = struct{}{}
	}
}

// addEdge selects an edge and both of its endpoints.
func (w *workspace) addEdge(i int) {
	w.edges[i] = struct{}{}
	e := w.net.links[i]
	w.nodes[e.Source] = struct{}{}
	w.nodes[e.Target] = struct{}{}
}

// induce replaces the edge selection with every parent edge whose endpoints
// are both selected.
func (w *workspace) induce() {
	w.edges = make(map[int]struct{})
	for i, e := range w.net.links {
		if _, ok := w.nodes[e.Source]; !ok {
			continue
		}
		if _, ok := w.nodes[e.Target]; !ok {
			continue
		}
		w.edges[i] = struct{}{}
	}
}

// filterAnnotations keeps only edges carrying every requested key with at
// least one requested value. The node set collapses to the endpoints of the
// surviving edges.
func (w *workspace) filterAnnotations(want map[string][]string) {
	kept := make(map[int]struct{})
	for i := range w.edges {
		if edgeMatches(w.net.links[i].Annotations, want) {
			kept[i] = struct{}{}
		}
	}

	w.edges = kept
	w.nodes = make(map[string]struct{})
	for i := range kept {
		e := w.net.links[i]
		w.nodes[e.Source] = struct{}{}
		w.nodes[e.Target] = struct{}{}
	}
}

func edgeMatches(have, want map[string][]string) bool {
	for key, wantVals := range want {
		haveVals, ok := have[key]
		if !ok {
			return false
		}
		if !intersects(haveVals, wantVals) {
			return false
		}
	}
	return true
}

func intersects(a, b []string) bool {
	set := toSet(a)
	for _, s := range b {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}

func toSet(vals []string) map[string]struct{} {
	set := make(map[string]struct{}, len(vals))
	for _, s := range vals {
		set[s] = struct{}{}
	}
	return set
}

// expandNeighborhood pulls a node and its neighborhood in from the parent
// network. Only edges to endpoints that were not already selected are added,
// so expansion reveals new nodes without rewiring the ones already present.
// In-edges are processed first; a neighbor they bring in counts as present
// for the out-edge pass.
func (w *workspace) expandNeighborhood(id string) error {
	if !w.net.hasNode(id) {
		return fmt.Errorf("%w: %s", models.ErrNodeNotFound, id)
	}

	w.nodes[id] = struct{}{}

	skip := make(map[string]struct{})
	for _, i := range w.net.in[id] {
		if _, ok := w.nodes[w.net.links[i].Source]; ok {
			skip[w.net.links[i].Source] = struct{}{}
		}
	}
	for _, i := range w.net.in[id] {
		if _, ok := skip[w.net.links[i].Source]; ok {
			continue
		}
		w.addEdge(i)
	}

	skip = make(map[string]struct{})
	for _, i := range w.net.out[id] {
		if _, ok := w.nodes[w.net.links[i].Target]; ok {
			skip[w.net.links[i].Target] = struct{}{}
		}
	}
	for _, i := range w.net.out[id] {
		if _, ok := skip[w.net.links[i].Target]; ok {
			continue
		}
		w.addEdge(i)
	}
	return nil
}

// removeNode drops a node and every selected edge touching it.
func (w *workspace) removeNode(id string) {
	delete(w.nodes, id)
	for i := range w.edges {
		e := w.net.links[i]
		if e.Source == id || e.Target == id {
			delete(w.edges, i)
		}
	}
}

// graph materializes the selection: nodes sorted by id, edges in parent
// order.
func (w *workspace) graph() *models.NodeLinkGraph {
	ids := make([]string, 0, len(w.nodes))
	for id := range w.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	g := &models.NodeLinkGraph{
		Nodes: make([]models.Node, 0, len(ids)),
		Links: make([]models.Edge, 0, len(w.edges)),
	}
	for _, id := range ids {
		g.Nodes = append(g.Nodes, w.net.nodes[w.net.nodeIdx[id]])
	}

	idxs := make([]int, 0, len(w.edges))
	for i := range w.edges {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	for _, i := range idxs {
		g.Links = append(g.Links, w.net.links[i])
	}
	return g
}
