// Package store implements the in-memory network dictionary behind the
// exploration API.
//
// Networks are loaded from node-link JSON files and merged into a universe
// graph; graph id 0 addresses the merged universe and ids 1..n address the
// individual networks. All read paths share one RWMutex with the loader, so
// a reload never exposes a half-built catalog.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/btree"

	"github.com/belnav/belnav/internal/metrics"
	"github.com/belnav/belnav/internal/models"
)

const universeName = "universe"

// network is one loaded graph: its nodes and edges plus the identity and
// adjacency indexes queries run on. Immutable once registered.
type network struct {
	id   int64
	name string

	nodes   []models.Node
	nodeIdx map[string]int

	links []models.Edge
	out   map[string][]int
	in    map[string][]int
}

func newNetwork(id int64, name string) *network {
	return &network{
		id:      id,
		name:    name,
		nodeIdx: make(map[string]int),
		out:     make(map[string][]int),
		in:      make(map[string][]int),
	}
}

// addNode registers a node unless its id is already taken. First writer wins.
func (n *network) addNode(node models.Node) bool {
	if _, ok := n.nodeIdx[node.ID]; ok {
		return false
	}
	n.nodeIdx[node.ID] = len(n.nodes)
	n.nodes = append(n.nodes, node)
	return true
}

func (n *network) addLink(e models.Edge) {
	i := len(n.links)
	n.links = append(n.links, e)
	n.out[e.Source] = append(n.out[e.Source], i)
	n.in[e.Target] = append(n.in[e.Target], i)
}

func (n *network) hasNode(id string) bool {
	_, ok := n.nodeIdx[id]
	return ok
}

func (n *network) node(id string) (models.Node, bool) {
	i, ok := n.nodeIdx[id]
	if !ok {
		return models.Node{}, false
	}
	return n.nodes[i], true
}

// edgeKey identifies a statement for universe deduplication. Two edges with
// the same endpoints, relation, evidence, and citation are the same statement
// even when they arrive from different networks. Symmetric relations compare
// with ordered endpoints, so reciprocal copies of one correlation collapse.
type edgeKey struct {
	source, target, relation, evidence, citation string
}

func keyOf(e models.Edge) edgeKey {
	s, t := e.Source, e.Target
	if models.IsSymmetric(e.Relation) && t < s {
		s, t = t, s
	}
	return edgeKey{s, t, e.Relation, e.Evidence, e.Citation.Reference}
}

// Store holds the loaded networks and answers subgraph queries over them.
type Store struct {
	log *logrus.Logger

	mu         sync.RWMutex
	networks   btree.Map[int64, *network]
	universe   *network
	labels     btree.Map[string, string]
	authors    btree.Set[string]
	pmids      btree.Set[string]
	edgeSeen   map[edgeKey]struct{}
	dir        string
	generation uint64
}

// New returns an empty store. Populate it with LoadDir or AddNetwork.
func New(log *logrus.Logger) *Store {
	s := &Store{log: log}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.networks = btree.Map[int64, *network]{}
	s.universe = newNetwork(0, universeName)
	s.labels = btree.Map[string, string]{}
	s.authors = btree.Set[string]{}
	s.pmids = btree.Set[string]{}
	s.edgeSeen = make(map[edgeKey]struct{})
}

// AddNetwork registers a network under the given id and merges it into the
// universe. Ids start at 1; id 0 is reserved for the universe itself.
func (s *Store) AddNetwork(id int64, name string, g *models.NodeLinkGraph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.addNetworkLocked(id, name, g); err != nil {
		return err
	}
	s.rebuildLabelsLocked()
	s.generation++
	s.publishSizesLocked()
	return nil
}

func (s *Store) addNetworkLocked(id int64, name string, g *models.NodeLinkGraph) error {
	if id < 1 {
		return fmt.Errorf("network id %d out of range", id)
	}
	if _, ok := s.networks.Get(id); ok {
		return fmt.Errorf("network %d already loaded", id)
	}

	net := newNetwork(id, name)
	for _, node := range g.Nodes {
		if node.ID == "" {
			continue
		}
		net.addNode(node)
	}
	for _, e := range g.Links {
		if !net.hasNode(e.Source) || !net.hasNode(e.Target) {
			s.log.WithFields(logrus.Fields{
				"network": name,
				"source":  e.Source,
				"target":  e.Target,
			}).Warn("skipping edge with unknown endpoint")
			continue
		}
		net.addLink(e)
		s.harvestCitation(e.Citation)
	}

	for _, node := range net.nodes {
		s.universe.addNode(node)
	}
	for _, e := range net.links {
		k := keyOf(e)
		if _, dup := s.edgeSeen[k]; dup {
			continue
		}
		s.edgeSeen[k] = struct{}{}
		s.universe.addLink(e)
	}

	s.networks.Set(id, net)
	return nil
}

func (s *Store) harvestCitation(c models.Citation) {
	if c.Reference != "" && (c.Type == "" || c.Type == models.CitationTypePubMed) {
		s.pmids.Insert(c.Reference)
	}
	for _, a := range c.Authors {
		if a != "" {
			s.authors.Insert(a)
		}
	}
}

// rebuildLabelsLocked recomputes the display-label index over the universe.
// Colliding canonical names carry their function qualifier; a label that
// still collides keeps its lowest node id.
func (s *Store) rebuildLabelsLocked() {
	counts := make(map[string]int, len(s.universe.nodes))
	for _, n := range s.universe.nodes {
		counts[n.CName]++
	}

	ids := make([]string, 0, len(s.universe.nodes))
	for _, n := range s.universe.nodes {
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)

	s.labels = btree.Map[string, string]{}
	for _, id := range ids {
		n := s.universe.nodes[s.universe.nodeIdx[id]]
		label := n.CName
		if counts[n.CName] > 1 {
			label = n.FunctionQualifiedName()
		}
		if _, taken := s.labels.Get(label); taken {
			continue
		}
		s.labels.Set(label, n.ID)
	}
}

func (s *Store) publishSizesLocked() {
	metrics.NetworkCount.Set(float64(s.networks.Len()))
	metrics.NodeCount.Set(float64(len(s.universe.nodes)))
	metrics.EdgeCount.Set(float64(len(s.universe.links)))
}

// networkForLocked resolves a graph id. Id 0 is the universe.
func (s *Store) networkForLocked(id int64) (*network, error) {
	if id == 0 {
		return s.universe, nil
	}
	net, ok := s.networks.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", models.ErrNetworkNotFound, id)
	}
	return net, nil
}

// Generation identifies the current catalog. It increments whenever the
// loaded networks change, so cache keys built on it expire wholesale on
// reload.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// List returns the loaded networks in id order. The universe is not listed.
func (s *Store) List() []models.NetworkSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.NetworkSummary, 0, s.networks.Len())
	s.networks.Scan(func(id int64, net *network) bool {
		out = append(out, models.NetworkSummary{
			ID:    id,
			Name:  net.name,
			Nodes: len(net.nodes),
			Edges: len(net.links),
		})
		return true
	})
	return out
}

// Info describes one network: counts plus relation and function histograms.
func (s *Store) Info(graphID int64) (*models.NetworkInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	net, err := s.networkForLocked(graphID)
	if err != nil {
		return nil, err
	}

	info := &models.NetworkInfo{
		ID:        net.id,
		Name:      net.name,
		Nodes:     len(net.nodes),
		Edges:     len(net.links),
		Relations: make(map[string]int),
		Functions: make(map[string]int),
	}
	for _, e := range net.links {
		info.Relations[e.Relation]++
	}
	for _, n := range net.nodes {
		info.Functions[n.Function]++
	}
	return info, nil
}

// NodeByID looks a node up in the universe.
func (s *Store) NodeByID(id string) (models.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.universe.node(id)
	if !ok {
		return models.Node{}, fmt.Errorf("%w: %s", models.ErrNodeNotFound, id)
	}
	return node, nil
}
