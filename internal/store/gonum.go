package store

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/belnav/belnav/internal/models"
)

// gonumIndex bridges opaque string node ids to the dense int64 ids gonum
// graphs require. Ids are assigned in node order, which Query keeps sorted,
// so equal inputs build identical graphs.
type gonumIndex struct {
	g    graph.Graph
	ids  map[string]int64
	strs []string
}

func newGonumIndex(src *models.NodeLinkGraph, undirected bool) *gonumIndex {
	idx := &gonumIndex{
		ids:  make(map[string]int64, len(src.Nodes)),
		strs: make([]string, 0, len(src.Nodes)),
	}

	var dg *simple.DirectedGraph
	var ug *simple.UndirectedGraph
	if undirected {
		ug = simple.NewUndirectedGraph()
		idx.g = ug
	} else {
		dg = simple.NewDirectedGraph()
		idx.g = dg
	}

	for _, n := range src.Nodes {
		id := int64(len(idx.strs))
		idx.ids[n.ID] = id
		idx.strs = append(idx.strs, n.ID)
		if undirected {
			ug.AddNode(simple.Node(id))
		} else {
			dg.AddNode(simple.Node(id))
		}
	}

	for _, e := range src.Links {
		f, fok := idx.ids[e.Source]
		t, tok := idx.ids[e.Target]
		if !fok || !tok || f == t {
			// simple graphs reject self loops
			continue
		}
		edge := simple.Edge{F: simple.Node(f), T: simple.Node(t)}
		if undirected {
			ug.SetEdge(edge)
		} else {
			dg.SetEdge(edge)
		}
	}
	return idx
}

func (x *gonumIndex) id(s string) (int64, bool) {
	id, ok := x.ids[s]
	return id, ok
}

func (x *gonumIndex) node(s string) graph.Node {
	return simple.Node(x.ids[s])
}

func (x *gonumIndex) label(id int64) string {
	return x.strs[id]
}
