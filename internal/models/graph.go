package models

// NodeLinkGraph is the node-link wire form of a network: the JSON shape data
// files use on disk and the subgraph endpoint returns.
type NodeLinkGraph struct {
	Nodes []Node `json:"nodes"`
	Links []Edge `json:"links"`
}

// Copy returns a deep copy. Annotation maps are cloned so callers can mutate
// the result without touching the source.
func (g *NodeLinkGraph) Copy() *NodeLinkGraph {
	if g == nil {
		return nil
	}

	out := &NodeLinkGraph{
		Nodes: make([]Node, len(g.Nodes)),
		Links: make([]Edge, len(g.Links)),
	}
	copy(out.Nodes, g.Nodes)

	for i, e := range g.Links {
		if e.Annotations != nil {
			anns := make(map[string][]string, len(e.Annotations))
			for k, vals := range e.Annotations {
				anns[k] = append([]string(nil), vals...)
			}
			e.Annotations = anns
		}
		out.Links[i] = e
	}

	return out
}

// NetworkSummary is one row of the network list.
type NetworkSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

// NetworkInfo describes a single network in detail.
type NetworkInfo struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Nodes     int            `json:"nodes"`
	Edges     int            `json:"edges"`
	Relations map[string]int `json:"relations"`
	Functions map[string]int `json:"functions"`
}

// TreeEntry is one entry of the annotation tree: a key with its observed
// values as children, or a bare value leaf.
type TreeEntry struct {
	Text     string      `json:"text"`
	Children []TreeEntry `json:"children,omitempty"`
}

// Suggestion is one typeahead hit.
type Suggestion struct {
	Text string `json:"text"`
	ID   string `json:"id"`
}
