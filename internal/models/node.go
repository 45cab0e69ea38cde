// Package models defines data types for the biological knowledge graph.
package models

// BEL node function classes.
const (
	FunctionProtein    = "Protein"
	FunctionRNA        = "RNA"
	FunctionGene       = "Gene"
	FunctionMiRNA      = "miRNA"
	FunctionAbundance  = "Abundance"
	FunctionComposite  = "Composite"
	FunctionComplex    = "Complex"
	FunctionReaction   = "Reaction"
	FunctionPathology  = "Pathology"
	FunctionBioProcess = "BiologicalProcess"
)

// Node represents a biological entity in the knowledge graph. IDs are opaque
// strings unique across the whole network universe; every network shares the
// same id space. X/Y are simulation coordinates, FX/FY are set only while the
// node is pinned.
type Node struct {
	ID          string   `json:"id"`
	CName       string   `json:"cname"`
	Function    string   `json:"function"`
	Namespace   string   `json:"namespace,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	FX          *float64 `json:"fx,omitempty"`
	FY          *float64 `json:"fy,omitempty"`
}

// FunctionQualifiedName returns the display name used when canonical names
// collide: "cname (Function)".
func (n Node) FunctionQualifiedName() string {
	return n.CName + " (" + n.Function + ")"
}

// DisambiguateCNames rewrites colliding canonical names in place by appending
// the node function, so list UIs never show two indistinguishable entries.
func DisambiguateCNames(nodes []Node) {
	counts := make(map[string]int, len(nodes))
	for _, n := range nodes {
		counts[n.CName]++
	}

	for i := range nodes {
		if counts[nodes[i].CName] > 1 {
			nodes[i].CName = nodes[i].FunctionQualifiedName()
		}
	}
}
