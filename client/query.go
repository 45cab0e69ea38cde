package client

import (
	"net/url"
	"sort"
	"strconv"
)

// Seed methods for the subgraph query pipeline.
const (
	SeedInduction     = "induction"
	SeedNeighbors     = "neighbors"
	SeedDNeighbors    = "dneighbors"
	SeedShortestPaths = "shortest_paths"
	SeedProvenance    = "provenance"
)

// Path search methods.
const (
	PathsShortest = "shortest"
	PathsAll      = "all"
)

// QueryArgs describes a subgraph query: which network, how to seed it, which
// annotation filters to apply, and which nodes to append or remove afterwards.
// GraphID 0 addresses the merged universe.
type QueryArgs struct {
	GraphID     int64
	SeedMethod  string
	SeedNodes   []string
	Authors     []string
	Pmids       []string
	Append      []string
	Remove      []string
	Annotations map[string][]string
	Extra       url.Values
}

// Encode renders the arguments as query values in canonical form: multi-value
// fields sorted and deduplicated. Two logically equal QueryArgs always encode
// byte-identically regardless of how they were assembled, so encoded strings
// can be compared, cached, and shared.
func (a QueryArgs) Encode() url.Values {
	v := url.Values{}

	if a.GraphID != 0 {
		v.Set("graphid", strconv.FormatInt(a.GraphID, 10))
	}

	if a.SeedMethod != "" {
		v.Set("seed_method", a.SeedMethod)
	}

	addSorted(v, "nodes", a.SeedNodes)
	addSorted(v, "authors", a.Authors)
	addSorted(v, "pmids", a.Pmids)
	addSorted(v, "append", a.Append)
	addSorted(v, "remove", a.Remove)

	for _, k := range sortedKeys(a.Annotations) {
		addSorted(v, k, a.Annotations[k])
	}

	for _, k := range sortedKeys(a.Extra) {
		if _, taken := v[k]; taken {
			continue
		}
		addSorted(v, k, a.Extra[k])
	}

	return v
}

// EncodeString is the canonical query string form of the arguments.
func (a QueryArgs) EncodeString() string {
	return a.Encode().Encode()
}

func addSorted(v url.Values, key string, vals []string) {
	for _, s := range dedupSorted(vals) {
		v.Add(key, s)
	}
}

func dedupSorted(vals []string) []string {
	if len(vals) == 0 {
		return nil
	}

	out := append([]string(nil), vals...)
	sort.Strings(out)

	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[i-1] {
			out[n] = out[i]
			n++
		}
	}

	return out[:n]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
