package models

import (
	"fmt"
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

// Reserved query keys. Every other key in a subgraph query is interpreted as
// an annotation filter.
var queryBlacklist = map[string]struct{}{
	"graphid":      {},
	"append":       {},
	"remove":       {},
	"source":       {},
	"target":       {},
	"undirected":   {},
	"node_number":  {},
	"format":       {},
	"seed_method":  {},
	"authors":      {},
	"pmids":        {},
	"nodes":        {},
	"paths_method": {},
	"pipeline":     {},
	"autoload":     {},
}

// IsReservedQueryKey reports whether a query key is reserved and therefore
// never treated as an annotation filter.
func IsReservedQueryKey(key string) bool {
	_, ok := queryBlacklist[key]
	return ok
}

// QueryBlacklist returns the reserved query keys, sorted.
func QueryBlacklist() []string {
	keys := make([]string, 0, len(queryBlacklist))
	for k := range queryBlacklist {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// QueryArgs is the canonical form of a subgraph query: which network, how to
// seed it, which annotation filters to apply, and which nodes to append or
// remove afterwards. GraphID 0 addresses the merged universe.
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

// Copy returns a deep copy of the arguments.
func (a QueryArgs) Copy() QueryArgs {
	out := a
	out.SeedNodes = append([]string(nil), a.SeedNodes...)
	out.Authors = append([]string(nil), a.Authors...)
	out.Pmids = append([]string(nil), a.Pmids...)
	out.Append = append([]string(nil), a.Append...)
	out.Remove = append([]string(nil), a.Remove...)

	if a.Annotations != nil {
		out.Annotations = make(map[string][]string, len(a.Annotations))
		for k, vals := range a.Annotations {
			out.Annotations[k] = append([]string(nil), vals...)
		}
	}

	if a.Extra != nil {
		out.Extra = url.Values{}
		for k, vals := range a.Extra {
			out.Extra[k] = append([]string(nil), vals...)
		}
	}

	return out
}

// Encode renders the arguments as query values in canonical form: multi-value
// fields sorted and deduplicated, annotation keys passed through as-is. Two
// logically equal QueryArgs always encode byte-identically regardless of how
// they were assembled.
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

// EncodeString is the canonical query string: the cache key, the history URL
// form, and the equality token for deduplication.
func (a QueryArgs) EncodeString() string {
	return a.Encode().Encode()
}

// ParseQueryArgs builds QueryArgs from raw query values. Reserved keys map to
// their fields, everything else becomes an annotation filter. Keys that are
// reserved but not part of the pipeline (format, autoload, ...) are ignored
// here and read by their own consumers.
func ParseQueryArgs(v url.Values) (QueryArgs, error) {
	a := QueryArgs{}

	if raw := v.Get("graphid"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return QueryArgs{}, fmt.Errorf("%w: graphid %q", ErrInvalidQuery, raw)
		}
		a.GraphID = id
	}

	a.SeedMethod = v.Get("seed_method")
	a.SeedNodes = dedupSorted(v["nodes"])
	a.Authors = dedupSorted(v["authors"])
	a.Pmids = dedupSorted(v["pmids"])
	a.Append = dedupSorted(v["append"])
	a.Remove = dedupSorted(v["remove"])

	for k, vals := range v {
		if IsReservedQueryKey(k) {
			continue
		}
		if a.Annotations == nil {
			a.Annotations = map[string][]string{}
		}
		a.Annotations[k] = dedupSorted(vals)
	}

	return a, nil
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

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
