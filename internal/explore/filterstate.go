// Package explore implements the interactive exploration engine: canonical
// filter state, render state with position continuity, reversible style
// overlays, and the session actor that ties them to a layout simulation.
package explore

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/belnav/belnav/internal/models"
)

// Seed describes how a subgraph query is seeded before filtering.
type Seed struct {
	Method  string
	Nodes   []string
	Authors []string
	Pmids   []string
}

// FilterState is the single authority on "what subgraph is requested":
// network id, seed, annotation tree selection, and the pending expand/delete
// marks. Everything it does not interpret is preserved and passed through.
// It never talks to the network itself.
type FilterState struct {
	graphID int64
	seed    Seed

	tree      map[string]map[string]struct{}
	appendIDs map[string]struct{}
	removeIDs map[string]struct{}

	extra url.Values
}

// NewFilterState returns an empty filter over the merged universe.
func NewFilterState() *FilterState {
	return &FilterState{
		tree:      map[string]map[string]struct{}{},
		appendIDs: map[string]struct{}{},
		removeIDs: map[string]struct{}{},
		extra:     url.Values{},
	}
}

// SetGraph switches the network the filter addresses. Zero is the merged
// universe.
func (f *FilterState) SetGraph(id int64) { f.graphID = id }

// GraphID returns the addressed network id.
func (f *FilterState) GraphID() int64 { return f.graphID }

// SetSeed replaces the whole seed.
func (f *FilterState) SetSeed(s Seed) {
	f.seed = Seed{
		Method:  s.Method,
		Nodes:   append([]string(nil), s.Nodes...),
		Authors: append([]string(nil), s.Authors...),
		Pmids:   append([]string(nil), s.Pmids...),
	}
}

// Seed returns a copy of the current seed.
func (f *FilterState) Seed() Seed {
	return Seed{
		Method:  f.seed.Method,
		Nodes:   append([]string(nil), f.seed.Nodes...),
		Authors: append([]string(nil), f.seed.Authors...),
		Pmids:   append([]string(nil), f.seed.Pmids...),
	}
}

// ApplyTreeSelection replaces the selected values for an annotation key.
// An empty value set removes the key entirely, so deselecting everything
// leaves no trace in the query.
func (f *FilterState) ApplyTreeSelection(key string, values []string) {
	if len(values) == 0 {
		delete(f.tree, key)
		return
	}

	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	f.tree[key] = set
}

// TreeSelection returns the annotation selection with sorted values.
func (f *FilterState) TreeSelection() map[string][]string {
	out := make(map[string][]string, len(f.tree))
	for k, set := range f.tree {
		vals := make([]string, 0, len(set))
		for v := range set {
			vals = append(vals, v)
		}
		sort.Strings(vals)
		out[k] = vals
	}
	return out
}

// MarkExpand marks a node for neighborhood expansion on the next query.
// A pending delete for the same node is withdrawn: the last action wins.
func (f *FilterState) MarkExpand(id string) {
	delete(f.removeIDs, id)
	f.appendIDs[id] = struct{}{}
}

// MarkDelete marks a node for removal on the next query, withdrawing any
// pending expand for it.
func (f *FilterState) MarkDelete(id string) {
	delete(f.appendIDs, id)
	f.removeIDs[id] = struct{}{}
}

// PendingExpand returns the ids marked for expansion, sorted.
func (f *FilterState) PendingExpand() []string { return sortedSet(f.appendIDs) }

// PendingDelete returns the ids marked for removal, sorted.
func (f *FilterState) PendingDelete() []string { return sortedSet(f.removeIDs) }

// ResetPending clears the expand/delete marks. The tree selection and seed
// are untouched: pending marks are one-shot, filters are durable.
func (f *FilterState) ResetPending() {
	f.appendIDs = map[string]struct{}{}
	f.removeIDs = map[string]struct{}{}
}

// QueryArgs renders the state in canonical query form.
func (f *FilterState) QueryArgs() models.QueryArgs {
	args := models.QueryArgs{
		GraphID:    f.graphID,
		SeedMethod: f.seed.Method,
		SeedNodes:  append([]string(nil), f.seed.Nodes...),
		Authors:    append([]string(nil), f.seed.Authors...),
		Pmids:      append([]string(nil), f.seed.Pmids...),
		Append:     sortedSet(f.appendIDs),
		Remove:     sortedSet(f.removeIDs),
	}

	if len(f.tree) > 0 {
		args.Annotations = f.TreeSelection()
	}

	if len(f.extra) > 0 {
		args.Extra = url.Values{}
		for k, vals := range f.extra {
			args.Extra[k] = append([]string(nil), vals...)
		}
	}

	return args
}

// EncodeString is the canonical query string for the current state.
func (f *FilterState) EncodeString() string {
	return f.QueryArgs().EncodeString()
}

// Clone returns an independent copy.
func (f *FilterState) Clone() *FilterState {
	out := NewFilterState()
	out.graphID = f.graphID
	out.seed = f.Seed()

	for k, set := range f.tree {
		cp := make(map[string]struct{}, len(set))
		for v := range set {
			cp[v] = struct{}{}
		}
		out.tree[k] = cp
	}
	for id := range f.appendIDs {
		out.appendIDs[id] = struct{}{}
	}
	for id := range f.removeIDs {
		out.removeIDs[id] = struct{}{}
	}
	for k, vals := range f.extra {
		out.extra[k] = append([]string(nil), vals...)
	}

	return out
}

// Keys consumed by other layers and never stored in filter state.
var filterConsumedKeys = map[string]struct{}{
	"autoload": {},
	"format":   {},
}

// ParseFilterState reconstructs filter state from raw query values, the
// inverse of QueryArgs().Encode(). Reserved keys the filter does not model
// are preserved as pass-through extras; autoload and format belong to their
// own consumers and are dropped.
func ParseFilterState(v url.Values) (*FilterState, error) {
	args, err := models.ParseQueryArgs(v)
	if err != nil {
		return nil, err
	}

	f := NewFilterState()
	f.graphID = args.GraphID
	f.seed = Seed{
		Method:  args.SeedMethod,
		Nodes:   args.SeedNodes,
		Authors: args.Authors,
		Pmids:   args.Pmids,
	}

	for k, vals := range args.Annotations {
		f.ApplyTreeSelection(k, vals)
	}
	for _, id := range args.Append {
		f.MarkExpand(id)
	}
	for _, id := range args.Remove {
		f.MarkDelete(id)
	}

	for k, vals := range v {
		if !models.IsReservedQueryKey(k) {
			continue
		}
		if _, consumed := filterConsumedKeys[k]; consumed {
			continue
		}
		switch k {
		case "graphid", "seed_method", "nodes", "authors", "pmids", "append", "remove":
			continue
		}
		f.extra[k] = append([]string(nil), vals...)
	}

	return f, nil
}

// ParseFilterURL accepts either a bare canonical query string or a full URL
// and parses its query part.
func ParseFilterURL(raw string) (*FilterState, url.Values, error) {
	query := raw
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		query = raw[i+1:]
	}

	v, err := url.ParseQuery(query)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", models.ErrInvalidQuery, err)
	}

	f, err := ParseFilterState(v)
	if err != nil {
		return nil, nil, err
	}

	return f, v, nil
}

func sortedSet(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
