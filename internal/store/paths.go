package store

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/path"

	"github.com/belnav/belnav/internal/models"
)

// allPathsCutoff caps simple-path search depth, in edges.
const allPathsCutoff = 7

// Paths finds paths between two nodes of the filtered subgraph described by
// args. The shortest method returns at most one path; all returns every
// simple path up to the cutoff. A missing endpoint is an error, while an
// empty result means both endpoints exist but no path connects them.
func (s *Store) Paths(args models.QueryArgs, source, target, method string, undirected bool) ([][]string, error) {
	g, err := s.Query(args)
	if err != nil {
		return nil, err
	}

	present := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		present[n.ID] = struct{}{}
	}
	if _, ok := present[source]; !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNodeNotFound, source)
	}
	if _, ok := present[target]; !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNodeNotFound, target)
	}

	switch method {
	case "", models.PathsShortest:
		p := shortestPath(g, source, target, undirected)
		if p == nil {
			return [][]string{}, nil
		}
		return [][]string{p}, nil
	case models.PathsAll:
		return simplePaths(g, source, target, undirected, allPathsCutoff), nil
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownPathsMethod, method)
	}
}

// shortestPath runs Dijkstra over the unweighted graph. Nil means no path;
// source equal to target yields the single-node path.
func shortestPath(g *models.NodeLinkGraph, source, target string, undirected bool) []string {
	idx := newGonumIndex(g, undirected)

	tree := path.DijkstraFrom(idx.node(source), idx.g)
	to, _ := idx.id(target)
	hops, _ := tree.To(to)
	if len(hops) == 0 {
		return nil
	}

	out := make([]string, len(hops))
	for i, n := range hops {
		out[i] = idx.label(n.ID())
	}
	return out
}

// simplePaths enumerates every simple path from source to target with at
// most cutoff edges. Neighbors are visited in id order, so the result order
// is stable. The target terminates a path and is never passed through.
func simplePaths(g *models.NodeLinkGraph, source, target string, undirected bool, cutoff int) [][]string {
	adj := make(map[string][]string, len(g.Nodes))
	seen := make(map[[2]string]struct{}, len(g.Links))
	add := func(a, b string) {
		k := [2]string{a, b}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		adj[a] = append(adj[a], b)
	}
	for _, e := range g.Links {
		add(e.Source, e.Target)
		if undirected {
			add(e.Target, e.Source)
		}
	}
	for id := range adj {
		sort.Strings(adj[id])
	}

	out := [][]string{}
	pathBuf := []string{source}
	onPath := map[string]struct{}{source: {}}

	var walk func(cur string)
	walk = func(cur string) {
		for _, nb := range adj[cur] {
			if nb == target {
				if len(pathBuf) <= cutoff {
					p := make([]string, len(pathBuf)+1)
					copy(p, pathBuf)
					p[len(pathBuf)] = target
					out = append(out, p)
				}
				continue
			}
			if _, ok := onPath[nb]; ok {
				continue
			}
			if len(pathBuf) >= cutoff {
				continue
			}
			onPath[nb] = struct{}{}
			pathBuf = append(pathBuf, nb)
			walk(nb)
			pathBuf = pathBuf[:len(pathBuf)-1]
			delete(onPath, nb)
		}
	}
	walk(source)
	return out
}
