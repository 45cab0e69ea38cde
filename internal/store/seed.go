package store

import (
	"fmt"
	"sort"

	"github.com/belnav/belnav/internal/models"
)

// seed applies the seed method to an empty workspace. No method selects the
// whole network.
func (w *workspace) seed(args models.QueryArgs) error {
	switch args.SeedMethod {
	case "":
		w.addAll()
		return nil
	case models.SeedInduction:
		return w.seedInduction(args.SeedNodes)
	case models.SeedNeighbors:
		return w.seedNeighbors(args.SeedNodes, true)
	case models.SeedDNeighbors:
		return w.seedNeighbors(args.SeedNodes, false)
	case models.SeedShortestPaths:
		return w.seedShortestPaths(args.SeedNodes)
	case models.SeedProvenance:
		return w.seedProvenance(args.Authors, args.Pmids)
	default:
		return fmt.Errorf("%w: %s", models.ErrUnknownSeedMethod, args.SeedMethod)
	}
}

// seedInduction selects the seed nodes and every edge among them. Unknown
// ids are skipped.
func (w *workspace) seedInduction(ids []string) error {
	for _, id := range ids {
		if w.net.hasNode(id) {
			w.nodes[id] = struct{}{}
		}
	}
	w.induce()
	return nil
}

// seedNeighbors selects the seeds plus their incident edges: both directions,
// or out-edges only for the directed variant. Unknown seeds are an error.
func (w *workspace) seedNeighbors(ids []string, both bool) error {
	for _, id := range ids {
		if !w.net.hasNode(id) {
			return fmt.Errorf("%w: %s", models.ErrNodeNotFound, id)
		}
	}

	for _, id := range ids {
		w.nodes[id] = struct{}{}
		for _, i := range w.net.out[id] {
			w.addEdge(i)
		}
		if both {
			for _, i := range w.net.in[id] {
				w.addEdge(i)
			}
		}
	}
	return nil
}

// seedShortestPaths induces over every node lying on a shortest path from
// any seed, which is exactly the set of nodes reachable from the seeds.
func (w *workspace) seedShortestPaths(ids []string) error {
	for _, id := range ids {
		if !w.net.hasNode(id) {
			return fmt.Errorf("%w: %s", models.ErrNodeNotFound, id)
		}
	}

	for _, id := range ids {
		w.reachableFrom(id)
	}
	w.induce()
	return nil
}

// reachableFrom marks every node reachable from id along directed edges.
// Already-selected nodes terminate the walk, so repeated seeds share work.
func (w *workspace) reachableFrom(id string) {
	w.nodes[id] = struct{}{}
	frontier := []string{id}
	for len(frontier) > 0 {
		var next []string
		for _, cur := range frontier {
			for _, i := range w.net.out[cur] {
				target := w.net.links[i].Target
				if _, ok := w.nodes[target]; ok {
					continue
				}
				w.nodes[target] = struct{}{}
				next = append(next, target)
			}
		}
		frontier = next
	}
}

// seedProvenance selects every edge citing one of the requested publications
// or authors, then expands the neighborhood of each selected node.
func (w *workspace) seedProvenance(authors, pmids []string) error {
	if len(authors) == 0 && len(pmids) == 0 {
		return fmt.Errorf("%w: provenance seed needs authors or pmids", models.ErrInvalidQuery)
	}

	wantPmids := toSet(pmids)
	wantAuthors := toSet(authors)
	for i, e := range w.net.links {
		if citesAny(e.Citation, wantPmids, wantAuthors) {
			w.addEdge(i)
		}
	}

	members := make([]string, 0, len(w.nodes))
	for id := range w.nodes {
		members = append(members, id)
	}
	sort.Strings(members)

	for _, id := range members {
		if err := w.expandNeighborhood(id); err != nil {
			return err
		}
	}
	return nil
}

func citesAny(c models.Citation, pmids, authors map[string]struct{}) bool {
	if _, ok := pmids[c.Reference]; ok {
		return true
	}
	for _, a := range c.Authors {
		if _, ok := authors[a]; ok {
			return true
		}
	}
	return false
}
