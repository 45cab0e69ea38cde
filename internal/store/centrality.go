package store

import (
	"fmt"
	"sort"

	gonetwork "gonum.org/v1/gonum/graph/network"

	"github.com/belnav/belnav/internal/models"
)

// TopCentrality ranks the nodes of the filtered subgraph by betweenness
// centrality and returns the best k, highest first. Ties break on node id so
// equal scores rank stably.
func (s *Store) TopCentrality(args models.QueryArgs, k int) ([]string, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: node_number must be at least 1", models.ErrInvalidQuery)
	}

	g, err := s.Query(args)
	if err != nil {
		return nil, err
	}
	if k > len(g.Nodes) {
		return nil, fmt.Errorf("%w: %d > %d", models.ErrNodeNumberTooLarge, k, len(g.Nodes))
	}

	idx := newGonumIndex(g, false)
	scores := gonetwork.Betweenness(idx.g)

	ranked := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ranked[i] = n.ID
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		si := scores[idx.ids[ranked[i]]]
		sj := scores[idx.ids[ranked[j]]]
		if si != sj {
			return si > sj
		}
		return ranked[i] < ranked[j]
	})
	return ranked[:k], nil
}
