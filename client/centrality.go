package client

import (
	"context"
	"strconv"
)

// CentralityService ranks nodes of the filtered subgraph by betweenness.
type CentralityService struct {
	c *Client
}

// TopK returns the ids of the k most central nodes of the subgraph selected
// by args, most central first.
func (s *CentralityService) TopK(ctx context.Context, args QueryArgs, k int) ([]string, error) {
	params := args.Encode()
	params.Set("node_number", strconv.Itoa(k))

	var ranked []string
	if err := s.c.get(ctx, "/api/centrality/", params, &ranked); err != nil {
		return nil, err
	}
	return ranked, nil
}
