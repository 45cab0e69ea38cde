package client

import "context"

// TreeService describes the annotation space of a filtered subgraph.
type TreeService struct {
	c *Client
}

// Get returns the annotation tree of the subgraph selected by args: one entry
// per annotation key with the observed values as children.
func (s *TreeService) Get(ctx context.Context, args QueryArgs) ([]TreeEntry, error) {
	var resp []TreeEntry
	if err := s.c.get(ctx, "/api/tree/", args.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Blacklist returns the reserved query keys that are never interpreted as
// annotation filters.
func (s *TreeService) Blacklist(ctx context.Context) ([]string, error) {
	var resp []string
	if err := s.c.get(ctx, "/api/meta/blacklist", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
