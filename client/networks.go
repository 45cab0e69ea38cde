package client

import (
	"context"
	"net/url"
	"strconv"
)

// NetworkService handles network listing and filtered subgraph queries.
type NetworkService struct {
	c *Client
}

// Subgraph runs the query pipeline and returns the filtered subgraph.
func (s *NetworkService) Subgraph(ctx context.Context, args QueryArgs) (*NodeLinkGraph, error) {
	var resp NodeLinkGraph
	if err := s.c.get(ctx, "/api/network/", args.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Export runs the query pipeline and returns the result serialized in the
// given format as raw bytes. The server answers 400 for formats it does not
// serialize itself.
func (s *NetworkService) Export(ctx context.Context, args QueryArgs, format string) ([]byte, error) {
	params := args.Encode()
	params.Set("format", format)
	return s.c.getRaw(ctx, "/api/network/", params)
}

// List returns a summary row for every loaded network.
func (s *NetworkService) List(ctx context.Context) ([]NetworkSummary, error) {
	var resp []NetworkSummary
	if err := s.c.get(ctx, "/api/network/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Summary returns detailed information about one network. ID 0 addresses the
// merged universe.
func (s *NetworkService) Summary(ctx context.Context, id int64) (*NetworkInfo, error) {
	var resp NetworkInfo
	if err := s.c.get(ctx, "/api/summary/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Node fetches a single node by its id.
func (s *NetworkService) Node(ctx context.Context, id string) (*Node, error) {
	var resp Node
	if err := s.c.get(ctx, "/api/nodes/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
