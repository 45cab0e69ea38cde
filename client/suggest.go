package client

import (
	"context"
	"net/url"
)

// SuggestService serves typeahead lookups.
type SuggestService struct {
	c *Client
}

func (s *SuggestService) suggest(ctx context.Context, path, q string) ([]Suggestion, error) {
	params := url.Values{}
	params.Set("search", q)

	var resp []Suggestion
	if err := s.c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Nodes suggests node names matching q, case-insensitively.
func (s *SuggestService) Nodes(ctx context.Context, q string) ([]Suggestion, error) {
	return s.suggest(ctx, "/api/suggestion/nodes/", q)
}

// Authors suggests citation authors matching q.
func (s *SuggestService) Authors(ctx context.Context, q string) ([]Suggestion, error) {
	return s.suggest(ctx, "/api/suggestion/authors/", q)
}

// Pubmeds suggests PubMed references matching q.
func (s *SuggestService) Pubmeds(ctx context.Context, q string) ([]Suggestion, error) {
	return s.suggest(ctx, "/api/suggestion/pubmed/", q)
}
