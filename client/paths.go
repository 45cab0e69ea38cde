package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// PathService finds paths between nodes of the filtered subgraph.
type PathService struct {
	c *Client
}

// Find searches for paths from source to target within the subgraph selected
// by args. Method is PathsShortest or PathsAll; the empty string means
// shortest. The result is always a list of paths, even for the shortest
// method, where it holds at most one.
func (s *PathService) Find(ctx context.Context, args QueryArgs, source, target, method string, undirected bool) ([][]string, error) {
	params := args.Encode()
	params.Set("source", source)
	params.Set("target", target)
	if method != "" {
		params.Set("paths_method", method)
	}
	if undirected {
		params.Set("undirected", "")
	}

	raw, err := s.c.getRaw(ctx, "/api/paths/", params)
	if err != nil {
		return nil, err
	}

	if method == "" || method == PathsShortest {
		// The shortest method answers one flat path.
		var path []string
		if err := json.Unmarshal(raw, &path); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if len(path) == 0 {
			return nil, nil
		}
		return [][]string{path}, nil
	}

	var paths [][]string
	if err := json.Unmarshal(raw, &paths); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return paths, nil
}
