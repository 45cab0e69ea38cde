package explore

import (
	"context"

	"github.com/belnav/belnav/internal/models"
)

// SubgraphProvider answers canonical subgraph queries.
type SubgraphProvider interface {
	Subgraph(ctx context.Context, args models.QueryArgs) (*models.NodeLinkGraph, error)
}

// PathProvider finds paths between two nodes within a filtered graph.
type PathProvider interface {
	Paths(ctx context.Context, args models.QueryArgs, source, target, method string, undirected bool) ([][]string, error)
}

// CentralityProvider ranks the top k nodes of a filtered graph by
// betweenness centrality, best first.
type CentralityProvider interface {
	TopCentrality(ctx context.Context, args models.QueryArgs, k int) ([]string, error)
}

// Provider is everything a session needs from the server side.
type Provider interface {
	SubgraphProvider
	PathProvider
	CentralityProvider
}
