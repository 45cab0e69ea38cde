package api_test

import (
	"context"

	"github.com/belnav/belnav/internal/models"
)

// mockGraph implements api.GraphBackend for testing.
type mockGraph struct {
	generation   uint64
	networks     []models.NetworkSummary
	infoFn       func(graphID int64) (*models.NetworkInfo, error)
	nodeFn       func(id string) (models.Node, error)
	subgraphFn   func(ctx context.Context, args models.QueryArgs) (*models.NodeLinkGraph, error)
	pathsFn      func(ctx context.Context, args models.QueryArgs, source, target, method string, undirected bool) ([][]string, error)
	centralityFn func(ctx context.Context, args models.QueryArgs, k int) ([]string, error)
	treeFn       func(ctx context.Context, args models.QueryArgs) ([]models.TreeEntry, error)
	lastSearch   string
}

func (m *mockGraph) Generation() uint64 { return m.generation }

func (m *mockGraph) Networks() []models.NetworkSummary { return m.networks }

func (m *mockGraph) NetworkInfo(graphID int64) (*models.NetworkInfo, error) {
	return m.infoFn(graphID)
}

func (m *mockGraph) NodeByID(id string) (models.Node, error) {
	return m.nodeFn(id)
}

func (m *mockGraph) Subgraph(ctx context.Context, args models.QueryArgs) (*models.NodeLinkGraph, error) {
	return m.subgraphFn(ctx, args)
}

func (m *mockGraph) Paths(ctx context.Context, args models.QueryArgs, source, target, method string, undirected bool) ([][]string, error) {
	return m.pathsFn(ctx, args, source, target, method, undirected)
}

func (m *mockGraph) TopCentrality(ctx context.Context, args models.QueryArgs, k int) ([]string, error) {
	return m.centralityFn(ctx, args, k)
}

func (m *mockGraph) Tree(ctx context.Context, args models.QueryArgs) ([]models.TreeEntry, error) {
	return m.treeFn(ctx, args)
}

func (m *mockGraph) SuggestNodes(q string) []models.Suggestion {
	m.lastSearch = q

	return []models.Suggestion{{Text: "APP (Protein)", ID: "app"}}
}

func (m *mockGraph) SuggestAuthors(q string) []models.Suggestion {
	m.lastSearch = q

	return []models.Suggestion{{Text: "Smith J", ID: "0"}}
}

func (m *mockGraph) SuggestPubmeds(q string) []models.Suggestion {
	m.lastSearch = q

	return []models.Suggestion{{Text: "100", ID: "0"}}
}

// fakeProvider is a minimal explore.Provider for session endpoint tests.
type fakeProvider struct{}

func (fakeProvider) Subgraph(_ context.Context, _ models.QueryArgs) (*models.NodeLinkGraph, error) {
	return &models.NodeLinkGraph{
		Nodes: []models.Node{{ID: "app", CName: "APP", Function: models.FunctionProtein}},
		Links: []models.Edge{},
	}, nil
}

func (fakeProvider) Paths(_ context.Context, _ models.QueryArgs, source, target, _ string, _ bool) ([][]string, error) {
	return [][]string{{source, target}}, nil
}

func (fakeProvider) TopCentrality(_ context.Context, _ models.QueryArgs, _ int) ([]string, error) {
	return []string{"app"}, nil
}
