package service_test

import (
	"sync"

	"github.com/belnav/belnav/internal/models"
)

// fakeBackend is a hand-rolled Backend recording calls for assertions.
type fakeBackend struct {
	mu         sync.Mutex
	generation uint64
	queryCalls int
	queryFn    func(args models.QueryArgs) (*models.NodeLinkGraph, error)
	pathsCalls int
	lastSource string
	lastTarget string
}

func (b *fakeBackend) setGeneration(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generation = gen
}

func (b *fakeBackend) queryCallCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queryCalls
}

func (b *fakeBackend) Generation() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}

func (b *fakeBackend) Query(args models.QueryArgs) (*models.NodeLinkGraph, error) {
	b.mu.Lock()
	b.queryCalls++
	fn := b.queryFn
	b.mu.Unlock()

	if fn != nil {
		return fn(args)
	}
	return &models.NodeLinkGraph{
		Nodes: []models.Node{{ID: "a", CName: "A", Function: models.FunctionProtein}},
		Links: []models.Edge{},
	}, nil
}

func (b *fakeBackend) Paths(args models.QueryArgs, source, target, method string, undirected bool) ([][]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pathsCalls++
	b.lastSource = source
	b.lastTarget = target
	return [][]string{{source, target}}, nil
}

func (b *fakeBackend) TopCentrality(args models.QueryArgs, k int) ([]string, error) {
	return []string{"a"}, nil
}

func (b *fakeBackend) List() []models.NetworkSummary {
	return []models.NetworkSummary{{ID: 1, Name: "fixture"}}
}

func (b *fakeBackend) Info(graphID int64) (*models.NetworkInfo, error) {
	return &models.NetworkInfo{ID: graphID, Name: "fixture"}, nil
}

func (b *fakeBackend) NodeByID(id string) (models.Node, error) {
	return models.Node{ID: id}, nil
}

func (b *fakeBackend) Tree(args models.QueryArgs) ([]models.TreeEntry, error) {
	return []models.TreeEntry{}, nil
}

func (b *fakeBackend) SuggestNodes(q string) []models.Suggestion {
	return []models.Suggestion{}
}

func (b *fakeBackend) SuggestAuthors(q string) []models.Suggestion {
	return []models.Suggestion{}
}

func (b *fakeBackend) SuggestPubmeds(q string) []models.Suggestion {
	return []models.Suggestion{}
}
