// Package service provides business logic between the transport layers and
// the store: query caching, context handling, and logging.
package service

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/belnav/belnav/internal/explore"
	"github.com/belnav/belnav/internal/metrics"
	"github.com/belnav/belnav/internal/models"
	"github.com/belnav/belnav/internal/store"
)

// Backend is the query engine GraphService depends on.
type Backend interface {
	Generation() uint64
	List() []models.NetworkSummary
	Info(graphID int64) (*models.NetworkInfo, error)
	NodeByID(id string) (models.Node, error)
	Query(args models.QueryArgs) (*models.NodeLinkGraph, error)
	Paths(args models.QueryArgs, source, target, method string, undirected bool) ([][]string, error)
	TopCentrality(args models.QueryArgs, k int) ([]string, error)
	Tree(args models.QueryArgs) ([]models.TreeEntry, error)
	SuggestNodes(q string) []models.Suggestion
	SuggestAuthors(q string) []models.Suggestion
	SuggestPubmeds(q string) []models.Suggestion
}

// Compile-time checks: the store satisfies Backend, and GraphService can
// feed exploration sessions.
var (
	_ Backend          = (*store.Store)(nil)
	_ explore.Provider = (*GraphService)(nil)
)

// GraphService answers subgraph queries with an LRU cache in front of the
// backend. Cache keys carry the catalog generation, so a data reload
// invalidates every cached result at once. Concurrent misses on the same key
// collapse into a single backend computation.
type GraphService struct {
	backend Backend
	cache   *lru.Cache[string, *models.NodeLinkGraph]
	group   singleflight.Group
	log     *logrus.Logger
}

// NewGraphService creates a GraphService holding at most cacheSize query
// results.
func NewGraphService(backend Backend, cacheSize int, log *logrus.Logger) (*GraphService, error) {
	cache, err := lru.New[string, *models.NodeLinkGraph](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating query cache: %w", err)
	}
	return &GraphService{backend: backend, cache: cache, log: log}, nil
}

// Subgraph resolves a canonical subgraph query, serving repeats from cache.
// Callers always receive a private copy, so rendered positions never leak
// into cached entries.
func (s *GraphService) Subgraph(ctx context.Context, args models.QueryArgs) (*models.NodeLinkGraph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%d|%s", s.backend.Generation(), args.EncodeString())
	if g, ok := s.cache.Get(key); ok {
		metrics.QueryCacheHits.Inc()
		s.log.WithField("key", key).Debug("query cache hit")
		return g.Copy(), nil
	}
	metrics.QueryCacheMisses.Inc()

	val, err, _ := s.group.Do(key, func() (any, error) {
		// Double-check the cache after winning the singleflight race.
		if g, ok := s.cache.Get(key); ok {
			return g, nil
		}
		g, err := s.backend.Query(args)
		if err != nil {
			return nil, err
		}
		s.cache.Add(key, g)
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*models.NodeLinkGraph).Copy(), nil
}

// Paths finds paths between two nodes of the filtered subgraph.
func (s *GraphService) Paths(ctx context.Context, args models.QueryArgs, source, target, method string, undirected bool) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"source":     source,
		"target":     target,
		"method":     method,
		"undirected": undirected,
	}).Debug("paths query")

	return s.backend.Paths(args, source, target, method, undirected)
}

// TopCentrality ranks the filtered subgraph's nodes by betweenness
// centrality, best first.
func (s *GraphService) TopCentrality(ctx context.Context, args models.QueryArgs, k int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.WithField("k", k).Debug("centrality query")

	return s.backend.TopCentrality(args, k)
}

// Generation identifies the loaded catalog. It changes on every data reload.
func (s *GraphService) Generation() uint64 {
	return s.backend.Generation()
}

// Networks lists the loaded networks.
func (s *GraphService) Networks() []models.NetworkSummary {
	return s.backend.List()
}

// NetworkInfo describes one network.
func (s *GraphService) NetworkInfo(graphID int64) (*models.NetworkInfo, error) {
	return s.backend.Info(graphID)
}

// NodeByID looks a node up in the universe.
func (s *GraphService) NodeByID(id string) (models.Node, error) {
	return s.backend.NodeByID(id)
}

// Tree builds the annotation tree of the filtered subgraph.
func (s *GraphService) Tree(ctx context.Context, args models.QueryArgs) ([]models.TreeEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.backend.Tree(args)
}

// SuggestNodes matches node display labels by substring.
func (s *GraphService) SuggestNodes(q string) []models.Suggestion {
	return s.backend.SuggestNodes(q)
}

// SuggestAuthors matches citation authors by substring.
func (s *GraphService) SuggestAuthors(q string) []models.Suggestion {
	return s.backend.SuggestAuthors(q)
}

// SuggestPubmeds matches PubMed identifiers by substring.
func (s *GraphService) SuggestPubmeds(q string) []models.Suggestion {
	return s.backend.SuggestPubmeds(q)
}
