package api

import (
	"context"

	"github.com/belnav/belnav/internal/explore"
	"github.com/belnav/belnav/internal/models"
)

// GraphBackend defines the query operations used by the read handlers.
type GraphBackend interface {
	Generation() uint64
	Networks() []models.NetworkSummary
	NetworkInfo(graphID int64) (*models.NetworkInfo, error)
	NodeByID(id string) (models.Node, error)
	Subgraph(ctx context.Context, args models.QueryArgs) (*models.NodeLinkGraph, error)
	Paths(ctx context.Context, args models.QueryArgs, source, target, method string, undirected bool) ([][]string, error)
	TopCentrality(ctx context.Context, args models.QueryArgs, k int) ([]string, error)
	Tree(ctx context.Context, args models.QueryArgs) ([]models.TreeEntry, error)
	SuggestNodes(q string) []models.Suggestion
	SuggestAuthors(q string) []models.Suggestion
	SuggestPubmeds(q string) []models.Suggestion
}

// SessionRegistry defines the session lifecycle operations used by SessionHandler.
type SessionRegistry interface {
	Create(restore string) (*explore.Session, error)
	Get(id string) (*explore.Session, bool)
	Close(id string) bool
	Count() int
}
