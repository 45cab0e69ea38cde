package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/middleware"
	"github.com/belnav/belnav/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Graph       GraphBackend
	Sessions    SessionRegistry
	Hub         *ws.Hub
	CORSOrigins []string
	Version     string
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB; the API only takes small JSON bodies
	rateLimit   = 100     // requests per second per IP
	rateBurst   = 200     // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())
}

// registerRoutes sets up all route handlers on the engine.
func registerRoutes(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Graph, deps.Sessions, deps.Hub, log, deps.Version)
	networks := NewNetworkHandler(deps.Graph, log)
	nodes := NewNodeHandler(deps.Graph, log)
	tree := NewTreeHandler(deps.Graph, log)
	paths := NewPathsHandler(deps.Graph, log)
	suggest := NewSuggestHandler(deps.Graph, log)
	sessions := NewSessionHandler(deps.Sessions, deps.Hub, deps.CORSOrigins, log)

	// Probes and metrics live outside the API group.
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Networks and subgraph queries.
	api.GET("/network/", networks.Query)
	api.GET("/network/list", networks.List)
	api.GET("/summary/:id", networks.Summary)

	// Filtered-graph analysis.
	api.GET("/tree/", tree.Get)
	api.GET("/meta/blacklist", tree.Blacklist)
	api.GET("/paths/", paths.Find)
	api.GET("/centrality/", paths.Centrality)

	// Node lookup and typeahead.
	api.GET("/nodes/:id", nodes.Get)
	api.GET("/suggestion/nodes/", suggest.Nodes)
	api.GET("/suggestion/authors/", suggest.Authors)
	api.GET("/suggestion/pubmed/", suggest.Pubmeds)

	// Exploration sessions.
	api.POST("/sessions", sessions.Create)
	api.GET("/sessions/:id", sessions.Get)
	api.DELETE("/sessions/:id", sessions.Delete)
	api.GET("/sessions/:id/ws", sessions.Attach(ctx))
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r, deps)

	return r
}
