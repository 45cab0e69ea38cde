package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/models"
)

// PathsHandler serves path search and centrality ranking over the filtered
// subgraph.
type PathsHandler struct {
	svc GraphBackend
	log *logrus.Logger
}

// NewPathsHandler creates a PathsHandler with the given backend and logger.
func NewPathsHandler(svc GraphBackend, log *logrus.Logger) *PathsHandler {
	return &PathsHandler{svc: svc, log: log}
}

// Find handles GET /api/paths/. paths_method=shortest answers a single path
// as a flat id list, paths_method=all answers a list of paths. The
// undirected flag is presence-based.
func (h *PathsHandler) Find(c *gin.Context) {
	args, ok := bindQueryArgs(c)
	if !ok {
		return
	}

	source := c.Query("source")
	if source == "" {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, models.ErrMissingSource.Error())

		return
	}

	target := c.Query("target")
	if target == "" {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, models.ErrMissingTarget.Error())

		return
	}

	_, undirected := c.GetQuery("undirected")
	method := c.DefaultQuery("paths_method", models.PathsShortest)

	paths, err := h.svc.Paths(c.Request.Context(), args, source, target, method, undirected)
	if err != nil {
		respondQueryError(c, h.log, "finding paths", err)

		return
	}

	if method == models.PathsShortest {
		if len(paths) == 0 {
			c.JSON(http.StatusOK, []string{})

			return
		}

		c.JSON(http.StatusOK, paths[0])

		return
	}

	c.JSON(http.StatusOK, paths)
}

// Centrality handles GET /api/centrality/?node_number=K.
func (h *PathsHandler) Centrality(c *gin.Context) {
	args, ok := bindQueryArgs(c)
	if !ok {
		return
	}

	k, err := strconv.Atoi(c.Query("node_number"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "node_number must be an integer")

		return
	}

	ranked, err := h.svc.TopCentrality(c.Request.Context(), args, k)
	if err != nil {
		respondQueryError(c, h.log, "ranking centrality", err)

		return
	}

	c.JSON(http.StatusOK, ranked)
}
