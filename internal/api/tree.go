package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/models"
)

// TreeHandler serves the annotation tree and the reserved-key blacklist.
type TreeHandler struct {
	svc GraphBackend
	log *logrus.Logger
}

// NewTreeHandler creates a TreeHandler with the given backend and logger.
func NewTreeHandler(svc GraphBackend, log *logrus.Logger) *TreeHandler {
	return &TreeHandler{svc: svc, log: log}
}

// Get handles GET /api/tree/. It takes the same query arguments as the
// subgraph endpoint and describes the annotations of the filtered result.
func (h *TreeHandler) Get(c *gin.Context) {
	args, ok := bindQueryArgs(c)
	if !ok {
		return
	}

	entries, err := h.svc.Tree(c.Request.Context(), args)
	if err != nil {
		respondQueryError(c, h.log, "building annotation tree", err)

		return
	}

	c.JSON(http.StatusOK, entries)
}

// Blacklist handles GET /api/meta/blacklist: the query keys the filter UI
// must never offer as annotation names.
func (h *TreeHandler) Blacklist(c *gin.Context) {
	c.JSON(http.StatusOK, models.QueryBlacklist())
}
