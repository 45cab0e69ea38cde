package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SuggestHandler serves typeahead endpoints for the filter UI.
type SuggestHandler struct {
	svc GraphBackend
	log *logrus.Logger
}

// NewSuggestHandler creates a SuggestHandler with the given backend and logger.
func NewSuggestHandler(svc GraphBackend, log *logrus.Logger) *SuggestHandler {
	return &SuggestHandler{svc: svc, log: log}
}

// Nodes handles GET /api/suggestion/nodes/?search=.
func (h *SuggestHandler) Nodes(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.SuggestNodes(c.Query("search")))
}

// Authors handles GET /api/suggestion/authors/?search=.
func (h *SuggestHandler) Authors(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.SuggestAuthors(c.Query("search")))
}

// Pubmeds handles GET /api/suggestion/pubmed/?search=.
func (h *SuggestHandler) Pubmeds(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.SuggestPubmeds(c.Query("search")))
}
