package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/models"
)

// NodeHandler serves node lookups against the merged universe.
type NodeHandler struct {
	svc GraphBackend
	log *logrus.Logger
}

// NewNodeHandler creates a NodeHandler with the given backend and logger.
func NewNodeHandler(svc GraphBackend, log *logrus.Logger) *NodeHandler {
	return &NodeHandler{svc: svc, log: log}
}

// Get handles GET /api/nodes/:id.
func (h *NodeHandler) Get(c *gin.Context) {
	nodeID := c.Param("id")
	if err := validatePathID(nodeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	node, err := h.svc.NodeByID(nodeID)
	if err != nil {
		if errors.Is(err, models.ErrNodeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "node not found")

			return
		}

		h.log.WithError(err).Error("getting node")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, node)
}
