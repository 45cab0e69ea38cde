package api

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/models"
)

// Export formats whose serializers live in the BEL toolchain, not here.
// Asking for one is a client error rather than a missing feature.
var externalFormats = map[string]struct{}{
	"bel":     {},
	"graphml": {},
	"cx":      {},
	"csv":     {},
}

// NetworkHandler serves the network catalog and subgraph queries.
type NetworkHandler struct {
	svc GraphBackend
	log *logrus.Logger
}

// NewNetworkHandler creates a NetworkHandler with the given backend and logger.
func NewNetworkHandler(svc GraphBackend, log *logrus.Logger) *NetworkHandler {
	return &NetworkHandler{svc: svc, log: log}
}

// Query handles GET /api/network/. Reserved query keys drive the pipeline,
// every other key filters edges by annotation. format=bytes answers a gob
// blob instead of JSON.
func (h *NetworkHandler) Query(c *gin.Context) {
	args, ok := bindQueryArgs(c)
	if !ok {
		return
	}

	g, err := h.svc.Subgraph(c.Request.Context(), args)
	if err != nil {
		respondQueryError(c, h.log, "querying subgraph", err)

		return
	}

	// Colliding display names get their function appended so the viewer
	// never shows two indistinguishable nodes.
	models.DisambiguateCNames(g.Nodes)

	switch format := c.Query("format"); format {
	case "", "json":
		c.JSON(http.StatusOK, g)
	case "bytes":
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(g); err != nil {
			h.log.WithError(err).Error("encoding subgraph")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

			return
		}

		c.Header("Content-Disposition", `attachment; filename="graph.gob"`)
		c.Data(http.StatusOK, "application/octet-stream", buf.Bytes())
	default:
		msg := fmt.Sprintf("%s: %q", models.ErrUnsupportedFormat, format)
		if _, external := externalFormats[format]; external {
			msg += " (serialized by the BEL toolchain, not this API)"
		}
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, msg)
	}
}

// List handles GET /api/network/list.
func (h *NetworkHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Networks())
}

// Summary handles GET /api/summary/:id.
func (h *NetworkHandler) Summary(c *gin.Context) {
	graphID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "graph id must be an integer")

		return
	}

	info, err := h.svc.NetworkInfo(graphID)
	if err != nil {
		respondQueryError(c, h.log, "describing network", err)

		return
	}

	c.JSON(http.StatusOK, info)
}
