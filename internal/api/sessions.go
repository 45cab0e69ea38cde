package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/explore"
	"github.com/belnav/belnav/internal/ws"
)

// SessionHandler serves the exploration session lifecycle: create, inspect,
// close, and attach a WebSocket viewer.
type SessionHandler struct {
	registry    SessionRegistry
	hub         *ws.Hub
	log         *logrus.Logger
	corsOrigins []string
}

// NewSessionHandler creates a SessionHandler with the given dependencies.
func NewSessionHandler(registry SessionRegistry, hub *ws.Hub, corsOrigins []string, log *logrus.Logger) *SessionHandler {
	return &SessionHandler{registry: registry, hub: hub, corsOrigins: corsOrigins, log: log}
}

type createSessionRequest struct {
	URL string `json:"url"`
}

// Create handles POST /api/sessions. An optional url in the body restores the
// filter state encoded in a shared exploration link.
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

			return
		}
	}

	s, err := h.registry.Create(req.URL)
	if err != nil {
		h.log.WithError(err).Error("creating session")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	snap, err := s.Snapshot(c.Request.Context())
	if err != nil {
		respondQueryError(c, h.log, "reading session", err)

		return
	}

	h.log.WithFields(logrus.Fields{"session_id": s.ID(), "restored": req.URL != ""}).Info("session created")

	c.JSON(http.StatusCreated, snap)
}

// Get handles GET /api/sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := h.registry.Get(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "session not found")

		return
	}

	snap, err := s.Snapshot(c.Request.Context())
	if err != nil {
		if errors.Is(err, explore.ErrSessionClosed) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "session closed")

			return
		}

		respondQueryError(c, h.log, "reading session", err)

		return
	}

	c.JSON(http.StatusOK, snap)
}

// Delete handles DELETE /api/sessions/:id.
func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !h.registry.Close(id) {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "session not found")

		return
	}

	// Replayable events die with the session.
	h.hub.DropSession(id)

	h.log.WithField("session_id", id).Info("session closed")

	c.Status(http.StatusNoContent)
}

// Attach returns the WebSocket upgrade handler for GET /api/sessions/:id/ws.
// The connection outlives the HTTP request, so it is anchored to the server
// context: shutdown, session close, or request end all tear it down.
func (h *SessionHandler) Attach(appCtx context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		s, ok := h.registry.Get(id)
		if !ok {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "session not found")

			return
		}

		// CORS origins are reused as WebSocket origin patterns. The config
		// validator ensures these are safe host patterns (no wildcards etc.).
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns:       h.corsOrigins,
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			h.log.WithError(err).Error("websocket accept failed")

			return
		}

		client := ws.NewClient(h.hub, conn, id, s)
		h.hub.Register(client)

		wsCtx, wsCancel := context.WithCancel(appCtx)
		go func() {
			select {
			case <-c.Request.Context().Done():
				wsCancel()
			case <-s.Done():
				wsCancel()
			case <-wsCtx.Done():
			}
		}()

		go client.WritePump(wsCtx)
		client.ReadPump(wsCtx)
		wsCancel()
	}
}
