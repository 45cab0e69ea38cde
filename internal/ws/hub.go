// Package ws implements the WebSocket hub that delivers session events and
// layout frames to connected viewers.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/explore"
	"github.com/belnav/belnav/internal/metrics"
)

// Hub channel buffer sizes.
const (
	broadcastBuffer = 256
	registerBuffer  = 64
)

// Connection caps. A session can have several viewers (shared exploration),
// but not unboundedly many.
const (
	maxConnections        = 1000
	maxSessionConnections = 16
)

// sessionBroadcast is sent through the broadcast channel to the Run
// goroutine. Lossy messages (layout frames) are dropped rather than queued
// when a client falls behind; reliable messages disconnect the laggard so it
// reconnects and replays.
type sessionBroadcast struct {
	sessionID string
	msg       []byte
	lossy     bool
}

// Hub manages active WebSocket clients and routes session traffic to them.
// All client map mutations happen exclusively in the Run goroutine.
type Hub struct {
	clients      map[*Client]bool
	sessionCount map[string]int
	register     chan *Client
	unregister   chan *Client
	broadcast    chan sessionBroadcast
	shutdown     chan struct{} // signals Run to begin graceful drain
	done         chan struct{} // closed when Run has finished draining
	count        atomic.Int64
	log          *logrus.Logger
	seq          *EventSequence
	buffer       *EventBuffer
}

// The hub is the delivery side of every exploration session.
var _ explore.Emitter = (*Hub)(nil)

// NewHub creates a new Hub instance.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		sessionCount: make(map[string]int),
		register:     make(chan *Client, registerBuffer),
		unregister:   make(chan *Client, registerBuffer),
		broadcast:    make(chan sessionBroadcast, broadcastBuffer),
		shutdown:     make(chan struct{}),
		done:         make(chan struct{}),
		log:          log,
		seq:          NewEventSequence(),
		buffer:       NewEventBuffer(defaultBufferMaxLen, defaultBufferMaxAge),
	}
}

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// Run starts the hub event loop. It should be run as a goroutine.
// It exits when Shutdown is called or the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.drainClients()
			return
		case <-h.shutdown:
			h.drainClients()
			return

		case client := <-h.register:
			if len(h.clients) >= maxConnections {
				h.log.Warn("global connection limit reached, dropping client")
				client.closeSend()
				continue
			}
			if h.sessionCount[client.SessionID] >= maxSessionConnections {
				h.log.WithField("session_id", client.SessionID).Warn("per-session connection limit reached, dropping client")
				client.closeSend()
				continue
			}
			h.clients[client] = true
			h.sessionCount[client.SessionID]++
			h.count.Store(int64(len(h.clients)))
			metrics.WSConnections.Set(float64(len(h.clients)))
			h.log.WithFields(logrus.Fields{
				"session_id": client.SessionID,
				"total":      len(h.clients),
			}).Info("viewer connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.dropClient(client)
			}
			h.count.Store(int64(len(h.clients)))
			metrics.WSConnections.Set(float64(len(h.clients)))
			h.log.WithField("total", len(h.clients)).Info("viewer disconnected")

		case b := <-h.broadcast:
			for client := range h.clients {
				if client.SessionID != b.sessionID {
					continue
				}
				select {
				case client.send <- b.msg:
				default:
					if b.lossy {
						metrics.FramesDropped.Inc()
						continue
					}
					// A viewer too slow for reliable events reconnects and
					// replays from its last event id.
					h.dropClient(client)
				}
			}
			h.count.Store(int64(len(h.clients)))
		}
	}
}

// dropClient removes a client from the maps. Run goroutine only.
func (h *Hub) dropClient(client *Client) {
	delete(h.clients, client)
	client.closeSend()
	h.sessionCount[client.SessionID]--
	if h.sessionCount[client.SessionID] <= 0 {
		delete(h.sessionCount, client.SessionID)
	}
}

// EmitFrame delivers a layout tick to the session's viewers. Frames are
// lossy end to end: a full broadcast channel or a full client buffer drops
// the frame, and the next tick supersedes it.
func (h *Hub) EmitFrame(sessionID string, frame explore.Frame) {
	msg, err := json.Marshal(frame)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal frame")
		return
	}

	select {
	case h.broadcast <- sessionBroadcast{sessionID: sessionID, msg: msg, lossy: true}:
	default:
		metrics.FramesDropped.Inc()
	}
}

// EmitEvent assigns a sequence id, stores the event for replay, and delivers
// it to the session's viewers.
func (h *Hub) EmitEvent(sessionID, eventType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.log.WithError(err).WithField("type", eventType).Error("failed to marshal event payload")
		return
	}

	evt := Event{
		Type:      eventType,
		ID:        h.seq.Next(sessionID),
		SessionID: sessionID,
		Data:      raw,
		Time:      time.Now(),
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")
		return
	}

	h.buffer.Append(sessionID, &evt)

	select {
	case h.broadcast <- sessionBroadcast{sessionID: sessionID, msg: msg}:
	default:
		h.log.WithField("session_id", sessionID).Warn("broadcast channel full, dropping event")
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
		// Run loop already exited; client cleanup happened in Run shutdown.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// DropSession discards buffered replay state for a closed session.
func (h *Hub) DropSession(sessionID string) {
	h.buffer.Drop(sessionID)
}

// Shutdown initiates a graceful WebSocket drain: notifies every connected
// client, waits for their write pumps to flush, then closes all connections.
// It blocks until drain is complete or the timeout expires.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

// drainClients sends a shutdown notice to every client and waits for send
// buffers to flush.
func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining WebSocket clients")

	shutdownMsg := []byte(`{"type":"shutdown","message":"server shutting down"}`)
	for client := range h.clients {
		select {
		case client.send <- shutdownMsg:
		default:
		}
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		allDrained := true
		for client := range h.clients {
			if len(client.send) > 0 {
				allDrained = false
				break
			}
		}
		if allDrained {
			break
		}

		select {
		case <-deadline:
			h.log.Warn("WebSocket drain timeout, closing remaining clients")
			goto closeAll
		case <-ticker.C:
		}
	}

closeAll:
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}

	h.sessionCount = make(map[string]int)
	h.count.Store(0)
	metrics.WSConnections.Set(0)
}

// ReplayEvents sends buffered events since lastEventID to the client.
// Returns false if the requested id is too old (no longer in the buffer).
func (h *Hub) ReplayEvents(client *Client, lastEventID uint64) bool {
	oldest := h.buffer.OldestID(client.SessionID)
	if oldest > 0 && lastEventID > 0 && lastEventID < oldest {
		return false
	}

	events := h.buffer.Since(client.SessionID, lastEventID)
	for _, evt := range events {
		msg, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		select {
		case client.send <- msg:
		default:
			return true // channel full, stop replay
		}
	}
	return true
}
