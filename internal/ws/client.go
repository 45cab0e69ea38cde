package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/explore"
)

const (
	writeTimeout     = 10 * time.Second
	wsReadLimit      = 1 << 16 // commands carry node id lists, so well above a bare message
	clientSendBuffer = 256
	pingInterval     = 30 * time.Second
	pingTimeout      = 10 * time.Second
	maxMissedPongs   = int32(2)
)

// CommandSink receives the commands a viewer sends over the socket. An
// exploration session is the usual sink.
type CommandSink interface {
	Submit(cmd explore.Command) error
}

// Client wraps a single WebSocket connection managed by the Hub.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	log       *logrus.Logger
	SessionID string
	sink      CommandSink
	closeOnce sync.Once
}

// closeSend safely closes the send channel exactly once.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// NewClient creates a new Client for the given WebSocket connection.
func NewClient(hub *Hub, conn *websocket.Conn, sessionID string, sink CommandSink) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, clientSendBuffer),
		log:       hub.log,
		SessionID: sessionID,
		sink:      sink,
	}
}

// ReadPump reads messages from the WebSocket connection until it closes.
// A subscribe message triggers event replay; everything else is parsed as a
// session command.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown
	}()

	c.conn.SetReadLimit(wsReadLimit)

	for {
		_, msgBytes, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.log.WithField("status", websocket.CloseStatus(err)).Debug("viewer disconnected")
			}

			return
		}

		if !c.handleMessage(msgBytes) {
			return
		}
	}
}

// handleMessage processes an incoming viewer message. It returns false when
// the connection should close.
func (c *Client) handleMessage(msgBytes []byte) bool {
	var probe struct {
		Type        string `json:"type"`
		LastEventID uint64 `json:"last_event_id"`
	}
	if err := json.Unmarshal(msgBytes, &probe); err != nil {
		return true
	}

	if probe.Type == "subscribe" {
		if !c.hub.ReplayEvents(c, probe.LastEventID) {
			resetMsg, err := json.Marshal(ResetMsg{
				Type:   "reset",
				Reason: "requested events no longer available, perform full refresh",
			})
			if err != nil {
				return true
			}
			select {
			case c.send <- resetMsg:
			default:
			}
		}
		return true
	}

	if c.sink == nil {
		return true
	}

	var cmd explore.Command
	if err := json.Unmarshal(msgBytes, &cmd); err != nil {
		return true
	}

	if err := c.sink.Submit(cmd); err != nil {
		// The session is gone; the socket has nothing left to serve.
		c.log.WithError(err).Debug("command rejected, closing viewer")
		c.conn.Close(websocket.StatusGoingAway, "session closed") //nolint:errcheck // best-effort
		return false
	}
	return true
}

// sendPing sends a WebSocket ping and tracks missed pongs.
// Returns true if the connection should be closed.
func (c *Client) sendPing(ctx context.Context, missedPongs *atomic.Int32) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := c.conn.Ping(pingCtx)
	cancel()

	if err != nil {
		if missedPongs.Add(1) >= maxMissedPongs {
			c.log.Debug("closing: 2 consecutive missed pongs")

			return true
		}

		return false
	}

	missedPongs.Store(0)

	return false
}

// WritePump writes messages from the send channel to the WebSocket
// connection, pinging periodically to detect dead viewers.
func (c *Client) WritePump(ctx context.Context) {
	defer c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	var missedPongs atomic.Int32

	for {
		select {
		case <-pingTicker.C:
			if c.sendPing(ctx, &missedPongs) {
				return
			}
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()

			if err != nil {
				c.log.WithError(err).Debug("write failed")

				return
			}
		}
	}
}
