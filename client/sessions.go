package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
)

// SessionService manages live exploration sessions.
type SessionService struct {
	c *Client
}

type createSessionRequest struct {
	URL string `json:"url"`
}

// Create starts a new exploration session. A non-empty shareURL restores the
// filter state encoded in a shared exploration link.
func (s *SessionService) Create(ctx context.Context, shareURL string) (*SessionSnapshot, error) {
	var body any
	if shareURL != "" {
		body = createSessionRequest{URL: shareURL}
	}

	var resp SessionSnapshot
	if err := s.c.post(ctx, "/api/sessions", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns the current snapshot of a session.
func (s *SessionService) Get(ctx context.Context, id string) (*SessionSnapshot, error) {
	var resp SessionSnapshot
	if err := s.c.get(ctx, "/api/sessions/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete closes a session and discards its replay buffer.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/api/sessions/"+url.PathEscape(id))
}

// Attach opens the WebSocket feed of a session and subscribes to its events.
// Pass the id of the last event seen to replay missed events after a
// reconnect, or 0 for a fresh subscription. The caller owns the returned
// socket and must Close it.
func (s *SessionService) Attach(ctx context.Context, id string, lastEventID uint64) (*SessionSocket, error) {
	// http.Client.Timeout would kill the hijacked connection mid-session, so
	// the handshake uses an untimed copy.
	hc := &http.Client{Transport: s.c.httpClient.Transport}

	conn, _, err := websocket.Dial(ctx, s.c.baseURL+"/api/sessions/"+url.PathEscape(id)+"/ws", &websocket.DialOptions{
		HTTPClient: hc,
	})
	if err != nil {
		return nil, fmt.Errorf("dial session socket: %w", err)
	}

	sub := struct {
		Type        string `json:"type"`
		LastEventID uint64 `json:"last_event_id"`
	}{Type: "subscribe", LastEventID: lastEventID}

	data, err := json.Marshal(sub)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "subscribe failed") //nolint:errcheck
		return nil, fmt.Errorf("marshal subscribe: %w", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		conn.Close(websocket.StatusInternalError, "subscribe failed") //nolint:errcheck
		return nil, fmt.Errorf("send subscribe: %w", err)
	}

	return &SessionSocket{conn: conn}, nil
}

// SessionSocket is a live connection to one exploration session. It is not
// safe for concurrent use by multiple goroutines per direction; one reader
// and one writer may operate concurrently.
type SessionSocket struct {
	conn *websocket.Conn
}

// Send submits a mutation command to the session.
func (ss *SessionSocket) Send(ctx context.Context, cmd Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	return ss.conn.Write(ctx, websocket.MessageText, data)
}

// Next blocks until the server delivers the next message: a layout frame, a
// sequenced event, or a reset notice.
func (ss *SessionSocket) Next(ctx context.Context) (*ServerMessage, error) {
	_, data, err := ss.conn.Read(ctx)
	if err != nil {
		return nil, err
	}

	var msg ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &msg, nil
}

// Close closes the WebSocket connection.
func (ss *SessionSocket) Close() error {
	return ss.conn.Close(websocket.StatusNormalClosure, "")
}
