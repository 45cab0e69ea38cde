package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
)

// TestSessionSocket drives the WebSocket side of the SDK against a fake
// session endpoint: subscribe on attach, receive a frame and a graph event,
// submit a command.
func TestSessionSocket(t *testing.T) {
	received := make(chan Command, 1)

	mux := http.NewServeMux()
	registerRoutes(mux, map[string]http.HandlerFunc{"GET /api/sessions/s-1/ws": func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		// First message must be the subscription.
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Errorf("read subscribe: %v", err)
			return
		}
		var sub struct {
			Type        string `json:"type"`
			LastEventID uint64 `json:"last_event_id"`
		}
		if err := json.Unmarshal(data, &sub); err != nil || sub.Type != "subscribe" {
			t.Errorf("unexpected first message: %s", data)
			return
		}
		if sub.LastEventID != 7 {
			t.Errorf("last_event_id = %d, want 7", sub.LastEventID)
		}

		frame := `{"type":"frame","alpha":0.5,"positions":[{"id":"app","x":1,"y":2}]}`
		if err := conn.Write(ctx, websocket.MessageText, []byte(frame)); err != nil {
			t.Errorf("write frame: %v", err)
			return
		}

		event := `{"type":"graph","id":8,"data":{"graph":{"nodes":[{"id":"app","cname":"APP","function":"Protein"}],"links":[]},"new_nodes":["app"]},"time":"2026-01-02T15:04:05Z"}`
		if err := conn.Write(ctx, websocket.MessageText, []byte(event)); err != nil {
			t.Errorf("write event: %v", err)
			return
		}

		_, data, err = conn.Read(ctx)
		if err != nil {
			t.Errorf("read command: %v", err)
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			t.Errorf("decode command: %v", err)
			return
		}
		received <- cmd
	}})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sock, err := c.Sessions.Attach(ctx, "s-1", 7)
	if err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
	defer sock.Close() //nolint:errcheck

	msg, err := sock.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if !msg.IsFrame() || msg.Alpha != 0.5 || len(msg.Positions) != 1 {
		t.Errorf("unexpected frame: %+v", msg)
	}

	msg, err = sock.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if msg.Type != MessageGraph || msg.ID != 8 {
		t.Fatalf("unexpected event: %+v", msg)
	}
	var payload GraphPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatalf("decode graph payload: %v", err)
	}
	if len(payload.Graph.Nodes) != 1 || payload.Graph.Nodes[0].ID != "app" {
		t.Errorf("unexpected graph: %+v", payload.Graph)
	}
	if len(payload.NewNodes) != 1 {
		t.Errorf("unexpected new nodes: %v", payload.NewNodes)
	}

	if err := sock.Send(ctx, Command{Action: ActionExpandNode, NodeID: "app"}); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	select {
	case cmd := <-received:
		if cmd.Action != ActionExpandNode || cmd.NodeID != "app" {
			t.Errorf("unexpected command: %+v", cmd)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server never received the command")
	}
}
