package explore

import "github.com/belnav/belnav/internal/models"

// Event types emitted by a session.
const (
	EventGraph   = "graph"
	EventStyles  = "styles"
	EventError   = "error"
	EventWarning = "warning"
	EventHistory = "history"
)

// NodePosition is one node's coordinates in a frame.
type NodePosition struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pinned bool    `json:"pinned,omitempty"`
}

// Frame is a single layout tick: positions only, no graph data. Frames are
// delivered lossily; missing one is harmless because the next supersedes it.
type Frame struct {
	Type      string         `json:"type"`
	Alpha     float64        `json:"alpha"`
	Positions []NodePosition `json:"positions"`
}

// GraphPayload announces a render swap: the full reconciled graph, which
// nodes are new to the view, and the glyph each present relation renders
// with, so clients never hardcode the relation table.
type GraphPayload struct {
	Graph    *models.NodeLinkGraph   `json:"graph"`
	NewNodes []string                `json:"new_nodes,omitempty"`
	Glyphs   map[string]models.Glyph `json:"glyphs,omitempty"`
}

// StylesPayload carries the complete overlay state after any style change.
type StylesPayload struct {
	Nodes map[string]NodeStyle `json:"nodes"`
	Edges map[string]EdgeStyle `json:"edges"`
}

// ErrorPayload surfaces a failed command or provider call. The render the
// user was looking at is untouched.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WarningPayload surfaces an empty-but-valid result.
type WarningPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HistoryPayload announces a new canonical history entry.
type HistoryPayload struct {
	URL string `json:"url"`
}

// Emitter delivers frames and events to a session's subscribers. Frames may
// be dropped under pressure; events may not.
type Emitter interface {
	EmitFrame(sessionID string, frame Frame)
	EmitEvent(sessionID, eventType string, data any)
}
