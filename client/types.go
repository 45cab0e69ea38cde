package client

import (
	"encoding/json"
	"time"
)

// Node is a biological entity as returned by the API. X/Y are simulation
// coordinates; FX/FY are set only while the node is pinned.
type Node struct {
	ID          string   `json:"id"`
	CName       string   `json:"cname"`
	Function    string   `json:"function"`
	Namespace   string   `json:"namespace,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	FX          *float64 `json:"fx,omitempty"`
	FY          *float64 `json:"fy,omitempty"`
}

// Citation identifies the publication an edge was extracted from.
type Citation struct {
	Type      string   `json:"type,omitempty"`
	Reference string   `json:"reference,omitempty"`
	Authors   []string `json:"authors,omitempty"`
}

// Edge is a typed relationship between two node IDs.
type Edge struct {
	Source      string              `json:"source"`
	Target      string              `json:"target"`
	Relation    string              `json:"relation"`
	Evidence    string              `json:"evidence,omitempty"`
	Citation    Citation            `json:"citation"`
	Annotations map[string][]string `json:"annotations,omitempty"`
}

// NodeLinkGraph is the node-link wire form the subgraph endpoint returns.
type NodeLinkGraph struct {
	Nodes []Node `json:"nodes"`
	Links []Edge `json:"links"`
}

// NetworkSummary is one row of the network list.
type NetworkSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

// NetworkInfo describes a single network in detail.
type NetworkInfo struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Nodes     int            `json:"nodes"`
	Edges     int            `json:"edges"`
	Relations map[string]int `json:"relations"`
	Functions map[string]int `json:"functions"`
}

// TreeEntry is one entry of the annotation tree: a key with its observed
// values as children.
type TreeEntry struct {
	Text     string      `json:"text"`
	Children []TreeEntry `json:"children,omitempty"`
}

// Suggestion is one typeahead hit.
type Suggestion struct {
	Text string `json:"text"`
	ID   string `json:"id"`
}

// HealthStatus is the liveness check response.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Networks      int     `json:"networks"`
	Sessions      int     `json:"sessions"`
	Viewers       int     `json:"viewers"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// SessionSnapshot is a point-in-time view of an exploration session.
type SessionSnapshot struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	GraphID    int64     `json:"graph_id"`
	Nodes      int       `json:"nodes"`
	Edges      int       `json:"edges"`
	Frozen     bool      `json:"frozen"`
	Alpha      float64   `json:"alpha"`
	History    []string  `json:"history"`
	LastActive time.Time `json:"last_active"`
}

// Session mutation actions accepted over the WebSocket.
const (
	ActionExpandNode          = "expand_node"
	ActionDeleteNode          = "delete_node"
	ActionApplyTreeSelection  = "apply_tree_selection"
	ActionSubmitFilter        = "submit_filter"
	ActionRefresh             = "refresh"
	ActionRestoreURL          = "restore_url"
	ActionPinNode             = "pin_node"
	ActionUnpinNode           = "unpin_node"
	ActionDragStart           = "drag_start"
	ActionDragMove            = "drag_move"
	ActionDragEnd             = "drag_end"
	ActionFreeze              = "freeze"
	ActionHover               = "hover"
	ActionHoverClear          = "hover_clear"
	ActionSetFocus            = "set_focus"
	ActionSelectNames         = "select_names"
	ActionSelectEdges         = "select_edges"
	ActionHighlightPaths      = "highlight_paths"
	ActionHighlightCentrality = "highlight_centrality"
	ActionClearSelection      = "clear_selection"
	ActionResetOverlays       = "reset_overlays"
)

// Triple addresses an edge in selections.
type Triple struct {
	Source   string `json:"source"`
	Relation string `json:"relation"`
	Target   string `json:"target"`
}

// Command is one session mutation. Fields beyond Action are interpreted per
// action.
type Command struct {
	Action string `json:"action"`

	NodeID string  `json:"node_id,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`

	Key    string   `json:"key,omitempty"`
	Values []string `json:"values,omitempty"`

	GraphID    *int64   `json:"graph_id,omitempty"`
	SeedMethod string   `json:"seed_method,omitempty"`
	SeedNodes  []string `json:"seed_nodes,omitempty"`
	Authors    []string `json:"authors,omitempty"`
	Pmids      []string `json:"pmids,omitempty"`

	Names      []string `json:"names,omitempty"`
	Triples    []Triple `json:"triples,omitempty"`
	HideOthers bool     `json:"hide_others,omitempty"`

	Source     string `json:"source,omitempty"`
	Target     string `json:"target,omitempty"`
	Method     string `json:"method,omitempty"`
	Undirected bool   `json:"undirected,omitempty"`

	K int `json:"k,omitempty"`

	URL string `json:"url,omitempty"`
}

// Message types delivered on the session socket.
const (
	MessageFrame    = "frame"
	MessageGraph    = "graph"
	MessageStyles   = "styles"
	MessageError    = "error"
	MessageWarning  = "warning"
	MessageHistory  = "history"
	MessageReset    = "reset"
	MessageShutdown = "shutdown"
)

// NodePosition is one node's coordinates in a layout frame.
type NodePosition struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pinned bool    `json:"pinned,omitempty"`
}

// ServerMessage is one message from the session socket. Layout frames fill
// Alpha and Positions; sequenced events fill ID, Data and Time.
type ServerMessage struct {
	Type string `json:"type"`

	Alpha     float64        `json:"alpha,omitempty"`
	Positions []NodePosition `json:"positions,omitempty"`

	ID   uint64          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
	Time time.Time       `json:"time,omitempty"`

	// Reason is set on reset notices when replay was not possible.
	Reason string `json:"reason,omitempty"`
}

// IsFrame reports whether the message is a lossy layout frame rather than a
// sequenced event.
func (m *ServerMessage) IsFrame() bool { return m.Type == MessageFrame }

// Glyph describes how an edge is drawn: which marker each end carries and
// whether the line is dashed.
type Glyph struct {
	SourceMarker string `json:"source_marker,omitempty"`
	TargetMarker string `json:"target_marker,omitempty"`
	Dashed       bool   `json:"dashed,omitempty"`
}

// GraphPayload is the data of a "graph" event: the full reconciled render,
// which nodes are new to it, and the glyph for each relation present.
type GraphPayload struct {
	Graph    *NodeLinkGraph   `json:"graph"`
	NewNodes []string         `json:"new_nodes,omitempty"`
	Glyphs   map[string]Glyph `json:"glyphs,omitempty"`
}

// NodeStyle is the view state of one rendered node.
type NodeStyle struct {
	Opacity     float64 `json:"opacity"`
	Hidden      bool    `json:"hidden,omitempty"`
	LabelHidden bool    `json:"label_hidden,omitempty"`
	Color       string  `json:"color,omitempty"`
	RadiusScale float64 `json:"radius_scale"`
}

// EdgeStyle is the view state of one rendered edge, keyed by its triple.
type EdgeStyle struct {
	Opacity float64 `json:"opacity"`
	Hidden  bool    `json:"hidden,omitempty"`
	Color   string  `json:"color,omitempty"`
}

// StylesPayload is the data of a "styles" event: the complete overlay state.
type StylesPayload struct {
	Nodes map[string]NodeStyle `json:"nodes"`
	Edges map[string]EdgeStyle `json:"edges"`
}

// NoticePayload is the data of "error" and "warning" events.
type NoticePayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HistoryPayload is the data of a "history" event: the new canonical URL.
type HistoryPayload struct {
	URL string `json:"url"`
}
