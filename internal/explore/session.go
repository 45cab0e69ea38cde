package explore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/layout"
	"github.com/belnav/belnav/internal/metrics"
	"github.com/belnav/belnav/internal/models"
)

// Mutation protocol actions.
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
	ActionClearSelection      = "clear_selection"
	ActionHighlightPaths      = "highlight_paths"
	ActionHighlightCentrality = "highlight_centrality"
	ActionResetOverlays       = "reset_overlays"
)

// Command is one mutation of session state. Fields beyond Action are
// interpreted per action; unknown actions produce an error event instead of
// touching anything.
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

// Snapshot is a point-in-time view of a session for the REST surface.
type Snapshot struct {
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

// ErrSessionClosed is returned when submitting to a finished session.
var ErrSessionClosed = errors.New("session closed")

const (
	defaultTickEvery = 33 * time.Millisecond
	commandBuffer    = 64
	resultBuffer     = 8
	autoloadParam    = "autoload"
	autoloadEnabled  = "yes"
)

type fetchKind int

const (
	fetchSubgraph fetchKind = iota
	fetchPaths
	fetchCentrality
)

type fetchResult struct {
	kind   fetchKind
	gen    uint64
	args   models.QueryArgs
	graph  *models.NodeLinkGraph
	paths  [][]string
	ranked []string
	err    error
}

// SessionConfig assembles a session.
type SessionConfig struct {
	ID        string
	Provider  Provider
	Emitter   Emitter
	Log       *logrus.Logger
	TickEvery time.Duration
	Seed      int64
}

// Session owns the complete state of one exploration: filter state, render
// state, overlays, and the layout simulation. A single goroutine (Run)
// mutates all of it; everything else talks to the session through commands.
type Session struct {
	id       string
	log      *logrus.Entry
	provider Provider
	emitter  Emitter

	filter  *FilterState
	render  *RenderState
	overlay *Overlay
	sim     *layout.Simulation
	frozen  bool

	// queryGen stamps subgraph queries; a response only lands if no newer
	// query was issued meanwhile. renderGen stamps the render a path or
	// centrality fetch was started against.
	queryGen  uint64
	renderGen uint64

	history []string

	tickEvery time.Duration
	seed      int64

	commands  chan Command
	results   chan fetchResult
	snapshots chan chan Snapshot
	closing   chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	lastActive atomic.Int64
}

// NewSession builds a session. Run must be started for it to do anything.
func NewSession(cfg SessionConfig) *Session {
	id := cfg.ID
	if id == "" {
		id = uuid.New().String()
	}

	tick := cfg.TickEvery
	if tick <= 0 {
		tick = defaultTickEvery
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	log := cfg.Log
	if log == nil {
		log = logrus.New()
	}

	s := &Session{
		id:        id,
		log:       log.WithField("session_id", id),
		provider:  cfg.Provider,
		emitter:   cfg.Emitter,
		filter:    NewFilterState(),
		overlay:   NewOverlay(seed),
		tickEvery: tick,
		seed:      seed,
		commands:  make(chan Command, commandBuffer),
		results:   make(chan fetchResult, resultBuffer),
		snapshots: make(chan chan Snapshot),
		closing:   make(chan struct{}),
		done:      make(chan struct{}),
	}
	s.touch()

	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// LastActive returns when the session last handled a command.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() { s.lastActive.Store(time.Now().UnixNano()) }

// Submit queues a command for the session goroutine.
func (s *Session) Submit(cmd Command) error {
	select {
	case s.commands <- cmd:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// Snapshot asks the session goroutine for its current state.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)

	select {
	case s.snapshots <- reply:
	case <-s.done:
		return Snapshot{}, ErrSessionClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-s.done:
		return Snapshot{}, ErrSessionClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Close stops the session. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.closing) })
}

// Done is closed when the session goroutine has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Run is the session event loop: it is the only goroutine that touches
// session state. It exits when the context is cancelled or Close is called.
func (s *Session) Run(ctx context.Context) {
	metrics.ActiveSessions.Inc()
	defer metrics.ActiveSessions.Dec()
	defer close(s.done)

	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()

	s.log.Info("session started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("session stopped: context cancelled")
			return
		case <-s.closing:
			s.log.Info("session closed")
			return
		case cmd := <-s.commands:
			s.touch()
			s.handle(ctx, cmd)
		case res := <-s.results:
			s.handleResult(res)
		case reply := <-s.snapshots:
			reply <- s.snapshot()
		case <-ticker.C:
			s.step()
		}
	}
}

func (s *Session) handle(ctx context.Context, cmd Command) {
	switch cmd.Action {
	case ActionExpandNode:
		s.filter.MarkExpand(cmd.NodeID)
		s.issueQuery(ctx)

	case ActionDeleteNode:
		s.filter.MarkDelete(cmd.NodeID)
		s.issueQuery(ctx)

	case ActionApplyTreeSelection:
		s.filter.ApplyTreeSelection(cmd.Key, cmd.Values)

	case ActionSubmitFilter:
		if cmd.GraphID != nil {
			s.filter.SetGraph(*cmd.GraphID)
		}
		if cmd.SeedMethod != "" || len(cmd.SeedNodes) > 0 || len(cmd.Authors) > 0 || len(cmd.Pmids) > 0 {
			s.filter.SetSeed(Seed{
				Method:  cmd.SeedMethod,
				Nodes:   cmd.SeedNodes,
				Authors: cmd.Authors,
				Pmids:   cmd.Pmids,
			})
		}
		s.issueQuery(ctx)

	case ActionRefresh:
		s.issueQuery(ctx)

	case ActionRestoreURL:
		s.restoreURL(ctx, cmd.URL)

	case ActionPinNode:
		if n := s.simNode(cmd.NodeID); n != nil {
			s.sim.Pin(cmd.NodeID, n.X, n.Y)
			s.emitFrame()
		}

	case ActionUnpinNode:
		if s.sim != nil {
			s.sim.Unpin(cmd.NodeID)
		}

	case ActionDragStart:
		if s.sim != nil {
			s.sim.DragStart(cmd.NodeID)
		}

	case ActionDragMove:
		s.dragMove(cmd)

	case ActionDragEnd:
		if s.sim != nil {
			s.sim.DragEnd(cmd.NodeID)
		}

	case ActionFreeze:
		s.frozen = true
		if s.sim != nil {
			s.sim.Freeze()
		}

	case ActionHover:
		s.overlay.SetHover(cmd.NodeID)
		s.emitStyles()

	case ActionHoverClear:
		s.overlay.ClearHover()
		s.emitStyles()

	case ActionSetFocus:
		s.overlay.SetFocus(cmd.NodeID)
		s.emitStyles()

	case ActionSelectNames:
		s.overlay.SelectNames(cmd.Names, cmd.HideOthers)
		s.emitStyles()

	case ActionSelectEdges:
		s.overlay.SelectEdges(cmd.Triples, cmd.HideOthers)
		s.emitStyles()

	case ActionClearSelection:
		s.overlay.ClearSelection()
		s.emitStyles()

	case ActionHighlightPaths:
		s.issuePaths(ctx, cmd)

	case ActionHighlightCentrality:
		s.issueCentrality(ctx, cmd.K)

	case ActionResetOverlays:
		s.overlay.Clear()
		s.emitStyles()

	default:
		s.emitError("unknown_action", fmt.Sprintf("unknown action %q", cmd.Action))
	}
}

func (s *Session) simNode(id string) *layout.Node {
	if s.sim == nil {
		return nil
	}
	return s.sim.Node(id)
}

func (s *Session) dragMove(cmd Command) {
	if s.sim == nil {
		return
	}

	s.sim.DragMove(cmd.NodeID, cmd.X, cmd.Y)

	// Without ticks nothing integrates the pin, so snap and show it now.
	if s.frozen || !s.sim.Running() {
		if n := s.sim.Node(cmd.NodeID); n != nil {
			n.X, n.Y = cmd.X, cmd.Y
		}
		s.emitFrame()
	}
}

// issueQuery translates the filter state into exactly one provider call.
// Pending expand/delete marks are consumed now: they belong to this query,
// whatever becomes of it.
func (s *Session) issueQuery(ctx context.Context) {
	args := s.filter.QueryArgs()
	s.filter.ResetPending()

	s.queryGen++
	gen := s.queryGen
	metrics.QueriesIssued.Inc()

	s.log.WithFields(logrus.Fields{
		"generation": gen,
		"query":      args.EncodeString(),
	}).Debug("issuing subgraph query")

	go func() {
		g, err := s.provider.Subgraph(ctx, args)
		s.deliver(fetchResult{kind: fetchSubgraph, gen: gen, args: args, graph: g, err: err})
	}()
}

func (s *Session) issuePaths(ctx context.Context, cmd Command) {
	if cmd.Source == "" {
		s.emitError("validation", models.ErrMissingSource.Error())
		return
	}
	if cmd.Target == "" {
		s.emitError("validation", models.ErrMissingTarget.Error())
		return
	}

	method := cmd.Method
	if method == "" {
		method = models.PathsShortest
	}

	args := s.filter.QueryArgs()
	gen := s.renderGen

	go func() {
		paths, err := s.provider.Paths(ctx, args, cmd.Source, cmd.Target, method, cmd.Undirected)
		s.deliver(fetchResult{kind: fetchPaths, gen: gen, paths: paths, err: err})
	}()
}

func (s *Session) issueCentrality(ctx context.Context, k int) {
	if k < 1 {
		s.emitError("validation", "k must be at least 1")
		return
	}

	args := s.filter.QueryArgs()
	gen := s.renderGen

	go func() {
		ranked, err := s.provider.TopCentrality(ctx, args, k)
		s.deliver(fetchResult{kind: fetchCentrality, gen: gen, ranked: ranked, err: err})
	}()
}

func (s *Session) deliver(res fetchResult) {
	select {
	case s.results <- res:
	case <-s.done:
	}
}

func (s *Session) handleResult(res fetchResult) {
	switch res.kind {
	case fetchSubgraph:
		if res.gen != s.queryGen {
			metrics.StaleResponsesDiscarded.Inc()
			s.log.WithFields(logrus.Fields{
				"generation": res.gen,
				"current":    s.queryGen,
			}).Debug("discarding stale subgraph response")
			return
		}
		if res.err != nil {
			s.log.WithError(res.err).Warn("subgraph query failed")
			s.emitError("query_failed", res.err.Error())
			return
		}
		s.swapRender(res.graph, res.args, res.gen)

	case fetchPaths:
		if res.gen != s.renderGen {
			metrics.StaleResponsesDiscarded.Inc()
			return
		}
		if res.err != nil {
			s.log.WithError(res.err).Warn("path search failed")
			s.emitError("paths_failed", res.err.Error())
			return
		}
		if len(res.paths) == 0 {
			s.emitWarning("empty_result", "no paths found between the selected nodes")
			return
		}
		s.overlay.HighlightPaths(res.paths)
		s.emitStyles()

	case fetchCentrality:
		if res.gen != s.renderGen {
			metrics.StaleResponsesDiscarded.Inc()
			return
		}
		if res.err != nil {
			s.log.WithError(res.err).Warn("centrality ranking failed")
			s.emitError("centrality_failed", res.err.Error())
			return
		}
		s.overlay.HighlightCentrality(res.ranked)
		s.emitStyles()
	}
}

// swapRender replaces the rendered graph: carry positions, rebuild indexes
// and the simulation, drop overlays, record history. This is the only place
// render state changes.
func (s *Session) swapRender(g *models.NodeLinkGraph, args models.QueryArgs, gen uint64) {
	prev := s.capturePositions()
	fresh := Reconcile(g, prev)

	s.render = NewRenderState(g)
	s.renderGen = gen
	s.overlay.Clear()
	s.frozen = false
	s.buildSimulation(g)
	s.appendHistory(args)

	nodes, links := s.render.Size()
	s.log.WithFields(logrus.Fields{
		"nodes": nodes,
		"links": links,
		"new":   len(fresh),
	}).Info("render swapped")

	s.emitGraph(g, fresh)
	s.emitStyles()
	s.emitFrame()
}

func (s *Session) capturePositions() map[string]Position {
	if s.sim == nil {
		return nil
	}

	nodes := s.sim.Nodes()
	out := make(map[string]Position, len(nodes))
	for _, n := range nodes {
		out[n.ID] = Position{X: n.X, Y: n.Y, Pinned: n.FX != nil}
	}
	return out
}

func (s *Session) buildSimulation(g *models.NodeLinkGraph) {
	nodes := make([]*layout.Node, len(g.Nodes))
	byID := make(map[string]*layout.Node, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		ln := &layout.Node{ID: n.ID, X: n.X, Y: n.Y, FX: n.FX, FY: n.FY}
		nodes[i] = ln
		byID[n.ID] = ln
	}

	links := make([]*layout.SimLink, 0, len(g.Links))
	for _, e := range g.Links {
		src, tgt := byID[e.Source], byID[e.Target]
		if src == nil || tgt == nil || src == tgt {
			continue
		}
		links = append(links, &layout.SimLink{Source: src, Target: tgt})
	}

	sim := layout.New(nodes, s.seed)
	sim.AddForce(layout.NewLinkForce(links))
	sim.AddForce(layout.NewManyBodyForce())
	sim.AddForce(layout.NewCollideForce())
	sim.AddForce(layout.NewCenterForce(0, 0))
	s.sim = sim
}

func (s *Session) appendHistory(args models.QueryArgs) {
	u := args.EncodeString()
	if n := len(s.history); n > 0 && s.history[n-1] == u {
		return
	}
	s.history = append(s.history, u)
	s.emitEvent(EventHistory, HistoryPayload{URL: u})
}

func (s *Session) restoreURL(ctx context.Context, raw string) {
	f, vals, err := ParseFilterURL(raw)
	if err != nil {
		s.emitError("invalid_url", err.Error())
		return
	}

	s.filter = f
	if vals.Get(autoloadParam) == autoloadEnabled {
		s.issueQuery(ctx)
	}
}

func (s *Session) step() {
	if s.sim == nil || s.frozen || !s.sim.Running() {
		return
	}
	s.sim.Step()
	s.emitFrame()
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		ID:         s.id,
		URL:        s.filter.EncodeString(),
		GraphID:    s.filter.GraphID(),
		Frozen:     s.frozen,
		History:    append([]string(nil), s.history...),
		LastActive: s.LastActive(),
	}
	if s.render != nil {
		snap.Nodes, snap.Edges = s.render.Size()
	}
	if s.sim != nil {
		snap.Alpha = s.sim.Alpha()
	}
	return snap
}

func (s *Session) emitFrame() {
	if s.emitter == nil || s.sim == nil {
		return
	}

	nodes := s.sim.Nodes()
	positions := make([]NodePosition, len(nodes))
	for i, n := range nodes {
		positions[i] = NodePosition{ID: n.ID, X: n.X, Y: n.Y, Pinned: n.FX != nil}
	}

	s.emitter.EmitFrame(s.id, Frame{Type: "frame", Alpha: s.sim.Alpha(), Positions: positions})
}

func (s *Session) emitEvent(eventType string, data any) {
	if s.emitter == nil {
		return
	}
	s.emitter.EmitEvent(s.id, eventType, data)
}

func (s *Session) emitStyles() {
	if s.render == nil {
		return
	}
	nodes, edges := s.overlay.Styles(s.render)
	s.emitEvent(EventStyles, StylesPayload{Nodes: nodes, Edges: edges})
}

func (s *Session) emitGraph(g *models.NodeLinkGraph, fresh map[string]struct{}) {
	newNodes := make([]string, 0, len(fresh))
	for id := range fresh {
		newNodes = append(newNodes, id)
	}
	sort.Strings(newNodes)

	glyphs := make(map[string]models.Glyph)
	for _, e := range g.Links {
		if _, ok := glyphs[e.Relation]; !ok {
			glyphs[e.Relation] = models.EdgeGlyph(e.Relation)
		}
	}

	s.emitEvent(EventGraph, GraphPayload{Graph: g, NewNodes: newNodes, Glyphs: glyphs})
}

func (s *Session) emitError(code, message string) {
	s.emitEvent(EventError, ErrorPayload{Code: code, Message: message})
}

func (s *Session) emitWarning(code, message string) {
	s.emitEvent(EventWarning, WarningPayload{Code: code, Message: message})
}
