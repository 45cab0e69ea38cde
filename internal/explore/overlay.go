package explore

import (
	"math/rand"
)

// NodeStyle is the view state of one rendered node. The zero render is
// never sent: styles always start from the baseline.
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

// Triple addresses an edge in selections.
type Triple struct {
	Source   string `json:"source"`
	Relation string `json:"relation"`
	Target   string `json:"target"`
}

const (
	baseOpacity = 1.0
	dimOpacity  = 0.1

	centralityMaxScale  = 2.5
	centralityMinScale  = 1.2
	centralityRestScale = 0.75
)

type selectionState struct {
	names      map[string]struct{}
	triples    map[Triple]struct{}
	hideOthers bool
}

// Overlay tracks the reversible view-state layered over a render: hover
// neighborhood, selection, path emphasis, and centrality scaling. It only
// ever produces styles; graph data and positions are out of its reach, so
// clearing it restores exactly the freshly rendered view.
type Overlay struct {
	rnd *rand.Rand

	hover string
	focus string

	sel *selectionState

	paths      [][]string
	pathColors []string

	ranked []string
}

// NewOverlay returns an empty overlay. The seed drives the palette rotation
// applied per highlight call.
func NewOverlay(seed int64) *Overlay {
	return &Overlay{rnd: rand.New(rand.NewSource(seed))}
}

// SetHover marks a node as hovered. Hover is transient and cheap: it adds
// no history and survives nothing.
func (o *Overlay) SetHover(id string) { o.hover = id }

// ClearHover removes the transient hover. A sticky focus stays.
func (o *Overlay) ClearHover() { o.hover = "" }

// SetFocus pins the hover emphasis to a node until changed. An empty id
// releases it.
func (o *Overlay) SetFocus(id string) { o.focus = id }

// SelectNames emphasizes nodes by display name (canonical or
// function-qualified). hideOthers removes the rest instead of dimming them.
func (o *Overlay) SelectNames(names []string, hideOthers bool) {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	o.sel = &selectionState{names: set, hideOthers: hideOthers}
}

// SelectEdges emphasizes edges by triple plus their endpoint nodes.
func (o *Overlay) SelectEdges(triples []Triple, hideOthers bool) {
	set := make(map[Triple]struct{}, len(triples))
	for _, t := range triples {
		set[t] = struct{}{}
	}
	o.sel = &selectionState{triples: set, hideOthers: hideOthers}
}

// ClearSelection removes the name/edge selection, leaving other overlays.
func (o *Overlay) ClearSelection() { o.sel = nil }

// HighlightPaths emphasizes a set of node-id paths. Each path gets a
// palette color; the starting palette position is randomized per call, so
// repeating a search may recolor the same paths.
func (o *Overlay) HighlightPaths(paths [][]string) {
	o.paths = paths
	o.pathColors = make([]string, len(paths))

	offset := o.rnd.Intn(len(pathPalette))
	for i := range paths {
		o.pathColors[i] = pathPalette[(offset+i)%len(pathPalette)]
	}
}

// HighlightCentrality scales node radii by rank, best first. Unranked nodes
// shrink below the baseline.
func (o *Overlay) HighlightCentrality(ranked []string) {
	o.ranked = append([]string(nil), ranked...)
}

// Clear drops every overlay.
func (o *Overlay) Clear() {
	o.hover = ""
	o.focus = ""
	o.sel = nil
	o.paths = nil
	o.pathColors = nil
	o.ranked = nil
}

// Styles computes the effective style of every rendered node and edge,
// composing selection, path emphasis, centrality scaling, and hover
// dimming over the baseline. Edge styles are keyed by triple.
func (o *Overlay) Styles(r *RenderState) (map[string]NodeStyle, map[string]EdgeStyle) {
	nodes := make(map[string]NodeStyle, len(r.Nodes))
	edges := make(map[string]EdgeStyle, len(r.Links))

	for _, n := range r.Nodes {
		nodes[n.ID] = NodeStyle{Opacity: baseOpacity, RadiusScale: 1}
	}
	for _, e := range r.Links {
		edges[e.Triple()] = EdgeStyle{Opacity: baseOpacity}
	}

	if o.sel != nil {
		o.applySelection(r, nodes, edges)
	}
	if len(o.paths) > 0 {
		o.applyPaths(r, nodes, edges)
	}
	if len(o.ranked) > 0 {
		o.applyCentrality(nodes)
	}
	if h := o.hoverTarget(); h != "" {
		o.applyHover(r, h, nodes, edges)
	}

	return nodes, edges
}

func (o *Overlay) hoverTarget() string {
	if o.focus != "" {
		return o.focus
	}
	return o.hover
}

func (o *Overlay) applySelection(r *RenderState, nodes map[string]NodeStyle, edges map[string]EdgeStyle) {
	selNodes := make(map[string]struct{})
	selEdges := make(map[string]struct{})

	if o.sel.names != nil {
		for _, n := range r.Nodes {
			if _, ok := o.sel.names[n.CName]; ok {
				selNodes[n.ID] = struct{}{}
				continue
			}
			if _, ok := o.sel.names[n.FunctionQualifiedName()]; ok {
				selNodes[n.ID] = struct{}{}
			}
		}
		// Keep an edge only when both of its ends are selected.
		for _, e := range r.Links {
			if _, s := selNodes[e.Source]; !s {
				continue
			}
			if _, t := selNodes[e.Target]; !t {
				continue
			}
			selEdges[e.Triple()] = struct{}{}
		}
	} else {
		for _, e := range r.Links {
			t := Triple{Source: e.Source, Relation: e.Relation, Target: e.Target}
			if _, ok := o.sel.triples[t]; !ok {
				continue
			}
			selEdges[e.Triple()] = struct{}{}
			selNodes[e.Source] = struct{}{}
			selNodes[e.Target] = struct{}{}
		}
	}

	for id, st := range nodes {
		if _, ok := selNodes[id]; ok {
			continue
		}
		if o.sel.hideOthers {
			st.Hidden = true
		} else {
			st.Opacity = dimOpacity
			st.LabelHidden = true
		}
		nodes[id] = st
	}

	for key, st := range edges {
		if _, ok := selEdges[key]; ok {
			continue
		}
		if o.sel.hideOthers {
			st.Hidden = true
		} else {
			st.Opacity = dimOpacity
		}
		edges[key] = st
	}
}

func (o *Overlay) applyPaths(r *RenderState, nodes map[string]NodeStyle, edges map[string]EdgeStyle) {
	memberColor := make(map[string]string)
	pairColor := make(map[[2]string]string)

	for i, path := range o.paths {
		color := o.pathColors[i]
		for j, id := range path {
			memberColor[id] = color
			if j == 0 {
				continue
			}
			pairColor[edgePair(path[j-1], id)] = color
		}
	}

	for id, st := range nodes {
		if color, ok := memberColor[id]; ok {
			st.Color = color
			st.Opacity = baseOpacity
		} else {
			st.Opacity = dimOpacity
			st.LabelHidden = true
		}
		nodes[id] = st
	}

	// Only edges between consecutive path members light up. An edge whose
	// ends are both on a path but not adjacent in it stays dimmed.
	for _, e := range r.Links {
		st := edges[e.Triple()]
		if color, ok := pairColor[edgePair(e.Source, e.Target)]; ok {
			st.Color = color
			st.Opacity = baseOpacity
		} else {
			st.Opacity = dimOpacity
		}
		edges[e.Triple()] = st
	}
}

func (o *Overlay) applyCentrality(nodes map[string]NodeStyle) {
	rank := make(map[string]int, len(o.ranked))
	for i, id := range o.ranked {
		rank[id] = i
	}

	span := float64(len(o.ranked))
	for id, st := range nodes {
		i, ok := rank[id]
		if !ok {
			st.RadiusScale = centralityRestScale
			nodes[id] = st
			continue
		}

		scale := centralityMaxScale
		if span > 1 {
			scale = centralityMaxScale - (centralityMaxScale-centralityMinScale)*float64(i)/(span-1)
		}
		st.RadiusScale = scale
		nodes[id] = st
	}
}

func (o *Overlay) applyHover(r *RenderState, h string, nodes map[string]NodeStyle, edges map[string]EdgeStyle) {
	for id, st := range nodes {
		if r.Linked(h, id) {
			continue
		}
		st.Opacity = dimOpacity
		st.LabelHidden = true
		nodes[id] = st
	}

	for _, e := range r.Links {
		if e.Source == h || e.Target == h {
			continue
		}
		st := edges[e.Triple()]
		st.Opacity = dimOpacity
		edges[e.Triple()] = st
	}
}

// edgePair normalizes an unordered node pair.
func edgePair(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
