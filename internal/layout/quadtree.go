package layout

import "math"

// pointFn reads a coordinate off a node. Collision passes positions with
// velocity applied, charge passes raw positions.
type pointFn func(*Node) float64

const maxQuadDepth = 32

// quadCell is one square region. Leaves carry their points (coincident
// points share a leaf); internal cells carry aggregates filled in by
// accumulate: total charge, charge-weighted centroid, and max radius.
type quadCell struct {
	kids   [4]*quadCell
	points []*Node

	x, y  float64
	value float64
	r     float64
}

type quadtree struct {
	root           *quadCell
	x0, y0, x1, y1 float64
}

// buildQuadtree covers all nodes with a square region and inserts them.
func buildQuadtree(nodes []*Node, px, py pointFn) *quadtree {
	t := &quadtree{}
	if len(nodes) == 0 {
		return t
	}

	t.x0, t.y0 = px(nodes[0]), py(nodes[0])
	t.x1, t.y1 = t.x0, t.y0
	for _, n := range nodes[1:] {
		t.x0 = math.Min(t.x0, px(n))
		t.y0 = math.Min(t.y0, py(n))
		t.x1 = math.Max(t.x1, px(n))
		t.y1 = math.Max(t.y1, py(n))
	}

	w := math.Max(t.x1-t.x0, t.y1-t.y0)
	if w == 0 {
		w = 1
	}
	t.x1 = t.x0 + w
	t.y1 = t.y0 + w

	for _, n := range nodes {
		t.root = insertCell(t.root, n, t.x0, t.y0, t.x1, t.y1, 0, px, py)
	}

	return t
}

func insertCell(c *quadCell, n *Node, x0, y0, x1, y1 float64, depth int, px, py pointFn) *quadCell {
	if c == nil {
		return &quadCell{points: []*Node{n}}
	}

	if c.points != nil {
		p := c.points[0]
		if depth >= maxQuadDepth || (px(p) == px(n) && py(p) == py(n)) {
			c.points = append(c.points, n)
			return c
		}

		old := c.points
		c.points = nil
		for _, q := range old {
			c.insertChild(q, x0, y0, x1, y1, depth, px, py)
		}
	}

	c.insertChild(n, x0, y0, x1, y1, depth, px, py)
	return c
}

func (c *quadCell) insertChild(n *Node, x0, y0, x1, y1 float64, depth int, px, py pointFn) {
	xm, ym := (x0+x1)/2, (y0+y1)/2

	i := 0
	cx0, cy0, cx1, cy1 := x0, y0, xm, ym
	if px(n) >= xm {
		i |= 1
		cx0, cx1 = xm, x1
	}
	if py(n) >= ym {
		i |= 2
		cy0, cy1 = ym, y1
	}

	c.kids[i] = insertCell(c.kids[i], n, cx0, cy0, cx1, cy1, depth+1, px, py)
}

// accumulate fills aggregates bottom-up. strength may be nil (collision only
// needs radii), radius may be nil (charge only needs mass).
func (c *quadCell) accumulate(strength, radius pointFn, px, py pointFn) {
	if c == nil {
		return
	}

	if c.points != nil {
		c.x, c.y = px(c.points[0]), py(c.points[0])
		c.value, c.r = 0, 0
		for _, p := range c.points {
			if strength != nil {
				c.value += strength(p)
			}
			if radius != nil {
				c.r = math.Max(c.r, radius(p))
			}
		}
		return
	}

	var weight float64
	c.x, c.y, c.value, c.r = 0, 0, 0, 0
	for _, k := range c.kids {
		if k == nil {
			continue
		}
		k.accumulate(strength, radius, px, py)

		w := math.Abs(k.value)
		c.value += k.value
		weight += w
		c.x += w * k.x
		c.y += w * k.y
		c.r = math.Max(c.r, k.r)
	}

	if weight > 0 {
		c.x /= weight
		c.y /= weight
	}
}

// visit walks the tree pre-order with cell bounds. Returning true from fn
// prunes the cell's subtree.
func (t *quadtree) visit(fn func(c *quadCell, x0, y0, x1, y1 float64) bool) {
	if t.root != nil {
		visitCell(t.root, t.x0, t.y0, t.x1, t.y1, fn)
	}
}

func visitCell(c *quadCell, x0, y0, x1, y1 float64, fn func(*quadCell, float64, float64, float64, float64) bool) {
	if fn(c, x0, y0, x1, y1) || c.points != nil {
		return
	}

	xm, ym := (x0+x1)/2, (y0+y1)/2
	for i, k := range c.kids {
		if k == nil {
			continue
		}

		cx0, cy0, cx1, cy1 := x0, y0, xm, ym
		if i&1 != 0 {
			cx0, cx1 = xm, x1
		}
		if i&2 != 0 {
			cy0, cy1 = ym, y1
		}
		visitCell(k, cx0, cy0, cx1, cy1, fn)
	}
}
