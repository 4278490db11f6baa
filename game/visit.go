package game

import "github.com/beka-birhanu/trapmaze/game/geom"

// Status is the search state of a cell on the agent side.
type Status uint8

// Search states. NEW, OPEN and VISITED only move forward; WALL overrides all.
const (
	StatusNew Status = iota
	StatusOpen
	StatusVisited
	StatusWall
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "NEW"
	case StatusOpen:
		return "OPEN"
	case StatusVisited:
		return "VISITED"
	case StatusWall:
		return "WALL"
	default:
		return "INVALID"
	}
}

// VisitNode is the per-cell bookkeeping of the exploration search.
type VisitNode struct {
	tried     [geom.Portal + 1]bool
	parent    geom.Pos
	hasParent bool
	status    Status
}

// Status returns the search state.
func (n VisitNode) Status() Status { return n.status }

// Tried reports whether the search already left this cell in direction d.
func (n VisitNode) Tried(d geom.Direction) bool {
	if d < 0 || int(d) >= len(n.tried) {
		return true
	}
	return n.tried[d]
}

// Parent returns how the search first reached the cell.
func (n VisitNode) Parent() (geom.Pos, bool) { return n.parent, n.hasParent }

// Try marks direction d as tried. Tried flags are never cleared.
func (n *VisitNode) Try(d geom.Direction) {
	if d >= 0 && int(d) < len(n.tried) {
		n.tried[d] = true
	}
}

// SetParent records the parent unless one is already set.
func (n *VisitNode) SetParent(p geom.Pos) {
	if n.hasParent {
		return
	}
	n.parent = p
	n.hasParent = true
}

// Open moves a NEW node to OPEN.
func (n *VisitNode) Open() {
	if n.status == StatusNew {
		n.status = StatusOpen
	}
}

// Visit marks the node fully explored unless it is a wall.
func (n *VisitNode) Visit() {
	if n.status != StatusWall {
		n.status = StatusVisited
	}
}

// MarkWall makes the node impassable for the search.
func (n *VisitNode) MarkWall() { n.status = StatusWall }

// VisitGrid is a dense grid of VisitNode parallel to a Map.
type VisitGrid struct {
	width  int
	height int
	nodes  []VisitNode
}

// NewVisitGrid returns a grid of NEW nodes.
func NewVisitGrid(width, height int) *VisitGrid {
	return &VisitGrid{width: width, height: height, nodes: make([]VisitNode, width*height)}
}

// Node returns the node at p for in-place update, or nil outside the grid.
func (v *VisitGrid) Node(p geom.Pos) *VisitNode {
	if p.Row < 0 || p.Row >= v.height || p.Col < 0 || p.Col >= v.width {
		return nil
	}
	return &v.nodes[p.Row*v.width+p.Col]
}

// Get returns a copy of the node at p. Cells outside the grid read as WALL.
func (v *VisitGrid) Get(p geom.Pos) VisitNode {
	if n := v.Node(p); n != nil {
		return *n
	}
	return VisitNode{status: StatusWall}
}

// Put overwrites the node at p.
func (v *VisitGrid) Put(p geom.Pos, n VisitNode) {
	if dst := v.Node(p); dst != nil {
		*dst = n
	}
}

// Clone returns a deep copy.
func (v *VisitGrid) Clone() *VisitGrid {
	c := &VisitGrid{width: v.width, height: v.height, nodes: make([]VisitNode, len(v.nodes))}
	copy(c.nodes, v.nodes)
	return c
}
