package game

import (
	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/game/maze"
	"github.com/beka-birhanu/trapmaze/game/tile"
)

// FrameID addresses a frame in the arena owned by a GameState.
type FrameID int

// NoFrame is the parent of the root frame.
const NoFrame FrameID = -1

// Frame is one map together with its search grid. Child frames are created by
// the agent when it walks through a portal whose destination it has not
// placed on any of its maps yet.
type Frame struct {
	Map       *maze.Map
	Visits    *VisitGrid // nil on the authoritative side
	Parent    FrameID
	ParentPos geom.Pos // portal cell in the parent frame

	children map[geom.Pos]FrameID
}

// IsRoot reports whether the frame has no parent.
func (f *Frame) IsRoot() bool { return f.Parent == NoFrame }

// Loc is a position qualified by the frame it belongs to.
type Loc struct {
	Frame FrameID
	Pos   geom.Pos
}

// NewAgentMap returns a size x size map of Unknown cells whose anchor sits in
// the centre and holds the entrance.
func NewAgentMap(size int) (*maze.Map, error) {
	return newAnchoredMap(size, tile.Entrance)
}

func newAnchoredMap(size int, anchorCode uint8) (*maze.Map, error) {
	m, err := maze.New(size, size, tile.Unknown)
	if err != nil {
		return nil, err
	}
	a := geom.P(size/2, size/2)
	m.SetAnchor(a)
	m.Set(a, anchorCode)
	return m, nil
}

func (g *GameState) addFrame(m *maze.Map, parent FrameID, parentPos geom.Pos) FrameID {
	f := &Frame{
		Map:       m,
		Parent:    parent,
		ParentPos: parentPos,
		children:  make(map[geom.Pos]FrameID),
	}
	if g.agent {
		f.Visits = NewVisitGrid(m.Width(), m.Height())
	}
	g.frames = append(g.frames, f)
	return FrameID(len(g.frames) - 1)
}

// childFor returns the child frame cached for the portal at p in the current
// frame, creating it on first use.
func (g *GameState) childFor(p geom.Pos) (FrameID, error) {
	cur := g.frames[g.cur]
	if id, ok := cur.children[p]; ok {
		return id, nil
	}

	m, err := newAnchoredMap(g.cfg.AgentMapSize, cur.Map.At(p))
	if err != nil {
		return NoFrame, err
	}
	id := g.addFrame(m, g.cur, p)
	cur.children[p] = id
	return id, nil
}

// Frame returns the frame with the given id, or nil.
func (g *GameState) Frame(id FrameID) *Frame {
	if id < 0 || int(id) >= len(g.frames) {
		return nil
	}
	return g.frames[id]
}

// CurrentFrame returns the id of the active frame.
func (g *GameState) CurrentFrame() FrameID { return g.cur }

// Depth returns how many portals separate the active frame from the root.
func (g *GameState) Depth() int {
	d := 0
	for id := g.cur; g.frames[id].Parent != NoFrame; id = g.frames[id].Parent {
		d++
	}
	return d
}

func (f *Frame) clone() *Frame {
	c := *f
	c.Map = f.Map.Clone()
	if f.Visits != nil {
		c.Visits = f.Visits.Clone()
	}
	c.children = make(map[geom.Pos]FrameID, len(f.children))
	for p, id := range f.children {
		c.children[p] = id
	}
	return &c
}

// Frames returns the number of frames created so far.
func (g *GameState) Frames() int { return len(g.frames) }
