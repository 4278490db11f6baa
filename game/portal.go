package game

import (
	"github.com/beka-birhanu/trapmaze/game/tile"
)

// enterPortal walks through the portal under the current position.
//
// The server jumps straight to the paired cell. The agent does not know where
// a portal leads until it has seen both ends, so it either returns to the
// parent frame (standing on the anchor of a child frame), jumps within the
// frame (pair already known), or switches to the cached child frame for this
// portal, creating it on first use.
func (g *GameState) enterPortal(record bool) (outcome, error) {
	f := g.frames[g.cur]
	if !tile.IsPortal(f.Map.At(g.pos)) {
		return failed, nil
	}

	switch {
	case g.agent && !f.IsRoot() && g.pos == f.Map.Anchor():
		g.pos = f.ParentPos
		g.cur = f.Parent
	default:
		if pair, ok := f.Map.Pair(g.pos); ok {
			g.pos = pair
			break
		}
		if !g.agent {
			return failed, nil
		}
		child, err := g.childFor(g.pos)
		if err != nil {
			return failed, err
		}
		g.cur = child
		g.pos = g.frames[child].Map.Anchor()
	}

	g.visited = append(g.visited, g.Loc())
	if record {
		g.pushHistory(step{kind: CmdPortal})
	}
	return succeeded, nil
}
