package game

import (
	"fmt"

	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/game/tile"
)

// move relocates one step in d and resolves the effect of the entered tile.
// redirects bounds how many more times a trap may re-enter move below this
// call; record controls whether the step lands in the rewind history.
func (g *GameState) move(d geom.Direction, redirects int, record bool) (outcome, error) {
	g.pos = g.pos.Step(d)
	loc := g.Loc()
	g.visited = append(g.visited, loc)
	if record {
		g.pushHistory(step{kind: CmdMove, dir: d})
	}

	code := g.Map().At(g.pos)
	t, ok := tile.Lookup(code)
	if !ok {
		return failed, fmt.Errorf("%w %d at %s", ErrUndefinedTile, code, g.pos)
	}

	if !g.inRewind && !g.hasFirstTrap && unsettlesPosition(t.Kind) {
		g.firstTrap = loc
		g.hasFirstTrap = true
	}
	if g.agent && t.Kind == tile.KindUnknownTrap {
		// whatever the trap really is happens only on the server
		g.setDrift(d, tile.MaxStrength, false)
	}

	return g.activate(t.Visit(d), redirects, record)
}

// unsettlesPosition reports whether entering a tile of kind k may leave the
// agent somewhere other than where it planned.
func unsettlesPosition(k tile.Kind) bool {
	switch k {
	case tile.KindUnknownTrap, tile.KindRewindTrap, tile.KindForwardTrap, tile.KindBackwardTrap:
		return true
	default:
		return false
	}
}

func (g *GameState) activate(e tile.Effect, redirects int, record bool) (outcome, error) {
	switch e.Kind {
	case tile.WallEffect:
		return g.bounce(e, record), nil
	case tile.MovesDecreaseEffect:
		g.penalize(e.Strength)
		return noInfo, nil
	case tile.XrayEffect:
		g.xrayPoints++
		g.Map().Set(g.pos, tile.Path)
		return noInfo, nil
	case tile.RewindEffect:
		return g.rewind(e.Strength, redirects)
	case tile.PushForwardEffect, tile.PushBackwardEffect:
		return g.push(e, redirects, record)
	default:
		return noInfo, nil
	}
}

// bounce undoes the step into a wall without resolving the tile stepped back
// onto.
func (g *GameState) bounce(e tile.Effect, record bool) outcome {
	g.visited = g.visited[:len(g.visited)-1]
	if record {
		g.popHistory()
	}
	g.pos = g.pos.Step(e.Dir.Opposite())
	if !g.suppressWallPenalty {
		g.penalize(1)
	}
	return failed
}

// push forces e.Strength steps in the push direction. A forced step that hits
// a wall ends the push and costs nothing. On the agent the push also ends in
// front of a cell it has not seen and on a disguised trap, leaving a Drift.
func (g *GameState) push(e tile.Effect, redirects int, record bool) (outcome, error) {
	prev := g.suppressWallPenalty
	g.suppressWallPenalty = true
	defer func() { g.suppressWallPenalty = prev }()

	dir := e.PushDir()
	for i := 0; i < e.Strength; i++ {
		if redirects <= 0 {
			return failed, ErrTooManyRedirects
		}
		if g.agent && g.Map().At(g.pos.Step(dir)) == tile.Unknown {
			g.setDrift(dir, e.Strength-i, true)
			break
		}
		out, err := g.move(dir, redirects-1, record)
		if err != nil {
			return failed, err
		}
		if out == failed || g.drifting {
			break
		}
	}
	return noInfo, nil
}

// rewind undoes up to n recorded steps, newest first. Inverse steps resolve
// their tiles normally but are not recorded.
func (g *GameState) rewind(n, redirects int) (outcome, error) {
	prev := g.inRewind
	g.inRewind = true
	defer func() { g.inRewind = prev }()

	for i := 0; i < n && !g.drifting; i++ {
		s, ok := g.popHistory()
		if !ok {
			break
		}

		switch s.kind {
		case CmdXray:
			g.xrayPoints++
		case CmdMove:
			if redirects <= 0 {
				return failed, ErrTooManyRedirects
			}
			if _, err := g.move(s.dir.Opposite(), redirects-1, false); err != nil {
				return failed, err
			}
		case CmdPortal:
			if redirects <= 0 {
				return failed, ErrTooManyRedirects
			}
			if _, err := g.enterPortal(false); err != nil {
				return failed, err
			}
		}
	}
	return noInfo, nil
}

// useXray spends one point for a visibility bonus until the next round. With
// no points left the step fails and still costs a move next round.
func (g *GameState) useXray() outcome {
	if g.xrayPoints <= 0 {
		g.penalize(1)
		return failed
	}
	g.xrayPoints--
	g.xrayOn++
	g.pushHistory(step{kind: CmdXray})
	return succeeded
}
