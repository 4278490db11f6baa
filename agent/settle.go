package agent

import (
	"github.com/beka-birhanu/trapmaze/game"
	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/game/tile"
)

// settle places the agent where the view the server sent after a command was
// taken. Replay cannot finish a forced movement through cells the agent has
// not seen, and the server never says where a trap left it, so the view is the
// only evidence. It reports false when no nearby cell the agent knows anything
// about fits the view.
func settle(g *game.GameState, view [][]uint8) bool {
	if len(view) == 0 {
		return true
	}
	here := g.Pos()
	drift, drifting := g.Drift()

	if !drifting {
		if ok, _ := fits(g, view, here); ok {
			return true
		}
	} else if drift.Exact {
		// the push went on until a wall or until its strength ran out
		for k, p := range ray(g, here, drift.Dir, drift.Steps) {
			ok, _ := fits(g, view, p)
			if ok && (k == drift.Steps || blockedAhead(view, drift.Dir)) {
				g.Relocate(p)
				return true
			}
		}
	}

	var cands []geom.Pos
	if drifting && !drift.Exact {
		cands = append(ray(g, here, drift.Dir, drift.Steps), ray(g, here, drift.Dir.Opposite(), drift.Steps)[1:]...)
	}
	reach := tile.MaxStrength * (g.Config().MaxRedirects + 1)
	cands = append(cands, around(here, reach)...)

	// the cell whose surroundings the agent knows best wins
	best, bestKnown := here, 0
	for _, p := range cands {
		if ok, known := fits(g, view, p); ok && known > bestKnown {
			best, bestKnown = p, known
		}
	}
	if bestKnown == 0 {
		return false
	}
	g.Relocate(best)
	return true
}

// ray lists from and up to n cells beyond it in d, stopping at a known wall.
func ray(g *game.GameState, from geom.Pos, d geom.Direction, n int) []geom.Pos {
	m := g.Map()
	out := []geom.Pos{from}
	for p := from; len(out) <= n; {
		p = p.Step(d)
		if !m.InBounds(p) || m.At(p) == tile.Wall {
			break
		}
		out = append(out, p)
	}
	return out
}

// around lists the cells within reach of p, nearest first.
func around(p geom.Pos, reach int) []geom.Pos {
	var out []geom.Pos
	for dist := 1; dist <= 2*reach; dist++ {
		for dr := -dist; dr <= dist; dr++ {
			dc := dist - max(dr, -dr)
			for _, c := range []int{-dc, dc} {
				q := p.Add(dr, c)
				if q.Chebyshev(p) <= reach {
					out = append(out, q)
				}
				if dc == 0 {
					break
				}
			}
		}
	}
	return out
}

// blockedAhead reports whether the view shows something that stops a push in
// d right next to its centre.
func blockedAhead(view [][]uint8, d geom.Direction) bool {
	r := len(view) / 2
	next := geom.P(r, r).Step(d)
	code := view[next.Row][next.Col]
	return code == tile.Wall || tile.KindOf(code).IsTrap()
}

// fits reports whether view could have been taken standing on p, and how many
// of its cells the agent already knew.
func fits(g *game.GameState, view [][]uint8, p geom.Pos) (bool, int) {
	m := g.Map()
	r := len(view) / 2
	centre := geom.P(r, r)
	radius := g.Config().DisguiseRadius

	known := 0
	for i, row := range view {
		for j, v := range row {
			q := geom.P(p.Row-r+i, p.Col-r+j)
			if !m.InBounds(q) {
				continue
			}
			c := m.At(q)
			if c == tile.Unknown {
				continue
			}
			if !agrees(c, v, centre.Chebyshev(geom.P(i, j)), radius) {
				return false, 0
			}
			known++
		}
	}
	return true, known
}

// agrees reports whether the server may show v at dist from the agent for a
// cell the agent has recorded as c. Traps are disguised by distance, and a
// trap first seen from afar was recorded as path.
func agrees(c, v uint8, dist, radius int) bool {
	switch kc, kv := tile.KindOf(c), tile.KindOf(v); {
	case c == v:
		return true
	case c == tile.UnknownTrap:
		return kv.IsTrap() || (v == tile.Path && dist > radius)
	case kc.IsTrap():
		return (v == tile.UnknownTrap && dist > 1) || (v == tile.Path && dist > radius)
	case c == tile.Path:
		return kv.IsTrap()
	case c == tile.Xray:
		return v == tile.Path
	default:
		return false
	}
}
