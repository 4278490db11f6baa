package game

import (
	"fmt"

	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/game/tile"
)

// Visibility returns the view radius at the current position: the base radius,
// one less on fog, one more on a tower, plus this round's x-ray bonus.
func (g *GameState) Visibility() int {
	v := g.cfg.Visibility
	switch tile.KindOf(g.Map().At(g.pos)) {
	case tile.KindFog:
		v--
	case tile.KindTower:
		v++
	}
	return max(v+g.xrayOn, 0)
}

// View returns the square window of codes centred on the current position.
// Cells outside the map read as walls. With disguise set, traps next to the
// agent show their real code, traps within the disguise radius show as an
// unknown trap and traps farther away show as path.
func (g *GameState) View(disguise bool) [][]uint8 {
	m := g.Map()
	v := g.Visibility()
	size := 2*v + 1

	view := make([][]uint8, size)
	for i := range view {
		view[i] = make([]uint8, size)
		for j := range view[i] {
			p := geom.P(g.pos.Row-v+i, g.pos.Col-v+j)
			code := m.At(p)
			if disguise {
				code = g.disguise(p, code)
			}
			view[i][j] = code
		}
	}
	return view
}

func (g *GameState) disguise(p geom.Pos, code uint8) uint8 {
	if !tile.KindOf(code).IsTrap() {
		return code
	}
	switch d := g.pos.Chebyshev(p); {
	case d <= 1:
		return code
	case d <= g.cfg.DisguiseRadius:
		return tile.UnknownTrap
	default:
		return tile.Path
	}
}

// AddView writes a view received at the current position into the active
// frame. A known trap is never overwritten, and an unknown trap is only
// replaced by something more specific than path. On the agent, walls in the
// view mark their search nodes WALL.
func (g *GameState) AddView(view [][]uint8) error {
	if len(view) == 0 {
		return nil
	}
	if len(view)%2 == 0 {
		return fmt.Errorf("%w: %d rows", ErrBadView, len(view))
	}
	for _, row := range view {
		if len(row) != len(view) {
			return fmt.Errorf("%w: row of %d in %d rows", ErrBadView, len(row), len(view))
		}
	}

	f := g.frames[g.cur]
	r := len(view) / 2
	for i, row := range view {
		for j, code := range row {
			p := geom.P(g.pos.Row-r+i, g.pos.Col-r+j)
			if !f.Map.InBounds(p) {
				continue
			}

			old := f.Map.At(p)
			if f.Visits != nil && (code == tile.Wall || old == tile.Wall) {
				f.Visits.Node(p).MarkWall()
			}

			switch {
			case old == tile.UnknownTrap:
				if code != tile.Path {
					f.Map.Set(p, code)
				}
			case tile.KindOf(old).IsTrap():
				// known trap, keep
			default:
				f.Map.Set(p, code)
			}
		}
	}
	return nil
}
