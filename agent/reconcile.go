package agent

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/trapmaze/game"
	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/game/tile"
	"github.com/beka-birhanu/trapmaze/protocol"
	"github.com/zyedidia/generic/mapset"
)

// Reconcile replays the server's answer to pl on g and folds the speculative
// search state of pl into the persistent visit grids.
//
// Search updates along the part of the batch that went as planned and ended
// before the first trap are committed. Cells reached after that are only
// opened, since a trap may have moved the agent somewhere the plan never
// considered.
func (a *Agent) Reconcile(g *game.GameState, pl *Plan, resp *protocol.MovesResponse) error {
	for i, r := range resp.Commands {
		a.replay(g, i, r)
	}

	auth := g.Visited()
	n := commonPrefix(pl.visited, auth)
	if trap, ok := g.FirstTrap(); ok {
		for i := 0; i < n; i++ {
			if auth[i] == trap {
				n = i
				break
			}
		}
	}

	safe := mapset.New[game.Loc]()
	safe.Put(pl.start)
	for _, l := range auth[:n] {
		safe.Put(l)
	}
	for l, node := range pl.temp {
		if !safe.Has(l) {
			continue
		}
		if f := g.Frame(l.Frame); f != nil && f.Visits != nil {
			f.Visits.Put(l.Pos, *node)
		}
	}

	prev := pl.start
	if n > 0 {
		prev = auth[n-1]
	}
	for _, l := range auth[n:] {
		openTentative(g, prev, l)
		prev = l
	}

	next, err := protocol.ParseInt(resp.Moves, g.Config().MovesPerRound)
	if err != nil {
		return fmt.Errorf("moves %q: %w", resp.Moves, err)
	}
	g.SetNextRoundMoves(next)
	g.NewRound()

	root := g.Frame(0)
	if root.Visits.Get(root.Map.Anchor()).Status() == game.StatusVisited {
		return ErrImpossibleMaze
	}
	return nil
}

// replay applies one reported command locally and merges the view that
// followed it.
func (a *Agent) replay(g *game.GameState, i int, r protocol.CommandResult) {
	cmd, err := game.ParseCommand(r.Name)
	if err != nil {
		a.log.Warnf("command %d: %v", i, err)
		return
	}

	mark := g.Mark()
	ok, err := g.PerformCommand(cmd)
	switch {
	case errors.Is(err, game.ErrNoMovesLeft):
		return
	case err != nil:
		g.Rollback(mark)
		a.log.Warnf("command %d (%s): %v", i, cmd, err)
	case ok && r.Successful != protocol.FlagTrue:
		g.Rollback(mark)
	case !ok && r.Successful == protocol.FlagTrue:
		a.log.Debugf("command %d (%s) failed locally but succeeded on the server", i, cmd)
	}

	view, err := protocol.ParseView(r.View)
	if err != nil {
		a.log.Warnf("command %d view: %v", i, err)
		return
	}
	if !settle(g, view) {
		a.log.Warnf("command %d (%s): view does not fit the map near %s", i, cmd, g.Pos())
	}
	if err := g.AddView(view); err != nil {
		a.log.Warnf("command %d view: %v", i, err)
	}
}

// openTentative opens a cell reached after the first trap of a batch.
func openTentative(g *game.GameState, prev, l game.Loc) {
	f := g.Frame(l.Frame)
	if f == nil || f.Visits == nil {
		return
	}
	node := f.Visits.Node(l.Pos)
	if node == nil {
		return
	}

	if node.Status() == game.StatusNew {
		node.Open()
		if prev.Frame == l.Frame {
			if _, adjacent := geom.Between(l.Pos, prev.Pos); adjacent {
				node.SetParent(prev.Pos)
			}
		}
	}

	// stepping back off a forward trap onto its parent exhausts the trap
	if prev.Frame != l.Frame || tile.KindOf(f.Map.At(prev.Pos)) != tile.KindForwardTrap {
		return
	}
	pn := f.Visits.Node(prev.Pos)
	if parent, ok := pn.Parent(); ok && parent == l.Pos {
		pn.Visit()
		if d, ok := geom.Between(l.Pos, prev.Pos); ok {
			node.Try(d)
		}
	}
}

func commonPrefix(a, b []game.Loc) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
