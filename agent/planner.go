package agent

import (
	"errors"

	"github.com/beka-birhanu/trapmaze/game"
	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/game/tile"
	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"
)

// ErrImpossibleMaze is returned once the search has exhausted every branch
// reachable from the entrance without finding the exit.
var ErrImpossibleMaze = errors.New("impossible maze")

// DefaultLookahead bounds how many cells a reachability check may expand.
const DefaultLookahead = 4096

// candidateOrder is the fixed tie-break order of the search.
var candidateOrder = [...]geom.Direction{geom.West, geom.East, geom.North, geom.South, geom.Portal}

// Plan is one batch computed from local knowledge, together with the
// speculative search updates it relied on.
type Plan struct {
	Commands []game.Command

	start     game.Loc
	frame     *game.Frame
	visited   []game.Loc
	temp      map[game.Loc]*game.VisitNode
	lookahead int
}

// Planner chooses the next batch of commands with an iterative depth-first
// search over the agent's local map.
type Planner struct {
	lookahead int
}

// NewPlanner returns a planner whose reachability checks expand at most
// lookahead cells. A non-positive value selects DefaultLookahead.
func NewPlanner(lookahead int) *Planner {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	return &Planner{lookahead: lookahead}
}

// Plan walks the search from the current position for up to the round budget.
// It stops early next to unknown cells, on a trap reached during the batch,
// on the exit, or after choosing a portal. It never mutates g.
func (p *Planner) Plan(g *game.GameState) (*Plan, error) {
	pl := &Plan{
		start:     g.Loc(),
		frame:     g.Frame(g.CurrentFrame()),
		temp:      make(map[game.Loc]*game.VisitNode),
		lookahead: p.lookahead,
	}

	pos := g.Pos()
	for len(pl.Commands) < g.Moves() {
		d, ok, err := pl.next(pos, len(pl.Commands) > 0)
		if err != nil {
			return pl, err
		}
		if !ok {
			break
		}
		pl.Commands = append(pl.Commands, game.CommandFor(d))
		if d == geom.Portal {
			break
		}
		pos = pos.Step(d)
		if pl.frame.Map.At(pos) == tile.Exit {
			break
		}
	}
	return pl, nil
}

// Visited returns the locations the plan expects to enter, in order.
func (pl *Plan) Visited() []game.Loc {
	return append([]game.Loc(nil), pl.visited...)
}

// next returns the direction to take from pos. It reports false when the
// search has to wait for the server.
func (pl *Plan) next(pos geom.Pos, speculative bool) (geom.Direction, bool, error) {
	m := pl.frame.Map
	if speculative {
		if k := tile.KindOf(m.At(pos)); k.IsTrap() && k != tile.KindMovesTrap {
			return 0, false, nil
		}
	}

	node := pl.node(pos)
	unseen := false
	for _, d := range pl.candidates(pos, node) {
		if d == geom.Portal {
			node.Try(d)
			return d, true, nil
		}

		nb := pos.Step(d)
		if parent, ok := node.Parent(); (ok && parent == nb) || !m.InBounds(nb) {
			node.Try(d)
			continue
		}

		code := m.At(nb)
		if code == tile.Unknown {
			unseen = true
			continue
		}

		nn := pl.node(nb)
		if code == tile.Wall || tile.KindOf(code).Blocks() {
			nn.MarkWall()
		}
		if pl.enterable(pos, nb, nn) && pl.checkPath(nb, pos) {
			nn.Open()
			nn.SetParent(pos)
			node.Try(d)
			pl.visited = append(pl.visited, pl.loc(nb))
			return d, true, nil
		}
		node.Try(d)
	}

	// wait for a view that shows what is still unknown here
	if unseen {
		return 0, false, nil
	}
	return pl.backtrack(pos, node)
}

// candidates lists the untried directions from pos in search order. The portal
// is offered only on a portal cell that is not the anchor the active child
// frame was entered through.
func (pl *Plan) candidates(pos geom.Pos, node *game.VisitNode) []geom.Direction {
	cands := make([]geom.Direction, 0, len(candidateOrder))
	for _, d := range candidateOrder {
		if node.Tried(d) {
			continue
		}
		if d == geom.Portal && !pl.portalCandidate(pos) {
			continue
		}
		cands = append(cands, d)
	}
	return cands
}

func (pl *Plan) portalCandidate(pos geom.Pos) bool {
	if !tile.IsPortal(pl.frame.Map.At(pos)) {
		return false
	}
	return pl.frame.IsRoot() || pos != pl.frame.Map.Anchor()
}

// enterable reports whether the search may step from pos onto nb. NEW cells
// always qualify. OPEN cells qualify unless they lie on the path that led to
// pos, which would close a cycle in the parent links.
func (pl *Plan) enterable(pos, nb geom.Pos, nn *game.VisitNode) bool {
	switch nn.Status() {
	case game.StatusNew:
		return true
	case game.StatusOpen:
		return !pl.isAncestor(nb, pos)
	default:
		return false
	}
}

func (pl *Plan) isAncestor(target, from geom.Pos) bool {
	if target == pl.frame.Map.Anchor() {
		return true
	}
	seen := mapset.New[geom.Pos]()
	for cur := from; !seen.Has(cur); {
		if cur == target {
			return true
		}
		seen.Put(cur)
		parent, ok := pl.peek(cur).Parent()
		if !ok {
			return false
		}
		cur = parent
	}
	return false
}

// backtrack marks pos explored and walks back towards where the search came
// from: to the parent cell, or back through the portal that led here.
func (pl *Plan) backtrack(pos geom.Pos, node *game.VisitNode) (geom.Direction, bool, error) {
	node.Visit()

	if parent, ok := node.Parent(); ok {
		if d, ok := geom.Between(pos, parent); ok {
			pl.visited = append(pl.visited, pl.loc(parent))
			return d, true, nil
		}
	}

	m := pl.frame.Map
	switch {
	case pl.frame.IsRoot() && pos == m.Anchor():
		return 0, false, ErrImpossibleMaze
	case tile.IsPortal(m.At(pos)):
		return geom.Portal, true, nil
	}
	return 0, false, nil
}

// checkPath reports whether something worth reaching lies beyond from without
// passing back through forbid: an exit, an unobserved cell, or a portal the
// search has not taken yet. Walls and traps that throw the agent back block
// the way. Running out of lookahead budget counts as reachable.
func (pl *Plan) checkPath(from, forbid geom.Pos) bool {
	m := pl.frame.Map
	if m.At(from) == tile.Exit || pl.unexploredPortal(from) {
		return true
	}

	seen := mapset.New[geom.Pos]()
	seen.Put(from)
	seen.Put(forbid)
	q := queue.New[geom.Pos]()
	q.Enqueue(from)

	for expanded := 0; !q.Empty(); expanded++ {
		if expanded >= pl.lookahead {
			return true
		}
		cur := q.Dequeue()

		for _, d := range geom.Cardinals {
			nb := cur.Step(d)
			if !m.InBounds(nb) || seen.Has(nb) {
				continue
			}
			seen.Put(nb)

			code := m.At(nb)
			if code == tile.Exit || code == tile.Unknown || pl.unexploredPortal(nb) {
				return true
			}
			if code == tile.Wall || tile.KindOf(code).Blocks() {
				continue
			}
			q.Enqueue(nb)

			if pair, ok := m.Pair(nb); ok && !seen.Has(pair) {
				seen.Put(pair)
				q.Enqueue(pair)
			}
		}
	}
	return false
}

func (pl *Plan) unexploredPortal(p geom.Pos) bool {
	if !pl.portalCandidate(p) {
		return false
	}
	if _, ok := pl.frame.Map.Pair(p); ok {
		return false
	}
	return !pl.peek(p).Tried(geom.Portal)
}

func (pl *Plan) loc(p geom.Pos) game.Loc {
	return game.Loc{Frame: pl.start.Frame, Pos: p}
}

// node returns the speculative copy of the node at p, copying it from the
// frame grid on first access.
func (pl *Plan) node(p geom.Pos) *game.VisitNode {
	l := pl.loc(p)
	if n, ok := pl.temp[l]; ok {
		return n
	}
	n := pl.frame.Visits.Get(p)
	pl.temp[l] = &n
	return &n
}

func (pl *Plan) peek(p geom.Pos) game.VisitNode {
	if n, ok := pl.temp[pl.loc(p)]; ok {
		return *n
	}
	return pl.frame.Visits.Get(p)
}
