/*
Package game implements the trap-maze simulation.

A GameState owns a set of frames (maps), the current position, the move
budget of this and the next round, x-ray points and a bounded history of
performed steps. Commands are applied with PerformCommand. Every move first
relocates into the target cell and then resolves the effect of the tile there,
so bouncing off a wall, being pushed by a trap or being rewound all share one
mechanism.

The same type is used by the authoritative server, which owns the real map,
and by the agent, which owns an incrementally discovered copy together with a
VisitGrid per frame.
*/
package game

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/game/maze"
	"github.com/beka-birhanu/trapmaze/game/tile"
)

// Game-related errors.
var (
	ErrInvalidCommand   = errors.New("invalid command")
	ErrBatchTooLong     = errors.New("too many commands in batch")
	ErrTooManyRedirects = errors.New("too many trap redirects")
	ErrUndefinedTile    = errors.New("undefined tile")
	ErrNoMovesLeft      = errors.New("no moves left this round")
	ErrNoEntrance       = errors.New("map has no entrance")
	ErrBadView          = errors.New("view is not a square of odd size")
)

// Engine defaults.
const (
	DefaultMovesPerRound  = 10
	DefaultXrayPoints     = 10
	DefaultVisibility     = 2
	DefaultMaxRedirects   = 4
	DefaultHistorySize    = 100
	DefaultDisguiseRadius = 2
	DefaultAgentMapSize   = 512
)

// Config holds the engine limits. Zero fields take the defaults above.
type Config struct {
	MovesPerRound  int // allotment granted by NewRound
	XrayPoints     int // starting x-ray balance
	Visibility     int // base view radius
	MaxRedirects   int // depth cap on trap-triggered re-entrance into a move
	HistorySize    int // steps kept for rewind
	DisguiseRadius int // traps up to this distance show as unknown traps
	AgentMapSize   int // side of maps created for portal frames on the agent
}

// WithDefaults returns c with every zero field replaced by its default.
func (c Config) WithDefaults() Config {
	def := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	def(&c.MovesPerRound, DefaultMovesPerRound)
	def(&c.XrayPoints, DefaultXrayPoints)
	def(&c.Visibility, DefaultVisibility)
	def(&c.MaxRedirects, DefaultMaxRedirects)
	def(&c.HistorySize, DefaultHistorySize)
	def(&c.DisguiseRadius, DefaultDisguiseRadius)
	def(&c.AgentMapSize, DefaultAgentMapSize)
	return c
}

// outcome is what resolving an effect tells the caller about the step.
type outcome uint8

const (
	noInfo outcome = iota
	succeeded
	failed
)

// step is one history entry.
type step struct {
	kind CommandKind
	dir  geom.Direction
}

// GameState is a single simulation instance. It is not safe for concurrent
// use; callers serialize access per agent.
type GameState struct {
	cfg    Config
	agent  bool
	frames []*Frame
	cur    FrameID
	pos    geom.Pos

	moves          int
	nextRoundMoves int
	xrayPoints     int
	xrayOn         int

	history []step

	// per-batch bookkeeping, cleared by NewRound
	visited      []Loc
	firstTrap    Loc
	hasFirstTrap bool

	inRewind            bool
	suppressWallPenalty bool

	// agent only: a forced movement left unfinished by the last command
	drift    Drift
	drifting bool
}

// Drift describes a forced movement the agent could not finish from what it
// knows. The server may have carried it up to Steps more cells in Dir. Exact
// is false when Steps is only a bound, as after entering a disguised trap.
type Drift struct {
	Dir   geom.Direction
	Steps int
	Exact bool
}

// New creates an authoritative state on m, positioned at its entrance. The
// state takes ownership of m.
func New(m *maze.Map, cfg Config) (*GameState, error) {
	entrance, ok := m.Entrance()
	if !ok {
		return nil, ErrNoEntrance
	}
	g := newState(cfg, false)
	g.cur = g.addFrame(m, NoFrame, geom.Pos{})
	g.pos = entrance
	return g, nil
}

// NewAgent creates an agent-side state on m, positioned at the map anchor.
func NewAgent(m *maze.Map, cfg Config) *GameState {
	g := newState(cfg, true)
	g.cur = g.addFrame(m, NoFrame, geom.Pos{})
	g.pos = m.Anchor()
	return g
}

func newState(cfg Config, agent bool) *GameState {
	cfg = cfg.WithDefaults()
	return &GameState{
		cfg:            cfg,
		agent:          agent,
		moves:          cfg.MovesPerRound,
		nextRoundMoves: cfg.MovesPerRound,
		xrayPoints:     cfg.XrayPoints,
	}
}

// Config returns the effective engine configuration.
func (g *GameState) Config() Config { return g.cfg }

// IsAgent reports whether this is an agent-side state.
func (g *GameState) IsAgent() bool { return g.agent }

// Pos returns the current position in the active frame.
func (g *GameState) Pos() geom.Pos { return g.pos }

// Loc returns the current position qualified by the active frame.
func (g *GameState) Loc() Loc { return Loc{Frame: g.cur, Pos: g.pos} }

// Map returns the map of the active frame.
func (g *GameState) Map() *maze.Map { return g.frames[g.cur].Map }

// Visits returns the search grid of the active frame, nil on the server.
func (g *GameState) Visits() *VisitGrid { return g.frames[g.cur].Visits }

// Moves returns the moves left in the current round.
func (g *GameState) Moves() int { return g.moves }

// SetMoves overrides the current-round budget.
func (g *GameState) SetMoves(n int) { g.moves = max(n, 0) }

// NextRoundMoves returns the allotment the next round will start with.
func (g *GameState) NextRoundMoves() int { return g.nextRoundMoves }

// SetNextRoundMoves overrides the next-round allotment.
func (g *GameState) SetNextRoundMoves(n int) { g.nextRoundMoves = max(n, 0) }

// XrayPoints returns the x-ray balance.
func (g *GameState) XrayPoints() int { return g.xrayPoints }

// SetXrayPoints overrides the x-ray balance.
func (g *GameState) SetXrayPoints(n int) { g.xrayPoints = max(n, 0) }

// XrayOn returns the visibility bonus bought this round.
func (g *GameState) XrayOn() int { return g.xrayOn }

// HistoryLen returns the number of steps available to rewind.
func (g *GameState) HistoryLen() int { return len(g.history) }

// Visited returns the locations entered since the last NewRound.
func (g *GameState) Visited() []Loc {
	return append([]Loc(nil), g.visited...)
}

// FirstTrap returns where the first position-affecting trap of the batch was
// entered.
func (g *GameState) FirstTrap() (Loc, bool) { return g.firstTrap, g.hasFirstTrap }

// ReachedExit reports whether the current cell is an exit.
func (g *GameState) ReachedExit() bool {
	return g.Map().At(g.pos) == tile.Exit
}

// PerformCommand applies one command. It returns ErrNoMovesLeft when the
// round budget is spent, and a fatal error when a trap cascade exceeds the
// redirect cap. A false result with a nil error is a recoverable failed step.
func (g *GameState) PerformCommand(c Command) (bool, error) {
	if g.moves <= 0 {
		return false, ErrNoMovesLeft
	}
	g.moves--
	g.drifting = false

	var (
		out outcome
		err error
	)
	switch c.Kind {
	case CmdMove:
		if !c.Dir.IsCardinal() {
			return false, fmt.Errorf("%w: move %s", ErrInvalidCommand, c.Dir)
		}
		out, err = g.move(c.Dir, g.cfg.MaxRedirects, true)
	case CmdXray:
		out = g.useXray()
	case CmdPortal:
		out, err = g.enterPortal(true)
	case CmdNoOp:
		out = succeeded
	default:
		return false, fmt.Errorf("%w: kind %d", ErrInvalidCommand, c.Kind)
	}
	if err != nil {
		return false, err
	}
	return out != failed, nil
}

// Clone returns an independent deep copy of g.
func (g *GameState) Clone() *GameState {
	c := *g
	c.frames = make([]*Frame, len(g.frames))
	for i, f := range g.frames {
		c.frames[i] = f.clone()
	}
	c.history = append([]step(nil), g.history...)
	c.visited = append([]Loc(nil), g.visited...)
	return &c
}

// Drift returns the forced movement the last command left unfinished on the
// agent.
func (g *GameState) Drift() (Drift, bool) { return g.drift, g.drifting }

func (g *GameState) setDrift(d geom.Direction, steps int, exact bool) {
	if g.drifting {
		return
	}
	g.drift = Drift{Dir: d, Steps: steps, Exact: exact}
	g.drifting = true
}

// Relocate puts the agent on p in the active frame without resolving the tile
// there, for when a view from the server shows it standing somewhere other
// than where replay left it. A straight shift is recorded as forced steps so a
// later rewind retraces it.
func (g *GameState) Relocate(p geom.Pos) {
	g.drifting = false
	if p == g.pos {
		return
	}
	if d, n, ok := straight(g.pos, p); ok {
		for range n {
			g.pushHistory(step{kind: CmdMove, dir: d})
		}
	}
	g.pos = p
	g.visited = append(g.visited, g.Loc())
}

func straight(src, dst geom.Pos) (geom.Direction, int, bool) {
	dist := src.Manhattan(dst)
	for _, d := range geom.Cardinals {
		p := src
		for n := 1; n <= dist; n++ {
			p = p.Step(d)
			if p == dst {
				return d, n, true
			}
		}
	}
	return 0, 0, false
}

// NewRound starts the next round: the pending allotment becomes the budget,
// the allotment resets and the per-batch bookkeeping is cleared.
func (g *GameState) NewRound() {
	g.moves = g.nextRoundMoves
	g.nextRoundMoves = g.cfg.MovesPerRound
	g.xrayOn = 0
	g.visited = g.visited[:0]
	g.hasFirstTrap = false
}

// penalize takes n moves from the next round, or gives them back while a
// rewind is undoing earlier steps. The allotment never goes negative.
func (g *GameState) penalize(n int) {
	if g.inRewind {
		g.nextRoundMoves += n
		return
	}
	g.nextRoundMoves = max(g.nextRoundMoves-n, 0)
}

func (g *GameState) pushHistory(s step) {
	g.history = append(g.history, s)
	if over := len(g.history) - g.cfg.HistorySize; over > 0 {
		g.history = append(g.history[:0], g.history[over:]...)
	}
}

func (g *GameState) popHistory() (step, bool) {
	if len(g.history) == 0 {
		return step{}, false
	}
	s := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	return s, true
}

// Mark captures the parts of the state a replayed step may need to undo.
type Mark struct {
	cur          FrameID
	pos          geom.Pos
	visited      int
	history      []step
	firstTrap    Loc
	hasFirstTrap bool
	drift        Drift
	drifting     bool
}

// Mark records the current frame, position and bookkeeping.
func (g *GameState) Mark() Mark {
	return Mark{
		cur:          g.cur,
		pos:          g.pos,
		visited:      len(g.visited),
		history:      append([]step(nil), g.history...),
		firstTrap:    g.firstTrap,
		hasFirstTrap: g.hasFirstTrap,
		drift:        g.drift,
		drifting:     g.drifting,
	}
}

// Rollback returns to a mark. Budgets, x-ray points and map contents are
// left alone.
func (g *GameState) Rollback(m Mark) {
	g.cur = m.cur
	g.pos = m.pos
	if m.visited <= len(g.visited) {
		g.visited = g.visited[:m.visited]
	}
	g.history = m.history
	g.firstTrap = m.firstTrap
	g.hasFirstTrap = m.hasFirstTrap
	g.drift = m.drift
	g.drifting = m.drifting
}
