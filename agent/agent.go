/*
Package agent explores a trap maze it cannot see through a game server.

Each round the agent plans a batch with a depth-first search over what it
knows so far, sends it, replays the server's per-command results on its own
GameState and merges the returned views. Search bookkeeping lives in a
VisitGrid per frame; a plan works on speculative copies of the nodes it
touches and only the part of the batch that the server confirmed is written
back.
*/
package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beka-birhanu/trapmaze/game"
	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/game/maze"
	"github.com/beka-birhanu/trapmaze/game/tile"
	"github.com/beka-birhanu/trapmaze/logger"
	"github.com/beka-birhanu/trapmaze/protocol"
	"github.com/gookit/color"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxRounds caps a run that stops making progress.
const DefaultMaxRounds = 100000

// ErrRoundLimit is returned when a run exceeds its round cap.
var ErrRoundLimit = errors.New("round limit reached")

// Config configures an Agent. Only Transport is required.
type Config struct {
	Transport Transport
	Logger    *log.Entry
	Game      game.Config
	Lookahead int
	MaxRounds int

	// WaitForInput pauses before every send until a line is read from Input.
	WaitForInput bool
	Input        io.Reader
	Output       io.Writer
}

// Agent drives one exploration run.
type Agent struct {
	transport Transport
	planner   *Planner
	log       *log.Entry
	cfg       game.Config
	maxRounds int

	wait bool
	in   *bufio.Reader
	out  io.Writer
}

// Result summarizes a finished run.
type Result struct {
	ID         string
	Solved     bool
	Impossible bool
	Rounds     int
	Commands   int
	XrayUsed   int
}

// New validates c and returns an agent.
func New(c *Config) (*Agent, error) {
	if c.Transport == nil {
		return nil, errors.New("agent: transport is required")
	}

	a := &Agent{
		transport: c.Transport,
		planner:   NewPlanner(c.Lookahead),
		log:       c.Logger,
		cfg:       c.Game.WithDefaults(),
		maxRounds: c.MaxRounds,
		wait:      c.WaitForInput,
		out:       c.Output,
	}
	if a.log == nil {
		a.log = logger.Discard()
	}
	if a.maxRounds <= 0 {
		a.maxRounds = DefaultMaxRounds
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	in := c.Input
	if in == nil {
		in = os.Stdin
	}
	a.in = bufio.NewReader(in)
	return a, nil
}

// Run registers with the server and plays until the server ends the game or
// the search proves the exit unreachable.
func (a *Agent) Run(ctx context.Context) (*Result, error) {
	reg, err := a.transport.Register(ctx)
	if err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	g, err := a.newState(reg)
	if err != nil {
		return nil, err
	}
	a.log.Infof("registered as %s", reg.UUID)

	startXray := g.XrayPoints()
	res := &Result{ID: reg.UUID}
	finish := func() *Result {
		res.XrayUsed = startXray - g.XrayPoints()
		a.report(res)
		return res
	}

	for res.Rounds < a.maxRounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pl, err := a.planner.Plan(g)
		if errors.Is(err, ErrImpossibleMaze) {
			res.Impossible = true
			return finish(), nil
		}
		if err != nil {
			return nil, err
		}

		cmds := fallback(g, pl.Commands)
		input := game.FormatBatch(cmds)
		if err := a.pause(input); err != nil {
			return nil, err
		}

		a.log.Debugf("round %d at %s: sending %q", res.Rounds, g.Pos(), input)
		resp, err := a.transport.SendMoves(ctx, reg.UUID, input)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", res.Rounds, err)
		}
		res.Rounds++
		res.Commands += len(cmds)

		if resp.Ended() {
			for i, r := range resp.Commands {
				a.replay(g, i, r)
			}
			res.Solved = resp.Solved()
			return finish(), nil
		}

		err = a.Reconcile(g, pl, resp)
		if errors.Is(err, ErrImpossibleMaze) {
			res.Impossible = true
			return finish(), nil
		}
		if err != nil {
			return nil, err
		}
	}
	return finish(), ErrRoundLimit
}

// newState builds the agent's local GameState from the registration answer.
// With the start position and the maze size available the root frame matches
// the real maze; otherwise the agent starts in the middle of a blank map.
func (a *Agent) newState(reg *protocol.RegisterResponse) (*game.GameState, error) {
	var (
		m   *maze.Map
		err error
	)
	if reg.Width != "" && reg.Height != "" {
		m, err = friendlyMap(reg)
	} else {
		m, err = game.NewAgentMap(a.cfg.AgentMapSize)
	}
	if err != nil {
		return nil, err
	}

	g := game.NewAgent(m, a.cfg)
	moves, err := protocol.ParseInt(reg.Moves, a.cfg.MovesPerRound)
	if err != nil {
		return nil, fmt.Errorf("moves %q: %w", reg.Moves, err)
	}
	xray, err := protocol.ParseInt(reg.XrayPoints, a.cfg.XrayPoints)
	if err != nil {
		return nil, fmt.Errorf("xray_points %q: %w", reg.XrayPoints, err)
	}
	g.SetMoves(moves)
	g.SetXrayPoints(xray)
	g.Visits().Node(g.Pos()).Open()

	view, err := protocol.ParseView(reg.View)
	if err != nil {
		return nil, err
	}
	if err := g.AddView(view); err != nil {
		return nil, err
	}
	return g, nil
}

func friendlyMap(reg *protocol.RegisterResponse) (*maze.Map, error) {
	var v [4]int
	for i, s := range []string{reg.X, reg.Y, reg.Width, reg.Height} {
		n, err := protocol.ParseInt(s, 0)
		if err != nil {
			return nil, fmt.Errorf("registration field %q: %w", s, err)
		}
		v[i] = n
	}

	m, err := maze.New(v[2], v[3], tile.Unknown)
	if err != nil {
		return nil, err
	}
	start := geom.P(v[1], v[0])
	if !m.InBounds(start) {
		return nil, fmt.Errorf("start %s outside %dx%d map", start, v[2], v[3])
	}
	m.SetAnchor(start)
	m.Set(start, tile.Entrance)
	return m, nil
}

// fallback replaces an empty batch so the round still produces new
// information: an x-ray while points remain, otherwise a blind step north.
func fallback(g *game.GameState, cmds []game.Command) []game.Command {
	if len(cmds) > 0 || g.Moves() == 0 {
		return cmds
	}
	if g.XrayPoints() > 0 {
		return []game.Command{game.UseXray()}
	}
	return []game.Command{game.Move(geom.North)}
}

func (a *Agent) pause(input string) error {
	if !a.wait {
		return nil
	}
	fmt.Fprintf(a.out, "Sending %q\nPress Enter to continue...", input)
	if _, err := a.in.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (a *Agent) report(res *Result) {
	bold := color.Style{color.OpBold}
	fmt.Fprintf(a.out, "%s %d\n", bold.Sprint("X-Ray points used:"), res.XrayUsed)
	switch {
	case res.Solved:
		fmt.Fprintln(a.out, color.Style{color.FgGreen, color.OpBold}.Sprint("Maze solved!"))
	case res.Impossible:
		fmt.Fprintln(a.out, color.Style{color.FgYellow, color.OpBold}.Sprint("Maze is impossible."))
	default:
		fmt.Fprintln(a.out, color.Red.Sprint("Maze failed..."))
	}
	a.log.WithFields(log.Fields{
		"rounds":   res.Rounds,
		"commands": res.Commands,
		"solved":   res.Solved,
	}).Info("run finished")
}
