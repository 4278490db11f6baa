package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/trapmaze/domain"
	"github.com/beka-birhanu/trapmaze/game"
	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/game/maze"
	"github.com/beka-birhanu/trapmaze/protocol"
	"github.com/beka-birhanu/trapmaze/service/i"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const defaultIdleTimeout = 300 * time.Second

// Session errors.
var (
	ErrUnknownAgent = errors.New("unknown agent")
	ErrInvalidID    = errors.New("invalid agent id")
	ErrMissingDep   = errors.New("missing dependency")
)

type session struct {
	state     *game.GameState
	startedAt time.Time
	xrayStart int
	rounds    int
	commands  int
}

// GameSessionManager hosts one authoritative GameState per agent id.
type GameSessionManager struct {
	maze        *maze.Map
	mazeFile    string
	entrance    geom.Pos
	gameConfig  game.Config
	friendly    bool
	idleTimeout time.Duration

	locker   i.Locker
	contacts i.ContactStore
	results  i.ResultRepo
	events   i.EventPublisher
	logger   *log.Entry
	now      func() time.Time

	sessions map[string]*session
	sync.RWMutex
}

// Config holds the dependencies of a GameSessionManager. Results and Events
// may be nil.
type Config struct {
	Maze        *maze.Map
	MazeFile    string
	Game        game.Config
	Friendly    bool          // send undisguised views and the start position
	IdleTimeout time.Duration // zero means five minutes

	Locker   i.Locker
	Contacts i.ContactStore
	Results  i.ResultRepo
	Events   i.EventPublisher
	Logger   *log.Entry
	Clock    func() time.Time
}

// NewGameSessionManager validates c and returns a manager serving c.Maze.
func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	switch {
	case c.Maze == nil:
		return nil, fmt.Errorf("%w: maze", ErrMissingDep)
	case c.Locker == nil:
		return nil, fmt.Errorf("%w: locker", ErrMissingDep)
	case c.Contacts == nil:
		return nil, fmt.Errorf("%w: contact store", ErrMissingDep)
	case c.Logger == nil:
		return nil, fmt.Errorf("%w: logger", ErrMissingDep)
	}

	entrance, ok := c.Maze.Entrance()
	if !ok {
		return nil, game.ErrNoEntrance
	}

	gsm := &GameSessionManager{
		maze:        c.Maze,
		mazeFile:    c.MazeFile,
		entrance:    entrance,
		gameConfig:  c.Game.WithDefaults(),
		friendly:    c.Friendly,
		idleTimeout: c.IdleTimeout,
		locker:      c.Locker,
		contacts:    c.Contacts,
		results:     c.Results,
		events:      c.Events,
		logger:      c.Logger,
		now:         c.Clock,
		sessions:    make(map[string]*session),
	}
	if gsm.idleTimeout <= 0 {
		gsm.idleTimeout = defaultIdleTimeout
	}
	if gsm.now == nil {
		gsm.now = time.Now
	}
	return gsm, nil
}

// Register creates a session on a fresh copy of the maze. An empty id asks
// for a new one. Registering an id that already has a live session rejoins
// it: the response describes the game where the agent left it.
func (g *GameSessionManager) Register(ctx context.Context, id string) (*protocol.RegisterResponse, error) {
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	unlock, err := g.locker.Lock(ctx, lockKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	g.Lock()
	s, rejoined := g.sessions[id]
	if !rejoined {
		state, err := game.New(g.maze.Clone(), g.gameConfig)
		if err != nil {
			g.Unlock()
			return nil, err
		}
		s = &session{state: state, startedAt: g.now(), xrayStart: state.XrayPoints()}
		g.sessions[id] = s
	}
	g.Unlock()

	if err := g.contacts.Touch(ctx, id, g.now()); err != nil {
		if !rejoined {
			g.drop(id)
		}
		return nil, err
	}

	state := s.state
	resp := &protocol.RegisterResponse{
		UUID:       id,
		Moves:      protocol.Int(state.Moves()),
		XrayPoints: protocol.Int(state.XrayPoints()),
		View:       protocol.FormatView(state.View(!g.friendly)),
	}
	if g.friendly {
		pos := state.Pos()
		resp.X = protocol.Int(pos.Col)
		resp.Y = protocol.Int(pos.Row)
		resp.Width = protocol.Int(g.maze.Width())
		resp.Height = protocol.Int(g.maze.Height())
	}

	if rejoined {
		g.logger.Infof("agent %s rejoined", id)
	} else {
		g.logger.Infof("registered agent %s", id)
	}
	return resp, nil
}

// ReceiveMoves applies one batch to the agent's game. Every command is
// reported with its outcome and the view after it; commands past the round
// budget fail. Reaching the exit ends the game with end "1", and a session
// idle for longer than the timeout ends with end "0".
func (g *GameSessionManager) ReceiveMoves(ctx context.Context, id, input string) (*protocol.MovesResponse, error) {
	cmds, err := game.ParseBatch(input)
	if err != nil {
		return nil, err
	}

	unlock, err := g.locker.Lock(ctx, lockKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	g.RLock()
	s, ok := g.sessions[id]
	g.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, id)
	}

	now := g.now()
	last, seen, err := g.contacts.LastContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if !seen || now.Sub(last) > g.idleTimeout {
		g.logger.Infof("agent %s timed out", id)
		g.finish(ctx, id, s, false)
		return &protocol.MovesResponse{End: protocol.FlagFalse}, nil
	}

	// a batch that breaks the engine leaves the game as it was before it
	before := s.state.Clone()
	resp := &protocol.MovesResponse{Commands: make([]protocol.CommandResult, 0, len(cmds))}
	var moved []protocol.MoveEvent
	for _, c := range cmds {
		ok, err := s.state.PerformCommand(c)
		if err != nil && !errors.Is(err, game.ErrNoMovesLeft) {
			g.logger.Errorf("agent %s: %s: %v", id, c, err)
			s.state = before
			return nil, err
		}

		resp.Commands = append(resp.Commands, protocol.CommandResult{
			Name:       c.Token(),
			Successful: protocol.Flag(ok),
			View:       protocol.FormatView(s.state.View(!g.friendly)),
		})
		if ok {
			moved = append(moved, protocol.MoveEvent{Agent: id, Command: c.Token()})
		}
		if s.state.ReachedExit() {
			break
		}
	}
	if g.events != nil {
		for _, e := range moved {
			g.events.Publish(e)
		}
	}
	s.rounds++
	s.commands += len(resp.Commands)

	if s.state.ReachedExit() {
		g.logger.Infof("agent %s reached the exit after %d rounds", id, s.rounds)
		g.finish(ctx, id, s, true)
		resp.End = protocol.FlagTrue
		return resp, nil
	}

	resp.Moves = protocol.Int(s.state.NextRoundMoves())
	s.state.NewRound()
	if err := g.contacts.Touch(ctx, id, now); err != nil {
		g.logger.Warnf("recording contact for %s: %v", id, err)
	}
	return resp, nil
}

// Position describes the entrance and the loaded maze.
func (g *GameSessionManager) Position() protocol.PositionResponse {
	return protocol.PositionResponse{
		EntranceX: protocol.Int(g.entrance.Col),
		EntranceY: protocol.Int(g.entrance.Row),
		MazeFile:  g.mazeFile,
	}
}

// Sessions returns the number of live sessions.
func (g *GameSessionManager) Sessions() int {
	g.RLock()
	defer g.RUnlock()
	return len(g.sessions)
}

// finish records the run and drops the session.
func (g *GameSessionManager) finish(ctx context.Context, id string, s *session, solved bool) {
	g.drop(id)
	if err := g.contacts.Forget(ctx, id); err != nil {
		g.logger.Warnf("forgetting contact for %s: %v", id, err)
	}
	if g.results == nil {
		return
	}

	rid, err := uuid.Parse(id)
	if err != nil {
		g.logger.Errorf("recording result for %s: %v", id, err)
		return
	}
	r := &dmn.Result{
		ID:         rid,
		MazeFile:   g.mazeFile,
		Solved:     solved,
		Rounds:     s.rounds,
		Commands:   s.commands,
		XrayUsed:   s.xrayStart - s.state.XrayPoints(),
		StartedAt:  s.startedAt,
		FinishedAt: g.now(),
	}
	if err := g.results.Save(ctx, r); err != nil {
		g.logger.Errorf("recording result for %s: %v", id, err)
	}
}

func (g *GameSessionManager) drop(id string) {
	g.Lock()
	defer g.Unlock()
	delete(g.sessions, id)
}

func lockKey(id string) string { return "trapmaze:agent:" + id }
