package agent

import (
	"testing"

	"github.com/beka-birhanu/trapmaze/game"
	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/game/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// knownAgent returns an agent state that already knows the whole map and
// stands on its entrance.
func knownAgent(t *testing.T, rows [][]uint8) *game.GameState {
	t.Helper()
	m, err := maze.FromRows(rows)
	require.NoError(t, err)
	entrance, ok := m.Entrance()
	require.True(t, ok)
	m.SetAnchor(entrance)

	g := game.NewAgent(m, game.Config{})
	g.Visits().Node(entrance).Open()
	return g
}

func tokens(cmds []game.Command) string { return game.FormatBatch(cmds) }

func TestPlanHaltsNextToUnknownCells(t *testing.T) {
	m, err := game.NewAgentMap(9)
	require.NoError(t, err)
	g := game.NewAgent(m, game.Config{})
	g.Visits().Node(g.Pos()).Open()

	pl, err := NewPlanner(0).Plan(g)
	require.NoError(t, err)
	assert.Empty(t, pl.Commands)
	assert.Equal(t, []game.Command{game.UseXray()}, fallback(g, pl.Commands))

	g.SetXrayPoints(0)
	assert.Equal(t, []game.Command{game.Move(geom.North)}, fallback(g, pl.Commands))

	g.SetMoves(0)
	assert.Empty(t, fallback(g, pl.Commands))
}

func TestPlanLeavesStateUntouched(t *testing.T) {
	g := knownAgent(t, [][]uint8{
		{0, 0, 0, 0, 0},
		{0, 64, 255, 255, 0},
		{0, 0, 0, 182, 0},
		{0, 0, 0, 0, 0},
	})

	pl, err := NewPlanner(0).Plan(g)
	require.NoError(t, err)
	assert.Equal(t, "EES", tokens(pl.Commands))
	assert.Equal(t, []game.Loc{
		{Pos: geom.P(1, 2)}, {Pos: geom.P(1, 3)}, {Pos: geom.P(2, 3)},
	}, pl.Visited())

	assert.Equal(t, geom.P(1, 1), g.Pos())
	assert.Equal(t, game.StatusNew, g.Visits().Get(geom.P(1, 2)).Status())
	assert.False(t, g.Visits().Get(geom.P(1, 1)).Tried(geom.East))
}

func TestPlanRespectsMoveBudget(t *testing.T) {
	g := knownAgent(t, [][]uint8{
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 64, 255, 255, 255, 255, 182, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
	})
	g.SetMoves(3)

	pl, err := NewPlanner(0).Plan(g)
	require.NoError(t, err)
	assert.Equal(t, "EEE", tokens(pl.Commands))
}

func TestPlanStopsOnTrapReachedDuringBatch(t *testing.T) {
	g := knownAgent(t, [][]uint8{
		{0, 0, 0, 0, 0, 0},
		{0, 64, 107, 255, 182, 0},
		{0, 0, 0, 0, 0, 0},
	})

	pl, err := NewPlanner(0).Plan(g)
	require.NoError(t, err)
	assert.Equal(t, "E", tokens(pl.Commands))
}

func TestPlanWalksOverMovesTraps(t *testing.T) {
	g := knownAgent(t, [][]uint8{
		{0, 0, 0, 0, 0, 0},
		{0, 64, 97, 255, 182, 0},
		{0, 0, 0, 0, 0, 0},
	})

	pl, err := NewPlanner(0).Plan(g)
	require.NoError(t, err)
	assert.Equal(t, "EEE", tokens(pl.Commands))
}

func TestPlanAvoidsBlockingTraps(t *testing.T) {
	g := knownAgent(t, [][]uint8{
		{0, 0, 0, 0, 0},
		{0, 64, 112, 182, 0},
		{0, 255, 255, 255, 0},
		{0, 0, 0, 0, 0},
	})

	pl, err := NewPlanner(0).Plan(g)
	require.NoError(t, err)
	assert.Equal(t, "SEEN", tokens(pl.Commands))
}

func TestPlanEntersUntriedPortal(t *testing.T) {
	g := knownAgent(t, [][]uint8{
		{0, 0, 0, 0},
		{0, 64, 150, 0},
		{0, 0, 0, 0},
	})

	pl, err := NewPlanner(0).Plan(g)
	require.NoError(t, err)
	assert.Equal(t, "EP", tokens(pl.Commands))
}

func TestPlanDetectsSealedEntrance(t *testing.T) {
	g := knownAgent(t, [][]uint8{
		{0, 0, 0, 0, 0},
		{0, 64, 255, 0, 0},
		{0, 0, 0, 182, 0},
		{0, 0, 0, 0, 0},
	})

	_, err := NewPlanner(0).Plan(g)
	assert.ErrorIs(t, err, ErrImpossibleMaze)
}

func TestCheckPathLookaheadBudget(t *testing.T) {
	g := knownAgent(t, [][]uint8{
		{0, 0, 0, 0, 0, 0, 0},
		{0, 64, 255, 255, 255, 255, 0},
		{0, 0, 0, 0, 0, 0, 0},
	})

	pl, err := NewPlanner(0).Plan(g)
	require.ErrorIs(t, err, ErrImpossibleMaze)
	assert.False(t, pl.checkPath(geom.P(1, 2), geom.P(1, 1)))

	pl.lookahead = 2
	assert.True(t, pl.checkPath(geom.P(1, 2), geom.P(1, 1)), "an exhausted budget answers reachable")
}
