package agent

import (
	"testing"

	"github.com/beka-birhanu/trapmaze/game"
	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/logger"
	"github.com/beka-birhanu/trapmaze/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func results(pairs ...string) []protocol.CommandResult {
	var out []protocol.CommandResult
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, protocol.CommandResult{Name: pairs[i], Successful: pairs[i+1]})
	}
	return out
}

func TestReconcileCommitsConfirmedBatch(t *testing.T) {
	g := knownAgent(t, [][]uint8{
		{0, 0, 0, 0, 0, 0},
		{0, 64, 255, 255, 182, 0},
		{0, 0, 0, 0, 0, 0},
	})
	g.SetMoves(2)
	a := &Agent{log: logger.Discard()}

	pl, err := NewPlanner(0).Plan(g)
	require.NoError(t, err)
	require.Equal(t, "EE", tokens(pl.Commands))

	err = a.Reconcile(g, pl, &protocol.MovesResponse{Commands: results("E", "1", "E", "1"), Moves: "7"})
	require.NoError(t, err)

	assert.Equal(t, geom.P(1, 3), g.Pos())
	assert.Equal(t, 7, g.Moves())
	assert.Empty(t, g.Visited())

	start := g.Visits().Get(geom.P(1, 1))
	assert.True(t, start.Tried(geom.East))
	assert.True(t, start.Tried(geom.West))

	mid := g.Visits().Get(geom.P(1, 2))
	assert.Equal(t, game.StatusOpen, mid.Status())
	parent, ok := mid.Parent()
	assert.True(t, ok)
	assert.Equal(t, geom.P(1, 1), parent)
	assert.True(t, mid.Tried(geom.East))
}

func TestReconcileKeepsOnlyTentativeStateAfterTrap(t *testing.T) {
	g := knownAgent(t, [][]uint8{
		{0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 64, 255, 107, 255, 255, 255, 182, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0},
	})
	a := &Agent{log: logger.Discard()}

	pl, err := NewPlanner(0).Plan(g)
	require.NoError(t, err)
	require.Equal(t, "EE", tokens(pl.Commands))

	err = a.Reconcile(g, pl, &protocol.MovesResponse{Commands: results("E", "1", "E", "1"), Moves: "10"})
	require.NoError(t, err)

	assert.Equal(t, geom.P(1, 5), g.Pos(), "the forward trap pushed two cells")

	trap := g.Visits().Get(geom.P(1, 3))
	assert.Equal(t, game.StatusOpen, trap.Status())
	assert.False(t, trap.Tried(geom.West), "speculative flags past the trap are dropped")

	for _, c := range []int{4, 5} {
		n := g.Visits().Get(geom.P(1, c))
		assert.Equal(t, game.StatusOpen, n.Status())
		parent, ok := n.Parent()
		assert.True(t, ok)
		assert.Equal(t, geom.P(1, c-1), parent)
	}
}

func TestReconcileRevertsStepTheServerRejected(t *testing.T) {
	g := knownAgent(t, [][]uint8{
		{0, 0, 0, 0, 0},
		{0, 64, 255, 182, 0},
		{0, 0, 0, 0, 0},
	})
	a := &Agent{log: logger.Discard()}

	pl, err := NewPlanner(0).Plan(g)
	require.NoError(t, err)

	err = a.Reconcile(g, pl, &protocol.MovesResponse{Commands: results("E", "0"), Moves: "10"})
	require.NoError(t, err)
	assert.Equal(t, geom.P(1, 1), g.Pos())
	assert.Equal(t, game.StatusNew, g.Visits().Get(geom.P(1, 2)).Status())
	assert.True(t, g.Visits().Get(geom.P(1, 1)).Tried(geom.East))
}

func TestReconcileMergesViews(t *testing.T) {
	m, err := game.NewAgentMap(9)
	require.NoError(t, err)
	g := game.NewAgent(m, game.Config{})
	a := &Agent{log: logger.Discard()}

	pl, err := NewPlanner(0).Plan(g)
	require.NoError(t, err)

	resp := &protocol.MovesResponse{
		Commands: []protocol.CommandResult{{Name: "X", Successful: "1", View: "[0, 0, 0; 0, 64, 255; 0, 0, 0]"}},
		Moves:    "10",
	}
	require.NoError(t, a.Reconcile(g, pl, resp))
	assert.Equal(t, uint8(255), g.Map().At(geom.P(4, 5)))
	assert.Equal(t, game.StatusWall, g.Visits().Get(geom.P(3, 4)).Status())
	assert.Equal(t, 9, g.XrayPoints())
}

func TestReconcileRejectsBadMoves(t *testing.T) {
	m, err := game.NewAgentMap(9)
	require.NoError(t, err)
	g := game.NewAgent(m, game.Config{})
	a := &Agent{log: logger.Discard()}

	pl, err := NewPlanner(0).Plan(g)
	require.NoError(t, err)
	assert.Error(t, a.Reconcile(g, pl, &protocol.MovesResponse{Moves: "many"}))
}
