package game

import (
	"testing"

	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/game/maze"
	"github.com/beka-birhanu/trapmaze/game/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewOutOfBoundsIsWall(t *testing.T) {
	g := corridor(t, Config{}, tile.Entrance, tile.Path)
	v := g.View(false)

	require.Len(t, v, 5)
	assert.Equal(t, tile.Wall, v[0][0])
	assert.Equal(t, tile.Entrance, v[2][2])
	assert.Equal(t, tile.Path, v[2][3])
}

func TestVisibilityOnFogAndTower(t *testing.T) {
	g := corridor(t, Config{}, tile.Entrance, tile.Fog, tile.Tower)

	perform(t, g, "E")
	assert.Equal(t, 1, g.Visibility())
	assert.Len(t, g.View(false), 3)

	perform(t, g, "E")
	assert.Equal(t, 3, g.Visibility())
}

func TestViewDisguise(t *testing.T) {
	m, err := maze.New(7, 7, tile.Path)
	require.NoError(t, err)
	m.Set(geom.P(3, 3), tile.Entrance)
	m.Set(geom.P(2, 2), 98)
	m.Set(geom.P(3, 5), 102)
	m.Set(geom.P(3, 6), 107)

	g, err := New(m, Config{Visibility: 3})
	require.NoError(t, err)

	plain := g.View(false)
	assert.Equal(t, uint8(98), plain[2][2])
	assert.Equal(t, uint8(102), plain[3][5])
	assert.Equal(t, uint8(107), plain[3][6])

	v := g.View(true)
	assert.Equal(t, uint8(98), v[2][2], "adjacent trap shows its code")
	assert.Equal(t, tile.UnknownTrap, v[3][5], "trap within radius is disguised")
	assert.Equal(t, tile.Path, v[3][6], "far trap reads as path")
	assert.Equal(t, tile.Entrance, v[3][3])
}

func square(size int, fill uint8) [][]uint8 {
	v := make([][]uint8, size)
	for i := range v {
		v[i] = make([]uint8, size)
		for j := range v[i] {
			v[i][j] = fill
		}
	}
	return v
}

func TestAddViewWritesAroundPosition(t *testing.T) {
	g := agentState(t)
	v := square(5, tile.Path)
	v[0][0] = tile.Wall
	v[2][2] = tile.Entrance
	v[2][3] = 98

	require.NoError(t, g.AddView(v))
	assert.Equal(t, tile.Wall, g.Map().At(geom.P(2, 2)))
	assert.Equal(t, StatusWall, g.Visits().Get(geom.P(2, 2)).Status())
	assert.Equal(t, uint8(98), g.Map().At(geom.P(4, 5)))
	assert.Equal(t, tile.Path, g.Map().At(geom.P(6, 6)))
	assert.Equal(t, tile.Unknown, g.Map().At(geom.P(7, 7)))
}

func TestAddViewTrapRules(t *testing.T) {
	g := agentState(t)

	v := square(5, tile.Path)
	v[2][2] = tile.Entrance
	v[2][3] = 98
	v[1][1] = tile.UnknownTrap
	require.NoError(t, g.AddView(v))

	v = square(5, tile.Path)
	v[2][2] = tile.Entrance
	require.NoError(t, g.AddView(v))
	assert.Equal(t, uint8(98), g.Map().At(geom.P(4, 5)), "known trap is kept")
	assert.Equal(t, tile.UnknownTrap, g.Map().At(geom.P(3, 3)), "unknown trap is not downgraded to path")

	v[1][1] = 103
	require.NoError(t, g.AddView(v))
	assert.Equal(t, uint8(103), g.Map().At(geom.P(3, 3)))
}

func TestAddViewRejectsBadShapes(t *testing.T) {
	g := agentState(t)

	assert.ErrorIs(t, g.AddView(square(4, tile.Path)), ErrBadView)
	assert.ErrorIs(t, g.AddView([][]uint8{{1, 1, 1}, {1}, {1, 1, 1}}), ErrBadView)
	assert.NoError(t, g.AddView(nil))
}

func TestAddViewOnServerSkipsVisits(t *testing.T) {
	g := corridor(t, Config{}, tile.Entrance, tile.Path)
	assert.Nil(t, g.Visits())
	assert.NoError(t, g.AddView(g.View(false)))
}
