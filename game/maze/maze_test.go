package maze

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/game/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() [][]uint8 {
	return [][]uint8{
		{0, 0, 0, 0, 0},
		{0, 64, 255, 150, 0},
		{0, 98, 16, 255, 0},
		{0, 150, 255, 182, 0},
		{0, 0, 0, 0, 0},
	}
}

func TestNewRejectsBadDimensions(t *testing.T) {
	_, err := New(0, 5, tile.Path)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = New(5, maxMazeDimension+1, tile.Path)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestFromRows(t *testing.T) {
	m, err := FromRows(sampleRows())
	require.NoError(t, err)

	assert.Equal(t, 5, m.Width())
	assert.Equal(t, 5, m.Height())
	assert.Equal(t, sampleRows(), m.Rows())

	_, err = FromRows([][]uint8{{0, 0}, {0}})
	assert.ErrorIs(t, err, ErrRaggedRows)
}

func TestAtOutOfBoundsIsWall(t *testing.T) {
	m, err := New(3, 3, tile.Path)
	require.NoError(t, err)

	assert.Equal(t, tile.Path, m.At(geom.P(1, 1)))
	for _, p := range []geom.Pos{geom.P(-1, 0), geom.P(0, -1), geom.P(3, 0), geom.P(0, 3)} {
		assert.Equal(t, tile.Wall, m.At(p), p.String())
		assert.False(t, m.Set(p, tile.Path), p.String())
	}
}

func TestEntranceAndExit(t *testing.T) {
	m, err := FromRows(sampleRows())
	require.NoError(t, err)

	e, ok := m.Entrance()
	require.True(t, ok)
	assert.Equal(t, geom.P(1, 1), e)

	x, ok := m.Exit()
	require.True(t, ok)
	assert.Equal(t, geom.P(3, 3), x)

	blank, _ := New(2, 2, tile.Path)
	_, ok = blank.Exit()
	assert.False(t, ok)
}

func TestPortalPairingIsSymmetric(t *testing.T) {
	m, err := FromRows(sampleRows())
	require.NoError(t, err)

	a, b := geom.P(1, 3), geom.P(3, 1)
	got, ok := m.Pair(a)
	require.True(t, ok)
	assert.Equal(t, b, got)

	got, ok = m.Pair(b)
	require.True(t, ok)
	assert.Equal(t, a, got)

	_, ok = m.Pair(geom.P(2, 2))
	assert.False(t, ok, "non-portal has no pair")
}

func TestPortalIndexFollowsSet(t *testing.T) {
	m, err := FromRows(sampleRows())
	require.NoError(t, err)

	m.Set(geom.P(3, 1), tile.Path)
	_, ok := m.Pair(geom.P(1, 3))
	assert.False(t, ok, "lone portal is unpaired")

	m.Set(geom.P(2, 3), 150)
	got, ok := m.Pair(geom.P(1, 3))
	require.True(t, ok)
	assert.Equal(t, geom.P(2, 3), got)
}

func TestValidate(t *testing.T) {
	m, err := FromRows(sampleRows())
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	m.Set(geom.P(2, 2), 2)
	assert.ErrorIs(t, m.Validate(), ErrUndefinedCode)

	m.Set(geom.P(2, 2), 150)
	assert.ErrorIs(t, m.Validate(), ErrPortalOverused)
}

func TestCloneIsIndependent(t *testing.T) {
	m, err := FromRows(sampleRows())
	require.NoError(t, err)

	c := m.Clone()
	c.Set(geom.P(2, 2), tile.Path)
	c.Set(geom.P(1, 3), tile.Path)

	assert.Equal(t, tile.Xray, m.At(geom.P(2, 2)))
	_, ok := m.Pair(geom.P(3, 1))
	assert.True(t, ok)
}

func TestImageRoundTrip(t *testing.T) {
	m, err := New(16, 16, tile.Path)
	require.NoError(t, err)
	for code := 0; code < 256; code++ {
		m.Set(geom.P(code/16, code%16), uint8(code))
	}

	for _, f := range []Format{FormatPNG, FormatBMP, FormatTIFF} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, m.Encode(&buf, f))

			got, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, m.Rows(), got.Rows())
		})
	}
}

func TestSaveLoad(t *testing.T) {
	m, err := FromRows(sampleRows())
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"maze.png", "maze.bmp", "maze.tiff"} {
		path := filepath.Join(dir, name)
		require.NoError(t, m.Save(path))

		got, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, m.Rows(), got.Rows(), name)

		_, ok := got.Pair(geom.P(1, 3))
		assert.True(t, ok, name)
	}
}

func TestLoadRejectsUndefinedCodes(t *testing.T) {
	m, err := New(2, 2, 3)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, m.Save(path))

	_, err = Load(path)
	assert.ErrorIs(t, err, ErrUndefinedCode)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatPNG, FormatFromPath("a.png"))
	assert.Equal(t, FormatPNG, FormatFromPath("a"))
	assert.Equal(t, FormatBMP, FormatFromPath("a.BMP"))
	assert.Equal(t, FormatTIFF, FormatFromPath("a.tif"))
}

func TestString(t *testing.T) {
	m, err := FromRows([][]uint8{{0, 64}, {255, 182}})
	require.NoError(t, err)
	assert.Equal(t, "#S\n.E\n", m.String())
}
