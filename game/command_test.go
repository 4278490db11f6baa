package game

import (
	"strings"
	"testing"

	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBatch(t *testing.T) {
	cmds, err := ParseBatch("NXPSEW")
	require.NoError(t, err)

	assert.Equal(t, []Command{
		Move(geom.North), UseXray(), EnterPortal(),
		Move(geom.South), Move(geom.East), Move(geom.West),
	}, cmds)
	assert.Equal(t, "NXPSEW", FormatBatch(cmds))
}

func TestParseBatchErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"unknown token", "NQ", ErrInvalidCommand},
		{"lower case", "n", ErrInvalidCommand},
		{"too long", strings.Repeat("N", MaxBatchSize+1), ErrBatchTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBatch(tt.input)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseBatchEmpty(t *testing.T) {
	cmds, err := ParseBatch("")
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestParseCommandEmptyIsNoOp(t *testing.T) {
	c, err := ParseCommand("")
	require.NoError(t, err)
	assert.Equal(t, CmdNoOp, c.Kind)
	assert.Equal(t, "", c.Token())
	assert.Equal(t, "NoOp", c.String())
}

func TestCommandFor(t *testing.T) {
	assert.Equal(t, EnterPortal(), CommandFor(geom.Portal))
	assert.Equal(t, Move(geom.West), CommandFor(geom.West))
}
