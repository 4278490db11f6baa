package tile

import (
	"testing"

	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownCodes(t *testing.T) {
	tests := []struct {
		code uint8
		kind Kind
	}{
		{Wall, KindWall},
		{Unknown, KindUnknown},
		{Xray, KindXray},
		{Fog, KindFog},
		{Entrance, KindEntrance},
		{UnknownTrap, KindUnknownTrap},
		{96, KindMovesTrap},
		{100, KindMovesTrap},
		{101, KindRewindTrap},
		{105, KindRewindTrap},
		{106, KindForwardTrap},
		{110, KindForwardTrap},
		{111, KindBackwardTrap},
		{115, KindBackwardTrap},
		{PortalFirst, KindPortal},
		{PortalLast, KindPortal},
		{Exit, KindExit},
		{Tower, KindTower},
		{Path, KindPath},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, ok := Lookup(tt.code)
			require.True(t, ok)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func TestLookupUndefinedCodes(t *testing.T) {
	for _, code := range []uint8{2, 15, 91, 95, 116, 149, 170, 254} {
		_, ok := Lookup(code)
		assert.False(t, ok, "code %d", code)
		assert.Equal(t, KindNone, KindOf(code))
	}
}

func TestTrapStrength(t *testing.T) {
	for _, first := range []uint8{MovesTrapFirst, RewindTrapFirst, ForwardTrapFirst, BackwardTrapFirst} {
		for i := uint8(0); i < 5; i++ {
			tl, ok := Lookup(first + i)
			require.True(t, ok)
			assert.Equal(t, int(i)+1, tl.Strength(), "code %d", first+i)
		}
	}

	p, _ := Lookup(Path)
	assert.Zero(t, p.Strength())
}

func TestVisitEffects(t *testing.T) {
	tests := []struct {
		name     string
		code     uint8
		kind     EffectKind
		strength int
	}{
		{"path", Path, NoEffect, 0},
		{"wall", Wall, WallEffect, 0},
		{"xray", Xray, XrayEffect, 0},
		{"moves", 98, MovesDecreaseEffect, 3},
		{"rewind", 102, RewindEffect, 2},
		{"forward", 110, PushForwardEffect, 5},
		{"backward", 111, PushBackwardEffect, 1},
		{"portal", 155, NoEffect, 0},
		{"unknown trap", UnknownTrap, NoEffect, 0},
		{"exit", Exit, NoEffect, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl, ok := Lookup(tt.code)
			require.True(t, ok)
			e := tl.Visit(geom.East)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.strength, e.Strength)
			assert.Equal(t, geom.East, e.Dir)
		})
	}
}

func TestPushDir(t *testing.T) {
	assert.Equal(t, geom.North, Effect{Kind: PushForwardEffect, Dir: geom.North}.PushDir())
	assert.Equal(t, geom.South, Effect{Kind: PushBackwardEffect, Dir: geom.North}.PushDir())
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, KindUnknownTrap.IsTrap())
	assert.True(t, KindBackwardTrap.IsTrap())
	assert.False(t, KindPortal.IsTrap())
	assert.False(t, KindWall.IsTrap())

	assert.True(t, KindWall.Blocks())
	assert.True(t, KindRewindTrap.Blocks())
	assert.True(t, KindBackwardTrap.Blocks())
	assert.False(t, KindForwardTrap.Blocks())
	assert.False(t, KindMovesTrap.Blocks())
}
