// Package tile maps 8-bit tile codes to tile semantics and to the effect a tile
// triggers when it is entered.
//
// The code table is the single source of truth: every code either maps to a
// Kind or has no defined semantics.
package tile

import "github.com/beka-birhanu/trapmaze/game/geom"

// Well-known tile codes.
const (
	Wall        uint8 = 0
	Unknown     uint8 = 1 // only ever stored in an agent's local map
	Xray        uint8 = 16
	Fog         uint8 = 32
	Entrance    uint8 = 64
	UnknownTrap uint8 = 90
	Exit        uint8 = 182
	Tower       uint8 = 224
	Path        uint8 = 255

	MovesTrapFirst    uint8 = 96
	RewindTrapFirst   uint8 = 101
	ForwardTrapFirst  uint8 = 106
	BackwardTrapFirst uint8 = 111

	PortalFirst uint8 = 150
	PortalLast  uint8 = 169

	// MaxStrength is the strongest trap of each kind.
	MaxStrength = 5
	trapRange   = MaxStrength
)

// Kind is the closed set of tile types.
type Kind uint8

// Tile kinds. KindNone is the zero value and marks a code without semantics.
const (
	KindNone Kind = iota
	KindWall
	KindUnknown
	KindPath
	KindEntrance
	KindExit
	KindXray
	KindFog
	KindTower
	KindUnknownTrap
	KindMovesTrap
	KindRewindTrap
	KindForwardTrap
	KindBackwardTrap
	KindPortal
)

var kindNames = [...]string{
	KindNone:         "None",
	KindWall:         "Wall",
	KindUnknown:      "Unknown",
	KindPath:         "Path",
	KindEntrance:     "Entrance",
	KindExit:         "Exit",
	KindXray:         "Xray",
	KindFog:          "Fog",
	KindTower:        "Tower",
	KindUnknownTrap:  "UnknownTrap",
	KindMovesTrap:    "MovesTrap",
	KindRewindTrap:   "RewindTrap",
	KindForwardTrap:  "ForwardTrap",
	KindBackwardTrap: "BackwardTrap",
	KindPortal:       "Portal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid"
}

// IsTrap reports whether the kind is one of the trap kinds, including the
// disguised unknown trap.
func (k Kind) IsTrap() bool {
	return k >= KindUnknownTrap && k <= KindBackwardTrap
}

// Blocks reports whether the search must treat a tile of this kind as
// impassable: walls, and traps that throw the agent backwards in time or space.
func (k Kind) Blocks() bool {
	return k == KindWall || k == KindBackwardTrap || k == KindRewindTrap
}

// table is the code to kind lookup.
var table = buildTable()

func buildTable() [256]Kind {
	var t [256]Kind
	t[Wall] = KindWall
	t[Unknown] = KindUnknown
	t[Xray] = KindXray
	t[Fog] = KindFog
	t[Entrance] = KindEntrance
	t[UnknownTrap] = KindUnknownTrap
	t[Exit] = KindExit
	t[Tower] = KindTower
	t[Path] = KindPath

	fill := func(first uint8, n int, k Kind) {
		for c := int(first); c < int(first)+n; c++ {
			t[c] = k
		}
	}
	fill(MovesTrapFirst, trapRange, KindMovesTrap)
	fill(RewindTrapFirst, trapRange, KindRewindTrap)
	fill(ForwardTrapFirst, trapRange, KindForwardTrap)
	fill(BackwardTrapFirst, trapRange, KindBackwardTrap)
	fill(PortalFirst, int(PortalLast-PortalFirst)+1, KindPortal)
	return t
}

// KindOf returns the kind for a code, KindNone when the code is undefined.
func KindOf(code uint8) Kind {
	return table[code]
}

// Tile is a code together with its resolved kind.
type Tile struct {
	Code uint8
	Kind Kind
}

// Lookup resolves a code. It reports false for a code with no semantics.
func Lookup(code uint8) (Tile, bool) {
	k := table[code]
	if k == KindNone {
		return Tile{}, false
	}
	return Tile{Code: code, Kind: k}, true
}

// Strength returns the trap strength 1-5 encoded in the code, or 0 for
// non-trap tiles.
func (t Tile) Strength() int {
	switch t.Kind {
	case KindMovesTrap, KindRewindTrap, KindForwardTrap, KindBackwardTrap:
		return (int(t.Code)-1)%trapRange + 1
	default:
		return 0
	}
}

// Visit returns the effect triggered by entering the tile while moving in d.
func (t Tile) Visit(d geom.Direction) Effect {
	switch t.Kind {
	case KindWall:
		return Effect{Kind: WallEffect, Dir: d}
	case KindXray:
		return Effect{Kind: XrayEffect, Dir: d}
	case KindMovesTrap:
		return Effect{Kind: MovesDecreaseEffect, Dir: d, Strength: t.Strength()}
	case KindRewindTrap:
		return Effect{Kind: RewindEffect, Dir: d, Strength: t.Strength()}
	case KindForwardTrap:
		return Effect{Kind: PushForwardEffect, Dir: d, Strength: t.Strength()}
	case KindBackwardTrap:
		return Effect{Kind: PushBackwardEffect, Dir: d, Strength: t.Strength()}
	default:
		return Effect{Kind: NoEffect, Dir: d}
	}
}

// IsPortal reports whether code is a portal id.
func IsPortal(code uint8) bool {
	return table[code] == KindPortal
}
