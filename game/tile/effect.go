package tile

import "github.com/beka-birhanu/trapmaze/game/geom"

// EffectKind is the closed set of effects a tile can trigger.
type EffectKind uint8

// Effect kinds.
const (
	NoEffect EffectKind = iota
	WallEffect
	MovesDecreaseEffect
	XrayEffect
	RewindEffect
	PushForwardEffect
	PushBackwardEffect
)

func (k EffectKind) String() string {
	switch k {
	case NoEffect:
		return "NoEffect"
	case WallEffect:
		return "WallEffect"
	case MovesDecreaseEffect:
		return "MovesDecreaseEffect"
	case XrayEffect:
		return "XrayEffect"
	case RewindEffect:
		return "RewindEffect"
	case PushForwardEffect:
		return "PushForwardEffect"
	case PushBackwardEffect:
		return "PushBackwardEffect"
	default:
		return "InvalidEffect"
	}
}

// Effect is the action triggered by entering a tile. It is applied by the
// simulation, never queried for state.
type Effect struct {
	Kind     EffectKind
	Dir      geom.Direction // direction of entry
	Strength int            // 1-5 for traps, 0 otherwise
}

// PushDir returns the direction forced steps take for a push effect.
// Push-backward is push-forward with the opposite direction.
func (e Effect) PushDir() geom.Direction {
	if e.Kind == PushBackwardEffect {
		return e.Dir.Opposite()
	}
	return e.Dir
}
