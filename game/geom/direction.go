package geom

import "errors"

// ErrInvalidDirection is returned when a token does not name a direction.
var ErrInvalidDirection = errors.New("invalid direction")

// Direction is a cardinal direction, or the Portal pseudo-direction used by
// the search to step through a portal.
type Direction int

// Direction constants. The cardinal order is the rotation order used by Next.
const (
	North Direction = iota
	East
	South
	West
	Portal
)

// Cardinals lists the four cardinal directions in rotation order.
var Cardinals = [4]Direction{North, East, South, West}

// Delta returns the row and column offsets for this direction.
func (d Direction) Delta() (rowDelta, colDelta int) {
	switch d {
	case North:
		return -1, 0
	case East:
		return 0, 1
	case South:
		return 1, 0
	case West:
		return 0, -1
	default:
		return 0, 0
	}
}

// Opposite returns the opposite direction. Portal is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return d
	}
}

// Next returns the following cardinal direction in the rotation
// North, East, South, West. It reports false after West.
func (d Direction) Next() (Direction, bool) {
	if d < North || d >= West {
		return d, false
	}
	return d + 1, true
}

// IsCardinal reports whether d is one of N, E, S, W.
func (d Direction) IsCardinal() bool {
	return d >= North && d <= West
}

// Token returns the single-letter command token for the direction.
func (d Direction) Token() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	case Portal:
		return "P"
	default:
		return "?"
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	case Portal:
		return "Portal"
	default:
		return "Unknown"
	}
}

// ParseDirection maps a command token to a direction.
func ParseDirection(token string) (Direction, error) {
	switch token {
	case "N":
		return North, nil
	case "E":
		return East, nil
	case "S":
		return South, nil
	case "W":
		return West, nil
	case "P":
		return Portal, nil
	default:
		return 0, ErrInvalidDirection
	}
}

// Between returns the cardinal direction that moves src onto dst, scanning the
// rotation from North. It reports false when the cells are not adjacent.
func Between(src, dst Pos) (Direction, bool) {
	for d, ok := North, true; ok; d, ok = d.Next() {
		if src.Step(d) == dst {
			return d, true
		}
	}
	return 0, false
}
