package game

import (
	"fmt"
	"strings"

	"github.com/beka-birhanu/trapmaze/game/geom"
)

// MaxBatchSize is the largest number of commands accepted in one round.
const MaxBatchSize = 10

// CommandKind is the closed set of commands an agent can issue.
type CommandKind uint8

// Command kinds.
const (
	CmdNoOp CommandKind = iota
	CmdMove
	CmdXray
	CmdPortal
)

// Command is a single step of a batch. Dir is only meaningful for CmdMove.
type Command struct {
	Kind CommandKind
	Dir  geom.Direction
}

// Move returns a cardinal move command.
func Move(d geom.Direction) Command { return Command{Kind: CmdMove, Dir: d} }

// UseXray returns the x-ray command.
func UseXray() Command { return Command{Kind: CmdXray} }

// EnterPortal returns the portal command.
func EnterPortal() Command { return Command{Kind: CmdPortal, Dir: geom.Portal} }

// NoOp returns the empty command.
func NoOp() Command { return Command{Kind: CmdNoOp} }

// CommandFor maps a search direction to the command that walks it.
func CommandFor(d geom.Direction) Command {
	if d == geom.Portal {
		return EnterPortal()
	}
	return Move(d)
}

// Token returns the wire token for the command.
func (c Command) Token() string {
	switch c.Kind {
	case CmdMove:
		return c.Dir.Token()
	case CmdXray:
		return "X"
	case CmdPortal:
		return "P"
	default:
		return ""
	}
}

func (c Command) String() string {
	if c.Kind == CmdNoOp {
		return "NoOp"
	}
	return c.Token()
}

// ParseCommand maps a single token to a command. The empty token is a no-op.
func ParseCommand(token string) (Command, error) {
	switch token {
	case "":
		return NoOp(), nil
	case "X":
		return UseXray(), nil
	case "P":
		return EnterPortal(), nil
	case "N", "E", "S", "W":
		d, _ := geom.ParseDirection(token)
		return Move(d), nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrInvalidCommand, token)
	}
}

// ParseBatch splits a batch string of single-letter tokens. The whole batch is
// rejected when any token is unknown.
func ParseBatch(input string) ([]Command, error) {
	if len(input) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d commands", ErrBatchTooLong, len(input))
	}

	cmds := make([]Command, 0, len(input))
	for _, r := range input {
		c, err := ParseCommand(string(r))
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

// FormatBatch joins command tokens into a batch string.
func FormatBatch(cmds []Command) string {
	var sb strings.Builder
	for _, c := range cmds {
		sb.WriteString(c.Token())
	}
	return sb.String()
}
