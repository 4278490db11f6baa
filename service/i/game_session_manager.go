package i

import (
	"context"

	"github.com/beka-birhanu/trapmaze/protocol"
)

// GameSessionManager hosts one game per agent id.
type GameSessionManager interface {
	// Register creates a session. An empty id asks for a fresh one.
	Register(ctx context.Context, id string) (*protocol.RegisterResponse, error)
	// ReceiveMoves applies a batch to the agent's session.
	ReceiveMoves(ctx context.Context, id, input string) (*protocol.MovesResponse, error)
	// Position describes where agents start.
	Position() protocol.PositionResponse
}
