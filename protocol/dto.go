// Package protocol holds the request and response bodies exchanged between the
// agent and the game server, and the text codec for view matrices.
//
// Numbers and flags travel as strings.
package protocol

import "strconv"

// Flag values used for success and end markers.
const (
	FlagTrue  = "1"
	FlagFalse = "0"
)

// RegisterRequest registers a new agent. An empty body creates a fresh agent.
type RegisterRequest struct {
	UUID string `json:"UUID,omitempty"`
}

// RegisterResponse carries the agent id and its starting budget. In friendly
// mode it also carries the start position, the map size and the first view.
// X is the column and Y the row of the start cell, the same axes as Width and
// Height and as the entrance in PositionResponse.
type RegisterResponse struct {
	UUID       string `json:"UUID"`
	Moves      string `json:"moves"`
	XrayPoints string `json:"xray_points"`
	X          string `json:"x,omitempty"`
	Y          string `json:"y,omitempty"`
	Width      string `json:"width,omitempty"`
	Height     string `json:"height,omitempty"`
	View       string `json:"view,omitempty"`
}

// MovesRequest submits one batch of commands.
type MovesRequest struct {
	UUID  string `json:"UUID" binding:"required"`
	Input string `json:"input"`
}

// CommandResult reports one command of a batch and the view after it.
type CommandResult struct {
	Name       string `json:"name"`
	Successful string `json:"successful"`
	View       string `json:"view"`
}

// MovesResponse answers a batch. End is "1" once the exit is reached and "0"
// when the session timed out.
type MovesResponse struct {
	Commands []CommandResult `json:"commands,omitempty"`
	Moves    string          `json:"moves,omitempty"`
	End      string          `json:"end,omitempty"`
}

// Ended reports whether the response is terminal.
func (r MovesResponse) Ended() bool { return r.End != "" }

// Solved reports whether the response marks the maze as solved.
func (r MovesResponse) Solved() bool { return r.End == FlagTrue }

// PositionResponse describes where agents start and which maze is loaded.
type PositionResponse struct {
	EntranceX string `json:"entrance_x"`
	EntranceY string `json:"entrance_y"`
	MazeFile  string `json:"maze_file"`
}

// MoveEvent is published for every successful command.
type MoveEvent struct {
	Agent   string `json:"agent"`
	Command string `json:"command"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Flag encodes a boolean as "1" or "0".
func Flag(b bool) string {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// Int encodes n in decimal.
func Int(n int) string { return strconv.Itoa(n) }

// ParseInt decodes a decimal field, treating an empty field as def.
func ParseInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
