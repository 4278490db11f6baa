// Package domain holds the records the server persists.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of one agent's run.
type Result struct {
	ID         uuid.UUID `json:"UUID"`
	MazeFile   string    `json:"maze_file"`
	Solved     bool      `json:"solved"`
	Rounds     int       `json:"rounds"`
	Commands   int       `json:"commands"`
	XrayUsed   int       `json:"xray_used"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
