// Package geom holds the grid primitives shared by the simulation and the agent:
// positions and the directions that move between them.
package geom

import "fmt"

// Pos is a cell position in a grid.
type Pos struct {
	Row int // Row index of the cell
	Col int // Column index of the cell
}

// P is a convenience constructor for Pos.
func P(row, col int) Pos { return Pos{Row: row, Col: col} }

// Add returns the position offset by the given row and column deltas.
func (p Pos) Add(dRow, dCol int) Pos {
	return Pos{Row: p.Row + dRow, Col: p.Col + dCol}
}

// Step returns the position reached by moving one cell in d.
// The Portal pseudo-direction does not move.
func (p Pos) Step(d Direction) Pos {
	dRow, dCol := d.Delta()
	return p.Add(dRow, dCol)
}

// Chebyshev returns the king-move distance between two positions.
func (p Pos) Chebyshev(o Pos) int {
	return max(abs(p.Row-o.Row), abs(p.Col-o.Col))
}

// Manhattan returns the taxicab distance between two positions.
func (p Pos) Manhattan(o Pos) int {
	return abs(p.Row-o.Row) + abs(p.Col-o.Col)
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
