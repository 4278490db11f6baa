/*
Package maze provides the tile-code grid the simulation runs on.

A Map owns a rectangular buffer of 8-bit tile codes plus its anchor. Entrance
and exit are found by scanning for their codes, and portal cells are indexed by
portal id so that a pair can be resolved in constant time.

Reads outside the grid return a wall, which lets callers treat the border of
the world uniformly.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beka-birhanu/trapmaze/game/geom"
	"github.com/beka-birhanu/trapmaze/game/tile"
)

const (
	maxMazeDimension = 4096
)

var (
	ErrInvalidDimensions = errors.New("invalid map dimensions")
	ErrRaggedRows        = errors.New("map rows have different lengths")
	ErrUndefinedCode     = errors.New("undefined tile code")
	ErrPortalOverused    = errors.New("portal id shared by more than two cells")
)

// Map is a rectangular grid of tile codes.
type Map struct {
	width   int
	height  int
	cells   []uint8
	anchor  geom.Pos
	portals map[uint8][]geom.Pos // portal id to live cells, in insertion order
}

// New creates a width x height map with every cell set to fill.
func New(width, height int, fill uint8) (*Map, error) {
	if min(width, height) <= 0 || max(width, height) > maxMazeDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	m := &Map{
		width:   width,
		height:  height,
		cells:   make([]uint8, width*height),
		portals: make(map[uint8][]geom.Pos),
	}
	for i := range m.cells {
		m.cells[i] = fill
	}
	if tile.IsPortal(fill) {
		m.reindex()
	}
	return m, nil
}

// FromRows builds a map from row-major codes. All rows must have equal length.
func FromRows(rows [][]uint8) (*Map, error) {
	if len(rows) == 0 {
		return nil, ErrInvalidDimensions
	}
	m, err := New(len(rows[0]), len(rows), tile.Wall)
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != m.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, r, len(row), m.width)
		}
		copy(m.cells[r*m.width:(r+1)*m.width], row)
	}
	m.reindex()
	return m, nil
}

// Width returns the number of columns.
func (m *Map) Width() int { return m.width }

// Height returns the number of rows.
func (m *Map) Height() int { return m.height }

// Anchor returns the local origin of the map.
func (m *Map) Anchor() geom.Pos { return m.anchor }

// SetAnchor moves the local origin.
func (m *Map) SetAnchor(p geom.Pos) { m.anchor = p }

// InBounds reports whether p lies inside the grid.
func (m *Map) InBounds(p geom.Pos) bool {
	return p.Row >= 0 && p.Row < m.height && p.Col >= 0 && p.Col < m.width
}

// At returns the code at p, or Wall when p is outside the grid.
func (m *Map) At(p geom.Pos) uint8 {
	if !m.InBounds(p) {
		return tile.Wall
	}
	return m.cells[p.Row*m.width+p.Col]
}

// Set writes code at p and keeps the portal index current. It reports false
// when p is outside the grid.
func (m *Map) Set(p geom.Pos, code uint8) bool {
	if !m.InBounds(p) {
		return false
	}
	idx := p.Row*m.width + p.Col
	old := m.cells[idx]
	if old == code {
		return true
	}
	if tile.IsPortal(old) {
		m.unindexPortal(old, p)
	}
	m.cells[idx] = code
	if tile.IsPortal(code) {
		m.portals[code] = append(m.portals[code], p)
	}
	return true
}

// Entrance returns the first entrance cell in row-major order.
func (m *Map) Entrance() (geom.Pos, bool) {
	return m.find(tile.Entrance)
}

// Exit returns the first exit cell in row-major order.
func (m *Map) Exit() (geom.Pos, bool) {
	return m.find(tile.Exit)
}

func (m *Map) find(code uint8) (geom.Pos, bool) {
	for i, c := range m.cells {
		if c == code {
			return geom.P(i/m.width, i%m.width), true
		}
	}
	return geom.Pos{}, false
}

// Pair returns the other live cell sharing the portal id at p. It reports
// false when p is not a portal, the id appears once, or the id is ambiguous.
func (m *Map) Pair(p geom.Pos) (geom.Pos, bool) {
	code := m.At(p)
	if !tile.IsPortal(code) {
		return geom.Pos{}, false
	}
	cells := m.portals[code]
	if len(cells) != 2 {
		return geom.Pos{}, false
	}
	if cells[0] == p {
		return cells[1], true
	}
	if cells[1] == p {
		return cells[0], true
	}
	return geom.Pos{}, false
}

// Validate checks that every code has defined semantics and that no portal id
// is shared by more than two cells.
func (m *Map) Validate() error {
	for i, c := range m.cells {
		if _, ok := tile.Lookup(c); !ok {
			return fmt.Errorf("%w %d at %s", ErrUndefinedCode, c, geom.P(i/m.width, i%m.width))
		}
	}
	for code, cells := range m.portals {
		if len(cells) > 2 {
			return fmt.Errorf("%w: id %d has %d cells", ErrPortalOverused, code, len(cells))
		}
	}
	return nil
}

// Clone returns a deep copy, so that a session can mutate its map without
// touching the loaded original.
func (m *Map) Clone() *Map {
	c := &Map{
		width:   m.width,
		height:  m.height,
		cells:   make([]uint8, len(m.cells)),
		anchor:  m.anchor,
		portals: make(map[uint8][]geom.Pos, len(m.portals)),
	}
	copy(c.cells, m.cells)
	for code, cells := range m.portals {
		c.portals[code] = append([]geom.Pos(nil), cells...)
	}
	return c
}

// Rows returns a row-major copy of the grid.
func (m *Map) Rows() [][]uint8 {
	rows := make([][]uint8, m.height)
	for r := range rows {
		rows[r] = append([]uint8(nil), m.cells[r*m.width:(r+1)*m.width]...)
	}
	return rows
}

func (m *Map) reindex() {
	m.portals = make(map[uint8][]geom.Pos)
	for i, c := range m.cells {
		if tile.IsPortal(c) {
			m.portals[c] = append(m.portals[c], geom.P(i/m.width, i%m.width))
		}
	}
}

func (m *Map) unindexPortal(code uint8, p geom.Pos) {
	cells := m.portals[code]
	for i, c := range cells {
		if c == p {
			cells = append(cells[:i], cells[i+1:]...)
			break
		}
	}
	if len(cells) == 0 {
		delete(m.portals, code)
		return
	}
	m.portals[code] = cells
}

// glyphs used by String, one rune per tile kind.
var glyphs = map[tile.Kind]byte{
	tile.KindWall:         '#',
	tile.KindUnknown:      '?',
	tile.KindPath:         '.',
	tile.KindEntrance:     'S',
	tile.KindExit:         'E',
	tile.KindXray:         'x',
	tile.KindFog:          '~',
	tile.KindTower:        '^',
	tile.KindUnknownTrap:  't',
	tile.KindMovesTrap:    'm',
	tile.KindRewindTrap:   'r',
	tile.KindForwardTrap:  'f',
	tile.KindBackwardTrap: 'b',
	tile.KindPortal:       'O',
}

// String provides a textual representation of the map, one character per cell.
func (m *Map) String() string {
	var sb strings.Builder
	sb.Grow((m.width + 1) * m.height)
	for r := 0; r < m.height; r++ {
		for c := 0; c < m.width; c++ {
			g, ok := glyphs[tile.KindOf(m.cells[r*m.width+c])]
			if !ok {
				g = '!'
			}
			sb.WriteByte(g)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
