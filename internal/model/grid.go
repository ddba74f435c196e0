package model

import "strings"

// Position identifies a cell on the grid
type Position struct {
	Row int // 0-indexed from top
	Col int // 0-indexed from left
}

// IsAdjacent reports whether other is one of the eight neighbours of p
func (p Position) IsAdjacent(other Position) bool {
	dr := abs(p.Row - other.Row)
	dc := abs(p.Col - other.Col)
	return dr <= 1 && dc <= 1 && (dr != 0 || dc != 0)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Grid is the square tile matrix for a game
type Grid struct {
	Size  int
	Cells [][]Tile // Row-major: Cells[row][col]
}

// NewGrid allocates a size x size grid with zero-value tiles.
// Callers are expected to populate every cell before exposing it.
func NewGrid(size int) *Grid {
	cells := make([][]Tile, size)
	for i := range cells {
		cells[i] = make([]Tile, size)
	}
	return &Grid{
		Size:  size,
		Cells: cells,
	}
}

// IsValidPosition returns true if the position is within bounds
func (g *Grid) IsValidPosition(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.Size && pos.Col >= 0 && pos.Col < g.Size
}

// Get returns the tile at the given position
func (g *Grid) Get(pos Position) (Tile, bool) {
	if !g.IsValidPosition(pos) {
		return Tile{}, false
	}
	return g.Cells[pos.Row][pos.Col], true
}

// Set places a tile at the given position and rewrites its coordinates to match
func (g *Grid) Set(pos Position, tile Tile) {
	if !g.IsValidPosition(pos) {
		return
	}
	tile.Row = pos.Row
	tile.Col = pos.Col
	g.Cells[pos.Row][pos.Col] = tile
}

// GetCol returns the tiles in the given column, top to bottom
func (g *Grid) GetCol(col int) []Tile {
	if col < 0 || col >= g.Size {
		return nil
	}
	result := make([]Tile, g.Size)
	for row := 0; row < g.Size; row++ {
		result[row] = g.Cells[row][col]
	}
	return result
}

// Tiles returns every tile in row-major order
func (g *Grid) Tiles() []Tile {
	result := make([]Tile, 0, g.Size*g.Size)
	for _, row := range g.Cells {
		result = append(result, row...)
	}
	return result
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	clone := NewGrid(g.Size)
	for row := range g.Cells {
		copy(clone.Cells[row], g.Cells[row])
	}
	return clone
}

// Word spells out the letters along a path.
// Positions outside the grid are skipped.
func (g *Grid) Word(path []Position) string {
	var sb strings.Builder
	for _, pos := range path {
		if tile, ok := g.Get(pos); ok {
			sb.WriteRune(tile.Letter)
		}
	}
	return sb.String()
}
