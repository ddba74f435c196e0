package model

import "fmt"

// TileID uniquely identifies a tile for the lifetime of a game
type TileID uint64

// String renders the ID the way render surfaces key their elements
func (id TileID) String() string {
	return fmt.Sprintf("tile-%d", uint64(id))
}

// TileSequence hands out tile IDs in creation order.
// The zero value starts at tile-0 and IDs are never reused.
type TileSequence uint64

// Next returns an unused ID and advances the sequence
func (s *TileSequence) Next() TileID {
	id := TileID(*s)
	*s++
	return id
}

// Tile is a single letter cell on the grid
type Tile struct {
	ID         TileID
	Letter     rune
	Multiplier int // 1, 2 or 3; fixed at creation
	Row        int // rewritten whenever gravity moves the tile
	Col        int
}

// Position returns the cell the tile currently occupies
func (t Tile) Position() Position {
	return Position{Row: t.Row, Col: t.Col}
}
