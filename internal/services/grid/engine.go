package grid

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/mcoot/wordcrush/internal/model"
)

// TileCreator produces a single fresh tile for a cell
type TileCreator interface {
	Create(seq *model.TileSequence, row, col int) model.Tile
}

// Engine builds grids and applies the gravity refill after a word is consumed
type Engine struct {
	tiles TileCreator
}

// New creates a new grid Engine
func New(tiles TileCreator) *Engine {
	return &Engine{
		tiles: tiles,
	}
}

// CreateInitialGrid fills a size x size grid with new tiles in row-major order
func (e *Engine) CreateInitialGrid(seq *model.TileSequence, size int) (*model.Grid, error) {
	if size < 1 {
		return nil, model.ErrInvalidGridSize
	}
	grid := model.NewGrid(size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			grid.Set(model.Position{Row: row, Col: col}, e.tiles.Create(seq, row, col))
		}
	}
	return grid, nil
}

// Collapse removes the tiles at the given positions and lets each column fall.
// Survivors keep their top-to-bottom order and settle at the bottom; new tiles
// fill the gap from the top. The input grid is left untouched. Positions
// outside the grid and repeated positions are ignored.
func (e *Engine) Collapse(grid *model.Grid, removed []model.Position, seq *model.TileSequence) *model.Grid {
	gone := make(map[model.Position]struct{}, len(removed))
	for _, pos := range removed {
		if grid.IsValidPosition(pos) {
			gone[pos] = struct{}{}
		}
	}

	result := model.NewGrid(grid.Size)
	for col := 0; col < grid.Size; col++ {
		survivors := lo.Filter(grid.GetCol(col), func(_ model.Tile, row int) bool {
			_, consumed := gone[model.Position{Row: row, Col: col}]
			return !consumed
		})

		missing := grid.Size - len(survivors)
		for row := 0; row < missing; row++ {
			result.Set(model.Position{Row: row, Col: col}, e.tiles.Create(seq, row, col))
		}
		for i, tile := range survivors {
			result.Set(model.Position{Row: missing + i, Col: col}, tile)
		}
	}
	return result
}

// Validate checks that every cell holds a tile whose coordinates match its
// cell and that no tile ID appears twice
func Validate(grid *model.Grid) error {
	if grid == nil || grid.Size < 1 || len(grid.Cells) != grid.Size {
		return model.ErrGridCorrupt
	}
	seen := make(map[model.TileID]struct{}, grid.Size*grid.Size)
	for row, cells := range grid.Cells {
		if len(cells) != grid.Size {
			return fmt.Errorf("%w: row %d has %d tiles", model.ErrGridCorrupt, row, len(cells))
		}
		for col, tile := range cells {
			if tile.Letter == 0 {
				return fmt.Errorf("%w: empty cell at %d,%d", model.ErrGridCorrupt, row, col)
			}
			if tile.Row != row || tile.Col != col {
				return fmt.Errorf("%w: tile %s at %d,%d claims %d,%d", model.ErrGridCorrupt, tile.ID, row, col, tile.Row, tile.Col)
			}
			if _, dup := seen[tile.ID]; dup {
				return fmt.Errorf("%w: duplicate %s", model.ErrGridCorrupt, tile.ID)
			}
			seen[tile.ID] = struct{}{}
		}
	}
	return nil
}

// Interface for dependency injection
type EngineInterface interface {
	CreateInitialGrid(seq *model.TileSequence, size int) (*model.Grid, error)
	Collapse(grid *model.Grid, removed []model.Position, seq *model.TileSequence) *model.Grid
}

var _ EngineInterface = (*Engine)(nil)
