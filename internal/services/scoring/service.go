package scoring

import (
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/mcoot/wordcrush/internal/model"
)

// Service computes points for confirmed words
type Service struct{}

// New creates a new ScoringService
func New() *Service {
	return &Service{}
}

// Score returns base points for the word length times the product of the
// multipliers under the path
func (s *Service) Score(word string, path []model.Position, grid *model.Grid) int {
	return BasePoints(utf8.RuneCountInString(word)) * PathMultiplier(path, grid)
}

// BasePoints returns the points for a word of the given length before multipliers
func BasePoints(length int) int {
	switch {
	case length < 3:
		return 0
	case length == 3:
		return 1
	case length == 4:
		return 4
	default:
		return (length - 2) * length
	}
}

// PathMultiplier multiplies together the multipliers of every tile on the path.
// Positions outside the grid contribute nothing.
func PathMultiplier(path []model.Position, grid *model.Grid) int {
	return lo.Reduce(path, func(product int, pos model.Position, _ int) int {
		tile, ok := grid.Get(pos)
		if !ok {
			return product
		}
		return product * tile.Multiplier
	}, 1)
}

// Interface for dependency injection
type ServiceInterface interface {
	Score(word string, path []model.Position, grid *model.Grid) int
}

var _ ServiceInterface = (*Service)(nil)
