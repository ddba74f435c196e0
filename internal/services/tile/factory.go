package tile

import (
	"github.com/samber/lo"

	"github.com/mcoot/wordcrush/internal/config"
	"github.com/mcoot/wordcrush/internal/dependencies/random"
	"github.com/mcoot/wordcrush/internal/model"
)

// Multiplier tiers
const (
	MultiplierBase  = 1
	MultiplierTier2 = 2
	MultiplierTier3 = 3
)

// Factory creates tiles with weighted random letters
type Factory struct {
	letters []rune
	tier2   []rune
	tier3   []rune
	random  random.Random
}

// NewFactory creates a tile Factory for the given game rules
func NewFactory(cfg config.GameConfig, rnd random.Random) *Factory {
	return &Factory{
		letters: []rune(cfg.Letters),
		tier2:   []rune(cfg.Tier2),
		tier3:   []rune(cfg.Tier3),
		random:  rnd,
	}
}

// Create draws a letter from the pool and stamps a fresh ID from seq
func (f *Factory) Create(seq *model.TileSequence, row, col int) model.Tile {
	letter := f.letters[f.random.Intn(len(f.letters))]
	return model.Tile{
		ID:         seq.Next(),
		Letter:     letter,
		Multiplier: f.MultiplierFor(letter),
		Row:        row,
		Col:        col,
	}
}

// MultiplierFor classifies a letter into its multiplier tier.
// Tier 3 wins if a letter is somehow listed in both sets.
func (f *Factory) MultiplierFor(letter rune) int {
	switch {
	case lo.Contains(f.tier3, letter):
		return MultiplierTier3
	case lo.Contains(f.tier2, letter):
		return MultiplierTier2
	default:
		return MultiplierBase
	}
}
