package bot

import (
	"github.com/mcoot/wordcrush/internal/dependencies/random"
	"github.com/mcoot/wordcrush/internal/model"
)

// RandomStrategy plays any traceable word
type RandomStrategy struct {
	finder *Finder
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(finder *Finder, rnd random.Random) *RandomStrategy {
	return &RandomStrategy{finder: finder, random: rnd}
}

// ChooseWord picks one of the candidates at random
func (s *RandomStrategy) ChooseWord(grid *model.Grid) (Candidate, bool) {
	candidates := s.finder.FindAll(grid)
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return candidates[s.random.Intn(len(candidates))], true
}
