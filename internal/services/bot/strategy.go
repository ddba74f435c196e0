package bot

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/mcoot/wordcrush/internal/model"
)

// Strategy picks a word to play on a grid
type Strategy interface {
	ChooseWord(grid *model.Grid) (Candidate, bool)
}

// Candidate is a playable word and the path that spells it
type Candidate struct {
	Word   string
	Path   []model.Position
	Points int
}

// WordChecker answers dictionary questions during the search
type WordChecker interface {
	IsValidWord(word string) bool
	HasPrefix(prefix string) bool
}

// Scorer prices a candidate path
type Scorer interface {
	Score(word string, path []model.Position, grid *model.Grid) int
}

// Finder enumerates every dictionary word that can be traced on a grid
type Finder struct {
	words         WordChecker
	scorer        Scorer
	minWordLength int
	maxWordLength int
}

// NewFinder creates a Finder for words between minLen and maxLen letters
func NewFinder(words WordChecker, scorer Scorer, minLen, maxLen int) *Finder {
	return &Finder{
		words:         words,
		scorer:        scorer,
		minWordLength: minLen,
		maxWordLength: maxLen,
	}
}

// FindAll returns each traceable word once, with its highest scoring path,
// best first
func (f *Finder) FindAll(grid *model.Grid) []Candidate {
	best := make(map[string]Candidate)
	visited := make(map[model.Position]bool, grid.Size*grid.Size)

	var walk func(path []model.Position, prefix string)
	walk = func(path []model.Position, prefix string) {
		if len(path) >= f.minWordLength && f.words.IsValidWord(prefix) {
			candidate := Candidate{
				Word:   prefix,
				Path:   slices.Clone(path),
				Points: f.scorer.Score(prefix, path, grid),
			}
			if current, ok := best[prefix]; !ok || candidate.Points > current.Points {
				best[prefix] = candidate
			}
		}
		if len(path) == f.maxWordLength {
			return
		}

		last := path[len(path)-1]
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				next := model.Position{Row: last.Row + dr, Col: last.Col + dc}
				tile, ok := grid.Get(next)
				if !ok || visited[next] {
					continue
				}
				word := prefix + strings.ToUpper(string(tile.Letter))
				if !f.words.HasPrefix(word) {
					continue
				}
				visited[next] = true
				walk(append(path, next), word)
				visited[next] = false
			}
		}
	}

	for _, tile := range grid.Tiles() {
		start := tile.Position()
		word := strings.ToUpper(string(tile.Letter))
		if !f.words.HasPrefix(word) {
			continue
		}
		visited[start] = true
		walk([]model.Position{start}, word)
		visited[start] = false
	}

	candidates := lo.Values(best)
	slices.SortFunc(candidates, func(a, b Candidate) int {
		return cmp.Or(
			cmp.Compare(b.Points, a.Points),
			cmp.Compare(len(b.Word), len(a.Word)),
			cmp.Compare(a.Word, b.Word),
		)
	})
	return candidates
}

// BestStrategy always plays the highest scoring word
type BestStrategy struct {
	finder *Finder
}

// NewBestStrategy creates a new BestStrategy
func NewBestStrategy(finder *Finder) *BestStrategy {
	return &BestStrategy{finder: finder}
}

// ChooseWord returns the top candidate
func (s *BestStrategy) ChooseWord(grid *model.Grid) (Candidate, bool) {
	return lo.First(s.finder.FindAll(grid))
}
