package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/mcoot/wordcrush/internal/config"
	"github.com/mcoot/wordcrush/internal/dependencies/mocks"
	"github.com/mcoot/wordcrush/internal/model"
	"github.com/mcoot/wordcrush/internal/storage/memory"
	"github.com/mcoot/wordcrush/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Words are judged by the local dictionary, see LoadTestDictionary.
func NewTestApp() *TestApp {
	settings := config.Default()
	settings.Oracle.Kind = config.OracleKindDictionary

	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(settings, store, mockClock, mockRandom, nil, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// SetGrid rewrites the letters of a stored game's grid, one string per row,
// keeping tile IDs and resetting multipliers to x1
func (t *TestApp) SetGrid(ctx context.Context, id model.GameID, rows ...string) error {
	g, err := t.Storage.GetGame(ctx, id)
	if err != nil {
		return err
	}
	if len(rows) > g.Grid.Size {
		return fmt.Errorf("%d rows for a %dx%d grid", len(rows), g.Grid.Size, g.Grid.Size)
	}
	for r, row := range rows {
		for c, letter := range []rune(row) {
			if c >= g.Grid.Size {
				return fmt.Errorf("row %d is longer than the grid", r)
			}
			tile := g.Grid.Cells[r][c]
			tile.Letter = letter
			tile.Multiplier = 1
			g.Grid.Cells[r][c] = tile
		}
	}
	return t.Storage.SaveGame(ctx, g)
}

// LoadTestDictionary loads a small dictionary for testing
func (t *TestApp) LoadTestDictionary() error {
	words := []string{
		// 3-letter words
		"ace", "act", "age", "ant", "ape", "arc", "are", "art", "ash", "ate",
		"bad", "bag", "bat", "bed", "bee", "bet", "big", "bit", "box", "bus",
		"cab", "can", "cap", "car", "cat", "cod", "cop", "cow", "cup", "cut",
		"dog", "dot", "due", "ear", "eat", "egg", "end", "era", "eve", "eye",
		"hat", "hen", "her", "hoe", "hop", "hot", "hue", "hug", "ice", "its",
		"oak", "oat", "odd", "ode", "one", "ore", "our", "out", "owe", "own",
		"sat", "saw", "sea", "see", "set", "she", "shy", "sit", "sob", "son",
		"tab", "tag", "tan", "tap", "tar", "tea", "ten", "the", "toe", "use",
		// 4-letter words
		"cats", "coat", "cost", "dose", "east", "eats", "hose", "host", "hour",
		"hues", "oats", "ouch", "rose", "sect", "shoe", "shot", "shut", "some",
		"tech", "than", "that", "them", "then", "this", "tone", "uses",
		// 5-letter words
		"about", "chose", "could", "house", "hours", "horse", "other", "shout",
		"south", "those", "touch", "trout", "where", "whose", "words",
		// longer words
		"houses", "shouted",
	}
	return t.DictionaryService.LoadWords(words)
}
