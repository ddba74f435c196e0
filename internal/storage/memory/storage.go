package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/mcoot/wordcrush/internal/model"
	"github.com/mcoot/wordcrush/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Games are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	games           map[model.GameID]*model.Game
	dictionaryWords []string
	verdicts        map[string]model.LookupOutcome
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:    make(map[model.GameID]*model.Game),
		verdicts: make(map[string]model.LookupOutcome),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game.Clone()
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dictionaryWords == nil {
		return nil, model.ErrDictionaryNotLoaded
	}
	result := make([]string, len(s.dictionaryWords))
	copy(result, s.dictionaryWords)
	return result, nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dictionaryWords = make([]string, len(words))
	copy(s.dictionaryWords, words)
	return nil
}

// Verdict operations

func (s *Storage) SaveVerdict(ctx context.Context, word string, outcome model.LookupOutcome) error {
	if !outcome.IsVerdict() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdicts[strings.ToLower(word)] = outcome
	return nil
}

func (s *Storage) GetVerdict(ctx context.Context, word string) (model.LookupOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	outcome, ok := s.verdicts[strings.ToLower(word)]
	if !ok {
		return "", model.ErrVerdictNotFound
	}
	return outcome, nil
}
