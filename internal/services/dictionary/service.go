package dictionary

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/mcoot/wordcrush/internal/model"
	"github.com/mcoot/wordcrush/internal/storage"
)

// Service answers word lookups from a local word list
type Service struct {
	storage storage.Storage
	logger  *slog.Logger

	mu     sync.RWMutex
	words  map[string]struct{}
	sorted []string // for prefix queries
	loaded bool
}

// New creates a new DictionaryService
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "dictionary")),
		words:   make(map[string]struct{}),
	}
}

// LoadFromStorage loads dictionary words from storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	words, err := s.storage.GetDictionaryWords(ctx)
	if err != nil {
		return err
	}
	return s.loadWords(words)
}

// LoadFromFile loads dictionary words from a file (one word per line)
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" && !strings.HasPrefix(word, "#") {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// Save to storage for future use
	if err := s.storage.SaveDictionaryWords(ctx, words); err != nil {
		return err
	}

	return s.loadWords(words)
}

// LoadWords directly loads a slice of words (useful for testing)
func (s *Service) LoadWords(words []string) error {
	return s.loadWords(words)
}

func (s *Service) loadWords(words []string) error {
	index := make(map[string]struct{}, len(words))
	for _, word := range words {
		// Store lowercase for case-insensitive matching
		index[strings.ToLower(strings.TrimSpace(word))] = struct{}{}
	}
	delete(index, "")

	sorted := make([]string, 0, len(index))
	for word := range index {
		sorted = append(sorted, word)
	}
	slices.Sort(sorted)

	s.mu.Lock()
	s.words = index
	s.sorted = sorted
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("dictionary loaded", slog.Int("words", len(index)))
	return nil
}

// IsValidWord checks if a word exists in the dictionary
func (s *Service) IsValidWord(word string) bool {
	if word == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return false
	}

	_, ok := s.words[strings.ToLower(word)]
	return ok
}

// HasPrefix reports whether any dictionary word starts with prefix
func (s *Service) HasPrefix(prefix string) bool {
	prefix = strings.ToLower(prefix)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return false
	}

	i, _ := slices.BinarySearch(s.sorted, prefix)
	return i < len(s.sorted) && strings.HasPrefix(s.sorted[i], prefix)
}

// Lookup answers as a word oracle. An unloaded dictionary cannot give a
// verdict, so it reports the lookup as unreachable.
func (s *Service) Lookup(ctx context.Context, word string) model.LookupOutcome {
	if !s.IsLoaded() {
		return model.LookupUnreachable
	}
	if s.IsValidWord(word) {
		return model.LookupFound
	}
	return model.LookupNotFound
}

// IsLoaded returns whether the dictionary has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// WordCount returns the number of words in the dictionary
func (s *Service) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// Interface check
type ServiceInterface interface {
	IsValidWord(word string) bool
	HasPrefix(prefix string) bool
	Lookup(ctx context.Context, word string) model.LookupOutcome
	IsLoaded() bool
	WordCount() int
	LoadFromStorage(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadWords(words []string) error
}

var _ ServiceInterface = (*Service)(nil)
