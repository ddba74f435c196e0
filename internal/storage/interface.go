package storage

import (
	"context"

	"github.com/mcoot/wordcrush/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error

	// Dictionary operations
	GetDictionaryWords(ctx context.Context) ([]string, error)
	SaveDictionaryWords(ctx context.Context, words []string) error

	// Verdict cache operations. Only definitive verdicts are stored.
	SaveVerdict(ctx context.Context, word string, outcome model.LookupOutcome) error
	GetVerdict(ctx context.Context, word string) (model.LookupOutcome, error)
}
