package oracle

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/wordcrush/internal/model"
	"github.com/mcoot/wordcrush/internal/storage"
)

// Cached remembers definitive verdicts from another Oracle.
// Unreachable answers are passed through and never stored.
type Cached struct {
	next    Oracle
	storage storage.Storage
	logger  *slog.Logger
}

// NewCached wraps next with a verdict cache kept in storage
func NewCached(next Oracle, storage storage.Storage, logger *slog.Logger) *Cached {
	return &Cached{
		next:    next,
		storage: storage,
		logger:  logger.With(slog.String("component", "oracle_cache")),
	}
}

var _ Oracle = (*Cached)(nil)

// Lookup returns a cached verdict when there is one, otherwise asks next
func (c *Cached) Lookup(ctx context.Context, word string) model.LookupOutcome {
	outcome, err := c.storage.GetVerdict(ctx, word)
	if err == nil {
		return outcome
	}
	if !errors.Is(err, model.ErrVerdictNotFound) {
		c.logger.Warn("verdict cache read failed", slog.String("word", word), slog.String("error", err.Error()))
	}

	outcome = c.next.Lookup(ctx, word)
	if outcome.IsVerdict() {
		if err := c.storage.SaveVerdict(ctx, word, outcome); err != nil {
			c.logger.Warn("verdict cache write failed", slog.String("word", word), slog.String("error", err.Error()))
		}
	}
	return outcome
}
