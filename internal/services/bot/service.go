package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/wordcrush/internal/model"
)

// Strategy names
const (
	StrategyBest   = "best"
	StrategyRandom = "random"
)

// GameDriver is the part of the game controller the bot plays through
type GameDriver interface {
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	Begin(ctx context.Context, gameID model.GameID, pos model.Position) (*model.Game, error)
	Extend(ctx context.Context, gameID model.GameID, pos model.Position) (*model.Game, error)
	Release(ctx context.Context, gameID model.GameID) (*model.Outcome, *model.Game, error)
}

// Service suggests words and plays them through the normal gesture flow
type Service struct {
	games      GameDriver
	strategies map[string]Strategy
	logger     *slog.Logger
}

// NewService creates a new bot Service
func NewService(games GameDriver, strategies map[string]Strategy, logger *slog.Logger) *Service {
	return &Service{
		games:      games,
		strategies: strategies,
		logger:     logger.With(slog.String("component", "bot-service")),
	}
}

// Suggest finds a word on the game's current grid without playing it
func (s *Service) Suggest(ctx context.Context, gameID model.GameID, strategy string) (*Candidate, error) {
	strat, err := s.strategy(strategy)
	if err != nil {
		return nil, err
	}

	g, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !g.IsActive() {
		return nil, model.ErrSessionExpired
	}

	candidate, ok := strat.ChooseWord(g.Grid)
	if !ok {
		return nil, model.ErrNoWordFound
	}
	return &candidate, nil
}

// Play traces a suggested word and releases it
func (s *Service) Play(ctx context.Context, gameID model.GameID, strategy string) (*model.Outcome, *model.Game, error) {
	candidate, err := s.Suggest(ctx, gameID, strategy)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.games.Begin(ctx, gameID, candidate.Path[0]); err != nil {
		return nil, nil, err
	}
	for _, pos := range candidate.Path[1:] {
		if _, err := s.games.Extend(ctx, gameID, pos); err != nil {
			return nil, nil, err
		}
	}

	outcome, g, err := s.games.Release(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("bot played word",
		slog.String("game_id", string(gameID)),
		slog.String("strategy", strategy),
		slog.String("word", candidate.Word),
		slog.String("outcome", string(outcome.Kind)),
		slog.Int("points", outcome.Points),
	)
	return outcome, g, nil
}

func (s *Service) strategy(name string) (Strategy, error) {
	if name == "" {
		name = StrategyBest
	}
	strat, ok := s.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownStrategy, name)
	}
	return strat, nil
}
