package bot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordcrush/internal/model"
	"github.com/mcoot/wordcrush/internal/services/bot"
	"github.com/mcoot/wordcrush/internal/services/dictionary"
	"github.com/mcoot/wordcrush/internal/services/scoring"
	"github.com/mcoot/wordcrush/internal/storage/memory"
	"github.com/mcoot/wordcrush/internal/testutil"
)

// fakeDriver records the gesture the bot makes
type fakeDriver struct {
	game    *model.Game
	begun   []model.Position
	extends []model.Position
	release int
}

func (d *fakeDriver) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	if gameID != d.game.ID {
		return nil, model.ErrGameNotFound
	}
	return d.game, nil
}

func (d *fakeDriver) Begin(ctx context.Context, gameID model.GameID, pos model.Position) (*model.Game, error) {
	d.begun = append(d.begun, pos)
	return d.game, nil
}

func (d *fakeDriver) Extend(ctx context.Context, gameID model.GameID, pos model.Position) (*model.Game, error) {
	d.extends = append(d.extends, pos)
	return d.game, nil
}

func (d *fakeDriver) Release(ctx context.Context, gameID model.GameID) (*model.Outcome, *model.Game, error) {
	d.release++
	path := append(d.begun[len(d.begun)-1:], d.extends...)
	return &model.Outcome{
		Kind:   model.OutcomeAccepted,
		Word:   d.game.Grid.Word(path),
		Path:   path,
		Points: 12,
	}, d.game, nil
}

type ServiceSuite struct {
	suite.Suite
	driver  *fakeDriver
	service *bot.Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	dict := dictionary.New(memory.New(), testutil.NopLogger())
	s.Require().NoError(dict.LoadWords([]string{"cat", "cats", "dog"}))
	finder := bot.NewFinder(dict, scoring.New(), 3, 8)

	s.driver = &fakeDriver{game: &model.Game{
		ID:      "GAME1",
		Grid:    testGrid(),
		Session: model.Session{TimeRemaining: 100, Active: true},
	}}
	s.service = bot.NewService(s.driver, map[string]bot.Strategy{
		bot.StrategyBest: bot.NewBestStrategy(finder),
	}, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestSuggest() {
	candidate, err := s.service.Suggest(s.ctx, "GAME1", "")
	s.Require().NoError(err)
	s.Equal("CATS", candidate.Word)
	s.Empty(s.driver.begun)
}

func (s *ServiceSuite) TestSuggestUnknownStrategy() {
	_, err := s.service.Suggest(s.ctx, "GAME1", "psychic")
	s.ErrorContains(err, "unknown bot strategy")
}

func (s *ServiceSuite) TestSuggestUnknownGame() {
	_, err := s.service.Suggest(s.ctx, "NOPE", bot.StrategyBest)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestSuggestExpiredGame() {
	s.driver.game.Session.Active = false
	_, err := s.service.Suggest(s.ctx, "GAME1", bot.StrategyBest)
	s.ErrorIs(err, model.ErrSessionExpired)
}

func (s *ServiceSuite) TestSuggestNoWord() {
	grid := model.NewGrid(3)
	var seq model.TileSequence
	for i := 0; i < 9; i++ {
		grid.Set(model.Position{Row: i / 3, Col: i % 3}, model.Tile{ID: seq.Next(), Letter: 'Q', Multiplier: 3})
	}
	s.driver.game.Grid = grid

	_, err := s.service.Suggest(s.ctx, "GAME1", bot.StrategyBest)
	s.ErrorIs(err, model.ErrNoWordFound)
}

func (s *ServiceSuite) TestPlayTracesPath() {
	outcome, _, err := s.service.Play(s.ctx, "GAME1", bot.StrategyBest)
	s.Require().NoError(err)

	s.Equal([]model.Position{{Row: 0, Col: 0}}, s.driver.begun)
	s.Equal([]model.Position{{Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 1, Col: 1}}, s.driver.extends)
	s.Equal(1, s.driver.release)
	s.Equal("CATS", outcome.Word)
}
