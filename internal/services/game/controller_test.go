package game

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordcrush/internal/config"
	"github.com/mcoot/wordcrush/internal/dependencies/mocks"
	"github.com/mcoot/wordcrush/internal/model"
	"github.com/mcoot/wordcrush/internal/services/grid"
	"github.com/mcoot/wordcrush/internal/services/oracle"
	"github.com/mcoot/wordcrush/internal/services/scoring"
	"github.com/mcoot/wordcrush/internal/services/selection"
	"github.com/mcoot/wordcrush/internal/services/tile"
	"github.com/mcoot/wordcrush/internal/storage"
	"github.com/mcoot/wordcrush/internal/storage/memory"
	"github.com/mcoot/wordcrush/internal/testutil"
)

// recorder collects published events
type recorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recorder) Publish(event model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) ofType(t model.EventType) []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Event
	for _, e := range r.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// scriptedOracle gives a fixed answer and records every word it is asked about
type scriptedOracle struct {
	mu      sync.Mutex
	answer  model.LookupOutcome
	calls   []string
	gate    chan struct{} // when set, Lookup blocks until it is closed
	entered chan struct{}
}

var _ oracle.Oracle = (*scriptedOracle)(nil)

func (o *scriptedOracle) Lookup(ctx context.Context, word string) model.LookupOutcome {
	o.mu.Lock()
	o.calls = append(o.calls, word)
	gate, entered, answer := o.gate, o.entered, o.answer
	o.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return answer
}

func (o *scriptedOracle) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.calls)
}

var errStorageDown = errors.New("storage down")

// flakyStorage fails the next failSaves calls to SaveGame
type flakyStorage struct {
	*memory.Storage
	failSaves atomic.Int32
}

func (f *flakyStorage) SaveGame(ctx context.Context, game *model.Game) error {
	if f.failSaves.Add(-1) >= 0 {
		return errStorageDown
	}
	f.failSaves.Store(0)
	return f.Storage.SaveGame(ctx, game)
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	oracle     *scriptedOracle
	events     *recorder
	cfg        config.GameConfig
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.oracle = &scriptedOracle{answer: model.LookupFound}
	s.events = &recorder{}
	s.cfg = config.DefaultGameConfig()
	s.controller = s.newController(s.cfg)
	s.ctx = context.Background()
}

func (s *ControllerSuite) TearDownTest() {
	s.controller.Close()
}

func (s *ControllerSuite) newController(cfg config.GameConfig) *Controller {
	return s.newControllerWith(cfg, s.storage)
}

func (s *ControllerSuite) newControllerWith(cfg config.GameConfig, store storage.Storage) *Controller {
	return NewController(
		store,
		grid.New(tile.NewFactory(cfg, s.random)),
		selection.New(cfg.MinWordLength),
		scoring.New(),
		s.oracle,
		s.events,
		cfg,
		s.clock,
		s.random,
		testutil.NopLogger(),
	)
}

func pos(row, col int) model.Position {
	return model.Position{Row: row, Col: col}
}

func (s *ControllerSuite) newGame() *model.Game {
	s.random.QueueString("GAME00000001")
	game, err := s.controller.NewGame(s.ctx, "")
	s.Require().NoError(err)
	return game
}

// writeRow replaces the letters of a row, keeping tile IDs, with multiplier 1
func (s *ControllerSuite) writeRow(gameID model.GameID, row int, letters string) *model.Game {
	game, err := s.storage.GetGame(s.ctx, gameID)
	s.Require().NoError(err)
	for col, letter := range letters {
		game.Grid.Cells[row][col].Letter = letter
		game.Grid.Cells[row][col].Multiplier = 1
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	return game
}

func (s *ControllerSuite) drag(gameID model.GameID, positions ...model.Position) {
	_, err := s.controller.Begin(s.ctx, gameID, positions[0])
	s.Require().NoError(err)
	for _, p := range positions[1:] {
		_, err := s.controller.Extend(s.ctx, gameID, p)
		s.Require().NoError(err)
	}
}

func rowPath(row, length int) []model.Position {
	path := make([]model.Position, length)
	for col := range path {
		path[col] = pos(row, col)
	}
	return path
}

// NewGame tests

func (s *ControllerSuite) TestNewGame() {
	game := s.newGame()

	s.Equal(model.GameID("GAME00000001"), game.ID)
	s.Equal(model.Session{TeamName: model.DefaultTeamName, TimeRemaining: 600, Active: true}, game.Session)
	s.Equal(model.SubmissionIdle, game.SubmissionState())
	s.NoError(grid.Validate(game.Grid))
	s.Equal(7, game.Grid.Size)
	s.Equal(model.TileSequence(49), game.NextTileID)

	stored, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.Grid, stored.Grid)

	s.Len(s.events.ofType(model.EventGameStarted), 1)
	s.Len(s.events.ofType(model.EventGridUpdated), 1)
	s.Eventually(func() bool { return len(s.clock.Tickers()) == 1 }, time.Second, time.Millisecond)
	s.Equal(1, s.controller.RunningClocks())
}

func (s *ControllerSuite) TestNewGameKeepsTeamName() {
	s.random.QueueString("GAME00000002")
	game, err := s.controller.NewGame(s.ctx, "  the damned  ")
	s.Require().NoError(err)
	s.Equal("the damned", game.Session.TeamName)
}

func (s *ControllerSuite) TestGetGameNotFound() {
	_, err := s.controller.GetGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Selection tests

func (s *ControllerSuite) TestBeginAndExtend() {
	game := s.newGame()

	updated, err := s.controller.Begin(s.ctx, game.ID, pos(3, 3))
	s.Require().NoError(err)
	s.Equal([]model.Position{pos(3, 3)}, updated.Selection.Path)

	updated, err = s.controller.Extend(s.ctx, game.ID, pos(3, 5))
	s.Require().NoError(err)
	s.Equal([]model.Position{pos(3, 3)}, updated.Selection.Path)

	updated, err = s.controller.Extend(s.ctx, game.ID, pos(4, 4))
	s.Require().NoError(err)
	s.Equal([]model.Position{pos(3, 3), pos(4, 4)}, updated.Selection.Path)

	updated, err = s.controller.Extend(s.ctx, game.ID, pos(3, 3))
	s.Require().NoError(err)
	s.Equal([]model.Position{pos(3, 3)}, updated.Selection.Path)

	s.Len(s.events.ofType(model.EventSelectionUpdate), 3)
}

func (s *ControllerSuite) TestBeginOutsideGrid() {
	game := s.newGame()
	_, err := s.controller.Begin(s.ctx, game.ID, pos(7, 0))
	s.ErrorIs(err, model.ErrInvalidPosition)
}

func (s *ControllerSuite) TestReleaseWithoutSelection() {
	game := s.newGame()
	_, _, err := s.controller.Release(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrNoSelection)
}

// Word validation tests

func (s *ControllerSuite) TestAcceptedWordScoresAndCollapses() {
	game := s.newGame()
	before := s.writeRow(game.ID, 0, "HOUSE")
	s.drag(game.ID, rowPath(0, 5)...)

	outcome, updated, err := s.controller.Release(s.ctx, game.ID)
	s.Require().NoError(err)

	s.Equal(model.OutcomeAccepted, outcome.Kind)
	s.Equal("HOUSE", outcome.Word)
	s.Equal(15, outcome.Points)
	s.Equal("❝HOUSE❞ +15 tears", outcome.Message)
	s.Equal(15, updated.Session.Score)
	s.Equal(1, updated.Session.WordsFound)
	s.Equal([]string{"HOUSE"}, s.oracle.calls)

	s.NoError(grid.Validate(updated.Grid))
	for col := 0; col < 5; col++ {
		fresh := updated.Grid.Cells[0][col]
		s.GreaterOrEqual(uint64(fresh.ID), uint64(49), "column %d", col)
		for row := 1; row < 7; row++ {
			s.Equal(before.Grid.Cells[row][col].ID, updated.Grid.Cells[row][col].ID)
		}
	}
	for col := 5; col < 7; col++ {
		s.Equal(before.Grid.Cells[0][col].ID, updated.Grid.Cells[0][col].ID)
	}
	s.Equal(model.TileSequence(54), updated.NextTileID)
	s.Empty(updated.Selection.Path)
	s.Nil(updated.Pending)

	s.Len(s.events.ofType(model.EventScoreUpdated), 1)
	s.Len(s.events.ofType(model.EventGridUpdated), 2)
	s.Len(s.events.ofType(model.EventOutcome), 1)
}

func (s *ControllerSuite) TestAcceptedWordInMiddleShiftsTilesDown() {
	game := s.newGame()
	before := s.writeRow(game.ID, 3, "CATS")
	s.drag(game.ID, rowPath(3, 4)...)

	outcome, updated, err := s.controller.Release(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(4, outcome.Points)

	for col := 0; col < 4; col++ {
		for row := 0; row < 3; row++ {
			s.Equal(before.Grid.Cells[row][col].ID, updated.Grid.Cells[row+1][col].ID)
		}
		s.Equal(before.Grid.Cells[4][col].ID, updated.Grid.Cells[4][col].ID)
	}
}

func (s *ControllerSuite) TestRejectedWordLeavesGrid() {
	s.oracle.answer = model.LookupNotFound
	game := s.newGame()
	before := s.writeRow(game.ID, 0, "XQZV")
	s.drag(game.ID, rowPath(0, 4)...)

	outcome, updated, err := s.controller.Release(s.ctx, game.ID)
	s.Require().NoError(err)

	s.Equal(model.OutcomeRejected, outcome.Kind)
	s.Equal(`"XQZV" not in the lament`, outcome.Message)
	s.Zero(outcome.Points)
	s.Equal(0, updated.Session.Score)
	s.Equal(before.Grid, updated.Grid)
	s.Empty(updated.Selection.Path)
	s.Empty(s.events.ofType(model.EventScoreUpdated))
}

func (s *ControllerSuite) TestUnreachableLeavesScoreAndGrid() {
	game := s.newGame()
	s.writeRow(game.ID, 0, "HOUSE")
	s.drag(game.ID, rowPath(0, 5)...)
	_, scored, err := s.controller.Release(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Require().Equal(15, scored.Session.Score)

	s.oracle.answer = model.LookupUnreachable
	s.writeRow(game.ID, 1, "CATS")
	s.drag(game.ID, rowPath(1, 4)...)
	before, _ := s.controller.GetGame(s.ctx, game.ID)

	outcome, updated, err := s.controller.Release(s.ctx, game.ID)
	s.Require().NoError(err)

	s.Equal(model.OutcomeUnreachable, outcome.Kind)
	s.Equal("oracle unreachable", outcome.Message)
	s.Equal(15, updated.Session.Score)
	s.Equal(1, updated.Session.WordsFound)
	s.Equal(before.Grid, updated.Grid)
	s.Equal(before.NextTileID, updated.NextTileID)
	s.Equal(model.SubmissionIdle, updated.SubmissionState())
}

func (s *ControllerSuite) TestTooShortNeverCallsOracle() {
	game := s.newGame()
	s.drag(game.ID, pos(0, 0), pos(0, 1))

	outcome, updated, err := s.controller.Release(s.ctx, game.ID)
	s.Require().NoError(err)

	s.Equal(model.OutcomeTooShort, outcome.Kind)
	s.Equal("too short, mortal", outcome.Message)
	s.Zero(s.oracle.callCount())
	s.Empty(updated.Selection.Path)
	s.Equal(outcome, updated.LastOutcome)
}

func (s *ControllerSuite) TestGesturesRefusedWhilePending() {
	game := s.newGame()
	s.writeRow(game.ID, 0, "CATS")
	s.oracle.gate = make(chan struct{})
	s.oracle.entered = make(chan struct{}, 1)
	s.drag(game.ID, rowPath(0, 4)...)

	type result struct {
		outcome *model.Outcome
		err     error
	}
	done := make(chan result, 1)
	go func() {
		outcome, _, err := s.controller.Release(s.ctx, game.ID)
		done <- result{outcome, err}
	}()
	<-s.oracle.entered

	pending, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.SubmissionPending, pending.SubmissionState())
	s.Equal("CATS", pending.Pending.Word)

	_, err = s.controller.Begin(s.ctx, game.ID, pos(2, 2))
	s.ErrorIs(err, model.ErrSubmissionPending)
	_, _, err = s.controller.Release(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrSubmissionPending)

	// the clock keeps running during a lookup
	running, err := s.controller.Tick(s.ctx, game.ID)
	s.Require().NoError(err)
	s.True(running)

	close(s.oracle.gate)
	res := <-done
	s.Require().NoError(res.err)
	s.Equal(model.OutcomeAccepted, res.outcome.Kind)

	_, err = s.controller.Begin(s.ctx, game.ID, pos(2, 2))
	s.NoError(err)
}

// releaseBlocked starts a Release of a CATS path whose lookup waits until
// the returned function is called; the function returns Release's error
func (s *ControllerSuite) releaseBlocked(gameID model.GameID) func() error {
	s.writeRow(gameID, 0, "CATS")
	s.oracle.gate = make(chan struct{})
	s.oracle.entered = make(chan struct{}, 1)
	s.drag(gameID, rowPath(0, 4)...)

	done := make(chan error, 1)
	go func() {
		_, _, err := s.controller.Release(s.ctx, gameID)
		done <- err
	}()
	<-s.oracle.entered

	return func() error {
		close(s.oracle.gate)
		return <-done
	}
}

func (s *ControllerSuite) TestFailedResolveClearsSubmission() {
	store := &flakyStorage{Storage: s.storage}
	s.controller.Close()
	s.controller = s.newControllerWith(s.cfg, store)

	game := s.newGame()
	finish := s.releaseBlocked(game.ID)
	store.failSaves.Store(1)
	s.ErrorIs(finish(), errStorageDown)

	stored, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.SubmissionIdle, stored.SubmissionState())
	s.Nil(stored.Pending)
	s.Empty(stored.Selection.Path)
	s.Equal(0, stored.Session.Score)

	_, err = s.controller.Begin(s.ctx, game.ID, pos(1, 1))
	s.NoError(err)
}

func (s *ControllerSuite) TestStaleSubmissionIsAbandoned() {
	store := &flakyStorage{Storage: s.storage}
	s.controller.Close()
	s.controller = s.newControllerWith(s.cfg, store)

	game := s.newGame()
	finish := s.releaseBlocked(game.ID)
	// the verdict and the attempt to drop the submission both fail to save
	store.failSaves.Store(2)
	s.ErrorIs(finish(), errStorageDown)

	stuck, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.SubmissionPending, stuck.SubmissionState())

	_, err = s.controller.Begin(s.ctx, game.ID, pos(1, 1))
	s.ErrorIs(err, model.ErrSubmissionPending)

	s.clock.Advance(staleSubmissionAfter)

	updated, err := s.controller.Begin(s.ctx, game.ID, pos(1, 1))
	s.Require().NoError(err)
	s.Nil(updated.Pending)
	s.Equal([]model.Position{pos(1, 1)}, updated.Selection.Path)

	stored, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.SubmissionIdle, stored.SubmissionState())
}

func (s *ControllerSuite) TestVerdictAfterExpiryIsDiscarded() {
	game := s.newGame()
	before := s.writeRow(game.ID, 0, "HOUSE")
	s.oracle.gate = make(chan struct{})
	s.oracle.entered = make(chan struct{}, 1)
	s.drag(game.ID, rowPath(0, 5)...)

	type result struct {
		outcome *model.Outcome
		game    *model.Game
		err     error
	}
	done := make(chan result, 1)
	go func() {
		outcome, g, err := s.controller.Release(s.ctx, game.ID)
		done <- result{outcome, g, err}
	}()
	<-s.oracle.entered

	summary, err := s.controller.End(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(0, summary.FinalScore)

	close(s.oracle.gate)
	res := <-done
	s.Require().NoError(res.err)

	s.Equal(model.OutcomeExpired, res.outcome.Kind)
	s.Zero(res.outcome.Points)
	s.Equal(0, res.game.Session.Score)
	s.Equal(before.Grid, res.game.Grid)
	s.False(res.game.IsActive())
	s.Nil(res.game.Pending)
}

// Clock tests

func (s *ControllerSuite) TestSessionExpiresAfterDuration() {
	game := s.newGame()
	s.drag(game.ID, pos(0, 0), pos(0, 1))

	for i := 0; i < 599; i++ {
		running, err := s.controller.Tick(s.ctx, game.ID)
		s.Require().NoError(err)
		s.Require().True(running)
	}
	running, err := s.controller.Tick(s.ctx, game.ID)
	s.Require().NoError(err)
	s.False(running)

	for i := 0; i < 5; i++ {
		running, err := s.controller.Tick(s.ctx, game.ID)
		s.Require().NoError(err)
		s.False(running)
	}

	ended, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.False(ended.IsActive())
	s.Equal(0, ended.Session.TimeRemaining)
	s.Empty(ended.Selection.Path)

	ticks := s.events.ofType(model.EventClockTick)
	s.Len(ticks, 600)
	s.Equal(model.ClockTickPayload{Remaining: 599, Display: "9:59"}, ticks[0].Payload)
	s.Equal(model.ClockTickPayload{Remaining: 0, Display: "0:00"}, ticks[599].Payload)

	over := s.events.ofType(model.EventGameOver)
	s.Require().Len(over, 1)
	s.Equal(model.DefaultTeamName, over[0].Payload.(model.GameOverPayload).Summary.TeamName)
}

func (s *ControllerSuite) TestGesturesRefusedAfterExpiry() {
	game := s.newGame()
	_, err := s.controller.End(s.ctx, game.ID)
	s.Require().NoError(err)

	_, err = s.controller.Begin(s.ctx, game.ID, pos(0, 0))
	s.ErrorIs(err, model.ErrSessionExpired)
	_, err = s.controller.Extend(s.ctx, game.ID, pos(0, 1))
	s.ErrorIs(err, model.ErrSessionExpired)
	_, _, err = s.controller.Release(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrSessionExpired)
}

func (s *ControllerSuite) TestEndIsIdempotent() {
	game := s.newGame()
	s.writeRow(game.ID, 0, "CATS")
	s.drag(game.ID, rowPath(0, 4)...)
	_, _, err := s.controller.Release(s.ctx, game.ID)
	s.Require().NoError(err)

	first, err := s.controller.End(s.ctx, game.ID)
	s.Require().NoError(err)
	second, err := s.controller.End(s.ctx, game.ID)
	s.Require().NoError(err)

	s.Equal(4, first.FinalScore)
	s.Equal(first.FinalScore, second.FinalScore)
	s.Len(s.events.ofType(model.EventGameOver), 1)
	s.Equal(0, s.controller.RunningClocks())
}

func (s *ControllerSuite) TestEndReleasesGameLock() {
	game := s.newGame()
	s.drag(game.ID, pos(0, 0))
	_, held := s.controller.locks.Load(game.ID)
	s.Require().True(held)

	_, err := s.controller.End(s.ctx, game.ID)
	s.Require().NoError(err)

	s.Eventually(func() bool {
		_, held := s.controller.locks.Load(game.ID)
		return !held
	}, time.Second, time.Millisecond)

	// an ended game can still be read and ended again
	summary, err := s.controller.End(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.ID, summary.ID)
}

func (s *ControllerSuite) TestClockLoopDrivesSession() {
	cfg := s.cfg
	cfg.Duration = 2
	s.controller.Close()
	s.controller = s.newController(cfg)

	game := s.newGame()
	s.Require().Eventually(func() bool { return len(s.clock.Tickers()) == 1 }, time.Second, time.Millisecond)
	ticker := s.clock.Tickers()[0]

	s.Require().True(ticker.Fire(s.clock.Now()))
	s.Require().True(ticker.Fire(s.clock.Now()))

	s.Eventually(func() bool { return s.controller.RunningClocks() == 0 }, time.Second, time.Millisecond)
	ended, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.False(ended.IsActive())
	s.True(ticker.Stopped())
	s.Eventually(func() bool {
		_, held := s.controller.locks.Load(game.ID)
		return !held
	}, time.Second, time.Millisecond)
}
