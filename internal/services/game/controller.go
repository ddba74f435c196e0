package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/wordcrush/internal/config"
	"github.com/mcoot/wordcrush/internal/dependencies/clock"
	"github.com/mcoot/wordcrush/internal/dependencies/random"
	"github.com/mcoot/wordcrush/internal/model"
	"github.com/mcoot/wordcrush/internal/services/grid"
	"github.com/mcoot/wordcrush/internal/services/oracle"
	"github.com/mcoot/wordcrush/internal/services/scoring"
	"github.com/mcoot/wordcrush/internal/services/selection"
	"github.com/mcoot/wordcrush/internal/services/sessionclock"
	"github.com/mcoot/wordcrush/internal/storage"
)

const gameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// staleSubmissionAfter is how long a lookup may stay pending before new
// gestures are allowed to abandon it
const staleSubmissionAfter = time.Minute

// Outcome messages
const (
	msgTooShort    = "too short, mortal"
	msgUnreachable = "oracle unreachable"
	msgExpired     = "the clock ran out first"
)

// EventPublisher receives game events after each state change
type EventPublisher interface {
	Publish(event model.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(model.Event) {}

// Controller runs the word validation state machine and the session clock
// for every game. Each game is only mutated while holding its own lock.
type Controller struct {
	storage   storage.Storage
	grid      *grid.Engine
	selection *selection.Engine
	scoring   *scoring.Service
	oracle    oracle.Oracle
	publisher EventPublisher
	cfg       config.GameConfig
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger

	locks sync.Map // model.GameID -> *sync.Mutex

	loopsMu sync.Mutex
	loops   map[model.GameID]context.CancelFunc
	loopsWG sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewController creates a new GameController
func NewController(
	storage storage.Storage,
	gridEngine *grid.Engine,
	selectionEngine *selection.Engine,
	scoringService *scoring.Service,
	wordOracle oracle.Oracle,
	publisher EventPublisher,
	cfg config.GameConfig,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		storage:   storage,
		grid:      gridEngine,
		selection: selectionEngine,
		scoring:   scoringService,
		oracle:    wordOracle,
		publisher: publisher,
		cfg:       cfg,
		clock:     clock,
		random:    random,
		logger:    logger.With(slog.String("component", "game")),
		loops:     make(map[model.GameID]context.CancelFunc),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// NewGame deals a fresh grid and starts the session clock
func (c *Controller) NewGame(ctx context.Context, teamName string) (*model.Game, error) {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		teamName = model.DefaultTeamName
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:        model.GameID(c.random.String(12, gameIDAlphabet)),
		Session:   sessionclock.Start(teamName, c.cfg.Duration),
		CreatedAt: now,
		UpdatedAt: now,
	}

	g, err := c.grid.CreateInitialGrid(&game.NextTileID, c.cfg.GridSize)
	if err != nil {
		return nil, err
	}
	game.Grid = g

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("team_name", teamName),
		slog.Int("grid_size", c.cfg.GridSize),
		slog.Int("duration", c.cfg.Duration),
	)

	c.publish(game, model.EventGameStarted, nil)
	c.publishGrid(game)
	c.startClock(game.ID)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// Begin starts a new selection at pos
func (c *Controller) Begin(ctx context.Context, gameID model.GameID, pos model.Position) (*model.Game, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsActive() {
		return nil, model.ErrSessionExpired
	}
	if c.lookupInFlight(game) {
		return nil, model.ErrSubmissionPending
	}

	if err := c.selection.Begin(&game.Selection, game.Grid, pos); err != nil {
		return nil, err
	}
	if err := c.save(ctx, game); err != nil {
		return nil, err
	}

	c.publishSelection(game)
	return game, nil
}

// Extend moves the current selection onto pos. Moves the selection rules
// refuse leave the game unchanged and are not errors.
func (c *Controller) Extend(ctx context.Context, gameID model.GameID, pos model.Position) (*model.Game, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsActive() {
		return nil, model.ErrSessionExpired
	}

	if !c.selection.Extend(&game.Selection, game.Grid, pos) {
		return game, nil
	}
	if err := c.save(ctx, game); err != nil {
		return nil, err
	}

	c.publishSelection(game)
	return game, nil
}

// Release ends the current gesture. Paths that are long enough are sent to
// the oracle and the verdict is applied before Release returns.
func (c *Controller) Release(ctx context.Context, gameID model.GameID) (*model.Outcome, *model.Game, error) {
	submission, outcome, game, err := c.finishGesture(ctx, gameID)
	if err != nil || outcome != nil {
		return outcome, game, err
	}

	// The lookup runs unlocked; the request going away must not strand the submission
	verdict := c.oracle.Lookup(context.WithoutCancel(ctx), submission.Word)

	return c.resolve(context.WithoutCancel(ctx), gameID, submission.Token, verdict)
}

// finishGesture either settles a too-short release immediately, returning
// its outcome, or records a pending submission and returns it
func (c *Controller) finishGesture(ctx context.Context, gameID model.GameID) (*model.Submission, *model.Outcome, *model.Game, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !game.IsActive() {
		return nil, nil, nil, model.ErrSessionExpired
	}
	if c.lookupInFlight(game) {
		return nil, nil, nil, model.ErrSubmissionPending
	}
	if !game.Selection.Dragging {
		return nil, nil, nil, model.ErrNoSelection
	}

	word, ok := c.selection.Finish(&game.Selection, game.Grid)
	if !ok {
		outcome := &model.Outcome{
			Kind:    model.OutcomeTooShort,
			Message: msgTooShort,
			At:      c.clock.Now(),
		}
		game.LastOutcome = outcome
		if err := c.save(ctx, game); err != nil {
			return nil, nil, nil, err
		}
		c.publishSelection(game)
		c.publish(game, model.EventOutcome, model.OutcomePayload{Outcome: *outcome})
		return nil, outcome, game, nil
	}

	game.SubmissionsCount++
	submission := &model.Submission{
		Token:     game.SubmissionsCount,
		Word:      word,
		Path:      append([]model.Position(nil), game.Selection.Path...),
		StartedAt: c.clock.Now(),
	}
	game.Pending = submission
	if err := c.save(ctx, game); err != nil {
		return nil, nil, nil, err
	}

	c.logger.Debug("word submitted",
		slog.String("game_id", string(gameID)),
		slog.String("word", word),
	)
	c.publishSelection(game)
	return submission, nil, game, nil
}

// resolve applies the oracle's verdict for the submission identified by token.
// If the result cannot be stored the submission is still cleared, so the
// game returns to idle instead of staying pending.
func (c *Controller) resolve(ctx context.Context, gameID model.GameID, token uint64, verdict model.LookupOutcome) (*model.Outcome, *model.Game, error) {
	unlock := c.lock(gameID)
	defer unlock()

	outcome, game, err := c.applyVerdict(ctx, gameID, token, verdict)
	if err != nil && !errors.Is(err, model.ErrSubmissionPending) {
		c.dropSubmission(ctx, gameID, token)
	}
	return outcome, game, err
}

// dropSubmission clears a pending submission without scoring it
func (c *Controller) dropSubmission(ctx context.Context, gameID model.GameID, token uint64) {
	log := c.logger.With(slog.String("game_id", string(gameID)), slog.Uint64("token", token))

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		log.Error("failed to drop submission", slog.String("error", err.Error()))
		return
	}
	if game.Pending == nil || game.Pending.Token != token {
		return
	}

	game.Pending = nil
	c.selection.Clear(&game.Selection)
	if err := c.save(ctx, game); err != nil {
		log.Error("failed to drop submission", slog.String("error", err.Error()))
		return
	}

	log.Warn("submission dropped after failed resolve")
	c.publishSelection(game)
}

func (c *Controller) applyVerdict(ctx context.Context, gameID model.GameID, token uint64, verdict model.LookupOutcome) (*model.Outcome, *model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if game.Pending == nil || game.Pending.Token != token {
		return nil, nil, fmt.Errorf("resolve submission %d: %w", token, model.ErrSubmissionPending)
	}

	submission := game.Pending
	game.Pending = nil
	c.selection.Clear(&game.Selection)

	outcome := &model.Outcome{
		Word: submission.Word,
		Path: submission.Path,
		At:   c.clock.Now(),
	}
	log := c.logger.With(
		slog.String("game_id", string(gameID)),
		slog.String("word", submission.Word),
	)

	switch {
	case !game.IsActive():
		outcome.Kind = model.OutcomeExpired
		outcome.Message = msgExpired
		log.Info("verdict arrived after session expired", slog.String("verdict", string(verdict)))

	case verdict == model.LookupFound:
		points := c.scoring.Score(submission.Word, submission.Path, game.Grid)
		game.Session.Score += points
		game.Session.WordsFound++
		game.Grid = c.grid.Collapse(game.Grid, submission.Path, &game.NextTileID)

		outcome.Kind = model.OutcomeAccepted
		outcome.Points = points
		outcome.Message = fmt.Sprintf("❝%s❞ +%d tears", submission.Word, points)
		log.Info("word accepted", slog.Int("points", points), slog.Int("score", game.Session.Score))

	case verdict == model.LookupNotFound:
		outcome.Kind = model.OutcomeRejected
		outcome.Message = fmt.Sprintf("%q not in the lament", submission.Word)
		log.Info("word rejected")

	default:
		outcome.Kind = model.OutcomeUnreachable
		outcome.Message = msgUnreachable
		log.Warn("oracle unreachable")
	}

	game.LastOutcome = outcome
	if err := c.save(ctx, game); err != nil {
		return nil, nil, err
	}

	c.publishSelection(game)
	if outcome.Scored() {
		c.publishGrid(game)
		c.publish(game, model.EventScoreUpdated, model.ScorePayload{
			Score:      game.Session.Score,
			WordsFound: game.Session.WordsFound,
		})
	}
	c.publish(game, model.EventOutcome, model.OutcomePayload{Outcome: *outcome})

	return outcome, game, nil
}

// Tick advances the game's clock by one second.
// Returns false once the session is over.
func (c *Controller) Tick(ctx context.Context, gameID model.GameID) (bool, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return false, err
	}
	if !game.IsActive() {
		return false, nil
	}

	expired := sessionclock.Tick(&game.Session)
	if expired {
		c.selection.Clear(&game.Selection)
	}
	if err := c.save(ctx, game); err != nil {
		return false, err
	}

	c.publish(game, model.EventClockTick, model.ClockTickPayload{
		Remaining: game.Session.TimeRemaining,
		Display:   sessionclock.Display(game.Session.TimeRemaining),
	})
	if expired {
		c.gameOver(game)
		return false, nil
	}
	return true, nil
}

// End expires the session immediately and returns the final result.
// Ending a finished game just returns its result.
func (c *Controller) End(ctx context.Context, gameID model.GameID) (*model.GameSummary, error) {
	summary, err := c.end(ctx, gameID)
	if err != nil {
		return nil, err
	}
	c.stopClock(gameID)
	return summary, nil
}

func (c *Controller) end(ctx context.Context, gameID model.GameID) (*model.GameSummary, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !sessionclock.Expire(&game.Session) {
		summary := game.Summary()
		return &summary, nil
	}

	c.selection.Clear(&game.Selection)
	if err := c.save(ctx, game); err != nil {
		return nil, err
	}

	c.gameOver(game)
	summary := game.Summary()
	return &summary, nil
}

// Close stops every running session clock
func (c *Controller) Close() {
	c.cancel()
	c.loopsWG.Wait()
}

func (c *Controller) gameOver(game *model.Game) {
	c.logger.Info("session expired",
		slog.String("game_id", string(game.ID)),
		slog.Int("final_score", game.Session.Score),
		slog.Int("words_found", game.Session.WordsFound),
	)
	c.publish(game, model.EventGameOver, model.GameOverPayload{Summary: game.Summary()})
}

func (c *Controller) startClock(gameID model.GameID) {
	ctx, cancel := context.WithCancel(c.ctx)

	c.loopsMu.Lock()
	c.loops[gameID] = cancel
	c.loopsMu.Unlock()

	runner := sessionclock.NewRunner(c.clock, time.Second, c.logger.With(slog.String("game_id", string(gameID))))

	c.loopsWG.Add(1)
	go func() {
		defer c.loopsWG.Done()
		defer c.forget(gameID)

		runner.Run(ctx, func(ctx context.Context) bool {
			running, err := c.Tick(ctx, gameID)
			if err != nil {
				c.logger.Error("clock tick failed",
					slog.String("game_id", string(gameID)),
					slog.String("error", err.Error()),
				)
				return !errors.Is(err, model.ErrGameNotFound)
			}
			return running
		})
	}()
}

func (c *Controller) stopClock(gameID model.GameID) {
	c.loopsMu.Lock()
	defer c.loopsMu.Unlock()
	if cancel, ok := c.loops[gameID]; ok {
		cancel()
		delete(c.loops, gameID)
	}
}

// forget releases everything held in memory for a game whose clock has stopped.
// After expiry only the resolve of a last submission still writes the game.
func (c *Controller) forget(gameID model.GameID) {
	c.stopClock(gameID)
	c.locks.Delete(gameID)
}

// RunningClocks returns how many session clocks are ticking
func (c *Controller) RunningClocks() int {
	c.loopsMu.Lock()
	defer c.loopsMu.Unlock()
	return len(c.loops)
}

// lookupInFlight reports whether game is waiting on the oracle. A submission
// pending for longer than staleSubmissionAfter is abandoned; its verdict no
// longer matches and will be refused.
func (c *Controller) lookupInFlight(game *model.Game) bool {
	if game.Pending == nil {
		return false
	}
	age := c.clock.Now().Sub(game.Pending.StartedAt)
	if age < staleSubmissionAfter {
		return true
	}

	c.logger.Warn("abandoning stale submission",
		slog.String("game_id", string(game.ID)),
		slog.String("word", game.Pending.Word),
		slog.Duration("age", age),
	)
	game.Pending = nil
	c.selection.Clear(&game.Selection)
	return false
}

func (c *Controller) lock(gameID model.GameID) func() {
	m, _ := c.locks.LoadOrStore(gameID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (c *Controller) save(ctx context.Context, game *model.Game) error {
	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

func (c *Controller) publish(game *model.Game, eventType model.EventType, payload any) {
	c.publisher.Publish(model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		GameID:    game.ID,
		Payload:   payload,
	})
}

func (c *Controller) publishGrid(game *model.Game) {
	c.publish(game, model.EventGridUpdated, model.GridUpdatedPayload{Grid: game.Grid.Clone()})
}

func (c *Controller) publishSelection(game *model.Game) {
	c.publish(game, model.EventSelectionUpdate, model.SelectionPayload{
		Path:     append([]model.Position(nil), game.Selection.Path...),
		Word:     game.Grid.Word(game.Selection.Path),
		Dragging: game.Selection.Dragging,
	})
}

// Interface for dependency injection
type ControllerInterface interface {
	NewGame(ctx context.Context, teamName string) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	Begin(ctx context.Context, gameID model.GameID, pos model.Position) (*model.Game, error)
	Extend(ctx context.Context, gameID model.GameID, pos model.Position) (*model.Game, error)
	Release(ctx context.Context, gameID model.GameID) (*model.Outcome, *model.Game, error)
	Tick(ctx context.Context, gameID model.GameID) (bool, error)
	End(ctx context.Context, gameID model.GameID) (*model.GameSummary, error)
}

var _ ControllerInterface = (*Controller)(nil)
