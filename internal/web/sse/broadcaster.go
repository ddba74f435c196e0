package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/wordcrush/internal/api/response"
	"github.com/mcoot/wordcrush/internal/model"
)

// SSE event names pushed to clients
const (
	EventNameGameStarted = "game-started"
	EventNameGrid        = "grid-update"
	EventNameSelection   = "selection-update"
	EventNameScore       = "score-update"
	EventNameTick        = "tick"
	EventNameOutcome     = "outcome"
	EventNameGameOver    = "game-over"
)

// Broadcaster turns controller events into SSE messages for the game's hub
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish forwards an event to everyone watching its game.
// Events for games nobody is watching are dropped.
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.GameID)
	if hub == nil {
		return
	}

	name, data, ok := encodeEvent(event)
	if !ok {
		b.logger.Warn("sse unknown event type",
			slog.String("game_id", string(event.GameID)),
			slog.String("type", string(event.Type)))
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("game_id", string(event.GameID)),
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(name, string(body))
}

func encodeEvent(event model.Event) (string, any, bool) {
	switch p := event.Payload.(type) {
	case model.GridUpdatedPayload:
		return EventNameGrid, response.GridFromModel(p.Grid), true
	case model.SelectionPayload:
		return EventNameSelection, response.Selection{
			Path:     response.PositionsFromModel(p.Path),
			Word:     p.Word,
			Dragging: p.Dragging,
		}, true
	case model.ScorePayload:
		return EventNameScore, response.Score{Score: p.Score, WordsFound: p.WordsFound}, true
	case model.ClockTickPayload:
		return EventNameTick, response.Tick{Remaining: p.Remaining, Display: p.Display}, true
	case model.OutcomePayload:
		return EventNameOutcome, response.OutcomeFromModel(&p.Outcome), true
	case model.GameOverPayload:
		return EventNameGameOver, response.GameSummaryFromModel(p.Summary), true
	}

	if event.Type == model.EventGameStarted {
		return EventNameGameStarted, map[string]string{"game_id": string(event.GameID)}, true
	}
	return "", nil, false
}
