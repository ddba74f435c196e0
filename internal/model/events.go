package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventGameStarted     EventType = "game_started"
	EventGridUpdated     EventType = "grid_updated"
	EventSelectionUpdate EventType = "selection_updated"
	EventScoreUpdated    EventType = "score_updated"
	EventClockTick       EventType = "clock_tick"
	EventOutcome         EventType = "outcome"
	EventGameOver        EventType = "game_over"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    GameID
	Payload   any // Type-specific data
}

// GridUpdatedPayload carries the full grid after a mutation
type GridUpdatedPayload struct {
	Grid *Grid
}

// SelectionPayload carries the current path
type SelectionPayload struct {
	Path     []Position
	Word     string // letters along Path
	Dragging bool
}

// ScorePayload contains data for score updated events
type ScorePayload struct {
	Score      int
	WordsFound int
}

// ClockTickPayload contains data for clock tick events
type ClockTickPayload struct {
	Remaining int
	Display   string
}

// OutcomePayload wraps a released selection's outcome
type OutcomePayload struct {
	Outcome Outcome
}

// GameOverPayload contains the terminal result
type GameOverPayload struct {
	Summary GameSummary
}
