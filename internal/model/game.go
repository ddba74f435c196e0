package model

import "time"

// GameID uniquely identifies a game
type GameID string

// DefaultTeamName is used when a game is started without a name
const DefaultTeamName = "doomed soul"

// Session is the score and clock for one game
type Session struct {
	TeamName      string
	Score         int
	WordsFound    int
	TimeRemaining int // seconds
	Active        bool
}

// Selection is the in-progress drag gesture
type Selection struct {
	Path     []Position
	Dragging bool
}

// Len returns the number of positions in the path
func (s *Selection) Len() int {
	return len(s.Path)
}

// Last returns the most recently added position
func (s *Selection) Last() (Position, bool) {
	if len(s.Path) == 0 {
		return Position{}, false
	}
	return s.Path[len(s.Path)-1], true
}

// Contains reports whether pos is already part of the path
func (s *Selection) Contains(pos Position) bool {
	for _, p := range s.Path {
		if p == pos {
			return true
		}
	}
	return false
}

// SubmissionState is the phase of the word validation flow
type SubmissionState string

const (
	SubmissionIdle    SubmissionState = "idle"
	SubmissionPending SubmissionState = "pending" // waiting on the oracle
)

// Submission is a word handed to the oracle and the path that spelled it
type Submission struct {
	Token     uint64 // distinguishes successive submissions in the same game
	Word      string
	Path      []Position
	StartedAt time.Time
}

// Game is the complete engine state for one play session
type Game struct {
	ID        GameID
	Grid      *Grid
	Session   Session
	Selection Selection

	// Word validation
	Pending          *Submission
	SubmissionsCount uint64
	LastOutcome      *Outcome

	// NextTileID feeds every tile created for this game
	NextTileID TileSequence

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubmissionState returns whether a lookup is in flight
func (g *Game) SubmissionState() SubmissionState {
	if g.Pending != nil {
		return SubmissionPending
	}
	return SubmissionIdle
}

// IsActive returns true while the session clock is running
func (g *Game) IsActive() bool {
	return g.Session.Active
}

// GameSummary is the terminal result shown when the clock runs out
type GameSummary struct {
	ID         GameID
	TeamName   string
	FinalScore int
	WordsFound int
	EndedAt    time.Time
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	clone := *g
	if g.Grid != nil {
		clone.Grid = g.Grid.Clone()
	}
	clone.Selection.Path = clonePath(g.Selection.Path)
	if g.Pending != nil {
		pending := *g.Pending
		pending.Path = clonePath(g.Pending.Path)
		clone.Pending = &pending
	}
	if g.LastOutcome != nil {
		outcome := *g.LastOutcome
		outcome.Path = clonePath(g.LastOutcome.Path)
		clone.LastOutcome = &outcome
	}
	return &clone
}

// Summary returns the game's current result
func (g *Game) Summary() GameSummary {
	return GameSummary{
		ID:         g.ID,
		TeamName:   g.Session.TeamName,
		FinalScore: g.Session.Score,
		WordsFound: g.Session.WordsFound,
		EndedAt:    g.UpdatedAt,
	}
}

func clonePath(path []Position) []Position {
	if path == nil {
		return nil
	}
	result := make([]Position, len(path))
	copy(result, path)
	return result
}
