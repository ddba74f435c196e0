package response

import (
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/wordcrush/internal/model"
	"github.com/mcoot/wordcrush/internal/services/bot"
	"github.com/mcoot/wordcrush/internal/services/sessionclock"
)

// Position represents a grid cell in API responses
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PositionsFromModel converts a path
func PositionsFromModel(path []model.Position) []Position {
	return lo.Map(path, func(p model.Position, _ int) Position {
		return Position{Row: p.Row, Col: p.Col}
	})
}

// Tile represents a single letter tile
type Tile struct {
	ID         string `json:"id"`
	Letter     string `json:"letter"`
	Multiplier int    `json:"multiplier"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
}

// TileFromModel converts a model.Tile
func TileFromModel(t model.Tile) Tile {
	return Tile{
		ID:         t.ID.String(),
		Letter:     string(t.Letter),
		Multiplier: t.Multiplier,
		Row:        t.Row,
		Col:        t.Col,
	}
}

// Grid represents the tile matrix, row-major
type Grid struct {
	Size  int      `json:"size"`
	Tiles [][]Tile `json:"tiles"`
}

// GridFromModel converts a model.Grid
func GridFromModel(g *model.Grid) Grid {
	if g == nil {
		return Grid{Tiles: [][]Tile{}}
	}
	tiles := lo.Map(g.Cells, func(row []model.Tile, _ int) []Tile {
		return lo.Map(row, func(t model.Tile, _ int) Tile { return TileFromModel(t) })
	})
	return Grid{Size: g.Size, Tiles: tiles}
}

// Session represents the score and clock
type Session struct {
	TeamName      string `json:"team_name"`
	Score         int    `json:"score"`
	WordsFound    int    `json:"words_found"`
	TimeRemaining int    `json:"time_remaining"`
	Display       string `json:"display"`
	Active        bool   `json:"active"`
}

// SessionFromModel converts a model.Session
func SessionFromModel(s model.Session) Session {
	return Session{
		TeamName:      s.TeamName,
		Score:         s.Score,
		WordsFound:    s.WordsFound,
		TimeRemaining: s.TimeRemaining,
		Display:       sessionclock.Display(s.TimeRemaining),
		Active:        s.Active,
	}
}

// Selection represents the in-progress gesture
type Selection struct {
	Path     []Position `json:"path"`
	Word     string     `json:"word"`
	Dragging bool       `json:"dragging"`
}

// SelectionFromModel converts a selection, spelling its word from the grid
func SelectionFromModel(s model.Selection, g *model.Grid) Selection {
	word := ""
	if g != nil {
		word = g.Word(s.Path)
	}
	return Selection{
		Path:     PositionsFromModel(s.Path),
		Word:     word,
		Dragging: s.Dragging,
	}
}

// Outcome represents the result of a released selection
type Outcome struct {
	Kind    string     `json:"kind"`
	Word    string     `json:"word"`
	Path    []Position `json:"path"`
	Points  int        `json:"points"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}

// OutcomeFromModel converts a model.Outcome
func OutcomeFromModel(o *model.Outcome) Outcome {
	return Outcome{
		Kind:    string(o.Kind),
		Word:    o.Word,
		Path:    PositionsFromModel(o.Path),
		Points:  o.Points,
		Message: o.Message,
		At:      o.At,
	}
}

// GameState is the full state of a game
type GameState struct {
	ID          string    `json:"id"`
	Grid        Grid      `json:"grid"`
	Session     Session   `json:"session"`
	Selection   Selection `json:"selection"`
	Submission  string    `json:"submission"`
	LastOutcome *Outcome  `json:"last_outcome,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GameStateFromModel converts a model.Game
func GameStateFromModel(g *model.Game) GameState {
	state := GameState{
		ID:         string(g.ID),
		Grid:       GridFromModel(g.Grid),
		Session:    SessionFromModel(g.Session),
		Selection:  SelectionFromModel(g.Selection, g.Grid),
		Submission: string(g.SubmissionState()),
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
	if g.LastOutcome != nil {
		o := OutcomeFromModel(g.LastOutcome)
		state.LastOutcome = &o
	}
	return state
}

// ReleaseResult is returned when a gesture is released
type ReleaseResult struct {
	Outcome Outcome   `json:"outcome"`
	Game    GameState `json:"game"`
}

// Hint is a word the bot can see on the grid
type Hint struct {
	Word   string     `json:"word"`
	Path   []Position `json:"path"`
	Points int        `json:"points"`
}

// HintFromCandidate converts a bot candidate
func HintFromCandidate(c *bot.Candidate) Hint {
	return Hint{
		Word:   c.Word,
		Path:   PositionsFromModel(c.Path),
		Points: c.Points,
	}
}

// GameSummary is the terminal result of a game
type GameSummary struct {
	ID         string    `json:"id"`
	TeamName   string    `json:"team_name"`
	FinalScore int       `json:"final_score"`
	WordsFound int       `json:"words_found"`
	EndedAt    time.Time `json:"ended_at"`
}

// GameSummaryFromModel converts a model.GameSummary
func GameSummaryFromModel(s model.GameSummary) GameSummary {
	return GameSummary{
		ID:         string(s.ID),
		TeamName:   s.TeamName,
		FinalScore: s.FinalScore,
		WordsFound: s.WordsFound,
		EndedAt:    s.EndedAt,
	}
}

// Score is pushed whenever the score changes
type Score struct {
	Score      int `json:"score"`
	WordsFound int `json:"words_found"`
}

// Tick is pushed once per clock second
type Tick struct {
	Remaining int    `json:"remaining"`
	Display   string `json:"display"`
}

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}
