package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case GameState:
		o.printGameState(v)
	case ReleaseResult:
		o.printReleaseResult(v)
	case Hint:
		o.printHint(v)
	case GameSummary:
		o.printSummary(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Position response type (matches API)
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Tile response type
type Tile struct {
	ID         string `json:"id"`
	Letter     string `json:"letter"`
	Multiplier int    `json:"multiplier"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
}

// Grid response type
type Grid struct {
	Size  int      `json:"size"`
	Tiles [][]Tile `json:"tiles"`
}

// Session response type
type Session struct {
	TeamName      string `json:"team_name"`
	Score         int    `json:"score"`
	WordsFound    int    `json:"words_found"`
	TimeRemaining int    `json:"time_remaining"`
	Display       string `json:"display"`
	Active        bool   `json:"active"`
}

// Selection response type
type Selection struct {
	Path     []Position `json:"path"`
	Word     string     `json:"word"`
	Dragging bool       `json:"dragging"`
}

// Outcome response type
type Outcome struct {
	Kind    string     `json:"kind"`
	Word    string     `json:"word"`
	Path    []Position `json:"path"`
	Points  int        `json:"points"`
	Message string     `json:"message"`
}

// GameState response type
type GameState struct {
	ID          string    `json:"id"`
	Grid        Grid      `json:"grid"`
	Session     Session   `json:"session"`
	Selection   Selection `json:"selection"`
	Submission  string    `json:"submission"`
	LastOutcome *Outcome  `json:"last_outcome,omitempty"`
}

// ReleaseResult response type
type ReleaseResult struct {
	Outcome Outcome   `json:"outcome"`
	Game    GameState `json:"game"`
}

// Hint response type
type Hint struct {
	Word   string     `json:"word"`
	Path   []Position `json:"path"`
	Points int        `json:"points"`
}

// GameSummary response type
type GameSummary struct {
	ID         string `json:"id"`
	TeamName   string `json:"team_name"`
	FinalScore int    `json:"final_score"`
	WordsFound int    `json:"words_found"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printGameState(g GameState) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "Team: %s\n", g.Session.TeamName)

	if g.Session.Active {
		fmt.Fprintf(o.w, "Time: %s\n", g.Session.Display)
	} else {
		fmt.Fprintln(o.w, "Time: over")
	}
	fmt.Fprintf(o.w, "Score: %d (%d words)\n", g.Session.Score, g.Session.WordsFound)

	fmt.Fprintln(o.w)
	o.printGrid(g.Grid, g.Selection.Path)

	if len(g.Selection.Path) > 0 {
		fmt.Fprintf(o.w, "\nSelection: %s\n", g.Selection.Word)
	}
	if g.LastOutcome != nil {
		fmt.Fprintf(o.w, "Last: %s\n", g.LastOutcome.Message)
	}
}

// printGrid draws the letters with selected tiles in brackets.
// Multiplier tiles carry a trailing mark: ' for x2 and " for x3.
func (o *Output) printGrid(g Grid, selected []Position) {
	if len(g.Tiles) == 0 {
		return
	}

	inPath := make(map[Position]bool, len(selected))
	for _, p := range selected {
		inPath[p] = true
	}

	fmt.Fprint(o.w, "    ")
	for col := 0; col < g.Size; col++ {
		fmt.Fprintf(o.w, " %d  ", col)
	}
	fmt.Fprintln(o.w)

	border := "   +" + strings.Repeat("----", g.Size) + "+"
	fmt.Fprintln(o.w, border)

	for row, tiles := range g.Tiles {
		fmt.Fprintf(o.w, " %d |", row)
		for col, t := range tiles {
			left, right := " ", " "
			if inPath[Position{Row: row, Col: col}] {
				left, right = "[", "]"
			}
			fmt.Fprintf(o.w, "%s%s%s%s", left, t.Letter, right, multiplierMark(t.Multiplier))
		}
		fmt.Fprintln(o.w, "|")
	}

	fmt.Fprintln(o.w, border)
}

func multiplierMark(m int) string {
	switch m {
	case 2:
		return "'"
	case 3:
		return `"`
	default:
		return " "
	}
}

func (o *Output) printReleaseResult(r ReleaseResult) {
	fmt.Fprintln(o.w, r.Outcome.Message)
	fmt.Fprintf(o.w, "Score: %d (%d words)\n", r.Game.Session.Score, r.Game.Session.WordsFound)
}

func (o *Output) printHint(h Hint) {
	coords := make([]string, len(h.Path))
	for i, p := range h.Path {
		coords[i] = fmt.Sprintf("%d,%d", p.Row, p.Col)
	}
	fmt.Fprintf(o.w, "%s (%d pts): %s\n", h.Word, h.Points, strings.Join(coords, " "))
}

func (o *Output) printSummary(s GameSummary) {
	fmt.Fprintln(o.w, "The clock has run out.")
	fmt.Fprintf(o.w, "%s: %d tears from %d words\n", s.TeamName, s.FinalScore, s.WordsFound)
}
