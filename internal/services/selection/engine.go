package selection

import (
	"github.com/mcoot/wordcrush/internal/model"
)

// Engine applies drag gestures to a selection path
type Engine struct {
	minWordLength int
}

// New creates a selection Engine that refuses words shorter than minWordLength
func New(minWordLength int) *Engine {
	return &Engine{
		minWordLength: minWordLength,
	}
}

// Begin starts a new gesture at pos, discarding any previous path
func (e *Engine) Begin(sel *model.Selection, grid *model.Grid, pos model.Position) error {
	if !grid.IsValidPosition(pos) {
		return model.ErrInvalidPosition
	}
	sel.Path = []model.Position{pos}
	sel.Dragging = true
	return nil
}

// Extend moves the gesture onto pos and reports whether the path changed.
//
// Re-entering the cell before the last one pops the last one. Any other cell
// already on the path is ignored, as is a cell that is not adjacent to the
// end of the path. Everything else is appended.
func (e *Engine) Extend(sel *model.Selection, grid *model.Grid, pos model.Position) bool {
	if !sel.Dragging || !grid.IsValidPosition(pos) {
		return false
	}

	if sel.Contains(pos) {
		n := len(sel.Path)
		if n >= 2 && sel.Path[n-2] == pos {
			sel.Path = sel.Path[:n-1]
			return true
		}
		return false
	}

	if last, ok := sel.Last(); ok && !last.IsAdjacent(pos) {
		return false
	}

	sel.Path = append(sel.Path, pos)
	return true
}

// Finish ends the gesture. It returns the spelled word and true when the path
// is long enough to submit, in which case the path is kept for scoring.
// Short paths are cleared.
func (e *Engine) Finish(sel *model.Selection, grid *model.Grid) (string, bool) {
	sel.Dragging = false
	if len(sel.Path) < e.minWordLength {
		e.Clear(sel)
		return "", false
	}
	return grid.Word(sel.Path), true
}

// Clear empties the path
func (e *Engine) Clear(sel *model.Selection) {
	sel.Path = nil
	sel.Dragging = false
}

// MinWordLength returns the shortest submittable path
func (e *Engine) MinWordLength() int {
	return e.minWordLength
}
