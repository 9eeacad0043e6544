package blocks

import (
	"fmt"

	"github.com/samber/lo"
)

// Slots is the number of shapes offered at once.
const Slots = 3

// State is the turn state of a game. It is derived from the board, the
// offered shapes and the selection, never stored.
type State int

const (
	AwaitingSelection State = iota
	AwaitingPlacement
	GameOver
)

func (s State) String() string {
	switch s {
	case AwaitingSelection:
		return "awaiting_selection"
	case AwaitingPlacement:
		return "awaiting_placement"
	case GameOver:
		return "game_over"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Stats counts what happened during the current run.
type Stats struct {
	Placements int
	Rows       int
	Columns    int
	LastClear  int // score earned by the most recent line clear
}

// Game owns one board and three shape slots. It is not safe for concurrent
// use; callers serialise access.
type Game struct {
	src      Source
	board    Board
	shapes   [Slots]*Shape
	selected int // -1 when nothing is selected
	score    int
	stats    Stats
}

// NewGame starts a game on an empty board with three fresh shapes.
func NewGame(src Source) *Game {
	g := &Game{src: src}
	g.Restart()
	return g
}

// Restart clears the board, zeroes the score and regenerates every slot.
func (g *Game) Restart() {
	g.board.Clear()
	g.score = 0
	g.stats = Stats{}
	g.selected = -1
	for i := range g.shapes {
		g.shapes[i] = Generate(g.src)
	}
}

// Select picks slot i for placement. It fails when i is not a slot, a shape
// is already selected, or shape i fits nowhere on the board.
func (g *Game) Select(i int) bool {
	if i < 0 || i >= Slots || g.selected != -1 {
		return false
	}
	if !g.board.FitsOnBoard(g.shapes[i]) {
		return false
	}
	g.selected = i
	return true
}

// CancelSelection drops the current selection, if any.
func (g *Game) CancelSelection() {
	g.selected = -1
}

// TryPlace puts the selected shape with its top-left corner at (x, y).
// On success the shape's value and any line clear are added to the score
// and the slot is refilled. On failure the selection is dropped and
// nothing else changes.
func (g *Game) TryPlace(x, y int) bool {
	if g.selected == -1 {
		return false
	}
	slot := g.selected
	g.selected = -1

	shape := g.shapes[slot]
	if !g.board.Place(shape, x, y) {
		return false
	}
	g.score += shape.Value()
	g.shapes[slot] = Generate(g.src)

	rows, cols := g.board.FullLines()
	cleared := g.board.ClearLines()
	g.score += cleared
	g.stats.Placements++
	g.stats.Rows += len(rows)
	g.stats.Columns += len(cols)
	g.stats.LastClear = cleared
	return true
}

// BoardCell returns the colour at (x, y).
func (g *Game) BoardCell(x, y int) (Color, error) {
	return g.board.Get(x, y)
}

// Board returns a copy of the board.
func (g *Game) Board() Board {
	return g.board
}

// ShapeInSlot returns a copy of the shape offered in slot i.
func (g *Game) ShapeInSlot(i int) (*Shape, error) {
	if i < 0 || i >= Slots {
		return nil, fmt.Errorf("%w: slot %d", ErrOutOfRange, i)
	}
	return g.shapes[i].Clone(), nil
}

// SelectedSlot returns the selected slot, with ok false when none is.
func (g *Game) SelectedSlot() (slot int, ok bool) {
	return g.selected, g.selected != -1
}

func (g *Game) Score() int   { return g.score }
func (g *Game) Stats() Stats { return g.stats }

// ShapeFits reports whether the shape in slot i can be placed anywhere.
func (g *Game) ShapeFits(i int) bool {
	if i < 0 || i >= Slots {
		return false
	}
	return g.board.FitsOnBoard(g.shapes[i])
}

// IsGameOver reports whether no offered shape fits anywhere.
func (g *Game) IsGameOver() bool {
	return !lo.SomeBy(g.shapes[:], g.board.FitsOnBoard)
}

// State derives the current turn state.
func (g *Game) State() State {
	switch {
	case g.IsGameOver():
		return GameOver
	case g.selected != -1:
		return AwaitingPlacement
	default:
		return AwaitingSelection
	}
}
