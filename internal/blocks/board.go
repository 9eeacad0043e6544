package blocks

import (
	"fmt"

	"github.com/samber/lo"
)

// Size is the width and height of the board.
const Size = 8

// Line clear rewards: every cleared line scores LineScoreSingle, and each
// row cleared together with a column adds CrossBonus on top. A row+column
// pair therefore scores 33, not the 25 of the old pairing rule.
const (
	LineScoreSingle = 8
	CrossBonus      = 17
)

// Board is the 8x8 grid, row-major. The zero value is an empty board.
// Board is a value type: assigning it copies the grid.
type Board struct {
	cells [Size * Size]Color
}

// Clear empties every cell.
func (b *Board) Clear() {
	b.cells = [Size * Size]Color{}
}

func inBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// Get returns the colour at (x, y), Empty for a free cell.
func (b *Board) Get(x, y int) (Color, error) {
	if !inBounds(x, y) {
		return Empty, fmt.Errorf("%w: board cell (%d,%d)", ErrOutOfRange, x, y)
	}
	return b.cells[y*Size+x], nil
}

func (b *Board) at(x, y int) Color {
	return b.cells[y*Size+x]
}

// Fits reports whether every filled cell of shape, offset by (x, y), lands
// on an empty cell inside the board.
func (b *Board) Fits(shape *Shape, x, y int) bool {
	if x < 0 || y < 0 || x+shape.Width() > Size || y+shape.Height() > Size {
		return false
	}
	for yy := 0; yy < shape.Height(); yy++ {
		for xx := 0; xx < shape.Width(); xx++ {
			if !shape.filled(xx, yy) {
				continue
			}
			if b.at(x+xx, y+yy) != Empty {
				return false
			}
		}
	}
	return true
}

// FitsOnBoard reports whether shape fits at any offset, scanning row-major.
func (b *Board) FitsOnBoard(shape *Shape) bool {
	_, _, ok := b.FirstFit(shape)
	return ok
}

// FirstFit returns the first offset, in row-major order, where shape fits.
func (b *Board) FirstFit(shape *Shape) (x, y int, ok bool) {
	for yy := 0; yy <= Size-shape.Height(); yy++ {
		for xx := 0; xx <= Size-shape.Width(); xx++ {
			if b.Fits(shape, xx, yy) {
				return xx, yy, true
			}
		}
	}
	return 0, 0, false
}

// Place paints shape at (x, y). It returns false, leaving the board
// untouched, when the shape does not fit there.
func (b *Board) Place(shape *Shape, x, y int) bool {
	if !b.Fits(shape, x, y) {
		return false
	}
	for _, p := range shape.Cells() {
		b.cells[(y+p.Y)*Size+x+p.X] = shape.Color()
	}
	return true
}

// FullLines returns the indices of completely filled rows and columns.
func (b *Board) FullLines() (rows, cols []int) {
	rows = lo.Filter(lo.Range(Size), func(y int, _ int) bool {
		return lo.EveryBy(lo.Range(Size), func(x int) bool { return b.at(x, y) != Empty })
	})
	cols = lo.Filter(lo.Range(Size), func(x int, _ int) bool {
		return lo.EveryBy(lo.Range(Size), func(y int) bool { return b.at(x, y) != Empty })
	})
	return rows, cols
}

// ClearLines empties every full row and column at once and returns the
// score they earn.
func (b *Board) ClearLines() int {
	rows, cols := b.FullLines()
	for _, y := range rows {
		for x := 0; x < Size; x++ {
			b.cells[y*Size+x] = Empty
		}
	}
	for _, x := range cols {
		for y := 0; y < Size; y++ {
			b.cells[y*Size+x] = Empty
		}
	}
	return LineScore(len(rows), len(cols))
}

// LineScore is the reward for clearing rows and cols lines in one go.
func LineScore(rows, cols int) int {
	return LineScoreSingle*(rows+cols) + CrossBonus*min(rows, cols)
}

// Filled counts the non-empty cells.
func (b *Board) Filled() int {
	return Size*Size - lo.Count(b.cells[:], Empty)
}

// String renders the grid one row per line, '.' for empty and '#' otherwise.
func (b *Board) String() string {
	buf := make([]byte, 0, (Size+1)*Size)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			buf = append(buf, lo.Ternary(b.at(x, y) == Empty, byte('.'), byte('#')))
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
