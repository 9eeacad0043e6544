package blocks

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testColor Color = "#888"

// boardFrom builds a board from eight rows of '#' (filled) and '.' (empty).
func boardFrom(t *testing.T, rows ...string) Board {
	t.Helper()
	require.Len(t, rows, Size)
	var b Board
	for y, row := range rows {
		require.Len(t, row, Size)
		for x, c := range row {
			if c == '#' {
				b.cells[y*Size+x] = testColor
			}
		}
	}
	return b
}

func fullBoard() Board {
	var b Board
	for i := range b.cells {
		b.cells[i] = testColor
	}
	return b
}

func monomino(t *testing.T) *Shape {
	t.Helper()
	s, err := NewShape(1, 1, []bool{true}, "#f00")
	require.NoError(t, err)
	return s
}

func TestBoardGet(t *testing.T) {
	var b Board
	c, err := b.Get(7, 7)
	require.NoError(t, err)
	assert.Equal(t, Empty, c)

	for _, p := range []Point{{-1, 0}, {0, -1}, {8, 0}, {0, 8}} {
		_, err := b.Get(p.X, p.Y)
		assert.ErrorIs(t, err, ErrOutOfRange, "Get(%d,%d)", p.X, p.Y)
	}
}

func TestFitsRejectsOverhang(t *testing.T) {
	empty := Board{}
	full := fullBoard()
	for _, s := range orientations(t) {
		for y := -1; y <= Size; y++ {
			for x := -1; x <= Size; x++ {
				overhang := x < 0 || y < 0 || x+s.Width() > Size || y+s.Height() > Size
				if overhang {
					assert.False(t, empty.Fits(s, x, y), "%s at (%d,%d)", s, x, y)
				} else {
					assert.True(t, empty.Fits(s, x, y), "%s at (%d,%d)", s, x, y)
				}
				assert.False(t, full.Fits(s, x, y))
			}
		}
	}
}

func TestFitsIgnoresEmptyMaskCells(t *testing.T) {
	b := boardFrom(t,
		".#......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	corner, err := Template(2) // ##/#.
	require.NoError(t, err)
	assert.False(t, b.Fits(corner, 0, 0))

	corner.FlipV() // #./##
	assert.True(t, b.Fits(corner, 0, 0))
}

func TestFitsOnBoardEmpty(t *testing.T) {
	var b Board
	for _, s := range orientations(t) {
		assert.True(t, b.FitsOnBoard(s), "%s", s)
		x, y, ok := b.FirstFit(s)
		assert.True(t, ok)
		assert.Equal(t, 0, x)
		assert.Equal(t, 0, y)
	}
}

func TestFitsOnBoardScansRowMajor(t *testing.T) {
	b := boardFrom(t,
		"########",
		"####.###",
		"########",
		"##.#####",
		"##.#####",
		"########",
		"########",
		"########",
	)
	x, y, ok := b.FirstFit(monomino(t))
	require.True(t, ok)
	assert.Equal(t, 4, x)
	assert.Equal(t, 1, y)

	line, err := Template(1) // ##
	require.NoError(t, err)
	assert.False(t, b.FitsOnBoard(line))

	line.Rotate()
	x, y, ok = b.FirstFit(line)
	require.True(t, ok)
	assert.Equal(t, 2, x)
	assert.Equal(t, 3, y)
}

func TestPlace(t *testing.T) {
	var b Board
	s, err := Template(8) // #.../####
	require.NoError(t, err)
	s.color = "#0ff"

	require.True(t, b.Place(s, 4, 6))
	assert.Equal(t, s.Value(), b.Filled())
	for _, p := range s.Cells() {
		c, err := b.Get(4+p.X, 6+p.Y)
		require.NoError(t, err)
		assert.Equal(t, Color("#0ff"), c)
	}
	c, err := b.Get(5, 6)
	require.NoError(t, err)
	assert.Equal(t, Empty, c)
}

func TestPlaceIsNoOpWhenItDoesNotFit(t *testing.T) {
	b := boardFrom(t,
		"........",
		"...#....",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	for _, s := range orientations(t) {
		for y := -1; y <= Size; y++ {
			for x := -1; x <= Size; x++ {
				if b.Fits(s, x, y) {
					continue
				}
				before := b
				assert.False(t, b.Place(s, x, y))
				assert.Equal(t, before, b)
			}
		}
	}
}

func TestLineScoreFormula(t *testing.T) {
	for r := 0; r <= Size; r++ {
		for c := 0; c <= Size; c++ {
			assert.Equal(t, 8*(r+c)+17*min(r, c), LineScore(r, c), "r=%d c=%d", r, c)
		}
	}
}

func TestClearLines(t *testing.T) {
	tests := []struct {
		rows, cols int
		want       int
	}{
		{0, 0, 0},
		{1, 0, 8},
		{0, 1, 8},
		{1, 1, 33},
		{2, 1, 41},
		{1, 2, 41},
		{2, 2, 66},
		{3, 5, 115},
		{5, 0, 40},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("rows=%d,cols=%d", tt.rows, tt.cols), func(t *testing.T) {
			var b Board
			for y := 0; y < tt.rows; y++ {
				for x := 0; x < Size; x++ {
					b.cells[y*Size+x] = testColor
				}
			}
			for x := 0; x < tt.cols; x++ {
				for y := 0; y < Size; y++ {
					b.cells[y*Size+x] = testColor
				}
			}
			// a stray cell outside every full line must survive
			b.cells[7*Size+7] = "#f0f"
			before := b

			rows, cols := b.FullLines()
			assert.Len(t, rows, tt.rows)
			assert.Len(t, cols, tt.cols)

			assert.Equal(t, tt.want, b.ClearLines())

			for y := 0; y < Size; y++ {
				for x := 0; x < Size; x++ {
					got, err := b.Get(x, y)
					require.NoError(t, err)
					if y < tt.rows || x < tt.cols {
						assert.Equal(t, Empty, got, "(%d,%d)", x, y)
					} else {
						assert.Equal(t, before.at(x, y), got, "(%d,%d)", x, y)
					}
				}
			}
			c, _ := b.Get(7, 7)
			assert.Equal(t, Color("#f0f"), c)
		})
	}
}

func TestClearLinesFullBoard(t *testing.T) {
	b := fullBoard()
	assert.Equal(t, 264, b.ClearLines())
	assert.Equal(t, 0, b.Filled())
	assert.Equal(t, Board{}, b)
}

func TestClearLinesAfterFillingRow(t *testing.T) {
	var b Board
	for x := 0; x < Size-1; x++ {
		require.True(t, b.Place(monomino(t), x, 0))
	}
	assert.Equal(t, 0, b.ClearLines())
	assert.Equal(t, Size-1, b.Filled())

	assert.False(t, b.Place(monomino(t), 0, 0), "cell already taken")
	require.True(t, b.Place(monomino(t), Size-1, 0))
	assert.Equal(t, 8, b.ClearLines())
	for x := 0; x < Size; x++ {
		c, err := b.Get(x, 0)
		require.NoError(t, err)
		assert.Equal(t, Empty, c)
	}
}

func TestBoardClear(t *testing.T) {
	b := fullBoard()
	b.Clear()
	assert.Equal(t, 0, b.Filled())
	assert.Equal(t, "........\n", b.String()[:Size+1])
}
