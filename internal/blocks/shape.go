package blocks

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Color tags the cells painted by a shape. Empty marks a free board cell.
type Color string

const Empty Color = ""

// Palette is the fixed set of colours a generated shape can take.
var Palette = []Color{"#f00", "#0f0", "#00f", "#f0f", "#0ff", "#ff0"}

// MaxShapeSize bounds both dimensions of any shape.
const MaxShapeSize = 4

// Point is a cell offset, x to the right and y down.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type template struct {
	width, height int
	cells         []int
}

var templates = []template{
	{1, 1, []int{1}},
	{2, 1, []int{1, 1}},
	{2, 2, []int{
		1, 1,
		1, 0,
	}},
	{3, 2, []int{
		1, 1, 1,
		1, 0, 0,
	}},
	{3, 2, []int{
		1, 1, 1,
		0, 1, 0,
	}},
	{3, 2, []int{
		0, 1, 1,
		1, 1, 0,
	}},
	{3, 2, []int{
		1, 0, 1,
		1, 1, 1,
	}},
	{3, 3, []int{
		1, 0, 0,
		1, 1, 1,
		0, 0, 1,
	}},
	{4, 2, []int{
		1, 0, 0, 0,
		1, 1, 1, 1,
	}},
	{3, 1, []int{1, 1, 1}},
	{4, 1, []int{1, 1, 1, 1}},
	{2, 2, []int{
		1, 1,
		1, 1,
	}},
}

// Shape is a rectangular mask of filled cells sharing one colour.
// The mask is stored row-major.
type Shape struct {
	width  int
	height int
	mask   []bool
	color  Color
}

// NewShape builds a shape from a row-major mask.
func NewShape(width, height int, mask []bool, color Color) (*Shape, error) {
	if width < 1 || width > MaxShapeSize || height < 1 || height > MaxShapeSize {
		return nil, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrInvalidShape, width, height, MaxShapeSize, MaxShapeSize)
	}
	if len(mask) != width*height {
		return nil, fmt.Errorf("%w: mask has %d cells, want %d", ErrInvalidShape, len(mask), width*height)
	}
	if !slices.Contains(mask, true) {
		return nil, fmt.Errorf("%w: no filled cell", ErrInvalidShape)
	}
	return &Shape{
		width:  width,
		height: height,
		mask:   slices.Clone(mask),
		color:  color,
	}, nil
}

// TemplateCount is the number of fixed shape templates.
func TemplateCount() int {
	return len(templates)
}

// Template returns template i in its natural orientation, uncoloured.
func Template(i int) (*Shape, error) {
	if i < 0 || i >= len(templates) {
		return nil, fmt.Errorf("%w: template %d", ErrOutOfRange, i)
	}
	return templates[i].shape(), nil
}

func (t template) shape() *Shape {
	mask := lo.Map(t.cells, func(v int, _ int) bool { return v == 1 })
	return &Shape{width: t.width, height: t.height, mask: mask}
}

// Generate draws a new shape: colour, template, 0-2 clockwise turns, then
// an independent 50% chance of a horizontal and of a vertical flip.
func Generate(src Source) *Shape {
	color := Palette[src.Next(0, len(Palette))]
	i := src.Next(0, len(templates))
	if i < 0 || i >= len(templates) {
		panic(fmt.Sprintf("blocks: Source.Next(0, %d) returned %d", len(templates), i))
	}
	s := templates[i].shape()
	s.color = color
	Repeat(src, 0, 3, s.Rotate)
	if src.Float64() < 0.5 {
		s.FlipH()
	}
	if src.Float64() < 0.5 {
		s.FlipV()
	}
	return s
}

func (s *Shape) Width() int   { return s.width }
func (s *Shape) Height() int  { return s.height }
func (s *Shape) Color() Color { return s.color }

// Get reports whether the mask cell at (x, y) is filled.
func (s *Shape) Get(x, y int) (bool, error) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return false, fmt.Errorf("%w: shape cell (%d,%d) outside %dx%d", ErrOutOfRange, x, y, s.width, s.height)
	}
	return s.filled(x, y), nil
}

func (s *Shape) filled(x, y int) bool {
	return s.mask[y*s.width+x]
}

// Value is the number of filled cells, which is also the score for placing it.
func (s *Shape) Value() int {
	return lo.Count(s.mask, true)
}

// Cells returns the filled offsets in row-major order.
func (s *Shape) Cells() []Point {
	cells := make([]Point, 0, len(s.mask))
	for yy := 0; yy < s.height; yy++ {
		for xx := 0; xx < s.width; xx++ {
			if s.filled(xx, yy) {
				cells = append(cells, Point{X: xx, Y: yy})
			}
		}
	}
	return cells
}

// Rotate turns the mask 90 degrees clockwise, swapping width and height.
func (s *Shape) Rotate() {
	width, height := s.height, s.width
	rotated := make([]bool, len(s.mask))
	for yy := 0; yy < s.height; yy++ {
		for xx := 0; xx < s.width; xx++ {
			dx, dy := width-1-yy, xx
			rotated[dy*width+dx] = s.mask[yy*s.width+xx]
		}
	}
	s.width, s.height, s.mask = width, height, rotated
}

// FlipH mirrors the mask left to right.
func (s *Shape) FlipH() {
	flipped := make([]bool, len(s.mask))
	for yy := 0; yy < s.height; yy++ {
		for xx := 0; xx < s.width; xx++ {
			flipped[yy*s.width+(s.width-1-xx)] = s.mask[yy*s.width+xx]
		}
	}
	s.mask = flipped
}

// FlipV mirrors the mask top to bottom.
func (s *Shape) FlipV() {
	flipped := make([]bool, len(s.mask))
	for yy := 0; yy < s.height; yy++ {
		for xx := 0; xx < s.width; xx++ {
			flipped[(s.height-1-yy)*s.width+xx] = s.mask[yy*s.width+xx]
		}
	}
	s.mask = flipped
}

// Clone returns an independent copy.
func (s *Shape) Clone() *Shape {
	return &Shape{width: s.width, height: s.height, mask: slices.Clone(s.mask), color: s.color}
}

// Equal reports whether both shapes have the same dimensions, mask and colour.
func (s *Shape) Equal(other *Shape) bool {
	return s.width == other.width && s.height == other.height &&
		s.color == other.color && slices.Equal(s.mask, other.mask)
}

// String draws the mask with '#' for filled and '.' for empty cells.
func (s *Shape) String() string {
	buf := make([]byte, 0, (s.width+1)*s.height)
	for yy := 0; yy < s.height; yy++ {
		if yy > 0 {
			buf = append(buf, '/')
		}
		for xx := 0; xx < s.width; xx++ {
			buf = append(buf, lo.Ternary(s.filled(xx, yy), byte('#'), byte('.')))
		}
	}
	return string(buf)
}
