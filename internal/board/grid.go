package board

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

var ErrInvalidGridSize = errors.New("grid size must be at least 1")

// Grid owns the N×N cells of a board and the pixel boxes used to hit-test clicks.
// Cells are indexed row-major: index = row*N + col, rows running along the y axis.
type Grid struct {
	size     int
	geometry Geometry
	cells    []entity.Mark
	boxes    []Rect
}

// New - builds an empty grid of size×size cells.
func New(size int, geometry Geometry) (*Grid, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGridSize, size)
	}

	if err := geometry.Validate(); err != nil {
		return nil, err
	}

	grid := &Grid{
		size:     size,
		geometry: geometry,
		cells:    make([]entity.Mark, size*size),
		boxes:    make([]Rect, size*size),
	}

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			grid.boxes[row*size+col] = Rect{
				X: geometry.Border + col*geometry.pitch(),
				Y: geometry.Border + row*geometry.pitch(),
				W: geometry.BoxSize,
				H: geometry.BoxSize,
			}
		}
	}

	return grid, nil
}

// Size is N, the number of cells on one side.
func (that *Grid) Size() int {
	return that.size
}

// Len is the number of cells, N².
func (that *Grid) Len() int {
	return len(that.cells)
}

func (that *Grid) Geometry() Geometry {
	return that.geometry
}

// SurfaceSize - returns the side in pixels of the square surface the board is drawn on.
func (that *Grid) SurfaceSize() int {
	return that.size*that.geometry.BoxSize + 2*that.geometry.Border + (that.size-1)*that.geometry.LineWidth
}

func (that *Grid) Contains(index int) bool {
	return index >= 0 && index < len(that.cells)
}

// CellAt - returns the index of the cell whose box contains the point.
// Points on the border, on a grid line or off the surface return false.
func (that *Grid) CellAt(x, y float64) (int, bool) {
	col, ok := axisIndex(x, that.size, that.geometry)
	if !ok {
		return 0, false
	}

	row, ok := axisIndex(y, that.size, that.geometry)
	if !ok {
		return 0, false
	}

	return row*that.size + col, true
}

// StateAt - returns the mark in the cell; out of range indices read as empty.
func (that *Grid) StateAt(index int) entity.Mark {
	if !that.Contains(index) {
		return entity.EmptyCell
	}

	return that.cells[index]
}

// SetState - writes the mark into the cell. Out of range indices are ignored.
// The grid never refuses to overwrite an occupied cell, callers guard that.
func (that *Grid) SetState(index int, mark entity.Mark) {
	if !that.Contains(index) {
		return
	}

	that.cells[index] = mark
}

// IsFull reports whether no empty cell is left.
func (that *Grid) IsFull() bool {
	for _, cell := range that.cells {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}

// Cells - returns a copy of all cell states.
func (that *Grid) Cells() []entity.Mark {
	cells := make([]entity.Mark, len(that.cells))
	copy(cells, that.cells)

	return cells
}

// Clone - returns an independent copy of the grid.
func (that *Grid) Clone() *Grid {
	return &Grid{
		size:     that.size,
		geometry: that.geometry,
		cells:    that.Cells(),
		boxes:    append([]Rect(nil), that.boxes...),
	}
}

// Reset - empties every cell.
func (that *Grid) Reset() {
	for i := range that.cells {
		that.cells[i] = entity.EmptyCell
	}
}

// Rect - returns the pixel box of the cell.
func (that *Grid) Rect(index int) (Rect, bool) {
	if !that.Contains(index) {
		return Rect{}, false
	}

	return that.boxes[index], true
}

// Separators - returns the grid lines drawn between cells, vertical ones first.
func (that *Grid) Separators() []Rect {
	if that.geometry.LineWidth == 0 {
		return nil
	}

	length := that.SurfaceSize() - 2*that.geometry.Border
	lines := make([]Rect, 0, 2*(that.size-1))

	for i := 1; i < that.size; i++ {
		start := that.geometry.Border + i*that.geometry.BoxSize + (i-1)*that.geometry.LineWidth
		lines = append(lines, Rect{X: start, Y: that.geometry.Border, W: that.geometry.LineWidth, H: length})
	}

	for i := 1; i < that.size; i++ {
		start := that.geometry.Border + i*that.geometry.BoxSize + (i-1)*that.geometry.LineWidth
		lines = append(lines, Rect{X: that.geometry.Border, Y: start, W: length, H: that.geometry.LineWidth})
	}

	return lines
}
