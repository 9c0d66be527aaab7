package board

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultGridSize  = 3
	DefaultBoxSize   = 200
	DefaultBorder    = 20
	DefaultLineWidth = 5
)

var ErrInvalidGeometry = errors.New("invalid board geometry")

// Geometry holds the pixel layout of the board: cells are BoxSize squares, separated by
// LineWidth wide grid lines and surrounded by a Border margin.
type Geometry struct {
	BoxSize   int `json:"box_size"`
	Border    int `json:"border"`
	LineWidth int `json:"line_width"`
}

func DefaultGeometry() Geometry {
	return Geometry{
		BoxSize:   DefaultBoxSize,
		Border:    DefaultBorder,
		LineWidth: DefaultLineWidth,
	}
}

// Validate - checks that the layout can be drawn: boxes need a positive size, margins
// and lines cannot be negative.
func (that Geometry) Validate() error {
	if that.BoxSize < 1 {
		return fmt.Errorf("%w: box size %d", ErrInvalidGeometry, that.BoxSize)
	}

	if that.Border < 0 || that.LineWidth < 0 {
		return fmt.Errorf("%w: border %d, line width %d", ErrInvalidGeometry, that.Border, that.LineWidth)
	}

	return nil
}

// pitch is the distance between the top-left corners of two neighbouring cells.
func (that Geometry) pitch() int {
	return that.BoxSize + that.LineWidth
}

// Rect is an axis aligned pixel rectangle. It contains the points of [X, X+W) × [Y, Y+H).
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Contains reports whether the point lies inside the rectangle. NaN never does.
func (that Rect) Contains(x, y float64) bool {
	return x >= float64(that.X) && x < float64(that.X+that.W) &&
		y >= float64(that.Y) && y < float64(that.Y+that.H)
}

// CenterX and CenterY are where renderers anchor marks and text.
func (that Rect) CenterX() int {
	return that.X + that.W/2
}

func (that Rect) CenterY() int {
	return that.Y + that.H/2
}

// axisIndex maps one coordinate to the row or column whose box covers it.
func axisIndex(v float64, size int, geometry Geometry) (int, bool) {
	start := float64(geometry.Border)
	end := start + float64(size*geometry.pitch()-geometry.LineWidth)

	if math.IsNaN(v) || v < start || v >= end {
		return 0, false
	}

	offset := v - start
	pitch := float64(geometry.pitch())
	index := int(offset / pitch)

	// float division can land on the next pitch for points right at a box edge
	if index >= size {
		index = size - 1
	}

	if offset-float64(index)*pitch >= float64(geometry.BoxSize) {
		return 0, false
	}

	return index, true
}
