package imaging

import (
	"fmt"
	"image"
)

// Box is a pixel bounding box with (X0, Y0) top-left and (X1, Y1) bottom-right.
type Box struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// BoxFromSlice builds a box from the first four values of v.
func BoxFromSlice(v []int) (Box, error) {
	if len(v) < 4 {
		return Box{}, fmt.Errorf("bounding box needs 4 values, got %d", len(v))
	}
	return Box{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3]}, nil
}

// Width returns X1 - X0.
func (b Box) Width() int {
	return b.X1 - b.X0
}

// Height returns Y1 - Y0.
func (b Box) Height() int {
	return b.Y1 - b.Y0
}

// Rect converts the box to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X0, b.Y0, b.X1, b.Y1)
}

// Slice returns the box as [x0, y0, x1, y1].
func (b Box) Slice() []int {
	return []int{b.X0, b.Y0, b.X1, b.Y1}
}

// FixMTCNNBox converts a detector box given as top-left corner plus size
// into corner form and clamps every coordinate into the image.
// Detector output can lie partly outside the frame.
func FixMTCNNBox(maxY, maxX, x1, y1, dx, dy int) Box {
	x2 := x1 + dx
	y2 := y1 + dy

	return Box{
		X0: clampInt(x1, maxX),
		Y0: clampInt(y1, maxY),
		X1: clampInt(x2, maxX),
		Y1: clampInt(y2, maxY),
	}
}

// clampInt returns max(min(v, hi), 0).
func clampInt(v, hi int) int {
	if v > hi {
		v = hi
	}
	if v < 0 {
		v = 0
	}
	return v
}
