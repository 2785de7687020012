package imaging

import (
	"errors"
	"fmt"
)

// ErrEmptyImage is returned when an operation needs at least one pixel.
var ErrEmptyImage = errors.New("image has no pixels")

// Array is a dense row-major pixel array of shape (height, width[, channels]).
//
// Arrays produced by this package are always fresh copies; no function
// modifies its input. Channel order is defined by the caller (see ChannelOrder).
type Array struct {
	Shape []int
	Data  []float64
}

// NewArray allocates a zero-filled array with the given shape.
func NewArray(shape ...int) *Array {
	size := 1
	for _, d := range shape {
		if d < 0 {
			d = 0
		}
		size *= d
	}

	return &Array{
		Shape: append([]int(nil), shape...),
		Data:  make([]float64, size),
	}
}

// NewArrayFrom wraps data with the given shape after checking the sizes agree.
func NewArrayFrom(data []float64, shape ...int) (*Array, error) {
	size := 1
	for _, d := range shape {
		size *= d
	}

	if size != len(data) {
		return nil, fmt.Errorf("shape %v needs %d values, got %d", shape, size, len(data))
	}

	return &Array{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Ndim returns the number of dimensions.
func (a *Array) Ndim() int {
	return len(a.Shape)
}

// Size returns the number of elements.
func (a *Array) Size() int {
	return len(a.Data)
}

// Height returns the first dimension, or 1 for a scalar.
func (a *Array) Height() int {
	return a.dim(0)
}

// Width returns the second dimension, or 1 if there is none.
func (a *Array) Width() int {
	return a.dim(1)
}

// Channels returns the third dimension, or 1 if there is none.
func (a *Array) Channels() int {
	return a.dim(2)
}

func (a *Array) dim(i int) int {
	if i < len(a.Shape) {
		return a.Shape[i]
	}
	return 1
}

func (a *Array) index(y, x, c int) int {
	return (y*a.Width()+x)*a.Channels() + c
}

// At returns the value at row y, column x, channel c.
func (a *Array) At(y, x, c int) float64 {
	return a.Data[a.index(y, x, c)]
}

// Set stores v at row y, column x, channel c.
func (a *Array) Set(y, x, c int, v float64) {
	a.Data[a.index(y, x, c)] = v
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{
		Shape: append([]int(nil), a.Shape...),
		Data:  append([]float64(nil), a.Data...),
	}
}

// SameShape reports whether both arrays have identical dimensions.
func (a *Array) SameShape(b *Array) bool {
	if len(a.Shape) != len(b.Shape) {
		return false
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	return true
}

// String returns a short description such as "array(112x112x3)".
func (a *Array) String() string {
	s := "array("
	for i, d := range a.Shape {
		if i > 0 {
			s += "x"
		}
		s += fmt.Sprint(d)
	}
	return s + ")"
}
