package imaging

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixMTCNNBox(t *testing.T) {
	tests := []struct {
		name           string
		maxY, maxX     int
		x1, y1, dx, dy int
		want           Box
	}{
		{"inside", 100, 200, 10, 20, 30, 40, Box{10, 20, 40, 60}},
		{"negative origin", 100, 200, -15, -5, 30, 40, Box{0, 0, 15, 35}},
		{"overflow", 100, 200, 180, 90, 50, 50, Box{180, 90, 200, 100}},
		{"negative delta", 100, 200, 50, 50, -80, -90, Box{50, 50, 0, 0}},
		{"fully outside", 100, 200, 300, 300, 10, 10, Box{200, 100, 200, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FixMTCNNBox(tt.maxY, tt.maxX, tt.x1, tt.y1, tt.dx, tt.dy)
			assert.Equal(t, tt.want, got)

			for _, x := range []int{got.X0, got.X1} {
				assert.GreaterOrEqual(t, x, 0)
				assert.LessOrEqual(t, x, tt.maxX)
			}
			for _, y := range []int{got.Y0, got.Y1} {
				assert.GreaterOrEqual(t, y, 0)
				assert.LessOrEqual(t, y, tt.maxY)
			}
		})
	}
}

func TestBoxFromSlice(t *testing.T) {
	b, err := BoxFromSlice([]int{1, 2, 3, 4, 99})
	assert.NoError(t, err)
	assert.Equal(t, Box{1, 2, 3, 4}, b)
	assert.Equal(t, []int{1, 2, 3, 4}, b.Slice())

	_, err = BoxFromSlice([]int{1, 2, 3})
	assert.Error(t, err)
}

func TestBox_Dimensions(t *testing.T) {
	b := Box{X0: 10, Y0: 20, X1: 50, Y1: 80}

	assert.Equal(t, 40, b.Width())
	assert.Equal(t, 60, b.Height())
	assert.Equal(t, image.Rect(10, 20, 50, 80), b.Rect())
}
