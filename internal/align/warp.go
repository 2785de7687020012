package align

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/face-tools-mcp/internal/imaging"
)

// cubicA is the bicubic kernel coefficient used by OpenCV's INTER_CUBIC.
const cubicA = -0.75

// WarpAffine maps a through the 2x3 transform m into a height x width
// canvas with bicubic interpolation over a fixed 4x4 neighbourhood.
//
// Each channel is interpolated as float64, so values are neither rounded
// nor clamped and any channel count (alpha included) is preserved. Source
// taps outside a count as 0, so uncovered pixels are 0 in every channel.
// Coordinates follow OpenCV: integer coordinates are pixel centres.
func WarpAffine(a *imaging.Array, m mat.Matrix, height, width int) (*imaging.Array, error) {
	if r, c := m.Dims(); r != 2 || c != 3 {
		return nil, fmt.Errorf("transform must be 2x3, got %dx%d", r, c)
	}
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("invalid output size %dx%d", width, height)
	}
	if a.Ndim() < 2 || a.Ndim() > 3 {
		return nil, fmt.Errorf("cannot warp %s", a)
	}

	inv, err := invertAffine(m)
	if err != nil {
		return nil, err
	}

	srcH, srcW, channels := a.Height(), a.Width(), a.Channels()

	var out *imaging.Array
	if a.Ndim() == 2 {
		out = imaging.NewArray(height, width)
	} else {
		out = imaging.NewArray(height, width, channels)
	}

	px := make([]float64, channels)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx := inv[0]*float64(x) + inv[1]*float64(y) + inv[2]
			sy := inv[3]*float64(x) + inv[4]*float64(y) + inv[5]

			ix, iy := math.Floor(sx), math.Floor(sy)
			wx, wy := cubicWeights(sx-ix), cubicWeights(sy-iy)

			for c := range px {
				px[c] = 0
			}

			for j := 0; j < 4; j++ {
				yy := int(iy) - 1 + j
				if yy < 0 || yy >= srcH {
					continue
				}
				for k := 0; k < 4; k++ {
					xx := int(ix) - 1 + k
					if xx < 0 || xx >= srcW {
						continue
					}
					weight := wy[j] * wx[k]
					base := (yy*srcW + xx) * channels
					for c := range px {
						px[c] += weight * a.Data[base+c]
					}
				}
			}

			copy(out.Data[(y*width+x)*channels:], px)
		}
	}

	log.Debugf("align: warped %s into %dx%d", a, width, height)

	return out, nil
}

// invertAffine returns the destination to source mapping of m as
// row-major 2x3 coefficients.
func invertAffine(m mat.Matrix) ([6]float64, error) {
	d := mat.DenseCopyOf(m)

	var lin mat.Dense
	if err := lin.Inverse(d.Slice(0, 2, 0, 2)); err != nil {
		return [6]float64{}, fmt.Errorf("%w: transform is not invertible", ErrDegenerate)
	}

	var t mat.VecDense
	t.MulVec(&lin, d.ColView(2))

	return [6]float64{
		lin.At(0, 0), lin.At(0, 1), -t.AtVec(0),
		lin.At(1, 0), lin.At(1, 1), -t.AtVec(1),
	}, nil
}

// cubicWeights returns the four tap weights for a sample at fraction t
// past the second tap.
func cubicWeights(t float64) [4]float64 {
	w0 := ((cubicA*(t+1)-5*cubicA)*(t+1)+8*cubicA)*(t+1) - 4*cubicA
	w1 := ((cubicA+2)*t-(cubicA+3))*t*t + 1
	w2 := ((cubicA+2)*(1-t)-(cubicA+3))*(1-t)*(1-t) + 1

	return [4]float64{w0, w1, w2, 1 - w0 - w1 - w2}
}
