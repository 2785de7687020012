package imaging

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Normalize returns the per-image z-score of a.
//
// The standard deviation is floored at 1/sqrt(pixel count) so that
// near-constant images do not divide by zero. A constant image yields zeros.
func Normalize(a *Array) (*Array, error) {
	if a == nil || a.Size() == 0 {
		return nil, ErrEmptyImage
	}

	mean, err := stats.Mean(a.Data)
	if err != nil {
		return nil, err
	}

	std, err := stats.StandardDeviationPopulation(a.Data)
	if err != nil {
		return nil, err
	}

	stdAdj := math.Max(std, 1.0/math.Sqrt(float64(a.Size())))
	scale := 1 / stdAdj

	out := NewArray(a.Shape...)
	for i, v := range a.Data {
		out.Data[i] = (v - mean) * scale
	}

	return out, nil
}

// FixedStandardize maps 8-bit pixel values to roughly [-1, 1]
// by subtracting 127.5 and dividing by 128.
func FixedStandardize(a *Array) *Array {
	out := NewArray(a.Shape...)
	for i, v := range a.Data {
		out.Data[i] = (v - 127.5) / 128.0
	}
	return out
}
