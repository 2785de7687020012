package imaging

import "math"

// FixImage returns a (height, width, 3) copy of a.
//
//   - Arrays with fewer than 2 dimensions get trailing axes of length 1.
//   - 2-D (grayscale) arrays are replicated into 3 channels with AddColor.
//   - 3-D arrays keep their first 3 channels; alpha is dropped. Arrays with
//     fewer than 3 channels repeat channel 0.
func FixImage(a *Array) *Array {
	img := a

	for img.Ndim() < 2 {
		img = &Array{Shape: append(append([]int(nil), img.Shape...), 1), Data: img.Data}
	}

	if img.Ndim() == 2 {
		return AddColor(img)
	}

	h, w, c := img.Height(), img.Width(), img.Channels()
	out := NewArray(h, w, 3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < 3; ch++ {
				src := ch
				if c < 3 {
					src = 0
				}
				out.Set(y, x, ch, img.At(y, x, src))
			}
		}
	}

	return out
}

// AddColor replicates a 2-D grayscale array into 3 identical channels.
// Values are cast to 8-bit unsigned integers.
func AddColor(a *Array) *Array {
	h, w := a.Height(), a.Width()
	out := NewArray(h, w, 3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := castUint8(a.At(y, x, 0))
			out.Set(y, x, 0, v)
			out.Set(y, x, 1, v)
			out.Set(y, x, 2, v)
		}
	}

	return out
}

// castUint8 truncates v into the 8-bit range.
func castUint8(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return math.Trunc(v)
}

// saturateUint8 rounds v to the nearest value in the 8-bit range.
func saturateUint8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
