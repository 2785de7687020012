package imaging

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// ChannelOrder is the order of the colour channels in an Array.
type ChannelOrder int

const (
	// RGB stores red, green, blue.
	RGB ChannelOrder = iota
	// BGR stores blue, green, red, the layout OpenCV-trained models expect.
	BGR
)

// String returns "rgb" or "bgr".
func (o ChannelOrder) String() string {
	switch o {
	case RGB:
		return "rgb"
	case BGR:
		return "bgr"
	default:
		return fmt.Sprintf("ChannelOrder(%d)", int(o))
	}
}

// ParseChannelOrder parses "rgb" or "bgr"; the empty string means RGB.
func ParseChannelOrder(s string) (ChannelOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rgb":
		return RGB, nil
	case "bgr":
		return BGR, nil
	default:
		return RGB, fmt.Errorf("unknown channel order: %s", s)
	}
}

// FromImage converts img to a (height, width, 3) array in the given order.
// Alpha is dropped without compositing.
func FromImage(img image.Image, order ChannelOrder) *Array {
	return fromNRGBA(imaging.Clone(img), 3, order)
}

// fromImageUnchanged keeps the native channel layout of img: grayscale
// images become 2-D, images with transparency keep 4 channels.
func fromImageUnchanged(img image.Image, order ChannelOrder) *Array {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		nrgba := imaging.Clone(img)
		b := nrgba.Bounds()
		out := NewArray(b.Dy(), b.Dx())
		for y := 0; y < b.Dy(); y++ {
			row := nrgba.Pix[y*nrgba.Stride:]
			for x := 0; x < b.Dx(); x++ {
				out.Data[y*b.Dx()+x] = float64(row[x*4])
			}
		}
		return out
	}

	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		return fromNRGBA(imaging.Clone(img), 4, order)
	}

	return FromImage(img, order)
}

func fromNRGBA(img *image.NRGBA, channels int, order ChannelOrder) *Array {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	out := NewArray(h, w, channels)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			i := (y*w + x) * channels
			if order == BGR {
				out.Data[i], out.Data[i+1], out.Data[i+2] = float64(p[2]), float64(p[1]), float64(p[0])
			} else {
				out.Data[i], out.Data[i+1], out.Data[i+2] = float64(p[0]), float64(p[1]), float64(p[2])
			}
			if channels == 4 {
				out.Data[i+3] = float64(p[3])
			}
		}
	}

	return out
}

// ToImage converts a 2-D array or an array with 1, 3 or 4 channels to an
// NRGBA image. Channel 0 is written to red, channel 2 to blue, so an array
// keeps its channel order. Values are rounded and clamped to [0, 255].
func ToImage(a *Array) (*image.NRGBA, error) {
	if a.Ndim() < 2 || a.Ndim() > 3 {
		return nil, fmt.Errorf("cannot convert %s to an image", a)
	}

	c := a.Channels()
	if c != 1 && c != 3 && c != 4 {
		return nil, fmt.Errorf("cannot convert %d channels to an image", c)
	}

	h, w := a.Height(), a.Width()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := img.Pix[y*img.Stride+x*4 : y*img.Stride+x*4+4]
			i := (y*w + x) * c
			if c == 1 {
				v := saturateUint8(a.Data[i])
				p[0], p[1], p[2] = v, v, v
			} else {
				p[0] = saturateUint8(a.Data[i])
				p[1] = saturateUint8(a.Data[i+1])
				p[2] = saturateUint8(a.Data[i+2])
			}
			p[3] = 255
			if c == 4 {
				p[3] = saturateUint8(a.Data[i+3])
			}
		}
	}

	return img, nil
}

// SwapRB returns a copy of a with channels 0 and 2 exchanged, converting
// between RGB and BGR. Arrays with fewer than 3 channels are copied as-is.
func SwapRB(a *Array) *Array {
	out := a.Clone()
	c := a.Channels()
	if a.Ndim() < 3 || c < 3 {
		return out
	}

	for i := 0; i+2 < len(out.Data); i += c {
		out.Data[i], out.Data[i+2] = out.Data[i+2], out.Data[i]
	}

	return out
}
