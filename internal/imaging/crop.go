package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
)

// ErrMarginRange is returned when a crop margin is outside [0, 1].
var ErrMarginRange = errors.New("the margin must be a value between 0 and 1")

// ExpandBox grows box by margin (a fraction of its size, half on each side)
// and clamps the result to a width x height image.
func ExpandBox(box Box, margin float64, width, height int) (Box, error) {
	if margin < 0 || margin > 1 || math.IsNaN(margin) {
		return Box{}, fmt.Errorf("%w (got %g)", ErrMarginRange, margin)
	}

	marginHeight := float64(box.Y1-box.Y0) * margin / 2
	marginWidth := float64(box.X1-box.X0) * margin / 2

	return Box{
		X0: int(math.Max(float64(box.X0)-marginWidth, 0)),
		Y0: int(math.Max(float64(box.Y0)-marginHeight, 0)),
		X1: int(math.Min(float64(box.X1)+marginWidth, float64(width))),
		Y1: int(math.Min(float64(box.Y1)+marginHeight, float64(height))),
	}, nil
}

// Crop cuts box out of a after expanding it by margin.
//
// It returns the cropped copy and the box that was actually used. An
// inverted or empty box, or one that lies outside a, yields an array with a
// zero dimension.
func Crop(a *Array, box Box, margin float64) (*Array, Box, error) {
	if a.Ndim() < 2 {
		return nil, Box{}, fmt.Errorf("crop needs a 2-D or 3-D image, got %s", a)
	}

	realized, err := ExpandBox(box, margin, a.Width(), a.Height())
	if err != nil {
		return nil, Box{}, err
	}

	h := max(realized.Y1-realized.Y0, 0)
	w := max(realized.X1-realized.X0, 0)
	c := a.Channels()

	shape := []int{h, w}
	if a.Ndim() > 2 {
		shape = append(shape, c)
	}
	out := NewArray(shape...)

	// Boxes lying outside the image realize with zero width or height.
	if h == 0 || w == 0 {
		return out, realized, nil
	}

	for y := 0; y < h; y++ {
		src := a.index(realized.Y0+y, realized.X0, 0)
		copy(out.Data[y*w*c:(y+1)*w*c], a.Data[src:src+w*c])
	}

	return out, realized, nil
}

// CropImage applies the same margin arithmetic as Crop to an image.Image.
// Box coordinates are relative to the image bounds.
func CropImage(img image.Image, box Box, margin float64) (*image.NRGBA, Box, error) {
	bounds := img.Bounds()

	realized, err := ExpandBox(box, margin, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, Box{}, err
	}

	if realized.X0 >= realized.X1 || realized.Y0 >= realized.Y1 {
		return nil, realized, fmt.Errorf("invalid crop region (%d,%d)-(%d,%d)",
			realized.X0, realized.Y0, realized.X1, realized.Y1)
	}

	cropped := imaging.Crop(img, realized.Rect().Add(bounds.Min))

	return cropped, realized, nil
}

// EncodedImage contains an image encoded as base64 PNG.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
