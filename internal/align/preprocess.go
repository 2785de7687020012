package align

import (
	"fmt"

	"github.com/ironsheep/face-tools-mcp/internal/event"
	"github.com/ironsheep/face-tools-mcp/internal/imaging"
)

var log = event.Log

// referenceSize is the face size the reference landmarks are given for.
const referenceSize = 112

// referenceLandmarks place an aligned face in the bottom centre of a
// 112x112 image, in LandmarkOrder.
var referenceLandmarks = [5]Point{
	{X: 38.2946, Y: 51.6963},
	{X: 73.5318, Y: 51.5014},
	{X: 56.0252, Y: 71.7366},
	{X: 41.5493, Y: 92.3655},
	{X: 70.7299, Y: 92.2041},
}

// ReferencePoints returns the reference landmarks centred in a
// marginHeight x marginWidth canvas.
func ReferencePoints(marginHeight, marginWidth int) []Point {
	dx := float64(marginWidth-referenceSize) / 2
	dy := float64(marginHeight-referenceSize) / 2

	points := make([]Point, len(referenceLandmarks))
	for i, p := range referenceLandmarks {
		points[i] = Point{X: p.X + dx, Y: p.Y + dy}
	}

	return points
}

// CenterBox returns the default face box used when no detection is given:
// the image inset by 6.25% on each side. The horizontal inset is taken from
// the height and the vertical inset from the width.
func CenterBox(height, width int) imaging.Box {
	x0 := int(float64(height) * 0.0625)
	y0 := int(float64(width) * 0.0625)

	return imaging.Box{
		X0: x0,
		Y0: y0,
		X1: width - x0,
		Y1: height - y0,
	}
}

// Preprocess produces a face crop of a ready for embedding.
//
// With landmarks, a similarity transform from the five landmarks to the
// reference points is estimated and a is warped into a canvas of
// height*(1+margin) x width*(1+margin). Without landmarks, box (or
// CenterBox if box is nil) is expanded by margin and cropped.
func Preprocess(a *imaging.Array, height, width int, margin float64, box *imaging.Box, landmarks Landmarks) (*imaging.Array, error) {
	marginHeight := int(float64(height) + float64(height)*margin)
	marginWidth := int(float64(width) + float64(width)*margin)

	if landmarks != nil {
		if len(landmarks) != len(referenceLandmarks) {
			return nil, fmt.Errorf("%w, got %d", ErrLandmarkCount, len(landmarks))
		}

		m, err := EstimateSimilarity(landmarks.Points(), ReferencePoints(marginHeight, marginWidth))
		if err != nil {
			return nil, fmt.Errorf("failed to estimate alignment: %w", err)
		}

		return WarpAffine(a, m, marginHeight, marginWidth)
	}

	faceBox := CenterBox(a.Height(), a.Width())
	if box != nil {
		faceBox = *box
	}

	cropped, _, err := imaging.Crop(a, faceBox, margin)
	if err != nil {
		return nil, err
	}

	return cropped, nil
}
