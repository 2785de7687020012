package align

import (
	"errors"
	"fmt"
)

// ErrLandmarkCount is returned when alignment does not get exactly five landmarks.
var ErrLandmarkCount = errors.New("alignment needs exactly 5 landmarks")

// Point is a 2D floating point pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmark is a named facial keypoint.
type Landmark struct {
	Name string `json:"name"`
	Point
}

// Landmarks is an ordered set of facial keypoints. Alignment expects the
// order left eye, right eye, nose, left mouth corner, right mouth corner.
type Landmarks []Landmark

// Landmark names used by face detectors such as MTCNN.
const (
	LeftEye    = "left_eye"
	RightEye   = "right_eye"
	Nose       = "nose"
	MouthLeft  = "mouth_left"
	MouthRight = "mouth_right"
)

// LandmarkOrder is the order in which landmarks are matched to the
// reference points.
var LandmarkOrder = []string{LeftEye, RightEye, Nose, MouthLeft, MouthRight}

// LandmarksFromMap orders detector keypoints by LandmarkOrder.
// All five names must be present.
func LandmarksFromMap(points map[string]Point) (Landmarks, error) {
	result := make(Landmarks, 0, len(LandmarkOrder))

	for _, name := range LandmarkOrder {
		p, ok := points[name]
		if !ok {
			return nil, fmt.Errorf("missing landmark %q", name)
		}
		result = append(result, Landmark{Name: name, Point: p})
	}

	return result, nil
}

// Points returns the coordinates in order.
func (l Landmarks) Points() []Point {
	result := make([]Point, len(l))
	for i, lm := range l {
		result[i] = lm.Point
	}
	return result
}
