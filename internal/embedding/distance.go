/*
Package embedding compares face embeddings.

Embeddings are compared row by row, either as squared euclidean distance or
as angular distance normalized to [0, 1].
*/
package embedding

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrUnsupportedMetric is returned for metrics other than the two known ones.
	ErrUnsupportedMetric = errors.New("unsupported distance metric")
	// ErrShapeMismatch is returned when two embedding sets cannot be paired.
	ErrShapeMismatch = errors.New("embedding shapes do not match")
)

// Metric selects how two embeddings are compared.
type Metric int

const (
	EuclideanSquared Metric = iota
	AngularDistance
)

var metricNames = map[Metric]string{
	EuclideanSquared: "euclidean_squared",
	AngularDistance:  "angular_distance",
}

func (m Metric) String() string {
	if name, ok := metricNames[m]; ok {
		return name
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

// ParseMetric returns the metric with the given name. An empty name selects
// EuclideanSquared. Names are case-insensitive and may use "-" for "_".
func ParseMetric(name string) (Metric, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if key == "" {
		return EuclideanSquared, nil
	}

	for m, n := range metricNames {
		if n == key {
			return m, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnsupportedMetric, name)
}

// Distance returns the distance between two embeddings.
func Distance(e1, e2 []float64, m Metric) (float64, error) {
	if len(e1) == 0 || len(e1) != len(e2) {
		return 0, fmt.Errorf("%w: %d vs %d values", ErrShapeMismatch, len(e1), len(e2))
	}

	d, err := DistanceBulk(
		mat.NewDense(1, len(e1), e1),
		mat.NewDense(1, len(e2), e2),
		m,
	)
	if err != nil {
		return 0, err
	}

	return d[0], nil
}

// DistanceBulk returns the distance between each row of e1 and the row of
// e2 with the same index.
func DistanceBulk(e1, e2 mat.Matrix, m Metric) ([]float64, error) {
	r1, c1 := e1.Dims()
	r2, c2 := e2.Dims()
	if r1 != r2 || c1 != c2 {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, r1, c1, r2, c2)
	}

	var pair func(a, b []float64) float64
	switch m {
	case EuclideanSquared:
		pair = euclideanSquared
	case AngularDistance:
		pair = angular
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMetric, m)
	}

	a := mat.DenseCopyOf(e1)
	b := mat.DenseCopyOf(e2)

	result := make([]float64, r1)
	for i := range result {
		result[i] = pair(a.RawRowView(i), b.RawRowView(i))
	}

	return result, nil
}

func euclideanSquared(a, b []float64) float64 {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return floats.Dot(diff, diff)
}

// angular is arccos of the cosine similarity scaled to [0, 1]. A row with
// zero norm has similarity 0.
func angular(a, b []float64) float64 {
	var similarity float64
	if na, nb := floats.Norm(a, 2), floats.Norm(b, 2); na > 0 && nb > 0 {
		similarity = floats.Dot(a, b) / (na * nb)
	}

	similarity = math.Max(-1, math.Min(1, similarity))

	return math.Acos(similarity) / math.Pi
}
