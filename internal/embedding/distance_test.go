package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		name    string
		want    Metric
		wantErr bool
	}{
		{"", EuclideanSquared, false},
		{"euclidean_squared", EuclideanSquared, false},
		{"Angular-Distance", AngularDistance, false},
		{" angular_distance ", AngularDistance, false},
		{"cosine", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMetric(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedMetric)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMetricString(t *testing.T) {
	assert.Equal(t, "euclidean_squared", EuclideanSquared.String())
	assert.Equal(t, "angular_distance", AngularDistance.String())
	assert.Equal(t, "metric(7)", Metric(7).String())
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name   string
		e1, e2 []float64
		metric Metric
		want   float64
	}{
		{"euclidean orthogonal", []float64{1, 0, 0}, []float64{0, 1, 0}, EuclideanSquared, 2},
		{"euclidean same", []float64{0.3, -2, 5}, []float64{0.3, -2, 5}, EuclideanSquared, 0},
		{"euclidean scaled", []float64{1, 2}, []float64{3, 4}, EuclideanSquared, 8},
		{"angular same", []float64{0.3, -2, 5}, []float64{0.3, -2, 5}, AngularDistance, 0},
		{"angular orthogonal", []float64{1, 0}, []float64{0, 3}, AngularDistance, 0.5},
		{"angular opposite", []float64{1, 1}, []float64{-2, -2}, AngularDistance, 1},
		{"angular zero norm", []float64{0, 0}, []float64{1, 2}, AngularDistance, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Distance(tt.e1, tt.e2, tt.metric)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestDistance_Errors(t *testing.T) {
	_, err := Distance([]float64{1, 2}, []float64{1, 2, 3}, EuclideanSquared)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Distance(nil, nil, EuclideanSquared)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Distance([]float64{1}, []float64{2}, Metric(42))
	assert.ErrorIs(t, err, ErrUnsupportedMetric)
}

func TestDistanceBulk(t *testing.T) {
	e1 := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 1,
		2, 2,
	})
	e2 := mat.NewDense(3, 2, []float64{
		0, 1,
		0, 1,
		-1, -1,
	})

	t.Run("euclidean", func(t *testing.T) {
		got, err := DistanceBulk(e1, e2, EuclideanSquared)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{2, 0, 18}, got, 1e-9)
	})

	t.Run("angular", func(t *testing.T) {
		got, err := DistanceBulk(e1, e2, AngularDistance)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0.5, 0, 1}, got, 1e-6)
	})

	t.Run("transposed input", func(t *testing.T) {
		got, err := DistanceBulk(e1.T().T(), e2, EuclideanSquared)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("row mismatch", func(t *testing.T) {
		_, err := DistanceBulk(e1, mat.NewDense(2, 2, nil), EuclideanSquared)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestAngularSymmetric(t *testing.T) {
	a := []float64{0.2, 0.7, -0.1, 0.4}
	b := []float64{-0.5, 0.1, 0.9, 0.3}

	ab, err := Distance(a, b, AngularDistance)
	require.NoError(t, err)
	ba, err := Distance(b, a, AngularDistance)
	require.NoError(t, err)

	assert.InDelta(t, ab, ba, 1e-12)
	assert.GreaterOrEqual(t, ab, 0.0)
	assert.LessOrEqual(t, ab, 1.0)
}
