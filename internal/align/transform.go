package align

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate is returned when points do not determine a transform,
// e.g. coincident eyes or identical landmarks.
var ErrDegenerate = errors.New("degenerate point configuration")

// EyeAlignment describes where the eyes should land in the output face.
type EyeAlignment struct {
	// LeftEye is the desired left eye position as a fraction of the face
	// width and height. The right eye mirrors it horizontally.
	LeftEye Point

	FaceHeight int
	FaceWidth  int

	// Margin is the fractional canvas expansion around the face.
	Margin float64
}

// DefaultEyeAlignment places the left eye at 35% of a 112x112 face.
func DefaultEyeAlignment() EyeAlignment {
	return EyeAlignment{
		LeftEye:    Point{X: 0.35, Y: 0.35},
		FaceHeight: 112,
		FaceWidth:  112,
	}
}

// RotationMatrix returns the 2x3 matrix rotating by angle degrees
// (counter-clockwise in image coordinates) and scaling by scale around
// center, like OpenCV's getRotationMatrix2D.
func RotationMatrix(center Point, angle, scale float64) *mat.Dense {
	rad := angle * math.Pi / 180
	alpha := scale * math.Cos(rad)
	beta := scale * math.Sin(rad)

	return mat.NewDense(2, 3, []float64{
		alpha, beta, (1-alpha)*center.X - beta*center.Y,
		-beta, alpha, beta*center.X + (1-alpha)*center.Y,
	})
}

// TransformMatrix returns the similarity transform that levels the eyes,
// scales the inter-eye distance to the desired one and moves the eye
// midpoint to its desired position in the output face.
func TransformMatrix(leftEye, rightEye Point, opts EyeAlignment) (*mat.Dense, error) {
	dY := rightEye.Y - leftEye.Y
	dX := rightEye.X - leftEye.X
	angle := math.Atan2(dY, dX) * 180 / math.Pi

	desiredRightEyeX := 1.0 - opts.LeftEye.X

	dist := math.Sqrt(dX*dX + dY*dY)
	if dist == 0 {
		return nil, fmt.Errorf("%w: eyes at the same position", ErrDegenerate)
	}

	desiredDist := (desiredRightEyeX - opts.LeftEye.X) * float64(opts.FaceWidth)
	scale := desiredDist / dist

	eyeCenter := Point{
		X: math.Floor((leftEye.X + rightEye.X) / 2),
		Y: math.Floor((leftEye.Y + rightEye.Y) / 2),
	}

	m := RotationMatrix(eyeCenter, angle, scale)

	tX := float64(opts.FaceWidth) * (opts.Margin + 1) * 0.5
	tY := float64(opts.FaceHeight) * (opts.Margin + 1) * opts.LeftEye.Y

	m.Set(0, 2, m.At(0, 2)+tX-eyeCenter.X)
	m.Set(1, 2, m.At(1, 2)+tY-eyeCenter.Y)

	return m, nil
}

// EstimateSimilarity returns the least-squares similarity transform
// (rotation, uniform scale, translation) mapping src onto dst, following
// Umeyama's method. The result is a 2x3 matrix.
func EstimateSimilarity(src, dst []Point) (*mat.Dense, error) {
	n := len(src)
	if n != len(dst) {
		return nil, fmt.Errorf("point count mismatch: %d source, %d destination", n, len(dst))
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrDegenerate, n)
	}

	srcMean, dstMean := centroid(src), centroid(dst)

	srcDemean := mat.NewDense(n, 2, nil)
	dstDemean := mat.NewDense(n, 2, nil)
	var srcVar float64

	for i := 0; i < n; i++ {
		sx, sy := src[i].X-srcMean.X, src[i].Y-srcMean.Y
		srcDemean.Set(i, 0, sx)
		srcDemean.Set(i, 1, sy)
		dstDemean.Set(i, 0, dst[i].X-dstMean.X)
		dstDemean.Set(i, 1, dst[i].Y-dstMean.Y)
		srcVar += sx*sx + sy*sy
	}
	srcVar /= float64(n)

	if srcVar == 0 {
		return nil, fmt.Errorf("%w: source points coincide", ErrDegenerate)
	}

	var a mat.Dense
	a.Mul(dstDemean.T(), srcDemean)
	a.Scale(1/float64(n), &a)

	d := []float64{1, 1}
	if mat.Det(&a) < 0 {
		d[1] = -1
	}

	var svd mat.SVD
	if ok := svd.Factorize(&a, mat.SVDFull); !ok {
		return nil, fmt.Errorf("%w: SVD did not converge", ErrDegenerate)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	rank := svd.Rank(2 * epsilon)
	if rank == 0 {
		return nil, fmt.Errorf("%w: destination points coincide", ErrDegenerate)
	}

	var r mat.Dense
	if rank == 1 && mat.Det(&u)*mat.Det(&v) > 0 {
		r.Mul(&u, v.T())
	} else {
		diag := d
		if rank == 1 {
			diag = []float64{1, -1}
		}
		var ud mat.Dense
		ud.Mul(&u, mat.NewDiagDense(2, diag))
		r.Mul(&ud, v.T())
	}

	scale := (s[0]*d[0] + s[1]*d[1]) / srcVar

	tx := dstMean.X - scale*(r.At(0, 0)*srcMean.X+r.At(0, 1)*srcMean.Y)
	ty := dstMean.Y - scale*(r.At(1, 0)*srcMean.X+r.At(1, 1)*srcMean.Y)

	return mat.NewDense(2, 3, []float64{
		scale * r.At(0, 0), scale * r.At(0, 1), tx,
		scale * r.At(1, 0), scale * r.At(1, 1), ty,
	}), nil
}

// Apply maps p through the 2x3 transform m.
func Apply(m mat.Matrix, p Point) Point {
	return Point{
		X: m.At(0, 0)*p.X + m.At(0, 1)*p.Y + m.At(0, 2),
		Y: m.At(1, 0)*p.X + m.At(1, 1)*p.Y + m.At(1, 2),
	}
}

const epsilon = 2.220446049250313e-16

func centroid(points []Point) Point {
	var c Point
	for _, p := range points {
		c.X += p.X
		c.Y += p.Y
	}
	c.X /= float64(len(points))
	c.Y /= float64(len(points))
	return c
}
