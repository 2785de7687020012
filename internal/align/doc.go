// Package align rotates, scales and crops face images into a canonical pose.
//
// Two strategies are provided:
//
//   - TransformMatrix derives a similarity transform from the two eye
//     centres alone.
//   - Preprocess, given five facial landmarks, estimates a least-squares
//     similarity transform onto fixed reference points and warps the image
//     with bicubic interpolation. Without landmarks it falls back to a
//     margin crop of the face box (or a centre box).
//
// Transform matrices are 2x3 gonum matrices [[a, b, tx], [c, d, ty]] that
// map source pixel coordinates to destination pixel coordinates, using the
// OpenCV convention that integer coordinates are pixel centres.
package align
