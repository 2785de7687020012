// Package imaging provides the pixel-level building blocks of the face
// preprocessing pipeline.
//
// Images are held in Array, a dense float64 array of shape
// (height, width[, channels]). All operations are pure: they return new
// arrays and never modify their inputs.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with the origin at the top-left corner:
//   - X increases rightward, Y increases downward
//   - A Box has an inclusive top-left corner (X0, Y0) and an exclusive
//     bottom-right corner (X1, Y1)
//
// # Channel Order
//
// Arrays carry no colour metadata. Loaders take a ChannelOrder and write
// the channels in that order; every other function preserves whatever
// order the caller chose.
//
// # Operations
//
//   - Normalize, FixedStandardize: pixel value normalization
//   - FixImage, AddColor: repair an array into (height, width, 3)
//   - FixMTCNNBox, ExpandBox, Crop, CropImage: bounding boxes and crops
//   - LoadRGB, LoadBGR, Download, WalkImages: image acquisition
//   - ImageCache: TTL cache of decoded arrays keyed by path
//
// # Error Handling
//
// Crop rejects margins outside [0, 1] with ErrMarginRange. Decode and
// network errors are wrapped and returned without retry.
package imaging
