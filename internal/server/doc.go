// Package server exposes face cropping, alignment and embedding comparison
// as MCP (Model Context Protocol) tools.
//
// # Protocol
//
// Each line on stdin is one JSON-RPC 2.0 request; each response is written
// as one line on stdout. The methods handled are initialize, tools/list,
// tools/call and ping. notifications/initialized is accepted silently.
//
// # Available Tools
//
// Image Information:
//   - face_image_info: Dimensions, channels, format and file size
//   - face_scan_dir: Decode and list the images in a directory
//
// Boxes and Crops:
//   - face_fix_bbox: Corner box from a detector's position and size
//   - face_crop: Crop a box grown by a margin
//
// Alignment:
//   - face_transform_matrix: Eye-levelling affine matrix
//   - face_preprocess: Landmark warp or box crop, ready for embedding
//
// Embeddings:
//   - face_embedding_distance: Distance between two embeddings
//   - face_embedding_distance_bulk: Row by row distances
//
// # Image Caching
//
// Decoded images are cached by path and channel order and expire after the
// configured cache TTL.
//
// # Error Handling
//
// A failed tool answers with code -32000, message "Tool execution failed"
// and the Go error string as data. Malformed lines and params use the
// standard codes -32700 and -32602.
//
// # Usage
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	return server.New(cfg).Run()
//
// Logs go to stderr so they never mix with responses.
package server
