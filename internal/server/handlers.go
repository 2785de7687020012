package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/face-tools-mcp/internal/align"
	"github.com/ironsheep/face-tools-mcp/internal/embedding"
	"github.com/ironsheep/face-tools-mcp/internal/imaging"
)

// ToolCallParams is the params object of tools/call.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "face_crop", "face_preprocess").
	Name string `json:"name"`

	// Arguments is decoded by the matching handler.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall runs one face tool. Its JSON result becomes the text of
// a single content item:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// A failing tool yields codeToolFailed with the Go error as Data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Debugf("server: %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: jsonrpcVersion,
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool maps a tool name to its handler. Handlers decode their own
// arguments and fall back to the config for margin, size and distance
// metric when an argument is absent.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Image Information
	case "face_image_info":
		return s.handleFaceImageInfo(args)
	case "face_scan_dir":
		return s.handleFaceScanDir(args)

	// Boxes and Crops
	case "face_fix_bbox":
		return s.handleFaceFixBBox(args)
	case "face_crop":
		return s.handleFaceCrop(args)

	// Alignment
	case "face_transform_matrix":
		return s.handleFaceTransformMatrix(args)
	case "face_preprocess":
		return s.handleFacePreprocess(args)

	// Embeddings
	case "face_embedding_distance":
		return s.handleFaceEmbeddingDistance(args)
	case "face_embedding_distance_bulk":
		return s.handleFaceEmbeddingDistanceBulk(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse builds a response whose Error is set.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON indents v for the content text, or returns "" if v
// cannot be encoded.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func (s *Server) margin(v *float64) float64 {
	if v == nil {
		return s.cfg.Margin
	}
	return *v
}

func (s *Server) faceSize(height, width int) (int, int) {
	if height <= 0 {
		height = s.cfg.FaceHeight
	}
	if width <= 0 {
		width = s.cfg.FaceWidth
	}
	return height, width
}

func (s *Server) metric(name string) (embedding.Metric, error) {
	if name == "" {
		return s.cfg.DistanceMetric(), nil
	}
	return embedding.ParseMetric(name)
}

// === Image Information Handlers ===

type faceImageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleFaceImageInfo(args json.RawMessage) (interface{}, error) {
	var a faceImageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type faceScanDirArgs struct {
	Dir       string `json:"dir"`
	Recursive bool   `json:"recursive"`
}

type scannedImage struct {
	Path     string `json:"path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"`
}

type faceScanDirResult struct {
	Dir    string         `json:"dir"`
	Count  int            `json:"count"`
	Images []scannedImage `json:"images"`
}

func (s *Server) handleFaceScanDir(args json.RawMessage) (interface{}, error) {
	var a faceScanDirArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" {
		return nil, errors.New("dir is required")
	}

	result := &faceScanDirResult{Dir: a.Dir, Images: []scannedImage{}}

	err := imaging.WalkImages(a.Dir, a.Recursive, imaging.RGB, func(path string, img *imaging.Array) error {
		result.Images = append(result.Images, scannedImage{
			Path:     path,
			Width:    img.Width(),
			Height:   img.Height(),
			Channels: img.Channels(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Count = len(result.Images)

	return result, nil
}

// === Box and Crop Handlers ===

type faceFixBBoxArgs struct {
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
	X    int `json:"x"`
	Y    int `json:"y"`
	DX   int `json:"dx"`
	DY   int `json:"dy"`
}

func (s *Server) handleFaceFixBBox(args json.RawMessage) (interface{}, error) {
	var a faceFixBBoxArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	box := imaging.FixMTCNNBox(a.MaxY, a.MaxX, a.X, a.Y, a.DX, a.DY)
	return &box, nil
}

type faceCropArgs struct {
	Path   string   `json:"path"`
	X0     int      `json:"x0"`
	Y0     int      `json:"y0"`
	X1     int      `json:"x1"`
	Y1     int      `json:"y1"`
	Margin *float64 `json:"margin"`
}

type faceCropResult struct {
	Box imaging.Box `json:"box"`
	*imaging.EncodedImage
}

func (s *Server) handleFaceCrop(args json.RawMessage) (interface{}, error) {
	var a faceCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	arr, err := s.cache.Load(a.Path, imaging.RGB)
	if err != nil {
		return nil, err
	}

	img, err := imaging.ToImage(arr)
	if err != nil {
		return nil, err
	}

	box := imaging.Box{X0: a.X0, Y0: a.Y0, X1: a.X1, Y1: a.Y1}
	cropped, realized, err := imaging.CropImage(img, box, s.margin(a.Margin))
	if err != nil {
		return nil, err
	}

	encoded, err := imaging.EncodePNG(cropped)
	if err != nil {
		return nil, err
	}

	return &faceCropResult{Box: realized, EncodedImage: encoded}, nil
}

// === Alignment Handlers ===

type faceTransformMatrixArgs struct {
	LeftEye        align.Point  `json:"left_eye"`
	RightEye       align.Point  `json:"right_eye"`
	DesiredLeftEye *align.Point `json:"desired_left_eye"`
	FaceHeight     int          `json:"face_height"`
	FaceWidth      int          `json:"face_width"`
	Margin         *float64     `json:"margin"`
}

type faceTransformMatrixResult struct {
	Matrix     [][]float64 `json:"matrix"`
	FaceHeight int         `json:"face_height"`
	FaceWidth  int         `json:"face_width"`
}

func (s *Server) handleFaceTransformMatrix(args json.RawMessage) (interface{}, error) {
	var a faceTransformMatrixArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := align.DefaultEyeAlignment()
	opts.FaceHeight, opts.FaceWidth = s.faceSize(a.FaceHeight, a.FaceWidth)
	opts.Margin = s.margin(a.Margin)
	if a.DesiredLeftEye != nil {
		opts.LeftEye = *a.DesiredLeftEye
	}

	m, err := align.TransformMatrix(a.LeftEye, a.RightEye, opts)
	if err != nil {
		return nil, err
	}

	return &faceTransformMatrixResult{
		Matrix:     matrixRows(m),
		FaceHeight: opts.FaceHeight,
		FaceWidth:  opts.FaceWidth,
	}, nil
}

func matrixRows(m mat.Matrix) [][]float64 {
	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, m)
	}
	return rows
}

type facePreprocessArgs struct {
	Path          string                 `json:"path"`
	URL           string                 `json:"url"`
	BBox          []int                  `json:"bbox"`
	Landmarks     map[string]align.Point `json:"landmarks"`
	FaceHeight    int                    `json:"face_height"`
	FaceWidth     int                    `json:"face_width"`
	Margin        *float64               `json:"margin"`
	ChannelOrder  string                 `json:"channel_order"`
	Standardize   string                 `json:"standardize"`
	IncludeValues bool                   `json:"include_values"`
}

type facePreprocessResult struct {
	Shape        []int                 `json:"shape"`
	ChannelOrder string                `json:"channel_order"`
	Standardize  string                `json:"standardize"`
	Image        *imaging.EncodedImage `json:"image"`
	Values       []float64             `json:"values,omitempty"`
}

func (s *Server) handleFacePreprocess(args json.RawMessage) (interface{}, error) {
	var a facePreprocessArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	order, err := imaging.ParseChannelOrder(a.ChannelOrder)
	if err != nil {
		return nil, err
	}

	standardize := strings.ToLower(a.Standardize)
	if standardize == "" {
		standardize = "none"
	}
	if standardize != "none" && standardize != "per_image" && standardize != "fixed" {
		return nil, fmt.Errorf("unknown standardize mode: %s", a.Standardize)
	}

	src, err := s.loadSource(a.Path, a.URL, order)
	if err != nil {
		return nil, err
	}

	var box *imaging.Box
	if a.BBox != nil {
		b, err := imaging.BoxFromSlice(a.BBox)
		if err != nil {
			return nil, err
		}
		box = &b
	}

	var landmarks align.Landmarks
	if a.Landmarks != nil {
		if landmarks, err = align.LandmarksFromMap(a.Landmarks); err != nil {
			return nil, err
		}
	}

	height, width := s.faceSize(a.FaceHeight, a.FaceWidth)
	face, err := align.Preprocess(src, height, width, s.margin(a.Margin), box, landmarks)
	if err != nil {
		return nil, err
	}

	// The preview is always RGB.
	preview := face
	if order == imaging.BGR {
		preview = imaging.SwapRB(face)
	}
	img, err := imaging.ToImage(preview)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	result := &facePreprocessResult{
		Shape:        face.Shape,
		ChannelOrder: order.String(),
		Standardize:  standardize,
		Image:        encoded,
	}

	if a.IncludeValues {
		values := face
		switch standardize {
		case "per_image":
			if values, err = imaging.Normalize(face); err != nil {
				return nil, err
			}
		case "fixed":
			values = imaging.FixedStandardize(face)
		}
		result.Values = values.Data
	}

	return result, nil
}

// loadSource reads an image from path through the cache, or downloads url
// when path is empty. Either way the result has 3 channels.
func (s *Server) loadSource(path, url string, order imaging.ChannelOrder) (*imaging.Array, error) {
	switch {
	case path != "":
		return s.cache.Load(path, order)
	case url != "":
		a, err := imaging.Download(context.Background(), s.client, url, order)
		if err != nil {
			return nil, err
		}
		return imaging.FixImage(a), nil
	default:
		return nil, errors.New("either path or url is required")
	}
}

// === Embedding Handlers ===

type faceEmbeddingDistanceArgs struct {
	Embedding1 []float64 `json:"embedding1"`
	Embedding2 []float64 `json:"embedding2"`
	Metric     string    `json:"metric"`
}

type faceEmbeddingDistanceResult struct {
	Metric   string  `json:"metric"`
	Distance float64 `json:"distance"`
}

func (s *Server) handleFaceEmbeddingDistance(args json.RawMessage) (interface{}, error) {
	var a faceEmbeddingDistanceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	m, err := s.metric(a.Metric)
	if err != nil {
		return nil, err
	}

	d, err := embedding.Distance(a.Embedding1, a.Embedding2, m)
	if err != nil {
		return nil, err
	}

	return &faceEmbeddingDistanceResult{Metric: m.String(), Distance: d}, nil
}

type faceEmbeddingDistanceBulkArgs struct {
	Embeddings1 [][]float64 `json:"embeddings1"`
	Embeddings2 [][]float64 `json:"embeddings2"`
	Metric      string      `json:"metric"`
}

type faceEmbeddingDistanceBulkResult struct {
	Metric    string    `json:"metric"`
	Distances []float64 `json:"distances"`
}

func (s *Server) handleFaceEmbeddingDistanceBulk(args json.RawMessage) (interface{}, error) {
	var a faceEmbeddingDistanceBulkArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	m, err := s.metric(a.Metric)
	if err != nil {
		return nil, err
	}

	e1, err := rowsToDense(a.Embeddings1)
	if err != nil {
		return nil, fmt.Errorf("embeddings1: %w", err)
	}
	e2, err := rowsToDense(a.Embeddings2)
	if err != nil {
		return nil, fmt.Errorf("embeddings2: %w", err)
	}

	d, err := embedding.DistanceBulk(e1, e2, m)
	if err != nil {
		return nil, err
	}

	return &faceEmbeddingDistanceBulkResult{Metric: m.String(), Distances: d}, nil
}

// rowsToDense stacks equally long rows into a matrix.
func rowsToDense(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("at least one non-empty embedding is required")
	}

	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", embedding.ErrShapeMismatch, i, len(row), cols)
		}
		data = append(data, row...)
	}

	return mat.NewDense(len(rows), cols, data), nil
}
