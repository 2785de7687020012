package server

// Tool is one entry of the tools/list result.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func pointProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y"},
	}
}

func marginProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Fraction of the face size added around it, between 0 and 1. Defaults to the server setting.",
		"minimum":     0,
		"maximum":     1,
	}
}

func metricProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"euclidean_squared", "angular_distance"},
		"description": "Distance metric. Defaults to the server setting.",
	}
}

func embeddingProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items":       map[string]interface{}{"type": "number"},
	}
}

// GetToolDefinitions lists the face tools with their input schemas.
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "face_image_info",
			Description: "Load an image file and return its dimensions, channel count, detected format and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "face_scan_dir",
			Description: "Decode every image file (*.*, hidden entries skipped) in a directory and list their paths and dimensions. The first unreadable file stops the scan.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the directory",
					},
					"recursive": map[string]interface{}{
						"type":        "boolean",
						"description": "Also scan subdirectories. Default false",
						"default":     false,
					},
				},
				"required": []string{"dir"},
			},
		},

		// Boxes and Crops
		{
			Name:        "face_fix_bbox",
			Description: "Turn a detector box given as top-left corner plus size into corner coordinates clamped to the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"max_x": map[string]interface{}{"type": "integer", "description": "Image width"},
					"max_y": map[string]interface{}{"type": "integer", "description": "Image height"},
					"x":     map[string]interface{}{"type": "integer", "description": "Left edge"},
					"y":     map[string]interface{}{"type": "integer", "description": "Top edge"},
					"dx":    map[string]interface{}{"type": "integer", "description": "Box width"},
					"dy":    map[string]interface{}{"type": "integer", "description": "Box height"},
				},
				"required": []string{"max_x", "max_y", "x", "y", "dx", "dy"},
			},
		},
		{
			Name:        "face_crop",
			Description: "Crop a face box, grown by a margin and clamped to the image, and return it as base64-encoded PNG together with the box actually used.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"x0":     map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
					"y0":     map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
					"x1":     map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
					"y1":     map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
					"margin": marginProperty(),
				},
				"required": []string{"path", "x0", "y0", "x1", "y1"},
			},
		},

		// Alignment
		{
			Name:        "face_transform_matrix",
			Description: "Compute the 2x3 affine matrix that rotates and scales a face so the eyes are level and at the desired position.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"left_eye":         pointProperty("Left eye centre in pixels"),
					"right_eye":        pointProperty("Right eye centre in pixels"),
					"desired_left_eye": pointProperty("Left eye position as a fraction of the face size. Default (0.35, 0.35)"),
					"face_height":      map[string]interface{}{"type": "integer", "description": "Output face height. Defaults to the server setting"},
					"face_width":       map[string]interface{}{"type": "integer", "description": "Output face width. Defaults to the server setting"},
					"margin":           marginProperty(),
				},
				"required": []string{"left_eye", "right_eye"},
			},
		},
		{
			Name:        "face_preprocess",
			Description: "Align and crop a face for embedding. With five landmarks the face is warped onto reference points, otherwise the box (or a centred default box) is cropped. Returns the face as base64-encoded PNG and optionally the standardized pixel values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"url": map[string]interface{}{
						"type":        "string",
						"description": "Image URL, used when path is empty",
					},
					"bbox": map[string]interface{}{
						"type":        "array",
						"description": "Face box [x0, y0, x1, y1]",
						"items":       map[string]interface{}{"type": "integer"},
					},
					"landmarks": map[string]interface{}{
						"type":        "object",
						"description": "Keypoints left_eye, right_eye, nose, mouth_left, mouth_right",
						"additionalProperties": pointProperty("Keypoint in pixels"),
					},
					"face_height": map[string]interface{}{"type": "integer", "description": "Output face height. Defaults to the server setting"},
					"face_width":  map[string]interface{}{"type": "integer", "description": "Output face width. Defaults to the server setting"},
					"margin":      marginProperty(),
					"channel_order": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rgb", "bgr"},
						"description": "Channel order of returned values. Default rgb",
					},
					"standardize": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"none", "per_image", "fixed"},
						"description": "per_image: z-score per image, fixed: (x-127.5)/128. Default none",
					},
					"include_values": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the pixel values in (height, width, channel) order. Default false",
						"default":     false,
					},
				},
			},
		},

		// Embeddings
		{
			Name:        "face_embedding_distance",
			Description: "Distance between two face embeddings of equal length.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"embedding1": embeddingProperty("First embedding"),
					"embedding2": embeddingProperty("Second embedding"),
					"metric":     metricProperty(),
				},
				"required": []string{"embedding1", "embedding2"},
			},
		},
		{
			Name:        "face_embedding_distance_bulk",
			Description: "Row by row distances between two equally sized lists of embeddings.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"embeddings1": map[string]interface{}{
						"type":  "array",
						"items": embeddingProperty("Embedding"),
					},
					"embeddings2": map[string]interface{}{
						"type":  "array",
						"items": embeddingProperty("Embedding"),
					},
					"metric": metricProperty(),
				},
				"required": []string{"embeddings1", "embeddings2"},
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: jsonrpcVersion,
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
