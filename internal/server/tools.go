package server

// Tool represents an MCP tool definition
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

// preprocessProperties are the per-call overrides of the server's
// preprocessing defaults.
func preprocessProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"smooth": map[string]interface{}{
			"type":        "boolean",
			"description": "Apply Gaussian smoothing before comparing halves. Defaults to the server setting.",
		},
		"kernel": map[string]interface{}{
			"type":        "string",
			"description": "Smoothing kernel as WxH with odd positive dimensions, e.g. \"5x5\"",
		},
		"luma": map[string]interface{}{
			"type":        "string",
			"description": "Grayscale conversion for color images",
			"enum":        []string{"bt601", "lab"},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	classifyProps := preprocessProperties()
	classifyProps["save"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Write the JSON result file. Default true.",
		"default":     true,
	}
	classifyProps["output_dir"] = map[string]interface{}{
		"type":        "string",
		"description": "Directory for the result file. Defaults to the server setting, then the image's directory.",
	}

	previewProps := preprocessProperties()
	previewProps["max_size"] = map[string]interface{}{
		"type":        "integer",
		"description": "Longest side of the returned preview in pixels. 0 keeps full size. Default 512.",
		"default":     512,
	}

	correctProps := preprocessProperties()
	correctProps["rotation"] = map[string]interface{}{
		"type":        "integer",
		"description": "Clockwise degrees to apply. When omitted the image is classified first.",
		"enum":        []int{0, 90, 180, 270},
	}
	correctProps["output_dir"] = map[string]interface{}{
		"type":        "string",
		"description": "Directory for the corrected copy. Defaults to the image's directory.",
	}

	return []Tool{
		// Classification
		{
			Name:        "face_rotation_classify",
			Description: "Estimate how many degrees clockwise (0, 90, 180, 270) a face photo must be rotated to be upright, using left-right and top-bottom mirror symmetry. Saves the result as JSON next to the image unless save is false.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": classifyProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "face_symmetry_scores",
			Description: "Return the raw left-right and top-bottom symmetry scores (-1 to 1) and the mean intensity of each half, without saving anything.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": preprocessProperties(),
				"required":   []string{"path"},
			},
		},

		// Basic Image Information
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Inspection and Correction
		{
			Name:        "image_preview",
			Description: "Return the preprocessed grayscale plane the classifier compares, as a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": previewProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_correct",
			Description: "Rotate an image upright and save it as <name>_upright<ext>. Returns the output path and the rotation applied.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": correctProps,
				"required":   []string{"path"},
			},
		},

		// History
		{
			Name:        "face_rotation_history",
			Description: "Query the classification history ledger: the latest result for an image, results from the last hours, and totals per rotation. Requires the server to run with a history database.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Image path to look up. Optional.",
					},
					"since_hours": map[string]interface{}{
						"type":        "number",
						"description": "Also list classifications from the last N hours. 0 lists none.",
						"default":     0,
					},
				},
				"required": []string{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
