package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the board image file",
}

func cellProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     2,
		"description": desc,
	}
}

// thresholdsProperty describes the optional per-call classifier overrides.
// Omitted fields keep the server's configured value; an explicit 0 is applied.
func thresholdsProperty() map[string]interface{} {
	number := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "number", "description": desc}
	}
	return map[string]interface{}{
		"type":        "object",
		"description": "Optional classifier threshold overrides. Omitted fields keep their configured values; 0 disables a fraction test.",
		"properties": map[string]interface{}{
			"empty_white_ratio":     number("Ink fraction below which a cell is empty (default 0.03)"),
			"min_contour_area_frac": number("Smallest contour area considered for an O, as a fraction of the cell (default 0.04)"),
			"filled_area_frac":      number("Area fraction above which a round contour without a hole is an O (default 0.08)"),
			"circularity":           number("Minimum circularity 4*pi*A/P^2 of an O (default 0.70)"),
			"aspect":                number("Maximum |1 - w/h| of an O's bounding box (default 0.25)"),
			"diag_energy":           number("Minimum combined diagonal gradient share for an X (default 0.55)"),
			"both_diag_min_share":   number("Minimum gradient share of each diagonal for an X (default 0.18)"),
			"max_axis_share":        number("Share the horizontal and vertical bins must stay below for an X (default 0.28)"),
			"min_edge_pixels": map[string]interface{}{
				"type":        "integer",
				"description": "Minimum strong-gradient pixels for the X orientation test (default 50)",
			},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load a board image and return its dimensions, format and the size of each of the nine cells.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Board State
		{
			Name:        "board_check_state",
			Description: "Read a photographed tic-tac-toe board and report the game state: \"X Wins\", \"O Wins\", \"Draw\" or \"Ongoing\".",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"thresholds": thresholdsProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "board_read",
			Description: "Classify all nine cells of a board image and report, per cell, the symbol, the detector that decided it, the ink ratio and the cell bounds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"thresholds": thresholdsProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "board_classify_cell",
			Description: "Classify a single cell of a board image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"row":        cellProperty("Cell row (0-2, from the top)"),
					"col":        cellProperty("Cell column (0-2, from the left)"),
					"thresholds": thresholdsProperty(),
				},
				"required": []string{"path", "row", "col"},
			},
		},

		// Inspection
		{
			Name:        "board_crop_cell",
			Description: "Crop one cell of a board image and return it as base64-encoded PNG. Use inner to see exactly the pixels the classifier examines.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"row":  cellProperty("Cell row (0-2, from the top)"),
					"col":  cellProperty("Cell column (0-2, from the left)"),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
					"inner": map[string]interface{}{
						"type":        "boolean",
						"description": "Trim the 10% margin the classifier ignores. Default false",
						"default":     false,
					},
				},
				"required": []string{"path", "row", "col"},
			},
		},
		{
			Name:        "board_edge_detect",
			Description: "Run the Canny edge detector used by the X line detector and return the edge map as base64-encoded PNG. Pass row and col to restrict it to one cell.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"row":  cellProperty("Cell row (0-2, from the top)"),
					"col":  cellProperty("Cell column (0-2, from the left)"),
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Canny low threshold. Default 50",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "Canny high threshold. Default 150",
						"default":     150,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "board_annotate",
			Description: "Draw the 3x3 cell grid over a board image and label every cell with its classified symbol. Returns base64-encoded PNG and the verdict.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor applied before drawing. Default 1.0",
						"default":     1.0,
					},
					"x_color": map[string]interface{}{
						"type":        "string",
						"description": "Label colour for X cells (hex, e.g. #FF0000)",
					},
					"o_color": map[string]interface{}{
						"type":        "string",
						"description": "Label colour for O cells (hex)",
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid line and empty-cell label colour (hex)",
					},
					"thresholds": thresholdsProperty(),
				},
				"required": []string{"path"},
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
