package server

import (
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/tictactoe-vision/internal/board"
	"github.com/ironsheep/tictactoe-vision/internal/classify"
	"github.com/ironsheep/tictactoe-vision/internal/game"
	imgutil "github.com/ironsheep/tictactoe-vision/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "board_check_state").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	s.debugf("tool %s finished in %v (err=%v)", params.Name, time.Since(start), err)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
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

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate board/imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Board State
	case "board_check_state":
		return s.handleBoardCheckState(args)
	case "board_read":
		return s.handleBoardRead(args)
	case "board_classify_cell":
		return s.handleBoardClassifyCell(args)

	// Inspection
	case "board_crop_cell":
		return s.handleBoardCropCell(args)
	case "board_edge_detect":
		return s.handleBoardEdgeDetect(args)
	case "board_annotate":
		return s.handleBoardAnnotate(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// readerFor returns the server's reader, or a reader with the per-call
// overrides applied on top of the server thresholds. An explicit zero in
// the overrides is kept.
func (s *Server) readerFor(override *classify.Overrides) (*board.Reader, error) {
	if override == nil {
		return s.reader, nil
	}
	th := override.Apply(s.thresholds)
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}
	return board.NewReader(s.cache, classify.NewExact(th)), nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imgutil.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imgutil.GetDimensions(s.cache, a.Path)
}

// === Board State Handlers ===

type boardArgs struct {
	Path       string              `json:"path"`
	Thresholds *classify.Overrides `json:"thresholds"`
}

// CheckStateResult is the board_check_state response.
type CheckStateResult struct {
	Verdict string    `json:"verdict"`
	Board   [3]string `json:"board"`
}

func (s *Server) readBoard(args json.RawMessage) (*board.Reading, error) {
	var a boardArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.readerFor(a.Thresholds)
	if err != nil {
		return nil, err
	}
	reading, err := r.Read(a.Path)
	if err != nil {
		return nil, err
	}
	s.debugf("%s: %v -> %s", a.Path, reading.Board.Rows(), reading.Verdict)
	return reading, nil
}

func (s *Server) handleBoardCheckState(args json.RawMessage) (interface{}, error) {
	reading, err := s.readBoard(args)
	if err != nil {
		return nil, err
	}
	return &CheckStateResult{
		Verdict: reading.Verdict.String(),
		Board:   reading.Board.Rows(),
	}, nil
}

func (s *Server) handleBoardRead(args json.RawMessage) (interface{}, error) {
	return s.readBoard(args)
}

type boardCellArgs struct {
	Path       string              `json:"path"`
	Row        int                 `json:"row"`
	Col        int                 `json:"col"`
	Thresholds *classify.Overrides `json:"thresholds"`
}

func (s *Server) handleBoardClassifyCell(args json.RawMessage) (interface{}, error) {
	var a boardCellArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.readerFor(a.Thresholds)
	if err != nil {
		return nil, err
	}
	cell, err := r.ReadCell(a.Path, a.Row, a.Col)
	if err != nil {
		return nil, err
	}
	s.debugf("%s cell (%d,%d): %q via %s", a.Path, a.Row, a.Col, cell.Symbol, cell.Detector)
	return cell, nil
}

// === Inspection Handlers ===

type boardCropCellArgs struct {
	Path  string  `json:"path"`
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Scale float64 `json:"scale"`
	Inner bool    `json:"inner"`
}

func (s *Server) handleBoardCropCell(args json.RawMessage) (interface{}, error) {
	var a boardCropCellArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imgutil.CropCell(img, a.Row, a.Col, a.Inner, a.Scale)
}

type boardEdgeDetectArgs struct {
	Path          string `json:"path"`
	Row           *int   `json:"row"`
	Col           *int   `json:"col"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
}

func (s *Server) handleBoardEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a boardEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = imgutil.DefaultCannyLow
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = imgutil.DefaultCannyHigh
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var src image.Image = img
	switch {
	case a.Row == nil && a.Col == nil:
	case a.Row == nil || a.Col == nil:
		return nil, fmt.Errorf("row and col must be given together")
	default:
		if *a.Row < 0 || *a.Row > 2 || *a.Col < 0 || *a.Col > 2 {
			return nil, fmt.Errorf("cell (%d,%d) outside the 3x3 board", *a.Row, *a.Col)
		}
		r := imgutil.CellBounds(img.Bounds(), *a.Row, *a.Col)
		if r.Empty() {
			return nil, fmt.Errorf("image %v too small to hold a 3x3 board", img.Bounds())
		}
		src = imaging.Crop(img, r)
	}
	return imgutil.EdgeDetect(src, a.ThresholdLow, a.ThresholdHigh)
}

type boardAnnotateArgs struct {
	Path       string              `json:"path"`
	Scale      float64             `json:"scale"`
	XColor     string              `json:"x_color"`
	OColor     string              `json:"o_color"`
	GridColor  string              `json:"grid_color"`
	Thresholds *classify.Overrides `json:"thresholds"`
}

// AnnotateBoardResult is the board_annotate response.
type AnnotateBoardResult struct {
	Verdict string `json:"verdict"`
	*imgutil.AnnotateResult
}

func (s *Server) handleBoardAnnotate(args json.RawMessage) (interface{}, error) {
	var a boardAnnotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.readerFor(a.Thresholds)
	if err != nil {
		return nil, err
	}
	reading, err := r.Read(a.Path)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	annotated, err := imgutil.Annotate(img, symbolLabels(reading.Board), imgutil.AnnotateOptions{
		Scale:     a.Scale,
		XColor:    a.XColor,
		OColor:    a.OColor,
		GridColor: a.GridColor,
	})
	if err != nil {
		return nil, err
	}
	return &AnnotateBoardResult{Verdict: reading.Verdict.String(), AnnotateResult: annotated}, nil
}

func symbolLabels(b game.Board) [3][3]string {
	var labels [3][3]string
	for row := range b {
		for col, sym := range b[row] {
			labels[row][col] = sym.String()
		}
	}
	return labels
}
