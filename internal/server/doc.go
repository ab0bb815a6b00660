// Package server implements the MCP (Model Context Protocol) server that
// exposes the tic-tac-toe board reader.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and report its cell geometry
//   - image_dimensions: Get width and height
//
// Board State:
//   - board_check_state: "X Wins", "O Wins", "Draw" or "Ongoing"
//   - board_read: Per-cell symbol, detector and ink ratio
//   - board_classify_cell: One cell's classification
//
// Inspection:
//   - board_crop_cell: Extract one cell as PNG
//   - board_edge_detect: Canny edge map of the board or one cell
//   - board_annotate: Grid and symbol labels drawn over the board
//
// The board state tools accept an optional "thresholds" object. Its
// non-zero fields override the server's thresholds for that call only.
//
// # Image Caching
//
// Images and their grayscale buffers are cached by path for the lifetime of
// the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (malformed params) or
//     -32601 (unknown method)
//   - message: Human-readable error description
//   - data: The Go error string
package server
