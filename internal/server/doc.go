// Package server implements the MCP (Model Context Protocol) server for face
// rotation classification.
//
// This package provides a JSON-RPC 2.0 server that exposes the classifier
// through the MCP protocol, so MCP-compatible clients can classify, inspect,
// and correct face photos.
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
// Classification:
//   - face_rotation_classify: Estimate the upright rotation and save the result
//   - face_symmetry_scores: Raw symmetry scores and half means
//
// Basic Image Information:
//   - image_dimensions: Get width and height
//
// Inspection and Correction:
//   - image_preview: The preprocessed plane as a base64 PNG
//   - image_correct: Write an upright copy of the image
//
// History:
//   - face_rotation_history: Latest, recent, and per-rotation totals from the
//     SQLite ledger (only when the server was started with a history database)
//
// Every preprocessing tool accepts optional smooth, kernel, and luma arguments
// that override the server defaults for that call only.
//
// # Image Caching
//
// Decoded grayscale planes are cached by path and decode mode and reused
// across tool calls. Smoothing is applied per call and never cached.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(server.WithOptions(opts), server.WithOutputDir(dir))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
