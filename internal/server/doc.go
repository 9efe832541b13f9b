// Package server implements the MCP (Model Context Protocol) server for batch
// image processing.
//
// The server exposes one working image collection at a time through JSON-RPC
// 2.0 tools, so an MCP client can load a directory of images, scale or
// recolour them, inspect pixels and write the results back to disk.
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
// Collection lifecycle:
//   - collection_open: Load a directory or list of files
//   - collection_info: Original and modified dimensions per image
//   - collection_close: Release every buffer
//
// Processing:
//   - collection_scale: Resample originals into the modified slots
//   - collection_transform: Apply a colour preset to originals
//   - collection_sample_color: Read one pixel of one image
//
// Persistence:
//   - collection_save: Encode the collection into a directory
//
// # Collection State
//
// Opening a collection disposes the previous one. Tool calls are serialized,
// so a collection is never closed while another tool is using it. When the
// input stream ends the open collection is disposed.
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
//	srv := server.New(version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
