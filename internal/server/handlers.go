package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/image-batch-tools/internal/discovery"
	"github.com/ironsheep/image-batch-tools/internal/imaging"
	"github.com/ironsheep/image-batch-tools/internal/manager"
	"github.com/ironsheep/image-batch-tools/internal/persist"
	"github.com/ironsheep/image-batch-tools/internal/transform"
)

var errNoCollection = errors.New("no collection is open; call collection_open first")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "collection_open", "collection_scale").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "error", err)
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
// Tools run one at a time; the server lock is held for the whole call so a
// collection cannot be closed or replaced underneath a running operation.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case "collection_open":
		return s.handleCollectionOpen(args)
	case "collection_info":
		return s.handleCollectionInfo(args)
	case "collection_scale":
		return s.handleCollectionScale(args)
	case "collection_transform":
		return s.handleCollectionTransform(args)
	case "collection_sample_color":
		return s.handleCollectionSampleColor(args)
	case "collection_save":
		return s.handleCollectionSave(ctx, args)
	case "collection_close":
		return s.handleCollectionClose(args)
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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// current returns the open collection. Callers hold s.mu.
func (s *Server) current() (*manager.Manager, error) {
	if s.images == nil {
		return nil, errNoCollection
	}
	return s.images, nil
}

// === Collection Lifecycle Handlers ===

type collectionOpenArgs struct {
	Directory  string   `json:"directory"`
	Paths      []string `json:"paths"`
	Recursive  bool     `json:"recursive"`
	Extensions []string `json:"extensions"`
}

func (s *Server) handleCollectionOpen(args json.RawMessage) (interface{}, error) {
	var a collectionOpenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var (
		m   *manager.Manager
		err error
	)
	switch {
	case a.Directory != "" && len(a.Paths) > 0:
		return nil, errors.New("give either directory or paths, not both")
	case a.Directory != "":
		mode := discovery.TopLevel
		if a.Recursive {
			mode = discovery.Recursive
		}
		m, err = manager.OpenDir(a.Directory, a.Extensions, mode, manager.WithLogger(s.log))
	case len(a.Paths) > 0:
		m, err = manager.Open(a.Paths, manager.WithLogger(s.log))
	default:
		return nil, errors.New("directory or paths is required")
	}
	if err != nil {
		return nil, err
	}

	if s.images != nil {
		_ = s.images.Close()
	}
	s.images = m
	return describeCollection(m)
}

type collectionInfoResult struct {
	Root   string      `json:"root,omitempty"`
	Count  int         `json:"count"`
	Images []imageInfo `json:"images"`
}

type imageInfo struct {
	Index    int                `json:"index"`
	Path     string             `json:"path"`
	Original *imaging.ImageInfo `json:"original"`
	Modified *imaging.ImageInfo `json:"modified"`
}

func describeCollection(m *manager.Manager) (*collectionInfoResult, error) {
	paths, err := m.Paths()
	if err != nil {
		return nil, err
	}
	result := &collectionInfoResult{Root: m.Root(), Count: len(paths), Images: make([]imageInfo, len(paths))}
	for i, path := range paths {
		orig, err := m.Original(i)
		if err != nil {
			return nil, err
		}
		mod, err := m.Modified(i)
		if err != nil {
			return nil, err
		}
		origInfo, err := imaging.Describe(orig, path)
		if err != nil {
			return nil, err
		}
		modInfo, err := imaging.Describe(mod, path)
		if err != nil {
			return nil, err
		}
		result.Images[i] = imageInfo{Index: i, Path: path, Original: origInfo, Modified: modInfo}
	}
	return result, nil
}

func (s *Server) handleCollectionInfo(json.RawMessage) (interface{}, error) {
	m, err := s.current()
	if err != nil {
		return nil, err
	}
	return describeCollection(m)
}

func (s *Server) handleCollectionClose(json.RawMessage) (interface{}, error) {
	m, err := s.current()
	if err != nil {
		return nil, err
	}
	_ = m.Close()
	s.images = nil
	return map[string]interface{}{"closed": true}, nil
}

// === Processing Handlers ===

type collectionScaleArgs struct {
	Factor        *float64 `json:"factor"`
	Interpolation string   `json:"interpolation"`
	Wrap          string   `json:"wrap"`
	Indices       []int    `json:"indices"`
}

func (s *Server) handleCollectionScale(args json.RawMessage) (interface{}, error) {
	var a collectionScaleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	m, err := s.current()
	if err != nil {
		return nil, err
	}
	factor := 1.0
	if a.Factor != nil {
		factor = *a.Factor
	}

	criteria := imaging.DefaultResizeCriteria()
	if a.Interpolation != "" {
		if criteria.Interpolation, err = imaging.ParseInterpolation(a.Interpolation); err != nil {
			return nil, err
		}
	}
	if a.Wrap != "" {
		if criteria.Wrap, err = imaging.ParseWrapMode(a.Wrap); err != nil {
			return nil, err
		}
	}

	if len(a.Indices) == 0 {
		err = m.ScaleAllAndReplace(factor, criteria)
	} else {
		err = m.ScaleIndices(a.Indices, factor, criteria)
	}
	if err != nil {
		return nil, err
	}
	return describeCollection(m)
}

type collectionTransformArgs struct {
	Preset  string  `json:"preset"`
	Amount  float64 `json:"amount"`
	Indices []int   `json:"indices"`
}

func (s *Server) handleCollectionTransform(args json.RawMessage) (interface{}, error) {
	var a collectionTransformArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	m, err := s.current()
	if err != nil {
		return nil, err
	}
	fn, err := transform.Preset(a.Preset, a.Amount)
	if err != nil {
		return nil, err
	}

	if len(a.Indices) == 0 {
		err = m.TransformAll(fn)
	} else {
		err = m.TransformIndices(a.Indices, fn)
	}
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"preset": a.Preset, "amount": a.Amount, "indices": a.Indices}, nil
}

type collectionSampleColorArgs struct {
	Index int    `json:"index"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Set   string `json:"set"`
}

func (s *Server) handleCollectionSampleColor(args json.RawMessage) (interface{}, error) {
	var a collectionSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	m, err := s.current()
	if err != nil {
		return nil, err
	}
	set, err := parseBufferSet(a.Set)
	if err != nil {
		return nil, err
	}

	var buf *imaging.Buffer
	if set == manager.Original {
		buf, err = m.Original(a.Index)
	} else {
		buf, err = m.Modified(a.Index)
	}
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(buf, a.X, a.Y)
}

// === Persistence Handlers ===

type collectionSaveArgs struct {
	Destination    string `json:"destination"`
	Format         string `json:"format"`
	Suffix         string `json:"suffix"`
	Quality        int    `json:"quality"`
	CreateDir      bool   `json:"create_dir"`
	Set            string `json:"set"`
	Dispose        bool   `json:"dispose"`
	MaxConcurrency int    `json:"max_concurrency"`
}

type collectionSaveResult struct {
	Written  []string `json:"written"`
	Errors   []string `json:"errors,omitempty"`
	Disposed bool     `json:"disposed"`
}

func (s *Server) handleCollectionSave(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a collectionSaveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	m, err := s.current()
	if err != nil {
		return nil, err
	}
	format, err := persist.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}
	set, err := parseBufferSet(a.Set)
	if err != nil {
		return nil, err
	}

	written, err := m.Save(ctx, manager.SaveConfig{
		Set:              set,
		Destination:      a.Destination,
		Format:           format,
		Suffix:           a.Suffix,
		JPEGQuality:      a.Quality,
		CreateIfMissing:  a.CreateDir,
		DisposeOnSuccess: a.Dispose,
		MaxConcurrency:   a.MaxConcurrency,
	})
	// Once any file is on disk the caller needs the written list, so a
	// partial failure is reported alongside it rather than as a tool error.
	if err != nil && len(written) == 0 {
		return nil, err
	}
	if m.Disposed() {
		s.images = nil
	}
	result := &collectionSaveResult{Written: written, Disposed: s.images == nil}
	if err != nil {
		result.Errors = errorMessages(err)
	}
	return result, nil
}

// errorMessages flattens joined errors into one message per failure.
func errorMessages(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, errorMessages(e)...)
		}
		return msgs
	}
	return []string{err.Error()}
}

func parseBufferSet(s string) (manager.BufferSet, error) {
	switch s {
	case "", "modified":
		return manager.Modified, nil
	case "original":
		return manager.Original, nil
	default:
		return manager.Modified, fmt.Errorf("invalid set: %s (use \"original\" or \"modified\")", s)
	}
}
