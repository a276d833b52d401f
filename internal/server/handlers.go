package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/face-rotation/internal/imaging"
	"github.com/ironsheep/face-rotation/internal/logging"
	"github.com/ironsheep/face-rotation/internal/orient"
	"github.com/ironsheep/face-rotation/internal/store"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "face_rotation_classify").
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

	result, err := s.executeTool(params.Name, params.Arguments)
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Classification
	case "face_rotation_classify":
		return s.handleFaceRotationClassify(args)
	case "face_symmetry_scores":
		return s.handleFaceSymmetryScores(args)

	// Basic Image Information
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Inspection and Correction
	case "image_preview":
		return s.handleImagePreview(args)
	case "image_correct":
		return s.handleImageCorrect(args)

	// History
	case "face_rotation_history":
		return s.handleFaceRotationHistory(args)

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

// === Shared Argument Handling ===

type preprocessArgs struct {
	Path   string  `json:"path"`
	Smooth *bool   `json:"smooth"`
	Kernel *string `json:"kernel"`
	Luma   *string `json:"luma"`
}

// options applies the call's overrides to the server defaults and validates
// the result before any file is read.
func (s *Server) options(a preprocessArgs) (orient.Options, error) {
	opts := s.opts
	if a.Smooth != nil {
		opts.Smooth = *a.Smooth
	}
	if a.Kernel != nil {
		k, err := imaging.ParseKernelSize(*a.Kernel)
		if err != nil {
			return opts, err
		}
		opts.Kernel = k
	}
	if a.Luma != nil {
		luma, err := imaging.ParseLumaModel(*a.Luma)
		if err != nil {
			return opts, err
		}
		opts.Decode.Luma = luma
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// analyze loads path through the cache and runs the full pipeline.
func (s *Server) analyze(a preprocessArgs) (*orient.Analysis, orient.Options, error) {
	opts, err := s.options(a)
	if err != nil {
		return nil, opts, err
	}
	p, err := s.cache.Load(a.Path, opts.Decode)
	if err != nil {
		return nil, opts, err
	}
	analysis, err := orient.Analyze(p, opts)
	if err != nil {
		return nil, opts, err
	}
	return analysis, opts, nil
}

// === Classification Handlers ===

type classifyArgs struct {
	preprocessArgs
	Save      *bool  `json:"save"`
	OutputDir string `json:"output_dir"`
}

// ClassifyResult is returned by face_rotation_classify.
type ClassifyResult struct {
	*orient.Result

	// ResultPath is where the JSON record was written; empty when not saved.
	ResultPath string `json:"result_path,omitempty"`

	// SaveError describes a failed write. The rotation is still valid.
	SaveError string `json:"save_error,omitempty"`
}

func (s *Server) handleFaceRotationClassify(args json.RawMessage) (interface{}, error) {
	var a classifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	analysis, opts, err := s.analyze(a.preprocessArgs)
	if err != nil {
		return nil, err
	}

	out := &ClassifyResult{Result: analysis.Result(a.Path)}
	if a.Save != nil && !*a.Save {
		return out, nil
	}

	dir := a.OutputDir
	if dir == "" {
		dir = s.outputDir
	}
	path, err := store.WriteResult(out.Result, dir)
	var perr *store.PersistenceError
	if errors.As(err, &perr) {
		logging.Printf("Failed to save result for %s: %v", a.Path, err)
		out.SaveError = perr.Error()
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	out.ResultPath = path

	if s.history != nil {
		if _, err := s.history.Record(out.Result, opts, path); err != nil {
			logging.Printf("Failed to record history for %s: %v", a.Path, err)
		}
	}
	return out, nil
}

// SymmetryResult is returned by face_symmetry_scores.
type SymmetryResult struct {
	Width    int                 `json:"width"`
	Height   int                 `json:"height"`
	Scores   map[string]float64  `json:"scores"`
	Means    orient.HalfMeans    `json:"half_means"`
	Rotation orient.Rotation     `json:"rotation_degrees"`
	Kernel   *imaging.KernelSize `json:"kernel,omitempty"`
}

func (s *Server) handleFaceSymmetryScores(args json.RawMessage) (interface{}, error) {
	var a preprocessArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	analysis, opts, err := s.analyze(a)
	if err != nil {
		return nil, err
	}

	res := &SymmetryResult{
		Width:    analysis.Plane.Width,
		Height:   analysis.Plane.Height,
		Scores:   analysis.Scores.Map(),
		Means:    analysis.Means,
		Rotation: analysis.Rotation,
	}
	if opts.Smooth {
		k := opts.Kernel
		res.Kernel = &k
	}
	return res, nil
}

// === Basic Image Information Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Inspection and Correction Handlers ===

type previewArgs struct {
	preprocessArgs
	MaxSize *int `json:"max_size"`
}

func (s *Server) handleImagePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	maxSize := 512
	if a.MaxSize != nil {
		maxSize = *a.MaxSize
	}
	if maxSize < 0 {
		return nil, &imaging.InvalidParameterError{Param: "max_size", Value: fmt.Sprint(maxSize), Reason: "must not be negative"}
	}

	opts, err := s.options(a.preprocessArgs)
	if err != nil {
		return nil, err
	}
	p, err := s.cache.Load(a.Path, opts.Decode)
	if err != nil {
		return nil, err
	}
	if opts.Smooth {
		if p, err = imaging.Smooth(p, opts.Kernel); err != nil {
			return nil, err
		}
	}
	return imaging.Preview(p, maxSize)
}

type correctArgs struct {
	preprocessArgs
	Rotation  *int   `json:"rotation"`
	OutputDir string `json:"output_dir"`
}

// CorrectResult is returned by image_correct.
type CorrectResult struct {
	ImagePath       string          `json:"image_path"`
	RotationDegrees orient.Rotation `json:"rotation_degrees"`
	OutputPath      string          `json:"output_path"`
}

func (s *Server) handleImageCorrect(args json.RawMessage) (interface{}, error) {
	var a correctArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var rotation orient.Rotation
	if a.Rotation != nil {
		rotation = orient.Rotation(*a.Rotation)
		if !rotation.Valid() {
			return nil, &imaging.InvalidParameterError{Param: "rotation", Value: fmt.Sprint(*a.Rotation), Reason: "must be 0, 90, 180, or 270"}
		}
	} else {
		analysis, _, err := s.analyze(a.preprocessArgs)
		if err != nil {
			return nil, err
		}
		rotation = analysis.Rotation
	}

	dir := a.OutputDir
	if dir == "" {
		dir = s.outputDir
	}
	dst := imaging.UprightPath(a.Path, dir)
	if err := imaging.SaveUpright(a.Path, dst, int(rotation)); err != nil {
		return nil, err
	}
	// A cached decode of an earlier copy at dst is now stale.
	s.cache.Evict(dst)
	return &CorrectResult{ImagePath: a.Path, RotationDegrees: rotation, OutputPath: dst}, nil
}

// === History Handlers ===

type historyArgs struct {
	Path       string  `json:"path"`
	SinceHours float64 `json:"since_hours"`
}

// HistoryResult is returned by face_rotation_history.
type HistoryResult struct {
	// Latest is the most recent entry for the requested path, if any.
	Latest *store.Entry `json:"latest,omitempty"`

	// Recent lists entries newer than since_hours, oldest first.
	Recent []store.Entry `json:"recent,omitempty"`

	// Counts totals every recorded classification by rotation.
	Counts map[orient.Rotation]int `json:"counts"`
}

func (s *Server) handleFaceRotationHistory(args json.RawMessage) (interface{}, error) {
	var a historyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.history == nil {
		return nil, errors.New("classification history is not enabled (set history_db)")
	}
	if a.SinceHours < 0 {
		return nil, &imaging.InvalidParameterError{Param: "since_hours", Value: fmt.Sprint(a.SinceHours), Reason: "must not be negative"}
	}

	res := &HistoryResult{}
	if a.Path != "" {
		latest, err := s.history.Latest(a.Path)
		if err != nil && !errors.Is(err, store.ErrNoHistory) {
			return nil, err
		}
		res.Latest = latest
	}
	if a.SinceHours > 0 {
		since := time.Now().Add(-time.Duration(a.SinceHours * float64(time.Hour)))
		recent, err := s.history.Since(since)
		if err != nil {
			return nil, err
		}
		res.Recent = recent
	}

	counts, err := s.history.Counts()
	if err != nil {
		return nil, err
	}
	res.Counts = counts
	return res, nil
}
