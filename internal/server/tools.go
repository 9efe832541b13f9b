package server

import (
	"strings"

	"github.com/ironsheep/image-batch-tools/internal/transform"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var indicesSchema = map[string]interface{}{
	"type":        "array",
	"items":       map[string]interface{}{"type": "integer"},
	"description": "Optional 0-based image indices. All images when omitted. Every index is checked before any image is changed.",
}

var setSchema = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"modified", "original"},
	"description": "Which buffer to read. Default modified",
	"default":     "modified",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Collection lifecycle
		{
			Name:        "collection_open",
			Description: "Load a set of images into memory as the working collection. Replaces (and releases) any collection already open.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"directory": map[string]interface{}{
						"type":        "string",
						"description": "Directory to scan for images. Output names are kept relative to it",
					},
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Explicit image file paths, as an alternative to directory",
					},
					"recursive": map[string]interface{}{
						"type":        "boolean",
						"description": "Descend into subdirectories of directory. Default false",
						"default":     false,
					},
					"extensions": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "File extensions to include, e.g. [\".png\", \".jpg\"]. Default: all supported image types",
					},
				},
			},
		},
		{
			Name:        "collection_info",
			Description: "List the images in the open collection with original and modified dimensions and formats.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "collection_close",
			Description: "Release every buffer held by the open collection.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Processing
		{
			Name:        "collection_scale",
			Description: "Resample original images by a factor and store the results as the modified images. The factor's sign is ignored; edges are sampled by wrapping.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"factor": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor, e.g. 0.5 halves and 2.0 doubles each dimension. Results are clamped to 1-50000 pixels",
					},
					"interpolation": map[string]interface{}{
						"type":        "string",
						"description": "Resampling mode (case-insensitive): NearestNeighbor, Bilinear, Bicubic, HighQualityBilinear, HighQualityBicubic, Low, High, Default. Default HighQualityBicubic",
					},
					"wrap": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"Tile", "TileFlipXY"},
						"description": "Edge sampling: Tile repeats the image, TileFlipXY mirrors it. Default Tile",
						"default":     "Tile",
					},
					"indices": indicesSchema,
				},
				"required": []string{"factor"},
			},
		},
		{
			Name:        "collection_transform",
			Description: "Apply a per-pixel colour preset to original images and store the results as the modified images. Channels are clamped to 0-255; alpha is untouched.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"preset": map[string]interface{}{
						"type":        "string",
						"enum":        transform.PresetNames(),
						"description": "Preset name: " + strings.Join(transform.PresetNames(), ", "),
					},
					"amount": map[string]interface{}{
						"type":        "number",
						"description": "Delta for brightness, factor for contrast and saturate, degrees for hue. Ignored by grayscale and invert",
					},
					"indices": indicesSchema,
				},
				"required": []string{"preset"},
			},
		},
		{
			Name:        "collection_sample_color",
			Description: "Get the exact color of a pixel in one image of the collection. Returns hex, RGB, RGBA, and HSL values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "0-based image index",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
					"set": setSchema,
				},
				"required": []string{"index", "x", "y"},
			},
		},

		// Persistence
		{
			Name:        "collection_save",
			Description: "Encode the collection's images into a destination directory, keeping names relative to the opened directory.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"destination": map[string]interface{}{
						"type":        "string",
						"description": "Output directory",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpeg", "gif", "tiff", "bmp"},
						"description": "Output format. Default png",
						"default":     "png",
					},
					"suffix": map[string]interface{}{
						"type":        "string",
						"description": "Appended to each output file name before the extension, e.g. \"_resized\"",
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "JPEG quality 1-100. Default 95",
						"default":     95,
					},
					"create_dir": map[string]interface{}{
						"type":        "boolean",
						"description": "Create destination if it does not exist. Default false",
						"default":     false,
					},
					"set": setSchema,
					"dispose": map[string]interface{}{
						"type":        "boolean",
						"description": "Close the collection after every image saved successfully. Default false",
						"default":     false,
					},
					"max_concurrency": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum concurrent encodes. Default: number of CPUs",
					},
				},
				"required": []string{"destination"},
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
