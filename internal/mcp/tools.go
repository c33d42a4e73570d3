package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ToolNameExtract      = "pbip_extract"
	ToolNameDecodeVisual = "pbip_decode_visual"
)

// MaxVisualInputBytes bounds inline visual documents (1 MB).
const MaxVisualInputBytes = 1 << 20

// Input validation errors.
var (
	ErrEmptyReportPath       = errors.New("report_path parameter is required and must not be empty")
	ErrReportPathNotAbsolute = errors.New("report_path must be an absolute path")
	ErrEmptyVisual           = errors.New("visual parameter is required and must not be empty")
	ErrVisualTooLarge        = errors.New("visual input exceeds maximum size")
)

// ExtractInput is the input schema of pbip_extract.
type ExtractInput struct {
	ReportPath   string `json:"report_path"             jsonschema:"absolute path to the PBIP project, its .Report folder, or its definition folder"`
	PagesDir     string `json:"pages_dir,omitempty"     jsonschema:"optional pages directory overriding discovery"`
	BookmarksDir string `json:"bookmarks_dir,omitempty" jsonschema:"optional bookmarks directory overriding discovery"`
}

// DecodeVisualInput is the input schema of pbip_decode_visual.
type DecodeVisualInput struct {
	Visual   string `json:"visual"              jsonschema:"contents of a visual.json document"`
	PageID   string `json:"page_id,omitempty"   jsonschema:"optional identifier of the page holding the visual"`
	PageName string `json:"page_name,omitempty" jsonschema:"optional display name of the page holding the visual"`
}

// ToolOutput wraps the structured result of a tool.
type ToolOutput struct {
	Data any `json:"data"`
}

func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		IsError: true,
	}, ToolOutput{}, nil
}

func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return textResult(string(data), value)
}

func textResult(text string, value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
	}, ToolOutput{Data: value}, nil
}
