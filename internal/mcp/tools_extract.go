package mcp

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SanjuDataRepository/PBIP-Decoder/internal/export"
	"github.com/SanjuDataRepository/PBIP-Decoder/internal/scan"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/report"
)

// ExtractOutput is the structured result of pbip_extract.
type ExtractOutput struct {
	Bookmarks []report.BookmarkVisualRecord `json:"bookmarks"`
	Pages     []report.VisualRecord         `json:"pages"`
	Failures  []string                      `json:"failures,omitempty"`
}

func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input ExtractInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.ReportPath == "" {
		return errorResult(ErrEmptyReportPath)
	}

	if !filepath.IsAbs(input.ReportPath) {
		return errorResult(fmt.Errorf("%w: %s", ErrReportPathNotAbsolute, input.ReportPath))
	}

	src, err := scan.Resolve(input.ReportPath, input.PagesDir, input.BookmarksDir)
	if err != nil {
		return errorResult(err)
	}

	scanner, err := scan.New(s.scan, s.strict)
	if err != nil {
		return errorResult(fmt.Errorf("create scanner: %w", err))
	}

	result, err := scanner.Run(ctx, src)
	if err != nil {
		return errorResult(err)
	}

	var buf bytes.Buffer
	if renderErr := export.RenderJSON(&buf, result.Tables()); renderErr != nil {
		return errorResult(renderErr)
	}

	output := ExtractOutput{
		Bookmarks: nonNil(result.Bookmarks),
		Pages:     nonNil(result.Visuals),
	}

	for _, failure := range result.Failures {
		output.Failures = append(output.Failures, failure.Error())
	}

	res, out, _ := textResult(buf.String(), output)

	for _, failure := range output.Failures {
		res.Content = append(res.Content, &mcpsdk.TextContent{Text: "skipped " + failure})
	}

	return res, out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
