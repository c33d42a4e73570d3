package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/report"
)

// handleDecodeVisual decodes one inline visual document. Action names stay
// empty since a lone visual has no pages or bookmarks to resolve against.
func handleDecodeVisual(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input DecodeVisualInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Visual == "" {
		return errorResult(ErrEmptyVisual)
	}

	if len(input.Visual) > MaxVisualInputBytes {
		return errorResult(fmt.Errorf("%w: %d bytes (max %d)", ErrVisualTooLarge, len(input.Visual), MaxVisualInputBytes))
	}

	doc, err := jsontree.Parse([]byte(input.Visual))
	if err != nil {
		return errorResult(err)
	}

	record := report.BuildVisual(doc, report.Page{ID: input.PageID, Name: input.PageName})

	return jsonResult(record)
}
