// Package mcp exposes the report decoder as Model Context Protocol tools
// served over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/SanjuDataRepository/PBIP-Decoder/internal/scan"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/observability"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/version"
)

const (
	serverName = "pbipdecoder"
	toolCount  = 2

	mcpSpanPrefix  = "mcp."
	traceIDMetaKey = "trace_id"
)

// ServerDeps holds injectable dependencies for the server.
// Zero-value fields use no-op defaults.
type ServerDeps struct {
	// Logger is an optional structured logger.
	Logger *slog.Logger

	// Metrics records one request per tool call. Nil disables it.
	Metrics *observability.REDMetrics

	// Tracer opens one span per tool call. Nil disables it.
	Tracer trace.Tracer

	// Scan is passed to the scanner behind pbip_extract.
	Scan scan.Deps

	// Strict enables envelope schema checks for pbip_extract.
	Strict bool
}

// Server wraps the SDK server with the decoder tools registered.
type Server struct {
	inner   *mcpsdk.Server
	mu      sync.RWMutex
	tools   []string
	metrics *observability.REDMetrics
	tracer  trace.Tracer
	scan    scan.Deps
	strict  bool
}

// NewServer creates a server with every tool registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(&mcpsdk.Implementation{Name: serverName, Version: version.Version}, opts)

	srv := &Server{
		inner:   inner,
		tools:   make([]string, 0, toolCount),
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
		scan:    deps.Scan,
		strict:  deps.Strict,
	}

	if srv.scan.Logger == nil {
		srv.scan.Logger = deps.Logger
	}

	srv.registerExtractTool()
	srv.registerDecodeVisualTool()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := slices.Clone(s.tools)
	slices.Sort(names)

	return names
}

// Run serves on stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport serves on transport until ctx is cancelled or the
// connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	if err := s.inner.Run(ctx, transport); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerExtractTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameExtract,
		Description: extractToolDescription,
	}, withMetrics(s.metrics, ToolNameExtract, withTracing(s.tracer, ToolNameExtract, s.handleExtract)))

	s.trackTool(ToolNameExtract)
}

func (s *Server) registerDecodeVisualTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameDecodeVisual,
		Description: decodeVisualToolDescription,
	}, withMetrics(s.metrics, ToolNameDecodeVisual, withTracing(s.tracer, ToolNameDecodeVisual, handleDecodeVisual)))

	s.trackTool(ToolNameDecodeVisual)
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// withTracing opens a server span per call and appends the trace id to
// sampled results.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			result.Content = append(result.Content, &mcpsdk.TextContent{
				Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String()),
			})
		}

		return result, output, err
	}
}

// withMetrics records a RED sample per call.
func withMetrics[Input any](
	metrics *observability.REDMetrics,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		result, output, err := handler(ctx, req, input)

		status := observability.StatusOK
		if err != nil || (result != nil && result.IsError) {
			status = observability.StatusError
		}

		metrics.RecordRequest(ctx, mcpSpanPrefix+toolName, status, time.Since(start))

		return result, output, err
	}
}

const (
	extractToolDescription = "Decode a Power BI PBIP report folder. " +
		"Returns the Bookmarks and Pages tables as JSON, plus any documents that could not be read."

	decodeVisualToolDescription = "Decode a single visual.json document. " +
		"Returns the visual's type, actions, columns, and filters."
)
