package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SanjuDataRepository/PBIP-Decoder/internal/export"
	"github.com/SanjuDataRepository/PBIP-Decoder/internal/scan"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/config"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/observability"
)

// pipeline reads the configured report and writes its tables.
type pipeline struct {
	cfg      *config.Config
	scanner  *scan.Scanner
	tracer   trace.Tracer
	logger   *slog.Logger
	progress *progress
	stdout   io.Writer
}

func newPipeline(cfg *config.Config, providers observability.Providers, prog *progress, stdout io.Writer) (*pipeline, error) {
	metrics, err := observability.NewExtractionMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}

	scanner, err := scan.New(scan.Deps{Logger: providers.Logger, Tracer: providers.Tracer, Metrics: metrics}, cfg.Input.Strict)
	if err != nil {
		return nil, fmt.Errorf("create scanner: %w", err)
	}

	return &pipeline{
		cfg:      cfg,
		scanner:  scanner,
		tracer:   providers.Tracer,
		logger:   providers.Logger,
		progress: prog,
		stdout:   stdout,
	}, nil
}

// source resolves the report directories from the configuration.
func (p *pipeline) source() (scan.Source, error) {
	return scan.Resolve(p.cfg.Input.Report, p.cfg.Input.Pages, p.cfg.Input.Bookmarks)
}

// run performs one extraction: bookmarks, pages, cross-linking, then output.
func (p *pipeline) run(ctx context.Context) (scan.Result, []string, error) {
	ctx, span := p.tracer.Start(ctx, "pbipdecoder.extract", trace.WithAttributes(
		attribute.String("pbip.report", p.cfg.Input.Report),
		attribute.String("pbip.format", p.cfg.Output.Format),
	))
	defer span.End()

	result, paths, err := p.extract(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return result, nil, err
	}

	p.logger.InfoContext(ctx, "extraction complete",
		slog.Int("visual_rows", len(result.Visuals)),
		slog.Int("bookmark_rows", len(result.Bookmarks)),
		slog.Int("failures", len(result.Failures)),
	)

	return result, paths, nil
}

func (p *pipeline) extract(ctx context.Context) (scan.Result, []string, error) {
	var result scan.Result

	src, err := p.source()
	if err != nil {
		return result, nil, err
	}

	p.progress.stepf("Reading Bookmarks")

	bookmarks, failures, err := p.scanner.Bookmarks(ctx, src.Bookmarks)
	result.Failures = append(result.Failures, failures...)

	if err != nil {
		return result, nil, err
	}

	p.progress.rows(len(bookmarks))
	p.progress.stepf("Reading Pages")

	visuals, failures, err := p.scanner.Pages(ctx, src.Pages)
	result.Failures = append(result.Failures, failures...)

	if err != nil {
		return result, nil, err
	}

	p.progress.rows(len(visuals))

	result.Visuals, result.Bookmarks = p.scanner.Link(ctx, visuals, bookmarks)

	p.progress.skipped(result.Failures)
	p.progress.stepf("Generating File")

	paths, err := export.Write(ctx, result.Tables(), export.Options{
		Format: p.cfg.Output.Format,
		Path:   p.cfg.Output.Path,
		Stdout: p.stdout,
		Tracer: p.tracer,
	})
	if err != nil {
		return result, nil, fmt.Errorf("write output: %w", err)
	}

	for _, path := range paths {
		p.progress.written(path)
	}

	return result, paths, nil
}
