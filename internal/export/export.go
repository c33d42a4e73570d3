// Package export writes report tables as an Excel workbook, CSV files, JSON,
// YAML, or a terminal table.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/config"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/report"
)

// StdoutPath selects standard output instead of a file.
const StdoutPath = "-"

const (
	defaultAttempts = 5
	defaultDelay    = 200 * time.Millisecond
)

// Sentinel errors.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrBinaryStdout  = errors.New("xlsx output cannot be written to stdout")
)

// Options controls one export.
type Options struct {
	// Format is one of the config.Format* values.
	Format string
	// Path is the output file, or StdoutPath. For CSV it is the base name of
	// the per-table files.
	Path string
	// Stdout receives output when Path is StdoutPath. Defaults to os.Stdout.
	Stdout io.Writer
	// Tracer records the export.write span.
	Tracer trace.Tracer
	// Attempts bounds retries of a locked or busy output file.
	Attempts uint
	// Delay is the initial backoff between attempts.
	Delay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}

	if o.Tracer == nil {
		o.Tracer = nooptrace.NewTracerProvider().Tracer("export")
	}

	if o.Attempts == 0 {
		o.Attempts = defaultAttempts
	}

	if o.Delay <= 0 {
		o.Delay = defaultDelay
	}

	return o
}

type renderFunc func(w io.Writer, tables []report.Table) error

var renderers = map[string]renderFunc{
	config.FormatXLSX:  RenderXLSX,
	config.FormatJSON:  RenderJSON,
	config.FormatYAML:  RenderYAML,
	config.FormatTable: RenderTable,
	config.FormatCSV:   RenderCSV,
}

// Write renders tables in opts.Format and returns the paths it wrote. Nothing
// is returned for standard output.
func Write(ctx context.Context, tables []report.Table, opts Options) ([]string, error) {
	opts = opts.withDefaults()
	format := strings.ToLower(opts.Format)

	ctx, span := opts.Tracer.Start(ctx, "export.write", trace.WithAttributes(
		attribute.String("pbip.format", format),
		attribute.String("pbip.path", opts.Path),
	))
	defer span.End()

	paths, err := write(ctx, tables, format, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	return paths, nil
}

func write(ctx context.Context, tables []report.Table, format string, opts Options) ([]string, error) {
	render, ok := renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if opts.Path == StdoutPath {
		if format == config.FormatXLSX {
			return nil, ErrBinaryStdout
		}

		return nil, render(opts.Stdout, tables)
	}

	if format == config.FormatCSV {
		return writeCSVFiles(ctx, tables, opts)
	}

	if err := writeFileAtomic(ctx, opts.Path, opts, func(w io.Writer) error { return render(w, tables) }); err != nil {
		return nil, err
	}

	return []string{opts.Path}, nil
}

func writeCSVFiles(ctx context.Context, tables []report.Table, opts Options) ([]string, error) {
	paths := make([]string, 0, len(tables))

	for _, table := range tables {
		path := CSVPath(opts.Path, table.Name)

		err := writeFileAtomic(ctx, path, opts, func(w io.Writer) error { return writeCSV(w, table) })
		if err != nil {
			return paths, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// CSVPath derives the file of one table from the output base path:
// "out/log.csv" and table "Pages" give "out/log_Pages.csv".
func CSVPath(base, sheet string) string {
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	return stem + "_" + sheet + ".csv"
}
