// Package scan reads a PBIP report folder from disk and builds the visual and
// bookmark tables. Every document is processed inside its own error boundary:
// a document that cannot be read, parsed, or extracted is recorded as a
// Failure and skipped.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/observability"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/report"
)

// Kind is the type of a report document.
type Kind string

// Document kinds.
const (
	KindPage     Kind = "page"
	KindVisual   Kind = "visual"
	KindBookmark Kind = "bookmark"
)

var kinds = []Kind{KindPage, KindVisual, KindBookmark}

// ErrExtractPanic wraps a panic raised while building rows from a document.
var ErrExtractPanic = errors.New("extraction panicked")

// Failure records one document excluded from the output.
type Failure struct {
	Path string
	Kind Kind
	Err  error
}

// Error implements error.
func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Kind, f.Path, f.Err)
}

// Unwrap returns the underlying cause.
func (f Failure) Unwrap() error {
	return f.Err
}

// Result is the outcome of a full scan.
type Result struct {
	Visuals   []report.VisualRecord
	Bookmarks []report.BookmarkVisualRecord
	Failures  []Failure
}

// Tables returns the Bookmarks and Pages tables, in workbook order.
func (r Result) Tables() []report.Table {
	return []report.Table{report.BookmarkTable(r.Bookmarks), report.VisualTable(r.Visuals)}
}

// Deps holds the collaborators of a Scanner. Zero values are replaced by
// no-op implementations.
type Deps struct {
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.ExtractionMetrics
}

// Scanner runs the page and bookmark passes over a report.
type Scanner struct {
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *observability.ExtractionMetrics
	validator *Validator
}

// New creates a Scanner. With strict set, every document envelope is checked
// against its embedded schema before extraction.
func New(deps Deps, strict bool) (*Scanner, error) {
	s := &Scanner{logger: deps.Logger, tracer: deps.Tracer, metrics: deps.Metrics}

	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer("scan")
	}

	if strict {
		validator, err := NewValidator()
		if err != nil {
			return nil, err
		}

		s.validator = validator
	}

	return s, nil
}

// Run reads the bookmarks, then the pages, and cross-links the two tables.
// It fails only when src names no directory or ctx is cancelled.
func (s *Scanner) Run(ctx context.Context, src Source) (Result, error) {
	if src.Empty() {
		return Result{}, ErrNoReport
	}

	var result Result

	bookmarks, failures, err := s.Bookmarks(ctx, src.Bookmarks)
	result.Failures = append(result.Failures, failures...)

	if err != nil {
		return result, err
	}

	visuals, failures, err := s.Pages(ctx, src.Pages)
	result.Failures = append(result.Failures, failures...)

	if err != nil {
		return result, err
	}

	result.Visuals, result.Bookmarks = s.Link(ctx, visuals, bookmarks)

	return result, nil
}

// Link cross-links the two tables inside a report.link span and records the
// row counts.
func (s *Scanner) Link(
	ctx context.Context, visuals []report.VisualRecord, bookmarks []report.BookmarkVisualRecord,
) ([]report.VisualRecord, []report.BookmarkVisualRecord) {
	ctx, span := s.tracer.Start(ctx, "report.link")
	defer span.End()

	linkedVisuals, linkedBookmarks := report.Link(visuals, bookmarks)

	span.SetAttributes(
		attribute.Int("pbip.visual_rows", len(linkedVisuals)),
		attribute.Int("pbip.bookmark_rows", len(linkedBookmarks)),
	)

	if s.metrics != nil {
		s.metrics.RecordRows(ctx, report.PagesSheet, len(linkedVisuals))
		s.metrics.RecordRows(ctx, report.BookmarksSheet, len(linkedBookmarks))
	}

	return linkedVisuals, linkedBookmarks
}

// Bookmarks reads every *.json file below dir, recursively and in lexical
// order. An empty dir yields no rows.
func (s *Scanner) Bookmarks(ctx context.Context, dir string) ([]report.BookmarkVisualRecord, []Failure, error) {
	if dir == "" {
		return nil, nil, nil
	}

	ctx, span := s.tracer.Start(ctx, "scan.bookmarks", trace.WithAttributes(attribute.String("pbip.dir", dir)))
	defer span.End()

	start := time.Now()
	defer s.recordPass(ctx, KindBookmark, start)

	var (
		rows     []report.BookmarkVisualRecord
		failures []Failure
	)

	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			failures = append(failures, s.fail(ctx, KindBookmark, path, err))

			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), jsonExtension) {
			return nil
		}

		records, docErr := s.bookmarkDocument(path)
		if docErr != nil {
			failures = append(failures, s.fail(ctx, KindBookmark, path, docErr))

			return nil
		}

		s.succeed(ctx, KindBookmark)

		rows = append(rows, records...)

		return nil
	})
	if walkErr != nil {
		return rows, failures, s.abort(span, fmt.Errorf("scan bookmarks: %w", walkErr))
	}

	span.SetAttributes(attribute.Int("pbip.rows", len(rows)), attribute.Int("pbip.failures", len(failures)))

	return rows, failures, nil
}

// Pages reads <dir>/<page>/page.json and every <page>/visuals/<visual>/visual.json,
// in lexical order. A page whose page.json fails is skipped with its visuals.
func (s *Scanner) Pages(ctx context.Context, dir string) ([]report.VisualRecord, []Failure, error) {
	if dir == "" {
		return nil, nil, nil
	}

	ctx, span := s.tracer.Start(ctx, "scan.pages", trace.WithAttributes(attribute.String("pbip.dir", dir)))
	defer span.End()

	start := time.Now()
	defer s.recordPass(ctx, KindPage, start)

	pageDirs, err := subdirs(dir)
	if err != nil {
		return nil, []Failure{s.fail(ctx, KindPage, dir, err)}, nil
	}

	var (
		rows     []report.VisualRecord
		failures []Failure
	)

	for _, pageDir := range pageDirs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return rows, failures, s.abort(span, ctxErr)
		}

		pagePath := filepath.Join(pageDir, pageFile)
		if !isFile(pagePath) {
			continue
		}

		page, pageErr := s.pageDocument(pagePath)
		if pageErr != nil {
			failures = append(failures, s.fail(ctx, KindPage, pagePath, pageErr))

			continue
		}

		s.succeed(ctx, KindPage)

		visuals, visualFailures, visualErr := s.pageVisuals(ctx, filepath.Join(pageDir, visualsDir), page)
		rows = append(rows, visuals...)
		failures = append(failures, visualFailures...)

		if visualErr != nil {
			return rows, failures, s.abort(span, visualErr)
		}
	}

	span.SetAttributes(attribute.Int("pbip.rows", len(rows)), attribute.Int("pbip.failures", len(failures)))

	return rows, failures, nil
}

func (s *Scanner) pageVisuals(ctx context.Context, dir string, page report.Page) ([]report.VisualRecord, []Failure, error) {
	if existingDir(dir) == "" {
		return nil, nil, nil
	}

	visualDirs, err := subdirs(dir)
	if err != nil {
		return nil, []Failure{s.fail(ctx, KindVisual, dir, err)}, nil
	}

	var (
		rows     []report.VisualRecord
		failures []Failure
	)

	for _, visualDir := range visualDirs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return rows, failures, ctxErr
		}

		path := filepath.Join(visualDir, visualFile)
		if !isFile(path) {
			continue
		}

		record, docErr := s.visualDocument(path, page)
		if docErr != nil {
			failures = append(failures, s.fail(ctx, KindVisual, path, docErr))

			continue
		}

		s.succeed(ctx, KindVisual)

		rows = append(rows, record)
	}

	return rows, failures, nil
}

func (s *Scanner) pageDocument(path string) (report.Page, error) {
	var page report.Page

	err := s.document(KindPage, path, func(doc gjson.Result) {
		page = report.PageInfo(doc)
	})

	return page, err
}

func (s *Scanner) visualDocument(path string, page report.Page) (report.VisualRecord, error) {
	var record report.VisualRecord

	err := s.document(KindVisual, path, func(doc gjson.Result) {
		record = report.BuildVisual(doc, page)
	})

	return record, err
}

func (s *Scanner) bookmarkDocument(path string) ([]report.BookmarkVisualRecord, error) {
	var records []report.BookmarkVisualRecord

	err := s.document(KindBookmark, path, func(doc gjson.Result) {
		records = report.BuildBookmark(doc, filepath.Base(path))
	})

	return records, err
}

// document reads, validates, and parses one file, then runs build on it. A
// panic inside build is turned into an error wrapping ErrExtractPanic.
func (s *Scanner) document(kind Kind, path string, build func(gjson.Result)) (err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	doc, err := jsontree.Parse(data)
	if err != nil {
		return err
	}

	if s.validator != nil {
		if validateErr := s.validator.Validate(kind, []byte(doc.Raw)); validateErr != nil {
			return validateErr
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrExtractPanic, r)
		}
	}()

	build(doc)

	return nil
}

func (s *Scanner) fail(ctx context.Context, kind Kind, path string, err error) Failure {
	failure := Failure{Path: path, Kind: kind, Err: err}

	s.logger.WarnContext(ctx, "skipping document",
		slog.String("kind", string(kind)),
		slog.String("file", filepath.Base(path)),
		slog.String("path", path),
		slog.Any("error", err),
	)

	trace.SpanFromContext(ctx).AddEvent("document.failed", trace.WithAttributes(
		attribute.String("pbip.kind", string(kind)),
		attribute.String("pbip.path", path),
	))

	if s.metrics != nil {
		s.metrics.RecordDocument(ctx, string(kind), observability.StatusError)
	}

	return failure
}

func (s *Scanner) succeed(ctx context.Context, kind Kind) {
	if s.metrics != nil {
		s.metrics.RecordDocument(ctx, string(kind), observability.StatusOK)
	}
}

func (s *Scanner) recordPass(ctx context.Context, kind Kind, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordPass(ctx, string(kind), time.Since(start))
	}
}

func (s *Scanner) abort(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}

// subdirs lists the directories directly under dir in lexical order.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var dirs []string

	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(dir, entry.Name()))
		}
	}

	return dirs, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
