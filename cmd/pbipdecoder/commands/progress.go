package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"

	"github.com/SanjuDataRepository/PBIP-Decoder/internal/scan"
)

// progress prints the human-readable steps of an extraction.
type progress struct {
	w      io.Writer
	silent bool

	step *color.Color
	ok   *color.Color
	warn *color.Color
}

func newProgress(w io.Writer, silent, noColor bool) *progress {
	p := &progress{
		w:      w,
		silent: silent,
		step:   color.New(color.FgCyan),
		ok:     color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
	}

	if noColor {
		for _, c := range []*color.Color{p.step, p.ok, p.warn} {
			c.DisableColor()
		}
	}

	return p
}

func (p *progress) stepf(format string, args ...any) {
	if p.silent {
		return
	}

	_, _ = p.step.Fprintf(p.w, format+"\n", args...)
}

func (p *progress) rows(n int) {
	if p.silent {
		return
	}

	_, _ = fmt.Fprintf(p.w, "Retrieved: %s Rows\n", humanize.Comma(int64(n)))
}

func (p *progress) skipped(failures []scan.Failure) {
	if p.silent || len(failures) == 0 {
		return
	}

	_, _ = p.warn.Fprintf(p.w, "Skipped %s:\n", english.Plural(len(failures), "document", "documents"))

	for _, failure := range failures {
		_, _ = p.warn.Fprintf(p.w, "  - %v\n", failure)
	}
}

func (p *progress) written(path string) {
	if p.silent {
		return
	}

	if info, err := os.Stat(path); err == nil {
		_, _ = p.ok.Fprintf(p.w, "Data extracted to %s (%s)\n", path, humanize.Bytes(uint64(info.Size()))) //nolint:gosec // file sizes are never negative.

		return
	}

	_, _ = p.ok.Fprintf(p.w, "Data extracted to %s\n", path)
}
