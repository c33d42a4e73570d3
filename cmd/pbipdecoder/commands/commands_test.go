package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/SanjuDataRepository/PBIP-Decoder/internal/export"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/config"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/observability"
)

const (
	buttonVisual = `{"name": "v1", "visual": {"visualType": "actionButton",
		"visualContainerObjects": {"visualLink": [{"properties": {
			"type": {"expr": {"Literal": {"Value": "'Bookmark'"}}},
			"bookmark": {"expr": {"Literal": {"Value": "'bm1'"}}}
		}}]}}}`

	executiveBookmark = `{"displayName": "Executive View", "name": "bm1",
		"explorationState": {"activeSection": "p1", "sections": {"p1": {"visualContainers": {
			"v1": {"singleVisual": {"visualType": "actionButton"}}
		}}}}}`
)

func writeFile(t *testing.T, root, path, content string) {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
}

func newReport(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	writeFile(t, root, "Sales.Report/definition/pages/p1/page.json", `{"name": "p1", "displayName": "Overview"}`)
	writeFile(t, root, "Sales.Report/definition/pages/p1/visuals/v1/visual.json", buttonVisual)
	writeFile(t, root, "Sales.Report/definition/bookmarks/bm1.bookmark.json", executiveBookmark)

	return root
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := &cobra.Command{Use: "pbipdecoder", SilenceUsage: true, SilenceErrors: true}
	RegisterGlobalFlags(root)
	root.AddCommand(NewExtractCommand(), NewWatchCommand(), NewMCPCommand())

	var stdout, stderr bytes.Buffer

	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()

	return stdout.String(), stderr.String(), err
}

func TestExtract_JSONToStdout(t *testing.T) {
	t.Parallel()

	stdout, stderr, err := execute(t, "extract", newReport(t), "-f", "json", "-o", "-", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, stdout, `"Action Name": "Bookmark: Executive View"`)
	assert.Contains(t, stdout, `"Bookmark Name": "Executive View"`)

	for _, line := range []string{"Reading Bookmarks", "Retrieved: 1 Rows", "Reading Pages", "Generating File"} {
		assert.Contains(t, stderr, line)
	}

	assert.Less(t, strings.Index(stderr, "Reading Bookmarks"), strings.Index(stderr, "Reading Pages"))
}

func TestExtract_XLSXFile(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "log.xlsx")

	_, stderr, err := execute(t, "extract", "--report", newReport(t), "--output", out, "--no-color")
	require.NoError(t, err)

	assert.FileExists(t, out)
	assert.Contains(t, stderr, "Data extracted to "+out)
}

func TestExtract_QuietAndFailures(t *testing.T) {
	t.Parallel()

	report := newReport(t)
	writeFile(t, report, "Sales.Report/definition/pages/p1/visuals/v2/visual.json", `{"name": `)

	_, stderr, err := execute(t, "extract", report, "-f", "csv", "-o", filepath.Join(t.TempDir(), "log.csv"), "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Skipped 1 document:")

	_, stderr, err = execute(t, "extract", report, "-q", "-f", "yaml", "-o", filepath.Join(t.TempDir(), "log.yaml"))
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestExtract_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "extract", filepath.Join(t.TempDir(), "missing"), "-q")
	require.Error(t, err)

	_, _, err = execute(t, "extract", newReport(t), "-f", "pdf")
	require.ErrorIs(t, err, config.ErrInvalidFormat)

	_, _, err = execute(t, "extract", newReport(t), "-f", "xlsx", "-o", "-", "-q")
	require.ErrorIs(t, err, export.ErrBinaryStdout)
}

func TestLoadSettings_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "pbipdecoder.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("output:\n  format: csv\n  path: from-file.csv\ninput:\n  report: from-file\n"), 0o600))

	var flags reportFlags

	cmd := &cobra.Command{}
	RegisterGlobalFlags(cmd)
	flags.register(cmd)

	require.NoError(t, cmd.ParseFlags([]string{"--config", configPath, "--format", "JSON", "--verbose"}))

	cfg, err := loadSettings(cmd, []string{"from-arg"}, &flags)
	require.NoError(t, err)

	assert.Equal(t, "from-arg", cfg.Input.Report)
	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
	assert.Equal(t, "from-file.csv", cfg.Output.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestDefaultOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{config.FormatXLSX, "pages and bookmarks log.xlsx"},
		{config.FormatJSON, "pages and bookmarks log.json"},
		{config.FormatCSV, "pages and bookmarks log.csv"},
		{config.FormatTable, export.StdoutPath},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, defaultOutputPath(tt.format), tt.format)
	}
}

func TestOwnOutput(t *testing.T) {
	t.Parallel()

	outputs := []string{"out/log.json"}

	assert.True(t, ownOutput([]string{"out/log.json"}, outputs))
	assert.True(t, ownOutput([]string{"./out/log.json"}, outputs))
	assert.False(t, ownOutput([]string{"out/log.json", "pages/p1/page.json"}, outputs))
	assert.False(t, ownOutput([]string{"out/log.json"}, nil))
}

func testProviders() observability.Providers {
	return observability.Providers{
		Tracer:   nooptrace.NewTracerProvider().Tracer("test"),
		Meter:    noopmetric.NewMeterProvider().Meter("test"),
		Logger:   slog.New(slog.DiscardHandler),
		Shutdown: func(context.Context) error { return nil },
	}
}

func TestWatchReport_ReExtractsOnChange(t *testing.T) {
	t.Parallel()

	report := newReport(t)
	out := filepath.Join(t.TempDir(), "log.json")

	cfg := &config.Config{
		Input:  config.InputConfig{Report: report},
		Output: config.OutputConfig{Path: out, Format: config.FormatJSON},
	}

	pl, err := newPipeline(cfg, testProviders(), newProgress(&bytes.Buffer{}, true, true), &bytes.Buffer{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- watchReport(ctx, pl, 50*time.Millisecond) }()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	require.Eventually(t, func() bool {
		data, readErr := os.ReadFile(out)

		return readErr == nil && strings.Contains(string(data), "actionButton")
	}, 5*time.Second, 20*time.Millisecond)

	// Give the watcher time to register its directories.
	time.Sleep(200 * time.Millisecond)

	writeFile(t, report, "Sales.Report/definition/pages/p1/visuals/v1/visual.json",
		`{"name": "v1", "visual": {"visualType": "card"}}`)

	require.Eventually(t, func() bool {
		data, readErr := os.ReadFile(out)

		return readErr == nil && strings.Contains(string(data), `"Visual Type": "card"`)
	}, 5*time.Second, 20*time.Millisecond)
}
