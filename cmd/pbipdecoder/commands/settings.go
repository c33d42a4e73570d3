// Package commands implements the pbipdecoder subcommands.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SanjuDataRepository/PBIP-Decoder/internal/export"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/config"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/observability"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/version"
)

// Global flag names.
const (
	flagConfig  = "config"
	flagVerbose = "verbose"
	flagQuiet   = "quiet"
	flagNoColor = "no-color"
)

// Report flag names.
const (
	flagReport    = "report"
	flagPages     = "pages"
	flagBookmarks = "bookmarks"
	flagOutput    = "output"
	flagFormat    = "format"
	flagStrict    = "strict"
)

const otlpEndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"

// RegisterGlobalFlags adds the flags shared by every subcommand to root.
func RegisterGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String(flagConfig, "", "config file (default: ./pbipdecoder.yaml or ~/.config/pbipdecoder/pbipdecoder.yaml)")
	flags.BoolP(flagVerbose, "v", false, "verbose output")
	flags.BoolP(flagQuiet, "q", false, "suppress progress output")
	flags.Bool(flagNoColor, false, "disable colored progress output")
}

// reportFlags are the flags of commands that read a report.
type reportFlags struct {
	report    string
	pages     string
	bookmarks string
	output    string
	format    string
	strict    bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.report, flagReport, "r", "", "PBIP project, *.Report folder, or definition folder (default: current directory)")
	cmd.Flags().StringVar(&f.pages, flagPages, "", "pages directory, overriding discovery")
	cmd.Flags().StringVar(&f.bookmarks, flagBookmarks, "", "bookmarks directory, overriding discovery")
	cmd.Flags().StringVarP(&f.output, flagOutput, "o", "", `output file, or "-" for standard output`)
	cmd.Flags().StringVarP(&f.format, flagFormat, "f", "", "output format: "+strings.Join(config.Formats, ", "))
	cmd.Flags().BoolVar(&f.strict, flagStrict, false, "validate document envelopes before extraction")
}

// loadSettings reads the config file and environment, then applies the flags
// the user set. A positional argument names the report.
func loadSettings(cmd *cobra.Command, args []string, flags *reportFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(stringFlag(cmd, flagConfig))
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed

	if changed(flagReport) {
		cfg.Input.Report = flags.report
	}

	if len(args) > 0 {
		cfg.Input.Report = args[0]
	}

	if changed(flagPages) {
		cfg.Input.Pages = flags.pages
	}

	if changed(flagBookmarks) {
		cfg.Input.Bookmarks = flags.bookmarks
	}

	if changed(flagStrict) {
		cfg.Input.Strict = flags.strict
	}

	if changed(flagFormat) {
		cfg.Output.Format = flags.format
	}

	if changed(flagOutput) {
		cfg.Output.Path = flags.output
	}

	if boolFlag(cmd, flagVerbose) {
		cfg.Logging.Level = "debug"
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	if cfg.Output.Path == config.DefaultOutputPath {
		cfg.Output.Path = defaultOutputPath(cfg.Output.Format)
	}

	return cfg, nil
}

// defaultOutputPath keeps the default file name but matches its extension
// to format. Terminal tables go to standard output.
func defaultOutputPath(format string) string {
	switch format {
	case config.FormatXLSX:
		return config.DefaultOutputPath
	case config.FormatTable:
		return export.StdoutPath
	default:
		stem := strings.TrimSuffix(config.DefaultOutputPath, filepath.Ext(config.DefaultOutputPath))

		return stem + "." + format
	}
}

// initObservability starts telemetry for mode from cfg. OTEL_EXPORTER_OTLP_ENDPOINT
// is honoured when no endpoint is configured.
func initObservability(cfg *config.Config, mode observability.AppMode) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.MetricsTextfile = cfg.Telemetry.MetricsTextfile
	obsCfg.LogJSON = cfg.Logging.JSON

	if obsCfg.OTLPEndpoint == "" {
		obsCfg.OTLPEndpoint = os.Getenv(otlpEndpointEnv)
	}

	level, err := observability.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return observability.Providers{}, err
	}

	obsCfg.LogLevel = level

	return observability.Init(obsCfg)
}

func stringFlag(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}

	return value
}

func boolFlag(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}

	return value
}
