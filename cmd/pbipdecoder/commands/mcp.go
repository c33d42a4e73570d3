package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/SanjuDataRepository/PBIP-Decoder/internal/mcp"
	"github.com/SanjuDataRepository/PBIP-Decoder/internal/scan"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/config"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var (
		debug  bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

Tools:
  - pbip_extract: decode a report folder into the Bookmarks and Pages tables
  - pbip_decode_visual: decode one inline visual.json document`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(stringFlag(cobraCmd, flagConfig))
			if err != nil {
				return err
			}

			if debug || boolFlag(cobraCmd, flagVerbose) {
				cfg.Logging.Level = "debug"
			}

			// MCP clients collect stderr as structured logs.
			cfg.Logging.JSON = true

			providers, err := initObservability(cfg, observability.ModeMCP)
			if err != nil {
				return err
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			red, err := observability.NewREDMetrics(providers.Meter)
			if err != nil {
				return err
			}

			extraction, err := observability.NewExtractionMetrics(providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  providers.Logger,
				Metrics: red,
				Tracer:  providers.Tracer,
				Scan:    scan.Deps{Logger: providers.Logger, Tracer: providers.Tracer, Metrics: extraction},
				Strict:  strict || cfg.Input.Strict,
			})

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging to stderr")
	cmd.Flags().BoolVar(&strict, flagStrict, false, "validate document envelopes before extraction")

	return cmd
}
