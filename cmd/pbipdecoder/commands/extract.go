package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/observability"
)

// ExtractCommand holds the flags of the extract command.
type ExtractCommand struct {
	flags reportFlags
}

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	ec := &ExtractCommand{}

	cmd := &cobra.Command{
		Use:   "extract [report]",
		Short: "Write the Pages and Bookmarks tables of a report",
		Long: `Read every bookmark and every page of a PBIP report, cross-link them, and
write the Bookmarks and Pages tables.

The report may be the PBIP project folder, its *.Report folder, or the
definition folder. Documents that cannot be decoded are skipped and listed.`,
		Example: `  pbipdecoder extract ./Sales
  pbipdecoder extract ./Sales -f json -o -
  pbipdecoder extract --pages ./pages --bookmarks ./bookmarks -o log.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: ec.run,
	}

	ec.flags.register(cmd)

	return cmd
}

func (ec *ExtractCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd, args, &ec.flags)
	if err != nil {
		return err
	}

	providers, err := initObservability(cfg, observability.ModeCLI)
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	prog := newProgress(cmd.ErrOrStderr(), boolFlag(cmd, flagQuiet), boolFlag(cmd, flagNoColor))

	pl, err := newPipeline(cfg, providers, prog, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	_, _, err = pl.run(cmd.Context())

	return err
}
