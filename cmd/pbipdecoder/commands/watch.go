package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SanjuDataRepository/PBIP-Decoder/internal/watch"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/observability"
)

const flagDebounce = "debounce"

// WatchCommand holds the flags of the watch command.
type WatchCommand struct {
	flags    reportFlags
	debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	wc := &WatchCommand{}

	cmd := &cobra.Command{
		Use:   "watch [report]",
		Short: "Rewrite the tables whenever the report changes",
		Long: `Extract once, then watch the pages and bookmarks directories and extract
again each time their JSON documents settle after a change. Stop with Ctrl+C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: wc.run,
	}

	wc.flags.register(cmd)
	cmd.Flags().DurationVar(&wc.debounce, flagDebounce, 0, "quiet period before re-extracting (default from config, 500ms)")

	return cmd
}

func (wc *WatchCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd, args, &wc.flags)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed(flagDebounce) {
		cfg.Watch.Debounce = wc.debounce

		if validateErr := cfg.Validate(); validateErr != nil {
			return validateErr
		}
	}

	providers, err := initObservability(cfg, observability.ModeWatch)
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

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchReport(ctx, pl, cfg.Watch.Debounce)
}

// watchReport extracts once and again after every settled change until ctx
// is done. Changes that only touch files the pipeline wrote are ignored.
func watchReport(ctx context.Context, pl *pipeline, debounce time.Duration) error {
	src, err := pl.source()
	if err != nil {
		return err
	}

	_, outputs, err := pl.run(ctx)
	if err != nil {
		pl.logger.ErrorContext(ctx, "initial extraction failed", slog.Any("error", err))
	}

	watcher := watch.New([]string{src.Pages, src.Bookmarks}, debounce, pl.logger)

	return watcher.Run(ctx, func(ctx context.Context, changed []string) error {
		if ownOutput(changed, outputs) {
			return nil
		}

		pl.logger.InfoContext(ctx, "report changed", slog.Int("files", len(changed)))

		_, written, runErr := pl.run(ctx)
		if runErr != nil {
			return runErr
		}

		outputs = written

		return nil
	})
}

func ownOutput(changed, outputs []string) bool {
	if len(outputs) == 0 {
		return false
	}

	for _, path := range changed {
		if !slices.ContainsFunc(outputs, func(output string) bool { return samePath(path, output) }) {
			return false
		}
	}

	return true
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)

	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}

	return absA == absB
}
