package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/avast/retry-go/v4"
)

// writeFileAtomic renders into a temporary file next to path and renames it
// into place. Filesystem errors are retried with backoff, since a workbook
// open in a spreadsheet application is locked on some platforms. Render
// errors are not retried.
func writeFileAtomic(ctx context.Context, path string, opts Options, render func(io.Writer) error) error {
	err := retry.Do(
		func() error { return replaceFile(path, render) },
		retry.Context(ctx),
		retry.Attempts(opts.Attempts),
		retry.Delay(opts.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func replaceFile(path string, render func(io.Writer) error) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // best effort; gone after a successful rename.

	if renderErr := render(tmp); renderErr != nil {
		_ = tmp.Close()

		return retry.Unrecoverable(renderErr)
	}

	if closeErr := tmp.Close(); closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}

	if renameErr := os.Rename(tmpName, path); renameErr != nil {
		return fmt.Errorf("replace file: %w", renameErr)
	}

	return nil
}
