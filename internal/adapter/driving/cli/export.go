package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/credstash/internal/adapter/driven/export"
	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// NewExportCommand creates the export command.
func NewExportCommand(app *App, opts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every record to a plaintext file",
		Long: `Write every record to a plaintext file named database.<ext> in dir. An
existing file is never overwritten; "database (1).<ext>" and so on are tried
instead. The output is NOT encrypted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return WrapExitError(ExitCommandError, "export", err)
			}
			if err := app.Unlock(cmd.Context()); err != nil {
				return err
			}
			return runExport(cmd, app, opts, args[0], f)
		},
	}

	cmd.Flags().StringVar(&format, "as", string(export.FormatXLSX), "Export format (xlsx|json|csv|yaml|md|html)")

	return cmd
}

func runExport(cmd *cobra.Command, app *App, opts *RootOptions, dir string, format export.Format) error {
	path, err := export.Export(dir, app.Store.Records(), format)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return WrapExitError(ExitCommandError, "export", err)
		}
		return WrapExitError(ExitFailure, "export", err)
	}
	app.Logger.Warn("plaintext export written", "path", path, "count", app.Store.Len())
	app.Record(cmd.Context(), model.AuditActionExport, nil, string(format))

	return formatter(cmd, opts).Success(map[string]string{"path": path}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Exported %d records to %s\n", app.Store.Len(), path)
		return err
	})
}
