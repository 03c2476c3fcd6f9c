// Package cli implements the credstash command-line interface.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string
}

// NewRootCommand creates the root command with every subcommand attached.
// levelVar, when non-nil, is raised to debug by --verbose.
func NewRootCommand(app *App, levelVar *slog.LevelVar) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "credstash",
		Short: "Local encrypted credential store",
		Long: `credstash keeps website and service credentials in a single encrypted
file on the local disk, protected by a login secret.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid --format %q: must be text or json", opts.Format))
			}
			if opts.Verbose && levelVar != nil {
				levelVar.Set(slog.LevelDebug)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "Output format (text|json)")

	cmd.AddCommand(
		NewInitCommand(app, opts),
		NewListCommand(app, opts),
		NewShowCommand(app, opts),
		NewAddCommand(app, opts),
		NewEditCommand(app, opts),
		NewRemoveCommand(app, opts),
		NewSearchCommand(app, opts),
		NewExportCommand(app, opts),
		NewImportCommand(app, opts),
		NewRotateKeyCommand(app, opts),
		NewPasswdCommand(app, opts),
		NewGenerateCommand(app, opts),
		NewHistoryCommand(app, opts),
	)

	return cmd
}

func formatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}
