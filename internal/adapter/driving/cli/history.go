package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(app *App, opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent changes to the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return NewExitError(ExitCommandError, "--limit must be positive")
			}
			if app.Audit == nil {
				return NewExitError(ExitFailure, "audit journal is not available")
			}
			if err := app.Unlock(cmd.Context()); err != nil {
				return err
			}
			return runHistory(cmd, app, opts, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of events to show")

	return cmd
}

func runHistory(cmd *cobra.Command, app *App, opts *RootOptions, limit int) error {
	events, err := app.Audit.Recent(cmd.Context(), limit)
	if err != nil {
		return WrapExitError(ExitFailure, "read history", err)
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		id := "-"
		if e.RecordID != nil {
			id = strconv.Itoa(*e.RecordID)
		}
		rows = append(rows, []string{e.CreatedAt.Local().Format(time.DateTime), string(e.Action), id, e.Detail})
	}

	f := formatter(cmd, opts)
	return f.Success(events, func(w io.Writer) error {
		if len(events) == 0 {
			_, err := fmt.Fprintln(w, "No history.")
			return err
		}
		return f.Table([]string{"TIME", "ACTION", "ID", "DETAIL"}, rows)
	})
}
