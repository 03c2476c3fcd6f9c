package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// NewRemoveCommand creates the rm command.
func NewRemoveCommand(app *App, opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Unlock(cmd.Context()); err != nil {
				return err
			}
			return runRemove(cmd, app, opts, id)
		},
	}
}

func runRemove(cmd *cobra.Command, app *App, opts *RootOptions, id int) error {
	if err := app.Store.Remove(id); err != nil {
		return classify("remove record", err)
	}
	if err := app.Save(); err != nil {
		return err
	}
	app.Logger.Info("record removed", "id", id)
	app.Record(cmd.Context(), model.AuditActionRemove, intPtr(id), "")

	return formatter(cmd, opts).Success(map[string]int{"id": id}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Removed record %d\n", id)
		return err
	})
}
