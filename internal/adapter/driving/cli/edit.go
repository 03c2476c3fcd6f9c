package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// NewEditCommand creates the edit command.
func NewEditCommand(app *App, opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <field> <value>",
		Short: "Change one field of a record",
		Long: `Change one field of a record. Valid fields are name, link, login, email,
password, other_data and codes.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := model.ParseField(args[1]); err != nil {
				return WrapExitError(ExitCommandError, "edit record", err)
			}
			if err := app.Unlock(cmd.Context()); err != nil {
				return err
			}
			return runEdit(cmd, app, opts, id, args[1], args[2])
		},
	}
}

func runEdit(cmd *cobra.Command, app *App, opts *RootOptions, id int, field, value string) error {
	rec, err := app.Store.Find(id)
	if err != nil {
		return classify("edit record", err)
	}
	if err := rec.Update(field, value); err != nil {
		return classify("edit record", err)
	}
	if _, err := app.Store.InsertOrReplace(rec); err != nil {
		return classify("edit record", err)
	}
	if err := app.Save(); err != nil {
		return err
	}
	app.Logger.Info("record updated", "id", id, "field", field)
	app.Record(cmd.Context(), model.AuditActionEdit, intPtr(id), field)

	return formatter(cmd, opts).Success(map[string]any{"id": id, "field": field}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Updated %s of record %d\n", field, id)
		return err
	})
}
