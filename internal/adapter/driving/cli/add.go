package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/credstash/internal/application"
	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// NewAddCommand creates the add command.
func NewAddCommand(app *App, opts *RootOptions) *cobra.Command {
	values := make(map[model.Field]*string, len(model.Fields))
	var generate bool
	var length int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record",
		Example: `  credstash add --name github --login octocat --generate
  credstash add --name bank --link https://bank.example --password 'p@ss'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := make(map[string]string, len(values))
			for field, v := range values {
				if cmd.Flags().Changed(flagName(field)) {
					fields[string(field)] = *v
				}
			}
			if fields[string(model.FieldName)] == "" {
				return NewExitError(ExitCommandError, "--name is required")
			}
			if generate {
				if cmd.Flags().Changed("password") {
					return NewExitError(ExitCommandError, "--password and --generate are mutually exclusive")
				}
				pwOpts := application.DefaultPasswordOptions()
				pwOpts.Length = length
				pw, err := application.GeneratePassword(pwOpts)
				if err != nil {
					return classify("generate password", err)
				}
				fields[string(model.FieldPassword)] = pw
			}
			if err := app.Unlock(cmd.Context()); err != nil {
				return err
			}
			return runAdd(cmd, app, opts, model.NewRecord(fields))
		},
	}

	for _, field := range model.Fields {
		values[field] = cmd.Flags().String(flagName(field), "", fmt.Sprintf("Record %s", field))
	}
	cmd.Flags().BoolVar(&generate, "generate", false, "Fill the password with a generated one")
	cmd.Flags().IntVar(&length, "length", application.DefaultPasswordLength, "Length of the generated password")

	return cmd
}

func runAdd(cmd *cobra.Command, app *App, opts *RootOptions, rec model.Record) error {
	id, err := app.Store.InsertOrReplace(rec)
	if err != nil {
		return classify("add record", err)
	}
	if err := app.Save(); err != nil {
		return err
	}
	app.Logger.Info("record added", "id", id)
	app.Record(cmd.Context(), model.AuditActionAdd, intPtr(id), "")

	return formatter(cmd, opts).Success(map[string]int{"id": id}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Added record %d\n", id)
		return err
	})
}

// flagName turns a field name into its flag form, e.g. other_data -> other-data.
func flagName(field model.Field) string {
	return strings.ReplaceAll(string(field), "_", "-")
}
