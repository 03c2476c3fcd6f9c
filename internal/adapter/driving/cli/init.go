package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/credstash/internal/application"
	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// NewInitCommand creates the init command.
func NewInitCommand(app *App, opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty store and set the login password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, app, opts)
		},
	}
}

func runInit(cmd *cobra.Command, app *App, opts *RootOptions) error {
	secret, err := promptNewSecret(cmd.Context(), app, "New password: ")
	if err != nil {
		return err
	}

	if err := application.Initialize(app.StoreFile, app.Gate, secret); err != nil {
		if errors.Is(err, model.ErrAlreadyInitialized) {
			return WrapExitError(ExitCommandError, "store already exists at "+app.Config.DataPath, err)
		}
		return classify("initialize store", err)
	}
	app.Logger.Info("store initialized", "path", app.Config.DataPath)
	app.Record(cmd.Context(), model.AuditActionInit, nil, "")

	return formatter(cmd, opts).Success(map[string]string{"path": app.Config.DataPath}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Initialized empty store at %s\n", app.Config.DataPath)
		return err
	})
}

// promptNewSecret asks for a secret twice and requires both to match.
func promptNewSecret(ctx context.Context, app *App, prompt string) (string, error) {
	secret, err := app.Prompter.Secret(ctx, prompt)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "read password", err)
	}
	repeat, err := app.Prompter.Secret(ctx, "Repeat password: ")
	if err != nil {
		return "", WrapExitError(ExitCommandError, "read password", err)
	}
	if secret != repeat {
		return "", NewExitError(ExitCommandError, "passwords do not match")
	}
	if len(secret) < application.MinSecretLength {
		return "", NewExitError(ExitCommandError, fmt.Sprintf("password must be at least %d characters", application.MinSecretLength))
	}
	return secret, nil
}
