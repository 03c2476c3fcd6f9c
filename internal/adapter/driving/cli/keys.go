package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// NewRotateKeyCommand creates the rotate-key command.
func NewRotateKeyCommand(app *App, opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rotate-key",
		Short: "Re-encrypt the store under a fresh data key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Unlock(cmd.Context()); err != nil {
				return err
			}
			if err := app.Store.RotateKey(); err != nil {
				return classify("rotate key", err)
			}
			app.Logger.Info("data key rotated", "path", app.Config.KeyPath)
			app.Record(cmd.Context(), model.AuditActionRotateKey, nil, "")

			return formatter(cmd, opts).Success(map[string]string{"key_path": app.Config.KeyPath}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "Data key rotated")
				return err
			})
		},
	}
}

// NewPasswdCommand creates the passwd command.
func NewPasswdCommand(app *App, opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the login password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := app.Prompter.Secret(cmd.Context(), "Current password: ")
			if err != nil {
				return WrapExitError(ExitCommandError, "read password", err)
			}
			next, err := promptNewSecret(cmd.Context(), app, "New password: ")
			if err != nil {
				return err
			}
			if err := app.Gate.ChangeSecret(current, next); err != nil {
				return classify("change password", err)
			}
			app.Logger.Info("login password changed", "path", app.Config.LoginPath)
			app.Record(cmd.Context(), model.AuditActionChangeSecret, nil, "")

			return formatter(cmd, opts).Success(map[string]bool{"changed": true}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "Password changed")
				return err
			})
		},
	}
}
