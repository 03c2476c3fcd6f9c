package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/credstash/internal/application"
)

// NewGenerateCommand creates the generate command. It does not touch the store.
func NewGenerateCommand(app *App, opts *RootOptions) *cobra.Command {
	pwOpts := application.DefaultPasswordOptions()
	var noSymbols, noDigits, noUpper, noLower bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pwOpts.Symbols = !noSymbols
			pwOpts.Digits = !noDigits
			pwOpts.Upper = !noUpper
			pwOpts.Lower = !noLower

			pw, err := application.GeneratePassword(pwOpts)
			if err != nil {
				return classify("generate password", err)
			}
			return formatter(cmd, opts).Success(map[string]string{"password": pw}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, pw)
				return err
			})
		},
	}

	cmd.Flags().IntVarP(&pwOpts.Length, "length", "l", application.DefaultPasswordLength, "Password length")
	cmd.Flags().BoolVar(&noSymbols, "no-symbols", false, "Exclude symbols")
	cmd.Flags().BoolVar(&noDigits, "no-digits", false, "Exclude digits")
	cmd.Flags().BoolVar(&noUpper, "no-upper", false, "Exclude upper-case letters")
	cmd.Flags().BoolVar(&noLower, "no-lower", false, "Exclude lower-case letters")

	return cmd
}
