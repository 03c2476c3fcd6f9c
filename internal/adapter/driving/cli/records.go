package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

const passwordMask = "********"

type listItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
	Link  string `json:"link"`
}

// NewListCommand creates the list command.
func NewListCommand(app *App, opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Unlock(cmd.Context()); err != nil {
				return err
			}
			return runList(cmd, app, opts)
		},
	}
}

func runList(cmd *cobra.Command, app *App, opts *RootOptions) error {
	records := app.Store.Records()
	items := make([]listItem, 0, len(records))
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		items = append(items, listItem{ID: r.IDValue(), Name: r.Name, Login: r.Login, Link: r.Link})
		rows = append(rows, []string{strconv.Itoa(r.IDValue()), r.Name, r.Login, r.Link})
	}

	f := formatter(cmd, opts)
	return f.Success(items, func(w io.Writer) error {
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "No records.")
			return err
		}
		return f.Table([]string{"ID", "NAME", "LOGIN", "LINK"}, rows)
	})
}

// NewShowCommand creates the show command.
func NewShowCommand(app *App, opts *RootOptions) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Unlock(cmd.Context()); err != nil {
				return err
			}
			return runShow(cmd, app, opts, id, reveal)
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the password in clear")

	return cmd
}

func runShow(cmd *cobra.Command, app *App, opts *RootOptions, id int, reveal bool) error {
	rec, err := app.Store.Find(id)
	if err != nil {
		return classify("show record", err)
	}
	if !reveal && rec.Password != "" {
		rec.Password = passwordMask
	}

	return formatter(cmd, opts).Success(rec, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "%-11s %d\n", "id:", rec.IDValue()); err != nil {
			return err
		}
		for _, field := range model.Fields {
			if _, err := fmt.Fprintf(w, "%-11s %s\n", string(field)+":", rec.Get(field)); err != nil {
				return err
			}
		}
		return nil
	})
}
