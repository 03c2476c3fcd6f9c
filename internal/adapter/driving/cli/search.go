package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

type searchItem struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Login string  `json:"login"`
	Score float64 `json:"score"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(app *App, opts *RootOptions) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find records by fuzzy match on any field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				threshold = app.Config.SearchThreshold
			}
			if threshold < 0 || threshold > 1 {
				return NewExitError(ExitCommandError, fmt.Sprintf("--threshold must be within [0,1], got %v", threshold))
			}
			if err := app.Unlock(cmd.Context()); err != nil {
				return err
			}
			return runSearch(cmd, app, opts, args[0], threshold)
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0.8, "Minimum similarity in [0,1]")

	return cmd
}

func runSearch(cmd *cobra.Command, app *App, opts *RootOptions, query string, threshold float64) error {
	results, err := app.Store.Rank(query, threshold)
	if err != nil {
		return classify("search", err)
	}
	app.Logger.Debug("search complete", "count", len(results), "threshold", threshold)

	items := make([]searchItem, 0, len(results))
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		items = append(items, searchItem{ID: r.IDValue(), Name: r.Name, Login: r.Login, Score: r.Score})
		rows = append(rows, []string{strconv.Itoa(r.IDValue()), r.Name, r.Login, fmt.Sprintf("%.2f", r.Score)})
	}

	f := formatter(cmd, opts)
	return f.Success(items, func(w io.Writer) error {
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "No matches.")
			return err
		}
		return f.Table([]string{"ID", "NAME", "LOGIN", "SCORE"}, rows)
	})
}
